package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/billing-recon-api/infrastructure/repository/mocks"
	"github.com/vfg2006/billing-recon-api/internal/config"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/aggregating"
	"github.com/vfg2006/billing-recon-api/internal/usecases/extracting"
	"github.com/vfg2006/billing-recon-api/internal/usecases/reconciling"
	"github.com/vfg2006/billing-recon-api/internal/usecases/resolving"
	"go.uber.org/mock/gomock"
)

func reportRecord(insertedAt time.Time) domain.ReportRecord {
	return domain.ReportRecord{
		AdvertiserID:   "42",
		AdvertiserName: "Acme Corp",
		CampaignID:     "77",
		CampaignName:   "spring abcd1234",
		LineItemID:     "900",
		LineItemName:   "display",
		Impressions:    "100",
		Clicks:         "10",
		MediaCost:      "800.00",
		Revenue:        "1100.00",
		BillableCost:   "1000.00",
		Currency:       "USD",
		PeriodStart:    "2020-01-01",
		PeriodEnd:      "2020-01-31",
		InsertedAt:     insertedAt,
	}
}

func invoiceHeaderRecord(insertedAt time.Time) domain.InvoiceHeaderRecord {
	return domain.InvoiceHeaderRecord{
		InvoiceNumber: "INV-100",
		DocumentType:  "invoice",
		InvoiceDate:   "2020-02-05",
		BillingID:     "BILL-9",
		Product:       "media",
		Currency:      "USD",
		Subtotal:      "950.00",
		Total:         "1045.00",
		PeriodStart:   "2020-01-01",
		PeriodEnd:     "2020-01-31",
		InsertedAt:    insertedAt,
	}
}

func invoiceLineRecord(insertedAt time.Time) domain.InvoiceLineItemRecord {
	return domain.InvoiceLineItemRecord{
		InvoiceNumber: "INV-100",
		LineNumber:    "1",
		Description:   "Advertiser: Acme, ID: 42, Campaign: spring ABCD1234, ID: 77",
		Quantity:      "1",
		UnitPrice:     "950.00",
		Amount:        "950.00",
		PeriodStart:   "2020-01-01",
		PeriodEnd:     "2020-01-31",
		InsertedAt:    insertedAt,
	}
}

func TestReconciliationSyncService_RunReconciliation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportLogRepo := mocks.NewMockReportLogRepository(ctrl)
	invoiceLogRepo := mocks.NewMockInvoiceLogRepository(ctrl)
	reconciliationRepo := mocks.NewMockReconciliationRepository(ctrl)

	extractor := extracting.NewService()
	reconciler := reconciling.NewService(
		reportLogRepo,
		invoiceLogRepo,
		reconciliationRepo,
		resolving.NewService(),
		extractor,
		aggregating.NewService(extractor),
	)

	insertedAt := time.Date(2020, 2, 2, 6, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		running  bool
		setup    func()
		validate func(t *testing.T, service *ReconciliationSyncService)
	}{
		{
			name: "Execução bem-sucedida registra o identificador e o resumo",
			setup: func() {
				reportLogRepo.EXPECT().
					ListReportRecords().
					Return([]domain.ReportRecord{reportRecord(insertedAt)}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceHeaderRecords().
					Return([]domain.InvoiceHeaderRecord{invoiceHeaderRecord(insertedAt)}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceLineRecords().
					Return([]domain.InvoiceLineItemRecord{invoiceLineRecord(insertedAt)}, nil)

				reconciliationRepo.EXPECT().
					ReplaceRun(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, service *ReconciliationSyncService) {
				assert.Empty(t, service.lastError)
				assert.NotEmpty(t, service.lastRunID)
				assert.False(t, service.lastSyncStartedAt.IsZero())
				assert.False(t, service.lastSyncCompletedAt.IsZero())

				if assert.NotNil(t, service.lastSummary) {
					assert.Equal(t, 1, service.lastSummary.Rows)
					assert.Equal(t, 1, service.lastSummary.Matched)
				}

				status := service.GetStatus()
				assert.Equal(t, service.lastRunID, status["last_run_id"])
				assert.Equal(t, 1, status["last_rows"])
				assert.Equal(t, 1, status["last_matched"])
			},
		},
		{
			name: "Falha do pipeline registra o erro e não marca conclusão",
			setup: func() {
				reportLogRepo.EXPECT().
					ListReportRecords().
					Return(nil, assert.AnError)

				// O ramo de faturas roda em paralelo e ainda é consultado
				invoiceLogRepo.EXPECT().
					ListInvoiceHeaderRecords().
					Return([]domain.InvoiceHeaderRecord{}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceLineRecords().
					Return([]domain.InvoiceLineItemRecord{}, nil)
			},
			validate: func(t *testing.T, service *ReconciliationSyncService) {
				assert.Contains(t, service.lastError, "relatórios de entrega")
				assert.Empty(t, service.lastRunID)
				assert.Nil(t, service.lastSummary)
				assert.False(t, service.lastSyncStartedAt.IsZero())
				assert.True(t, service.lastSyncCompletedAt.IsZero())
			},
		},
		{
			name:    "Execução já em andamento é ignorada",
			running: true,
			setup:   func() {},
			validate: func(t *testing.T, service *ReconciliationSyncService) {
				assert.True(t, service.syncRunning)
				assert.True(t, service.lastSyncStartedAt.IsZero())
				assert.Empty(t, service.lastRunID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			service := &ReconciliationSyncService{
				config: ReconciliationSyncConfig{
					CronSchedule: "0 6 * * *",
					SyncEnabled:  true,
				},
				reconciler:  reconciler,
				syncRunning: tt.running,
			}

			service.runReconciliation()

			tt.validate(t, service)
		})
	}
}

func TestReconciliationSyncService_StartDesabilitado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportLogRepo := mocks.NewMockReportLogRepository(ctrl)
	invoiceLogRepo := mocks.NewMockInvoiceLogRepository(ctrl)
	reconciliationRepo := mocks.NewMockReconciliationRepository(ctrl)

	extractor := extracting.NewService()
	reconciler := reconciling.NewService(
		reportLogRepo,
		invoiceLogRepo,
		reconciliationRepo,
		resolving.NewService(),
		extractor,
		aggregating.NewService(extractor),
	)

	appConfig := &config.Config{
		ReconciliationSync: config.ReconciliationSync{
			CronSchedule: "0 6 * * *",
			Enabled:      false,
		},
	}

	service := NewReconciliationSyncService(reconciler, appConfig)

	// Desabilitado: Start retorna sem agendar nada e sem tocar nos repositórios
	err := service.Start(context.Background())
	assert.NoError(t, err)

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_enabled"])
	assert.Equal(t, "0 6 * * *", status["sync_cron"])
}
