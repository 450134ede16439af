package reconciling

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/billing-recon-api/infrastructure/repository/mocks"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/aggregating"
	"github.com/vfg2006/billing-recon-api/internal/usecases/extracting"
	"github.com/vfg2006/billing-recon-api/internal/usecases/resolving"
	"go.uber.org/mock/gomock"
)

var (
	olderSnapshot = time.Date(2020, 2, 1, 10, 0, 0, 0, time.UTC)
	newerSnapshot = time.Date(2020, 2, 2, 10, 0, 0, 0, time.UTC)
)

func reportRecord(insertedAt time.Time, impressions, billable string) domain.ReportRecord {
	return domain.ReportRecord{
		AdvertiserID:   "42",
		AdvertiserName: "Acme Corp",
		CampaignID:     "77",
		CampaignName:   "spring abcd1234",
		LineItemID:     "900",
		LineItemName:   "display",
		Impressions:    impressions,
		Clicks:         "10",
		MediaCost:      "800.00",
		Revenue:        "1100.00",
		BillableCost:   billable,
		Currency:       "USD",
		PeriodStart:    "2020-01-01",
		PeriodEnd:      "2020-01-31",
		InsertedAt:     insertedAt,
	}
}

func invoiceHeaderRecord() domain.InvoiceHeaderRecord {
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
		InsertedAt:    olderSnapshot,
	}
}

func invoiceLineRecord() domain.InvoiceLineItemRecord {
	return domain.InvoiceLineItemRecord{
		InvoiceNumber: "INV-100",
		LineNumber:    "1",
		Description:   "Advertiser: Acme, ID: 42, Campaign: spring ABCD1234, ID: 77",
		Quantity:      "1",
		UnitPrice:     "950.00",
		Amount:        "950.00",
		PeriodStart:   "2020-01-01",
		PeriodEnd:     "2020-01-31",
		InsertedAt:    olderSnapshot,
	}
}

func newTestService(
	reportLogRepo *mocks.MockReportLogRepository,
	invoiceLogRepo *mocks.MockInvoiceLogRepository,
	reconciliationRepo *mocks.MockReconciliationRepository,
) Reconciler {
	extractor := extracting.NewService()

	return NewService(
		reportLogRepo,
		invoiceLogRepo,
		reconciliationRepo,
		resolving.NewService(),
		extractor,
		aggregating.NewService(extractor),
	)
}

func TestRunReconciliation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportLogRepo := mocks.NewMockReportLogRepository(ctrl)
	invoiceLogRepo := mocks.NewMockInvoiceLogRepository(ctrl)
	reconciliationRepo := mocks.NewMockReconciliationRepository(ctrl)

	service := newTestService(reportLogRepo, invoiceLogRepo, reconciliationRepo)

	tests := []struct {
		name     string
		setup    func(published *[]domain.ReconciledRow)
		validate func(t *testing.T, result *RunResult, err error)
	}{
		{
			name: "Snapshot mais novo vence e a variância sai do par casado",
			setup: func(published *[]domain.ReconciledRow) {
				reportLogRepo.EXPECT().
					ListReportRecords().
					Return([]domain.ReportRecord{
						reportRecord(olderSnapshot, "100", "900.00"),
						reportRecord(newerSnapshot, "150", "1000.00"),
					}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceHeaderRecords().
					Return([]domain.InvoiceHeaderRecord{invoiceHeaderRecord()}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceLineRecords().
					Return([]domain.InvoiceLineItemRecord{invoiceLineRecord()}, nil)

				reconciliationRepo.EXPECT().
					ReplaceRun(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, rows []domain.ReconciledRow, _ []domain.AggregatedReportRow) error {
						*published = rows
						return nil
					})
			},
			validate: func(t *testing.T, result *RunResult, err error) {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.NotEmpty(t, result.RunID)
				assert.Equal(t, 1, result.ReportRows)
				assert.Equal(t, 1, result.InvoiceRows)
				assert.Equal(t, 1, result.Summary.Matched)
				assert.Equal(t, "50", result.Summary.TotalVariance.String())
			},
		},
		{
			name: "Falha no ramo de relatórios aborta sem publicar",
			setup: func(published *[]domain.ReconciledRow) {
				reportLogRepo.EXPECT().
					ListReportRecords().
					Return(nil, fmt.Errorf("conexão recusada"))

				invoiceLogRepo.EXPECT().
					ListInvoiceHeaderRecords().
					Return([]domain.InvoiceHeaderRecord{invoiceHeaderRecord()}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceLineRecords().
					Return([]domain.InvoiceLineItemRecord{invoiceLineRecord()}, nil)
			},
			validate: func(t *testing.T, result *RunResult, err error) {
				assert.Error(t, err)
				assert.Nil(t, result)
				assert.Contains(t, err.Error(), "relatórios de entrega")
			},
		},
		{
			name: "Falha no ramo de faturas aborta sem publicar",
			setup: func(published *[]domain.ReconciledRow) {
				reportLogRepo.EXPECT().
					ListReportRecords().
					Return([]domain.ReportRecord{reportRecord(newerSnapshot, "150", "1000.00")}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceHeaderRecords().
					Return(nil, fmt.Errorf("conexão recusada"))
			},
			validate: func(t *testing.T, result *RunResult, err error) {
				assert.Error(t, err)
				assert.Nil(t, result)
				assert.Contains(t, err.Error(), "faturas")
			},
		},
		{
			name: "Feeds vazios publicam execução vazia sem erro",
			setup: func(published *[]domain.ReconciledRow) {
				reportLogRepo.EXPECT().
					ListReportRecords().
					Return([]domain.ReportRecord{}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceHeaderRecords().
					Return([]domain.InvoiceHeaderRecord{}, nil)

				invoiceLogRepo.EXPECT().
					ListInvoiceLineRecords().
					Return([]domain.InvoiceLineItemRecord{}, nil)

				reconciliationRepo.EXPECT().
					ReplaceRun(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, rows []domain.ReconciledRow, _ []domain.AggregatedReportRow) error {
						*published = rows
						return nil
					})
			},
			validate: func(t *testing.T, result *RunResult, err error) {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, 0, result.ReportRows)
				assert.Equal(t, 0, result.InvoiceRows)
				assert.Equal(t, 0, result.Summary.Rows)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var published []domain.ReconciledRow
			tt.setup(&published)

			result, err := service.RunReconciliation(context.Background())
			tt.validate(t, result, err)
		})
	}
}

func TestRunReconciliation_PublicacaoDeterministaEntreExecucoes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportLogRepo := mocks.NewMockReportLogRepository(ctrl)
	invoiceLogRepo := mocks.NewMockInvoiceLogRepository(ctrl)
	reconciliationRepo := mocks.NewMockReconciliationRepository(ctrl)

	service := newTestService(reportLogRepo, invoiceLogRepo, reconciliationRepo)

	reports := []domain.ReportRecord{
		reportRecord(olderSnapshot, "100", "900.00"),
		reportRecord(newerSnapshot, "150", "1000.00"),
	}
	headers := []domain.InvoiceHeaderRecord{invoiceHeaderRecord()}
	lines := []domain.InvoiceLineItemRecord{invoiceLineRecord()}

	reportLogRepo.EXPECT().ListReportRecords().Return(reports, nil).Times(2)
	invoiceLogRepo.EXPECT().ListInvoiceHeaderRecords().Return(headers, nil).Times(2)
	invoiceLogRepo.EXPECT().ListInvoiceLineRecords().Return(lines, nil).Times(2)

	var runs [][]domain.ReconciledRow
	reconciliationRepo.EXPECT().
		ReplaceRun(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, rows []domain.ReconciledRow, _ []domain.AggregatedReportRow) error {
			runs = append(runs, rows)
			return nil
		}).
		Times(2)

	first, err := service.RunReconciliation(context.Background())
	assert.NoError(t, err)

	second, err := service.RunReconciliation(context.Background())
	assert.NoError(t, err)

	// Mesmos logs de entrada produzem exatamente as mesmas linhas publicadas;
	// só o identificador da execução muda
	assert.Len(t, runs, 2)
	assert.Equal(t, runs[0], runs[1])
	assert.NotEqual(t, first.RunID, second.RunID)
}

func TestReconciliation_VisibilidadeVaziaNaoConsultaBanco(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportLogRepo := mocks.NewMockReportLogRepository(ctrl)
	invoiceLogRepo := mocks.NewMockInvoiceLogRepository(ctrl)
	reconciliationRepo := mocks.NewMockReconciliationRepository(ctrl)

	service := newTestService(reportLogRepo, invoiceLogRepo, reconciliationRepo)

	rows, err := service.Reconciliation(domain.ReconciliationFilter{AdvertiserIDs: []string{}})

	assert.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestSummary_ConsolidaLinhasVisiveis(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportLogRepo := mocks.NewMockReportLogRepository(ctrl)
	invoiceLogRepo := mocks.NewMockInvoiceLogRepository(ctrl)
	reconciliationRepo := mocks.NewMockReconciliationRepository(ctrl)

	service := newTestService(reportLogRepo, invoiceLogRepo, reconciliationRepo)

	stored := Reconcile(
		[]domain.AggregatedReportRow{reportRow("42", "77", "", "1000.00")},
		[]domain.AggregatedInvoiceRow{invoiceRow("INV-100", "42", "77", "", "950.00")},
	)

	reconciliationRepo.EXPECT().
		ListReconciledRows(gomock.Any()).
		Return(stored, nil)

	summary, err := service.Summary(domain.ReconciliationFilter{})

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Rows)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, "50", summary.TotalVariance.String())
}

func TestInvoices_ResolveCabecalhosSobDemanda(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	reportLogRepo := mocks.NewMockReportLogRepository(ctrl)
	invoiceLogRepo := mocks.NewMockInvoiceLogRepository(ctrl)
	reconciliationRepo := mocks.NewMockReconciliationRepository(ctrl)

	service := newTestService(reportLogRepo, invoiceLogRepo, reconciliationRepo)

	older := invoiceHeaderRecord()
	older.Subtotal = "900.00"

	newer := invoiceHeaderRecord()
	newer.InsertedAt = newerSnapshot

	invoiceLogRepo.EXPECT().
		ListInvoiceHeaderRecords().
		Return([]domain.InvoiceHeaderRecord{older, newer}, nil)

	invoices, err := service.Invoices()

	assert.NoError(t, err)
	assert.Len(t, invoices, 1)
	assert.Equal(t, "INV-100", invoices[0].InvoiceNumber)
	assert.Equal(t, "950", invoices[0].Subtotal.String())
}
