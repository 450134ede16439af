package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/billing-recon-api/infrastructure/repository/mocks"
	"github.com/vfg2006/billing-recon-api/internal/config"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/access"
	"github.com/vfg2006/billing-recon-api/internal/usecases/resolving"
	"go.uber.org/mock/gomock"
)

func TestAccessSyncService_RunAccessSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	permissionLogRepo := mocks.NewMockPermissionLogRepository(ctrl)
	accessRepo := mocks.NewMockAccessRepository(ctrl)

	appConfig := &config.Config{
		Access: config.Access{
			AdminEmails: []string{"finance@acme.com"},
		},
	}

	resolver := access.NewService(appConfig, permissionLogRepo, accessRepo, resolving.NewService())

	insertedAt := time.Date(2020, 3, 2, 5, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		running  bool
		setup    func()
		validate func(t *testing.T, service *AccessSyncService)
	}{
		{
			name: "Execução bem-sucedida registra concessões e administradores",
			setup: func() {
				permissionLogRepo.EXPECT().
					ListPermissionRecords().
					Return([]domain.PermissionRecord{
						{UserHash: "u1", EntityType: "advertiser", EntityID: "10", InsertedAt: insertedAt},
						{UserHash: "u2", EntityType: "partner", EntityID: "p1", InsertedAt: insertedAt},
					}, nil)

				permissionLogRepo.EXPECT().
					ListAdvertiserLinkRecords().
					Return([]domain.AdvertiserLinkRecord{
						{PartnerID: "p1", PartnerName: "Reseller One", AdvertiserID: "20", AdvertiserName: "Beta", InsertedAt: insertedAt},
					}, nil)

				accessRepo.EXPECT().
					ReplaceAccessData(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			validate: func(t *testing.T, service *AccessSyncService) {
				assert.Empty(t, service.lastError)
				assert.NotEmpty(t, service.lastRunID)
				assert.Equal(t, 2, service.lastGrants)
				assert.Equal(t, 1, service.lastAdmins)
				assert.False(t, service.lastSyncCompletedAt.IsZero())

				status := service.GetStatus()
				assert.Equal(t, service.lastRunID, status["last_run_id"])
				assert.Equal(t, 2, status["last_grants"])
				assert.Equal(t, 1, status["last_admins"])
			},
		},
		{
			name: "Falha na leitura do log registra o erro e não marca conclusão",
			setup: func() {
				permissionLogRepo.EXPECT().
					ListPermissionRecords().
					Return(nil, assert.AnError)
			},
			validate: func(t *testing.T, service *AccessSyncService) {
				assert.Contains(t, service.lastError, "log de permissões")
				assert.Empty(t, service.lastRunID)
				assert.Zero(t, service.lastGrants)
				assert.True(t, service.lastSyncCompletedAt.IsZero())
			},
		},
		{
			name:    "Execução já em andamento é ignorada",
			running: true,
			setup:   func() {},
			validate: func(t *testing.T, service *AccessSyncService) {
				assert.True(t, service.syncRunning)
				assert.True(t, service.lastSyncStartedAt.IsZero())
				assert.Empty(t, service.lastRunID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup()

			service := &AccessSyncService{
				config: AccessSyncConfig{
					CronSchedule: "0 5 * * *",
					SyncEnabled:  true,
				},
				resolver:    resolver,
				syncRunning: tt.running,
			}

			service.runAccessSync()

			tt.validate(t, service)
		})
	}
}

func TestAccessSyncService_StartDesabilitado(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	permissionLogRepo := mocks.NewMockPermissionLogRepository(ctrl)
	accessRepo := mocks.NewMockAccessRepository(ctrl)

	appConfig := &config.Config{
		AccessSync: config.AccessSync{
			CronSchedule: "0 5 * * *",
			Enabled:      false,
		},
	}

	resolver := access.NewService(appConfig, permissionLogRepo, accessRepo, resolving.NewService())
	service := NewAccessSyncService(resolver, appConfig)

	err := service.Start(context.Background())
	assert.NoError(t, err)

	status := service.GetStatus()
	assert.Equal(t, false, status["sync_enabled"])
	assert.Equal(t, "0 5 * * *", status["sync_cron"])
}
