package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/billing-recon-api/internal/config"
	"github.com/vfg2006/billing-recon-api/internal/usecases/access"
)

// AccessSyncConfig representa a configuração do agendador de sincronização de acessos
type AccessSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// AccessSyncService gerencia o agendamento e execução da sincronização de
// concessões de acesso dos usuários aos anunciantes
type AccessSyncService struct {
	scheduler           *gocron.Scheduler
	config              AccessSyncConfig
	resolver            access.ScopeResolver
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
	lastError           string
	lastGrants          int
	lastAdmins          int
}

// NewAccessSyncService cria uma nova instância do serviço de sincronização de acessos
func NewAccessSyncService(
	resolver access.ScopeResolver,
	appConfig *config.Config,
) *AccessSyncService {
	// Criar a configuração com base na config global
	syncConfig := AccessSyncConfig{
		CronSchedule: appConfig.AccessSync.CronSchedule,
		SyncEnabled:  appConfig.AccessSync.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de acessos carregada")

	return &AccessSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		resolver:    resolver,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *AccessSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Sincronização de acessos desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de acessos")

	// Agendar a execução da sincronização
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runAccessSync()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar a sincronização de acessos: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de acessos")
		s.scheduler.Stop()
	}()

	return nil
}

// runAccessSync executa a sincronização, garantindo uma execução por vez
func (s *AccessSyncService) runAccessSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de acessos já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.syncMutex.Unlock()

	startTime := time.Now()
	s.lastSyncStartedAt = startTime

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando execução agendada da sincronização de acessos")

	result, err := s.resolver.RunAccessSync(context.Background())
	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Erro na execução agendada da sincronização de acessos")
		return
	}

	s.lastError = ""
	s.lastRunID = result.RunID
	s.lastGrants = result.Grants
	s.lastAdmins = result.Admins

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration":    duration.String(),
		"run_id":      result.RunID,
		"rows_grants": result.Grants,
		"rows_admins": result.Admins,
	}).Info("Sincronização de acessos concluída")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync inicia manualmente uma sincronização de acessos
func (s *AccessSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Sincronização de acessos já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando sincronização de acessos manual")
	go s.runAccessSync()
}

// GetStatus retorna o status atual do agendador
func (s *AccessSyncService) GetStatus() map[string]any {
	return map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_run_id":            s.lastRunID,
		"last_error":             s.lastError,
		"last_grants":            s.lastGrants,
		"last_admins":            s.lastAdmins,
	}
}
