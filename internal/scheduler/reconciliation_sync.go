package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/billing-recon-api/internal/config"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/reconciling"
	"github.com/vfg2006/billing-recon-api/pkg/utils"
)

// ReconciliationSyncConfig representa a configuração do agendador de conciliação
type ReconciliationSyncConfig struct {
	CronSchedule string
	SyncEnabled  bool
}

// ReconciliationSyncService gerencia o agendamento e execução do pipeline de
// conciliação entre entrega e faturamento
type ReconciliationSyncService struct {
	scheduler           *gocron.Scheduler
	config              ReconciliationSyncConfig
	reconciler          reconciling.Reconciler
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
	lastRunID           string
	lastError           string
	lastSummary         *domain.ReconciliationSummary
}

// NewReconciliationSyncService cria uma nova instância do serviço de conciliação agendada
func NewReconciliationSyncService(
	reconciler reconciling.Reconciler,
	appConfig *config.Config,
) *ReconciliationSyncService {
	// Criar a configuração com base na config global
	syncConfig := ReconciliationSyncConfig{
		CronSchedule: appConfig.ReconciliationSync.CronSchedule,
		SyncEnabled:  appConfig.ReconciliationSync.Enabled,
	}

	// Criar o agendador
	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": syncConfig.CronSchedule,
		"sync_enabled":  syncConfig.SyncEnabled,
	}).Info("Configuração do agendador de conciliação carregada")

	return &ReconciliationSyncService{
		scheduler:   scheduler,
		config:      syncConfig,
		reconciler:  reconciler,
		syncRunning: false,
	}
}

// Start inicia o agendador
func (s *ReconciliationSyncService) Start(ctx context.Context) error {
	if !s.config.SyncEnabled {
		logrus.Info("Conciliação agendada desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando agendador de conciliação")

	// Agendar a execução do pipeline
	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		s.runReconciliation()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar a conciliação: %w", err)
	}

	// Executar o agendador em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do agendador quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de conciliação")
		s.scheduler.Stop()
	}()

	return nil
}

// runReconciliation executa o pipeline completo, garantindo uma execução por vez
func (s *ReconciliationSyncService) runReconciliation() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Conciliação já em andamento, ignorando")
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

	logrus.Info("Iniciando execução agendada da conciliação")

	result, err := s.reconciler.RunReconciliation(context.Background())
	if err != nil {
		s.lastError = err.Error()
		logrus.WithError(err).Error("Erro na execução agendada da conciliação")
		return
	}

	s.lastError = ""
	s.lastRunID = result.RunID
	s.lastSummary = &result.Summary

	logrus.Debugf("Resumo da conciliação: %s", utils.PrettyJson(result.Summary))

	duration := time.Since(startTime)
	logrus.WithFields(logrus.Fields{
		"duration":        duration.String(),
		"run_id":          result.RunID,
		"rows_reconciled": result.Summary.Rows,
	}).Info("Conciliação agendada concluída")

	s.lastSyncCompletedAt = time.Now()
}

// TriggerManualSync inicia manualmente uma execução da conciliação
func (s *ReconciliationSyncService) TriggerManualSync() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Conciliação já em andamento, ignorando solicitação manual")
		return
	}
	s.syncMutex.Unlock()

	logrus.Info("Iniciando conciliação manual")
	go s.runReconciliation()
}

// GetStatus retorna o status atual do agendador
func (s *ReconciliationSyncService) GetStatus() map[string]any {
	status := map[string]any{
		"sync_enabled":           s.config.SyncEnabled,
		"sync_cron":              s.config.CronSchedule,
		"last_sync_started_at":   s.lastSyncStartedAt,
		"last_sync_completed_at": s.lastSyncCompletedAt,
		"last_run_id":            s.lastRunID,
		"last_error":             s.lastError,
	}

	if s.lastSummary != nil {
		status["last_rows"] = s.lastSummary.Rows
		status["last_matched"] = s.lastSummary.Matched
		status["last_report_only"] = s.lastSummary.ReportOnly
		status["last_invoice_only"] = s.lastSummary.InvoiceOnly
	}

	return status
}
