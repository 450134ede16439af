package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/billing-recon-api/infrastructure/database/postgres"
	"github.com/vfg2006/billing-recon-api/infrastructure/repository"
	"github.com/vfg2006/billing-recon-api/internal/api"
	"github.com/vfg2006/billing-recon-api/internal/config"
	"github.com/vfg2006/billing-recon-api/internal/scheduler"
	"github.com/vfg2006/billing-recon-api/internal/usecases/access"
	"github.com/vfg2006/billing-recon-api/internal/usecases/aggregating"
	"github.com/vfg2006/billing-recon-api/internal/usecases/authenticating"
	"github.com/vfg2006/billing-recon-api/internal/usecases/extracting"
	"github.com/vfg2006/billing-recon-api/internal/usecases/reconciling"
	"github.com/vfg2006/billing-recon-api/internal/usecases/resolving"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgConn := pgconn(ctx, cfg.Database)
	defer pgConn.Close()

	reportLogRepo := repository.NewReportLogRepository(pgConn)
	invoiceLogRepo := repository.NewInvoiceLogRepository(pgConn)
	reconciliationRepo := repository.NewReconciliationRepository(pgConn)
	permissionLogRepo := repository.NewPermissionLogRepository(pgConn)
	accessRepo := repository.NewAccessRepository(pgConn)
	userRepo := repository.NewUserRepository(pgConn)

	authenticator := authenticating.NewService(userRepo, cfg)

	resolver := resolving.NewService()
	extractor := extracting.NewService()
	aggregator := aggregating.NewService(extractor)

	reconciler := reconciling.NewService(
		reportLogRepo,
		invoiceLogRepo,
		reconciliationRepo,
		resolver,
		extractor,
		aggregator,
	)

	scopeResolver := access.NewService(cfg, permissionLogRepo, accessRepo, resolver)

	// Inicializa os agendadores de sincronização separados
	reconciliationSyncService := scheduler.NewReconciliationSyncService(reconciler, cfg)
	accessSyncService := scheduler.NewAccessSyncService(scopeResolver, cfg)

	// Inicia os agendadores em background
	if err := reconciliationSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de conciliação")
	} else {
		logrus.Info("Agendador de conciliação iniciado com sucesso")
	}

	if err := accessSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de sincronização de acessos")
	} else {
		logrus.Info("Agendador de sincronização de acessos iniciado com sucesso")
	}

	server, err := api.New(
		cfg,
		reconciler,
		scopeResolver,
		authenticator,
		reconciliationSyncService,
		accessSyncService,
	)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// pgconn cria uma conexão com o banco de dados
func pgconn(ctx context.Context, dbConfig config.Database) *postgres.Connection {
	conn, err := postgres.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	err = conn.Ping(ctx)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return conn
}
