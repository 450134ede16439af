package reconciling

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/billing-recon-api/infrastructure/repository"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/aggregating"
	"github.com/vfg2006/billing-recon-api/internal/usecases/extracting"
	"github.com/vfg2006/billing-recon-api/internal/usecases/resolving"
	"github.com/vfg2006/billing-recon-api/pkg/utils"
)

// Reconciler executa o pipeline de conciliação e atende as consultas de
// leitura sobre o resultado publicado
type Reconciler interface {
	RunReconciliation(ctx context.Context) (*RunResult, error)
	Reconciliation(filter domain.ReconciliationFilter) ([]domain.ReconciledRow, error)
	Summary(filter domain.ReconciliationFilter) (*domain.ReconciliationSummary, error)
	Delivery(filter domain.ReconciliationFilter) ([]domain.AggregatedReportRow, error)
	Invoices() ([]domain.InvoiceHeaderFact, error)
}

// RunResult resume uma execução publicada do pipeline
type RunResult struct {
	RunID       string                       `json:"run_id"`
	StartedAt   time.Time                    `json:"started_at"`
	FinishedAt  time.Time                    `json:"finished_at"`
	ReportRows  int                          `json:"report_rows"`
	InvoiceRows int                          `json:"invoice_rows"`
	Summary     domain.ReconciliationSummary `json:"summary"`
}

type Service struct {
	reportLogRepository      repository.ReportLogRepository
	invoiceLogRepository     repository.InvoiceLogRepository
	reconciliationRepository repository.ReconciliationRepository
	resolver                 resolving.Resolver
	extractor                extracting.Extractor
	aggregator               aggregating.Aggregator
}

// NewService cria uma nova instância do serviço de conciliação
func NewService(
	reportLogRepo repository.ReportLogRepository,
	invoiceLogRepo repository.InvoiceLogRepository,
	reconciliationRepo repository.ReconciliationRepository,
	resolver resolving.Resolver,
	extractor extracting.Extractor,
	aggregator aggregating.Aggregator,
) Reconciler {
	return &Service{
		reportLogRepository:      reportLogRepo,
		invoiceLogRepository:     invoiceLogRepo,
		reconciliationRepository: reconciliationRepo,
		resolver:                 resolver,
		extractor:                extractor,
		aggregator:               aggregator,
	}
}

// RunReconciliation materializa os dois lados a partir dos logs brutos, cruza
// e publica o resultado em uma única transação. Qualquer falha de ramo aborta
// a execução sem publicar nada: o resultado anterior permanece intacto.
func (s *Service) RunReconciliation(ctx context.Context) (*RunResult, error) {
	runID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar o identificador da execução: %w", err)
	}

	logger := logrus.WithFields(logrus.Fields{
		"job":    "reconciliation",
		"run_id": runID,
	})

	startedAt := time.Now()
	logger.Info("Iniciando execução do pipeline de conciliação")

	// Variáveis para armazenar os resultados de cada ramo
	var (
		reportRows   []domain.AggregatedReportRow
		invoiceRows  []domain.AggregatedInvoiceRow
		reportError  error
		invoiceError error
	)

	// Usar WaitGroup para esperar os dois ramos terminarem
	wg := sync.WaitGroup{}
	wg.Add(2)

	// Goroutine para montar o lado de entrega (relatórios)
	go func() {
		defer wg.Done()
		reportRows, reportError = s.buildReportSide()
	}()

	// Goroutine para montar o lado de cobrança (faturas)
	go func() {
		defer wg.Done()
		invoiceRows, invoiceError = s.buildInvoiceSide()
	}()

	// A junção só começa depois que os dois ramos terminaram
	wg.Wait()

	if reportError != nil {
		return nil, fmt.Errorf("erro ao montar o lado de relatórios de entrega: %w", reportError)
	}

	if invoiceError != nil {
		return nil, fmt.Errorf("erro ao montar o lado de faturas: %w", invoiceError)
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("execução cancelada antes da publicação: %w", err)
	}

	reconciled := Reconcile(reportRows, invoiceRows)

	if err := s.reconciliationRepository.ReplaceRun(ctx, runID, reconciled, reportRows); err != nil {
		return nil, fmt.Errorf("erro ao publicar a execução %s: %w", runID, err)
	}

	summary := Summarize(reconciled)

	logger.WithFields(logrus.Fields{
		"rows_report":       len(reportRows),
		"rows_invoice":      len(invoiceRows),
		"rows_reconciled":   summary.Rows,
		"rows_matched":      summary.Matched,
		"rows_report_only":  summary.ReportOnly,
		"rows_invoice_only": summary.InvoiceOnly,
	}).Info("Pipeline de conciliação publicado")

	return &RunResult{
		RunID:       runID,
		StartedAt:   startedAt,
		FinishedAt:  time.Now(),
		ReportRows:  len(reportRows),
		InvoiceRows: len(invoiceRows),
		Summary:     summary,
	}, nil
}

func (s *Service) buildReportSide() ([]domain.AggregatedReportRow, error) {
	records, err := s.reportLogRepository.ListReportRecords()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar o log de relatórios: %w", err)
	}

	facts := s.resolver.ResolveReports(records)

	return s.aggregator.ReportRows(facts), nil
}

func (s *Service) buildInvoiceSide() ([]domain.AggregatedInvoiceRow, error) {
	headerRecords, err := s.invoiceLogRepository.ListInvoiceHeaderRecords()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar o log de cabeçalhos de fatura: %w", err)
	}

	lineRecords, err := s.invoiceLogRepository.ListInvoiceLineRecords()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar o log de itens de fatura: %w", err)
	}

	headers := s.resolver.ResolveInvoiceHeaders(headerRecords)
	lines := s.resolver.ResolveInvoiceLines(lineRecords)

	// As entidades vêm da descrição livre de cada item, antes da agregação
	for i := range lines {
		lines[i].Entities = s.extractor.ExtractEntities(lines[i].Description)
	}

	return s.aggregator.InvoiceRows(lines, headers), nil
}

// Reconciliation retorna as linhas conciliadas publicadas, aplicando o filtro
// de consulta e o recorte de visibilidade do usuário
func (s *Service) Reconciliation(filter domain.ReconciliationFilter) ([]domain.ReconciledRow, error) {
	// Visibilidade vazia (não-nula) significa nenhum anunciante liberado
	if filter.AdvertiserIDs != nil && len(filter.AdvertiserIDs) == 0 {
		return []domain.ReconciledRow{}, nil
	}

	rows, err := s.reconciliationRepository.ListReconciledRows(filter)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar linhas conciliadas: %w", err)
	}

	return rows, nil
}

// Summary consolida as linhas visíveis ao chamador em contagens e totais
func (s *Service) Summary(filter domain.ReconciliationFilter) (*domain.ReconciliationSummary, error) {
	rows, err := s.Reconciliation(filter)
	if err != nil {
		return nil, err
	}

	summary := Summarize(rows)

	return &summary, nil
}

// Delivery retorna as linhas agregadas de entrega publicadas pela última
// execução, no mesmo recorte de visibilidade das consultas de conciliação
func (s *Service) Delivery(filter domain.ReconciliationFilter) ([]domain.AggregatedReportRow, error) {
	if filter.AdvertiserIDs != nil && len(filter.AdvertiserIDs) == 0 {
		return []domain.AggregatedReportRow{}, nil
	}

	rows, err := s.reconciliationRepository.ListAggregatedReportRows(filter)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar linhas agregadas de entrega: %w", err)
	}

	return rows, nil
}

// Invoices resolve o log bruto de cabeçalhos na visão corrente das faturas.
// A leitura é feita sob demanda: cabeçalhos não participam da publicação.
func (s *Service) Invoices() ([]domain.InvoiceHeaderFact, error) {
	records, err := s.invoiceLogRepository.ListInvoiceHeaderRecords()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar o log de cabeçalhos de fatura: %w", err)
	}

	return s.resolver.ResolveInvoiceHeaders(records), nil
}
