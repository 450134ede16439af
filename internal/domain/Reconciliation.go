package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleCodeUnknown é o sentinela para caminho de entidade cujo nome de
// campanha não carrega código de agendamento; mantém o grupo agregável em vez
// de descartá-lo.
const ScheduleCodeUnknown = "unknown"

// AggregatedReportRow é uma linha de veiculação agregada ao grão
// anunciante/campanha/ordem de inserção/período. Componente de caminho
// ausente é representado por string vazia, de modo que ausente==ausente casa
// no cruzamento. Atributos não numéricos vêm de uma linha representativa
// determinística do grupo.
type AggregatedReportRow struct {
	AdvertiserID       string          `json:"advertiser_id"`
	CampaignID         string          `json:"campaign_id"`
	InsertionOrderID   string          `json:"insertion_order_id"`
	AdvertiserName     string          `json:"advertiser_name"`
	CampaignName       string          `json:"campaign_name"`
	InsertionOrderName string          `json:"insertion_order_name"`
	ScheduleCode       string          `json:"schedule_code"`
	Currency           string          `json:"currency"`
	PeriodStart        *time.Time      `json:"period_start"`
	PeriodEnd          *time.Time      `json:"period_end"`
	Impressions        int64           `json:"impressions"`
	Clicks             int64           `json:"clicks"`
	MediaCost          decimal.Decimal `json:"media_cost"`
	Revenue            decimal.Decimal `json:"revenue"`
	BillableCost       decimal.Decimal `json:"billable_cost"`
	SourceRows         int             `json:"source_rows"`
}

// AggregatedInvoiceRow é o lado de fatura agregado ao mesmo grão. O número de
// fatura é atributo representativo (mínimo do grupo), não chave: um caminho
// faturado em mais de um documento soma tudo numa linha só.
type AggregatedInvoiceRow struct {
	InvoiceNumber      string          `json:"invoice_number"`
	InvoiceDate        *time.Time      `json:"invoice_date"`
	AdvertiserID       string          `json:"advertiser_id"`
	CampaignID         string          `json:"campaign_id"`
	InsertionOrderID   string          `json:"insertion_order_id"`
	AdvertiserName     string          `json:"advertiser_name"`
	CampaignName       string          `json:"campaign_name"`
	InsertionOrderName string          `json:"insertion_order_name"`
	ScheduleCode       string          `json:"schedule_code"`
	FeeReason          string          `json:"fee_reason"`
	Currency           string          `json:"currency"`
	PeriodEnd          *time.Time      `json:"period_end"`
	Amount             decimal.Decimal `json:"amount"`
	SourceRows         int             `json:"source_rows"`
}

// MatchSide etiqueta o resultado do cruzamento de um grupo.
type MatchSide string

const (
	MatchBoth        MatchSide = "both"
	MatchReportOnly  MatchSide = "report_only"
	MatchInvoiceOnly MatchSide = "invoice_only"
)

// ReconciledRow é a união etiquetada do cruzamento: cada lado só existe
// quando o grupo correspondente existe. Isso torna "variância ausente"
// estruturalmente distinta de "variância zero" — linha sem contraparte ainda
// não é conciliável, o que é diferente de conciliada com delta zero.
type ReconciledRow struct {
	Side    MatchSide             `json:"side"`
	Report  *AggregatedReportRow  `json:"report,omitempty"`
	Invoice *AggregatedInvoiceRow `json:"invoice,omitempty"`
}

// Variance é custo faturável veiculado menos valor faturado; definida apenas
// quando os dois lados existem.
func (r ReconciledRow) Variance() *decimal.Decimal {
	if r.Report == nil || r.Invoice == nil {
		return nil
	}

	v := r.Report.BillableCost.Sub(r.Invoice.Amount)

	return &v
}

// InvoiceNumber retorna o número de fatura da linha, vazio quando só há lado
// de relatório.
func (r ReconciledRow) InvoiceNumber() string {
	if r.Invoice == nil {
		return ""
	}

	return r.Invoice.InvoiceNumber
}

// AdvertiserID vem da chave de cruzamento, igual nos dois lados quando ambos
// existem.
func (r ReconciledRow) AdvertiserID() string {
	if r.Invoice != nil {
		return r.Invoice.AdvertiserID
	}
	if r.Report != nil {
		return r.Report.AdvertiserID
	}

	return ""
}

func (r ReconciledRow) CampaignID() string {
	if r.Invoice != nil {
		return r.Invoice.CampaignID
	}
	if r.Report != nil {
		return r.Report.CampaignID
	}

	return ""
}

func (r ReconciledRow) InsertionOrderID() string {
	if r.Invoice != nil {
		return r.Invoice.InsertionOrderID
	}
	if r.Report != nil {
		return r.Report.InsertionOrderID
	}

	return ""
}

func (r ReconciledRow) PeriodEnd() *time.Time {
	if r.Invoice != nil {
		return r.Invoice.PeriodEnd
	}
	if r.Report != nil {
		return r.Report.PeriodEnd
	}

	return nil
}

// Atributos presentes nos dois lados resolvem com prioridade para o lado de
// fatura, caindo para o relatório quando o lado de fatura está ausente.

func (r ReconciledRow) AdvertiserName() string {
	return r.coalesce(
		func(i *AggregatedInvoiceRow) string { return i.AdvertiserName },
		func(p *AggregatedReportRow) string { return p.AdvertiserName },
	)
}

func (r ReconciledRow) CampaignName() string {
	return r.coalesce(
		func(i *AggregatedInvoiceRow) string { return i.CampaignName },
		func(p *AggregatedReportRow) string { return p.CampaignName },
	)
}

func (r ReconciledRow) InsertionOrderName() string {
	return r.coalesce(
		func(i *AggregatedInvoiceRow) string { return i.InsertionOrderName },
		func(p *AggregatedReportRow) string { return p.InsertionOrderName },
	)
}

func (r ReconciledRow) ScheduleCode() string {
	code := r.coalesce(
		func(i *AggregatedInvoiceRow) string { return i.ScheduleCode },
		func(p *AggregatedReportRow) string { return p.ScheduleCode },
	)
	if code == "" {
		return ScheduleCodeUnknown
	}

	return code
}

func (r ReconciledRow) Currency() string {
	return r.coalesce(
		func(i *AggregatedInvoiceRow) string { return i.Currency },
		func(p *AggregatedReportRow) string { return p.Currency },
	)
}

func (r ReconciledRow) coalesce(fromInvoice func(*AggregatedInvoiceRow) string, fromReport func(*AggregatedReportRow) string) string {
	if r.Invoice != nil {
		if v := fromInvoice(r.Invoice); v != "" {
			return v
		}
	}
	if r.Report != nil {
		return fromReport(r.Report)
	}

	return ""
}

// ReconciliationFilter restringe consultas às linhas conciliadas.
// AdvertiserIDs nulo significa sem restrição de visibilidade (administrador);
// fatia vazia não-nula significa nenhum anunciante visível.
type ReconciliationFilter struct {
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
	Side          *MatchSide
	InvoiceNumber *string
	AdvertiserIDs []string
}

// ReconciliationSummary consolida contagens e totais por lado do cruzamento.
type ReconciliationSummary struct {
	Rows          int             `json:"rows"`
	Matched       int             `json:"matched"`
	ReportOnly    int             `json:"report_only"`
	InvoiceOnly   int             `json:"invoice_only"`
	ReportTotal   decimal.Decimal `json:"report_total"`
	InvoicedTotal decimal.Decimal `json:"invoiced_total"`
	TotalVariance decimal.Decimal `json:"total_variance"`
}
