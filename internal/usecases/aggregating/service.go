package aggregating

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/extracting"
)

const dateKeyLayout = "2006-01-02"

// Aggregator soma as métricas de cada lado ao grão comum
// anunciante/campanha/ordem de inserção/período. Nenhum grupo é descartado,
// nem com linha única ou métricas zeradas.
type Aggregator interface {
	ReportRows(facts []domain.ReportFact) []domain.AggregatedReportRow
	InvoiceRows(lines []domain.InvoiceLineFact, headers []domain.InvoiceHeaderFact) []domain.AggregatedInvoiceRow
}

type Service struct {
	extractor extracting.Extractor
}

func NewService(extractor extracting.Extractor) Aggregator {
	return &Service{extractor: extractor}
}

// ReportRows colapsa os itens de linha do relatório ao grão de conciliação.
// A entrada chega ordenada por chave natural do resolvedor; a primeira linha
// de cada grupo nessa ordem é a representante determinística dos atributos
// não numéricos.
func (s *Service) ReportRows(facts []domain.ReportFact) []domain.AggregatedReportRow {
	groups := make(map[string]*domain.AggregatedReportRow)
	order := make([]string, 0)

	for _, fact := range facts {
		key := strings.Join([]string{
			fact.AdvertiserID,
			fact.CampaignID,
			fact.InsertionOrderID,
			dateKey(fact.PeriodStart),
			dateKey(fact.PeriodEnd),
		}, "\x1f")

		row, ok := groups[key]
		if !ok {
			row = &domain.AggregatedReportRow{
				AdvertiserID:       fact.AdvertiserID,
				CampaignID:         fact.CampaignID,
				InsertionOrderID:   fact.InsertionOrderID,
				AdvertiserName:     fact.AdvertiserName,
				CampaignName:       fact.CampaignName,
				InsertionOrderName: fact.InsertionOrderName,
				ScheduleCode:       s.extractor.ScheduleCode(fact.CampaignName),
				Currency:           fact.Currency,
				PeriodStart:        fact.PeriodStart,
				PeriodEnd:          fact.PeriodEnd,
			}
			groups[key] = row
			order = append(order, key)
		}

		if fact.Impressions != nil {
			row.Impressions += *fact.Impressions
		}
		if fact.Clicks != nil {
			row.Clicks += *fact.Clicks
		}
		row.MediaCost = addIfPresent(row.MediaCost, fact.MediaCost)
		row.Revenue = addIfPresent(row.Revenue, fact.Revenue)
		row.BillableCost = addIfPresent(row.BillableCost, fact.BillableCost)
		row.SourceRows++
	}

	sort.Strings(order)

	rows := make([]domain.AggregatedReportRow, 0, len(order))
	for _, key := range order {
		rows = append(rows, *groups[key])
	}

	logrus.WithFields(logrus.Fields{
		"feed":        "reports",
		"rows_input":  len(facts),
		"rows_output": len(rows),
	}).Debug("Relatórios agregados ao grão de conciliação")

	return rows
}

// InvoiceRows colapsa os itens de fatura já decorados pela extração de
// entidades. O número de fatura é atributo representativo (mínimo do grupo),
// não chave; data e moeda vêm do cabeçalho resolvido desse documento.
func (s *Service) InvoiceRows(lines []domain.InvoiceLineFact, headers []domain.InvoiceHeaderFact) []domain.AggregatedInvoiceRow {
	headersByNumber := make(map[string]domain.InvoiceHeaderFact, len(headers))
	for _, header := range headers {
		headersByNumber[header.InvoiceNumber] = header
	}

	groups := make(map[string]*domain.AggregatedInvoiceRow)
	order := make([]string, 0)
	lineTotals := make(map[string]decimal.Decimal)

	for _, line := range lines {
		entities := line.Entities

		key := strings.Join([]string{
			strValue(entities.AdvertiserID),
			strValue(entities.CampaignID),
			strValue(entities.InsertionOrderID),
			dateKey(line.PeriodEnd),
		}, "\x1f")

		row, ok := groups[key]
		if !ok {
			row = &domain.AggregatedInvoiceRow{
				InvoiceNumber:      line.InvoiceNumber,
				AdvertiserID:       strValue(entities.AdvertiserID),
				CampaignID:         strValue(entities.CampaignID),
				InsertionOrderID:   strValue(entities.InsertionOrderID),
				AdvertiserName:     strValue(entities.AdvertiserName),
				CampaignName:       strValue(entities.CampaignName),
				InsertionOrderName: strValue(entities.InsertionOrderName),
				ScheduleCode:       s.extractor.ScheduleCode(strValue(entities.CampaignName)),
				FeeReason:          strValue(entities.FeeReason),
				PeriodEnd:          line.PeriodEnd,
			}
			groups[key] = row
			order = append(order, key)
		}

		// Caminho faturado em mais de um documento fica com o menor número
		if line.InvoiceNumber < row.InvoiceNumber {
			row.InvoiceNumber = line.InvoiceNumber
		}

		row.Amount = addIfPresent(row.Amount, line.Amount)
		row.SourceRows++

		if line.Amount != nil {
			lineTotals[line.InvoiceNumber] = lineTotals[line.InvoiceNumber].Add(*line.Amount)
		}
	}

	sort.Strings(order)

	rows := make([]domain.AggregatedInvoiceRow, 0, len(order))
	for _, key := range order {
		row := groups[key]

		if header, ok := headersByNumber[row.InvoiceNumber]; ok {
			row.InvoiceDate = header.InvoiceDate
			row.Currency = header.Currency
		}

		rows = append(rows, *row)
	}

	s.checkHeaderTotals(headers, lineTotals)

	logrus.WithFields(logrus.Fields{
		"feed":        "invoices",
		"rows_input":  len(lines),
		"rows_output": len(rows),
	}).Debug("Itens de fatura agregados ao grão de conciliação")

	return rows
}

// checkHeaderTotals compara a soma dos itens de cada fatura com o subtotal do
// cabeçalho. Divergência é sinal de qualidade de dados, nunca falha a
// agregação.
func (s *Service) checkHeaderTotals(headers []domain.InvoiceHeaderFact, lineTotals map[string]decimal.Decimal) {
	for _, header := range headers {
		expected := header.Subtotal
		if expected == nil {
			expected = header.Total
		}
		if expected == nil {
			continue
		}

		summed, ok := lineTotals[header.InvoiceNumber]
		if !ok {
			continue
		}

		if !summed.Equal(*expected) {
			logrus.WithFields(logrus.Fields{
				"invoice_number": header.InvoiceNumber,
				"header_total":   expected.String(),
				"lines_total":    summed.String(),
			}).Warn("Soma dos itens diverge do total do cabeçalho da fatura")
		}
	}
}

func addIfPresent(total decimal.Decimal, v *decimal.Decimal) decimal.Decimal {
	if v == nil {
		return total
	}

	return total.Add(*v)
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}

	return *p
}

func dateKey(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(dateKeyLayout)
}
