package resolving

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/pkg/utils"
)

// Resolver entrega a versão autoritativa e tipada de cada feed bruto.
type Resolver interface {
	ResolveReports(records []domain.ReportRecord) []domain.ReportFact
	ResolveInvoiceHeaders(records []domain.InvoiceHeaderRecord) []domain.InvoiceHeaderFact
	ResolveInvoiceLines(records []domain.InvoiceLineItemRecord) []domain.InvoiceLineFact
	CurrentPermissions(records []domain.PermissionRecord) []domain.PermissionRecord
	CurrentAdvertiserLinks(records []domain.AdvertiserLinkRecord) []domain.AdvertiserLink
}

type Service struct{}

func NewService() Resolver {
	return &Service{}
}

func (s *Service) ResolveReports(records []domain.ReportRecord) []domain.ReportFact {
	resolved, stats := Latest(records)

	malformed := 0
	facts := make([]domain.ReportFact, 0, len(resolved))
	for _, rec := range resolved {
		fact, bad := toReportFact(rec)
		malformed += bad
		facts = append(facts, fact)
	}

	logStats("reports", stats, malformed)

	return facts
}

func (s *Service) ResolveInvoiceHeaders(records []domain.InvoiceHeaderRecord) []domain.InvoiceHeaderFact {
	resolved, stats := Latest(records)

	malformed := 0
	facts := make([]domain.InvoiceHeaderFact, 0, len(resolved))
	for _, rec := range resolved {
		fact, bad := toInvoiceHeaderFact(rec)
		malformed += bad
		facts = append(facts, fact)
	}

	logStats("invoice_headers", stats, malformed)

	return facts
}

func (s *Service) ResolveInvoiceLines(records []domain.InvoiceLineItemRecord) []domain.InvoiceLineFact {
	resolved, stats := Latest(records)

	malformed := 0
	facts := make([]domain.InvoiceLineFact, 0, len(resolved))
	for _, rec := range resolved {
		fact, bad := toInvoiceLineFact(rec)
		malformed += bad
		facts = append(facts, fact)
	}

	logStats("invoice_line_items", stats, malformed)

	return facts
}

func (s *Service) CurrentPermissions(records []domain.PermissionRecord) []domain.PermissionRecord {
	batch, stats := LatestBatch(records)

	logStats("permissions", stats, 0)

	return batch
}

func (s *Service) CurrentAdvertiserLinks(records []domain.AdvertiserLinkRecord) []domain.AdvertiserLink {
	batch, stats := LatestBatch(records)

	links := make([]domain.AdvertiserLink, 0, len(batch))
	for _, rec := range batch {
		links = append(links, domain.AdvertiserLink{
			PartnerID:      strings.TrimSpace(rec.PartnerID),
			PartnerName:    strings.TrimSpace(rec.PartnerName),
			AdvertiserID:   strings.TrimSpace(rec.AdvertiserID),
			AdvertiserName: strings.TrimSpace(rec.AdvertiserName),
		})
	}

	logStats("advertiser_links", stats, 0)

	return links
}

// fieldCoercion acumula quantos campos não vazios viraram ausentes por falha
// de parse; o registro em si nunca é descartado por isso.
type fieldCoercion struct {
	malformed int
}

func (c *fieldCoercion) count(raw string) *int64 {
	v := utils.ToInt64(raw)
	if v == nil && strings.TrimSpace(raw) != "" {
		c.malformed++
	}

	return v
}

func (c *fieldCoercion) money(raw string) *decimal.Decimal {
	v := utils.ToDecimal(raw)
	if v == nil && strings.TrimSpace(raw) != "" {
		c.malformed++
	}

	return v
}

func (c *fieldCoercion) date(raw string) *time.Time {
	v := utils.ToDate(raw)
	if v == nil && strings.TrimSpace(raw) != "" {
		c.malformed++
	}

	return v
}

func toReportFact(rec domain.ReportRecord) (domain.ReportFact, int) {
	c := &fieldCoercion{}

	fact := domain.ReportFact{
		PartnerID:          strings.TrimSpace(rec.PartnerID),
		AdvertiserID:       strings.TrimSpace(rec.AdvertiserID),
		AdvertiserName:     strings.TrimSpace(rec.AdvertiserName),
		CampaignID:         strings.TrimSpace(rec.CampaignID),
		CampaignName:       strings.TrimSpace(rec.CampaignName),
		InsertionOrderID:   strings.TrimSpace(rec.InsertionOrderID),
		InsertionOrderName: strings.TrimSpace(rec.InsertionOrderName),
		LineItemID:         strings.TrimSpace(rec.LineItemID),
		LineItemName:       strings.TrimSpace(rec.LineItemName),
		Impressions:        c.count(rec.Impressions),
		Clicks:             c.count(rec.Clicks),
		MediaCost:          c.money(rec.MediaCost),
		Revenue:            c.money(rec.Revenue),
		BillableCost:       c.money(rec.BillableCost),
		Currency:           strings.TrimSpace(rec.Currency),
		PeriodStart:        c.date(rec.PeriodStart),
		PeriodEnd:          c.date(rec.PeriodEnd),
	}

	return fact, c.malformed
}

func toInvoiceHeaderFact(rec domain.InvoiceHeaderRecord) (domain.InvoiceHeaderFact, int) {
	c := &fieldCoercion{}

	fact := domain.InvoiceHeaderFact{
		InvoiceNumber: strings.TrimSpace(rec.InvoiceNumber),
		DocumentType:  strings.TrimSpace(rec.DocumentType),
		InvoiceDate:   c.date(rec.InvoiceDate),
		DueDate:       c.date(rec.DueDate),
		BillingID:     strings.TrimSpace(rec.BillingID),
		Product:       strings.TrimSpace(rec.Product),
		Currency:      strings.TrimSpace(rec.Currency),
		Subtotal:      c.money(rec.Subtotal),
		GSTPercent:    c.money(rec.GSTPercent),
		GSTAmount:     c.money(rec.GSTAmount),
		Total:         c.money(rec.Total),
		PeriodStart:   c.date(rec.PeriodStart),
		PeriodEnd:     c.date(rec.PeriodEnd),
	}

	return fact, c.malformed
}

func toInvoiceLineFact(rec domain.InvoiceLineItemRecord) (domain.InvoiceLineFact, int) {
	c := &fieldCoercion{}

	fact := domain.InvoiceLineFact{
		InvoiceNumber: strings.TrimSpace(rec.InvoiceNumber),
		LineNumber:    strings.TrimSpace(rec.LineNumber),
		Description:   rec.Description,
		Quantity:      c.money(rec.Quantity),
		UnitPrice:     c.money(rec.UnitPrice),
		Amount:        c.money(rec.Amount),
		PeriodStart:   c.date(rec.PeriodStart),
		PeriodEnd:     c.date(rec.PeriodEnd),
	}

	return fact, c.malformed
}

func logStats(feed string, stats Stats, malformedFields int) {
	logger := logrus.WithFields(logrus.Fields{
		"feed":        feed,
		"rows_input":  stats.Records,
		"rows_output": stats.Keys,
		"superseded":  stats.Superseded,
	})

	if stats.TieBreaks > 0 {
		logger.WithField("timestamp_ties", stats.TieBreaks).
			Warn("Snapshots duplicados com inserted_at idêntico; desempate determinístico aplicado")
	}

	if malformedFields > 0 {
		logger.WithField("malformed_fields", malformedFields).
			Warn("Campos ilegíveis no feed convertidos para ausente")
	}

	logger.Debug("Snapshot do feed resolvido")
}
