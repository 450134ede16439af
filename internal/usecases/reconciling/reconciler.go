package reconciling

import (
	"sort"
	"time"

	"github.com/vfg2006/billing-recon-api/internal/domain"
)

const dateKeyLayout = "2006-01-02"

type joinKey struct {
	advertiserID     string
	campaignID       string
	insertionOrderID string
	periodEnd        string
}

// Reconcile cruza os dois lados agregados com junção externa completa sobre
// (anunciante, campanha, ordem de inserção, fim de período do relatório =
// período da fatura). Componente ausente nos dois lados compara igual, então
// linhas no grão de campanha ainda se encontram. Linha sem contraparte nunca
// é filtrada: ela é justamente a trilha de auditoria das pendências.
func Reconcile(reports []domain.AggregatedReportRow, invoices []domain.AggregatedInvoiceRow) []domain.ReconciledRow {
	invoiceByKey := make(map[joinKey]domain.AggregatedInvoiceRow, len(invoices))
	for _, inv := range invoices {
		invoiceByKey[joinKey{
			advertiserID:     inv.AdvertiserID,
			campaignID:       inv.CampaignID,
			insertionOrderID: inv.InsertionOrderID,
			periodEnd:        dateKey(inv.PeriodEnd),
		}] = inv
	}

	matched := make(map[joinKey]bool, len(invoices))
	rows := make([]domain.ReconciledRow, 0, len(reports)+len(invoices))

	for _, rep := range reports {
		rep := rep
		key := joinKey{
			advertiserID:     rep.AdvertiserID,
			campaignID:       rep.CampaignID,
			insertionOrderID: rep.InsertionOrderID,
			periodEnd:        dateKey(rep.PeriodEnd),
		}

		if inv, ok := invoiceByKey[key]; ok {
			matched[key] = true
			rows = append(rows, domain.ReconciledRow{
				Side:    domain.MatchBoth,
				Report:  &rep,
				Invoice: &inv,
			})
			continue
		}

		rows = append(rows, domain.ReconciledRow{
			Side:   domain.MatchReportOnly,
			Report: &rep,
		})
	}

	for _, inv := range invoices {
		inv := inv
		key := joinKey{
			advertiserID:     inv.AdvertiserID,
			campaignID:       inv.CampaignID,
			insertionOrderID: inv.InsertionOrderID,
			periodEnd:        dateKey(inv.PeriodEnd),
		}
		if matched[key] {
			continue
		}

		rows = append(rows, domain.ReconciledRow{
			Side:    domain.MatchInvoiceOnly,
			Invoice: &inv,
		})
	}

	sortReconciled(rows)

	return rows
}

// Convenção de ordenação da saída: número de fatura ascendente
// (lexicográfico); linhas sem número de fatura — as somente-relatório — vêm
// depois de todas as numeradas, ordenadas entre si por anunciante, campanha,
// ordem de inserção e fim de período.
func sortReconciled(rows []domain.ReconciledRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return reconciledLess(rows[i], rows[j])
	})
}

func reconciledLess(a, b domain.ReconciledRow) bool {
	an, bn := a.InvoiceNumber(), b.InvoiceNumber()

	switch {
	case an != "" && bn == "":
		return true
	case an == "" && bn != "":
		return false
	case an != bn:
		return an < bn
	}

	if a.AdvertiserID() != b.AdvertiserID() {
		return a.AdvertiserID() < b.AdvertiserID()
	}
	if a.CampaignID() != b.CampaignID() {
		return a.CampaignID() < b.CampaignID()
	}
	if a.InsertionOrderID() != b.InsertionOrderID() {
		return a.InsertionOrderID() < b.InsertionOrderID()
	}

	return dateKey(a.PeriodEnd()) < dateKey(b.PeriodEnd())
}

// Summarize consolida contagens e totais por lado do cruzamento. A variância
// total soma apenas pares casados: lado ausente segue fora da conta, nunca
// tratado como zero.
func Summarize(rows []domain.ReconciledRow) domain.ReconciliationSummary {
	summary := domain.ReconciliationSummary{Rows: len(rows)}

	for _, row := range rows {
		switch row.Side {
		case domain.MatchBoth:
			summary.Matched++
		case domain.MatchReportOnly:
			summary.ReportOnly++
		case domain.MatchInvoiceOnly:
			summary.InvoiceOnly++
		}

		if row.Report != nil {
			summary.ReportTotal = summary.ReportTotal.Add(row.Report.BillableCost)
		}
		if row.Invoice != nil {
			summary.InvoicedTotal = summary.InvoicedTotal.Add(row.Invoice.Amount)
		}
		if v := row.Variance(); v != nil {
			summary.TotalVariance = summary.TotalVariance.Add(*v)
		}
	}

	return summary
}

func dateKey(t *time.Time) string {
	if t == nil {
		return ""
	}

	return t.Format(dateKeyLayout)
}
