package reconciling

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/billing-recon-api/internal/domain"
)

var (
	januaryStart = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	januaryEnd   = time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC)
)

func reportRow(advertiserID, campaignID, insertionOrderID, billable string) domain.AggregatedReportRow {
	return domain.AggregatedReportRow{
		AdvertiserID:     advertiserID,
		AdvertiserName:   "Acme Corp",
		CampaignID:       campaignID,
		CampaignName:     "spring abcd1234",
		InsertionOrderID: insertionOrderID,
		ScheduleCode:     "abcd1234",
		Currency:         "USD",
		PeriodStart:      &januaryStart,
		PeriodEnd:        &januaryEnd,
		Impressions:      100,
		Clicks:           10,
		MediaCost:        decimal.RequireFromString("800"),
		Revenue:          decimal.RequireFromString("1100"),
		BillableCost:     decimal.RequireFromString(billable),
		SourceRows:       1,
	}
}

func invoiceRow(invoiceNumber, advertiserID, campaignID, insertionOrderID, amount string) domain.AggregatedInvoiceRow {
	return domain.AggregatedInvoiceRow{
		InvoiceNumber:    invoiceNumber,
		AdvertiserID:     advertiserID,
		AdvertiserName:   "acme",
		CampaignID:       campaignID,
		CampaignName:     "spring",
		InsertionOrderID: insertionOrderID,
		ScheduleCode:     "abcd1234",
		Currency:         "USD",
		PeriodEnd:        &januaryEnd,
		Amount:           decimal.RequireFromString(amount),
		SourceRows:       1,
	}
}

func TestReconcile_CasamentoComVariancia(t *testing.T) {
	reports := []domain.AggregatedReportRow{reportRow("42", "77", "", "1000.00")}
	invoices := []domain.AggregatedInvoiceRow{invoiceRow("INV-100", "42", "77", "", "950.00")}

	rows := Reconcile(reports, invoices)

	assert.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, domain.MatchBoth, row.Side)
	assert.NotNil(t, row.Report)
	assert.NotNil(t, row.Invoice)
	assert.Equal(t, "INV-100", row.InvoiceNumber())

	variance := row.Variance()
	assert.NotNil(t, variance)
	assert.Equal(t, "50", variance.String())
}

func TestReconcile_LadoSemContrapartidaNuncaSome(t *testing.T) {
	reports := []domain.AggregatedReportRow{
		reportRow("42", "77", "", "1000.00"),
		reportRow("42", "88", "", "200.00"),
	}
	invoices := []domain.AggregatedInvoiceRow{
		invoiceRow("INV-100", "42", "77", "", "950.00"),
		invoiceRow("INV-200", "43", "99", "", "300.00"),
	}

	rows := Reconcile(reports, invoices)

	// Junção externa completa: nunca menos linhas que o maior dos lados
	assert.Len(t, rows, 3)
	assert.GreaterOrEqual(t, len(rows), len(reports))
	assert.GreaterOrEqual(t, len(rows), len(invoices))

	sides := map[domain.MatchSide]int{}
	for _, row := range rows {
		sides[row.Side]++

		if row.Side != domain.MatchBoth {
			assert.Nil(t, row.Variance())
		}
	}

	assert.Equal(t, 1, sides[domain.MatchBoth])
	assert.Equal(t, 1, sides[domain.MatchReportOnly])
	assert.Equal(t, 1, sides[domain.MatchInvoiceOnly])
}

func TestReconcile_OrdenacaoPorNumeroDeFaturaComPendentesNoFim(t *testing.T) {
	reports := []domain.AggregatedReportRow{
		reportRow("42", "77", "", "1000.00"),
		// Sem fatura correspondente: deve cair para o fim da lista
		reportRow("10", "11", "", "200.00"),
	}
	invoices := []domain.AggregatedInvoiceRow{
		invoiceRow("INV-200", "42", "77", "", "950.00"),
		invoiceRow("INV-100", "50", "51", "", "300.00"),
	}

	rows := Reconcile(reports, invoices)

	assert.Len(t, rows, 3)
	// Numeradas primeiro, em ordem ascendente; somente-relatório por último,
	// mesmo tendo o menor caminho de entidade
	assert.Equal(t, "INV-100", rows[0].InvoiceNumber())
	assert.Equal(t, "INV-200", rows[1].InvoiceNumber())
	assert.Equal(t, "", rows[2].InvoiceNumber())
	assert.Equal(t, domain.MatchReportOnly, rows[2].Side)
	assert.Equal(t, "10", rows[2].AdvertiserID())
}

func TestReconcile_SomenteRelatorioOrdenadoPeloCaminho(t *testing.T) {
	reports := []domain.AggregatedReportRow{
		reportRow("50", "1", "", "100.00"),
		reportRow("10", "9", "", "100.00"),
		reportRow("10", "2", "", "100.00"),
	}

	rows := Reconcile(reports, nil)

	assert.Len(t, rows, 3)
	assert.Equal(t, "10", rows[0].AdvertiserID())
	assert.Equal(t, "2", rows[0].CampaignID())
	assert.Equal(t, "10", rows[1].AdvertiserID())
	assert.Equal(t, "9", rows[1].CampaignID())
	assert.Equal(t, "50", rows[2].AdvertiserID())
}

func TestReconcile_CaminhoAusenteCasaComAusente(t *testing.T) {
	// Grão de campanha: ordem de inserção ausente nos dois lados ainda casa
	reports := []domain.AggregatedReportRow{reportRow("42", "77", "", "500.00")}
	invoices := []domain.AggregatedInvoiceRow{invoiceRow("INV-300", "42", "77", "", "500.00")}

	rows := Reconcile(reports, invoices)

	assert.Len(t, rows, 1)
	assert.Equal(t, domain.MatchBoth, rows[0].Side)
	assert.Equal(t, "0", rows[0].Variance().String())
}

func TestReconcile_GraoDistintoNaoCasa(t *testing.T) {
	// Mesmo caminho até campanha, mas um lado desce até a ordem de inserção
	reports := []domain.AggregatedReportRow{reportRow("42", "77", "555", "500.00")}
	invoices := []domain.AggregatedInvoiceRow{invoiceRow("INV-300", "42", "77", "", "500.00")}

	rows := Reconcile(reports, invoices)

	assert.Len(t, rows, 2)
	sides := map[domain.MatchSide]int{}
	for _, row := range rows {
		sides[row.Side]++
	}
	assert.Equal(t, 1, sides[domain.MatchReportOnly])
	assert.Equal(t, 1, sides[domain.MatchInvoiceOnly])
}

func TestReconcile_NomesComPrioridadeParaFatura(t *testing.T) {
	reports := []domain.AggregatedReportRow{reportRow("42", "77", "", "1000.00")}
	invoices := []domain.AggregatedInvoiceRow{invoiceRow("INV-100", "42", "77", "", "950.00")}

	rows := Reconcile(reports, invoices)
	row := rows[0]

	assert.Equal(t, "acme", row.AdvertiserName())
	assert.Equal(t, "spring", row.CampaignName())

	// Campo vazio no lado de fatura cai para o relatório
	invoices[0].AdvertiserName = ""
	rows = Reconcile(reports, invoices)
	assert.Equal(t, "Acme Corp", rows[0].AdvertiserName())
}

func TestReconcile_DeterministicoSobPermutacao(t *testing.T) {
	reports := []domain.AggregatedReportRow{
		reportRow("42", "77", "", "1000.00"),
		reportRow("10", "11", "", "200.00"),
		reportRow("50", "51", "", "700.00"),
	}
	invoices := []domain.AggregatedInvoiceRow{
		invoiceRow("INV-200", "42", "77", "", "950.00"),
		invoiceRow("INV-100", "50", "51", "", "700.00"),
	}

	direct := Reconcile(reports, invoices)

	permutedReports := []domain.AggregatedReportRow{reports[2], reports[0], reports[1]}
	permutedInvoices := []domain.AggregatedInvoiceRow{invoices[1], invoices[0]}
	permuted := Reconcile(permutedReports, permutedInvoices)

	assert.Equal(t, direct, permuted)
}

func TestReconcile_EntradasVazias(t *testing.T) {
	rows := Reconcile(nil, nil)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows = Reconcile(nil, []domain.AggregatedInvoiceRow{invoiceRow("INV-100", "42", "77", "", "950.00")})
	assert.Len(t, rows, 1)
	assert.Equal(t, domain.MatchInvoiceOnly, rows[0].Side)
}

func TestSummarize_TotaisPorLado(t *testing.T) {
	reports := []domain.AggregatedReportRow{
		reportRow("42", "77", "", "1000.00"),
		reportRow("10", "11", "", "200.00"),
	}
	invoices := []domain.AggregatedInvoiceRow{
		invoiceRow("INV-100", "42", "77", "", "950.00"),
		invoiceRow("INV-200", "43", "99", "", "300.00"),
	}

	summary := Summarize(Reconcile(reports, invoices))

	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, 1, summary.Matched)
	assert.Equal(t, 1, summary.ReportOnly)
	assert.Equal(t, 1, summary.InvoiceOnly)
	assert.Equal(t, "1200", summary.ReportTotal.String())
	assert.Equal(t, "1250", summary.InvoicedTotal.String())
	// Apenas o par casado entra na variância total: 1000 - 950
	assert.Equal(t, "50", summary.TotalVariance.String())
}
