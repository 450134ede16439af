package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/vfg2006/billing-recon-api/infrastructure/database/postgres"
	"github.com/vfg2006/billing-recon-api/internal/domain"
)

const (
	reconciledRowsTable      = "reconciled_rows rr"
	aggregatedReportTable    = "aggregated_report_rows ar"
	reconciledRowsTableName  = "reconciled_rows"
	aggregatedReportRowsName = "aggregated_report_rows"

	reconciledRowsColumns = `rr.side, rr.advertiser_id, rr.campaign_id, rr.insertion_order_id, rr.period_end,
		rr.invoice_number, rr.invoice_date, rr.inv_advertiser_name, rr.inv_campaign_name,
		rr.inv_insertion_order_name, rr.inv_schedule_code, rr.fee_reason, rr.inv_currency,
		rr.amount, rr.invoice_source_rows,
		rr.rep_advertiser_name, rr.rep_campaign_name, rr.rep_insertion_order_name,
		rr.rep_schedule_code, rr.rep_currency, rr.period_start,
		rr.impressions, rr.clicks, rr.media_cost, rr.revenue, rr.billable_cost, rr.report_source_rows`

	aggregatedReportColumns = `ar.advertiser_id, ar.advertiser_name, ar.campaign_id, ar.campaign_name,
		ar.insertion_order_id, ar.insertion_order_name, ar.schedule_code, ar.currency,
		ar.period_start, ar.period_end, ar.impressions, ar.clicks,
		ar.media_cost, ar.revenue, ar.billable_cost, ar.source_rows`
)

// ReconciliationRepository publica e consulta o resultado materializado do
// pipeline. A publicação substitui o conteúdo inteiro das tabelas de saída em
// uma única transação: consulta nunca observa estado parcial.
type ReconciliationRepository interface {
	ReplaceRun(ctx context.Context, runID string, rows []domain.ReconciledRow, reportRows []domain.AggregatedReportRow) error
	ListReconciledRows(filter domain.ReconciliationFilter) ([]domain.ReconciledRow, error)
	ListAggregatedReportRows(filter domain.ReconciliationFilter) ([]domain.AggregatedReportRow, error)
}

type reconciliationRepository struct {
	conn *postgres.Connection
}

func NewReconciliationRepository(conn *postgres.Connection) ReconciliationRepository {
	return &reconciliationRepository{
		conn: conn,
	}
}

func (r *reconciliationRepository) ReplaceRun(
	ctx context.Context,
	runID string,
	rows []domain.ReconciledRow,
	reportRows []domain.AggregatedReportRow,
) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{reconciledRowsTableName, aggregatedReportRowsName} {
			query, args, err := squirrel.
				Delete(table).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query de limpeza de %s: %w", table, err)
			}

			if _, err := tx.Exec(query, args...); err != nil {
				return fmt.Errorf("erro ao limpar a tabela %s: %w", table, err)
			}
		}

		for _, row := range rows {
			if err := r.insertReconciledRow(tx, runID, row); err != nil {
				return err
			}
		}

		for _, row := range reportRows {
			if err := r.insertAggregatedReportRow(tx, runID, row); err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *reconciliationRepository) insertReconciledRow(tx *sql.Tx, runID string, row domain.ReconciledRow) error {
	// Colunas do lado ausente ficam nulas em bloco: é o que permite
	// reconstruir o par exatamente como foi publicado
	var (
		invoiceDate           interface{}
		invAdvertiserName     interface{}
		invCampaignName       interface{}
		invInsertionOrderName interface{}
		invScheduleCode       interface{}
		feeReason             interface{}
		invCurrency           interface{}
		amount                interface{}
		invoiceSourceRows     interface{}

		repAdvertiserName     interface{}
		repCampaignName       interface{}
		repInsertionOrderName interface{}
		repScheduleCode       interface{}
		repCurrency           interface{}
		periodStart           interface{}
		impressions           interface{}
		clicks                interface{}
		mediaCost             interface{}
		revenue               interface{}
		billableCost          interface{}
		reportSourceRows      interface{}
	)

	if inv := row.Invoice; inv != nil {
		invoiceDate = nullDate(inv.InvoiceDate)
		invAdvertiserName = inv.AdvertiserName
		invCampaignName = inv.CampaignName
		invInsertionOrderName = inv.InsertionOrderName
		invScheduleCode = inv.ScheduleCode
		feeReason = inv.FeeReason
		invCurrency = inv.Currency
		amount = inv.Amount
		invoiceSourceRows = inv.SourceRows
	}

	if rep := row.Report; rep != nil {
		repAdvertiserName = rep.AdvertiserName
		repCampaignName = rep.CampaignName
		repInsertionOrderName = rep.InsertionOrderName
		repScheduleCode = rep.ScheduleCode
		repCurrency = rep.Currency
		periodStart = nullDate(rep.PeriodStart)
		impressions = rep.Impressions
		clicks = rep.Clicks
		mediaCost = rep.MediaCost
		revenue = rep.Revenue
		billableCost = rep.BillableCost
		reportSourceRows = rep.SourceRows
	}

	var variance interface{}
	if v := row.Variance(); v != nil {
		variance = *v
	}

	builder := squirrel.StatementBuilder.
		Insert(reconciledRowsTableName).
		Columns(
			"run_id", "side", "advertiser_id", "campaign_id", "insertion_order_id", "period_end",
			"invoice_number", "invoice_date", "inv_advertiser_name", "inv_campaign_name",
			"inv_insertion_order_name", "inv_schedule_code", "fee_reason", "inv_currency",
			"amount", "invoice_source_rows",
			"rep_advertiser_name", "rep_campaign_name", "rep_insertion_order_name",
			"rep_schedule_code", "rep_currency", "period_start",
			"impressions", "clicks", "media_cost", "revenue", "billable_cost", "report_source_rows",
			"variance",
		).
		Values(
			runID,
			string(row.Side),
			row.AdvertiserID(),
			row.CampaignID(),
			row.InsertionOrderID(),
			nullDate(row.PeriodEnd()),
			nullString(row.InvoiceNumber()),
			invoiceDate,
			invAdvertiserName,
			invCampaignName,
			invInsertionOrderName,
			invScheduleCode,
			feeReason,
			invCurrency,
			amount,
			invoiceSourceRows,
			repAdvertiserName,
			repCampaignName,
			repInsertionOrderName,
			repScheduleCode,
			repCurrency,
			periodStart,
			impressions,
			clicks,
			mediaCost,
			revenue,
			billableCost,
			reportSourceRows,
			variance,
		).
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao inserir linha conciliada: %w", err)
	}

	return nil
}

func (r *reconciliationRepository) insertAggregatedReportRow(tx *sql.Tx, runID string, row domain.AggregatedReportRow) error {
	builder := squirrel.StatementBuilder.
		Insert(aggregatedReportRowsName).
		Columns(
			"run_id", "advertiser_id", "advertiser_name", "campaign_id", "campaign_name",
			"insertion_order_id", "insertion_order_name", "schedule_code", "currency",
			"period_start", "period_end", "impressions", "clicks",
			"media_cost", "revenue", "billable_cost", "source_rows",
		).
		Values(
			runID,
			row.AdvertiserID,
			row.AdvertiserName,
			row.CampaignID,
			row.CampaignName,
			row.InsertionOrderID,
			row.InsertionOrderName,
			row.ScheduleCode,
			row.Currency,
			nullDate(row.PeriodStart),
			nullDate(row.PeriodEnd),
			row.Impressions,
			row.Clicks,
			row.MediaCost,
			row.Revenue,
			row.BillableCost,
			row.SourceRows,
		).
		PlaceholderFormat(squirrel.Dollar)

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := tx.Exec(query, args...); err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
		}
		return fmt.Errorf("erro ao inserir linha agregada de entrega: %w", err)
	}

	return nil
}

func (r *reconciliationRepository) ListReconciledRows(filter domain.ReconciliationFilter) ([]domain.ReconciledRow, error) {
	builder := squirrel.
		Select(reconciledRowsColumns).
		From(reconciledRowsTable).
		// Convenção de ordenação: número de fatura ascendente; linhas sem
		// fatura depois de todas as numeradas, pelo caminho e período
		OrderBy(
			"rr.invoice_number ASC NULLS LAST",
			"rr.advertiser_id ASC",
			"rr.campaign_id ASC",
			"rr.insertion_order_id ASC",
			"rr.period_end ASC NULLS LAST",
		).
		PlaceholderFormat(squirrel.Dollar)

	builder = applyReconciliationFilter(builder, filter, "rr")

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	reconciled := make([]domain.ReconciledRow, 0)
	for rows.Next() {
		row, err := r.scanReconciledRow(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear linha conciliada: %w", err)
		}
		reconciled = append(reconciled, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return reconciled, nil
}

func (r *reconciliationRepository) ListAggregatedReportRows(filter domain.ReconciliationFilter) ([]domain.AggregatedReportRow, error) {
	builder := squirrel.
		Select(aggregatedReportColumns).
		From(aggregatedReportTable).
		OrderBy(
			"ar.advertiser_id ASC",
			"ar.campaign_id ASC",
			"ar.insertion_order_id ASC",
			"ar.period_start ASC NULLS LAST",
		).
		PlaceholderFormat(squirrel.Dollar)

	if filter.PeriodStart != nil {
		builder = builder.Where(squirrel.GtOrEq{"ar.period_end": filter.PeriodStart.Format("2006-01-02")})
	}
	if filter.PeriodEnd != nil {
		builder = builder.Where(squirrel.LtOrEq{"ar.period_end": filter.PeriodEnd.Format("2006-01-02")})
	}
	if filter.AdvertiserIDs != nil {
		builder = builder.Where(squirrel.Eq{"ar.advertiser_id": filter.AdvertiserIDs})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.Query(query, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("erro ao executar a query: %w", err)
	}
	defer rows.Close()

	aggregated := make([]domain.AggregatedReportRow, 0)
	for rows.Next() {
		var (
			row         domain.AggregatedReportRow
			periodStart sql.NullTime
			periodEnd   sql.NullTime
		)

		err := rows.Scan(
			&row.AdvertiserID,
			&row.AdvertiserName,
			&row.CampaignID,
			&row.CampaignName,
			&row.InsertionOrderID,
			&row.InsertionOrderName,
			&row.ScheduleCode,
			&row.Currency,
			&periodStart,
			&periodEnd,
			&row.Impressions,
			&row.Clicks,
			&row.MediaCost,
			&row.Revenue,
			&row.BillableCost,
			&row.SourceRows,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear linha agregada: %w", err)
		}

		row.PeriodStart = timePtr(periodStart)
		row.PeriodEnd = timePtr(periodEnd)
		aggregated = append(aggregated, row)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return aggregated, nil
}

func applyReconciliationFilter(builder squirrel.SelectBuilder, filter domain.ReconciliationFilter, alias string) squirrel.SelectBuilder {
	if filter.PeriodStart != nil {
		builder = builder.Where(squirrel.GtOrEq{alias + ".period_end": filter.PeriodStart.Format("2006-01-02")})
	}
	if filter.PeriodEnd != nil {
		builder = builder.Where(squirrel.LtOrEq{alias + ".period_end": filter.PeriodEnd.Format("2006-01-02")})
	}
	if filter.Side != nil {
		builder = builder.Where(squirrel.Eq{alias + ".side": *filter.Side})
	}
	if filter.InvoiceNumber != nil {
		builder = builder.Where(squirrel.Eq{alias + ".invoice_number": *filter.InvoiceNumber})
	}
	if filter.AdvertiserIDs != nil {
		builder = builder.Where(squirrel.Eq{alias + ".advertiser_id": filter.AdvertiserIDs})
	}

	return builder
}

type reconciledRowScan struct {
	side             string
	advertiserID     string
	campaignID       string
	insertionOrderID string
	periodEnd        sql.NullTime

	invoiceNumber         sql.NullString
	invoiceDate           sql.NullTime
	invAdvertiserName     sql.NullString
	invCampaignName       sql.NullString
	invInsertionOrderName sql.NullString
	invScheduleCode       sql.NullString
	feeReason             sql.NullString
	invCurrency           sql.NullString
	amount                decimal.NullDecimal
	invoiceSourceRows     sql.NullInt64

	repAdvertiserName     sql.NullString
	repCampaignName       sql.NullString
	repInsertionOrderName sql.NullString
	repScheduleCode       sql.NullString
	repCurrency           sql.NullString
	periodStart           sql.NullTime
	impressions           sql.NullInt64
	clicks                sql.NullInt64
	mediaCost             decimal.NullDecimal
	revenue               decimal.NullDecimal
	billableCost          decimal.NullDecimal
	reportSourceRows      sql.NullInt64
}

func (r *reconciliationRepository) scanReconciledRow(rows *sql.Rows) (domain.ReconciledRow, error) {
	var s reconciledRowScan

	err := rows.Scan(
		&s.side,
		&s.advertiserID,
		&s.campaignID,
		&s.insertionOrderID,
		&s.periodEnd,
		&s.invoiceNumber,
		&s.invoiceDate,
		&s.invAdvertiserName,
		&s.invCampaignName,
		&s.invInsertionOrderName,
		&s.invScheduleCode,
		&s.feeReason,
		&s.invCurrency,
		&s.amount,
		&s.invoiceSourceRows,
		&s.repAdvertiserName,
		&s.repCampaignName,
		&s.repInsertionOrderName,
		&s.repScheduleCode,
		&s.repCurrency,
		&s.periodStart,
		&s.impressions,
		&s.clicks,
		&s.mediaCost,
		&s.revenue,
		&s.billableCost,
		&s.reportSourceRows,
	)
	if err != nil {
		return domain.ReconciledRow{}, err
	}

	row := domain.ReconciledRow{Side: domain.MatchSide(s.side)}

	if row.Side != domain.MatchInvoiceOnly {
		row.Report = &domain.AggregatedReportRow{
			AdvertiserID:       s.advertiserID,
			AdvertiserName:     s.repAdvertiserName.String,
			CampaignID:         s.campaignID,
			CampaignName:       s.repCampaignName.String,
			InsertionOrderID:   s.insertionOrderID,
			InsertionOrderName: s.repInsertionOrderName.String,
			ScheduleCode:       s.repScheduleCode.String,
			Currency:           s.repCurrency.String,
			PeriodStart:        timePtr(s.periodStart),
			PeriodEnd:          timePtr(s.periodEnd),
			Impressions:        s.impressions.Int64,
			Clicks:             s.clicks.Int64,
			MediaCost:          s.mediaCost.Decimal,
			Revenue:            s.revenue.Decimal,
			BillableCost:       s.billableCost.Decimal,
			SourceRows:         int(s.reportSourceRows.Int64),
		}
	}

	if row.Side != domain.MatchReportOnly {
		row.Invoice = &domain.AggregatedInvoiceRow{
			InvoiceNumber:      s.invoiceNumber.String,
			InvoiceDate:        timePtr(s.invoiceDate),
			AdvertiserID:       s.advertiserID,
			AdvertiserName:     s.invAdvertiserName.String,
			CampaignID:         s.campaignID,
			CampaignName:       s.invCampaignName.String,
			InsertionOrderID:   s.insertionOrderID,
			InsertionOrderName: s.invInsertionOrderName.String,
			ScheduleCode:       s.invScheduleCode.String,
			FeeReason:          s.feeReason.String,
			Currency:           s.invCurrency.String,
			PeriodEnd:          timePtr(s.periodEnd),
			Amount:             s.amount.Decimal,
			SourceRows:         int(s.invoiceSourceRows.Int64),
		}
	}

	return row, nil
}

func nullDate(t *time.Time) interface{} {
	if t == nil {
		return nil
	}

	return t.Format("2006-01-02")
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}

	return s
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}

	value := t.Time
	return &value
}

