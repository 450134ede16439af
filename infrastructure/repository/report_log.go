package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/billing-recon-api/infrastructure/database/postgres"
	"github.com/vfg2006/billing-recon-api/internal/domain"
)

const (
	reportLogTable = "report_log rl"

	reportLogColumns = `rl.partner_id, rl.advertiser_id, rl.advertiser_name, rl.campaign_id, rl.campaign_name,
		rl.insertion_order_id, rl.insertion_order_name, rl.line_item_id, rl.line_item_name,
		rl.impressions, rl.clicks, rl.media_cost, rl.revenue, rl.billable_cost, rl.currency,
		rl.period_start, rl.period_end, rl.inserted_at`
)

// ReportLogRepository lê o log bruto de relatórios de entrega. O log é
// livro-razão dos carregadores externos: somente leitura deste lado.
type ReportLogRepository interface {
	ListReportRecords() ([]domain.ReportRecord, error)
}

type reportLogRepository struct {
	conn *postgres.Connection
}

func NewReportLogRepository(conn *postgres.Connection) ReportLogRepository {
	return &reportLogRepository{
		conn: conn,
	}
}

func (r *reportLogRepository) ListReportRecords() ([]domain.ReportRecord, error) {
	query, args, err := squirrel.
		Select(reportLogColumns).
		From(reportLogTable).
		OrderBy("rl.inserted_at ASC", "rl.id ASC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
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

	records := make([]domain.ReportRecord, 0)
	for rows.Next() {
		record, err := r.scanReportRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear registro de relatório: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *reportLogRepository) scanReportRecord(rows *sql.Rows) (domain.ReportRecord, error) {
	var record domain.ReportRecord

	err := rows.Scan(
		&record.PartnerID,
		&record.AdvertiserID,
		&record.AdvertiserName,
		&record.CampaignID,
		&record.CampaignName,
		&record.InsertionOrderID,
		&record.InsertionOrderName,
		&record.LineItemID,
		&record.LineItemName,
		&record.Impressions,
		&record.Clicks,
		&record.MediaCost,
		&record.Revenue,
		&record.BillableCost,
		&record.Currency,
		&record.PeriodStart,
		&record.PeriodEnd,
		&record.InsertedAt,
	)
	if err != nil {
		return domain.ReportRecord{}, err
	}

	return record, nil
}
