package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/billing-recon-api/infrastructure/database/postgres"
	"github.com/vfg2006/billing-recon-api/internal/domain"
)

const (
	invoiceHeaderLogTable = "invoice_header_log ihl"
	invoiceLineLogTable   = "invoice_line_item_log ill"

	invoiceHeaderLogColumns = `ihl.invoice_number, ihl.document_type, ihl.invoice_date, ihl.due_date,
		ihl.billing_id, ihl.product, ihl.currency, ihl.subtotal, ihl.gst_percent, ihl.gst_amount,
		ihl.total, ihl.period_start, ihl.period_end, ihl.inserted_at`

	invoiceLineLogColumns = `ill.invoice_number, ill.line_number, ill.description, ill.quantity,
		ill.unit_price, ill.amount, ill.period_start, ill.period_end, ill.inserted_at`
)

// InvoiceLogRepository lê os logs brutos de cabeçalhos e itens de fatura
// alimentados pelos carregadores externos
type InvoiceLogRepository interface {
	ListInvoiceHeaderRecords() ([]domain.InvoiceHeaderRecord, error)
	ListInvoiceLineRecords() ([]domain.InvoiceLineItemRecord, error)
}

type invoiceLogRepository struct {
	conn *postgres.Connection
}

func NewInvoiceLogRepository(conn *postgres.Connection) InvoiceLogRepository {
	return &invoiceLogRepository{
		conn: conn,
	}
}

func (r *invoiceLogRepository) ListInvoiceHeaderRecords() ([]domain.InvoiceHeaderRecord, error) {
	query, args, err := squirrel.
		Select(invoiceHeaderLogColumns).
		From(invoiceHeaderLogTable).
		OrderBy("ihl.inserted_at ASC", "ihl.id ASC").
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

	records := make([]domain.InvoiceHeaderRecord, 0)
	for rows.Next() {
		var record domain.InvoiceHeaderRecord
		err := rows.Scan(
			&record.InvoiceNumber,
			&record.DocumentType,
			&record.InvoiceDate,
			&record.DueDate,
			&record.BillingID,
			&record.Product,
			&record.Currency,
			&record.Subtotal,
			&record.GSTPercent,
			&record.GSTAmount,
			&record.Total,
			&record.PeriodStart,
			&record.PeriodEnd,
			&record.InsertedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear cabeçalho de fatura: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *invoiceLogRepository) ListInvoiceLineRecords() ([]domain.InvoiceLineItemRecord, error) {
	query, args, err := squirrel.
		Select(invoiceLineLogColumns).
		From(invoiceLineLogTable).
		OrderBy("ill.inserted_at ASC", "ill.id ASC").
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

	records := make([]domain.InvoiceLineItemRecord, 0)
	for rows.Next() {
		var record domain.InvoiceLineItemRecord
		err := rows.Scan(
			&record.InvoiceNumber,
			&record.LineNumber,
			&record.Description,
			&record.Quantity,
			&record.UnitPrice,
			&record.Amount,
			&record.PeriodStart,
			&record.PeriodEnd,
			&record.InsertedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear item de fatura: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}
