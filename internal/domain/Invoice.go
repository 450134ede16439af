package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceHeaderRecord representa uma linha bruta do log de cabeçalhos de
// fatura exportados do faturamento. O número do documento já vem resolvido
// pela ingestão (fatura, nota de crédito ou nota de débito).
type InvoiceHeaderRecord struct {
	InvoiceNumber string
	DocumentType  string
	InvoiceDate   string
	DueDate       string
	BillingID     string
	Product       string
	Currency      string
	Subtotal      string
	GSTPercent    string
	GSTAmount     string
	Total         string
	PeriodStart   string
	PeriodEnd     string
	InsertedAt    time.Time
}

func (r InvoiceHeaderRecord) NaturalKey() string {
	return strings.TrimSpace(r.InvoiceNumber)
}

func (r InvoiceHeaderRecord) Version() time.Time {
	return r.InsertedAt
}

func (r InvoiceHeaderRecord) Fingerprint() string {
	return strings.Join([]string{
		r.InvoiceNumber,
		r.DocumentType,
		r.InvoiceDate,
		r.DueDate,
		r.BillingID,
		r.Product,
		r.Currency,
		r.Subtotal,
		r.GSTPercent,
		r.GSTAmount,
		r.Total,
		r.PeriodStart,
		r.PeriodEnd,
	}, fieldSep)
}

// InvoiceLineItemRecord representa uma linha bruta do log de itens de fatura.
// O único campo estruturado de negócio é a descrição livre, de onde os
// identificadores são extraídos adiante no pipeline.
type InvoiceLineItemRecord struct {
	InvoiceNumber string
	LineNumber    string
	Description   string
	Quantity      string
	UnitPrice     string
	Amount        string
	PeriodStart   string
	PeriodEnd     string
	InsertedAt    time.Time
}

func (r InvoiceLineItemRecord) NaturalKey() string {
	return strings.Join([]string{
		strings.TrimSpace(r.InvoiceNumber),
		strings.TrimSpace(r.LineNumber),
	}, fieldSep)
}

func (r InvoiceLineItemRecord) Version() time.Time {
	return r.InsertedAt
}

func (r InvoiceLineItemRecord) Fingerprint() string {
	return strings.Join([]string{
		r.InvoiceNumber,
		r.LineNumber,
		r.Description,
		r.Quantity,
		r.UnitPrice,
		r.Amount,
		r.PeriodStart,
		r.PeriodEnd,
	}, fieldSep)
}

// InvoiceHeaderFact é o cabeçalho autoritativo e tipado de uma fatura.
type InvoiceHeaderFact struct {
	InvoiceNumber string           `json:"invoice_number"`
	DocumentType  string           `json:"document_type"`
	InvoiceDate   *time.Time       `json:"invoice_date"`
	DueDate       *time.Time       `json:"due_date"`
	BillingID     string           `json:"billing_id"`
	Product       string           `json:"product"`
	Currency      string           `json:"currency"`
	Subtotal      *decimal.Decimal `json:"subtotal"`
	GSTPercent    *decimal.Decimal `json:"gst_percent"`
	GSTAmount     *decimal.Decimal `json:"gst_amount"`
	Total         *decimal.Decimal `json:"total"`
	PeriodStart   *time.Time       `json:"period_start"`
	PeriodEnd     *time.Time       `json:"period_end"`
}

// InvoiceLineFact é o item de fatura autoritativo e tipado. Entities é
// preenchido pela extração de entidades antes da agregação.
type InvoiceLineFact struct {
	InvoiceNumber string
	LineNumber    string
	Description   string
	Entities      ExtractedEntities
	Quantity      *decimal.Decimal
	UnitPrice     *decimal.Decimal
	Amount        *decimal.Decimal
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
}

// ExtractedEntities guarda os identificadores estruturados garimpados da
// descrição livre de um item de fatura. Qualquer campo pode estar ausente —
// ausência é estado válido e esperado (itens de taxa de plataforma não
// referenciam entidades de veiculação), não um erro.
type ExtractedEntities struct {
	PartnerName        *string `json:"partner_name,omitempty"`
	PartnerID          *string `json:"partner_id,omitempty"`
	AdvertiserName     *string `json:"advertiser_name,omitempty"`
	AdvertiserID       *string `json:"advertiser_id,omitempty"`
	CampaignName       *string `json:"campaign_name,omitempty"`
	CampaignID         *string `json:"campaign_id,omitempty"`
	InsertionOrderName *string `json:"insertion_order_name,omitempty"`
	InsertionOrderID   *string `json:"insertion_order_id,omitempty"`
	FeeReason          *string `json:"fee_reason,omitempty"`
}
