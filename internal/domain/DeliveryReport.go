package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// fieldSep separa os componentes de chaves naturais e fingerprints; nunca
// aparece nos valores dos feeds.
const fieldSep = "\x1f"

// ReportRecord representa uma linha bruta do log append-only de relatórios de
// veiculação. O payload chega como texto do processo de ingestão; a tipagem
// acontece na resolução de snapshot.
type ReportRecord struct {
	PartnerID          string
	AdvertiserID       string
	AdvertiserName     string
	CampaignID         string
	CampaignName       string
	InsertionOrderID   string
	InsertionOrderName string
	LineItemID         string
	LineItemName       string
	Impressions        string
	Clicks             string
	MediaCost          string
	Revenue            string
	BillableCost       string
	Currency           string
	PeriodStart        string
	PeriodEnd          string
	InsertedAt         time.Time
}

// NaturalKey identifica o fato lógico: re-uploads do mesmo relatório
// compartilham esta chave. O item de linha é o grão mais fino do feed e é
// colapsado depois pela agregação.
func (r ReportRecord) NaturalKey() string {
	return strings.Join([]string{
		strings.TrimSpace(r.AdvertiserID),
		strings.TrimSpace(r.CampaignID),
		strings.TrimSpace(r.InsertionOrderID),
		strings.TrimSpace(r.LineItemID),
		strings.TrimSpace(r.PeriodStart),
		strings.TrimSpace(r.PeriodEnd),
	}, fieldSep)
}

func (r ReportRecord) Version() time.Time {
	return r.InsertedAt
}

// Fingerprint serializa a tupla completa de campos; usado como desempate
// total quando dois snapshots têm o mesmo inserted_at.
func (r ReportRecord) Fingerprint() string {
	return strings.Join([]string{
		r.PartnerID,
		r.AdvertiserID,
		r.AdvertiserName,
		r.CampaignID,
		r.CampaignName,
		r.InsertionOrderID,
		r.InsertionOrderName,
		r.LineItemID,
		r.LineItemName,
		r.Impressions,
		r.Clicks,
		r.MediaCost,
		r.Revenue,
		r.BillableCost,
		r.Currency,
		r.PeriodStart,
		r.PeriodEnd,
	}, fieldSep)
}

// ReportFact é a versão autoritativa e tipada de uma linha de relatório,
// derivada do snapshot mais recente de cada chave natural. Campo ilegível no
// texto de origem fica ausente (nil) em vez de derrubar o registro.
type ReportFact struct {
	PartnerID          string
	AdvertiserID       string
	AdvertiserName     string
	CampaignID         string
	CampaignName       string
	InsertionOrderID   string
	InsertionOrderName string
	LineItemID         string
	LineItemName       string
	Impressions        *int64
	Clicks             *int64
	MediaCost          *decimal.Decimal
	Revenue            *decimal.Decimal
	BillableCost       *decimal.Decimal
	Currency           string
	PeriodStart        *time.Time
	PeriodEnd          *time.Time
}
