package domain

import (
	"strings"
	"time"
)

// Tipos de entidade aceitos no feed de permissões.
const (
	EntityTypeAdvertiser = "advertiser"
	EntityTypePartner    = "partner"
)

// PermissionRecord representa uma linha bruta do log de permissões do
// produto de anúncios. O hash do usuário já chega calculado pela ingestão;
// e-mail em texto claro nunca entra neste serviço.
type PermissionRecord struct {
	UserHash   string
	EntityType string
	EntityID   string
	InsertedAt time.Time
}

func (r PermissionRecord) NaturalKey() string {
	return strings.Join([]string{
		strings.TrimSpace(r.UserHash),
		strings.TrimSpace(strings.ToLower(r.EntityType)),
		strings.TrimSpace(r.EntityID),
	}, fieldSep)
}

func (r PermissionRecord) Version() time.Time {
	return r.InsertedAt
}

func (r PermissionRecord) Fingerprint() string {
	return strings.Join([]string{r.UserHash, r.EntityType, r.EntityID}, fieldSep)
}

// AdvertiserLinkRecord representa uma linha bruta do log de hierarquia
// parceiro→anunciante gerenciado.
type AdvertiserLinkRecord struct {
	PartnerID      string
	PartnerName    string
	AdvertiserID   string
	AdvertiserName string
	InsertedAt     time.Time
}

func (r AdvertiserLinkRecord) NaturalKey() string {
	return strings.Join([]string{
		strings.TrimSpace(r.PartnerID),
		strings.TrimSpace(r.AdvertiserID),
	}, fieldSep)
}

func (r AdvertiserLinkRecord) Version() time.Time {
	return r.InsertedAt
}

func (r AdvertiserLinkRecord) Fingerprint() string {
	return strings.Join([]string{
		r.PartnerID,
		r.PartnerName,
		r.AdvertiserID,
		r.AdvertiserName,
	}, fieldSep)
}

// AdvertiserLink é o vínculo parceiro→anunciante do snapshot atual da
// hierarquia.
type AdvertiserLink struct {
	PartnerID      string `json:"partner_id"`
	PartnerName    string `json:"partner_name"`
	AdvertiserID   string `json:"advertiser_id"`
	AdvertiserName string `json:"advertiser_name"`
}

// AccessGrant dá a um usuário (identificado pelo hash) visibilidade sobre um
// anunciante. Administradores não entram aqui: ficam num conjunto
// privilegiado separado, consultado à parte pelos leitores.
type AccessGrant struct {
	UserHash     string `json:"user_hash"`
	AdvertiserID string `json:"advertiser_id"`
}

// AccessScope é a visão de visibilidade de um chamador da API.
type AccessScope struct {
	Admin         bool     `json:"admin"`
	AdvertiserIDs []string `json:"advertiser_ids"`
}
