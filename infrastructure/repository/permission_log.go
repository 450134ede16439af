package repository

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/billing-recon-api/infrastructure/database/postgres"
	"github.com/vfg2006/billing-recon-api/internal/domain"
)

const (
	permissionLogTable     = "permission_log pl"
	advertiserLinkLogTable = "advertiser_link_log al"

	permissionLogColumns     = "pl.user_hash, pl.entity_type, pl.entity_id, pl.inserted_at"
	advertiserLinkLogColumns = "al.partner_id, al.partner_name, al.advertiser_id, al.advertiser_name, al.inserted_at"
)

// PermissionLogRepository lê os logs brutos de permissões e de vínculos
// parceiro-anunciante alimentados pelos carregadores externos
type PermissionLogRepository interface {
	ListPermissionRecords() ([]domain.PermissionRecord, error)
	ListAdvertiserLinkRecords() ([]domain.AdvertiserLinkRecord, error)
}

type permissionLogRepository struct {
	conn *postgres.Connection
}

func NewPermissionLogRepository(conn *postgres.Connection) PermissionLogRepository {
	return &permissionLogRepository{
		conn: conn,
	}
}

func (r *permissionLogRepository) ListPermissionRecords() ([]domain.PermissionRecord, error) {
	query, args, err := squirrel.
		Select(permissionLogColumns).
		From(permissionLogTable).
		OrderBy("pl.inserted_at ASC", "pl.id ASC").
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

	records := make([]domain.PermissionRecord, 0)
	for rows.Next() {
		var record domain.PermissionRecord
		err := rows.Scan(
			&record.UserHash,
			&record.EntityType,
			&record.EntityID,
			&record.InsertedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear registro de permissão: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}

func (r *permissionLogRepository) ListAdvertiserLinkRecords() ([]domain.AdvertiserLinkRecord, error) {
	query, args, err := squirrel.
		Select(advertiserLinkLogColumns).
		From(advertiserLinkLogTable).
		OrderBy("al.inserted_at ASC", "al.id ASC").
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

	records := make([]domain.AdvertiserLinkRecord, 0)
	for rows.Next() {
		var record domain.AdvertiserLinkRecord
		err := rows.Scan(
			&record.PartnerID,
			&record.PartnerName,
			&record.AdvertiserID,
			&record.AdvertiserName,
			&record.InsertedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("erro ao escanear vínculo de anunciante: %w", err)
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return records, nil
}
