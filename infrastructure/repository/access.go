package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/vfg2006/billing-recon-api/infrastructure/database/postgres"
	"github.com/vfg2006/billing-recon-api/internal/domain"
)

const (
	accessGrantsTable     = "access_grants ag"
	adminUsersTable       = "admin_users au"
	accessGrantsTableName = "access_grants"
	adminUsersTableName   = "admin_users"
)

// AccessRepository publica e consulta o recorte de visibilidade achatado:
// pares (hash de usuário, anunciante) e o conjunto de administradores
type AccessRepository interface {
	ReplaceAccessData(ctx context.Context, grants []domain.AccessGrant, adminHashes []string) error
	ListAdvertiserIDsByUserHash(userHash string) ([]string, error)
	IsAdminUser(userHash string) (bool, error)
}

type accessRepository struct {
	conn *postgres.Connection
}

func NewAccessRepository(conn *postgres.Connection) AccessRepository {
	return &accessRepository{
		conn: conn,
	}
}

// ReplaceAccessData troca o conteúdo inteiro das tabelas de acesso em uma
// única transação. Falha em qualquer inserção preserva o recorte anterior.
func (r *accessRepository) ReplaceAccessData(ctx context.Context, grants []domain.AccessGrant, adminHashes []string) error {
	return r.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{accessGrantsTableName, adminUsersTableName} {
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

		for _, grant := range grants {
			query, args, err := squirrel.StatementBuilder.
				Insert(accessGrantsTableName).
				Columns("user_hash", "advertiser_id").
				Values(grant.UserHash, grant.AdvertiserID).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.Exec(query, args...); err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao inserir concessão de acesso: %w", err)
			}
		}

		for _, hash := range adminHashes {
			query, args, err := squirrel.StatementBuilder.
				Insert(adminUsersTableName).
				Columns("user_hash").
				Values(hash).
				PlaceholderFormat(squirrel.Dollar).
				ToSql()
			if err != nil {
				return fmt.Errorf("erro ao construir a query: %w", err)
			}

			if _, err := tx.Exec(query, args...); err != nil {
				if pqErr, ok := err.(*pq.Error); ok {
					return fmt.Errorf("erro no banco de dados: %w (código: %s)", pqErr, pqErr.Code)
				}
				return fmt.Errorf("erro ao inserir administrador: %w", err)
			}
		}

		return nil
	})
}

func (r *accessRepository) ListAdvertiserIDsByUserHash(userHash string) ([]string, error) {
	query, args, err := squirrel.
		Select("ag.advertiser_id").
		From(accessGrantsTable).
		Where(squirrel.Eq{"ag.user_hash": userHash}).
		OrderBy("ag.advertiser_id ASC").
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

	advertiserIDs := make([]string, 0)
	for rows.Next() {
		var advertiserID string
		if err := rows.Scan(&advertiserID); err != nil {
			return nil, fmt.Errorf("erro ao escanear anunciante: %w", err)
		}
		advertiserIDs = append(advertiserIDs, advertiserID)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante a iteração de linhas: %w", err)
	}

	return advertiserIDs, nil
}

func (r *accessRepository) IsAdminUser(userHash string) (bool, error) {
	query, args, err := squirrel.
		Select("1").
		From(adminUsersTable).
		Where(squirrel.Eq{"au.user_hash": userHash}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var flag int
	err = r.conn.QueryRow(query, args...).Scan(&flag)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("erro ao executar a query: %w", err)
	}

	return true, nil
}
