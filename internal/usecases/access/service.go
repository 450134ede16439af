package access

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/billing-recon-api/infrastructure/repository"
	"github.com/vfg2006/billing-recon-api/internal/config"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/resolving"
	"github.com/vfg2006/billing-recon-api/pkg/utils"
)

// ScopeResolver achata o snapshot de permissões do produto de anúncios no
// recorte de visibilidade consultado pela API
type ScopeResolver interface {
	RunAccessSync(ctx context.Context) (*SyncResult, error)
	ScopeForEmail(email string) (*domain.AccessScope, error)
	VisibleAdvertisers(email string) ([]domain.AdvertiserLink, error)
	AdvertiserCatalog() ([]domain.AdvertiserLink, error)
}

// SyncResult resume uma sincronização publicada do recorte de acesso
type SyncResult struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Grants     int       `json:"grants"`
	Admins     int       `json:"admins"`
}

type Service struct {
	cfg                     *config.Config
	permissionLogRepository repository.PermissionLogRepository
	accessRepository        repository.AccessRepository
	resolver                resolving.Resolver
}

// NewService cria uma nova instância do serviço de recorte de acesso
func NewService(
	cfg *config.Config,
	permissionLogRepo repository.PermissionLogRepository,
	accessRepo repository.AccessRepository,
	resolver resolving.Resolver,
) ScopeResolver {
	return &Service{
		cfg:                     cfg,
		permissionLogRepository: permissionLogRepo,
		accessRepository:        accessRepo,
		resolver:                resolver,
	}
}

// RunAccessSync materializa o snapshot corrente de permissões e hierarquia em
// pares (usuário, anunciante) e troca as tabelas de acesso em uma única
// transação. Falha em qualquer etapa preserva o recorte anterior.
func (s *Service) RunAccessSync(ctx context.Context) (*SyncResult, error) {
	runID, err := utils.GenerateID()
	if err != nil {
		return nil, fmt.Errorf("erro ao gerar o identificador da execução: %w", err)
	}

	logger := logrus.WithFields(logrus.Fields{
		"job":    "access_sync",
		"run_id": runID,
	})

	startedAt := time.Now()
	logger.Info("Iniciando sincronização do recorte de acesso")

	permissionRecords, err := s.permissionLogRepository.ListPermissionRecords()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar o log de permissões: %w", err)
	}

	linkRecords, err := s.permissionLogRepository.ListAdvertiserLinkRecords()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar o log de vínculos de anunciante: %w", err)
	}

	permissions := s.resolver.CurrentPermissions(permissionRecords)
	links := s.resolver.CurrentAdvertiserLinks(linkRecords)

	grants := FlattenGrants(permissions, links)
	adminHashes := AdminHashes(s.cfg.Access.AdminEmails)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sincronização cancelada antes da publicação: %w", err)
	}

	if err := s.accessRepository.ReplaceAccessData(ctx, grants, adminHashes); err != nil {
		return nil, fmt.Errorf("erro ao publicar o recorte de acesso %s: %w", runID, err)
	}

	logger.WithFields(logrus.Fields{
		"rows_grants": len(grants),
		"rows_admins": len(adminHashes),
	}).Info("Recorte de acesso publicado")

	return &SyncResult{
		RunID:      runID,
		StartedAt:  startedAt,
		FinishedAt: time.Now(),
		Grants:     len(grants),
		Admins:     len(adminHashes),
	}, nil
}

// FlattenGrants expande permissões de parceiro em um par por anunciante
// gerenciado e junta as concessões diretas. O resultado é um conjunto:
// parceiro e concessão direta sobre o mesmo anunciante viram um único par.
func FlattenGrants(permissions []domain.PermissionRecord, links []domain.AdvertiserLink) []domain.AccessGrant {
	advertisersByPartner := make(map[string][]string)
	for _, link := range links {
		advertisersByPartner[link.PartnerID] = append(advertisersByPartner[link.PartnerID], link.AdvertiserID)
	}

	seen := make(map[domain.AccessGrant]bool)
	grants := make([]domain.AccessGrant, 0, len(permissions))
	skipped := 0

	add := func(userHash, advertiserID string) {
		grant := domain.AccessGrant{UserHash: userHash, AdvertiserID: advertiserID}
		if seen[grant] {
			return
		}
		seen[grant] = true
		grants = append(grants, grant)
	}

	for _, permission := range permissions {
		userHash := strings.TrimSpace(permission.UserHash)
		entityID := strings.TrimSpace(permission.EntityID)
		if userHash == "" || entityID == "" {
			skipped++
			continue
		}

		switch strings.TrimSpace(strings.ToLower(permission.EntityType)) {
		case domain.EntityTypeAdvertiser:
			add(userHash, entityID)
		case domain.EntityTypePartner:
			for _, advertiserID := range advertisersByPartner[entityID] {
				add(userHash, advertiserID)
			}
		default:
			skipped++
		}
	}

	if skipped > 0 {
		logrus.WithField("rows_skipped", skipped).Warn("Permissões ignoradas por tipo desconhecido ou campos vazios")
	}

	sort.Slice(grants, func(i, j int) bool {
		if grants[i].UserHash != grants[j].UserHash {
			return grants[i].UserHash < grants[j].UserHash
		}
		return grants[i].AdvertiserID < grants[j].AdvertiserID
	})

	return grants
}

// AdminHashes converte a lista configurada de e-mails administradores nos
// hashes usados pelas tabelas de acesso, sem duplicatas e em ordem estável
func AdminHashes(emails []string) []string {
	seen := make(map[string]bool)
	hashes := make([]string, 0, len(emails))

	for _, email := range emails {
		if strings.TrimSpace(email) == "" {
			continue
		}

		hash := utils.HashIdentity(email)
		if seen[hash] {
			continue
		}
		seen[hash] = true
		hashes = append(hashes, hash)
	}

	sort.Strings(hashes)

	return hashes
}

// ScopeForEmail resolve a visibilidade do chamador a partir do e-mail das
// credenciais. Administrador enxerga tudo; os demais recebem a lista de
// anunciantes concedidos, possivelmente vazia.
func (s *Service) ScopeForEmail(email string) (*domain.AccessScope, error) {
	userHash := utils.HashIdentity(email)

	admin, err := s.accessRepository.IsAdminUser(userHash)
	if err != nil {
		return nil, fmt.Errorf("erro ao verificar administrador: %w", err)
	}

	if admin {
		return &domain.AccessScope{Admin: true}, nil
	}

	advertiserIDs, err := s.accessRepository.ListAdvertiserIDsByUserHash(userHash)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar anunciantes do usuário: %w", err)
	}

	if advertiserIDs == nil {
		advertiserIDs = []string{}
	}

	return &domain.AccessScope{AdvertiserIDs: advertiserIDs}, nil
}

// VisibleAdvertisers monta o catálogo de anunciantes que o chamador pode usar
// nos filtros da interface, já recortado pela visibilidade
func (s *Service) VisibleAdvertisers(email string) ([]domain.AdvertiserLink, error) {
	scope, err := s.ScopeForEmail(email)
	if err != nil {
		return nil, err
	}

	linkRecords, err := s.permissionLogRepository.ListAdvertiserLinkRecords()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar o log de vínculos de anunciante: %w", err)
	}

	links := s.resolver.CurrentAdvertiserLinks(linkRecords)

	if scope.Admin {
		return links, nil
	}

	allowed := make(map[string]bool, len(scope.AdvertiserIDs))
	for _, advertiserID := range scope.AdvertiserIDs {
		allowed[advertiserID] = true
	}

	visible := make([]domain.AdvertiserLink, 0, len(links))
	inCatalog := make(map[string]bool, len(links))
	for _, link := range links {
		if !allowed[link.AdvertiserID] {
			continue
		}
		visible = append(visible, link)
		inCatalog[link.AdvertiserID] = true
	}

	// Concessão direta a anunciante fora da hierarquia ainda aparece,
	// apenas sem nome resolvido
	for _, advertiserID := range scope.AdvertiserIDs {
		if !inCatalog[advertiserID] {
			visible = append(visible, domain.AdvertiserLink{AdvertiserID: advertiserID})
		}
	}

	sort.Slice(visible, func(i, j int) bool {
		if visible[i].AdvertiserID != visible[j].AdvertiserID {
			return visible[i].AdvertiserID < visible[j].AdvertiserID
		}
		return visible[i].PartnerID < visible[j].PartnerID
	})

	return visible, nil
}

// AdvertiserCatalog lista a hierarquia parceiro/anunciante corrente sem
// recorte de visibilidade, para as telas administrativas
func (s *Service) AdvertiserCatalog() ([]domain.AdvertiserLink, error) {
	linkRecords, err := s.permissionLogRepository.ListAdvertiserLinkRecords()
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar o log de vínculos de anunciante: %w", err)
	}

	links := s.resolver.CurrentAdvertiserLinks(linkRecords)

	sort.Slice(links, func(i, j int) bool {
		if links[i].AdvertiserID != links[j].AdvertiserID {
			return links[i].AdvertiserID < links[j].AdvertiserID
		}
		return links[i].PartnerID < links[j].PartnerID
	})

	return links, nil
}
