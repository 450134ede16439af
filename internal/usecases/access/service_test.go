package access

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/vfg2006/billing-recon-api/infrastructure/repository/mocks"
	"github.com/vfg2006/billing-recon-api/internal/config"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/resolving"
	"github.com/vfg2006/billing-recon-api/pkg/utils"
	"go.uber.org/mock/gomock"
)

var (
	olderBatch = time.Date(2020, 3, 1, 8, 0, 0, 0, time.UTC)
	newerBatch = time.Date(2020, 3, 2, 8, 0, 0, 0, time.UTC)
)

func permission(userHash, entityType, entityID string, insertedAt time.Time) domain.PermissionRecord {
	return domain.PermissionRecord{
		UserHash:   userHash,
		EntityType: entityType,
		EntityID:   entityID,
		InsertedAt: insertedAt,
	}
}

func link(partnerID, advertiserID, advertiserName string) domain.AdvertiserLink {
	return domain.AdvertiserLink{
		PartnerID:      partnerID,
		PartnerName:    "Reseller One",
		AdvertiserID:   advertiserID,
		AdvertiserName: advertiserName,
	}
}

func linkRecord(partnerID, advertiserID, advertiserName string, insertedAt time.Time) domain.AdvertiserLinkRecord {
	return domain.AdvertiserLinkRecord{
		PartnerID:      partnerID,
		PartnerName:    "Reseller One",
		AdvertiserID:   advertiserID,
		AdvertiserName: advertiserName,
		InsertedAt:     insertedAt,
	}
}

func TestFlattenGrants_ParceiroExpandeEConcessaoDiretaNaoDuplica(t *testing.T) {
	permissions := []domain.PermissionRecord{
		permission("u1", "partner", "P1", newerBatch),
		permission("u1", "advertiser", "20", newerBatch),
	}
	links := []domain.AdvertiserLink{
		link("P1", "10", "Acme"),
		link("P1", "20", "Beta"),
		link("P1", "30", "Gama"),
	}

	grants := FlattenGrants(permissions, links)

	// Parceiro cobre {10, 20, 30}; a concessão direta sobre 20 não duplica
	assert.Equal(t, []domain.AccessGrant{
		{UserHash: "u1", AdvertiserID: "10"},
		{UserHash: "u1", AdvertiserID: "20"},
		{UserHash: "u1", AdvertiserID: "30"},
	}, grants)
}

func TestFlattenGrants_TipoDesconhecidoOuCamposVaziosIgnorados(t *testing.T) {
	permissions := []domain.PermissionRecord{
		permission("u1", "campaign", "77", newerBatch),
		permission("", "advertiser", "10", newerBatch),
		permission("u1", "advertiser", "", newerBatch),
		permission("u2", " Advertiser ", " 10 ", newerBatch),
	}

	grants := FlattenGrants(permissions, nil)

	// Só a última sobrevive, com tipo e campos normalizados
	assert.Equal(t, []domain.AccessGrant{
		{UserHash: "u2", AdvertiserID: "10"},
	}, grants)
}

func TestFlattenGrants_ParceiroSemVinculosNaoGeraNada(t *testing.T) {
	permissions := []domain.PermissionRecord{
		permission("u1", "partner", "P9", newerBatch),
	}

	grants := FlattenGrants(permissions, []domain.AdvertiserLink{link("P1", "10", "Acme")})

	assert.NotNil(t, grants)
	assert.Empty(t, grants)
}

func TestFlattenGrants_SaidaDeterministicaSobPermutacao(t *testing.T) {
	permissions := []domain.PermissionRecord{
		permission("u2", "advertiser", "5", newerBatch),
		permission("u1", "partner", "P1", newerBatch),
		permission("u1", "advertiser", "20", newerBatch),
	}
	links := []domain.AdvertiserLink{
		link("P1", "30", "Gama"),
		link("P1", "10", "Acme"),
	}

	direct := FlattenGrants(permissions, links)

	permutedPerms := []domain.PermissionRecord{permissions[2], permissions[0], permissions[1]}
	permutedLinks := []domain.AdvertiserLink{links[1], links[0]}
	permuted := FlattenGrants(permutedPerms, permutedLinks)

	assert.Equal(t, direct, permuted)
	assert.Equal(t, []domain.AccessGrant{
		{UserHash: "u1", AdvertiserID: "10"},
		{UserHash: "u1", AdvertiserID: "20"},
		{UserHash: "u1", AdvertiserID: "30"},
		{UserHash: "u2", AdvertiserID: "5"},
	}, direct)
}

func TestAdminHashes_NormalizaEDeduplica(t *testing.T) {
	hashes := AdminHashes([]string{"Finance@Acme.com", " finance@acme.com ", "", "ops@acme.com"})

	assert.Len(t, hashes, 2)
	assert.Contains(t, hashes, utils.HashIdentity("finance@acme.com"))
	assert.Contains(t, hashes, utils.HashIdentity("ops@acme.com"))
}

func TestRunAccessSync(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	permissionLogRepo := mocks.NewMockPermissionLogRepository(ctrl)
	accessRepo := mocks.NewMockAccessRepository(ctrl)

	cfg := &config.Config{
		Access: config.Access{AdminEmails: []string{"finance@acme.com"}},
	}

	service := NewService(cfg, permissionLogRepo, accessRepo, resolving.NewService())

	tests := []struct {
		name     string
		setup    func(grants *[]domain.AccessGrant, admins *[]string)
		validate func(t *testing.T, result *SyncResult, err error, grants []domain.AccessGrant, admins []string)
	}{
		{
			name: "Apenas o lote mais recente de permissões vale: acesso revogado some",
			setup: func(grants *[]domain.AccessGrant, admins *[]string) {
				permissionLogRepo.EXPECT().
					ListPermissionRecords().
					Return([]domain.PermissionRecord{
						// Lote antigo: u1 ainda via o anunciante 99
						permission("u1", "advertiser", "99", olderBatch),
						// Lote novo: 99 não veio mais
						permission("u1", "partner", "P1", newerBatch),
						permission("u1", "advertiser", "20", newerBatch),
					}, nil)

				permissionLogRepo.EXPECT().
					ListAdvertiserLinkRecords().
					Return([]domain.AdvertiserLinkRecord{
						linkRecord("P1", "10", "Acme", newerBatch),
						linkRecord("P1", "20", "Beta", newerBatch),
					}, nil)

				accessRepo.EXPECT().
					ReplaceAccessData(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, g []domain.AccessGrant, a []string) error {
						*grants = g
						*admins = a
						return nil
					})
			},
			validate: func(t *testing.T, result *SyncResult, err error, grants []domain.AccessGrant, admins []string) {
				assert.NoError(t, err)
				assert.NotNil(t, result)
				assert.Equal(t, 2, result.Grants)
				assert.Equal(t, 1, result.Admins)

				assert.Equal(t, []domain.AccessGrant{
					{UserHash: "u1", AdvertiserID: "10"},
					{UserHash: "u1", AdvertiserID: "20"},
				}, grants)

				for _, grant := range grants {
					assert.NotEqual(t, "99", grant.AdvertiserID)
				}

				assert.Equal(t, []string{utils.HashIdentity("finance@acme.com")}, admins)
			},
		},
		{
			name: "Falha na leitura do log aborta sem publicar",
			setup: func(grants *[]domain.AccessGrant, admins *[]string) {
				permissionLogRepo.EXPECT().
					ListPermissionRecords().
					Return(nil, fmt.Errorf("conexão recusada"))
			},
			validate: func(t *testing.T, result *SyncResult, err error, grants []domain.AccessGrant, admins []string) {
				assert.Error(t, err)
				assert.Nil(t, result)
			},
		},
		{
			name: "Feeds vazios publicam recorte vazio com administradores da configuração",
			setup: func(grants *[]domain.AccessGrant, admins *[]string) {
				permissionLogRepo.EXPECT().
					ListPermissionRecords().
					Return([]domain.PermissionRecord{}, nil)

				permissionLogRepo.EXPECT().
					ListAdvertiserLinkRecords().
					Return([]domain.AdvertiserLinkRecord{}, nil)

				accessRepo.EXPECT().
					ReplaceAccessData(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, g []domain.AccessGrant, a []string) error {
						*grants = g
						*admins = a
						return nil
					})
			},
			validate: func(t *testing.T, result *SyncResult, err error, grants []domain.AccessGrant, admins []string) {
				assert.NoError(t, err)
				assert.Equal(t, 0, result.Grants)
				assert.Equal(t, 1, result.Admins)
				assert.Empty(t, grants)
				assert.Len(t, admins, 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				grants []domain.AccessGrant
				admins []string
			)
			tt.setup(&grants, &admins)

			result, err := service.RunAccessSync(context.Background())
			tt.validate(t, result, err, grants, admins)
		})
	}
}

func TestScopeForEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	permissionLogRepo := mocks.NewMockPermissionLogRepository(ctrl)
	accessRepo := mocks.NewMockAccessRepository(ctrl)

	cfg := &config.Config{}
	service := NewService(cfg, permissionLogRepo, accessRepo, resolving.NewService())

	adminHash := utils.HashIdentity("finance@acme.com")
	clientHash := utils.HashIdentity("buyer@reseller.com")

	t.Run("Administrador enxerga tudo", func(t *testing.T) {
		accessRepo.EXPECT().IsAdminUser(adminHash).Return(true, nil)

		scope, err := service.ScopeForEmail("Finance@Acme.com")

		assert.NoError(t, err)
		assert.True(t, scope.Admin)
		assert.Nil(t, scope.AdvertiserIDs)
	})

	t.Run("Usuário comum recebe a lista de anunciantes", func(t *testing.T) {
		accessRepo.EXPECT().IsAdminUser(clientHash).Return(false, nil)
		accessRepo.EXPECT().ListAdvertiserIDsByUserHash(clientHash).Return([]string{"10", "20"}, nil)

		scope, err := service.ScopeForEmail("buyer@reseller.com")

		assert.NoError(t, err)
		assert.False(t, scope.Admin)
		assert.Equal(t, []string{"10", "20"}, scope.AdvertiserIDs)
	})

	t.Run("Usuário sem concessões recebe fatia vazia e não nula", func(t *testing.T) {
		accessRepo.EXPECT().IsAdminUser(clientHash).Return(false, nil)
		accessRepo.EXPECT().ListAdvertiserIDsByUserHash(clientHash).Return(nil, nil)

		scope, err := service.ScopeForEmail("buyer@reseller.com")

		assert.NoError(t, err)
		assert.False(t, scope.Admin)
		assert.NotNil(t, scope.AdvertiserIDs)
		assert.Empty(t, scope.AdvertiserIDs)
	})
}

func TestVisibleAdvertisers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	permissionLogRepo := mocks.NewMockPermissionLogRepository(ctrl)
	accessRepo := mocks.NewMockAccessRepository(ctrl)

	cfg := &config.Config{}
	service := NewService(cfg, permissionLogRepo, accessRepo, resolving.NewService())

	catalog := []domain.AdvertiserLinkRecord{
		linkRecord("P1", "10", "Acme", newerBatch),
		linkRecord("P1", "20", "Beta", newerBatch),
		linkRecord("P2", "30", "Gama", newerBatch),
	}

	t.Run("Administrador recebe o catálogo completo", func(t *testing.T) {
		adminHash := utils.HashIdentity("finance@acme.com")
		accessRepo.EXPECT().IsAdminUser(adminHash).Return(true, nil)
		permissionLogRepo.EXPECT().ListAdvertiserLinkRecords().Return(catalog, nil)

		visible, err := service.VisibleAdvertisers("finance@acme.com")

		assert.NoError(t, err)
		assert.Len(t, visible, 3)
	})

	t.Run("Usuário comum recebe só o que pode ver, incluindo concessão fora da hierarquia", func(t *testing.T) {
		clientHash := utils.HashIdentity("buyer@reseller.com")
		accessRepo.EXPECT().IsAdminUser(clientHash).Return(false, nil)
		accessRepo.EXPECT().ListAdvertiserIDsByUserHash(clientHash).Return([]string{"20", "77"}, nil)
		permissionLogRepo.EXPECT().ListAdvertiserLinkRecords().Return(catalog, nil)

		visible, err := service.VisibleAdvertisers("buyer@reseller.com")

		assert.NoError(t, err)
		assert.Len(t, visible, 2)
		assert.Equal(t, "20", visible[0].AdvertiserID)
		assert.Equal(t, "Beta", visible[0].AdvertiserName)
		// Concedido mas ausente do catálogo: aparece sem nome resolvido
		assert.Equal(t, "77", visible[1].AdvertiserID)
		assert.Equal(t, "", visible[1].AdvertiserName)
	})
}

func TestAdvertiserCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	permissionLogRepo := mocks.NewMockPermissionLogRepository(ctrl)
	accessRepo := mocks.NewMockAccessRepository(ctrl)

	cfg := &config.Config{}
	service := NewService(cfg, permissionLogRepo, accessRepo, resolving.NewService())

	t.Run("Catálogo usa só o lote mais recente e ordena por anunciante", func(t *testing.T) {
		permissionLogRepo.EXPECT().ListAdvertiserLinkRecords().Return([]domain.AdvertiserLinkRecord{
			linkRecord("P9", "90", "Removido", olderBatch),
			linkRecord("P2", "30", "Gama", newerBatch),
			linkRecord("P1", "10", "Acme", newerBatch),
		}, nil)

		links, err := service.AdvertiserCatalog()

		assert.NoError(t, err)
		assert.Len(t, links, 2)
		assert.Equal(t, "10", links[0].AdvertiserID)
		assert.Equal(t, "Acme", links[0].AdvertiserName)
		assert.Equal(t, "30", links[1].AdvertiserID)
		assert.Equal(t, "Gama", links[1].AdvertiserName)
	})

	t.Run("Falha na leitura do log propaga o erro", func(t *testing.T) {
		permissionLogRepo.EXPECT().ListAdvertiserLinkRecords().Return(nil, assert.AnError)

		links, err := service.AdvertiserCatalog()

		assert.Error(t, err)
		assert.Nil(t, links)
	})
}
