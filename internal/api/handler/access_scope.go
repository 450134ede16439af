package handler

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/access"
	"github.com/vfg2006/billing-recon-api/pkg/apiErrors"
	"github.com/vfg2006/billing-recon-api/pkg/middleware"
)

// GetMyScope retorna o recorte de acesso do usuário logado: se é
// administrador do produto de anúncios e quais anunciantes pode enxergar
func GetMyScope(service access.ScopeResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		scope, err := service.ScopeForEmail(userClaims.UserEmail)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao resolver o recorte de acesso", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(scope)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetMyAdvertisers retorna os anunciantes visíveis para o usuário logado,
// com os nomes resolvidos pela hierarquia parceiro→anunciante
func GetMyAdvertisers(service access.ScopeResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		advertisers, err := service.VisibleAdvertisers(userClaims.UserEmail)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar anunciantes visíveis", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(advertisers)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}

// GetAdvertiserCatalog retorna a hierarquia parceiro/anunciante completa,
// sem recorte de visibilidade. A rota limita o acesso a administradores e
// supervisores.
func GetAdvertiserCatalog(service access.ScopeResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		catalog, err := service.AdvertiserCatalog()
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar o catálogo de anunciantes", nil)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		err = json.NewEncoder(w).Encode(catalog)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Erro ao enviar resposta", nil)
			return
		}
	}
}
