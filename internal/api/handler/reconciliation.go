package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/billing-recon-api/internal/domain"
	"github.com/vfg2006/billing-recon-api/internal/usecases/access"
	"github.com/vfg2006/billing-recon-api/internal/usecases/reconciling"
	"github.com/vfg2006/billing-recon-api/pkg/log"
	"github.com/vfg2006/billing-recon-api/pkg/middleware"
	"github.com/vfg2006/billing-recon-api/pkg/utils"
)

// ReconciledRowResponse achata a linha conciliada para a API: chave do
// cruzamento, atributos resolvidos entre os dois lados e a variância, que só
// existe quando a linha casou.
type ReconciledRowResponse struct {
	Side               domain.MatchSide             `json:"side"`
	InvoiceNumber      string                       `json:"invoice_number,omitempty"`
	AdvertiserID       string                       `json:"advertiser_id"`
	AdvertiserName     string                       `json:"advertiser_name,omitempty"`
	CampaignID         string                       `json:"campaign_id"`
	CampaignName       string                       `json:"campaign_name,omitempty"`
	InsertionOrderID   string                       `json:"insertion_order_id"`
	InsertionOrderName string                       `json:"insertion_order_name,omitempty"`
	ScheduleCode       string                       `json:"schedule_code"`
	Currency           string                       `json:"currency,omitempty"`
	PeriodEnd          *time.Time                   `json:"period_end,omitempty"`
	Report             *domain.AggregatedReportRow  `json:"report,omitempty"`
	Invoice            *domain.AggregatedInvoiceRow `json:"invoice,omitempty"`
	Variance           *decimal.Decimal             `json:"variance,omitempty"`
}

func toReconciledRowResponse(row domain.ReconciledRow) ReconciledRowResponse {
	return ReconciledRowResponse{
		Side:               row.Side,
		InvoiceNumber:      row.InvoiceNumber(),
		AdvertiserID:       row.AdvertiserID(),
		AdvertiserName:     row.AdvertiserName(),
		CampaignID:         row.CampaignID(),
		CampaignName:       row.CampaignName(),
		InsertionOrderID:   row.InsertionOrderID(),
		InsertionOrderName: row.InsertionOrderName(),
		ScheduleCode:       row.ScheduleCode(),
		Currency:           row.Currency(),
		PeriodEnd:          row.PeriodEnd(),
		Report:             row.Report,
		Invoice:            row.Invoice,
		Variance:           row.Variance(),
	}
}

// GetReconciliationRows retorna as linhas conciliadas visíveis para o usuário
// logado, com filtros opcionais de período, lado e número de fatura
func GetReconciliationRows(service reconciling.Reconciler, scopes access.ScopeResolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		userClaims, filter, ok := reconciliationRequest(w, r, scopes)
		if !ok {
			return
		}

		rows, err := service.Reconciliation(filter)
		if err != nil {
			logger.WithError(err).Error("reconciliation: erro ao buscar linhas conciliadas")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		response := make([]ReconciledRowResponse, 0, len(rows))
		for _, row := range rows {
			response = append(response, toReconciledRowResponse(row))
		}

		logger.WithFields(log.Fields{
			"user_id":       userClaims.UserID,
			"rows_returned": len(response),
		}).Info("reconciliation: linhas conciliadas recuperadas")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.WithError(err).Error("reconciliation: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// GetReconciliationSummary consolida contagens e totais das linhas visíveis
// para o usuário logado, com os mesmos filtros das linhas
func GetReconciliationSummary(service reconciling.Reconciler, scopes access.ScopeResolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		userClaims, filter, ok := reconciliationRequest(w, r, scopes)
		if !ok {
			return
		}

		summary, err := service.Summary(filter)
		if err != nil {
			logger.WithError(err).Error("reconciliation-summary: erro ao consolidar linhas")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		logger.WithFields(log.Fields{
			"user_id": userClaims.UserID,
			"rows":    summary.Rows,
			"matched": summary.Matched,
		}).Info("reconciliation-summary: resumo consolidado")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(summary); err != nil {
			logger.WithError(err).Error("reconciliation-summary: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// GetDeliveryRows retorna a veiculação agregada visível para o usuário
// logado, antes do cruzamento com as faturas
func GetDeliveryRows(service reconciling.Reconciler, scopes access.ScopeResolver) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		userClaims, filter, ok := reconciliationRequest(w, r, scopes)
		if !ok {
			return
		}

		rows, err := service.Delivery(filter)
		if err != nil {
			logger.WithError(err).Error("delivery: erro ao buscar veiculação agregada")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		logger.WithFields(log.Fields{
			"user_id":       userClaims.UserID,
			"rows_returned": len(rows),
		}).Info("delivery: veiculação agregada recuperada")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(rows); err != nil {
			logger.WithError(err).Error("delivery: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

// reconciliationRequest valida o usuário logado, monta o filtro da consulta e
// aplica o recorte de visibilidade. Em caso de falha a resposta já foi
// escrita e ok é falso.
func reconciliationRequest(w http.ResponseWriter, r *http.Request, scopes access.ScopeResolver) (*domain.Claims, domain.ReconciliationFilter, bool) {
	logger := log.ForContext(r.Context())

	userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	if !ok {
		http.Error(w, "Usuário não autenticado", http.StatusUnauthorized)
		return nil, domain.ReconciliationFilter{}, false
	}

	filter, err := reconciliationFilterFromRequest(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, domain.ReconciliationFilter{}, false
	}

	filter.AdvertiserIDs, err = visibleAdvertiserIDs(userClaims, scopes)
	if err != nil {
		logger.WithError(err).WithFields(log.Fields{
			"user_id": userClaims.UserID,
		}).Error("reconciliation: erro ao resolver o recorte de acesso")

		http.Error(w, "Erro ao resolver o recorte de acesso", http.StatusInternalServerError)
		return nil, domain.ReconciliationFilter{}, false
	}

	return userClaims, filter, true
}

// reconciliationFilterFromRequest monta o filtro a partir dos parâmetros de
// consulta. Mês e ano são opcionais, mas andam juntos.
func reconciliationFilterFromRequest(r *http.Request) (domain.ReconciliationFilter, error) {
	filter := domain.ReconciliationFilter{}

	month := r.URL.Query().Get("month")
	year := r.URL.Query().Get("year")

	if month != "" || year != "" {
		if month == "" || year == "" {
			return filter, errors.New("É necessário informar mês e ano juntos")
		}

		// Validar mês (entre 01 e 12)
		if len(month) != 2 || month < "01" || month > "12" {
			return filter, errors.New("Mês inválido. Use formato de dois dígitos (01-12)")
		}

		// Validar ano (4 dígitos)
		if len(year) != 4 {
			return filter, errors.New("Ano inválido. Use formato de quatro dígitos (ex: 2025)")
		}

		monthNumber, err := strconv.Atoi(month)
		if err != nil {
			return filter, errors.New("Mês inválido. Use formato de dois dígitos (01-12)")
		}

		yearNumber, err := strconv.Atoi(year)
		if err != nil {
			return filter, errors.New("Ano inválido. Use formato de quatro dígitos (ex: 2025)")
		}

		first, last := utils.MonthWindow(time.Month(monthNumber), yearNumber)
		filter.PeriodStart = &first
		filter.PeriodEnd = &last
	}

	if side := r.URL.Query().Get("side"); side != "" {
		matchSide := domain.MatchSide(side)
		switch matchSide {
		case domain.MatchBoth, domain.MatchReportOnly, domain.MatchInvoiceOnly:
			filter.Side = &matchSide
		default:
			return filter, errors.New("Lado inválido. Valores aceitos: both, report_only, invoice_only")
		}
	}

	if invoiceNumber := r.URL.Query().Get("invoice_number"); invoiceNumber != "" {
		filter.InvoiceNumber = &invoiceNumber
	}

	return filter, nil
}

// visibleAdvertiserIDs resolve o recorte do usuário logado. Perfis internos
// enxergam tudo (nil); clientes enxergam apenas os anunciantes concedidos, e
// fatia vazia significa nenhum anunciante visível.
func visibleAdvertiserIDs(claims *domain.Claims, scopes access.ScopeResolver) ([]string, error) {
	if claims.UserRoleID == middleware.RoleAdmin || claims.UserRoleID == middleware.RoleSupervisor {
		return nil, nil
	}

	scope, err := scopes.ScopeForEmail(claims.UserEmail)
	if err != nil {
		return nil, err
	}

	if scope.Admin {
		return nil, nil
	}

	return scope.AdvertiserIDs, nil
}
