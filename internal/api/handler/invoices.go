package handler

import (
	"net/http"

	"github.com/vfg2006/billing-recon-api/internal/usecases/reconciling"
	"github.com/vfg2006/billing-recon-api/pkg/log"
)

// GetInvoices retorna os cabeçalhos de fatura correntes, já resolvidos para o
// snapshot mais recente de cada documento
func GetInvoices(service reconciling.Reconciler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := log.ForContext(r.Context())

		invoices, err := service.Invoices()
		if err != nil {
			logger.WithError(err).Error("invoices: erro ao buscar cabeçalhos de fatura")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		logger.WithFields(log.Fields{
			"rows_returned": len(invoices),
		}).Info("invoices: cabeçalhos de fatura recuperados")

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(invoices); err != nil {
			logger.WithError(err).Error("invoices: erro ao codificar resposta")
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}
