package httpapi

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"supportbot/internal/domain"
	"supportbot/internal/port"
)

type orderStatusResponse struct {
	Status            string `json:"status"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

// NewOrdersRouter serves order status from lookup in the format the HTTP
// order client expects.
func NewOrdersRouter(lookup port.OrderLookup, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := newRouter(nil)
	r.Get("/order_status/{orderID}", func(w http.ResponseWriter, req *http.Request) {
		id := chi.URLParam(req, "orderID")

		order, err := lookup.Lookup(req.Context(), id)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, orderStatusResponse{
				Status:            order.Status,
				EstimatedDelivery: order.EstimatedDelivery,
			}, logger)
		case errors.Is(err, domain.ErrOrderNotFound):
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "Order not found"}, logger)
		default:
			logger.Error("order lookup failed", zap.String("order_id", id), zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()}, logger)
		}
	})
	return r
}
