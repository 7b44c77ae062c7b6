package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	orderdomain "github.com/ScriptsHub07/venda3/internal/order/domain"
	orderrepo "github.com/ScriptsHub07/venda3/internal/order/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type OrderReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*orderdomain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*orderdomain.Order, error)
}

// OrderHandler serves the customer's own order history. Another customer's
// order answers 404, never 403, so ids cannot be probed.
type OrderHandler struct {
	orders  OrderReader
	timeout time.Duration
}

func NewOrderHandler(orders OrderReader, timeout time.Duration) *OrderHandler {
	return &OrderHandler{orders: orders, timeout: timeout}
}

func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	orders, err := h.orders.ListByUser(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*orderdomain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid order id")
		return
	}

	order, err := h.orders.GetByID(ctx, id)
	if errors.Is(err, orderrepo.ErrOrderNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load order")
		return
	}
	if order.UserID != userID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
