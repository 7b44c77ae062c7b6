package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	orderdomain "github.com/ScriptsHub07/venda3/internal/order/domain"
	orderrepo "github.com/ScriptsHub07/venda3/internal/order/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type AdminOrderRepository interface {
	ListAll(ctx context.Context) ([]*orderdomain.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, update orderrepo.StatusUpdate) (*orderdomain.Order, error)
}

type AdminOrdersHandler struct {
	orders  AdminOrderRepository
	timeout time.Duration
}

func NewAdminOrdersHandler(orders AdminOrderRepository, timeout time.Duration) *AdminOrdersHandler {
	return &AdminOrdersHandler{orders: orders, timeout: timeout}
}

type UpdateOrderStatusRequestDTO struct {
	Status           string     `json:"status"`
	TrackingCode     *string    `json:"tracking_code"`
	ExpectedDelivery *time.Time `json:"expected_delivery"`
}

func (h *AdminOrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orders, err := h.orders.ListAll(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list orders")
		return
	}
	if orders == nil {
		orders = []*orderdomain.Order{}
	}

	respondJSON(w, http.StatusOK, orders)
}

func (h *AdminOrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid order id")
		return
	}

	var req UpdateOrderStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := orderdomain.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be pending, processing, shipped or delivered")
		return
	}

	order, err := h.orders.UpdateStatus(ctx, id, orderrepo.StatusUpdate{
		Status:           status,
		TrackingCode:     req.TrackingCode,
		ExpectedDelivery: req.ExpectedDelivery,
	})
	switch {
	case errors.Is(err, orderrepo.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	case errors.Is(err, orderrepo.ErrInvalidTransition):
		respondError(w, http.StatusConflict, "invalid_transition", "order status can only advance one step forward")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update order status")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
