package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	checkout "github.com/ScriptsHub07/venda3/internal/checkout/service"
	orderdomain "github.com/ScriptsHub07/venda3/internal/order/domain"
	"github.com/google/uuid"
)

type Checkouter interface {
	Checkout(ctx context.Context, userID uuid.UUID, request checkout.CheckoutRequest) (*checkout.CheckoutResult, error)
}

type CheckoutHandler struct {
	service Checkouter
	timeout time.Duration
}

func NewCheckoutHandler(service Checkouter, timeout time.Duration) *CheckoutHandler {
	return &CheckoutHandler{service: service, timeout: timeout}
}

type CheckoutRequestDTO struct {
	AddressID      string `json:"address_id"`
	IdempotencyKey string `json:"idempotency_key"`
	CouponCode     string `json:"coupon_code"`
}

type CheckoutResponseDTO struct {
	Order      *orderdomain.Order `json:"order"`
	QRCodeText string             `json:"qrCodeText,omitempty"`
	CopiaECola string             `json:"copiaECola,omitempty"`
	Replayed   bool               `json:"replayed,omitempty"`
}

func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	var req CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	addressID, err := uuid.Parse(req.AddressID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_address_id", "address_id must be a valid id")
		return
	}

	result, err := h.service.Checkout(ctx, userID, checkout.CheckoutRequest{
		AddressID:      addressID,
		IdempotencyKey: req.IdempotencyKey,
		CouponCode:     req.CouponCode,
	})
	switch {
	case errors.Is(err, checkout.ErrMissingIdempotency):
		respondError(w, http.StatusBadRequest, "missing_idempotency_key", "idempotency_key is required")
		return
	case errors.Is(err, checkout.ErrNoItemsSelected):
		respondError(w, http.StatusBadRequest, "empty_selection", "no cart items selected for checkout")
		return
	case errors.Is(err, checkout.ErrUnknownAddress):
		respondError(w, http.StatusNotFound, "address_not_found", "address not found")
		return
	case errors.Is(err, checkout.ErrProductUnavailable):
		respondError(w, http.StatusConflict, "product_unavailable", err.Error())
		return
	case errors.Is(err, checkout.ErrInvalidCoupon):
		respondError(w, http.StatusUnprocessableEntity, "invalid_coupon", err.Error())
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "checkout failed")
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}
	respondJSON(w, status, CheckoutResponseDTO{
		Order:      result.Order,
		QRCodeText: result.QRCodeText,
		CopiaECola: result.CopiaECola,
		Replayed:   result.Replayed,
	})
}
