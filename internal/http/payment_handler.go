package http

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ScriptsHub07/venda3/internal/payment/pix"
	paymentservice "github.com/ScriptsHub07/venda3/internal/payment/service"
	"github.com/google/uuid"
)

const signatureHeader = "x-efi-signature"

type PaymentService interface {
	ChargeOrder(ctx context.Context, userID, orderID uuid.UUID, amount float64, description string) (*pix.Charge, error)
	ProcessWebhook(ctx context.Context, paymentIntentID, paymentStatus string) error
}

type PaymentHandler struct {
	service       PaymentService
	webhookSecret string
	timeout       time.Duration
}

func NewPaymentHandler(service PaymentService, webhookSecret string, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		service:       service,
		webhookSecret: webhookSecret,
		timeout:       timeout,
	}
}

type CreateChargeRequestDTO struct {
	OrderID     string  `json:"orderId"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type CreateChargeResponseDTO struct {
	QRCodeText string `json:"qrCodeText"`
	CopiaECola string `json:"copiaECola"`
}

type WebhookRequestDTO struct {
	PaymentID string `json:"payment_id"`
	Status    string `json:"status"`
}

func (h *PaymentHandler) CreateCharge(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	var req CreateChargeRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "orderId must be a valid id")
		return
	}
	if req.Amount <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_amount", "amount must be positive")
		return
	}

	charge, err := h.service.ChargeOrder(ctx, userID, orderID, req.Amount, req.Description)
	switch {
	case errors.Is(err, paymentservice.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	case errors.Is(err, paymentservice.ErrChargeExists):
		respondError(w, http.StatusConflict, "charge_exists", "order already has a payment charge")
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create charge")
		return
	}

	respondJSON(w, http.StatusOK, CreateChargeResponseDTO{
		QRCodeText: charge.QRCodeText,
		CopiaECola: charge.QRCode,
	})
}

func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	// An unset secret fails closed: with no secret configured an empty
	// signature header would compare equal and authenticate every caller.
	signature := r.Header.Get(signatureHeader)
	if h.webhookSecret == "" || subtle.ConstantTimeCompare([]byte(signature), []byte(h.webhookSecret)) != 1 {
		respondError(w, http.StatusUnauthorized, "invalid_signature", "invalid webhook signature")
		return
	}

	var req WebhookRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.PaymentID == "" {
		respondError(w, http.StatusBadRequest, "missing_payment_id", "payment_id is required")
		return
	}

	if err := h.service.ProcessWebhook(ctx, req.PaymentID, req.Status); err != nil {
		if errors.Is(err, paymentservice.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "no order for this payment")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to process notification")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
