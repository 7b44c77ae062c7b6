package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	orderrepo "github.com/ScriptsHub07/venda3/internal/order/repository"
	"github.com/ScriptsHub07/venda3/internal/payment/pix"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPaymentService struct {
	charge      *pix.Charge
	chargeErr   error
	webhookErr  error
	gotIntent   string
	gotStatus   string
	webhookHits int
}

func (m *mockPaymentService) ChargeOrder(_ context.Context, _, _ uuid.UUID, _ float64, _ string) (*pix.Charge, error) {
	if m.chargeErr != nil {
		return nil, m.chargeErr
	}
	return m.charge, nil
}

func (m *mockPaymentService) ProcessWebhook(_ context.Context, paymentIntentID, paymentStatus string) error {
	m.webhookHits++
	m.gotIntent = paymentIntentID
	m.gotStatus = paymentStatus
	return m.webhookErr
}

func newPaymentHandler(svc PaymentService) *PaymentHandler {
	return NewPaymentHandler(svc, "super-secret", 5*time.Second)
}

func TestCreateCharge_Success(t *testing.T) {
	svc := &mockPaymentService{charge: &pix.Charge{
		ID:         "charge-1",
		QRCode:     "00020126...",
		QRCodeText: "data:image/png;base64,...",
		Status:     "pending",
	}}
	h := newPaymentHandler(svc)

	body := `{"orderId":"` + uuid.NewString() + `","amount":150.00,"description":"Pedido #abc12345"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/pix", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateCharge(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CreateChargeResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "data:image/png;base64,...", resp.QRCodeText)
	assert.Equal(t, "00020126...", resp.CopiaECola)
}

func TestCreateCharge_DuplicateChargeConflicts(t *testing.T) {
	svc := &mockPaymentService{chargeErr: orderrepo.ErrChargeExists}
	h := newPaymentHandler(svc)

	body := `{"orderId":"` + uuid.NewString() + `","amount":150.00}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/pix", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.CreateCharge(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateCharge_BadRequests(t *testing.T) {
	h := newPaymentHandler(&mockPaymentService{})

	cases := []struct {
		name string
		body string
	}{
		{"invalid json", "{"},
		{"bad order id", `{"orderId":"nope","amount":10}`},
		{"non-positive amount", `{"orderId":"` + uuid.NewString() + `","amount":0}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/pix", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			h.CreateCharge(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestWebhook_ValidSignature(t *testing.T) {
	svc := &mockPaymentService{}
	h := newPaymentHandler(svc)

	body := `{"payment_id":"charge-1","status":"paid"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/pix", strings.NewReader(body))
	req.Header.Set("x-efi-signature", "super-secret")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	assert.Equal(t, "charge-1", svc.gotIntent)
	assert.Equal(t, "paid", svc.gotStatus)
}

func TestWebhook_RejectsBadSignature(t *testing.T) {
	svc := &mockPaymentService{}
	h := newPaymentHandler(svc)

	for _, sig := range []string{"", "wrong", "super-secret "} {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/pix", strings.NewReader(`{"payment_id":"charge-1","status":"paid"}`))
		if sig != "" {
			req.Header.Set("x-efi-signature", sig)
		}
		rec := httptest.NewRecorder()

		h.Webhook(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	}
	assert.Zero(t, svc.webhookHits, "rejected notifications must never reach the service")
}

func TestWebhook_EmptySecretRejectsEverything(t *testing.T) {
	svc := &mockPaymentService{}
	h := NewPaymentHandler(svc, "", 5*time.Second)

	// Without a configured secret even an unsigned request would compare
	// equal; the handler must fail closed instead.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/pix", strings.NewReader(`{"payment_id":"charge-1","status":"paid"}`))
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.webhookHits, "an unconfigured secret must not authenticate anyone")
}

func TestWebhook_MissingPaymentID(t *testing.T) {
	h := newPaymentHandler(&mockPaymentService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/pix", strings.NewReader(`{"status":"paid"}`))
	req.Header.Set("x-efi-signature", "super-secret")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWebhook_UnknownCharge(t *testing.T) {
	h := newPaymentHandler(&mockPaymentService{webhookErr: orderrepo.ErrOrderNotFound})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/pix", strings.NewReader(`{"payment_id":"charge-x","status":"paid"}`))
	req.Header.Set("x-efi-signature", "super-secret")
	rec := httptest.NewRecorder()

	h.Webhook(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
