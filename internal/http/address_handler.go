package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ScriptsHub07/venda3/internal/address/domain"
	"github.com/google/uuid"
)

type AddressRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error)
	Create(ctx context.Context, address *domain.Address) error
}

type AddressHandler struct {
	addresses AddressRepository
	timeout   time.Duration
}

func NewAddressHandler(addresses AddressRepository, timeout time.Duration) *AddressHandler {
	return &AddressHandler{addresses: addresses, timeout: timeout}
}

type CreateAddressRequestDTO struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	IsDefault    bool   `json:"is_default"`
}

type AddressListResponseDTO struct {
	Addresses []*domain.Address `json:"addresses"`
	DefaultID *uuid.UUID        `json:"default_id,omitempty"`
}

func (h *AddressHandler) ListAddresses(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	addresses, err := h.addresses.ListByUser(ctx, userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list addresses")
		return
	}
	if addresses == nil {
		addresses = []*domain.Address{}
	}

	resp := AddressListResponseDTO{Addresses: addresses}
	if def := domain.PickDefault(addresses); def != nil {
		resp.DefaultID = &def.ID
	}

	respondJSON(w, http.StatusOK, resp)
}

func (h *AddressHandler) CreateAddress(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	var req CreateAddressRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	address := &domain.Address{
		ID:           uuid.New(),
		UserID:       userID,
		Street:       req.Street,
		Number:       req.Number,
		Complement:   req.Complement,
		Neighborhood: req.Neighborhood,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		IsDefault:    req.IsDefault,
	}
	if !address.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_address", "missing or malformed address fields")
		return
	}

	if err := h.addresses.Create(ctx, address); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to save address")
		return
	}

	respondJSON(w, http.StatusCreated, address)
}
