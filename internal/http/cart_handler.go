package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	cartdomain "github.com/ScriptsHub07/venda3/internal/cart/domain"
	cartservice "github.com/ScriptsHub07/venda3/internal/cart/service"
	catalogdomain "github.com/ScriptsHub07/venda3/internal/catalog/domain"
	catalogrepo "github.com/ScriptsHub07/venda3/internal/catalog/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type CartService interface {
	GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error)
	AddItem(ctx context.Context, userID string, item cartdomain.CartItem) (*cartdomain.Cart, error)
	UpdateQuantity(ctx context.Context, userID, productID string, quantity int) (*cartdomain.Cart, error)
	RemoveItem(ctx context.Context, userID, productID string) (*cartdomain.Cart, error)
	ToggleItem(ctx context.Context, userID, productID string) (*cartdomain.Cart, error)
	ToggleAll(ctx context.Context, userID string, selected bool) (*cartdomain.Cart, error)
	ClearCart(ctx context.Context, userID string) error
}

type CartHandler struct {
	carts    CartService
	products ProductReader
	timeout  time.Duration
}

func NewCartHandler(carts CartService, products ProductReader, timeout time.Duration) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		timeout:  timeout,
	}
}

type AddItemRequestDTO struct {
	ProductID string `json:"product_id"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

type ToggleAllRequestDTO struct {
	Selected bool `json:"selected"`
}

type CartResponseDTO struct {
	Items         []cartdomain.CartItem `json:"items"`
	Total         float64               `json:"total"`
	SelectedTotal float64               `json:"selected_total"`
}

func cartResponse(cart *cartdomain.Cart) CartResponseDTO {
	items := cart.Items
	if items == nil {
		items = []cartdomain.CartItem{}
	}
	return CartResponseDTO{
		Items:         items,
		Total:         cart.Total(),
		SelectedTotal: cart.SelectedTotal(),
	}
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	cart, err := h.carts.GetCart(ctx, userID.String())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a valid id")
		return
	}

	product, err := h.products.GetByID(ctx, productID)
	if errors.Is(err, catalogrepo.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}
	if product.Status != catalogdomain.ProductStatusPublished {
		respondError(w, http.StatusConflict, "unavailable", "product is not available")
		return
	}

	item := cartdomain.CartItem{
		ProductID:     product.ID.String(),
		Name:          product.Name,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
	}
	if len(product.Images) > 0 {
		item.Image = product.Images[0]
	}

	cart, err := h.carts.AddItem(ctx, userID.String(), item)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to add item")
		return
	}

	respondJSON(w, http.StatusCreated, cartResponse(cart))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	productID := chi.URLParam(r, "product_id")
	if _, err := uuid.Parse(productID); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a valid id")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.Quantity < 1 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at least 1")
		return
	}

	// The store accepts any positive quantity; the clamp against stock
	// happens here, at the caller.
	quantity := req.Quantity
	if product, err := h.products.GetByID(ctx, uuid.MustParse(productID)); err == nil && quantity > product.StockQuantity {
		quantity = product.StockQuantity
		if quantity < 1 {
			quantity = 1
		}
	}

	cart, err := h.carts.UpdateQuantity(ctx, userID.String(), productID, quantity)
	if errors.Is(err, cartservice.ErrItemNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update quantity")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	cart, err := h.carts.RemoveItem(ctx, userID.String(), productID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to remove item")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())
	productID := chi.URLParam(r, "product_id")

	cart, err := h.carts.ToggleItem(ctx, userID.String(), productID)
	if errors.Is(err, cartservice.ErrItemNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "item not in cart")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to toggle item")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) ToggleAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	var req ToggleAllRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	cart, err := h.carts.ToggleAll(ctx, userID.String(), req.Selected)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to toggle items")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(cart))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	userID := getUserIDFromContext(r.Context())

	if err := h.carts.ClearCart(ctx, userID.String()); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to clear cart")
		return
	}

	respondJSON(w, http.StatusOK, cartResponse(&cartdomain.Cart{UserID: userID.String()}))
}
