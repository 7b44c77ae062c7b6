package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	catalogdomain "github.com/ScriptsHub07/venda3/internal/catalog/domain"
	catalogrepo "github.com/ScriptsHub07/venda3/internal/catalog/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type ProductReader interface {
	ListPublished(ctx context.Context) ([]*catalogdomain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogdomain.Product, error)
}

// CatalogHandler serves the public storefront views of the catalog. Only
// published products are visible here; drafts and out-of-stock products
// exist solely behind the admin routes.
type CatalogHandler struct {
	products ProductReader
	timeout  time.Duration
}

func NewCatalogHandler(products ProductReader, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{products: products, timeout: timeout}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.ListPublished(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}
	if products == nil {
		products = []*catalogdomain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid product id")
		return
	}

	product, err := h.products.GetByID(ctx, id)
	if errors.Is(err, catalogrepo.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}
	if product.Status == catalogdomain.ProductStatusDraft {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	respondJSON(w, http.StatusOK, product)
}
