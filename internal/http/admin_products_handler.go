package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	catalogdomain "github.com/ScriptsHub07/venda3/internal/catalog/domain"
	catalogrepo "github.com/ScriptsHub07/venda3/internal/catalog/repository"
	"github.com/ScriptsHub07/venda3/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	maxProductImages   = 5
	maxUploadBodyBytes = 32 << 20
)

type ProductRepository interface {
	ListAll(ctx context.Context) ([]*catalogdomain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogdomain.Product, error)
	Create(ctx context.Context, product *catalogdomain.Product) error
	Update(ctx context.Context, product *catalogdomain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type AdminProductsHandler struct {
	products ProductRepository
	files    storage.Store
	timeout  time.Duration
}

func NewAdminProductsHandler(products ProductRepository, files storage.Store, timeout time.Duration) *AdminProductsHandler {
	return &AdminProductsHandler{
		products: products,
		files:    files,
		timeout:  timeout,
	}
}

func (h *AdminProductsHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	products, err := h.products.ListAll(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to list products")
		return
	}
	if products == nil {
		products = []*catalogdomain.Product{}
	}

	respondJSON(w, http.StatusOK, products)
}

// CreateProduct accepts a multipart form: text fields plus up to five image
// files under the "images" key. Files are stored first; a validation failure
// after that leaves orphaned files on disk, which is acceptable for uploads.
func (h *AdminProductsHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	product, ok := h.parseProductForm(w, r, nil)
	if !ok {
		return
	}
	product.ID = uuid.New()

	if err := h.products.Create(ctx, product); err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to create product")
		return
	}

	respondJSON(w, http.StatusCreated, product)
}

func (h *AdminProductsHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid product id")
		return
	}

	existing, err := h.products.GetByID(ctx, id)
	if errors.Is(err, catalogrepo.ErrProductNotFound) {
		respondError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to load product")
		return
	}

	product, ok := h.parseProductForm(w, r, existing)
	if !ok {
		return
	}
	product.ID = id

	if err := h.products.Update(ctx, product); err != nil {
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to update product")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *AdminProductsHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_id", "id must be a valid product id")
		return
	}

	if err := h.products.Delete(ctx, id); err != nil {
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "product not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "failed to delete product")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// parseProductForm reads the multipart form into a product. When existing is
// non-nil its images are kept unless new files or an images JSON field
// replace them. Responds with the validation error itself and returns
// ok=false on failure.
func (h *AdminProductsHandler) parseProductForm(w http.ResponseWriter, r *http.Request, existing *catalogdomain.Product) (*catalogdomain.Product, bool) {
	if err := r.ParseMultipartForm(maxUploadBodyBytes); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "expected multipart form data")
		return nil, false
	}

	product := &catalogdomain.Product{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Status:      catalogdomain.ProductStatus(r.FormValue("status")),
	}
	if existing != nil {
		product.Images = existing.Images
	}

	price, err := strconv.ParseFloat(r.FormValue("price"), 64)
	if err != nil || price <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_price", "price must be a number greater than zero")
		return nil, false
	}
	product.Price = price

	stock, err := strconv.Atoi(r.FormValue("stock_quantity"))
	if err != nil || stock < 0 {
		respondError(w, http.StatusBadRequest, "invalid_stock", "stock_quantity must be a non-negative integer")
		return nil, false
	}
	product.StockQuantity = stock

	if product.Name == "" {
		respondError(w, http.StatusBadRequest, "invalid_name", "name is required")
		return nil, false
	}
	if !product.Status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be draft, published or out_of_stock")
		return nil, false
	}

	// A JSON array in the "images" field rewrites the kept URLs (removal and
	// reordering); uploaded files are appended after it.
	if raw := r.FormValue("images"); raw != "" {
		var urls []string
		if err := json.Unmarshal([]byte(raw), &urls); err != nil {
			respondError(w, http.StatusBadRequest, "invalid_images", "images must be a JSON array of URLs")
			return nil, false
		}
		product.Images = urls
	}

	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["images"] {
			file, err := header.Open()
			if err != nil {
				respondError(w, http.StatusBadRequest, "invalid_upload", "failed to read uploaded file")
				return nil, false
			}
			url, err := h.files.Save(header.Filename, file)
			file.Close()
			if err != nil {
				log.Printf("failed to store product image %q: %v", header.Filename, err)
				respondError(w, http.StatusInternalServerError, "internal_error", "failed to store image")
				return nil, false
			}
			product.Images = append(product.Images, url)
		}
	}

	if len(product.Images) == 0 || len(product.Images) > maxProductImages {
		respondError(w, http.StatusBadRequest, "invalid_images", "between 1 and 5 images are required")
		return nil, false
	}

	return product, true
}
