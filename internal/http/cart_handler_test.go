package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	cartdomain "github.com/ScriptsHub07/venda3/internal/cart/domain"
	cartservice "github.com/ScriptsHub07/venda3/internal/cart/service"
	catalogdomain "github.com/ScriptsHub07/venda3/internal/catalog/domain"
	catalogrepo "github.com/ScriptsHub07/venda3/internal/catalog/repository"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockCartService struct {
	cart *cartdomain.Cart
	err  error
}

func (m *mockCartService) GetCart(context.Context, string) (*cartdomain.Cart, error) {
	return m.cart, m.err
}

func (m *mockCartService) AddItem(_ context.Context, _ string, item cartdomain.CartItem) (*cartdomain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.cart.Add(item)
	return m.cart, nil
}

func (m *mockCartService) UpdateQuantity(_ context.Context, _ string, productID string, quantity int) (*cartdomain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	if !m.cart.SetQuantity(productID, quantity) {
		return nil, cartservice.ErrItemNotFound
	}
	return m.cart, nil
}

func (m *mockCartService) RemoveItem(_ context.Context, _ string, productID string) (*cartdomain.Cart, error) {
	m.cart.Remove(productID)
	return m.cart, m.err
}

func (m *mockCartService) ToggleItem(_ context.Context, _ string, productID string) (*cartdomain.Cart, error) {
	if !m.cart.Toggle(productID) {
		return nil, cartservice.ErrItemNotFound
	}
	return m.cart, m.err
}

func (m *mockCartService) ToggleAll(_ context.Context, _ string, selected bool) (*cartdomain.Cart, error) {
	m.cart.ToggleAll(selected)
	return m.cart, m.err
}

func (m *mockCartService) ClearCart(context.Context, string) error {
	m.cart.Clear()
	return m.err
}

type mockProductReader struct {
	products map[uuid.UUID]*catalogdomain.Product
}

func (m *mockProductReader) ListPublished(context.Context) ([]*catalogdomain.Product, error) {
	var out []*catalogdomain.Product
	for _, p := range m.products {
		if p.Status == catalogdomain.ProductStatusPublished {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockProductReader) GetByID(_ context.Context, id uuid.UUID) (*catalogdomain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, catalogrepo.ErrProductNotFound
	}
	return p, nil
}

// cartTestRouter mounts the handler like the real router does, with a fixed
// authenticated user injected into the context.
func cartTestRouter(h *CartHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := context.WithValue(req.Context(), userIDKey, userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	r.Get("/cart", h.GetCart)
	r.Post("/cart/items", h.AddItem)
	r.Put("/cart/items/{product_id}", h.UpdateQuantity)
	r.Delete("/cart/items/{product_id}", h.RemoveItem)
	r.Post("/cart/items/{product_id}/toggle", h.ToggleItem)
	return r
}

func cartFixtures() (uuid.UUID, *mockCartService, *mockProductReader) {
	productID := uuid.New()
	carts := &mockCartService{cart: &cartdomain.Cart{UserID: "u1"}}
	products := &mockProductReader{products: map[uuid.UUID]*catalogdomain.Product{
		productID: {
			ID:            productID,
			Name:          "Tenis",
			Price:         199.90,
			Images:        []string{"/files/a.jpg", "/files/b.jpg"},
			Status:        catalogdomain.ProductStatusPublished,
			StockQuantity: 5,
		},
	}}
	return productID, carts, products
}

func TestCartHandler_AddItem_SnapshotsProduct(t *testing.T) {
	productID, carts, products := cartFixtures()
	router := cartTestRouter(NewCartHandler(carts, products, 5*time.Second), uuid.New())

	body := `{"product_id":"` + productID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "Tenis", resp.Items[0].Name)
	assert.InDelta(t, 199.90, resp.Items[0].Price, 0.001)
	assert.Equal(t, "/files/a.jpg", resp.Items[0].Image, "first image is the snapshot")
	assert.Equal(t, 5, resp.Items[0].StockQuantity)
	assert.Equal(t, 1, resp.Items[0].Quantity)
	assert.False(t, resp.Items[0].Selected)
}

func TestCartHandler_AddItem_UnknownProduct(t *testing.T) {
	_, carts, products := cartFixtures()
	router := cartTestRouter(NewCartHandler(carts, products, 5*time.Second), uuid.New())

	body := `{"product_id":"` + uuid.NewString() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_AddItem_UnpublishedProduct(t *testing.T) {
	productID, carts, products := cartFixtures()
	products.products[productID].Status = catalogdomain.ProductStatusOutOfStock
	router := cartTestRouter(NewCartHandler(carts, products, 5*time.Second), uuid.New())

	body := `{"product_id":"` + productID.String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/cart/items", strings.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCartHandler_UpdateQuantity_ClampedToStock(t *testing.T) {
	productID, carts, products := cartFixtures()
	carts.cart.Items = []cartdomain.CartItem{{ProductID: productID.String(), Quantity: 1}}
	router := cartTestRouter(NewCartHandler(carts, products, 5*time.Second), uuid.New())

	req := httptest.NewRequest(http.MethodPut, "/cart/items/"+productID.String(), strings.NewReader(`{"quantity":99}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 5, resp.Items[0].Quantity, "quantity is clamped to stock")
}

func TestCartHandler_UpdateQuantity_ItemNotInCart(t *testing.T) {
	productID, carts, products := cartFixtures()
	router := cartTestRouter(NewCartHandler(carts, products, 5*time.Second), uuid.New())

	req := httptest.NewRequest(http.MethodPut, "/cart/items/"+productID.String(), strings.NewReader(`{"quantity":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartHandler_GetCart_Totals(t *testing.T) {
	productID, carts, products := cartFixtures()
	carts.cart.Items = []cartdomain.CartItem{
		{ProductID: productID.String(), Price: 50.00, Quantity: 2, Selected: true},
		{ProductID: uuid.NewString(), Price: 30.00, Quantity: 1, Selected: false},
	}
	router := cartTestRouter(NewCartHandler(carts, products, 5*time.Second), uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CartResponseDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.InDelta(t, 130.00, resp.Total, 0.001)
	assert.InDelta(t, 100.00, resp.SelectedTotal, 0.001)
}
