package http

import (
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RouterDeps collects everything the router mounts.
type RouterDeps struct {
	Sessions *scs.SessionManager
	Auth     *Auth

	AuthHandler   *AuthHandler
	Catalog       *CatalogHandler
	Cart          *CartHandler
	Addresses     *AddressHandler
	Checkout      *CheckoutHandler
	Orders        *OrderHandler
	Payments      *PaymentHandler
	AdminProducts *AdminProductsHandler
	AdminCoupons  *AdminCouponsHandler
	AdminOrders   *AdminOrdersHandler

	FilesDir       string
	RequestTimeout time.Duration
}

func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(deps.Sessions.LoadAndSave)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Uploaded product images
	fileServer := http.FileServer(http.Dir(deps.FilesDir))
	r.Handle("/files/*", http.StripPrefix("/files/", fileServer))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(deps.Auth.RedirectAuthenticated).Post("/register", deps.AuthHandler.Register)
			r.With(deps.Auth.RedirectAuthenticated).Post("/login", deps.AuthHandler.Login)
			r.Post("/logout", deps.AuthHandler.Logout)
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.Catalog.ListProducts)
			r.Get("/{id}", deps.Catalog.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.RequireAuth)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", deps.Cart.GetCart)
				r.Delete("/", deps.Cart.ClearCart)
				r.Post("/items", deps.Cart.AddItem)
				r.Put("/items/{product_id}", deps.Cart.UpdateQuantity)
				r.Delete("/items/{product_id}", deps.Cart.RemoveItem)
				r.Post("/items/{product_id}/toggle", deps.Cart.ToggleItem)
				r.Post("/toggle-all", deps.Cart.ToggleAll)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", deps.Addresses.ListAddresses)
				r.Post("/", deps.Addresses.CreateAddress)
			})

			r.Post("/checkout", deps.Checkout.Checkout)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", deps.Orders.ListOrders)
				r.Get("/{id}", deps.Orders.GetOrder)
			})

			r.Post("/payments/pix", deps.Payments.CreateCharge)
		})

		// The provider calls this one; it authenticates by signature, not
		// by session.
		r.Post("/webhooks/pix", deps.Payments.Webhook)
	})

	// Admin routes
	r.Route("/admin", func(r chi.Router) {
		r.Use(deps.Auth.AdminOnly)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", deps.AdminProducts.ListProducts)
			r.Post("/", deps.AdminProducts.CreateProduct)
			r.Put("/{id}", deps.AdminProducts.UpdateProduct)
			r.Delete("/{id}", deps.AdminProducts.DeleteProduct)
		})

		r.Route("/coupons", func(r chi.Router) {
			r.Get("/", deps.AdminCoupons.ListCoupons)
			r.Post("/", deps.AdminCoupons.CreateCoupon)
			r.Put("/{id}", deps.AdminCoupons.UpdateCoupon)
			r.Delete("/{id}", deps.AdminCoupons.DeleteCoupon)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", deps.AdminOrders.ListOrders)
			r.Patch("/{id}/status", deps.AdminOrders.UpdateStatus)
		})
	})

	return r
}
