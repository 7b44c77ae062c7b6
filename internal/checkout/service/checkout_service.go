package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	addressdomain "github.com/ScriptsHub07/venda3/internal/address/domain"
	addressrepo "github.com/ScriptsHub07/venda3/internal/address/repository"
	cartdomain "github.com/ScriptsHub07/venda3/internal/cart/domain"
	catalogdomain "github.com/ScriptsHub07/venda3/internal/catalog/domain"
	catalogrepo "github.com/ScriptsHub07/venda3/internal/catalog/repository"
	coupondomain "github.com/ScriptsHub07/venda3/internal/coupon/domain"
	couponrepo "github.com/ScriptsHub07/venda3/internal/coupon/repository"
	orderdomain "github.com/ScriptsHub07/venda3/internal/order/domain"
	orderrepo "github.com/ScriptsHub07/venda3/internal/order/repository"
	"github.com/ScriptsHub07/venda3/internal/payment/pix"
	"github.com/google/uuid"
)

var (
	ErrNoItemsSelected    = errors.New("no cart items selected for checkout")
	ErrMissingIdempotency = errors.New("idempotency key is required")
	ErrProductUnavailable = errors.New("product is not available in the requested quantity")
	ErrInvalidCoupon      = errors.New("coupon cannot be applied")
	ErrUnknownAddress     = errors.New("address does not exist for this account")
)

// Interfaces are defined by this consumer, not by the implementations.

type CartReader interface {
	GetCart(ctx context.Context, userID string) (*cartdomain.Cart, error)
	RemoveSelected(ctx context.Context, userID string) (*cartdomain.Cart, error)
}

type ProductReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*catalogdomain.Product, error)
}

type CouponReader interface {
	GetByCode(ctx context.Context, code string) (*coupondomain.Coupon, error)
}

type AddressReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*addressdomain.Address, error)
}

type OrderWriter interface {
	CreateOrder(ctx context.Context, order *orderdomain.Order) error
	GetByIdempotencyKey(ctx context.Context, key string) (*orderdomain.Order, error)
}

type Charger interface {
	ChargeOrder(ctx context.Context, userID, orderID uuid.UUID, amount float64, description string) (*pix.Charge, error)
}

type CheckoutRequest struct {
	AddressID      uuid.UUID
	IdempotencyKey string
	CouponCode     string
}

type CheckoutResult struct {
	Order      *orderdomain.Order
	QRCodeText string
	CopiaECola string
	// Replayed marks a request answered from an already-created order.
	Replayed bool
}

type CheckoutService struct {
	carts     CartReader
	products  ProductReader
	coupons   CouponReader
	addresses AddressReader
	orders    OrderWriter
	charger   Charger
	now       func() time.Time
}

func NewCheckoutService(carts CartReader, products ProductReader, coupons CouponReader, addresses AddressReader, orders OrderWriter, charger Charger) *CheckoutService {
	return &CheckoutService{
		carts:     carts,
		products:  products,
		coupons:   coupons,
		addresses: addresses,
		orders:    orders,
		charger:   charger,
		now:       time.Now,
	}
}

// Checkout turns the selected cart items into an order, its line items and a
// PIX charge. Order and items are committed in one transaction keyed by the
// client idempotency token; a replay returns the stored order. A charge
// failure after commit leaves the order pending with no charge reference.
func (s *CheckoutService) Checkout(ctx context.Context, userID uuid.UUID, request CheckoutRequest) (*CheckoutResult, error) {
	if request.IdempotencyKey == "" {
		return nil, ErrMissingIdempotency
	}

	existing, err := s.orders.GetByIdempotencyKey(ctx, request.IdempotencyKey)
	if err != nil && !errors.Is(err, orderrepo.ErrOrderNotFound) {
		return nil, fmt.Errorf("failed to check idempotency: %w", err)
	}
	if existing != nil {
		log.Printf("duplicate checkout detected idempotency_key=%v order_id=%v", request.IdempotencyKey, existing.ID)
		return &CheckoutResult{Order: existing, Replayed: true}, nil
	}

	// The delivery address must be one of the buyer's own; someone else's
	// address id answers the same as a missing one.
	address, err := s.addresses.GetByID(ctx, request.AddressID)
	if errors.Is(err, addressrepo.ErrAddressNotFound) {
		return nil, ErrUnknownAddress
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load address: %w", err)
	}
	if address.UserID != userID {
		return nil, ErrUnknownAddress
	}

	cart, err := s.carts.GetCart(ctx, userID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	selected := cart.SelectedItems()
	if len(selected) == 0 {
		return nil, ErrNoItemsSelected
	}

	items, subtotal, err := s.buildItems(ctx, selected)
	if err != nil {
		return nil, err
	}

	var discount float64
	var couponID *uuid.UUID
	if request.CouponCode != "" {
		coupon, err := s.lookupCoupon(ctx, request.CouponCode, subtotal)
		if err != nil {
			return nil, err
		}
		discount = coupon.Discount(subtotal)
		couponID = &coupon.ID
	}

	order := &orderdomain.Order{
		ID:             uuid.New(),
		UserID:         userID,
		AddressID:      request.AddressID,
		Status:         orderdomain.OrderStatusPending,
		CouponID:       couponID,
		Subtotal:       subtotal,
		Discount:       discount,
		Total:          subtotal - discount,
		IdempotencyKey: request.IdempotencyKey,
		Items:          items,
	}

	if err := s.orders.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, orderrepo.ErrDuplicateIdempotencyKey) {
			// Lost the race with our own replay; serve the stored order.
			stored, getErr := s.orders.GetByIdempotencyKey(ctx, request.IdempotencyKey)
			if getErr != nil {
				return nil, getErr
			}
			return &CheckoutResult{Order: stored, Replayed: true}, nil
		}
		if errors.Is(err, orderrepo.ErrCouponExhausted) {
			return nil, fmt.Errorf("%w: %v", ErrInvalidCoupon, coupondomain.ErrUsageLimitExhausted)
		}
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	description := fmt.Sprintf("Pedido #%.8s", order.ID.String())
	charge, err := s.charger.ChargeOrder(ctx, userID, order.ID, order.Total, description)
	if err != nil {
		// The order is committed and stays pending without a charge
		// reference; an admin reconciles it or the client retries the
		// charge endpoint directly.
		return nil, fmt.Errorf("failed to create payment charge: %w", err)
	}

	if _, err := s.carts.RemoveSelected(ctx, userID.String()); err != nil {
		log.Printf("failed to clear purchased items from cart user_id=%v: %v", userID, err)
	}

	return &CheckoutResult{
		Order:      order,
		QRCodeText: charge.QRCodeText,
		CopiaECola: charge.QRCode,
	}, nil
}

func (s *CheckoutService) buildItems(ctx context.Context, selected []cartdomain.CartItem) ([]orderdomain.OrderItem, float64, error) {
	items := make([]orderdomain.OrderItem, 0, len(selected))
	var subtotal float64

	for _, cartItem := range selected {
		productID, err := uuid.Parse(cartItem.ProductID)
		if err != nil {
			return nil, 0, fmt.Errorf("invalid product id %q: %w", cartItem.ProductID, err)
		}

		product, err := s.products.GetByID(ctx, productID)
		if errors.Is(err, catalogrepo.ErrProductNotFound) {
			return nil, 0, fmt.Errorf("%w: %s", ErrProductUnavailable, cartItem.Name)
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to load product: %w", err)
		}
		if !product.Purchasable(cartItem.Quantity) {
			return nil, 0, fmt.Errorf("%w: %s", ErrProductUnavailable, product.Name)
		}

		lineTotal := cartItem.Price * float64(cartItem.Quantity)
		items = append(items, orderdomain.OrderItem{
			ID:          uuid.New(),
			ProductID:   productID,
			ProductName: cartItem.Name,
			Quantity:    cartItem.Quantity,
			UnitPrice:   cartItem.Price,
			TotalPrice:  lineTotal,
		})
		subtotal += lineTotal
	}

	return items, subtotal, nil
}

func (s *CheckoutService) lookupCoupon(ctx context.Context, code string, subtotal float64) (*coupondomain.Coupon, error) {
	coupon, err := s.coupons.GetByCode(ctx, code)
	if errors.Is(err, couponrepo.ErrCouponNotFound) {
		return nil, fmt.Errorf("%w: unknown code", ErrInvalidCoupon)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}
	if err := coupon.Validate(s.now(), subtotal); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCoupon, err)
	}
	return coupon, nil
}
