package repository

import (
	"context"
	"errors"
	"time"

	"github.com/ScriptsHub07/venda3/internal/order/domain"
	"github.com/google/uuid"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrDuplicateIdempotencyKey = errors.New("order for this idempotency key already exists")
	ErrCouponExhausted         = errors.New("coupon usage limit reached")
	ErrInvalidTransition       = errors.New("illegal order status transition")
	ErrChargeExists            = errors.New("order already has a payment charge")
)

// OutboxEvent is a pending notification row, drained by the outbox poller.
type OutboxEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	Payload   []byte
	CreatedAt time.Time
}

// StatusUpdate is an admin-driven status change with its optional shipping
// metadata.
type StatusUpdate struct {
	Status           domain.OrderStatus
	TrackingCode     *string
	ExpectedDelivery *time.Time
}

type OrderRepository interface {
	// CreateOrder inserts the order and its items in one transaction; when
	// the order carries a coupon, the coupon's times_used is incremented in
	// the same transaction and the insert fails with ErrCouponExhausted if
	// the limit was reached meanwhile.
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error)

	// SetPaymentIntent records the minted charge on the order; it refuses to
	// overwrite an existing charge reference.
	SetPaymentIntent(ctx context.Context, orderID uuid.UUID, paymentIntentID, paymentStatus string) error

	// UpdateStatus applies an admin status change through the transition
	// guard.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, update StatusUpdate) (*domain.Order, error)

	// ApplyPaymentStatus records a webhook notification: stores the payment
	// status, moves a pending order to processing when paid, and enqueues
	// the confirmation event at most once. The returned flag reports whether
	// an event was enqueued by this call.
	ApplyPaymentStatus(ctx context.Context, paymentIntentID, paymentStatus string, payload []byte) (*domain.Order, bool, error)

	GetUnpublishedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventPublished(ctx context.Context, id uuid.UUID) error
}
