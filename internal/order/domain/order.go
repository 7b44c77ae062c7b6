package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered:
		return true
	}
	return false
}

// String representation (for logging)
func (s OrderStatus) String() string {
	return string(s)
}

var next = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// CanTransitionTo permits only the forward single step
// pending -> processing -> shipped -> delivered. No backward edges.
func CanTransitionTo(from, to OrderStatus) bool {
	return next[from] == to
}

type PaymentStatus string

const PaymentStatusPaid PaymentStatus = "paid"

type OrderItem struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   float64   `json:"unit_price"`
	TotalPrice  float64   `json:"total_price"`
}

type Order struct {
	ID               uuid.UUID   `json:"id"`
	UserID           uuid.UUID   `json:"user_id"`
	AddressID        uuid.UUID   `json:"address_id"`
	Status           OrderStatus `json:"status"`
	CouponID         *uuid.UUID  `json:"coupon_id,omitempty"`
	Subtotal         float64     `json:"subtotal"`
	Discount         float64     `json:"discount"`
	Total            float64     `json:"total"`
	PaymentIntentID  *string     `json:"payment_intent_id,omitempty"`
	PaymentStatus    *string     `json:"payment_status,omitempty"`
	ExpectedDelivery *time.Time  `json:"expected_delivery,omitempty"`
	TrackingCode     *string     `json:"tracking_code,omitempty"`
	IdempotencyKey   string      `json:"-"`
	Items            []OrderItem `json:"items"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}
