package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotStarted          = errors.New("coupon is not active yet")
	ErrExpired             = errors.New("coupon has expired")
	ErrMinPurchaseNotMet   = errors.New("order subtotal below coupon minimum")
	ErrUsageLimitExhausted = errors.New("coupon usage limit reached")
	ErrNoDiscount          = errors.New("coupon must carry a percentage or fixed discount")
)

type Coupon struct {
	ID                 uuid.UUID  `json:"id"`
	Code               string     `json:"code"`
	DiscountPercentage *float64   `json:"discount_percentage,omitempty"`
	DiscountFixed      *float64   `json:"discount_fixed,omitempty"`
	MinPurchaseAmount  *float64   `json:"min_purchase_amount,omitempty"`
	MaxUses            *int       `json:"max_uses,omitempty"`
	TimesUsed          int        `json:"times_used"`
	StartsAt           *time.Time `json:"starts_at,omitempty"`
	ExpiresAt          *time.Time `json:"expires_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NormalizeCode uppercases and trims a user-supplied coupon code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Validate checks whether the coupon can be applied to an order with the
// given subtotal at the given instant.
func (c *Coupon) Validate(now time.Time, subtotal float64) error {
	if c.DiscountPercentage == nil && c.DiscountFixed == nil {
		return ErrNoDiscount
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return ErrNotStarted
	}
	if c.ExpiresAt != nil && now.After(*c.ExpiresAt) {
		return ErrExpired
	}
	if c.MinPurchaseAmount != nil && subtotal < *c.MinPurchaseAmount {
		return ErrMinPurchaseNotMet
	}
	if c.MaxUses != nil && c.TimesUsed >= *c.MaxUses {
		return ErrUsageLimitExhausted
	}
	return nil
}

// Discount computes the discount amount for a subtotal, capped at the
// subtotal itself. Percentage wins when both kinds are set.
func (c *Coupon) Discount(subtotal float64) float64 {
	var discount float64
	switch {
	case c.DiscountPercentage != nil:
		discount = subtotal * *c.DiscountPercentage / 100
	case c.DiscountFixed != nil:
		discount = *c.DiscountFixed
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
