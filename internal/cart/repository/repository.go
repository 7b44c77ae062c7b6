package repository

import (
	"context"
	"errors"

	"github.com/ScriptsHub07/venda3/internal/cart/domain"
)

var ErrCartNotFound = errors.New("cart not found")

// CartRepository persists full cart snapshots keyed by user.
// Consumers define this interface, not the MongoDB implementation.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*domain.Cart, error)
	UpsertCart(ctx context.Context, cart *domain.Cart) error
	DeleteCart(ctx context.Context, userID string) error
}
