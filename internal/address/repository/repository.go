package repository

import (
	"context"
	"errors"

	"github.com/ScriptsHub07/venda3/internal/address/domain"
	"github.com/google/uuid"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error)
	Create(ctx context.Context, address *domain.Address) error
}
