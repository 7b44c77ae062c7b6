package repository

import (
	"context"
	"errors"

	"github.com/ScriptsHub07/venda3/internal/catalog/domain"
	"github.com/google/uuid"
)

var ErrProductNotFound = errors.New("product not found")

type ProductRepository interface {
	ListAll(ctx context.Context) ([]*domain.Product, error)
	ListPublished(ctx context.Context) ([]*domain.Product, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
}
