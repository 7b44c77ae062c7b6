package repository

import (
	"context"
	"errors"

	"github.com/ScriptsHub07/venda3/internal/coupon/domain"
	"github.com/google/uuid"
)

var (
	ErrCouponNotFound = errors.New("coupon not found")
	ErrDuplicateCode  = errors.New("coupon code already exists")
)

type CouponRepository interface {
	List(ctx context.Context) ([]*domain.Coupon, error)
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Create(ctx context.Context, coupon *domain.Coupon) error
	Update(ctx context.Context, coupon *domain.Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error
}
