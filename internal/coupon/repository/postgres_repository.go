package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ScriptsHub07/venda3/internal/coupon/domain"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) CouponRepository {
	return &postgresRepository{db: db}
}

const couponColumns = `id, code, discount_percentage, discount_fixed, min_purchase_amount, max_uses, times_used, starts_at, expires_at, created_at, updated_at`

func (r *postgresRepository) List(ctx context.Context) ([]*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query coupons: %w", err)
	}
	defer rows.Close()

	var coupons []*domain.Coupon
	for rows.Next() {
		coupon, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, coupon)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return coupons, nil
}

func (r *postgresRepository) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1`

	coupon, err := scanCoupon(r.db.QueryRowContext(ctx, query, domain.NormalizeCode(code)))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, err
	}
	return coupon, nil
}

func (r *postgresRepository) Create(ctx context.Context, coupon *domain.Coupon) error {
	query := `INSERT INTO coupons (id, code, discount_percentage, discount_fixed, min_purchase_amount, max_uses, times_used, starts_at, expires_at, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	_, err := r.db.ExecContext(ctx, query,
		coupon.ID,
		domain.NormalizeCode(coupon.Code),
		coupon.DiscountPercentage,
		coupon.DiscountFixed,
		coupon.MinPurchaseAmount,
		coupon.MaxUses,
		coupon.TimesUsed,
		coupon.StartsAt,
		coupon.ExpiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("insert coupon: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, coupon *domain.Coupon) error {
	query := `UPDATE coupons
	          SET code = $2, discount_percentage = $3, discount_fixed = $4, min_purchase_amount = $5, max_uses = $6, starts_at = $7, expires_at = $8, updated_at = NOW()
	          WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		coupon.ID,
		domain.NormalizeCode(coupon.Code),
		coupon.DiscountPercentage,
		coupon.DiscountFixed,
		coupon.MinPurchaseAmount,
		coupon.MaxUses,
		coupon.StartsAt,
		coupon.ExpiresAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateCode
		}
		return fmt.Errorf("update coupon: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update coupon rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM coupons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete coupon: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete coupon rows affected: %w", err)
	}
	if affected == 0 {
		return ErrCouponNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanCoupon(s scanner) (*domain.Coupon, error) {
	var coupon domain.Coupon
	err := s.Scan(
		&coupon.ID,
		&coupon.Code,
		&coupon.DiscountPercentage,
		&coupon.DiscountFixed,
		&coupon.MinPurchaseAmount,
		&coupon.MaxUses,
		&coupon.TimesUsed,
		&coupon.StartsAt,
		&coupon.ExpiresAt,
		&coupon.CreatedAt,
		&coupon.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan coupon row: %w", err)
	}
	return &coupon, nil
}
