package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ScriptsHub07/venda3/internal/catalog/domain"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) ProductRepository {
	return &postgresRepository{db: db}
}

const productColumns = `id, name, COALESCE(description, ''), price, images, status, stock_quantity, created_at, updated_at`

func (r *postgresRepository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY created_at DESC`
	return r.list(ctx, query)
}

func (r *postgresRepository) ListPublished(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE status = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, domain.ProductStatusPublished)
}

func (r *postgresRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	row := r.db.QueryRowContext(ctx, query, id)
	product, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *postgresRepository) Create(ctx context.Context, product *domain.Product) error {
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("marshal product images: %w", err)
	}

	query := `INSERT INTO products (id, name, description, price, images, status, stock_quantity, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())`

	_, err = r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		nullString(product.Description),
		product.Price,
		imagesJSON,
		product.Status,
		product.StockQuantity)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (r *postgresRepository) Update(ctx context.Context, product *domain.Product) error {
	imagesJSON, err := json.Marshal(product.Images)
	if err != nil {
		return fmt.Errorf("marshal product images: %w", err)
	}

	query := `UPDATE products
	          SET name = $2, description = $3, price = $4, images = $5, status = $6, stock_quantity = $7, updated_at = NOW()
	          WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Name,
		nullString(product.Description),
		product.Price,
		imagesJSON,
		product.Status,
		product.StockQuantity)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(s scanner) (*domain.Product, error) {
	var product domain.Product
	var imagesJSON []byte
	err := s.Scan(
		&product.ID,
		&product.Name,
		&product.Description,
		&product.Price,
		&imagesJSON,
		&product.Status,
		&product.StockQuantity,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan product row: %w", err)
	}

	if err := json.Unmarshal(imagesJSON, &product.Images); err != nil {
		return nil, fmt.Errorf("unmarshal product images: %w", err)
	}
	return &product, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
