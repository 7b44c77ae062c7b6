package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ScriptsHub07/venda3/internal/address/domain"
	"github.com/google/uuid"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) AddressRepository {
	return &postgresRepository{db: db}
}

const addressColumns = `id, user_id, street, number, COALESCE(complement, ''), neighborhood, city, state, postal_code, is_default, created_at, updated_at`

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE user_id = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("query addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*domain.Address
	for rows.Next() {
		var a domain.Address
		if err := rows.Scan(
			&a.ID, &a.UserID, &a.Street, &a.Number, &a.Complement,
			&a.Neighborhood, &a.City, &a.State, &a.PostalCode, &a.IsDefault,
			&a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan address row: %w", err)
		}
		addresses = append(addresses, &a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return addresses, nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	query := `SELECT ` + addressColumns + ` FROM addresses WHERE id = $1`

	var a domain.Address
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.Street, &a.Number, &a.Complement,
		&a.Neighborhood, &a.City, &a.State, &a.PostalCode, &a.IsDefault,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query address by id: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) Create(ctx context.Context, address *domain.Address) error {
	query := `INSERT INTO addresses (id, user_id, street, number, complement, neighborhood, city, state, postal_code, is_default, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())`

	var complement sql.NullString
	if address.Complement != "" {
		complement = sql.NullString{String: address.Complement, Valid: true}
	}

	_, err := r.db.ExecContext(ctx, query,
		address.ID,
		address.UserID,
		address.Street,
		address.Number,
		complement,
		address.Neighborhood,
		address.City,
		address.State,
		address.PostalCode,
		address.IsDefault)
	if err != nil {
		return fmt.Errorf("insert address: %w", err)
	}
	return nil
}
