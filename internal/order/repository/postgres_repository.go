package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ScriptsHub07/venda3/internal/order/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

type Repository struct {
	db *sql.DB
}

func NewRepository(cred *Credentials) (*Repository, error) {
	psqlconn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cred.Host,
		cred.Port,
		cred.User,
		cred.Password,
		cred.DBName)

	db, err := sql.Open("postgres", psqlconn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if e2 := db.Ping(); e2 != nil {
		return nil, fmt.Errorf("failed to ping database: %w", e2)
	}

	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	return &Repository{db: db}, nil
}

// NewRepositoryWithDB wraps an already-open connection, shared with the other
// postgres-backed repositories of the monolith.
func NewRepositoryWithDB(db *sql.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) DB() *sql.DB {
	return r.db
}

func (r *Repository) RunMigrations(migrationsDirPath string) error {
	driver, err := postgres.WithInstance(r.db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsDirPath),
		"postgres",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if e2 := m.Up(); e2 != nil && !errors.Is(e2, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", e2)
	}

	return nil
}

func (r *Repository) CreateOrder(ctx context.Context, order *domain.Order) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create order tx: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO orders (id, user_id, address_id, status, coupon_id, subtotal, discount, total, idempotency_key, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())`

	_, insertErr := tx.ExecContext(ctx, query,
		order.ID,
		order.UserID,
		order.AddressID,
		order.Status,
		order.CouponID,
		order.Subtotal,
		order.Discount,
		order.Total,
		order.IdempotencyKey)
	if insertErr != nil {
		var pqErr *pq.Error
		if errors.As(insertErr, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicateIdempotencyKey
		}
		return fmt.Errorf("insert order: %w", insertErr)
	}

	itemQuery := `INSERT INTO order_items (id, order_id, product_id, product_name, quantity, unit_price, total_price, created_at)
	              VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())`
	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.OrderID = order.ID
		if _, err := tx.ExecContext(ctx, itemQuery,
			item.ID, item.OrderID, item.ProductID, item.ProductName,
			item.Quantity, item.UnitPrice, item.TotalPrice); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}
	}

	if order.CouponID != nil {
		result, err := tx.ExecContext(ctx,
			`UPDATE coupons SET times_used = times_used + 1, updated_at = NOW()
			 WHERE id = $1 AND (max_uses IS NULL OR times_used < max_uses)`,
			*order.CouponID)
		if err != nil {
			return fmt.Errorf("increment coupon usage: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("coupon usage rows affected: %w", err)
		}
		if affected == 0 {
			return ErrCouponExhausted
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create order tx: %w", err)
	}
	return nil
}

const orderColumns = `id, user_id, address_id, status, coupon_id, subtotal, discount, total, payment_intent_id, payment_status, expected_delivery, tracking_code, idempotency_key, created_at, updated_at`

func (r *Repository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE idempotency_key = $1`, key)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *Repository) GetByPaymentIntent(ctx context.Context, paymentIntentID string) (*domain.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE payment_intent_id = $1`, paymentIntentID)
}

func (r *Repository) getOne(ctx context.Context, query string, arg interface{}) (*domain.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := r.loadItems(ctx, order.ID)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (r *Repository) ListAll(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *Repository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	for _, order := range orders {
		items, err := r.loadItems(ctx, order.ID)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	return orders, nil
}

func (r *Repository) loadItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	query := `SELECT id, order_id, product_id, product_name, quantity, unit_price, total_price
	          FROM order_items WHERE order_id = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order items: %w", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.Quantity, &item.UnitPrice, &item.TotalPrice,
		); err != nil {
			return nil, fmt.Errorf("scan order item row: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return items, nil
}

func (r *Repository) SetPaymentIntent(ctx context.Context, orderID uuid.UUID, paymentIntentID, paymentStatus string) error {
	query := `UPDATE orders SET payment_intent_id = $2, payment_status = $3, updated_at = NOW()
	          WHERE id = $1 AND payment_intent_id IS NULL`

	result, err := r.db.ExecContext(ctx, query, orderID, paymentIntentID, paymentStatus)
	if err != nil {
		return fmt.Errorf("set payment intent: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set payment intent rows affected: %w", err)
	}
	if affected == 0 {
		if _, err := r.GetByID(ctx, orderID); err != nil {
			return err
		}
		return ErrChargeExists
	}
	return nil
}

func (r *Repository) UpdateStatus(ctx context.Context, orderID uuid.UUID, update StatusUpdate) (*domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin status update tx: %w", err)
	}
	defer tx.Rollback()

	var current domain.OrderStatus
	err = tx.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1 FOR UPDATE`, orderID).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lock order row: %w", err)
	}

	if !domain.CanTransitionTo(current, update.Status) {
		return nil, ErrInvalidTransition
	}

	query := `UPDATE orders SET status = $2, updated_at = NOW()`
	args := []interface{}{orderID, update.Status}

	if update.Status == domain.OrderStatusShipped && update.TrackingCode != nil {
		args = append(args, *update.TrackingCode)
		query += fmt.Sprintf(", tracking_code = $%d", len(args))
	}
	if update.ExpectedDelivery != nil {
		args = append(args, *update.ExpectedDelivery)
		query += fmt.Sprintf(", expected_delivery = $%d", len(args))
	}
	query += ` WHERE id = $1`

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit status update tx: %w", err)
	}

	return r.GetByID(ctx, orderID)
}

func (r *Repository) ApplyPaymentStatus(ctx context.Context, paymentIntentID, paymentStatus string, payload []byte) (*domain.Order, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, false, fmt.Errorf("begin payment status tx: %w", err)
	}
	defer tx.Rollback()

	var orderID uuid.UUID
	var current domain.OrderStatus
	err = tx.QueryRowContext(ctx,
		`SELECT id, status FROM orders WHERE payment_intent_id = $1 FOR UPDATE`,
		paymentIntentID).Scan(&orderID, &current)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, ErrOrderNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("lock order by payment intent: %w", err)
	}

	newStatus := current
	if paymentStatus == string(domain.PaymentStatusPaid) && domain.CanTransitionTo(current, domain.OrderStatusProcessing) {
		newStatus = domain.OrderStatusProcessing
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE orders SET payment_status = $2, status = $3, updated_at = NOW() WHERE id = $1`,
		orderID, paymentStatus, newStatus); err != nil {
		return nil, false, fmt.Errorf("apply payment status: %w", err)
	}

	enqueued := false
	if paymentStatus == string(domain.PaymentStatusPaid) {
		// Unique (order_id, event_type) makes a replayed webhook a no-op.
		result, err := tx.ExecContext(ctx,
			`INSERT INTO order_outbox (id, order_id, event_type, payload, created_at)
			 VALUES ($1, $2, $3, $4, NOW())
			 ON CONFLICT (order_id, event_type) DO NOTHING`,
			uuid.New(), orderID, EventTypeOrderPaid, payload)
		if err != nil {
			return nil, false, fmt.Errorf("enqueue outbox event: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, false, fmt.Errorf("outbox rows affected: %w", err)
		}
		enqueued = affected > 0
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("commit payment status tx: %w", err)
	}

	order, err := r.GetByID(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return order, enqueued, nil
}

const EventTypeOrderPaid = "order.paid"

func (r *Repository) GetUnpublishedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error) {
	query := `SELECT id, order_id, event_type, payload, created_at
	          FROM order_outbox WHERE NOT published ORDER BY created_at LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query outbox events: %w", err)
	}
	defer rows.Close()

	var events []*OutboxEvent
	for rows.Next() {
		var event OutboxEvent
		if err := rows.Scan(&event.ID, &event.OrderID, &event.EventType, &event.Payload, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		events = append(events, &event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return events, nil
}

func (r *Repository) MarkEventPublished(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE order_outbox SET published = TRUE, published_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox event published: %w", err)
	}
	return nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanOrder(s scanner) (*domain.Order, error) {
	var order domain.Order
	err := s.Scan(
		&order.ID,
		&order.UserID,
		&order.AddressID,
		&order.Status,
		&order.CouponID,
		&order.Subtotal,
		&order.Discount,
		&order.Total,
		&order.PaymentIntentID,
		&order.PaymentStatus,
		&order.ExpectedDelivery,
		&order.TrackingCode,
		&order.IdempotencyKey,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("scan order row: %w", err)
	}
	return &order, nil
}
