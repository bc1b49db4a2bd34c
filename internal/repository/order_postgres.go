package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
)

// PostgresOrderRepository implements OrderRepository for PostgreSQL.
type PostgresOrderRepository struct {
	db *sql.DB
}

// NewPostgresOrderRepository creates a new PostgresOrderRepository.
func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

func (r *PostgresOrderRepository) Create(ctx context.Context, order *model.Order) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders (id, buyer_id, listing_id, amount, currency, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, order.ID, order.BuyerID, order.ListingID, order.Amount, order.Currency, order.Status,
		order.CreatedAt, order.UpdatedAt)
	return err
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.QueryRowContext(ctx, `
		SELECT id, buyer_id, listing_id, amount, currency, status, created_at, updated_at
		FROM orders WHERE id = $1
	`, id).Scan(&o.ID, &o.BuyerID, &o.ListingID, &o.Amount, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *PostgresOrderRepository) List(ctx context.Context, pagination model.Pagination) ([]*model.Order, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, buyer_id, listing_id, amount, currency, status, created_at, updated_at
		FROM orders ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, pagination.PageSize, (pagination.Page-1)*pagination.PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.BuyerID, &o.ListingID, &o.Amount, &o.Currency, &o.Status, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, &o)
	}
	return orders, total, rows.Err()
}

func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	return err
}

func (r *PostgresOrderRepository) Count(ctx context.Context, since *time.Time) (int, error) {
	var count int
	var err error
	if since != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders WHERE created_at >= $1`, *since).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM orders`).Scan(&count)
	}
	return count, err
}

// Recent returns the newest orders together with the buyer's name and email.
func (r *PostgresOrderRepository) Recent(ctx context.Context, limit int) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.buyer_id, o.listing_id, o.amount, o.currency, o.status, o.created_at, o.updated_at,
		       COALESCE(u.first_name || ' ' || u.last_name, ''), COALESCE(u.email, '')
		FROM orders o
		LEFT JOIN users u ON u.id = o.buyer_id
		ORDER BY o.created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		var o model.Order
		err := rows.Scan(&o.ID, &o.BuyerID, &o.ListingID, &o.Amount, &o.Currency, &o.Status,
			&o.CreatedAt, &o.UpdatedAt, &o.BuyerName, &o.BuyerEmail)
		if err != nil {
			return nil, err
		}
		orders = append(orders, &o)
	}
	return orders, rows.Err()
}

// AmountsBetween returns the amounts of paid orders created in the range.
func (r *PostgresOrderRepository) AmountsBetween(ctx context.Context, start, end time.Time) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT amount FROM orders
		WHERE created_at >= $1 AND created_at <= $2 AND status <> $3
	`, start, end, model.OrderCancelled)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var amounts []float64
	for rows.Next() {
		var amount float64
		if err := rows.Scan(&amount); err != nil {
			return nil, err
		}
		amounts = append(amounts, amount)
	}
	return amounts, rows.Err()
}
