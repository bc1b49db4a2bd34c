package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
)

// PostgresInquiryRepository implements InquiryRepository for PostgreSQL.
type PostgresInquiryRepository struct {
	db *sql.DB
}

// NewPostgresInquiryRepository creates a new PostgresInquiryRepository.
func NewPostgresInquiryRepository(db *sql.DB) *PostgresInquiryRepository {
	return &PostgresInquiryRepository{db: db}
}

func (r *PostgresInquiryRepository) Create(ctx context.Context, inquiry *model.Inquiry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO inquiries (id, listing_id, user_id, name, email, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, inquiry.ID, inquiry.ListingID, inquiry.UserID, inquiry.Name, inquiry.Email,
		inquiry.Message, inquiry.Status, inquiry.CreatedAt, inquiry.UpdatedAt)
	return err
}

func (r *PostgresInquiryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Inquiry, error) {
	var q model.Inquiry
	err := r.db.QueryRowContext(ctx, `
		SELECT id, listing_id, user_id, name, email, message, status, created_at, updated_at
		FROM inquiries WHERE id = $1
	`, id).Scan(&q.ID, &q.ListingID, &q.UserID, &q.Name, &q.Email, &q.Message, &q.Status, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *PostgresInquiryRepository) List(ctx context.Context, pagination model.Pagination) ([]*model.Inquiry, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, listing_id, user_id, name, email, message, status, created_at, updated_at
		FROM inquiries ORDER BY created_at DESC LIMIT $1 OFFSET $2
	`, pagination.PageSize, (pagination.Page-1)*pagination.PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var inquiries []*model.Inquiry
	for rows.Next() {
		var q model.Inquiry
		err := rows.Scan(&q.ID, &q.ListingID, &q.UserID, &q.Name, &q.Email, &q.Message, &q.Status, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		inquiries = append(inquiries, &q)
	}
	return inquiries, total, rows.Err()
}

func (r *PostgresInquiryRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.InquiryStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE inquiries SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	return err
}

func (r *PostgresInquiryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM inquiries WHERE id = $1`, id)
	return err
}

func (r *PostgresInquiryRepository) Count(ctx context.Context, since *time.Time) (int, error) {
	var count int
	var err error
	if since != nil {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries WHERE created_at >= $1`, *since).Scan(&count)
	} else {
		err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM inquiries`).Scan(&count)
	}
	return count, err
}

func (r *PostgresInquiryRepository) Recent(ctx context.Context, limit int) ([]*model.Inquiry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, listing_id, user_id, name, email, message, status, created_at, updated_at
		FROM inquiries ORDER BY created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var inquiries []*model.Inquiry
	for rows.Next() {
		var q model.Inquiry
		err := rows.Scan(&q.ID, &q.ListingID, &q.UserID, &q.Name, &q.Email, &q.Message, &q.Status, &q.CreatedAt, &q.UpdatedAt)
		if err != nil {
			return nil, err
		}
		inquiries = append(inquiries, &q)
	}
	return inquiries, rows.Err()
}
