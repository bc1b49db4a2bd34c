package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
)

// PostgresListingRepository implements ListingRepository for PostgreSQL.
type PostgresListingRepository struct {
	db *sql.DB
}

// NewPostgresListingRepository creates a new PostgresListingRepository.
func NewPostgresListingRepository(db *sql.DB) *PostgresListingRepository {
	return &PostgresListingRepository{db: db}
}

func (r *PostgresListingRepository) Create(ctx context.Context, listing *model.Listing) error {
	photosJSON, _ := json.Marshal(listing.PhotoKeys)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO listings (id, owner_id, make, model, year, price, currency, kind, status, mileage, location, photo_keys, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`, listing.ID, listing.OwnerID, listing.Make, listing.Model, listing.Year, listing.Price,
		listing.Currency, listing.Kind, listing.Status, listing.Mileage, listing.Location,
		photosJSON, listing.CreatedAt, listing.UpdatedAt)
	return err
}

func (r *PostgresListingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error) {
	var l model.Listing
	var photosJSON []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, owner_id, make, model, year, price, currency, kind, status, mileage, location, photo_keys, created_at, updated_at
		FROM listings WHERE id = $1
	`, id).Scan(&l.ID, &l.OwnerID, &l.Make, &l.Model, &l.Year, &l.Price, &l.Currency, &l.Kind,
		&l.Status, &l.Mileage, &l.Location, &photosJSON, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	json.Unmarshal(photosJSON, &l.PhotoKeys)
	return &l, nil
}

func (r *PostgresListingRepository) List(ctx context.Context, status model.ListingStatus, pagination model.Pagination) ([]*model.Listing, int, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = " WHERE status = $1"
		args = append(args, status)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM listings`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limitArgs := append(args, pagination.PageSize, (pagination.Page-1)*pagination.PageSize)
	query := `SELECT id, owner_id, make, model, year, price, currency, kind, status, mileage, location, photo_keys, created_at, updated_at FROM listings` + where
	if status != "" {
		query += " ORDER BY created_at DESC LIMIT $2 OFFSET $3"
	} else {
		query += " ORDER BY created_at DESC LIMIT $1 OFFSET $2"
	}

	rows, err := r.db.QueryContext(ctx, query, limitArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		var l model.Listing
		var photosJSON []byte
		err := rows.Scan(&l.ID, &l.OwnerID, &l.Make, &l.Model, &l.Year, &l.Price, &l.Currency,
			&l.Kind, &l.Status, &l.Mileage, &l.Location, &photosJSON, &l.CreatedAt, &l.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		json.Unmarshal(photosJSON, &l.PhotoKeys)
		listings = append(listings, &l)
	}
	return listings, total, rows.Err()
}

func (r *PostgresListingRepository) Update(ctx context.Context, listing *model.Listing) error {
	photosJSON, _ := json.Marshal(listing.PhotoKeys)
	listing.UpdatedAt = time.Now().UTC()
	_, err := r.db.ExecContext(ctx, `
		UPDATE listings SET make = $2, model = $3, year = $4, price = $5, kind = $6, status = $7, mileage = $8, location = $9, photo_keys = $10, updated_at = $11
		WHERE id = $1
	`, listing.ID, listing.Make, listing.Model, listing.Year, listing.Price, listing.Kind,
		listing.Status, listing.Mileage, listing.Location, photosJSON, listing.UpdatedAt)
	return err
}

func (r *PostgresListingRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ListingStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE listings SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	return err
}

func (r *PostgresListingRepository) AddPhotoKey(ctx context.Context, id uuid.UUID, key string) error {
	listing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	listing.PhotoKeys = append(listing.PhotoKeys, key)
	return r.Update(ctx, listing)
}

func (r *PostgresListingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = $1`, id)
	return err
}

func (r *PostgresListingRepository) Count(ctx context.Context, status model.ListingStatus, since *time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM listings WHERE 1=1`
	args := []any{}
	if status != "" {
		args = append(args, status)
		query += ` AND status = $1`
	}
	if since != nil {
		args = append(args, *since)
		if status != "" {
			query += ` AND created_at >= $2`
		} else {
			query += ` AND created_at >= $1`
		}
	}

	var count int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

func (r *PostgresListingRepository) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM listings WHERE created_at >= $1 AND created_at <= $2
	`, start, end).Scan(&count)
	return count, err
}

// Recent returns the newest listings together with their owner's display name.
func (r *PostgresListingRepository) Recent(ctx context.Context, limit int) ([]*model.Listing, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.owner_id, l.make, l.model, l.year, l.price, l.currency, l.kind, l.status,
		       l.mileage, l.location, l.photo_keys, l.created_at, l.updated_at,
		       COALESCE(u.first_name || ' ' || u.last_name, '')
		FROM listings l
		LEFT JOIN users u ON u.id = l.owner_id
		ORDER BY l.created_at DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []*model.Listing
	for rows.Next() {
		var l model.Listing
		var photosJSON []byte
		err := rows.Scan(&l.ID, &l.OwnerID, &l.Make, &l.Model, &l.Year, &l.Price, &l.Currency,
			&l.Kind, &l.Status, &l.Mileage, &l.Location, &photosJSON, &l.CreatedAt, &l.UpdatedAt,
			&l.OwnerName)
		if err != nil {
			return nil, err
		}
		json.Unmarshal(photosJSON, &l.PhotoKeys)
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

// ExpirePending marks pending listings older than the cutoff as expired and
// returns the number of rows affected.
func (r *PostgresListingRepository) ExpirePending(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE listings SET status = $1, updated_at = $2 WHERE status = $3 AND created_at < $4
	`, model.ListingExpired, time.Now().UTC(), model.ListingPending, olderThan)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
