package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
)

// PostgresAppointmentRepository implements AppointmentRepository for PostgreSQL.
type PostgresAppointmentRepository struct {
	db *sql.DB
}

// NewPostgresAppointmentRepository creates a new PostgresAppointmentRepository.
func NewPostgresAppointmentRepository(db *sql.DB) *PostgresAppointmentRepository {
	return &PostgresAppointmentRepository{db: db}
}

func (r *PostgresAppointmentRepository) Create(ctx context.Context, appt *model.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (id, listing_id, user_id, scheduled_at, status, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, appt.ID, appt.ListingID, appt.UserID, appt.ScheduledAt, appt.Status, appt.Note,
		appt.CreatedAt, appt.UpdatedAt)
	return err
}

func (r *PostgresAppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	var a model.Appointment
	err := r.db.QueryRowContext(ctx, `
		SELECT id, listing_id, user_id, scheduled_at, status, note, created_at, updated_at
		FROM appointments WHERE id = $1
	`, id).Scan(&a.ID, &a.ListingID, &a.UserID, &a.ScheduledAt, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *PostgresAppointmentRepository) List(ctx context.Context, pagination model.Pagination) ([]*model.Appointment, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, listing_id, user_id, scheduled_at, status, note, created_at, updated_at
		FROM appointments ORDER BY scheduled_at DESC LIMIT $1 OFFSET $2
	`, pagination.PageSize, (pagination.Page-1)*pagination.PageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		var a model.Appointment
		err := rows.Scan(&a.ID, &a.ListingID, &a.UserID, &a.ScheduledAt, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, 0, err
		}
		appts = append(appts, &a)
	}
	return appts, total, rows.Err()
}

func (r *PostgresAppointmentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE appointments SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	return err
}

func (r *PostgresAppointmentRepository) CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM appointments WHERE status = $1`, status).Scan(&count)
	return count, err
}

// DueBetween returns confirmed appointments scheduled within the range.
func (r *PostgresAppointmentRepository) DueBetween(ctx context.Context, start, end time.Time) ([]*model.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, listing_id, user_id, scheduled_at, status, note, created_at, updated_at
		FROM appointments
		WHERE status = $1 AND scheduled_at >= $2 AND scheduled_at <= $3
		ORDER BY scheduled_at
	`, model.AppointmentConfirmed, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []*model.Appointment
	for rows.Next() {
		var a model.Appointment
		err := rows.Scan(&a.ID, &a.ListingID, &a.UserID, &a.ScheduledAt, &a.Status, &a.Note, &a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			return nil, err
		}
		appts = append(appts, &a)
	}
	return appts, rows.Err()
}
