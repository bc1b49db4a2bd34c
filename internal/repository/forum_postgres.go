package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
)

// PostgresForumRepository implements ForumRepository for PostgreSQL.
type PostgresForumRepository struct {
	db *sql.DB
}

// NewPostgresForumRepository creates a new PostgresForumRepository.
func NewPostgresForumRepository(db *sql.DB) *PostgresForumRepository {
	return &PostgresForumRepository{db: db}
}

func (r *PostgresForumRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ForumPost, error) {
	var p model.ForumPost
	err := r.db.QueryRowContext(ctx, `
		SELECT p.id, p.author_id, p.title, p.body, p.status, p.flag_count, p.created_at, p.updated_at,
		       COALESCE(u.first_name || ' ' || u.last_name, '')
		FROM forum_posts p
		LEFT JOIN users u ON u.id = p.author_id
		WHERE p.id = $1
	`, id).Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Status, &p.FlagCount,
		&p.CreatedAt, &p.UpdatedAt, &p.AuthorName)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostgresForumRepository) List(ctx context.Context, status model.ForumPostStatus, pagination model.Pagination) ([]*model.ForumPost, int, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = " WHERE p.status = $1"
		args = append(args, status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM forum_posts p` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT p.id, p.author_id, p.title, p.body, p.status, p.flag_count, p.created_at, p.updated_at,
		       COALESCE(u.first_name || ' ' || u.last_name, '')
		FROM forum_posts p
		LEFT JOIN users u ON u.id = p.author_id` + where
	if status != "" {
		query += " ORDER BY p.flag_count DESC, p.created_at DESC LIMIT $2 OFFSET $3"
	} else {
		query += " ORDER BY p.flag_count DESC, p.created_at DESC LIMIT $1 OFFSET $2"
	}
	args = append(args, pagination.PageSize, (pagination.Page-1)*pagination.PageSize)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var posts []*model.ForumPost
	for rows.Next() {
		var p model.ForumPost
		err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Body, &p.Status, &p.FlagCount,
			&p.CreatedAt, &p.UpdatedAt, &p.AuthorName)
		if err != nil {
			return nil, 0, err
		}
		posts = append(posts, &p)
	}
	return posts, total, rows.Err()
}

func (r *PostgresForumRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.ForumPostStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE forum_posts SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	return err
}

func (r *PostgresForumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM forum_posts WHERE id = $1`, id)
	return err
}
