// Package repository provides PostgreSQL repository implementations.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
)

// UserRepository defines data access for users.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, pagination model.Pagination) ([]*model.User, int, error)
	Update(ctx context.Context, user *model.User) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, since *time.Time) (int, error)
	CountBetween(ctx context.Context, start, end time.Time) (int, error)
	Recent(ctx context.Context, limit int) ([]*model.User, error)
}

// ListingRepository defines data access for car and rental listings.
type ListingRepository interface {
	Create(ctx context.Context, listing *model.Listing) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Listing, error)
	List(ctx context.Context, status model.ListingStatus, pagination model.Pagination) ([]*model.Listing, int, error)
	Update(ctx context.Context, listing *model.Listing) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ListingStatus) error
	AddPhotoKey(ctx context.Context, id uuid.UUID, key string) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, status model.ListingStatus, since *time.Time) (int, error)
	CountBetween(ctx context.Context, start, end time.Time) (int, error)
	Recent(ctx context.Context, limit int) ([]*model.Listing, error)
	ExpirePending(ctx context.Context, olderThan time.Time) (int64, error)
}

// OrderRepository defines data access for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, pagination model.Pagination) ([]*model.Order, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.OrderStatus) error
	Count(ctx context.Context, since *time.Time) (int, error)
	Recent(ctx context.Context, limit int) ([]*model.Order, error)
	AmountsBetween(ctx context.Context, start, end time.Time) ([]float64, error)
}

// InquiryRepository defines data access for listing inquiries.
type InquiryRepository interface {
	Create(ctx context.Context, inquiry *model.Inquiry) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Inquiry, error)
	List(ctx context.Context, pagination model.Pagination) ([]*model.Inquiry, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.InquiryStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	Count(ctx context.Context, since *time.Time) (int, error)
	Recent(ctx context.Context, limit int) ([]*model.Inquiry, error)
}

// AppointmentRepository defines data access for viewing appointments.
type AppointmentRepository interface {
	Create(ctx context.Context, appt *model.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
	List(ctx context.Context, pagination model.Pagination) ([]*model.Appointment, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.AppointmentStatus) error
	CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error)
	DueBetween(ctx context.Context, start, end time.Time) ([]*model.Appointment, error)
}

// ForumRepository defines data access for forum moderation.
type ForumRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.ForumPost, error)
	List(ctx context.Context, status model.ForumPostStatus, pagination model.Pagination) ([]*model.ForumPost, int, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.ForumPostStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotificationRepository defines data access for the admin notification center.
type NotificationRepository interface {
	Create(ctx context.Context, n *model.Notification) error
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
}
