package model

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus represents a viewing appointment's state.
type AppointmentStatus string

const (
	AppointmentPending   AppointmentStatus = "pending"
	AppointmentConfirmed AppointmentStatus = "confirmed"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCancelled AppointmentStatus = "cancelled"
)

// Appointment represents a scheduled test drive or viewing.
type Appointment struct {
	BaseEntity
	ListingID   uuid.UUID         `json:"listing_id" db:"listing_id"`
	UserID      uuid.UUID         `json:"user_id" db:"user_id"`
	ScheduledAt time.Time         `json:"scheduled_at" db:"scheduled_at"`
	Status      AppointmentStatus `json:"status" db:"status"`
	Note        string            `json:"note,omitempty" db:"note"`
}
