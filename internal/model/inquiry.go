package model

import "github.com/google/uuid"

// InquiryStatus represents an inquiry's handling state.
type InquiryStatus string

const (
	InquiryNew      InquiryStatus = "new"
	InquiryAnswered InquiryStatus = "answered"
	InquiryClosed   InquiryStatus = "closed"
)

// Inquiry represents a question submitted about a listing.
type Inquiry struct {
	BaseEntity
	ListingID uuid.UUID     `json:"listing_id" db:"listing_id"`
	UserID    *uuid.UUID    `json:"user_id,omitempty" db:"user_id"`
	Name      string        `json:"name" db:"name"`
	Email     string        `json:"email" db:"email"`
	Message   string        `json:"message" db:"message"`
	Status    InquiryStatus `json:"status" db:"status"`
}
