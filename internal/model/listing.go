package model

import "github.com/google/uuid"

// ListingKind distinguishes cars for sale from rentals.
type ListingKind string

const (
	ListingSale   ListingKind = "sale"
	ListingRental ListingKind = "rental"
)

// ListingStatus represents a listing's lifecycle state.
type ListingStatus string

const (
	ListingActive  ListingStatus = "active"
	ListingPending ListingStatus = "pending"
	ListingSold    ListingStatus = "sold"
	ListingExpired ListingStatus = "expired"
)

// Listing represents a car offered for sale or rent.
type Listing struct {
	BaseEntity
	OwnerID   uuid.UUID     `json:"owner_id" db:"owner_id"`
	Make      string        `json:"make" db:"make"`
	Model     string        `json:"model" db:"model"`
	Year      int           `json:"year" db:"year"`
	Price     float64       `json:"price" db:"price"`
	Currency  Currency      `json:"currency" db:"currency"`
	Kind      ListingKind   `json:"kind" db:"kind"`
	Status    ListingStatus `json:"status" db:"status"`
	Mileage   int           `json:"mileage" db:"mileage"`
	Location  string        `json:"location,omitempty" db:"location"`
	PhotoKeys []string      `json:"photo_keys,omitempty" db:"photo_keys"`

	// OwnerName is populated by joined queries, not stored on the row.
	OwnerName string `json:"owner_name,omitempty" db:"-"`
}

// Title returns the listing's short display name.
func (l *Listing) Title() string {
	return l.Make + " " + l.Model
}
