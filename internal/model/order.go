package model

import "github.com/google/uuid"

// OrderStatus represents an order's payment lifecycle.
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderCancelled OrderStatus = "cancelled"
	OrderRefunded  OrderStatus = "refunded"
)

// Order represents a purchase or rental booking of a listing.
type Order struct {
	BaseEntity
	BuyerID   uuid.UUID   `json:"buyer_id" db:"buyer_id"`
	ListingID uuid.UUID   `json:"listing_id" db:"listing_id"`
	Amount    float64     `json:"amount" db:"amount"`
	Currency  Currency    `json:"currency" db:"currency"`
	Status    OrderStatus `json:"status" db:"status"`

	// BuyerName and BuyerEmail are populated by joined queries.
	BuyerName  string `json:"buyer_name,omitempty" db:"-"`
	BuyerEmail string `json:"buyer_email,omitempty" db:"-"`
}
