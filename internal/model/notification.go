package model

import "github.com/google/uuid"

// NotificationKind classifies an admin notification by its source event.
type NotificationKind string

const (
	NotificationInquiry     NotificationKind = "inquiry"
	NotificationOrder       NotificationKind = "order"
	NotificationAppointment NotificationKind = "appointment"
	NotificationUser        NotificationKind = "user"
	NotificationSystem      NotificationKind = "system"
)

// NotificationPriority represents a notification's urgency.
type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
)

// NormalizePriority maps a stored priority string to a valid priority,
// defaulting to medium when absent or unrecognized.
func NormalizePriority(p string) NotificationPriority {
	switch NotificationPriority(p) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return NotificationPriority(p)
	default:
		return PriorityMedium
	}
}

// Notification represents one entry in the admin notification center.
type Notification struct {
	BaseEntity
	UserID    uuid.UUID            `json:"user_id" db:"user_id"`
	Kind      NotificationKind     `json:"kind" db:"kind"`
	Title     string               `json:"title" db:"title"`
	Message   string               `json:"message" db:"message"`
	Read      bool                 `json:"read" db:"read"`
	Priority  NotificationPriority `json:"priority" db:"priority"`
	RelatedID *uuid.UUID           `json:"related_id,omitempty" db:"related_id"`
}

// navigationTargets maps each notification kind to the dashboard page the
// admin UI should open when the notification is clicked.
var navigationTargets = map[NotificationKind]string{
	NotificationInquiry:     "/dashboard/inquiries",
	NotificationOrder:       "/dashboard/orders",
	NotificationAppointment: "/dashboard/appointments",
	NotificationUser:        "/dashboard/users",
	NotificationSystem:      "/dashboard",
}

// NavigationTarget returns the dashboard path for the notification's kind.
// The target is derived, never stored.
func (n *Notification) NavigationTarget() string {
	if target, ok := navigationTargets[n.Kind]; ok {
		return target
	}
	return "/dashboard"
}
