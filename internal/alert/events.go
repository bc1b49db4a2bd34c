package alert

import (
	"context"
	"fmt"
)

// SendOrderPlaced notifies the admin team of a new order.
func (s *Service) SendOrderPlaced(ctx context.Context, buyer, listing string, amount float64, currency string) error {
	return s.Send(ctx, Message{
		EventType: EventOrderPlaced,
		Title:     fmt.Sprintf("New Order: %s", listing),
		Body:      fmt.Sprintf("%s placed an order for %s at %.2f %s.", buyer, listing, amount, currency),
		Severity:  "medium",
		Data: map[string]any{
			"Buyer":   buyer,
			"Listing": listing,
			"Amount":  fmt.Sprintf("%.2f %s", amount, currency),
		},
	})
}

// SendAppointmentReminder notifies the admin team of an upcoming viewing.
func (s *Service) SendAppointmentReminder(ctx context.Context, customer, listing, when string) error {
	return s.Send(ctx, Message{
		EventType: EventAppointmentReminder,
		Title:     fmt.Sprintf("Upcoming Viewing: %s", listing),
		Body:      fmt.Sprintf("%s has a confirmed viewing of %s at %s.", customer, listing, when),
		Severity:  "low",
		Data: map[string]any{
			"Customer": customer,
			"Listing":  listing,
			"When":     when,
		},
	})
}

// SendListingsExpired reports how many stale pending listings were expired
// by the nightly job.
func (s *Service) SendListingsExpired(ctx context.Context, count int64) error {
	return s.Send(ctx, Message{
		EventType: EventListingExpired,
		Title:     "Stale Listings Expired",
		Body:      fmt.Sprintf("%d pending listings passed their review window and were expired.", count),
		Severity:  "low",
		Data: map[string]any{
			"Count": count,
		},
	})
}
