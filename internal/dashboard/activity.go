package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/mrcars/backend/internal/model"
)

// Feed limits per source and for the merged result.
const (
	userFeedLimit    = 3
	listingFeedLimit = 3
	inquiryFeedLimit = 2
	orderFeedLimit   = 2
	maxFeedLength    = 10
)

// actorPlaceholder is shown when a source record carries no display name.
const actorPlaceholder = "Unknown user"

// UserFeed retrieves the newest users.
type UserFeed interface {
	Recent(ctx context.Context, limit int) ([]*model.User, error)
}

// ListingFeed retrieves the newest listings with their owner's name joined in.
type ListingFeed interface {
	Recent(ctx context.Context, limit int) ([]*model.Listing, error)
}

// InquiryFeed retrieves the newest inquiries.
type InquiryFeed interface {
	Recent(ctx context.Context, limit int) ([]*model.Inquiry, error)
}

// OrderFeed retrieves the newest orders with the buyer joined in.
type OrderFeed interface {
	Recent(ctx context.Context, limit int) ([]*model.Order, error)
}

// Reconciler merges recent records from heterogeneous collections into a
// single bounded activity feed. Sources are queried concurrently and are
// fail-soft: a failed source contributes no events.
type Reconciler struct {
	users     UserFeed
	listings  ListingFeed
	inquiries InquiryFeed
	orders    OrderFeed
	logger    *slog.Logger
}

// NewReconciler creates a Reconciler over the given activity sources.
func NewReconciler(users UserFeed, listings ListingFeed, inquiries InquiryFeed, orders OrderFeed, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		users:     users,
		listings:  listings,
		inquiries: inquiries,
		orders:    orders,
		logger:    logger,
	}
}

// Reconcile queries all sources, normalizes each record into an
// ActivityEvent, merges them sorted descending by timestamp, and truncates
// to maxFeedLength. Equal timestamps order by source priority, then id, so
// the feed is deterministic.
func (r *Reconciler) Reconcile(ctx context.Context) []model.ActivityEvent {
	// One slot per source keeps concatenation order fixed regardless of
	// which query finishes first.
	var (
		userEvents    []model.ActivityEvent
		listingEvents []model.ActivityEvent
		inquiryEvents []model.ActivityEvent
		orderEvents   []model.ActivityEvent
	)

	var g errgroup.Group
	g.Go(func() error {
		users, err := r.users.Recent(ctx, userFeedLimit)
		if err != nil {
			r.logger.Warn("activity user query failed", "error", err)
			return nil
		}
		for _, u := range users {
			userEvents = append(userEvents, newUserEvent(u))
		}
		return nil
	})
	g.Go(func() error {
		listings, err := r.listings.Recent(ctx, listingFeedLimit)
		if err != nil {
			r.logger.Warn("activity listing query failed", "error", err)
			return nil
		}
		for _, l := range listings {
			listingEvents = append(listingEvents, newListingEvent(l))
		}
		return nil
	})
	g.Go(func() error {
		inquiries, err := r.inquiries.Recent(ctx, inquiryFeedLimit)
		if err != nil {
			r.logger.Warn("activity inquiry query failed", "error", err)
			return nil
		}
		for _, q := range inquiries {
			inquiryEvents = append(inquiryEvents, newInquiryEvent(q))
		}
		return nil
	})
	g.Go(func() error {
		orders, err := r.orders.Recent(ctx, orderFeedLimit)
		if err != nil {
			r.logger.Warn("activity order query failed", "error", err)
			return nil
		}
		for _, o := range orders {
			orderEvents = append(orderEvents, newOrderEvent(o))
		}
		return nil
	})
	g.Wait()

	events := make([]model.ActivityEvent, 0,
		len(userEvents)+len(listingEvents)+len(inquiryEvents)+len(orderEvents))
	events = append(events, userEvents...)
	events = append(events, listingEvents...)
	events = append(events, inquiryEvents...)
	events = append(events, orderEvents...)

	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Timestamp.Equal(events[j].Timestamp) {
			return events[i].Timestamp.After(events[j].Timestamp)
		}
		if events[i].Source != events[j].Source {
			return events[i].Source.Priority() < events[j].Source.Priority()
		}
		return events[i].ID < events[j].ID
	})

	if len(events) > maxFeedLength {
		events = events[:maxFeedLength]
	}
	return events
}

func newUserEvent(u *model.User) model.ActivityEvent {
	return model.ActivityEvent{
		ID:        fmt.Sprintf("user-%s", u.ID),
		Source:    model.SourceUser,
		Actor:     orPlaceholder(u.FullName()),
		Contact:   u.Email,
		Action:    "registered an account",
		Timestamp: u.CreatedAt,
	}
}

func newListingEvent(l *model.Listing) model.ActivityEvent {
	return model.ActivityEvent{
		ID:        fmt.Sprintf("listing-%s", l.ID),
		Source:    model.SourceListing,
		Actor:     orPlaceholder(l.OwnerName),
		Action:    "listed a car",
		Target:    l.Title(),
		Timestamp: l.CreatedAt,
	}
}

func newInquiryEvent(q *model.Inquiry) model.ActivityEvent {
	return model.ActivityEvent{
		ID:        fmt.Sprintf("inquiry-%s", q.ID),
		Source:    model.SourceInquiry,
		Actor:     orPlaceholder(q.Name),
		Contact:   q.Email,
		Action:    "sent an inquiry",
		Timestamp: q.CreatedAt,
	}
}

func newOrderEvent(o *model.Order) model.ActivityEvent {
	return model.ActivityEvent{
		ID:        fmt.Sprintf("order-%s", o.ID),
		Source:    model.SourceOrder,
		Actor:     orPlaceholder(o.BuyerName),
		Contact:   o.BuyerEmail,
		Action:    "placed an order",
		Target:    formatAmount(o.Amount, o.Currency),
		Timestamp: o.CreatedAt,
	}
}

func orPlaceholder(name string) string {
	if name == "" {
		return actorPlaceholder
	}
	return name
}

func formatAmount(amount float64, currency model.Currency) string {
	symbol := "$"
	if currency == model.CurrencyEUR {
		symbol = "€"
	}
	return fmt.Sprintf("%s%.2f", symbol, amount)
}
