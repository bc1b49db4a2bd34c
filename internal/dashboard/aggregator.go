// Package dashboard computes the admin dashboard's summary statistics and
// activity feed from the marketplace collections.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrcars/backend/internal/model"
)

// seriesMonths is the length of the trailing monthly series.
const seriesMonths = 12

// UserCounter counts user rows.
type UserCounter interface {
	Count(ctx context.Context, since *time.Time) (int, error)
	CountBetween(ctx context.Context, start, end time.Time) (int, error)
}

// ListingCounter counts listing rows.
type ListingCounter interface {
	Count(ctx context.Context, status model.ListingStatus, since *time.Time) (int, error)
	CountBetween(ctx context.Context, start, end time.Time) (int, error)
}

// InquiryCounter counts inquiry rows.
type InquiryCounter interface {
	Count(ctx context.Context, since *time.Time) (int, error)
}

// AppointmentCounter counts appointment rows.
type AppointmentCounter interface {
	CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error)
}

// OrderCounter counts order rows and retrieves order amounts.
type OrderCounter interface {
	Count(ctx context.Context, since *time.Time) (int, error)
	AmountsBetween(ctx context.Context, start, end time.Time) ([]float64, error)
}

// Aggregator computes the dashboard overview and the trailing monthly series.
//
// Every sub-query runs concurrently and is fail-soft: a failed query
// contributes zero to its field and is logged, but never aborts its siblings
// or surfaces to the caller. The dashboard degrades rather than blocks.
type Aggregator struct {
	users        UserCounter
	listings     ListingCounter
	inquiries    InquiryCounter
	appointments AppointmentCounter
	orders       OrderCounter
	logger       *slog.Logger
	now          func() time.Time
}

// NewAggregator creates an Aggregator over the given collection counters.
func NewAggregator(users UserCounter, listings ListingCounter, inquiries InquiryCounter,
	appointments AppointmentCounter, orders OrderCounter, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		users:        users,
		listings:     listings,
		inquiries:    inquiries,
		appointments: appointments,
		orders:       orders,
		logger:       logger,
		now:          time.Now,
	}
}

// Overview issues the eight named count queries concurrently and reduces
// them into a fully populated summary. Fields whose query failed are zero.
func (a *Aggregator) Overview(ctx context.Context) model.Overview {
	monthStart := model.MonthStart(a.now().UTC())

	var ov model.Overview

	// Each query writes to its own field, so assembly order follows the
	// query definitions regardless of completion order.
	queries := []struct {
		name string
		dst  *int
		run  func() (int, error)
	}{
		{"total_users", &ov.TotalUsers, func() (int, error) {
			return a.users.Count(ctx, nil)
		}},
		{"active_listings", &ov.ActiveListings, func() (int, error) {
			return a.listings.Count(ctx, model.ListingActive, nil)
		}},
		{"total_inquiries", &ov.TotalInquiries, func() (int, error) {
			return a.inquiries.Count(ctx, nil)
		}},
		{"pending_appointments", &ov.PendingAppointments, func() (int, error) {
			return a.appointments.CountByStatus(ctx, model.AppointmentPending)
		}},
		{"total_orders", &ov.TotalOrders, func() (int, error) {
			return a.orders.Count(ctx, nil)
		}},
		{"new_users_this_month", &ov.NewUsersThisMonth, func() (int, error) {
			return a.users.Count(ctx, &monthStart)
		}},
		{"new_listings_this_month", &ov.NewListingsThisMonth, func() (int, error) {
			return a.listings.Count(ctx, "", &monthStart)
		}},
		{"new_orders_this_month", &ov.NewOrdersThisMonth, func() (int, error) {
			return a.orders.Count(ctx, &monthStart)
		}},
	}

	var g errgroup.Group
	for _, q := range queries {
		q := q
		g.Go(func() error {
			count, err := q.run()
			if err != nil {
				a.logger.Warn("overview count failed", "query", q.name, "error", err)
				return nil
			}
			*q.dst = count
			return nil
		})
	}
	g.Wait()

	return ov
}

// MonthlySeries computes the trailing monthly series: one bucket per
// calendar month for the last seriesMonths months, current month inclusive,
// oldest first. Bucket fields default to zero on query failure; revenue is
// never negative.
func (a *Aggregator) MonthlySeries(ctx context.Context) []model.MonthBucket {
	currentMonth := model.MonthStart(a.now().UTC())

	buckets := make([]model.MonthBucket, seriesMonths)

	var g errgroup.Group
	for i := 0; i < seriesMonths; i++ {
		i := i
		start := currentMonth.AddDate(0, i-(seriesMonths-1), 0)
		g.Go(func() error {
			buckets[i] = a.monthBucket(ctx, start)
			return nil
		})
	}
	g.Wait()

	return buckets
}

// monthBucket issues the bucket's three sub-queries concurrently.
func (a *Aggregator) monthBucket(ctx context.Context, start time.Time) model.MonthBucket {
	end := model.MonthEnd(start)
	bucket := model.MonthBucket{Label: start.Format("Jan")}

	var g errgroup.Group
	g.Go(func() error {
		count, err := a.users.CountBetween(ctx, start, end)
		if err != nil {
			a.logger.Warn("month bucket user count failed", "month", bucket.Label, "error", err)
			return nil
		}
		bucket.Users = count
		return nil
	})
	g.Go(func() error {
		count, err := a.listings.CountBetween(ctx, start, end)
		if err != nil {
			a.logger.Warn("month bucket listing count failed", "month", bucket.Label, "error", err)
			return nil
		}
		bucket.Listings = count
		return nil
	})
	g.Go(func() error {
		amounts, err := a.orders.AmountsBetween(ctx, start, end)
		if err != nil {
			a.logger.Warn("month bucket order query failed", "month", bucket.Label, "error", err)
			return nil
		}
		bucket.Orders = len(amounts)
		var revenue float64
		for _, amount := range amounts {
			revenue += amount
		}
		if revenue < 0 {
			revenue = 0
		}
		bucket.Revenue = revenue
		return nil
	})
	g.Wait()

	return bucket
}
