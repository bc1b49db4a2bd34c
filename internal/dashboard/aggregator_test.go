package dashboard

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcars/backend/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixedNow is mid-June so the trailing series spans two calendar years.
var fixedNow = time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

type fakeUsers struct {
	total     int
	thisMonth int
	perMonth  map[string]int
	err       error
}

func (f *fakeUsers) Count(ctx context.Context, since *time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if since != nil {
		return f.thisMonth, nil
	}
	return f.total, nil
}

func (f *fakeUsers) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.perMonth[start.Format("2006-01")], nil
}

type fakeListings struct {
	active    int
	thisMonth int
	perMonth  map[string]int
	err       error
}

func (f *fakeListings) Count(ctx context.Context, status model.ListingStatus, since *time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if since != nil {
		return f.thisMonth, nil
	}
	return f.active, nil
}

func (f *fakeListings) CountBetween(ctx context.Context, start, end time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.perMonth[start.Format("2006-01")], nil
}

type fakeInquiries struct {
	total int
	err   error
}

func (f *fakeInquiries) Count(ctx context.Context, since *time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.total, nil
}

type fakeAppointments struct {
	pending int
	err     error
}

func (f *fakeAppointments) CountByStatus(ctx context.Context, status model.AppointmentStatus) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.pending, nil
}

type fakeOrders struct {
	total     int
	thisMonth int
	perMonth  map[string][]float64
	err       error
}

func (f *fakeOrders) Count(ctx context.Context, since *time.Time) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	if since != nil {
		return f.thisMonth, nil
	}
	return f.total, nil
}

func (f *fakeOrders) AmountsBetween(ctx context.Context, start, end time.Time) ([]float64, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.perMonth[start.Format("2006-01")], nil
}

func newTestAggregator(users *fakeUsers, listings *fakeListings, inquiries *fakeInquiries,
	appts *fakeAppointments, orders *fakeOrders) *Aggregator {
	a := NewAggregator(users, listings, inquiries, appts, orders, discardLogger())
	a.now = func() time.Time { return fixedNow }
	return a
}

func TestOverview_AllQueriesSucceed(t *testing.T) {
	users := &fakeUsers{total: 120, thisMonth: 10}
	listings := &fakeListings{active: 45, thisMonth: 3}
	inquiries := &fakeInquiries{total: 30}
	appts := &fakeAppointments{pending: 5}
	orders := &fakeOrders{total: 60, thisMonth: 7}

	agg := newTestAggregator(users, listings, inquiries, appts, orders)
	ov := agg.Overview(context.Background())

	assert.Equal(t, 120, ov.TotalUsers)
	assert.Equal(t, 45, ov.ActiveListings)
	assert.Equal(t, 30, ov.TotalInquiries)
	assert.Equal(t, 5, ov.PendingAppointments)
	assert.Equal(t, 60, ov.TotalOrders)
	assert.Equal(t, 10, ov.NewUsersThisMonth)
	assert.Equal(t, 3, ov.NewListingsThisMonth)
	assert.Equal(t, 7, ov.NewOrdersThisMonth)
}

func TestOverview_FailedQueryContributesZero(t *testing.T) {
	users := &fakeUsers{total: 120, thisMonth: 10}
	listings := &fakeListings{err: errors.New("connection reset")}
	inquiries := &fakeInquiries{total: 30}
	appts := &fakeAppointments{pending: 5}
	orders := &fakeOrders{total: 60, thisMonth: 7}

	agg := newTestAggregator(users, listings, inquiries, appts, orders)
	ov := agg.Overview(context.Background())

	// The failed source is zero, every sibling still lands.
	assert.Equal(t, 0, ov.ActiveListings)
	assert.Equal(t, 0, ov.NewListingsThisMonth)
	assert.Equal(t, 120, ov.TotalUsers)
	assert.Equal(t, 30, ov.TotalInquiries)
	assert.Equal(t, 5, ov.PendingAppointments)
	assert.Equal(t, 60, ov.TotalOrders)
}

func TestOverview_AllQueriesFail(t *testing.T) {
	boom := errors.New("db down")
	agg := newTestAggregator(
		&fakeUsers{err: boom},
		&fakeListings{err: boom},
		&fakeInquiries{err: boom},
		&fakeAppointments{err: boom},
		&fakeOrders{err: boom},
	)

	ov := agg.Overview(context.Background())
	assert.Equal(t, model.Overview{}, ov)
}

func TestMonthlySeries_TwelveBucketsOldestFirst(t *testing.T) {
	agg := newTestAggregator(
		&fakeUsers{perMonth: map[string]int{"2025-06": 10, "2024-07": 4}},
		&fakeListings{perMonth: map[string]int{"2025-06": 3}},
		&fakeInquiries{},
		&fakeAppointments{},
		&fakeOrders{perMonth: map[string][]float64{"2025-06": {100, 50}}},
	)

	series := agg.MonthlySeries(context.Background())
	require.Len(t, series, 12)

	// Oldest bucket is July of the previous year, newest is the current month.
	assert.Equal(t, "Jul", series[0].Label)
	assert.Equal(t, 4, series[0].Users)
	assert.Equal(t, "Jun", series[11].Label)

	current := series[11]
	assert.Equal(t, 10, current.Users)
	assert.Equal(t, 3, current.Listings)
	assert.Equal(t, 2, current.Orders)
	assert.Equal(t, 150.0, current.Revenue)
}

func TestMonthlySeries_EmptyMonthsAreZero(t *testing.T) {
	agg := newTestAggregator(
		&fakeUsers{perMonth: map[string]int{}},
		&fakeListings{perMonth: map[string]int{}},
		&fakeInquiries{},
		&fakeAppointments{},
		&fakeOrders{perMonth: map[string][]float64{}},
	)

	series := agg.MonthlySeries(context.Background())
	require.Len(t, series, 12)
	for _, bucket := range series {
		assert.Zero(t, bucket.Users)
		assert.Zero(t, bucket.Listings)
		assert.Zero(t, bucket.Orders)
		assert.Zero(t, bucket.Revenue)
	}
}

func TestMonthlySeries_FailedMonthDegradesToZero(t *testing.T) {
	agg := newTestAggregator(
		&fakeUsers{err: errors.New("timeout")},
		&fakeListings{perMonth: map[string]int{"2025-06": 3}},
		&fakeInquiries{},
		&fakeAppointments{},
		&fakeOrders{perMonth: map[string][]float64{"2025-06": {75}}},
	)

	series := agg.MonthlySeries(context.Background())
	require.Len(t, series, 12)

	current := series[11]
	assert.Zero(t, current.Users)
	assert.Equal(t, 3, current.Listings)
	assert.Equal(t, 1, current.Orders)
	assert.Equal(t, 75.0, current.Revenue)
}

func TestMonthlySeries_RevenueNeverNegative(t *testing.T) {
	agg := newTestAggregator(
		&fakeUsers{perMonth: map[string]int{}},
		&fakeListings{perMonth: map[string]int{}},
		&fakeInquiries{},
		&fakeAppointments{},
		&fakeOrders{perMonth: map[string][]float64{"2025-06": {40, -100}}},
	)

	series := agg.MonthlySeries(context.Background())
	current := series[11]
	assert.Equal(t, 2, current.Orders)
	assert.Equal(t, 0.0, current.Revenue)
}
