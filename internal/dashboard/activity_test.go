package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcars/backend/internal/model"
)

type fakeUserFeed struct {
	users []*model.User
	err   error
}

func (f *fakeUserFeed) Recent(ctx context.Context, limit int) ([]*model.User, error) {
	return f.users, f.err
}

type fakeListingFeed struct {
	listings []*model.Listing
	err      error
}

func (f *fakeListingFeed) Recent(ctx context.Context, limit int) ([]*model.Listing, error) {
	return f.listings, f.err
}

type fakeInquiryFeed struct {
	inquiries []*model.Inquiry
	err       error
}

func (f *fakeInquiryFeed) Recent(ctx context.Context, limit int) ([]*model.Inquiry, error) {
	return f.inquiries, f.err
}

type fakeOrderFeed struct {
	orders []*model.Order
	err    error
}

func (f *fakeOrderFeed) Recent(ctx context.Context, limit int) ([]*model.Order, error) {
	return f.orders, f.err
}

func entityAt(ts time.Time) model.BaseEntity {
	return model.BaseEntity{ID: uuid.New(), CreatedAt: ts, UpdatedAt: ts}
}

func newTestReconciler(u *fakeUserFeed, l *fakeListingFeed, q *fakeInquiryFeed, o *fakeOrderFeed) *Reconciler {
	return NewReconciler(u, l, q, o, discardLogger())
}

func TestReconcile_MergesSortedNewestFirst(t *testing.T) {
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	rec := newTestReconciler(
		&fakeUserFeed{users: []*model.User{
			{BaseEntity: entityAt(base.Add(1 * time.Hour)), FirstName: "Ana", LastName: "Silva", Email: "ana@example.com"},
		}},
		&fakeListingFeed{listings: []*model.Listing{
			{BaseEntity: entityAt(base.Add(3 * time.Hour)), Make: "Toyota", Model: "Corolla", OwnerName: "Ben Ochoa"},
		}},
		&fakeInquiryFeed{inquiries: []*model.Inquiry{
			{BaseEntity: entityAt(base.Add(2 * time.Hour)), Name: "Cleo Marsh", Email: "cleo@example.com"},
		}},
		&fakeOrderFeed{orders: []*model.Order{
			{BaseEntity: entityAt(base.Add(4 * time.Hour)), Amount: 15000, Currency: model.CurrencyUSD, BuyerName: "Dee Kwan"},
		}},
	)

	events := rec.Reconcile(context.Background())
	require.Len(t, events, 4)

	assert.Equal(t, model.SourceOrder, events[0].Source)
	assert.Equal(t, model.SourceListing, events[1].Source)
	assert.Equal(t, model.SourceInquiry, events[2].Source)
	assert.Equal(t, model.SourceUser, events[3].Source)

	for i := 1; i < len(events); i++ {
		assert.False(t, events[i].Timestamp.After(events[i-1].Timestamp),
			"events must be sorted descending by timestamp")
	}
}

func TestReconcile_TruncatesToMaxLength(t *testing.T) {
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	users := make([]*model.User, userFeedLimit)
	for i := range users {
		users[i] = &model.User{BaseEntity: entityAt(base.Add(time.Duration(i) * time.Minute)), FirstName: "U", LastName: "Ser"}
	}
	listings := make([]*model.Listing, listingFeedLimit)
	for i := range listings {
		listings[i] = &model.Listing{BaseEntity: entityAt(base.Add(time.Duration(i) * time.Minute)), Make: "VW", Model: "Golf", OwnerName: "O"}
	}
	inquiries := make([]*model.Inquiry, inquiryFeedLimit+2)
	for i := range inquiries {
		inquiries[i] = &model.Inquiry{BaseEntity: entityAt(base.Add(time.Duration(i) * time.Minute)), Name: "Q"}
	}
	orders := make([]*model.Order, orderFeedLimit+2)
	for i := range orders {
		orders[i] = &model.Order{BaseEntity: entityAt(base.Add(time.Duration(i) * time.Minute)), BuyerName: "B", Currency: model.CurrencyUSD}
	}

	rec := newTestReconciler(
		&fakeUserFeed{users: users},
		&fakeListingFeed{listings: listings},
		&fakeInquiryFeed{inquiries: inquiries},
		&fakeOrderFeed{orders: orders},
	)

	events := rec.Reconcile(context.Background())
	assert.LessOrEqual(t, len(events), maxFeedLength)
}

func TestReconcile_EqualTimestampsOrderBySourcePriority(t *testing.T) {
	ts := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	rec := newTestReconciler(
		&fakeUserFeed{users: []*model.User{
			{BaseEntity: entityAt(ts), FirstName: "Same", LastName: "Time"},
		}},
		&fakeListingFeed{listings: []*model.Listing{
			{BaseEntity: entityAt(ts), Make: "Ford", Model: "Focus", OwnerName: "X"},
		}},
		&fakeInquiryFeed{inquiries: []*model.Inquiry{
			{BaseEntity: entityAt(ts), Name: "Y"},
		}},
		&fakeOrderFeed{orders: []*model.Order{
			{BaseEntity: entityAt(ts), BuyerName: "Z", Currency: model.CurrencyUSD},
		}},
	)

	first := rec.Reconcile(context.Background())
	second := rec.Reconcile(context.Background())
	require.Len(t, first, 4)

	assert.Equal(t, model.SourceUser, first[0].Source)
	assert.Equal(t, model.SourceListing, first[1].Source)
	assert.Equal(t, model.SourceInquiry, first[2].Source)
	assert.Equal(t, model.SourceOrder, first[3].Source)
	assert.Equal(t, first, second, "equal inputs must reconcile deterministically")
}

func TestReconcile_FailedSourceContributesNothing(t *testing.T) {
	base := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	rec := newTestReconciler(
		&fakeUserFeed{err: errors.New("query failed")},
		&fakeListingFeed{listings: []*model.Listing{
			{BaseEntity: entityAt(base), Make: "Audi", Model: "A4", OwnerName: "Owner"},
		}},
		&fakeInquiryFeed{},
		&fakeOrderFeed{},
	)

	events := rec.Reconcile(context.Background())
	require.Len(t, events, 1)
	assert.Equal(t, model.SourceListing, events[0].Source)
}

func TestReconcile_AllSourcesFailYieldsEmptyFeed(t *testing.T) {
	boom := errors.New("db down")
	rec := newTestReconciler(
		&fakeUserFeed{err: boom},
		&fakeListingFeed{err: boom},
		&fakeInquiryFeed{err: boom},
		&fakeOrderFeed{err: boom},
	)

	events := rec.Reconcile(context.Background())
	assert.Empty(t, events)
}

func TestNewUserEvent_MissingNameUsesPlaceholder(t *testing.T) {
	u := &model.User{BaseEntity: entityAt(time.Now()), Email: "ghost@example.com"}
	ev := newUserEvent(u)

	assert.Equal(t, actorPlaceholder, ev.Actor)
	assert.Equal(t, "ghost@example.com", ev.Contact)
	assert.Equal(t, "registered an account", ev.Action)
}

func TestNewListingEvent_TargetIsMakeAndModel(t *testing.T) {
	l := &model.Listing{BaseEntity: entityAt(time.Now()), Make: "Mazda", Model: "3", OwnerName: "Kim Lee"}
	ev := newListingEvent(l)

	assert.Equal(t, "Kim Lee", ev.Actor)
	assert.Equal(t, "Mazda 3", ev.Target)
}

func TestNewOrderEvent_FormatsAmountByCurrency(t *testing.T) {
	usd := newOrderEvent(&model.Order{BaseEntity: entityAt(time.Now()), Amount: 15000, Currency: model.CurrencyUSD, BuyerName: "B"})
	assert.Equal(t, "$15000.00", usd.Target)

	eur := newOrderEvent(&model.Order{BaseEntity: entityAt(time.Now()), Amount: 99.5, Currency: model.CurrencyEUR, BuyerName: "B"})
	assert.Equal(t, "€99.50", eur.Target)
}

func TestEventIDsArePrefixedBySource(t *testing.T) {
	id := uuid.New()
	u := &model.User{BaseEntity: model.BaseEntity{ID: id}}
	assert.Equal(t, "user-"+id.String(), newUserEvent(u).ID)
}
