package dashboard

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// blockingUsers lets a test hold one refresh in flight while another
// completes.
type blockingUsers struct {
	fakeUsers
	mu      sync.Mutex
	release chan struct{}
	block   bool
}

func (b *blockingUsers) Count(ctx context.Context, since *time.Time) (int, error) {
	b.mu.Lock()
	shouldBlock := b.block
	b.mu.Unlock()
	if shouldBlock {
		<-b.release
	}
	return b.fakeUsers.Count(ctx, since)
}

func (b *blockingUsers) setBlock(v bool) {
	b.mu.Lock()
	b.block = v
	b.mu.Unlock()
}

func newTestView(users UserCounter) *View {
	agg := NewAggregator(users, &fakeListings{}, &fakeInquiries{}, &fakeAppointments{}, &fakeOrders{}, discardLogger())
	agg.now = func() time.Time { return fixedNow }
	rec := NewReconciler(&fakeUserFeed{}, &fakeListingFeed{}, &fakeInquiryFeed{}, &fakeOrderFeed{}, discardLogger())
	return NewView(agg, rec, discardLogger())
}

func TestView_StartsLoading(t *testing.T) {
	v := newTestView(&fakeUsers{})
	_, phase := v.Current()
	assert.Equal(t, PhaseLoading, phase)
}

func TestView_RefreshTransitionsToReady(t *testing.T) {
	v := newTestView(&fakeUsers{total: 42})
	snap := v.Refresh(context.Background())

	assert.Equal(t, 42, snap.Overview.TotalUsers)

	current, phase := v.Current()
	assert.Equal(t, PhaseReady, phase)
	assert.Equal(t, snap.Overview, current.Overview)
}

func TestView_StaleRefreshIsDiscarded(t *testing.T) {
	users := &blockingUsers{release: make(chan struct{})}
	users.fakeUsers.total = 1
	v := newTestView(users)

	// First refresh blocks inside its user query.
	users.setBlock(true)
	firstDone := make(chan Snapshot)
	go func() {
		firstDone <- v.Refresh(context.Background())
	}()

	// Give the first refresh time to claim its generation.
	time.Sleep(50 * time.Millisecond)

	// Second refresh runs to completion with a newer count.
	users.setBlock(false)
	users.fakeUsers.total = 2
	second := v.Refresh(context.Background())
	assert.Equal(t, 2, second.Overview.TotalUsers)

	// Unblock the first refresh. Its result is stale and must not
	// overwrite the published snapshot.
	close(users.release)
	first := <-firstDone
	assert.Equal(t, 2, first.Overview.TotalUsers, "stale refresh returns the published snapshot")

	current, phase := v.Current()
	assert.Equal(t, PhaseReady, phase)
	assert.Equal(t, 2, current.Overview.TotalUsers)
}
