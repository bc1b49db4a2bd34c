package notification

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrcars/backend/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStore records writes and can be told to fail them.
type fakeStore struct {
	rows []*model.Notification

	failMarkRead    bool
	failMarkAllRead bool
	failDelete      bool

	markReadCalls    int
	markAllReadCalls int
	deleteCalls      int
}

func (s *fakeStore) ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	return s.rows, nil
}

func (s *fakeStore) MarkRead(ctx context.Context, id uuid.UUID) error {
	s.markReadCalls++
	if s.failMarkRead {
		return errors.New("write failed")
	}
	for _, n := range s.rows {
		if n.ID == id {
			n.Read = true
		}
	}
	return nil
}

func (s *fakeStore) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	s.markAllReadCalls++
	if s.failMarkAllRead {
		return 0, errors.New("write failed")
	}
	var n int64
	for _, row := range s.rows {
		if !row.Read {
			row.Read = true
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.deleteCalls++
	if s.failDelete {
		return errors.New("write failed")
	}
	return nil
}

func notif(read bool) *model.Notification {
	return &model.Notification{
		BaseEntity: model.NewBaseEntity(),
		UserID:     uuid.New(),
		Kind:       model.NotificationInquiry,
		Title:      "New inquiry",
		Read:       read,
		Priority:   model.PriorityMedium,
	}
}

func loadedCenter(t *testing.T, store *fakeStore) *Center {
	t.Helper()
	c := NewCenter(store, uuid.New(), discardLogger())
	require.NoError(t, c.Load(context.Background()))
	return c
}

func TestLoad_NormalizesMissingPriority(t *testing.T) {
	n := notif(false)
	n.Priority = ""
	store := &fakeStore{rows: []*model.Notification{n}}

	c := loadedCenter(t, store)
	items := c.Items()
	require.Len(t, items, 1)
	assert.Equal(t, model.PriorityMedium, items[0].Priority)
}

func TestMarkRead_PatchesCacheOnlyAfterRemoteSuccess(t *testing.T) {
	n := notif(false)
	store := &fakeStore{rows: []*model.Notification{n}}
	c := loadedCenter(t, store)

	outcome := c.MarkRead(context.Background(), n.ID)

	assert.Equal(t, LevelSuccess, outcome.Level)
	assert.Equal(t, 1, store.markReadCalls)
	assert.Zero(t, c.UnreadCount())
}

func TestMarkRead_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	n := notif(false)
	store := &fakeStore{rows: []*model.Notification{n}, failMarkRead: true}
	c := loadedCenter(t, store)

	outcome := c.MarkRead(context.Background(), n.ID)

	assert.Equal(t, LevelError, outcome.Level)
	assert.Equal(t, 1, c.UnreadCount(), "failed remote write must not patch the cache")
	items := c.Items()
	assert.False(t, items[0].Read)
}

func TestMarkRead_UnknownIDIsAnError(t *testing.T) {
	store := &fakeStore{rows: []*model.Notification{notif(false)}}
	c := loadedCenter(t, store)

	outcome := c.MarkRead(context.Background(), uuid.New())

	assert.Equal(t, LevelError, outcome.Level)
	assert.Zero(t, store.markReadCalls, "unknown id must not reach the store")
}

func TestMarkAllRead_FlipsEveryUnread(t *testing.T) {
	store := &fakeStore{rows: []*model.Notification{notif(false), notif(false), notif(true)}}
	c := loadedCenter(t, store)

	outcome := c.MarkAllRead(context.Background())

	assert.Equal(t, LevelSuccess, outcome.Level)
	assert.Zero(t, c.UnreadCount())
	assert.Equal(t, 1, store.markAllReadCalls)
}

func TestMarkAllRead_SecondCallIsInformationalNoOp(t *testing.T) {
	store := &fakeStore{rows: []*model.Notification{notif(false), notif(false)}}
	c := loadedCenter(t, store)

	first := c.MarkAllRead(context.Background())
	second := c.MarkAllRead(context.Background())

	assert.Equal(t, LevelSuccess, first.Level)
	assert.Equal(t, LevelInfo, second.Level)
	assert.Equal(t, 1, store.markAllReadCalls, "no-op call must not write remotely")
	assert.Zero(t, c.UnreadCount())
}

func TestMarkAllRead_NothingUnreadSkipsRemoteWrite(t *testing.T) {
	store := &fakeStore{rows: []*model.Notification{notif(true)}}
	c := loadedCenter(t, store)

	outcome := c.MarkAllRead(context.Background())

	assert.Equal(t, LevelInfo, outcome.Level)
	assert.Zero(t, store.markAllReadCalls)
}

func TestMarkAllRead_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	store := &fakeStore{rows: []*model.Notification{notif(false), notif(false)}, failMarkAllRead: true}
	c := loadedCenter(t, store)

	outcome := c.MarkAllRead(context.Background())

	assert.Equal(t, LevelError, outcome.Level)
	assert.Equal(t, 2, c.UnreadCount())
}

func TestDelete_RemovesFromCacheAfterRemoteSuccess(t *testing.T) {
	n := notif(false)
	store := &fakeStore{rows: []*model.Notification{n, notif(true)}}
	c := loadedCenter(t, store)

	outcome := c.Delete(context.Background(), n.ID)

	assert.Equal(t, LevelSuccess, outcome.Level)
	assert.Len(t, c.Items(), 1)
}

func TestDelete_RemoteFailureLeavesCacheUntouched(t *testing.T) {
	n := notif(false)
	store := &fakeStore{rows: []*model.Notification{n}, failDelete: true}
	c := loadedCenter(t, store)

	outcome := c.Delete(context.Background(), n.ID)

	assert.Equal(t, LevelError, outcome.Level)
	assert.Len(t, c.Items(), 1)
}

func TestItems_ReturnsACopy(t *testing.T) {
	store := &fakeStore{rows: []*model.Notification{notif(false)}}
	c := loadedCenter(t, store)

	items := c.Items()
	items[0].Read = true

	assert.Equal(t, 1, c.UnreadCount(), "mutating the returned slice must not touch the cache")
}
