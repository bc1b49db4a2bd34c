// Package notification implements the admin notification center: a cached
// view of a user's notifications plus the mutation gateway that keeps the
// cache consistent with the store.
package notification

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/mrcars/backend/internal/model"
)

// Store is the remote persistence the center reconciles against.
type Store interface {
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Level classifies an Outcome for the UI.
type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Outcome is the user-visible result of a gateway mutation.
type Outcome struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func successOutcome(msg string) Outcome { return Outcome{Level: LevelSuccess, Message: msg} }
func infoOutcome(msg string) Outcome    { return Outcome{Level: LevelInfo, Message: msg} }
func errorOutcome(msg string) Outcome   { return Outcome{Level: LevelError, Message: msg} }

// Center holds one user's notification cache. The store is the single
// source of truth: the cache is only patched after a remote write has been
// confirmed, and a realtime invalidation replaces it wholesale. Mutations
// that fail remotely leave the cache untouched.
type Center struct {
	store  Store
	userID uuid.UUID
	logger *slog.Logger

	mu    sync.Mutex
	items []model.Notification
	gen   uint64
}

// NewCenter creates an empty Center for the given user.
func NewCenter(store Store, userID uuid.UUID, logger *slog.Logger) *Center {
	return &Center{
		store:  store,
		userID: userID,
		logger: logger,
	}
}

// Load replaces the cache with the store's current rows. Overlapping loads
// are resolved by a generation counter: only the newest load publishes.
func (c *Center) Load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	rows, err := c.store.ListForUser(ctx, c.userID)
	if err != nil {
		return err
	}

	items := make([]model.Notification, 0, len(rows))
	for _, row := range rows {
		n := *row
		n.Priority = model.NormalizePriority(string(n.Priority))
		items = append(items, n)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		c.logger.Debug("discarding stale notification load", "user", c.userID, "generation", gen)
		return nil
	}
	c.items = items
	return nil
}

// Items returns a copy of the cached notifications, newest first.
func (c *Center) Items() []model.Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Notification, len(c.items))
	copy(out, c.items)
	return out
}

// UnreadCount returns the number of cached unread notifications.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unreadLocked()
}

func (c *Center) unreadLocked() int {
	count := 0
	for i := range c.items {
		if !c.items[i].Read {
			count++
		}
	}
	return count
}

// MarkRead marks a single notification as read. The store write gates the
// cache patch: on remote failure the cache is untouched and the outcome
// carries the failure reason.
func (c *Center) MarkRead(ctx context.Context, id uuid.UUID) Outcome {
	c.mu.Lock()
	idx := -1
	for i := range c.items {
		if c.items[i].ID == id {
			idx = i
			break
		}
	}
	c.mu.Unlock()

	if idx == -1 {
		return errorOutcome("notification not found")
	}

	if err := c.store.MarkRead(ctx, id); err != nil {
		c.logger.Error("mark read failed", "user", c.userID, "notification", id, "error", err)
		return errorOutcome("failed to mark notification as read: " + err.Error())
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			break
		}
	}
	c.mu.Unlock()

	return successOutcome("notification marked as read")
}

// MarkAllRead marks every unread notification as read. When nothing is
// unread it performs no remote write and reports an informational outcome,
// so calling it twice in a row is a no-op on the second call.
func (c *Center) MarkAllRead(ctx context.Context) Outcome {
	c.mu.Lock()
	unread := c.unreadLocked()
	c.mu.Unlock()

	if unread == 0 {
		return infoOutcome("all notifications are already read")
	}

	if _, err := c.store.MarkAllRead(ctx, c.userID); err != nil {
		c.logger.Error("mark all read failed", "user", c.userID, "error", err)
		return errorOutcome("failed to mark notifications as read: " + err.Error())
	}

	c.mu.Lock()
	for i := range c.items {
		c.items[i].Read = true
	}
	c.mu.Unlock()

	return successOutcome("all notifications marked as read")
}

// Delete removes a notification. The store delete gates the cache patch.
func (c *Center) Delete(ctx context.Context, id uuid.UUID) Outcome {
	c.mu.Lock()
	found := false
	for i := range c.items {
		if c.items[i].ID == id {
			found = true
			break
		}
	}
	c.mu.Unlock()

	if !found {
		return errorOutcome("notification not found")
	}

	if err := c.store.Delete(ctx, id); err != nil {
		c.logger.Error("delete notification failed", "user", c.userID, "notification", id, "error", err)
		return errorOutcome("failed to delete notification: " + err.Error())
	}

	c.mu.Lock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	c.mu.Unlock()

	return successOutcome("notification deleted")
}
