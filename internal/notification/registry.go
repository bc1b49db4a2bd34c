package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry hands out one Center per signed-in admin and fans realtime
// invalidation signals out to all of them.
type Registry struct {
	store  Store
	logger *slog.Logger

	mu      sync.Mutex
	centers map[uuid.UUID]*Center
}

// NewRegistry creates an empty Registry backed by the given store.
func NewRegistry(store Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:   store,
		logger:  logger,
		centers: make(map[uuid.UUID]*Center),
	}
}

// For returns the user's Center, creating and loading it on first access.
func (r *Registry) For(ctx context.Context, userID uuid.UUID) (*Center, error) {
	r.mu.Lock()
	center, ok := r.centers[userID]
	if !ok {
		center = NewCenter(r.store, userID, r.logger)
		r.centers[userID] = center
	}
	r.mu.Unlock()

	if !ok {
		if err := center.Load(ctx); err != nil {
			return nil, err
		}
	}
	return center, nil
}

// InvalidateAll reloads every active Center in response to a realtime
// change signal. Reload failures are logged; the stale cache stays in
// place until the next successful load.
func (r *Registry) InvalidateAll() {
	r.mu.Lock()
	centers := make([]*Center, 0, len(r.centers))
	for _, c := range r.centers {
		centers = append(centers, c)
	}
	r.mu.Unlock()

	for _, center := range centers {
		center := center
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := center.Load(ctx); err != nil {
				r.logger.Error("notification reload failed", "user", center.userID, "error", err)
			}
		}()
	}
}

// Drop removes a user's Center, releasing its cache.
func (r *Registry) Drop(userID uuid.UUID) {
	r.mu.Lock()
	delete(r.centers, userID)
	r.mu.Unlock()
}
