package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mrcars/backend/internal/model"
)

// Phase is the view's lifecycle state. There are only two: a view is either
// loading or ready, and a mutation never drops it back into Loading.
type Phase string

const (
	PhaseLoading Phase = "loading"
	PhaseReady   Phase = "ready"
)

// Snapshot is one fully assembled dashboard payload.
type Snapshot struct {
	Overview model.Overview        `json:"overview"`
	Series   []model.MonthBucket   `json:"series"`
	Activity []model.ActivityEvent `json:"activity"`
	LoadedAt time.Time             `json:"loaded_at"`
}

// View holds the dashboard's current snapshot and coordinates reloads.
//
// Reloads can be triggered by a mount, a manual refresh, or a realtime
// invalidation signal, and those can overlap. Each reload claims the next
// generation; a finishing reload only publishes its snapshot if it still
// holds the newest generation, so stale in-flight results are discarded
// instead of racing with newer ones.
type View struct {
	agg    *Aggregator
	rec    *Reconciler
	logger *slog.Logger

	mu      sync.Mutex
	phase   Phase
	current Snapshot
	gen     uint64
}

// NewView creates a View in the Loading phase.
func NewView(agg *Aggregator, rec *Reconciler, logger *slog.Logger) *View {
	return &View{
		agg:    agg,
		rec:    rec,
		logger: logger,
		phase:  PhaseLoading,
	}
}

// Refresh runs the full load procedure and returns the published snapshot.
// The overview, series and activity queries run concurrently; none of them
// can fail the load, so the view always transitions back to Ready.
func (v *View) Refresh(ctx context.Context) Snapshot {
	v.mu.Lock()
	v.phase = PhaseLoading
	v.gen++
	gen := v.gen
	v.mu.Unlock()

	snap := Snapshot{LoadedAt: time.Now().UTC()}

	var g errgroup.Group
	g.Go(func() error {
		snap.Overview = v.agg.Overview(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Series = v.agg.MonthlySeries(ctx)
		return nil
	})
	g.Go(func() error {
		snap.Activity = v.rec.Reconcile(ctx)
		return nil
	})
	g.Wait()

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.gen {
		// A newer reload started while this one was in flight.
		v.logger.Debug("discarding stale dashboard snapshot", "generation", gen, "current", v.gen)
		return v.current
	}
	v.current = snap
	v.phase = PhaseReady
	return snap
}

// Current returns the latest published snapshot and the view's phase.
func (v *View) Current() (Snapshot, Phase) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current, v.phase
}
