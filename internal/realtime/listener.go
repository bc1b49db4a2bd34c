// Package realtime delivers collection-change invalidation signals: a
// Postgres LISTEN/NOTIFY listener fans generic "row changed" signals out to
// in-process subscribers and to connected admin UI clients.
package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

// Signal is an opaque invalidation token: the named collection changed and
// any cached projection of it must be reloaded in full. It carries no diff.
type Signal struct {
	Collection string `json:"collection"`
}

// Listener subscribes to Postgres notification channels, one per watched
// collection, and republishes every notification as a Signal.
type Listener struct {
	dsn            string
	collections    []string
	reconnectDelay time.Duration
	logger         *slog.Logger

	mu     sync.Mutex
	subs   map[int]chan Signal
	nextID int
	cancel context.CancelFunc
	done   chan struct{}
}

// NewListener creates a Listener watching the given collections. Each
// collection name doubles as the NOTIFY channel written by row triggers.
func NewListener(dsn string, collections []string, reconnectDelay time.Duration, logger *slog.Logger) *Listener {
	if reconnectDelay <= 0 {
		reconnectDelay = 5 * time.Second
	}
	return &Listener{
		dsn:            dsn,
		collections:    collections,
		reconnectDelay: reconnectDelay,
		logger:         logger,
		subs:           make(map[int]chan Signal),
	}
}

// Start begins listening in the background. The listener reconnects after
// connection failures until Stop is called or the context is cancelled.
func (l *Listener) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.done = make(chan struct{})

	go func() {
		defer close(l.done)
		for {
			if err := l.listen(ctx); err != nil && ctx.Err() == nil {
				l.logger.Error("realtime listener disconnected", "error", err)
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(l.reconnectDelay):
			}
		}
	}()
}

// Stop cancels the subscription and waits for the background loop to exit.
func (l *Listener) Stop() {
	if l.cancel == nil {
		return
	}
	l.cancel()
	<-l.done
}

// Subscribe returns a channel of Signals and a cancel function. Slow
// subscribers drop signals rather than block the listener; a dropped
// signal is harmless because the reaction is always a full reload.
func (l *Listener) Subscribe() (<-chan Signal, func()) {
	ch := make(chan Signal, 16)

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.subs[id] = ch
	l.mu.Unlock()

	cancel := func() {
		l.mu.Lock()
		if _, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(ch)
		}
		l.mu.Unlock()
	}
	return ch, cancel
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := pgx.Connect(ctx, l.dsn)
	if err != nil {
		return err
	}
	defer conn.Close(context.Background())

	for _, collection := range l.collections {
		if _, err := conn.Exec(ctx, "LISTEN "+pgx.Identifier{collection}.Sanitize()); err != nil {
			return err
		}
	}
	l.logger.Info("realtime listener connected", "collections", l.collections)

	for {
		notification, err := conn.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.publish(Signal{Collection: notification.Channel})
	}
}

func (l *Listener) publish(sig Signal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- sig:
		default:
		}
	}
}
