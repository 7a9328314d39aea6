package livequery

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"cnkcrm/internal/observability/metrics"
)

var ErrNoTables = errors.New("live query must watch at least one table")

// QueryFunc reads the current result of a live query.
type QueryFunc[T any] func(ctx context.Context) (T, error)

// Subscription holds the latest result of a query and refreshes it after
// every committed write to one of its tables.
type Subscription[T any] struct {
	hub    *Hub
	tables []string
	query  QueryFunc[T]
	log    *zap.Logger
	l      *listener

	mu      sync.RWMutex
	current T
	err     error
	version uint64

	updates chan T
	cancel  context.CancelFunc
	done    chan struct{}
}

type Option func(*options)

type options struct {
	log *zap.Logger
}

func WithLogger(log *zap.Logger) Option {
	return func(o *options) { o.log = log }
}

// Watch runs query once and keeps it fresh until ctx ends or Close is called.
// The change listener is registered before the first read, so the initial
// result is never older than the moment Watch was called.
func Watch[T any](ctx context.Context, hub *Hub, query QueryFunc[T], tables []string, opts ...Option) (*Subscription[T], error) {
	if len(tables) == 0 {
		return nil, ErrNoTables
	}
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Subscription[T]{
		hub:     hub,
		tables:  append([]string(nil), tables...),
		query:   query,
		log:     o.log,
		updates: make(chan T, 1),
		done:    make(chan struct{}),
	}
	s.l = hub.register(s.tables)

	initial, err := query(ctx)
	if err != nil {
		hub.unregister(s.l, s.tables)
		return nil, err
	}
	s.current = initial

	ctx, s.cancel = context.WithCancel(ctx)
	metrics.SubscriptionOpened()
	go s.run(ctx)
	return s, nil
}

// Current returns the latest successfully read result.
func (s *Subscription[T]) Current() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Err returns the error of the most recent refresh, nil after a successful one.
func (s *Subscription[T]) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.err
}

// Version counts successful refreshes after the initial read.
func (s *Subscription[T]) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Updates delivers refreshed results. Only the newest undelivered result is
// kept; the channel is closed when the subscription stops.
func (s *Subscription[T]) Updates() <-chan T {
	return s.updates
}

// Close stops refreshing and waits for the refresh loop to exit.
func (s *Subscription[T]) Close() {
	s.cancel()
	<-s.done
}

func (s *Subscription[T]) run(ctx context.Context) {
	defer func() {
		s.hub.unregister(s.l, s.tables)
		close(s.updates)
		metrics.SubscriptionClosed()
		close(s.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.l.dirty:
			s.refresh(ctx)
		}
	}
}

func (s *Subscription[T]) refresh(ctx context.Context) {
	result, err := s.query(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		metrics.ObserveLiveRefresh("error")
		s.log.Warn("live query refresh failed", zap.Strings("tables", s.tables), zap.Error(err))
		s.mu.Lock()
		s.err = err
		s.mu.Unlock()
		return
	}

	s.mu.Lock()
	s.current = result
	s.err = nil
	s.version++
	s.mu.Unlock()
	metrics.ObserveLiveRefresh("ok")

	select {
	case <-s.updates:
	default:
	}
	s.updates <- result
}
