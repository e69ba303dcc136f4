package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chrisracha/blazor-todo/pkg/observability"
)

// Signal is an in-process, zero-argument change notification.
// Subscribers run synchronously on the goroutine that calls Fire.
type Signal struct {
	name    string
	logger  *slog.Logger
	metrics observability.Metrics

	mu     sync.RWMutex
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id uint64
	fn func()
}

// SignalOption configures a Signal.
type SignalOption func(*Signal)

// WithSignalLogger sets the logger used to report panicking subscribers.
func WithSignalLogger(logger *slog.Logger) SignalOption {
	return func(s *Signal) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithSignalMetrics counts every Fire under observability.MetricTaskChanges.
func WithSignalMetrics(metrics observability.Metrics) SignalOption {
	return func(s *Signal) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewSignal creates a signal with no subscribers.
func NewSignal(name string, opts ...SignalOption) *Signal {
	s := &Signal{
		name:    name,
		logger:  slog.Default(),
		metrics: observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe registers fn and returns a function that removes it again.
// Calling the returned function more than once has no further effect.
func (s *Signal) Subscribe(fn func()) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscription{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *Signal) remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sub := range s.subs {
		if sub.id == id {
			s.subs = append(s.subs[:i:i], s.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of current subscribers.
func (s *Signal) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.subs)
}

// Fire invokes every subscriber registered at the time of the call, in
// subscription order. A panicking subscriber is logged and skipped.
func (s *Signal) Fire(ctx context.Context) {
	s.mu.RLock()
	snapshot := make([]subscription, len(s.subs))
	copy(snapshot, s.subs)
	s.mu.RUnlock()

	s.metrics.Counter(observability.MetricTaskChanges, 1, observability.T("signal", s.name))

	for _, sub := range snapshot {
		s.invoke(ctx, sub)
	}

	s.logger.DebugContext(ctx, "signal fired",
		"signal", s.name,
		"subscribers", len(snapshot),
	)
}

func (s *Signal) invoke(ctx context.Context, sub subscription) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.ErrorContext(ctx, "signal subscriber panicked",
				"signal", s.name,
				"subscription", sub.id,
				"error", fmt.Sprint(r),
			)
		}
	}()
	sub.fn()
}
