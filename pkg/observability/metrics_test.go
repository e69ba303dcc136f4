package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}

	assert.NotPanics(t, func() {
		m.Counter(MetricTaskOperations, 1)
		m.Gauge("g", 1)
		m.Histogram("h", 1)
		m.Timing(MetricTaskOperationDuration, time.Second)
	})
}

func TestInMemoryMetrics(t *testing.T) {
	t.Run("counter by tags", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Counter(MetricTaskOperations, 1, T(OperationKey, "add"))
		m.Counter(MetricTaskOperations, 1, T(OperationKey, "delete"))
		m.Counter(MetricTaskOperations, 1, T(OperationKey, "add"))

		assert.Equal(t, int64(2), m.GetCounter(MetricTaskOperations, T(OperationKey, "add")))
		assert.Equal(t, int64(1), m.GetCounter(MetricTaskOperations, T(OperationKey, "delete")))
		assert.Zero(t, m.GetCounter(MetricTaskOperations))
	})

	t.Run("gauge keeps last value", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Gauge("subscribers", 2)
		m.Gauge("subscribers", 3)

		assert.Equal(t, 3.0, m.GetGauge("subscribers"))
	})

	t.Run("histogram and timings append", func(t *testing.T) {
		m := NewInMemoryMetrics()

		m.Histogram("rows", 1)
		m.Histogram("rows", 4)
		m.Timing("latency", time.Millisecond)

		assert.Equal(t, []float64{1, 4}, m.GetHistogram("rows"))
		assert.Len(t, m.GetTimings("latency"), 1)
	})

	t.Run("reset", func(t *testing.T) {
		m := NewInMemoryMetrics()
		m.Counter(MetricTaskChanges, 5)

		m.Reset()

		assert.Zero(t, m.GetCounter(MetricTaskChanges))
	})
}

func TestTimer(t *testing.T) {
	ctx := context.Background()

	t.Run("records success", func(t *testing.T) {
		m := NewInMemoryMetrics()

		StartTimer("add").WithMetrics(m).WithLogger(DiscardLogger()).Stop(ctx, nil)

		tags := []Tag{T(OperationKey, "add"), T(OutcomeKey, OutcomeSuccess)}
		assert.Equal(t, int64(1), m.GetCounter(MetricTaskOperations, tags...))
		assert.Len(t, m.GetTimings(MetricTaskOperationDuration, tags...), 1)
	})

	t.Run("records error outcome", func(t *testing.T) {
		m := NewInMemoryMetrics()

		StartTimer("update").WithMetrics(m).Stop(ctx, errors.New("boom"))

		assert.Equal(t, int64(1), m.GetCounter(MetricTaskOperations,
			T(OperationKey, "update"), T(OutcomeKey, OutcomeError)))
	})

	t.Run("extra tags come first", func(t *testing.T) {
		m := NewInMemoryMetrics()

		StartTimer("list").WithTags(T("store", "sql")).WithMetrics(m).Stop(ctx, nil)
		assert.Equal(t, int64(1), m.GetCounter(MetricTaskOperations,
			T("store", "sql"), T(OperationKey, "list"), T(OutcomeKey, OutcomeSuccess)))
	})
}

func TestHealthRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("empty registry is healthy", func(t *testing.T) {
		h := NewHealthRegistry().GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusHealthy, h.Status)
		assert.Empty(t, h.Checks)
	})

	t.Run("cache failure degrades", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("database", DatabaseHealthChecker(func(context.Context) error { return nil }))
		r.Register("cache", CacheHealthChecker(func(context.Context) error { return errors.New("refused") }))

		h := r.GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusDegraded, h.Status)
		assert.Equal(t, HealthStatusHealthy, h.Checks["database"].Status)
		assert.Contains(t, h.Checks["cache"].Message, "refused")
		assert.ElementsMatch(t, []string{"database", "cache"}, r.Names())
	})

	t.Run("database failure is unhealthy", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("cache", CacheHealthChecker(func(context.Context) error { return errors.New("x") }))
		r.Register("database", DatabaseHealthChecker(func(context.Context) error { return errors.New("down") }))

		assert.Equal(t, HealthStatusUnhealthy, r.GetOverallHealth(ctx).Status)
	})
}
