package observability

import (
	"context"
	"log/slog"
	"time"
)

// Outcome values attached to operation metrics.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Timer measures one task operation and records it on Stop.
type Timer struct {
	operation string
	start     time.Time
	logger    *slog.Logger
	metrics   Metrics
	tags      []Tag
}

// StartTimer starts timing the named operation.
func StartTimer(operation string) *Timer {
	return &Timer{operation: operation, start: time.Now()}
}

// WithLogger logs a debug line on success and an error line on failure.
func (t *Timer) WithLogger(logger *slog.Logger) *Timer {
	t.logger = logger
	return t
}

func (t *Timer) WithMetrics(metrics Metrics) *Timer {
	t.metrics = metrics
	return t
}

func (t *Timer) WithTags(tags ...Tag) *Timer {
	t.tags = append(t.tags, tags...)
	return t
}

// Stop records the operation with an outcome derived from err.
func (t *Timer) Stop(ctx context.Context, err error) time.Duration {
	d := time.Since(t.start)

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}

	if t.logger != nil {
		if err != nil {
			t.logger.ErrorContext(ctx, "task operation failed",
				OperationKey, t.operation,
				DurationKey, d.Milliseconds(),
				ErrorKey, err,
			)
		} else {
			t.logger.DebugContext(ctx, "task operation completed",
				OperationKey, t.operation,
				DurationKey, d.Milliseconds(),
			)
		}
	}

	if t.metrics != nil {
		tags := make([]Tag, 0, len(t.tags)+2)
		tags = append(tags, t.tags...)
		tags = append(tags, T(OperationKey, t.operation), T(OutcomeKey, outcome))
		t.metrics.Counter(MetricTaskOperations, 1, tags...)
		t.metrics.Timing(MetricTaskOperationDuration, d, tags...)
	}

	return d
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
