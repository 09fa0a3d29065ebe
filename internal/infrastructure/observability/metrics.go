package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rezkam/focusboard/internal/domain"
)

// MeterName scopes every focusboard instrument.
const MeterName = "focusboard"

// Metrics records board and timer events as OpenTelemetry instruments.
// It satisfies board.Recorder and timer.Recorder.
type Metrics struct {
	moved     metric.Int64Counter
	cascaded  metric.Int64Counter
	completed metric.Int64Counter
	reported  metric.Int64Histogram
}

// NewMetrics creates the instruments on the given provider.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	meter := mp.Meter(MeterName)

	moved, err := meter.Int64Counter("focusboard.tasks.moved",
		metric.WithDescription("Tasks moved between columns"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create moved counter: %w", err)
	}

	cascaded, err := meter.Int64Counter("focusboard.tasks.cascaded",
		metric.WithDescription("Tasks displaced by column limits"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cascaded counter: %w", err)
	}

	completed, err := meter.Int64Counter("focusboard.timer.completed",
		metric.WithDescription("Pomodoro sessions that ran to zero"),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create completed counter: %w", err)
	}

	reported, err := meter.Int64Histogram("focusboard.timer.reported_seconds",
		metric.WithDescription("Focus time credited to tasks"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create reported histogram: %w", err)
	}

	return &Metrics{
		moved:     moved,
		cascaded:  cascaded,
		completed: completed,
		reported:  reported,
	}, nil
}

func (m *Metrics) TaskMoved(ctx context.Context, status domain.TaskStatus) {
	m.moved.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
}

func (m *Metrics) TasksCascaded(ctx context.Context, count int) {
	if count <= 0 {
		return
	}
	m.cascaded.Add(ctx, int64(count))
}

func (m *Metrics) TimerCompleted(ctx context.Context, _ int) {
	m.completed.Add(ctx, 1)
}

func (m *Metrics) TimeReported(ctx context.Context, seconds int) {
	if seconds <= 0 {
		return
	}
	m.reported.Record(ctx, int64(seconds))
}
