package engine

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "frontline-server/internal/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics - счетчики симуляции. Без установленного MeterProvider
// все инструменты no-op.
type Metrics struct {
	ticks        metric.Int64Counter
	shots        metric.Int64Counter
	hits         metric.Int64Counter
	destroyed    metric.Int64Counter
	objectives   metric.Int64Counter
	tickDuration metric.Float64Histogram
}

// NewMetrics регистрирует инструменты в глобальном MeterProvider.
func NewMetrics() (*Metrics, error) {
	m := meter()
	var (
		out Metrics
		err error
	)

	if out.ticks, err = m.Int64Counter(
		"frontline.ticks",
		metric.WithDescription("Simulation ticks executed"),
	); err != nil {
		return nil, fmt.Errorf("create ticks counter: %w", err)
	}
	if out.shots, err = m.Int64Counter(
		"frontline.shots",
		metric.WithDescription("Projectiles fired"),
	); err != nil {
		return nil, fmt.Errorf("create shots counter: %w", err)
	}
	if out.hits, err = m.Int64Counter(
		"frontline.hits",
		metric.WithDescription("Shots resolved as hits at fire time"),
	); err != nil {
		return nil, fmt.Errorf("create hits counter: %w", err)
	}
	if out.destroyed, err = m.Int64Counter(
		"frontline.units_destroyed",
		metric.WithDescription("Units destroyed"),
	); err != nil {
		return nil, fmt.Errorf("create destroyed counter: %w", err)
	}
	if out.objectives, err = m.Int64Counter(
		"frontline.objectives_completed",
		metric.WithDescription("Objectives completed"),
	); err != nil {
		return nil, fmt.Errorf("create objectives counter: %w", err)
	}
	if out.tickDuration, err = m.Float64Histogram(
		"frontline.tick_duration",
		metric.WithDescription("Wall time spent in one simulation step"),
		metric.WithUnit("ms"),
	); err != nil {
		return nil, fmt.Errorf("create tick duration histogram: %w", err)
	}
	return &out, nil
}

// tickStats - что случилось за один шаг.
type tickStats struct {
	shots, hits, objectives int
	destroyedAllied         int
	destroyedAxis           int
	wallMs                  float64
}

func (m *Metrics) record(ctx context.Context, scenario string, st tickStats) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("scenario", scenario))

	m.ticks.Add(ctx, 1, attrs)
	m.tickDuration.Record(ctx, st.wallMs, attrs)
	if st.shots > 0 {
		m.shots.Add(ctx, int64(st.shots), attrs)
	}
	if st.hits > 0 {
		m.hits.Add(ctx, int64(st.hits), attrs)
	}
	if st.destroyedAllied > 0 {
		m.destroyed.Add(ctx, int64(st.destroyedAllied),
			metric.WithAttributes(attribute.String("scenario", scenario), attribute.String("faction", "allied")))
	}
	if st.destroyedAxis > 0 {
		m.destroyed.Add(ctx, int64(st.destroyedAxis),
			metric.WithAttributes(attribute.String("scenario", scenario), attribute.String("faction", "axis")))
	}
	if st.objectives > 0 {
		m.objectives.Add(ctx, int64(st.objectives), attrs)
	}
}
