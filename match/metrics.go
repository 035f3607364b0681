package match

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/milk9111/foodfight/match"

// Metrics mirrors the match counters to OpenTelemetry instruments.
type Metrics struct {
	defeated metric.Int64Counter
	thrown   metric.Int64Counter
	score    metric.Int64Counter
}

// NewMetrics registers the match instruments on provider. A nil provider
// falls back to a no-op one.
func NewMetrics(provider metric.MeterProvider) (*Metrics, error) {
	if provider == nil {
		provider = noop.NewMeterProvider()
	}
	meter := provider.Meter(meterName)

	defeated, err := meter.Int64Counter("foodfight.enemies.defeated",
		metric.WithDescription("Enemies destroyed after being hit"))
	if err != nil {
		return nil, fmt.Errorf("match: enemies counter: %w", err)
	}
	thrown, err := meter.Int64Counter("foodfight.items.thrown",
		metric.WithDescription("Objects released from a player hand"))
	if err != nil {
		return nil, fmt.Errorf("match: thrown counter: %w", err)
	}
	score, err := meter.Int64Counter("foodfight.player.score",
		metric.WithDescription("Points awarded to the player"))
	if err != nil {
		return nil, fmt.Errorf("match: score counter: %w", err)
	}
	return &Metrics{defeated: defeated, thrown: thrown, score: score}, nil
}

func (m *Metrics) enemyDefeated(ctx context.Context) {
	if m == nil {
		return
	}
	m.defeated.Add(ctx, 1)
	m.score.Add(ctx, 1)
}

func (m *Metrics) itemThrown(ctx context.Context) {
	if m == nil {
		return
	}
	m.thrown.Add(ctx, 1)
}
