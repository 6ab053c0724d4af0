package server

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/tomz197/arcade/internal/loop/server"

// Metrics holds the OTel instruments for game sessions. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	sessions  metric.Int64UpDownCounter
	gamesOver metric.Int64Counter
	kills     metric.Int64Counter
	pickups   metric.Int64Counter
}

// NewMetrics creates the instruments on the global meter provider, which
// is a no-op unless the host installs an SDK.
func NewMetrics() (*Metrics, error) {
	m := otel.Meter(instrumentationName)
	var (
		out Metrics
		err error
	)

	out.sessions, err = m.Int64UpDownCounter(
		"arcade.sessions.active",
		metric.WithDescription("Game sessions currently open"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating sessions counter: %w", err)
	}

	out.gamesOver, err = m.Int64Counter(
		"arcade.games.over",
		metric.WithDescription("Games that ended with an enemy breaking through"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating games over counter: %w", err)
	}

	out.kills, err = m.Int64Counter(
		"arcade.enemies.killed",
		metric.WithDescription("Enemies destroyed, by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating kills counter: %w", err)
	}

	out.pickups, err = m.Int64Counter(
		"arcade.powerups.collected",
		metric.WithDescription("Power-ups collected, by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating pickups counter: %w", err)
	}

	return &out, nil
}

func (m *Metrics) record(ev SessionEvent) {
	if m == nil {
		return
	}
	ctx := context.Background()
	switch ev.Kind {
	case SessionOver:
		m.gamesOver.Add(ctx, 1)
	case EnemyKilled:
		m.kills.Add(ctx, 1, metric.WithAttributes(attribute.String("type", ev.Enemy.String())))
	case PowerUpCollected:
		m.pickups.Add(ctx, 1, metric.WithAttributes(attribute.String("type", ev.PowerUp.String())))
	}
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.sessions.Add(context.Background(), 1)
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.sessions.Add(context.Background(), -1)
	}
}
