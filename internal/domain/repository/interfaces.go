package repository

import (
	"context"
	"time"

	"BotFolio/internal/domain/models"
)

// MarketStream is a live feed of raw market events (analyst ratings, insider
// transactions, volume spikes) already mapped to the Signal shape.
type MarketStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.Signal, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// SignalStore persists market signals and serves the aggregation window.
type SignalStore interface {
	Store(ctx context.Context, s *models.Signal) error
	StoreBatch(ctx context.Context, signals []*models.Signal) error
	// RecentSignals returns all signals with an event date on or after cutoff,
	// plus signals whose event date is unparsable (they decay with the
	// documented fallback factor instead of being excluded).
	RecentSignals(ctx context.Context, cutoff time.Time, limit int) ([]models.Signal, error)
	Health(ctx context.Context) error
	Close() error
}

// BacktestStore persists computed metrics per backtest run.
type BacktestStore interface {
	StoreMetrics(ctx context.Context, runID string, m *models.PerformanceMetrics) error
	Health(ctx context.Context) error
	Close() error
}

// Publisher pushes ranked opportunity snapshots downstream.
type Publisher interface {
	PublishOpportunities(ctx context.Context, opps []models.InvestmentOpportunity) error
	Close() error
}

type Metrics interface {
	RecordSignalIngested(source string, signalType string)
	RecordError(kind string)
	RecordTopScore(symbol string, score float64)
	RecordLatency(op string, seconds float64)
}
