package usecase

import (
	"context"
	"fmt"
	"time"

	"BotFolio/internal/domain/models"
	drepo "BotFolio/internal/domain/repository"
)

// Invalidator is implemented by caches that must drop stale rankings when
// new signals arrive.
type Invalidator interface {
	Invalidate()
}

// SignalIngestor validates and persists market signals.
type SignalIngestor struct {
	store   drepo.SignalStore
	metrics drepo.Metrics
	cache   Invalidator
}

// NewSignalIngestor creates a new SignalIngestor instance. cache may be nil
// when no ranking cache needs invalidation on ingest.
func NewSignalIngestor(store drepo.SignalStore, metrics drepo.Metrics, cache Invalidator) *SignalIngestor {
	return &SignalIngestor{store: store, metrics: metrics, cache: cache}
}

// Ingest persists a single signal. The ranking cache is invalidated on
// success so the next opportunities read sees the new event.
func (p *SignalIngestor) Ingest(ctx context.Context, s *models.Signal) error {
	if s == nil {
		return fmt.Errorf("signal is nil")
	}
	if s.Symbol == "" {
		return fmt.Errorf("signal symbol empty")
	}

	start := time.Now()
	if err := p.store.Store(ctx, s); err != nil {
		p.metrics.RecordError("ingest")
		return fmt.Errorf("ingest signal: %w", err)
	}

	p.metrics.RecordSignalIngested(s.Source, string(s.Type))
	p.metrics.RecordLatency("ingest", time.Since(start).Seconds())
	if p.cache != nil {
		p.cache.Invalidate()
	}
	return nil
}

// IngestBatch persists multiple signals in one storage round trip.
func (p *SignalIngestor) IngestBatch(ctx context.Context, signals []*models.Signal) error {
	if len(signals) == 0 {
		return nil
	}

	start := time.Now()
	if err := p.store.StoreBatch(ctx, signals); err != nil {
		p.metrics.RecordError("ingest_batch")
		return fmt.Errorf("ingest batch: %w", err)
	}

	for _, s := range signals {
		p.metrics.RecordSignalIngested(s.Source, string(s.Type))
	}
	p.metrics.RecordLatency("ingest_batch", time.Since(start).Seconds())
	if p.cache != nil {
		p.cache.Invalidate()
	}
	return nil
}

// Close closes underlying resources if available.
func (p *SignalIngestor) Close() {
	if p.store != nil {
		_ = p.store.Close()
	}
}
