package usecase

import (
	"context"
	"fmt"
	"time"

	"BotFolio/internal/domain/models"
	domrepo "BotFolio/internal/domain/repository"
	"BotFolio/internal/services/perf"
)

// BacktestAnalyzer computes the metrics battery for a backtest run and
// optionally persists the result. Computation itself never fails; only
// persistence can.
type BacktestAnalyzer struct {
	analytics *perf.Analytics
	store     domrepo.BacktestStore
	metrics   domrepo.Metrics
}

func NewBacktestAnalyzer(analytics *perf.Analytics, store domrepo.BacktestStore, metrics domrepo.Metrics) *BacktestAnalyzer {
	return &BacktestAnalyzer{analytics: analytics, store: store, metrics: metrics}
}

// Analyze derives metrics from one run's trades and equity curve. With
// persist=true the result is also written to the backtest store; a failed
// write surfaces as the error while the computed metrics are still returned.
func (a *BacktestAnalyzer) Analyze(ctx context.Context, req models.BacktestMetricsRequest) (*models.PerformanceMetrics, error) {
	start := time.Now()
	m := a.analytics.Compute(req.InitialCash, req.Trades, req.EquityCurve)
	a.metrics.RecordLatency("backtest_analyze", time.Since(start).Seconds())

	if !req.Persist {
		return &m, nil
	}
	if a.store == nil {
		return &m, fmt.Errorf("persist requested but no backtest store configured")
	}
	if err := a.store.StoreMetrics(ctx, req.RunID, &m); err != nil {
		a.metrics.RecordError("backtest_store")
		return &m, fmt.Errorf("store metrics: %w", err)
	}
	return &m, nil
}
