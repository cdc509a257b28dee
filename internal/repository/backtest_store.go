package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"BotFolio/internal/domain/models"
	"BotFolio/internal/domain/repository"
)

// ClickHouseBacktestStore implements BacktestStore for ClickHouse.
type ClickHouseBacktestStore struct {
	db    *sql.DB
	table string
}

// NewClickHouseBacktestStore creates ClickHouse backtest metrics storage.
func NewClickHouseBacktestStore(db *sql.DB, table string) repository.BacktestStore {
	return &ClickHouseBacktestStore{db: db, table: table}
}

const insertMetricsQuery = `INSERT INTO %s
	(run_id, computed_at, total_trades, winning_trades, losing_trades, win_rate,
	 avg_win_pct, avg_loss_pct, profit_factor, expectancy,
	 initial_cash, final_equity, total_return, total_return_pct,
	 sharpe_ratio, sortino_ratio, var_95, cvar_95,
	 max_drawdown_pct, max_drawdown_date, avg_drawdown_pct)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

func (s *ClickHouseBacktestStore) StoreMetrics(ctx context.Context, runID string, m *models.PerformanceMetrics) error {
	if runID == "" {
		return fmt.Errorf("run id empty")
	}
	q := fmt.Sprintf(insertMetricsQuery, s.table)
	_, err := s.db.ExecContext(ctx, q,
		runID,
		time.Now().UTC(),
		m.TotalTrades,
		m.WinningTrades,
		m.LosingTrades,
		m.WinRate,
		m.AvgWinPct,
		m.AvgLossPct,
		m.ProfitFactor,
		m.Expectancy,
		m.InitialCash,
		m.FinalEquity,
		m.TotalReturn,
		m.TotalReturnPct,
		nullableFloat(m.SharpeRatio),
		nullableFloat(m.SortinoRatio),
		nullableFloat(m.ValueAtRisk95),
		nullableFloat(m.CVaR95),
		m.MaxDrawdownPct,
		m.MaxDrawdownDate,
		m.AvgDrawdownPct,
	)
	return err
}

func (s *ClickHouseBacktestStore) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseBacktestStore) Close() error {
	return nil // Managed by pkg
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
