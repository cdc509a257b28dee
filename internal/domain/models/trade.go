package models

import "time"

// TradeSide is the direction of the opening order.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// ExitReason tags why a backtested position was closed.
type ExitReason string

const (
	ExitTakeProfit ExitReason = "take_profit"
	ExitStopLoss   ExitReason = "stop_loss"
	ExitSignal     ExitReason = "signal_exit"
	ExitTime       ExitReason = "time_exit"
)

// Trade is one closed position from a backtest run. Produced by the external
// simulator, consumed read-only.
type Trade struct {
	Symbol        string
	Side          TradeSide
	Quantity      float64
	EntryPrice    float64
	ExecutedPrice float64
	RealizedPL    float64 // currency units
	RealizedPLPct float64 // whole-number percent
	HoldingBars   int
	ExitReason    ExitReason
	ClosedAt      time.Time
}

// EquityCurvePoint is one timestamped portfolio snapshot.
// Invariants: HighWaterMark is non-decreasing and equals the max TotalEquity
// seen so far; Drawdown = TotalEquity - HighWaterMark <= 0.
type EquityCurvePoint struct {
	Timestamp     time.Time
	Cash          float64
	StockValue    float64
	TotalEquity   float64
	HighWaterMark float64
	Drawdown      float64
	DrawdownPct   float64 // whole-number percent, <= 0
}

// PerformanceMetrics is the statistics battery for one backtest run.
// Recomputed from scratch on every call; never persisted by the analytics
// component itself.
//
// SharpeRatio, SortinoRatio, ValueAtRisk95 and CVaR95 are nil when undefined
// (fewer than two period returns, zero volatility, or no downside returns for
// Sortino) and serialize as JSON null. ProfitFactor is capped at a finite
// sentinel when there are wins and no losses.
type PerformanceMetrics struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"` // percent
	AvgWinPct     float64 `json:"avg_win_pct"`
	AvgLossPct    float64 `json:"avg_loss_pct"`
	ProfitFactor  float64 `json:"profit_factor"`
	Expectancy    float64 `json:"expectancy"` // currency per trade

	InitialCash    float64 `json:"initial_cash"`
	FinalEquity    float64 `json:"final_equity"`
	TotalReturn    float64 `json:"total_return"`
	TotalReturnPct float64 `json:"total_return_pct"`

	SharpeRatio   *float64 `json:"sharpe_ratio"`
	SortinoRatio  *float64 `json:"sortino_ratio"`
	ValueAtRisk95 *float64 `json:"value_at_risk_95"` // historical 5th-percentile per-bar return, percent
	CVaR95        *float64 `json:"cvar_95"`          // mean return at or below the VaR cutoff, percent

	MaxDrawdownPct  float64   `json:"max_drawdown_pct"` // <= 0
	MaxDrawdownDate time.Time `json:"max_drawdown_date"`
	AvgDrawdownPct  float64   `json:"avg_drawdown_pct"`
}
