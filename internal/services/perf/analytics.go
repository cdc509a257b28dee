package perf

import (
	"math"
	"sort"
	"time"

	"BotFolio/internal/domain/models"
)

// DefaultAnnualization is the trading-day count used to annualize per-bar
// return statistics when the config does not override it.
const DefaultAnnualization = 252

// DefaultProfitFactorCap is the finite sentinel reported when a run has
// gross profit and zero gross loss. Kept finite so metrics stay JSON-safe.
const DefaultProfitFactorCap = 9999.0

// Options tune the statistics battery. Zero values select the defaults.
type Options struct {
	AnnualizationFactor float64 // bars per year for Sharpe/Sortino scaling
	RiskFreeRate        float64 // per-bar risk-free rate, default 0
	ProfitFactorCap     float64 // sentinel for the no-loss case
}

// Analytics computes the performance battery for one backtest run. It is a
// pure function of its inputs: no storage or network access, never errors,
// degrades to documented sentinel values on degenerate input.
type Analytics struct {
	annualization float64
	riskFree      float64
	pfCap         float64
}

func New(opts Options) *Analytics {
	a := &Analytics{
		annualization: opts.AnnualizationFactor,
		riskFree:      opts.RiskFreeRate,
		pfCap:         opts.ProfitFactorCap,
	}
	if a.annualization <= 0 {
		a.annualization = DefaultAnnualization
	}
	if a.pfCap <= 0 {
		a.pfCap = DefaultProfitFactorCap
	}
	return a
}

// Compute derives the full metrics record from a closed trade list and a
// chronological equity curve. O(n) in trades and O(m) in curve length.
// initialCash is the equity baseline; when it is zero and the curve is
// non-empty, the first point's total equity is used instead.
func (a *Analytics) Compute(initialCash float64, trades []models.Trade, curve []models.EquityCurvePoint) models.PerformanceMetrics {
	m := models.PerformanceMetrics{}

	// Trade statistics in one pass. Break-even trades count in neither
	// the winning nor the losing bucket.
	var grossProfit, grossLoss, sumPL float64
	var sumWinPct, sumLossPct float64
	for _, t := range trades {
		sumPL += t.RealizedPL
		switch {
		case t.RealizedPL > 0:
			m.WinningTrades++
			grossProfit += t.RealizedPL
			sumWinPct += t.RealizedPLPct
		case t.RealizedPL < 0:
			m.LosingTrades++
			grossLoss += -t.RealizedPL
			sumLossPct += t.RealizedPLPct
		}
	}
	m.TotalTrades = len(trades)
	if m.TotalTrades > 0 {
		m.WinRate = float64(m.WinningTrades) / float64(m.TotalTrades) * 100
		m.Expectancy = sumPL / float64(m.TotalTrades)
	}
	if m.WinningTrades > 0 {
		m.AvgWinPct = sumWinPct / float64(m.WinningTrades)
	}
	if m.LosingTrades > 0 {
		m.AvgLossPct = sumLossPct / float64(m.LosingTrades)
	}
	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossProfit / grossLoss
		if m.ProfitFactor > a.pfCap {
			m.ProfitFactor = a.pfCap
		}
	case grossProfit > 0:
		m.ProfitFactor = a.pfCap
	}

	if initialCash <= 0 && len(curve) > 0 {
		initialCash = curve[0].TotalEquity
	}
	m.InitialCash = initialCash
	m.FinalEquity = initialCash
	if len(curve) > 0 {
		m.FinalEquity = curve[len(curve)-1].TotalEquity
	}
	m.TotalReturn = m.FinalEquity - initialCash
	if initialCash > 0 {
		m.TotalReturnPct = m.TotalReturn / initialCash * 100
	}

	a.computeCurveStats(&m, curve)
	return m
}

// computeCurveStats fills drawdown and risk-adjusted return fields. The
// high-water mark and drawdowns are re-derived from TotalEquity rather than
// trusted from the input points, which keeps the invariant
// hwm[i] = max(hwm[i-1], equity[i]) independent of the producer.
func (a *Analytics) computeCurveStats(m *models.PerformanceMetrics, curve []models.EquityCurvePoint) {
	if len(curve) == 0 {
		return
	}

	var (
		hwm      float64
		minDDPct float64
		minDDAt  time.Time
		sumDDPct float64
		ddCount  int
		sumRet   float64
		sumRetSq float64
		sumNegSq float64
		negCount int
	)
	rets := make([]float64, 0, len(curve)-1)

	for i, p := range curve {
		if p.TotalEquity > hwm {
			hwm = p.TotalEquity
		}
		if hwm > 0 {
			ddPct := (p.TotalEquity - hwm) / hwm * 100
			if ddPct < 0 {
				sumDDPct += ddPct
				ddCount++
			}
			// first occurrence wins on ties
			if ddPct < minDDPct {
				minDDPct = ddPct
				minDDAt = p.Timestamp
			}
		}
		if i > 0 && curve[i-1].TotalEquity > 0 {
			r := (p.TotalEquity - curve[i-1].TotalEquity) / curve[i-1].TotalEquity
			sumRet += r
			sumRetSq += r * r
			if r < 0 {
				sumNegSq += r * r
				negCount++
			}
			rets = append(rets, r)
		}
	}

	m.MaxDrawdownPct = minDDPct
	m.MaxDrawdownDate = minDDAt
	if ddCount > 0 {
		m.AvgDrawdownPct = sumDDPct / float64(ddCount)
	}

	if len(rets) < 2 {
		return
	}
	n := float64(len(rets))
	mean := sumRet / n
	// sample standard deviation
	variance := (sumRetSq - n*mean*mean) / (n - 1)
	if variance < 0 {
		variance = 0
	}
	stdev := math.Sqrt(variance)
	scale := math.Sqrt(a.annualization)
	if stdev > 0 {
		sharpe := (mean - a.riskFree) / stdev * scale
		m.SharpeRatio = &sharpe
	}
	if negCount > 0 {
		downside := math.Sqrt(sumNegSq / float64(negCount))
		if downside > 0 {
			sortino := (mean - a.riskFree) / downside * scale
			m.SortinoRatio = &sortino
		}
	}

	// Historical VaR/CVaR at 95% over per-bar returns, in percent.
	sorted := append([]float64(nil), rets...)
	sort.Float64s(sorted)
	idx := int(0.05 * n)
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	v := sorted[idx] * 100
	m.ValueAtRisk95 = &v
	var tail float64
	for _, r := range sorted[:idx+1] {
		tail += r
	}
	cv := tail / float64(idx+1) * 100
	m.CVaR95 = &cv
}
