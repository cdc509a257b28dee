package perf

import (
	"math"
	"testing"
	"time"

	"BotFolio/internal/domain/models"
)

func approx(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol
}

func curveFrom(start time.Time, equities ...float64) []models.EquityCurvePoint {
	points := make([]models.EquityCurvePoint, len(equities))
	for i, e := range equities {
		points[i] = models.EquityCurvePoint{
			Timestamp:   start.Add(time.Duration(i) * 24 * time.Hour),
			TotalEquity: e,
		}
	}
	return points
}

func TestComputeTradeStats(t *testing.T) {
	trades := []models.Trade{
		{RealizedPL: 47.95, RealizedPLPct: 4.8},
		{RealizedPL: 97.90, RealizedPLPct: 9.8},
		{RealizedPL: -31.97, RealizedPLPct: -3.2},
		{RealizedPL: 67.93, RealizedPLPct: 6.8},
		{RealizedPL: -21.98, RealizedPLPct: -2.2},
	}

	m := New(Options{}).Compute(10000, trades, nil)

	if m.TotalTrades != 5 || m.WinningTrades != 3 || m.LosingTrades != 2 {
		t.Fatalf("counts = %d/%d/%d, want 5/3/2", m.TotalTrades, m.WinningTrades, m.LosingTrades)
	}
	if !approx(m.WinRate, 60.0, 1e-9) {
		t.Fatalf("WinRate = %v, want 60.0", m.WinRate)
	}
	if !approx(m.ProfitFactor, 213.78/53.95, 1e-9) {
		t.Fatalf("ProfitFactor = %v, want %v", m.ProfitFactor, 213.78/53.95)
	}
	if !approx(m.Expectancy, 31.966, 1e-3) {
		t.Fatalf("Expectancy = %v, want 31.966", m.Expectancy)
	}
	if !approx(m.AvgWinPct, (4.8+9.8+6.8)/3, 1e-9) {
		t.Fatalf("AvgWinPct = %v", m.AvgWinPct)
	}
	if !approx(m.AvgLossPct, (-3.2-2.2)/2, 1e-9) {
		t.Fatalf("AvgLossPct = %v", m.AvgLossPct)
	}
}

func TestComputeEmptyInputs(t *testing.T) {
	m := New(Options{}).Compute(0, nil, nil)

	if m.TotalTrades != 0 || m.WinRate != 0 || m.ProfitFactor != 0 || m.Expectancy != 0 {
		t.Fatalf("zero-input metrics not zeroed: %+v", m)
	}
	if m.SharpeRatio != nil || m.SortinoRatio != nil {
		t.Fatalf("Sharpe/Sortino should be nil on empty input")
	}
	if m.MaxDrawdownPct != 0 || m.AvgDrawdownPct != 0 {
		t.Fatalf("drawdowns should be zero on empty input")
	}
}

func TestProfitFactorCapOnNoLosses(t *testing.T) {
	trades := []models.Trade{
		{RealizedPL: 10},
		{RealizedPL: 25},
	}
	m := New(Options{}).Compute(1000, trades, nil)
	if m.ProfitFactor != DefaultProfitFactorCap {
		t.Fatalf("ProfitFactor = %v, want cap %v", m.ProfitFactor, DefaultProfitFactorCap)
	}

	m = New(Options{ProfitFactorCap: 100}).Compute(1000, trades, nil)
	if m.ProfitFactor != 100 {
		t.Fatalf("ProfitFactor = %v, want configured cap 100", m.ProfitFactor)
	}
}

func TestBreakEvenTradesCountNeither(t *testing.T) {
	trades := []models.Trade{
		{RealizedPL: 10},
		{RealizedPL: 0},
		{RealizedPL: -5},
	}
	m := New(Options{}).Compute(1000, trades, nil)
	if m.WinningTrades != 1 || m.LosingTrades != 1 || m.TotalTrades != 3 {
		t.Fatalf("counts = %d/%d/%d, want 3 total, 1 win, 1 loss",
			m.TotalTrades, m.WinningTrades, m.LosingTrades)
	}
}

func TestDrawdownInvariants(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	curve := curveFrom(start, 100, 110, 99, 105, 120, 108)

	m := New(Options{}).Compute(100, nil, curve)

	if !approx(m.MaxDrawdownPct, -10.0, 1e-9) {
		t.Fatalf("MaxDrawdownPct = %v, want -10", m.MaxDrawdownPct)
	}
	// 99 against hwm 110 and 108 against hwm 120 are both -10%; the earlier
	// point must win.
	if !m.MaxDrawdownDate.Equal(start.Add(2 * 24 * time.Hour)) {
		t.Fatalf("MaxDrawdownDate = %v, want first occurrence", m.MaxDrawdownDate)
	}
	wantAvg := (-10.0 + (105.0-110.0)/110.0*100 + -10.0) / 3
	if !approx(m.AvgDrawdownPct, wantAvg, 1e-9) {
		t.Fatalf("AvgDrawdownPct = %v, want %v", m.AvgDrawdownPct, wantAvg)
	}
	if !approx(m.TotalReturnPct, 8.0, 1e-9) {
		t.Fatalf("TotalReturnPct = %v, want 8", m.TotalReturnPct)
	}
}

func TestSharpeNilOnZeroVolatility(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	curve := curveFrom(start, 100, 100, 100, 100)

	m := New(Options{}).Compute(100, nil, curve)
	if m.SharpeRatio != nil {
		t.Fatalf("SharpeRatio = %v, want nil on flat curve", *m.SharpeRatio)
	}
	if m.SortinoRatio != nil {
		t.Fatalf("SortinoRatio should be nil with no negative returns")
	}
}

func TestSortinoNilWhenNoNegativeReturns(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	curve := curveFrom(start, 100, 101, 103, 104)

	m := New(Options{}).Compute(100, nil, curve)
	if m.SharpeRatio == nil {
		t.Fatalf("SharpeRatio should be set for a rising curve")
	}
	if m.SortinoRatio != nil {
		t.Fatalf("SortinoRatio = %v, want nil without losing periods", *m.SortinoRatio)
	}
}

func TestSharpeAnnualization(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	curve := curveFrom(start, 100, 102, 101, 104, 103, 107)

	daily := New(Options{AnnualizationFactor: 1}).Compute(100, nil, curve)
	annual := New(Options{}).Compute(100, nil, curve)

	if daily.SharpeRatio == nil || annual.SharpeRatio == nil {
		t.Fatalf("expected Sharpe on volatile curve")
	}
	want := *daily.SharpeRatio * math.Sqrt(252)
	if !approx(*annual.SharpeRatio, want, 1e-9) {
		t.Fatalf("annualized Sharpe = %v, want %v", *annual.SharpeRatio, want)
	}
}

func TestValueAtRiskWorstReturn(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	curve := curveFrom(start, 100, 102, 101, 104, 103, 107)

	m := New(Options{}).Compute(100, nil, curve)
	if m.ValueAtRisk95 == nil || m.CVaR95 == nil {
		t.Fatalf("expected VaR/CVaR on volatile curve")
	}
	// With 5 returns the 5% cutoff lands on the single worst return.
	want := (101.0/102.0 - 1) * 100
	if !approx(*m.ValueAtRisk95, want, 1e-9) {
		t.Fatalf("ValueAtRisk95 = %v, want %v", *m.ValueAtRisk95, want)
	}
	if !approx(*m.CVaR95, want, 1e-9) {
		t.Fatalf("CVaR95 = %v, want %v", *m.CVaR95, want)
	}
}

func TestSinglePointCurve(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	curve := curveFrom(start, 5000)

	m := New(Options{}).Compute(0, nil, curve)
	if m.InitialCash != 5000 || m.FinalEquity != 5000 || m.TotalReturn != 0 {
		t.Fatalf("single-point equity mishandled: %+v", m)
	}
	if m.SharpeRatio != nil || m.SortinoRatio != nil || m.ValueAtRisk95 != nil {
		t.Fatalf("ratios must be nil with a single point")
	}
}

func TestInitialCashFallsBackToFirstPoint(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	curve := curveFrom(start, 200, 220)

	m := New(Options{}).Compute(0, nil, curve)
	if m.InitialCash != 200 {
		t.Fatalf("InitialCash = %v, want first-point fallback 200", m.InitialCash)
	}
	if !approx(m.TotalReturnPct, 10.0, 1e-9) {
		t.Fatalf("TotalReturnPct = %v, want 10", m.TotalReturnPct)
	}
}
