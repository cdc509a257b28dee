package scoring

import (
	"math"
	"testing"
	"time"

	"BotFolio/internal/domain/models"
)

var testNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestEngine() *Engine {
	return NewEngine(Options{Now: func() time.Time { return testNow }})
}

func sig(symbol string, t models.SignalType, score float64, eventDate string) models.Signal {
	return models.Signal{Symbol: symbol, Type: t, Score: score, EventDate: eventDate}
}

func TestDecayIdentityAtAgeZero(t *testing.T) {
	e := newTestEngine()
	opps := e.Aggregate([]models.Signal{
		sig("AAPL", models.SignalInsiderBuying, 10, testNow.Format(time.RFC3339)),
	})
	if len(opps) != 1 {
		t.Fatalf("got %d opportunities, want 1", len(opps))
	}
	if math.Abs(opps[0].TotalScore-10) > 1e-9 {
		t.Fatalf("TotalScore = %v, want 10 (no decay at age zero)", opps[0].TotalScore)
	}
}

func TestDecayHalvesAtHalfLife(t *testing.T) {
	e := newTestEngine()
	// insider_buying half-life is 60 days
	eventDate := testNow.AddDate(0, 0, -60).Format(time.RFC3339)
	opps := e.Aggregate([]models.Signal{
		sig("AAPL", models.SignalInsiderBuying, 10, eventDate),
	})
	if math.Abs(opps[0].TotalScore-5) > 1e-9 {
		t.Fatalf("TotalScore = %v, want 5 at one half-life", opps[0].TotalScore)
	}
}

func TestDecayMonotonicInAge(t *testing.T) {
	e := newTestEngine()
	var prev float64 = math.Inf(1)
	for _, days := range []int{0, 1, 7, 30, 90, 365} {
		eventDate := testNow.AddDate(0, 0, -days).Format(time.RFC3339)
		opps := e.Aggregate([]models.Signal{
			sig("AAPL", models.SignalHighVolume, 8, eventDate),
		})
		got := opps[0].TotalScore
		if got >= prev {
			t.Fatalf("score at age %dd = %v, not below younger score %v", days, got, prev)
		}
		if got <= 0 {
			t.Fatalf("score at age %dd = %v, decay must stay positive", days, got)
		}
		prev = got
	}
}

func TestFutureDateDecaysAsToday(t *testing.T) {
	e := newTestEngine()
	eventDate := testNow.AddDate(0, 0, 2).Format(time.RFC3339)
	opps := e.Aggregate([]models.Signal{
		sig("AAPL", models.SignalTopGainer, 10, eventDate),
	})
	if math.Abs(opps[0].TotalScore-10) > 1e-9 {
		t.Fatalf("TotalScore = %v, want 10 (future dates clamp to age zero)", opps[0].TotalScore)
	}
}

func TestUnparsableDateUsesFixedDiscount(t *testing.T) {
	e := newTestEngine()
	opps := e.Aggregate([]models.Signal{
		sig("AAPL", models.SignalAnalystUpgrade, 10, "not-a-date"),
	})
	if math.Abs(opps[0].TotalScore-5) > 1e-9 {
		t.Fatalf("TotalScore = %v, want 5 (fixed 0.5 discount)", opps[0].TotalScore)
	}
}

func TestUnknownTypeGetsDefaultHalfLife(t *testing.T) {
	e := newTestEngine()
	eventDate := testNow.AddDate(0, 0, -14).Format(time.RFC3339)
	opps := e.Aggregate([]models.Signal{
		sig("AAPL", models.SignalType("meme_mention"), 10, eventDate),
	})
	if math.Abs(opps[0].TotalScore-5) > 1e-9 {
		t.Fatalf("TotalScore = %v, want 5 via 14-day default half-life", opps[0].TotalScore)
	}
}

func TestDuplicateSignalsDiscounted(t *testing.T) {
	e := newTestEngine()
	today := testNow.Format(time.RFC3339)
	// Three identical insider buys must confirm, not triple.
	opps := e.Aggregate([]models.Signal{
		sig("NRC", models.SignalInsiderBuying, 7.38, today),
		sig("NRC", models.SignalInsiderBuying, 7.38, today),
		sig("NRC", models.SignalInsiderBuying, 7.38, today),
	})
	want := 7.38 * (1.0 + 0.5 + 0.25)
	if math.Abs(opps[0].TotalScore-want) > 1e-9 {
		t.Fatalf("TotalScore = %v, want %v", opps[0].TotalScore, want)
	}
}

func TestDuplicateDiscountOrderedByDecayedScore(t *testing.T) {
	e := newTestEngine()
	today := testNow.Format(time.RFC3339)
	// The strongest instance keeps full weight regardless of input order.
	opps := e.Aggregate([]models.Signal{
		sig("AAPL", models.SignalAnalystUpgrade, 2, today),
		sig("AAPL", models.SignalAnalystUpgrade, 10, today),
	})
	want := 10*1.0 + 2*0.5
	if math.Abs(opps[0].TotalScore-want) > 1e-9 {
		t.Fatalf("TotalScore = %v, want %v", opps[0].TotalScore, want)
	}
}

func TestFourthDuplicateGetsTailDiscount(t *testing.T) {
	e := newTestEngine()
	today := testNow.Format(time.RFC3339)
	signals := make([]models.Signal, 5)
	for i := range signals {
		signals[i] = sig("AAPL", models.SignalHighVolume, 10, today)
	}
	opps := e.Aggregate(signals)
	want := 10 * (1.0 + 0.5 + 0.25 + 0.1 + 0.1)
	if math.Abs(opps[0].TotalScore-want) > 1e-9 {
		t.Fatalf("TotalScore = %v, want %v", opps[0].TotalScore, want)
	}
}

func TestDiversityBonus(t *testing.T) {
	e := newTestEngine()
	today := testNow.Format(time.RFC3339)
	tests := []struct {
		name  string
		types []models.SignalType
		want  float64
	}{
		{"one type no bonus", []models.SignalType{models.SignalInsiderBuying}, 10},
		{"two types", []models.SignalType{models.SignalInsiderBuying, models.SignalAnalystUpgrade}, 20 + 3},
		{"three types", []models.SignalType{models.SignalInsiderBuying, models.SignalAnalystUpgrade, models.SignalMomentum}, 30 + 5},
		{"four types same bonus as three", []models.SignalType{models.SignalInsiderBuying, models.SignalAnalystUpgrade, models.SignalMomentum, models.SignalStockSplit}, 40 + 5},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			signals := make([]models.Signal, len(tc.types))
			for i, typ := range tc.types {
				signals[i] = sig("AAPL", typ, 10, today)
			}
			opps := e.Aggregate(signals)
			if math.Abs(opps[0].TotalScore-tc.want) > 1e-9 {
				t.Fatalf("TotalScore = %v, want %v", opps[0].TotalScore, tc.want)
			}
		})
	}
}

func TestRanksAreDensePermutation(t *testing.T) {
	e := newTestEngine()
	today := testNow.Format(time.RFC3339)
	opps := e.Aggregate([]models.Signal{
		sig("AAA", models.SignalMomentum, 5, today),
		sig("BBB", models.SignalMomentum, 10, today),
		sig("CCC", models.SignalMomentum, 5, today),
	})
	if len(opps) != 3 {
		t.Fatalf("got %d opportunities, want 3", len(opps))
	}
	wantOrder := []string{"BBB", "AAA", "CCC"} // ties keep first-seen order
	for i, o := range opps {
		if o.Symbol != wantOrder[i] {
			t.Fatalf("position %d = %s, want %s", i, o.Symbol, wantOrder[i])
		}
		if o.Rank != i+1 {
			t.Fatalf("rank for %s = %d, want %d", o.Symbol, o.Rank, i+1)
		}
	}
}

func TestEmptyAndBlankSymbolInput(t *testing.T) {
	e := newTestEngine()
	if got := e.Aggregate(nil); len(got) != 0 {
		t.Fatalf("nil input should produce empty slice, got %d", len(got))
	}
	opps := e.Aggregate([]models.Signal{
		sig("", models.SignalMomentum, 10, testNow.Format(time.RFC3339)),
	})
	if len(opps) != 0 {
		t.Fatalf("blank-symbol signals must be skipped, got %d opportunities", len(opps))
	}
}

func TestHalfLifeOverride(t *testing.T) {
	e := NewEngine(Options{
		HalfLives: map[models.SignalType]float64{models.SignalHighVolume: 10},
		Now:       func() time.Time { return testNow },
	})
	eventDate := testNow.AddDate(0, 0, -10).Format(time.RFC3339)
	opps := e.Aggregate([]models.Signal{
		sig("AAPL", models.SignalHighVolume, 10, eventDate),
	})
	if math.Abs(opps[0].TotalScore-5) > 1e-9 {
		t.Fatalf("TotalScore = %v, want 5 with overridden half-life", opps[0].TotalScore)
	}
}
