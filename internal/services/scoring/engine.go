package scoring

import (
	"sort"
	"time"

	"BotFolio/internal/domain/models"
)

// Repeated signals of the same type for one symbol confirm rather than
// multiply conviction: 2nd counts half, 3rd a quarter, everything after a
// tenth. Ordered by decayed score so the strongest instance keeps full weight.
var duplicateDiscounts = []float64{1.0, 0.5, 0.25}

const duplicateDiscountTail = 0.1

// Diversity bonus for corroboration across distinct signal types.
const (
	diversityBonusTwo   = 3.0
	diversityBonusThree = 5.0
)

// Options tune the aggregation engine. HalfLives entries override the
// built-in table per signal type; Now is swappable for tests.
type Options struct {
	HalfLives map[models.SignalType]float64
	Now       func() time.Time
}

// Engine turns a flat signal list into ranked per-symbol opportunities.
// Pure computation: stateless, deterministic for a fixed clock, no I/O.
type Engine struct {
	halfLives map[models.SignalType]float64
	now       func() time.Time
}

func NewEngine(opts Options) *Engine {
	hl := make(map[models.SignalType]float64, len(defaultHalfLives))
	for t, v := range defaultHalfLives {
		hl[t] = v
	}
	for t, v := range opts.HalfLives {
		if v > 0 {
			hl[t] = v
		}
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{halfLives: hl, now: now}
}

type scoredSignal struct {
	sig     models.Signal
	decayed float64
	order   int // input position, breaks ties stably
}

// Aggregate groups signals by symbol, applies time decay, duplicate
// discounting and the diversity bonus, and returns opportunities sorted by
// total score descending with ranks 1..N. Input order breaks score ties.
func (e *Engine) Aggregate(signals []models.Signal) []models.InvestmentOpportunity {
	if len(signals) == 0 {
		return []models.InvestmentOpportunity{}
	}
	now := e.now()

	bySymbol := make(map[string][]scoredSignal)
	symbolOrder := make([]string, 0)
	for i, s := range signals {
		if s.Symbol == "" {
			continue
		}
		if _, seen := bySymbol[s.Symbol]; !seen {
			symbolOrder = append(symbolOrder, s.Symbol)
		}
		bySymbol[s.Symbol] = append(bySymbol[s.Symbol], scoredSignal{
			sig:     s,
			decayed: s.Score * e.decayFactor(s, now),
			order:   i,
		})
	}

	opps := make([]models.InvestmentOpportunity, 0, len(bySymbol))
	for _, symbol := range symbolOrder {
		opps = append(opps, e.scoreSymbol(symbol, bySymbol[symbol], now))
	}

	// Stable sort keeps first-seen symbol order on equal scores, so ranks
	// are reproducible run to run.
	sort.SliceStable(opps, func(i, j int) bool {
		return opps[i].TotalScore > opps[j].TotalScore
	})
	for i := range opps {
		opps[i].Rank = i + 1
	}
	return opps
}

func (e *Engine) scoreSymbol(symbol string, scored []scoredSignal, now time.Time) models.InvestmentOpportunity {
	byType := make(map[models.SignalType][]scoredSignal)
	for _, ss := range scored {
		byType[ss.sig.Type] = append(byType[ss.sig.Type], ss)
	}

	var total float64
	for _, bucket := range byType {
		sort.SliceStable(bucket, func(i, j int) bool {
			return bucket[i].decayed > bucket[j].decayed
		})
		for i, ss := range bucket {
			d := duplicateDiscountTail
			if i < len(duplicateDiscounts) {
				d = duplicateDiscounts[i]
			}
			total += ss.decayed * d
		}
	}
	switch {
	case len(byType) >= 3:
		total += diversityBonusThree
	case len(byType) == 2:
		total += diversityBonusTwo
	}

	sigs := make([]models.Signal, len(scored))
	for i, ss := range scored {
		sigs[i] = ss.sig
	}
	return models.InvestmentOpportunity{
		Symbol:     symbol,
		TotalScore: total,
		Signals:    sigs,
		ComputedAt: now,
	}
}
