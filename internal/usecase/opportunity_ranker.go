package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"BotFolio/internal/domain/models"
	domrepo "BotFolio/internal/domain/repository"
	domsvc "BotFolio/internal/domain/service"
	"BotFolio/internal/services/scoring"
)

// ErrSymbolNotRanked is returned when a symbol has no signals in the current
// aggregation window.
var ErrSymbolNotRanked = errors.New("symbol not in current ranking")

// OpportunityRanker computes the ranked opportunity set from stored signals.
// Scoring is delegated to the engine; this layer owns the signal window,
// caching, enrichment fan-out, and downstream publishing.
type OpportunityRanker struct {
	signals   domrepo.SignalStore
	engine    *scoring.Engine
	cache     *scoring.ResultCache
	narrative domsvc.NarrativeGenerator
	screener  domsvc.MomentumScreener
	info      domsvc.SymbolInfoProvider
	pub       domrepo.Publisher
	metrics   domrepo.Metrics

	window     time.Duration
	maxSignals int
	enrichTop  int
	timeout    time.Duration
}

type RankerOption func(*OpportunityRanker)

// WithWindow sets the signal lookback window.
func WithWindow(d time.Duration) RankerOption {
	return func(r *OpportunityRanker) {
		if d > 0 {
			r.window = d
		}
	}
}

// WithMaxSignals caps how many stored signals one recompute loads.
func WithMaxSignals(n int) RankerOption {
	return func(r *OpportunityRanker) {
		if n > 0 {
			r.maxSignals = n
		}
	}
}

// WithEnrichTop sets how many top-ranked symbols get quote and narrative
// enrichment per recompute.
func WithEnrichTop(n int) RankerOption {
	return func(r *OpportunityRanker) {
		if n > 0 {
			r.enrichTop = n
		}
	}
}

// WithNarrative attaches an optional narrative generator.
func WithNarrative(n domsvc.NarrativeGenerator) RankerOption {
	return func(r *OpportunityRanker) { r.narrative = n }
}

// WithScreener attaches an optional momentum screener.
func WithScreener(s domsvc.MomentumScreener) RankerOption {
	return func(r *OpportunityRanker) { r.screener = s }
}

// WithSymbolInfo attaches an optional symbol info provider.
func WithSymbolInfo(p domsvc.SymbolInfoProvider) RankerOption {
	return func(r *OpportunityRanker) { r.info = p }
}

// WithPublisher attaches an optional downstream publisher for ranked sets.
func WithPublisher(p domrepo.Publisher) RankerOption {
	return func(r *OpportunityRanker) { r.pub = p }
}

func NewOpportunityRanker(
	signals domrepo.SignalStore,
	engine *scoring.Engine,
	cache *scoring.ResultCache,
	metrics domrepo.Metrics,
	opts ...RankerOption,
) *OpportunityRanker {
	r := &OpportunityRanker{
		signals:    signals,
		engine:     engine,
		cache:      cache,
		metrics:    metrics,
		window:     90 * 24 * time.Hour,
		maxSignals: 5000,
		enrichTop:  10,
		timeout:    15 * time.Second,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Opportunities returns the ranked set, at most limit entries. refresh=true
// forces a recompute even when the cached set is still fresh.
func (r *OpportunityRanker) Opportunities(ctx context.Context, limit int, refresh bool) ([]models.InvestmentOpportunity, error) {
	if limit <= 0 {
		limit = 20
	}
	opps, err := r.cache.Get(ctx, refresh, r.compute)
	if err != nil {
		return nil, err
	}
	if len(opps) > limit {
		opps = opps[:limit]
	}
	return opps, nil
}

// Opportunity returns one symbol's entry from the current ranking.
func (r *OpportunityRanker) Opportunity(ctx context.Context, symbol string) (models.InvestmentOpportunity, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return models.InvestmentOpportunity{}, fmt.Errorf("symbol required")
	}
	opps, err := r.cache.Get(ctx, false, r.compute)
	if err != nil {
		return models.InvestmentOpportunity{}, err
	}
	for _, o := range opps {
		if o.Symbol == symbol {
			return o, nil
		}
	}
	return models.InvestmentOpportunity{}, ErrSymbolNotRanked
}

// Invalidate drops the cached ranking.
func (r *OpportunityRanker) Invalidate() { r.cache.Invalidate() }

// compute is the cache-miss path: load the signal window, merge screener
// discoveries, score, enrich the top entries, and publish downstream.
// Storage errors are fatal; enrichment and publish failures are isolated.
func (r *OpportunityRanker) compute(ctx context.Context) ([]models.InvestmentOpportunity, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	start := time.Now()

	type item struct {
		name string
		sigs []models.Signal
		err  error
	}
	ch := make(chan item, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		cutoff := time.Now().Add(-r.window)
		sigs, err := r.signals.RecentSignals(ctx, cutoff, r.maxSignals)
		ch <- item{"store", sigs, err}
	}()
	if r.screener != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sigs, err := r.screener.Discover(ctx, 50)
			ch <- item{"screener", sigs, err}
		}()
	}
	go func() { wg.Wait(); close(ch) }()

	var all []models.Signal
	for it := range ch {
		if it.err != nil {
			if it.name == "store" {
				return nil, fmt.Errorf("load signals: %w", it.err)
			}
			// screener is best effort
			r.metrics.RecordError("ranker_" + it.name)
			continue
		}
		all = append(all, it.sigs...)
	}

	opps := r.engine.Aggregate(all)
	r.enrich(ctx, opps)

	if len(opps) > 0 {
		r.metrics.RecordTopScore(opps[0].Symbol, opps[0].TotalScore)
	}
	if r.pub != nil {
		if err := r.pub.PublishOpportunities(ctx, opps); err != nil {
			r.metrics.RecordError("ranker_publish")
		}
	}
	r.metrics.RecordLatency("rank_compute", time.Since(start).Seconds())
	return opps, nil
}

// enrich fills quote and narrative fields for the top entries. One goroutine
// per symbol; a failed lookup leaves that field empty and never fails the
// ranking.
func (r *OpportunityRanker) enrich(ctx context.Context, opps []models.InvestmentOpportunity) {
	if r.info == nil && r.narrative == nil {
		return
	}
	n := r.enrichTop
	if n > len(opps) {
		n = len(opps)
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(o *models.InvestmentOpportunity) {
			defer wg.Done()
			if r.info != nil {
				if info, err := r.info.Info(ctx, o.Symbol); err != nil {
					r.metrics.RecordError("enrich_info")
				} else {
					o.CompanyName = info.CompanyName
					o.LatestPrice = info.LatestPrice
					o.Change = info.Change
					o.Volume = info.Volume
				}
			}
			if r.narrative != nil {
				if text, err := r.narrative.Summarize(ctx, *o); err != nil {
					r.metrics.RecordError("enrich_narrative")
				} else {
					o.Narrative = text
				}
			}
		}(&opps[i])
	}
	wg.Wait()
}
