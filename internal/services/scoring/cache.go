package scoring

import (
	"context"
	"sync"
	"time"

	"BotFolio/internal/domain/models"
)

// DefaultCacheTTL is how long a ranked result set stays fresh.
const DefaultCacheTTL = 5 * time.Minute

type refreshCall struct {
	done chan struct{}
	val  []models.InvestmentOpportunity
	err  error
}

// ResultCache memoizes one ranked opportunity set with a TTL. Concurrent
// callers during a recompute share a single in-flight computation instead of
// stampeding the stores.
type ResultCache struct {
	mu       sync.Mutex
	ttl      time.Duration
	val      []models.InvestmentOpportunity
	storedAt time.Time
	inflight *refreshCall

	now func() time.Time
}

func NewResultCache(ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &ResultCache{ttl: ttl, now: time.Now}
}

// Get returns the cached set if fresh, otherwise runs compute once and caches
// its result. refresh=true skips the freshness check but still joins an
// in-flight recompute. A failed compute leaves the previous value in place.
func (c *ResultCache) Get(ctx context.Context, refresh bool, compute func(context.Context) ([]models.InvestmentOpportunity, error)) ([]models.InvestmentOpportunity, error) {
	c.mu.Lock()
	if !refresh && c.val != nil && c.now().Sub(c.storedAt) < c.ttl {
		v := c.val
		c.mu.Unlock()
		return v, nil
	}
	if c.inflight != nil {
		call := c.inflight
		c.mu.Unlock()
		select {
		case <-call.done:
			return call.val, call.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &refreshCall{done: make(chan struct{})}
	c.inflight = call
	c.mu.Unlock()

	val, err := compute(ctx)

	c.mu.Lock()
	if err == nil {
		c.val = val
		c.storedAt = c.now()
	}
	c.inflight = nil
	c.mu.Unlock()

	call.val, call.err = val, err
	close(call.done)
	return val, err
}

// Invalidate drops the cached set so the next Get recomputes.
func (c *ResultCache) Invalidate() {
	c.mu.Lock()
	c.val = nil
	c.storedAt = time.Time{}
	c.mu.Unlock()
}
