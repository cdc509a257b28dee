package scoring

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"BotFolio/internal/domain/models"
)

func oneOpp(symbol string) []models.InvestmentOpportunity {
	return []models.InvestmentOpportunity{{Symbol: symbol, Rank: 1}}
}

func TestResultCacheServesFreshValue(t *testing.T) {
	c := NewResultCache(time.Minute)
	calls := 0
	compute := func(context.Context) ([]models.InvestmentOpportunity, error) {
		calls++
		return oneOpp("AAPL"), nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.Get(context.Background(), false, compute)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if len(got) != 1 || got[0].Symbol != "AAPL" {
			t.Fatalf("unexpected result %+v", got)
		}
	}
	if calls != 1 {
		t.Fatalf("compute ran %d times, want 1", calls)
	}
}

func TestResultCacheExpires(t *testing.T) {
	c := NewResultCache(time.Minute)
	clock := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	calls := 0
	compute := func(context.Context) ([]models.InvestmentOpportunity, error) {
		calls++
		return oneOpp("AAPL"), nil
	}

	if _, err := c.Get(context.Background(), false, compute); err != nil {
		t.Fatalf("Get: %v", err)
	}
	clock = clock.Add(2 * time.Minute)
	if _, err := c.Get(context.Background(), false, compute); err != nil {
		t.Fatalf("Get: %v", err)
	}
	if calls != 2 {
		t.Fatalf("compute ran %d times, want 2 after TTL expiry", calls)
	}
}

func TestResultCacheRefreshBypassesFreshness(t *testing.T) {
	c := NewResultCache(time.Minute)
	calls := 0
	compute := func(context.Context) ([]models.InvestmentOpportunity, error) {
		calls++
		return oneOpp("AAPL"), nil
	}

	c.Get(context.Background(), false, compute)
	c.Get(context.Background(), true, compute)
	if calls != 2 {
		t.Fatalf("compute ran %d times, want 2 with refresh=true", calls)
	}
}

func TestResultCacheInvalidate(t *testing.T) {
	c := NewResultCache(time.Minute)
	calls := 0
	compute := func(context.Context) ([]models.InvestmentOpportunity, error) {
		calls++
		return oneOpp("AAPL"), nil
	}

	c.Get(context.Background(), false, compute)
	c.Invalidate()
	c.Get(context.Background(), false, compute)
	if calls != 2 {
		t.Fatalf("compute ran %d times, want 2 after Invalidate", calls)
	}
}

func TestResultCacheErrorKeepsPreviousValue(t *testing.T) {
	c := NewResultCache(time.Minute)
	c.Get(context.Background(), false, func(context.Context) ([]models.InvestmentOpportunity, error) {
		return oneOpp("AAPL"), nil
	})

	_, err := c.Get(context.Background(), true, func(context.Context) ([]models.InvestmentOpportunity, error) {
		return nil, errors.New("store down")
	})
	if err == nil {
		t.Fatalf("expected error surfaced from compute")
	}

	// Previous value still served once fresh-path applies.
	got, err := c.Get(context.Background(), false, func(context.Context) ([]models.InvestmentOpportunity, error) {
		t.Fatalf("compute should not run, cached value expected")
		return nil, nil
	})
	if err != nil || len(got) != 1 || got[0].Symbol != "AAPL" {
		t.Fatalf("cached value lost after failed refresh: %+v, %v", got, err)
	}
}

func TestResultCacheSingleFlight(t *testing.T) {
	c := NewResultCache(time.Minute)
	var calls int
	started := make(chan struct{})
	release := make(chan struct{})
	compute := func(context.Context) ([]models.InvestmentOpportunity, error) {
		calls++
		close(started)
		<-release
		return oneOpp("AAPL"), nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.Get(context.Background(), false, compute)
	}()
	<-started

	// Second caller must join the in-flight computation, not start its own.
	wg.Add(1)
	go func() {
		defer wg.Done()
		got, err := c.Get(context.Background(), false, func(context.Context) ([]models.InvestmentOpportunity, error) {
			t.Errorf("second compute started, want single flight")
			return nil, nil
		})
		if err != nil || len(got) != 1 {
			t.Errorf("joined caller got %+v, %v", got, err)
		}
	}()

	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()
	if calls != 1 {
		t.Fatalf("compute ran %d times, want 1", calls)
	}
}
