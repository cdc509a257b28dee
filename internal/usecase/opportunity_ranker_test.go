package usecase

import (
	"context"
	"testing"
	"time"

	"BotFolio/internal/domain/models"
	"BotFolio/internal/services/scoring"
)

type limitRecordingStore struct {
	memSignalStore
	limit int
}

func (s *limitRecordingStore) RecentSignals(_ context.Context, _ time.Time, limit int) ([]models.Signal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = limit
	return nil, nil
}

func (s *limitRecordingStore) seenLimit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.limit
}

func TestRankerMaxSignalsCapsWindowQuery(t *testing.T) {
	store := &limitRecordingStore{}
	r := NewOpportunityRanker(
		store,
		scoring.NewEngine(scoring.Options{}),
		scoring.NewResultCache(time.Minute),
		nopMetrics{},
		WithMaxSignals(250),
	)

	if _, err := r.Opportunities(context.Background(), 10, true); err != nil {
		t.Fatalf("opportunities: %v", err)
	}
	if got := store.seenLimit(); got != 250 {
		t.Fatalf("RecentSignals limit = %d, want 250", got)
	}
}
