package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"BotFolio/internal/domain/models"
)

type nopMetrics struct{}

func (nopMetrics) RecordSignalIngested(string, string) {}
func (nopMetrics) RecordError(string)                  {}
func (nopMetrics) RecordTopScore(string, float64)      {}
func (nopMetrics) RecordLatency(string, float64)       {}

type memSignalStore struct {
	mu      sync.Mutex
	signals []*models.Signal
}

func (s *memSignalStore) Store(_ context.Context, sig *models.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, sig)
	return nil
}

func (s *memSignalStore) StoreBatch(_ context.Context, sigs []*models.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signals = append(s.signals, sigs...)
	return nil
}

func (s *memSignalStore) RecentSignals(context.Context, time.Time, int) ([]models.Signal, error) {
	return nil, nil
}

func (s *memSignalStore) Health(context.Context) error { return nil }
func (s *memSignalStore) Close() error                 { return nil }

func (s *memSignalStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.signals)
}

// scriptedStream serves one batch per Read call. Between batches it fails the
// read the way a dropped connection does: error on the error channel, then
// both channels closed. The last batch's channels stay open until ctx ends.
type scriptedStream struct {
	mu         sync.Mutex
	batches    [][]*models.Signal
	reads      int
	reconnects int
}

func (s *scriptedStream) Connect(context.Context) error   { return nil }
func (s *scriptedStream) Subscribe(context.Context) error { return nil }
func (s *scriptedStream) Close() error                    { return nil }
func (s *scriptedStream) IsConnected() bool               { return true }

func (s *scriptedStream) Reconnect(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reconnects++
	return nil
}

func (s *scriptedStream) Read(ctx context.Context) (<-chan *models.Signal, <-chan error) {
	s.mu.Lock()
	i := s.reads
	s.reads++
	s.mu.Unlock()

	sigs := make(chan *models.Signal, 8)
	errs := make(chan error, 1)
	go func() {
		defer close(sigs)
		defer close(errs)
		if i < len(s.batches) {
			for _, sg := range s.batches[i] {
				sigs <- sg
			}
		}
		if i+1 < len(s.batches) {
			errs <- fmt.Errorf("stream reset")
			return
		}
		<-ctx.Done()
	}()
	return sigs, errs
}

func (s *scriptedStream) counts() (reads, reconnects int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads, s.reconnects
}

func TestCollectorResumesAfterStreamError(t *testing.T) {
	store := &memSignalStore{}
	ing := NewSignalIngestor(store, nopMetrics{}, nil)
	stream := &scriptedStream{batches: [][]*models.Signal{
		{{Symbol: "AAA", Type: models.SignalMomentum, Score: 4}},
		{{Symbol: "BBB", Type: models.SignalTopGainer, Score: 4}},
	}}
	c := NewSignalCollector(stream, ing, nopMetrics{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("start: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for store.count() < 2 {
		select {
		case <-deadline:
			t.Fatalf("ingested %d signals, want 2 after stream error", store.count())
		case <-time.After(10 * time.Millisecond):
		}
	}

	reads, reconnects := stream.counts()
	if reconnects != 1 {
		t.Fatalf("reconnects = %d, want 1", reconnects)
	}
	if reads != 2 {
		t.Fatalf("reads = %d, want a fresh Read after reconnect", reads)
	}
}
