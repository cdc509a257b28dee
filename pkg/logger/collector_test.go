package logger

import (
	"context"
	"sync"
	"testing"
	"time"
)

type capturePublisher struct {
	mu      sync.Mutex
	batches [][]AggregatedLogEntry
	got     chan struct{}
}

func newCapturePublisher() *capturePublisher {
	return &capturePublisher{got: make(chan struct{}, 8)}
}

func (p *capturePublisher) Publish(_ context.Context, _ string, _ []byte, value interface{}) error {
	p.mu.Lock()
	p.batches = append(p.batches, value.([]AggregatedLogEntry))
	p.mu.Unlock()
	p.got <- struct{}{}
	return nil
}

func (p *capturePublisher) wait(t *testing.T) []AggregatedLogEntry {
	t.Helper()
	select {
	case <-p.got:
	case <-time.After(2 * time.Second):
		t.Fatalf("no batch published")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.batches[len(p.batches)-1]
}

func TestCollectorAggregatesDuplicates(t *testing.T) {
	pub := newCapturePublisher()
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 2,
		Topic:          "logs",
		Publisher:      pub,
	})
	defer c.Close()

	c.AddLog("error", "store write failed", nil, "a.go:1")
	c.AddLog("error", "store write failed", nil, "a.go:1")
	c.AddLog("error", "publish failed", nil, "b.go:2")

	batch := pub.wait(t)
	if len(batch) != 2 {
		t.Fatalf("batch size = %d, want 2 unique entries", len(batch))
	}
	counts := map[string]int{}
	for _, e := range batch {
		counts[e.Message] = e.Count
	}
	if counts["store write failed"] != 2 {
		t.Fatalf("duplicate count = %d, want 2", counts["store write failed"])
	}
	if counts["publish failed"] != 1 {
		t.Fatalf("unique count = %d, want 1", counts["publish failed"])
	}
}

func TestCollectorFlushesOnClose(t *testing.T) {
	pub := newCapturePublisher()
	c := NewLogCollector(&CollectionConfig{
		TimeInterval:   time.Hour,
		CountThreshold: 100,
		Topic:          "logs",
		Publisher:      pub,
	})

	c.AddLog("error", "pending at shutdown", nil, "c.go:3")
	c.Close()

	batch := pub.wait(t)
	if len(batch) != 1 || batch[0].Message != "pending at shutdown" {
		t.Fatalf("final flush missing pending entry: %+v", batch)
	}
}
