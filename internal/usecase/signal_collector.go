package usecase

import (
	"context"

	"BotFolio/internal/domain/models"
	drepo "BotFolio/internal/domain/repository"
	mid "BotFolio/internal/middleware"
)

// SignalCollector collects signals from the live market feed and pushes them
// through the ingest pipeline.
type SignalCollector struct {
	stream  drepo.MarketStream
	ing     *SignalIngestor
	metrics drepo.Metrics
	pipe    *mid.IngestPipeline
}

// NewSignalCollector creates a new SignalCollector instance.
func NewSignalCollector(stream drepo.MarketStream, ing *SignalIngestor, metrics drepo.Metrics, pipe *mid.IngestPipeline) *SignalCollector {
	return &SignalCollector{stream: stream, ing: ing, metrics: metrics, pipe: pipe}
}

// IsConnected returns true if the market feed is connected.
func (c *SignalCollector) IsConnected() bool {
	return c.stream.IsConnected()
}

func (c *SignalCollector) Start(ctx context.Context) error {
	if err := c.stream.Connect(ctx); err != nil {
		return err
	}
	if err := c.stream.Subscribe(ctx); err != nil {
		return err
	}
	if c.pipe != nil {
		c.pipe.Start(ctx)
	}
	sigCh, errCh := c.stream.Read(ctx)
	go c.consume(ctx, sigCh, errCh)
	return nil
}

func (c *SignalCollector) consume(ctx context.Context, sigCh <-chan *models.Signal, errCh <-chan error) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errCh:
			if !ok {
				// wait for the signal channel to drain and close
				errCh = nil
				continue
			}
			if err != nil {
				c.metrics.RecordError("stream")
			}
		case s, ok := <-sigCh:
			if !ok {
				// the stream closed its channels; reconnect and read again
				if !c.reconnect(ctx) {
					return
				}
				sigCh, errCh = c.stream.Read(ctx)
				continue
			}
			if s == nil {
				continue
			}
			if c.pipe != nil {
				_ = c.pipe.Process(ctx, s)
			} else {
				_ = c.ing.Ingest(ctx, s)
			}
		}
	}
}

// reconnect retries until the stream is back or ctx ends. Pacing comes from
// the stream's own reconnect delay.
func (c *SignalCollector) reconnect(ctx context.Context) bool {
	for ctx.Err() == nil {
		if err := c.stream.Reconnect(ctx); err != nil {
			c.metrics.RecordError("stream_reconnect")
			continue
		}
		return true
	}
	return false
}

func (c *SignalCollector) Stop() error { return c.stream.Close() }

// Ingestor returns the underlying SignalIngestor for lifecycle management.
func (c *SignalCollector) Ingestor() *SignalIngestor { return c.ing }

// Shutdown stops the pipeline and closes the stream.
func (c *SignalCollector) Shutdown(ctx context.Context) error {
	if c.pipe != nil {
		c.pipe.Stop()
	}
	return c.stream.Close()
}
