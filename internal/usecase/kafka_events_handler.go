package usecase

import (
	"context"
	"encoding/json"
	"time"

	"BotFolio/internal/domain/models"
	domrepo "BotFolio/internal/domain/repository"
	"BotFolio/internal/services/scoring"
	pkgkafka "BotFolio/pkg/kafka"
)

// KafkaEventsHandler consumes raw market events from Kafka and stores them
// as signals.
type KafkaEventsHandler struct {
	topic   string
	ing     *SignalIngestor
	metrics domrepo.Metrics
}

func NewKafkaEventsHandler(topic string, ing *SignalIngestor, metrics domrepo.Metrics) *KafkaEventsHandler {
	return &KafkaEventsHandler{topic: topic, ing: ing, metrics: metrics}
}

func (h *KafkaEventsHandler) Topic() string { return h.topic }

// incoming message schema:
// {symbol, type, score, source, description, event_date, current_grade?, previous_grade?}
func (h *KafkaEventsHandler) Handle(ctx context.Context, b []byte) error {
	var m struct {
		Symbol        string         `json:"symbol"`
		Type          string         `json:"type"`
		Score         float64        `json:"score"`
		Source        string         `json:"source"`
		Description   string         `json:"description"`
		EventDate     string         `json:"event_date"`
		CurrentGrade  string         `json:"current_grade"`
		PreviousGrade string         `json:"previous_grade"`
		Metadata      map[string]any `json:"metadata"`
	}
	if err := json.Unmarshal(b, &m); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}

	// Analyst events only count when they are genuinely positive.
	if models.SignalType(m.Type) == models.SignalAnalystUpgrade &&
		!scoring.IsBuySignal(m.CurrentGrade, m.PreviousGrade) {
		return nil
	}

	start := time.Now()
	err := h.ing.Ingest(ctx, &models.Signal{
		Symbol:      m.Symbol,
		Type:        models.SignalType(m.Type),
		Score:       m.Score,
		Source:      m.Source,
		Description: m.Description,
		EventDate:   m.EventDate,
		Metadata:    m.Metadata,
	})
	h.metrics.RecordLatency("consumer_ingest", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_ingest")
		return err
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaEventsHandler)(nil)
