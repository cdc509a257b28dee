package repository

import (
	"context"

	"BotFolio/internal/domain/models"
	"BotFolio/internal/domain/repository"
	pkgkafka "BotFolio/pkg/kafka"
)

// KafkaPublisher implements Publisher for Kafka. Ranked opportunity snapshots
// are fanned out one message per symbol, keyed by symbol so downstream
// consumers see per-symbol ordering.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) PublishOpportunities(ctx context.Context, opps []models.InvestmentOpportunity) error {
	if len(opps) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(opps))
	for i, o := range opps {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(o.Symbol),
			Value: o,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
