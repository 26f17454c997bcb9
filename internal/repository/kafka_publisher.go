package repository

import (
	"context"

	"StockFuse/internal/domain/models"
	pkgkafka "StockFuse/pkg/kafka"
)

// KafkaBarPublisher emits every committed bar to a Kafka topic, keyed by
// symbol so one instrument's bars stay ordered within a partition. Optional:
// the poller runs without it when publishing is disabled.
type KafkaBarPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaBarPublisher(producer *pkgkafka.Producer, topic string) *KafkaBarPublisher {
	return &KafkaBarPublisher{producer: producer, topic: topic}
}

type barEvent struct {
	Symbol string     `json:"symbol"`
	Bar    models.Bar `json:"bar"`
}

func (p *KafkaBarPublisher) PublishBar(ctx context.Context, symbol string, bar models.Bar) error {
	return p.producer.Publish(ctx, p.topic, []byte(symbol), barEvent{Symbol: symbol, Bar: bar})
}

func (p *KafkaBarPublisher) Close() error {
	return p.producer.Close()
}
