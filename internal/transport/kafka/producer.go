package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/IBM/sarama"

	"fleet-platform/internal/realtime"
)

const clientID = "fleet-platform"

var newSyncProducer = sarama.NewSyncProducer

// Producer publishes change events to Kafka, one Kafka topic per realtime topic.
type Producer struct {
	producer sarama.SyncProducer
}

var _ realtime.Publisher = (*Producer)(nil)

// NewProducer creates a synchronous producer.
func NewProducer(brokers []string) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka producer: no brokers")
	}
	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 0

	p, err := newSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &Producer{producer: p}, nil
}

// NewProducerFrom wraps an existing sarama producer.
func NewProducerFrom(p sarama.SyncProducer) *Producer {
	return &Producer{producer: p}
}

// Publish sends ev keyed by its id.
func (p *Producer) Publish(ctx context.Context, ev realtime.ChangeEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !ev.Topic.Valid() {
		return Permanent(fmt.Errorf("unknown topic %q", ev.Topic))
	}
	b, err := json.Marshal(FromDomain(ev))
	if err != nil {
		return Permanent(fmt.Errorf("encode event %s: %w", ev.ID, err))
	}
	_, _, err = p.producer.SendMessage(&sarama.ProducerMessage{
		Topic: KafkaTopic(ev.Topic),
		Key:   sarama.StringEncoder(ev.ID),
		Value: sarama.ByteEncoder(b),
	})
	if err != nil {
		return fmt.Errorf("kafka send %s: %w", ev.ID, err)
	}
	return nil
}

// Close closes the producer.
func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.producer.Close()
}
