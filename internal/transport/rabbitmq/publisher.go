package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"fleet-platform/internal/realtime"
)

// Publisher publishes change events to a topic exchange, routed by realtime topic.
type Publisher struct {
	ch       Channel
	exchange string
}

var _ realtime.Publisher = (*Publisher)(nil)

// NewPublisher declares the exchange and returns a publisher on it.
func NewPublisher(ch Channel, exchange string) (*Publisher, error) {
	if ch == nil {
		return nil, errors.New("rabbitmq publisher: nil channel")
	}
	if err := declareExchange(ch, exchange); err != nil {
		return nil, err
	}
	return &Publisher{ch: ch, exchange: exchange}, nil
}

// Publish sends ev as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, ev realtime.ChangeEvent) error {
	if !ev.Topic.Valid() {
		return fmt.Errorf("unknown topic %q: %w", ev.Topic, realtime.ErrPermanent)
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event %s: %v: %w", ev.ID, err, realtime.ErrPermanent)
	}
	err = p.ch.PublishWithContext(ctx, p.exchange, string(ev.Topic), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    ev.ID,
		Timestamp:    ev.CommitTimestamp,
		Type:         string(ev.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", ev.ID, err)
	}
	return nil
}

// Close closes the channel.
func (p *Publisher) Close() error {
	if p == nil {
		return nil
	}
	return p.ch.Close()
}
