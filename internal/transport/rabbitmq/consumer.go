package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"fleet-platform/internal/logx"
	"fleet-platform/internal/realtime"
)

// HandleFunc processes one change event.
type HandleFunc func(context.Context, realtime.ChangeEvent) error

// Consumer reads every realtime topic through an exclusive queue bound to the exchange.
type Consumer struct {
	ch      Channel
	queue   string
	handler HandleFunc
	logger  logx.Logger
}

// NewConsumer declares the exchange and a server-named exclusive queue bound to every topic.
func NewConsumer(ch Channel, exchange string, logger logx.Logger, h HandleFunc) (*Consumer, error) {
	if ch == nil || h == nil {
		return nil, errors.New("rabbitmq consumer: nil channel or handler")
	}
	if err := declareExchange(ch, exchange); err != nil {
		return nil, err
	}
	q, err := ch.QueueDeclare(
		"",
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("declare queue: %w", err)
	}
	for _, t := range realtime.Topics() {
		if err := ch.QueueBind(q.Name, string(t), exchange, false, nil); err != nil {
			return nil, fmt.Errorf("bind %s: %w", t, err)
		}
	}
	return &Consumer{ch: ch, queue: q.Name, handler: h, logger: logger}, nil
}

// Run consumes until ctx is done or the channel is closed.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}
	deliveries, err := c.ch.Consume(c.queue, "", false, true, false, false, nil)
	if err != nil {
		return fmt.Errorf("consume %s: %w", c.queue, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("rabbitmq deliveries closed")
			}
			c.handle(ctx, d.Body)
			if err := d.Ack(false); err != nil {
				c.logger.Warn("rabbitmq ack failed", logx.String("message_id", d.MessageId), logx.Err(err))
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, body []byte) {
	var ev realtime.ChangeEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		c.logger.Warn("rabbitmq bad json", logx.Err(err))
		return
	}
	if ev.ID == "" || !ev.Topic.Valid() {
		c.logger.Warn("rabbitmq invalid event",
			logx.String("id", ev.ID),
			logx.String("topic", string(ev.Topic)),
		)
		return
	}
	if err := c.handler(ctx, ev); err != nil {
		c.logger.Error("rabbitmq handle failed, skipping message",
			logx.String("id", ev.ID),
			logx.Err(err),
		)
	}
}

// Close closes the channel.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.ch.Close()
}
