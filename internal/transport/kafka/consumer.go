package kafka

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/IBM/sarama"

	"fleet-platform/internal/logx"
	"fleet-platform/internal/realtime"
)

// HandleFunc processes a single change event from Kafka
type HandleFunc func(context.Context, realtime.ChangeEvent) error

var newConsumerGroup = sarama.NewConsumerGroup

// Consumer wraps a Sarama consumer group and dispatches events to a handler
type Consumer struct {
	group   sarama.ConsumerGroup
	topics  []string
	handler HandleFunc
	logger  logx.Logger
}

// NewConsumer creates a new Kafka consumer. It returns (nil, nil) when Kafka is not configured.
func NewConsumer(logger logx.Logger, brokers []string, groupID string, topics []string, h HandleFunc) (*Consumer, error) {
	if len(brokers) == 0 || len(topics) == 0 || strings.TrimSpace(groupID) == "" {
		return nil, nil
	}

	cfg := sarama.NewConfig()
	cfg.ClientID = clientID
	// realtime consumers only care about events published after they joined
	cfg.Consumer.Offsets.Initial = sarama.OffsetNewest
	cfg.Consumer.Return.Errors = true

	group, err := newConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, err
	}

	return &Consumer{
		group:   group,
		topics:  topics,
		handler: h,
		logger:  logger,
	}, nil
}

// Run consumes until ctx is done.
func (c *Consumer) Run(ctx context.Context) error {
	if c == nil {
		return nil
	}

	h := &groupHandler{c: c}
	go c.drainErrors(ctx)

	for {
		if err := c.group.Consume(ctx, c.topics, h); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Error("kafka consume error", logx.String("event", "kafka_consume_failed"), logx.Err(err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (c *Consumer) drainErrors(ctx context.Context) {
	errs := c.group.Errors()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-errs:
			if !ok {
				return
			}
			c.logger.Warn("kafka group error", logx.String("event", "kafka_group_error"), logx.Err(err))
		}
	}
}

// Close closes the consumer group.
func (c *Consumer) Close() error {
	if c == nil {
		return nil
	}
	return c.group.Close()
}

type groupHandler struct{ c *Consumer }

func (h *groupHandler) Setup(sess sarama.ConsumerGroupSession) error {
	h.c.logger.Info("kafka session started",
		logx.String("event", "kafka_session_started"),
		logx.String("member_id", sess.MemberID()),
		logx.Int("topics", len(sess.Claims())),
	)
	return nil
}

func (h *groupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (h *groupHandler) ConsumeClaim(sess sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		var dto EventDTO
		if err := json.Unmarshal(msg.Value, &dto); err != nil {
			h.c.logger.Warn("kafka bad json",
				logx.String("event", "kafka_bad_payload"),
				logx.String("topic", msg.Topic),
				logx.Err(err),
			)
			sess.MarkMessage(msg, "")
			continue
		}
		ev, reason := fromMessage(msg, dto)
		if reason != "" {
			h.c.logger.Warn("kafka invalid event",
				logx.String("event", "kafka_bad_payload"),
				logx.String("reason", reason),
				logx.String("id", ev.ID),
				logx.String("topic", msg.Topic),
			)
			sess.MarkMessage(msg, "")
			continue
		}

		if err := h.c.handler(sess.Context(), ev); err != nil {
			h.c.logger.Error("kafka handle failed, skipping message",
				logx.String("event", "kafka_handle_failed"),
				logx.String("id", ev.ID),
				logx.String("topic", string(ev.Topic)),
				logx.Err(err),
			)
		}

		sess.MarkMessage(msg, "")
	}
	return nil
}

// fromMessage builds the change event of msg. An event without a topic takes the one of the
// Kafka topic it arrived on; an event naming a different topic is rejected. A non-empty reason
// means the event must be skipped.
func fromMessage(msg *sarama.ConsumerMessage, dto EventDTO) (realtime.ChangeEvent, string) {
	ev := ToDomain(dto)
	carried := RealtimeTopic(msg.Topic)
	switch {
	case ev.Topic == "":
		ev.Topic = carried
	case carried != "" && ev.Topic != carried:
		return ev, "topic mismatch"
	}
	switch {
	case ev.ID == "":
		return ev, "missing id"
	case !ev.Topic.Valid():
		return ev, "unknown topic"
	case !ev.Type.Valid():
		return ev, "unknown type"
	}
	if ev.CommitTimestamp.IsZero() {
		ev.CommitTimestamp = msg.Timestamp.UTC()
	}
	return ev, ""
}
