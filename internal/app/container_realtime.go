package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"fleet-platform/internal/config"
	"fleet-platform/internal/logx"
	"fleet-platform/internal/metrics"
	"fleet-platform/internal/realtime"
	"fleet-platform/internal/transport/kafka"
	"fleet-platform/internal/transport/rabbitmq"
)

var (
	newKafkaProducer = kafka.NewProducer
	newKafkaConsumer = kafka.NewConsumer
	dialRabbitMQ     = rabbitmq.Dial
)

// broker carries change events between instances. For the local kind it is the hub itself
// and consume is nil.
type broker struct {
	kind      string
	publisher realtime.Publisher
	consume   func(context.Context) error
	closers   []func() error
}

// Run feeds remote events into the hub until ctx is done.
func (b *broker) Run(ctx context.Context) error {
	if b == nil || b.consume == nil {
		<-ctx.Done()
		return ctx.Err()
	}
	return b.consume(ctx)
}

// Close releases the broker connections in reverse order of creation.
func (b *broker) Close(logger logx.Logger) {
	if b == nil {
		return
	}
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			logger.Error("broker close error", logx.String("broker", b.kind), logx.Err(err))
		}
	}
}

func dispatchTo(hub *realtime.Hub) func(context.Context, realtime.ChangeEvent) error {
	return func(_ context.Context, ev realtime.ChangeEvent) error {
		hub.Dispatch(ev)
		return nil
	}
}

func newBroker(cfg *config.Config, hub *realtime.Hub, logger logx.Logger) (*broker, error) {
	rt := cfg.Realtime
	switch rt.Broker {
	case "", config.BrokerLocal:
		return &broker{kind: config.BrokerLocal, publisher: hub}, nil

	case config.BrokerKafka:
		producer, err := newKafkaProducer(rt.KafkaBrokers)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		// every instance needs every event for its own websocket clients
		groupID := rt.KafkaGroupID + "-" + uuid.NewString()
		consumer, err := newKafkaConsumer(logger, rt.KafkaBrokers, groupID, kafka.KafkaTopics(), kafka.HandleFunc(dispatchTo(hub)))
		if err != nil {
			_ = producer.Close()
			return nil, fmt.Errorf("kafka consumer: %w", err)
		}
		if consumer == nil {
			_ = producer.Close()
			return nil, errors.New("kafka consumer: not configured")
		}
		return &broker{
			kind:      config.BrokerKafka,
			publisher: producer,
			consume:   consumer.Run,
			closers:   []func() error{producer.Close, consumer.Close},
		}, nil

	case config.BrokerRabbitMQ:
		conn, ch, err := dialRabbitMQ(rt.AMQPURL)
		if err != nil {
			return nil, err
		}
		publisher, err := rabbitmq.NewPublisher(ch, rt.AMQPExchange)
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		consumeCh, err := conn.Channel()
		if err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("rabbitmq consumer channel: %w", err)
		}
		consumer, err := rabbitmq.NewConsumer(consumeCh, rt.AMQPExchange, logger, rabbitmq.HandleFunc(dispatchTo(hub)))
		if err != nil {
			_ = conn.Close()
			return nil, err
		}
		return &broker{
			kind:      config.BrokerRabbitMQ,
			publisher: publisher,
			consume:   consumer.Run,
			closers:   []func() error{conn.Close, consumer.Close, publisher.Close},
		}, nil

	default:
		return nil, fmt.Errorf("unknown realtime broker %q", rt.Broker)
	}
}

type publisherIn struct {
	dig.In

	Config  *config.Config
	Broker  *broker
	Logger  logx.Logger
	Retries prometheus.Counter `name:"realtime_publish_retries_total"`
}

// newPublisher wraps remote brokers in a RetryingPublisher. The local hub never fails transiently.
func newPublisher(in publisherIn) realtime.Publisher {
	if in.Broker.kind == config.BrokerLocal {
		return in.Broker.publisher
	}
	return realtime.NewRetryingPublisher(in.Broker.publisher, in.Logger, in.Retries, realtime.RetryConfig{
		MaxAttempts: in.Config.Realtime.PublishTries,
		BaseDelay:   in.Config.Realtime.PublishDelay,
		MaxDelay:    8 * in.Config.Realtime.PublishDelay,
	})
}

func registerRealtime(container *dig.Container) error {
	return provideAll(container,
		func(topics *metrics.TopicCounter) *realtime.Hub { return realtime.NewHub(topics) },
		newBroker,
		newPublisher,
		func(cfg *config.Config) realtime.Classifier {
			return realtime.Classifier{HighAmount: cfg.Payment.HighAmountThreshold}
		},
	)
}
