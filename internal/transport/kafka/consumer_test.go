package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"fleet-platform/internal/realtime"
	testlog "fleet-platform/internal/testutil"
)

type fakeGroup struct {
	consumed chan []string
	closed   bool
}

func (g *fakeGroup) Consume(ctx context.Context, topics []string, _ sarama.ConsumerGroupHandler) error {
	select {
	case g.consumed <- topics:
	default:
	}
	<-ctx.Done()
	return nil
}
func (g *fakeGroup) Errors() <-chan error {
	ch := make(chan error)
	close(ch)
	return ch
}
func (g *fakeGroup) Close() error              { g.closed = true; return nil }
func (g *fakeGroup) Pause(map[string][]int32)  {}
func (g *fakeGroup) Resume(map[string][]int32) {}
func (g *fakeGroup) PauseAll()                 {}
func (g *fakeGroup) ResumeAll()                {}

func noopHandle(context.Context, realtime.ChangeEvent) error { return nil }

func TestNewConsumer_SkipsWhenNoKafkaConfig(t *testing.T) {
	t.Parallel()

	rec := testlog.New()

	got, err := NewConsumer(rec.Logger(), nil, "gid", KafkaTopics(), noopHandle)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewConsumer(rec.Logger(), []string{"b:9092"}, "", KafkaTopics(), nil)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewConsumer(rec.Logger(), []string{"b:9092"}, "gid", nil, nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestNewConsumer_ReturnsErrorWhenSaramaFails(t *testing.T) {
	orig := newConsumerGroup
	t.Cleanup(func() { newConsumerGroup = orig })

	sentinel := errors.New("boom")
	newConsumerGroup = func(_ []string, _ string, _ *sarama.Config) (sarama.ConsumerGroup, error) {
		return nil, sentinel
	}

	rec := testlog.New()
	got, err := NewConsumer(rec.Logger(), []string{"b:9092"}, "gid", KafkaTopics(), nil)
	require.ErrorIs(t, err, sentinel)
	require.Nil(t, got)
}

func TestConsumer_RunStopsOnContext(t *testing.T) {
	t.Parallel()

	g := &fakeGroup{consumed: make(chan []string, 1)}
	c := &Consumer{group: g, topics: KafkaTopics(), handler: noopHandle, logger: testlog.New().Logger()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	topics := <-g.consumed
	require.Contains(t, topics, "fleet.trip_updates")
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	require.NoError(t, c.Close())
	require.True(t, g.closed)
}

func TestConsumer_NilIsNoop(t *testing.T) {
	t.Parallel()

	var c *Consumer
	require.NoError(t, c.Run(context.Background()))
	require.NoError(t, c.Close())
}

func TestNewConsumer_ConfiguresGroup(t *testing.T) {
	orig := newConsumerGroup
	t.Cleanup(func() { newConsumerGroup = orig })

	var got *sarama.Config
	newConsumerGroup = func(brokers []string, group string, cfg *sarama.Config) (sarama.ConsumerGroup, error) {
		require.Equal(t, []string{"b:9092"}, brokers)
		require.Equal(t, "fleet-realtime-1", group)
		got = cfg
		return &fakeGroup{}, nil
	}

	c, err := NewConsumer(testlog.New().Logger(), []string{"b:9092"}, "fleet-realtime-1", KafkaTopics(), noopHandle)
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Equal(t, "fleet-platform", got.ClientID)
	require.Equal(t, sarama.OffsetNewest, got.Consumer.Offsets.Initial)
	require.True(t, got.Consumer.Return.Errors)
}

type erroringGroup struct {
	fakeGroup
	errs chan error
}

func (g *erroringGroup) Errors() <-chan error { return g.errs }

func TestConsumer_LogsGroupErrors(t *testing.T) {
	t.Parallel()

	g := &erroringGroup{fakeGroup: fakeGroup{consumed: make(chan []string, 1)}, errs: make(chan error, 1)}
	g.errs <- errors.New("rebalance failed")
	rec := testlog.New()
	c := &Consumer{group: g, topics: KafkaTopics(), handler: noopHandle, logger: rec.Logger()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()

	<-g.consumed
	require.Eventually(t, func() bool {
		_, ok := rec.Find("kafka group error")
		return ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}
