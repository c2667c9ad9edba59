package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/pkg/events"
)

type failingSink struct{}

func (failingSink) Publish(context.Context, events.Event) error { return errors.New("nats down") }

func TestPublisherToConsumerForwardsEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	sink := &recordingPublisher{}
	consumer := NewConsumerService(bus, "session_events", sink, logger.NewNop())
	require.NoError(t, consumer.Consume(ctx))

	pub := NewPublisherService("session_events", bus)
	require.NoError(t, pub.Publish(ctx, events.NewSessionEvent(events.SessionConnected, "s1", nil)))
	require.NoError(t, pub.Publish(ctx, events.NewSessionEvent(events.PoseAnalyzed, "s1", map[string]interface{}{"quality_score": 80.0})))

	assert.Eventually(t, func() bool { return len(sink.types()) == 2 }, time.Second, 5*time.Millisecond)
	assert.ElementsMatch(t, []string{events.SessionConnected, events.PoseAnalyzed}, sink.types())
	assert.Equal(t, map[string]int64{events.SessionConnected: 1, events.PoseAnalyzed: 1}, consumer.Counts())

	for _, e := range sink.events {
		assert.Equal(t, "s1", e.(events.BaseEvent).SessionID)
	}
}

func TestConsumerSurvivesSinkFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer bus.Close()

	consumer := NewConsumerService(bus, "topic", failingSink{}, logger.NewNop())
	require.NoError(t, consumer.Consume(ctx))

	pub := NewPublisherService("topic", bus)
	for i := 0; i < 3; i++ {
		require.NoError(t, pub.Publish(ctx, events.NewSessionEvent(events.ChatAnswered, "s", nil)))
	}
	assert.Eventually(t, func() bool { return consumer.Counts()[events.ChatAnswered] == 3 }, time.Second, 5*time.Millisecond)
}

func TestNopPublisher(t *testing.T) {
	assert.NoError(t, NewNopPublisher().Publish(context.Background(), events.NewSessionEvent("x", "", nil)))
}
