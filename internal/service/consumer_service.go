package service

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"

	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/pkg/events"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
	Counts() map[string]int64
}

// EventSink receives every session event seen on the in-process bus, e.g. the
// NATS publisher.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	sink       EventSink
	logger     logger.ILogger

	mu     sync.Mutex
	counts map[string]int64
}

// NewConsumerService tallies session events by type and forwards them to sink
// when one is configured.
func NewConsumerService(subscriber message.Subscriber, topicName string, sink EventSink, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		sink:       sink,
		logger:     log,
		counts:     make(map[string]int64),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Events are at-most-once: every message is acked, failures are only logged.
	defer msg.Ack()

	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Warn("EventConsumer", "Dropping undecodable event", map[string]interface{}{"error": err.Error(), "uuid": msg.UUID})
		return
	}

	cs.mu.Lock()
	cs.counts[event.Type]++
	cs.mu.Unlock()

	if cs.sink == nil {
		return
	}
	if err := cs.sink.Publish(ctx, event); err != nil {
		cs.logger.Warn("EventConsumer", "Failed to forward event", map[string]interface{}{
			"error":      err.Error(),
			"type":       event.Type,
			"session_id": event.SessionID,
		})
	}
}

func (cs *consumerService) Counts() map[string]int64 {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	out := make(map[string]int64, len(cs.counts))
	for k, v := range cs.counts {
		out[k] = v
	}
	return out
}
