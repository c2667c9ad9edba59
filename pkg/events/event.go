package events

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	SessionConnected      = "session_connected"
	SessionDisconnected   = "session_disconnected"
	PoseAnalyzed          = "pose_analyzed"
	ConsciousnessAnalyzed = "consciousness_analyzed"
	ChatAnswered          = "chat_answered"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "pose_analyzed").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the one concrete event the system emits. SessionID is empty
// for process level events.
type BaseEvent struct {
	Type       string                 `json:"type"`
	SessionID  string                 `json:"session_id,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func NewSessionEvent(eventType, sessionID string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		SessionID:  sessionID,
		Data:       data,
		OccurredAt: time.Now().UTC(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Subject is the bus subject an event is routed on.
func Subject(eventType string) string {
	return "events." + eventType
}

// Encode serializes any Event into the wire form shared by every transport.
func Encode(e Event) ([]byte, error) {
	be, ok := e.(BaseEvent)
	if !ok {
		be = BaseEvent{Type: e.EventType(), Data: e.Payload(), OccurredAt: e.Timestamp()}
	}
	return json.Marshal(be)
}

func Decode(raw []byte) (BaseEvent, error) {
	var e BaseEvent
	if err := json.Unmarshal(raw, &e); err != nil {
		return BaseEvent{}, fmt.Errorf("decode event: %w", err)
	}
	if e.Type == "" {
		return BaseEvent{}, fmt.Errorf("decode event: missing type")
	}
	return e, nil
}
