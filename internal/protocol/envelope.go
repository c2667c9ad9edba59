// Package protocol defines the typed JSON messages exchanged over a yoga
// session connection.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MessageType identifies the kind of message.
type MessageType string

const (
	// Client → Server
	MsgPoseFrame         MessageType = "pose_frame"
	MsgChatMessage       MessageType = "chat_message"
	MsgConsciousnessData MessageType = "consciousness_data"

	// Server → Client
	MsgPoseCorrection        MessageType = "pose_correction"
	MsgChatResponse          MessageType = "chat_response"
	MsgConsciousnessAnalysis MessageType = "consciousness_analysis"
)

// Stream groups message types whose relative order must be preserved.
type Stream int

const (
	StreamNone Stream = iota
	StreamPose
	StreamChat
	StreamConsciousness
)

func (s Stream) String() string {
	switch s {
	case StreamPose:
		return "pose"
	case StreamChat:
		return "chat"
	case StreamConsciousness:
		return "consciousness"
	default:
		return "none"
	}
}

var (
	ErrMalformed   = errors.New("malformed message")
	ErrUnknownType = errors.New("unknown message type")
)

// Envelope wraps all protocol messages. chat_message carries its text in
// Content, every other type in Data.
type Envelope struct {
	Type    MessageType     `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Content string          `json:"content,omitempty"`
}

// StreamOf maps a message type to its ordering stream.
func StreamOf(t MessageType) Stream {
	switch t {
	case MsgPoseFrame, MsgPoseCorrection:
		return StreamPose
	case MsgChatMessage, MsgChatResponse:
		return StreamChat
	case MsgConsciousnessData, MsgConsciousnessAnalysis:
		return StreamConsciousness
	default:
		return StreamNone
	}
}

// Decode parses one frame. For an unknown type the envelope is still returned
// alongside ErrUnknownType so the caller can log what it dropped.
func Decode(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Type == "" {
		return Envelope{}, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	if StreamOf(env.Type) == StreamNone {
		return env, fmt.Errorf("%w: %q", ErrUnknownType, env.Type)
	}
	return env, nil
}

func (e Envelope) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeData unmarshals the data field into v.
func (e Envelope) DecodeData(v any) error {
	if len(e.Data) == 0 {
		return fmt.Errorf("%w: %s without data", ErrMalformed, e.Type)
	}
	if err := json.Unmarshal(e.Data, v); err != nil {
		return fmt.Errorf("%w: %s data: %v", ErrMalformed, e.Type, err)
	}
	return nil
}

// Text returns the string body of chat and frame messages. chat_message prefers
// Content and also accepts a string in Data.
func (e Envelope) Text() (string, error) {
	if e.Type == MsgChatMessage && e.Content != "" {
		return e.Content, nil
	}
	var s string
	if err := e.DecodeData(&s); err != nil {
		return "", err
	}
	return s, nil
}

func newEnvelope(t MessageType, data any) (Envelope, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s: %w", t, err)
	}
	return Envelope{Type: t, Data: raw}, nil
}
