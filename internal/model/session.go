package model

import "time"

type SessionState string

const (
	SessionConnected    SessionState = "connected"
	SessionDisconnected SessionState = "disconnected"
)

// Session is the server's record of one client session. The ID is chosen by
// the client and survives reconnects, so Connections counts how many times
// the same session attached.
type Session struct {
	ID             string       `json:"id"`
	State          SessionState `json:"state"`
	RemoteAddr     string       `json:"remote_addr,omitempty"`
	Connections    int          `json:"connections"`
	FramesAnalyzed int64        `json:"frames_analyzed"`
	FramesDropped  int64        `json:"frames_dropped"`
	ChatTurns      int64        `json:"chat_turns"`
	CreatedAt      time.Time    `json:"created_at"`
	LastSeen       time.Time    `json:"last_seen"`
}
