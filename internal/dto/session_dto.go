package dto

import "time"

type SessionResponse struct {
	ID             string    `json:"id"`
	State          string    `json:"state"`
	Attached       bool      `json:"attached"`
	Connections    int       `json:"connections"`
	FramesAnalyzed int64     `json:"frames_analyzed"`
	FramesDropped  int64     `json:"frames_dropped"`
	ChatTurns      int64     `json:"chat_turns"`
	CreatedAt      time.Time `json:"created_at"`
	LastSeen       time.Time `json:"last_seen"`
}

type HealthResponse struct {
	Status         string           `json:"status"`
	Services       map[string]bool  `json:"services"`
	ActiveSessions int              `json:"active_sessions"`
	Events         map[string]int64 `json:"events,omitempty"`
}
