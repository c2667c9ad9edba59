package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8000", cfg.App.Port)
	assert.Equal(t, time.Hour, cfg.App.SessionStateTTL)
	assert.Equal(t, 2*1024*1024, cfg.WebSocket.ReadLimit)
	assert.Equal(t, 15.0, cfg.Pose.CorrectionThreshold)
	assert.Equal(t, 3840*2160, cfg.Pose.MaxDecodePixels)
	assert.Equal(t, 640, cfg.Pose.FrameMaxWidth)
	assert.Equal(t, 0.8, cfg.Consciousness.SmoothingFactor)
	assert.Equal(t, 30*time.Second, cfg.Ai.ChatTimeout)
	assert.False(t, cfg.Tracing.Enabled)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "9100")
	t.Setenv("GO_ENV", "production")
	t.Setenv("POSE_SMOOTHING_FACTOR", "0.5")
	t.Setenv("CHAT_TIMEOUT", "5s")
	t.Setenv("CHAT_HISTORY_TURNS", "4")
	t.Setenv("OTEL_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, "9100", cfg.App.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 0.5, cfg.Pose.SmoothingFactor)
	assert.Equal(t, 5*time.Second, cfg.Ai.ChatTimeout)
	assert.Equal(t, 4, cfg.Ai.HistoryTurns)
	assert.True(t, cfg.Tracing.Enabled)
}

func TestMalformedValuesFallBack(t *testing.T) {
	t.Setenv("WS_READ_LIMIT", "lots")
	t.Setenv("POSE_GOOD_FORM_THRESHOLD", "high")
	t.Setenv("SESSION_STATE_TTL", "-5m")
	t.Setenv("OTEL_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, 2*1024*1024, cfg.WebSocket.ReadLimit)
	assert.Equal(t, 90.0, cfg.Pose.GoodFormThreshold)
	assert.Equal(t, time.Hour, cfg.App.SessionStateTTL)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadClient(t *testing.T) {
	t.Setenv("RECONNECT_DELAY", "250ms")
	t.Setenv("FRAME_RATE", "10")

	cfg := LoadClient()
	assert.Equal(t, "ws://localhost:8000", cfg.ServerURL)
	assert.Equal(t, 250*time.Millisecond, cfg.ReconnectDelay)
	assert.Equal(t, 10, cfg.FrameRate)
	assert.Equal(t, 5*time.Second, cfg.FrameTimeout)
	assert.Equal(t, 5*time.Second, cfg.BiosignalInterval)
}
