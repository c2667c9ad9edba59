package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFacadeFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewWithCore(core)

	l.Info("websocket", "session connected", map[string]interface{}{"session_id": "abc"})
	l.Debug("pose", "frame dropped", nil)
	l.Error("chat", "llm failed", map[string]interface{}{"error": errors.New("timeout")})

	entries := logs.All()
	require.Len(t, entries, 3)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "websocket", ctx["module"])
	assert.Equal(t, map[string]interface{}{"session_id": "abc"}, ctx["details"])

	assert.Equal(t, map[string]interface{}{}, entries[1].ContextMap()["details"])
	assert.Equal(t, "timeout", entries[2].ContextMap()["error"])
}

func TestIsolatedLoggerWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.log")
	l := NewIsolatedLogger(path)
	l.Info("websocket", "hello", nil)
	l.Debug("websocket", "below file level", nil)
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"message":"hello"`)
	assert.NotContains(t, string(raw), "below file level")
}

func TestNop(t *testing.T) {
	l := NewNop()
	l.Warn("x", "y", nil)
	assert.NotNil(t, l.Zap())
}
