package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yoga-intelligence-be/internal/model"
	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/internal/protocol"
	"yoga-intelligence-be/internal/repository/memory"
	"yoga-intelligence-be/pkg/consciousness"
	"yoga-intelligence-be/pkg/llm"
)

type fakeConn struct {
	in     chan []byte
	out    chan []byte
	closed chan struct{}
	once   sync.Once
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		in:     make(chan []byte, 16),
		out:    make(chan []byte, 64),
		closed: make(chan struct{}),
	}
}

func (f *fakeConn) ReadMessage() (int, []byte, error) {
	select {
	case m := <-f.in:
		return websocket.TextMessage, m, nil
	case <-f.closed:
		return 0, nil, io.EOF
	}
}

func (f *fakeConn) WriteMessage(mt int, data []byte) error {
	if mt != websocket.TextMessage {
		return nil
	}
	select {
	case <-f.closed:
		return errors.New("closed")
	default:
	}
	select {
	case f.out <- data:
		return nil
	case <-f.closed:
		return errors.New("closed")
	}
}

func (f *fakeConn) SetReadLimit(int64)                {}
func (f *fakeConn) SetReadDeadline(time.Time) error   { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetPongHandler(func(string) error) {}

func (f *fakeConn) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConn) isClosed() bool {
	select {
	case <-f.closed:
		return true
	default:
		return false
	}
}

func (f *fakeConn) send(t *testing.T, v any) {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	f.in <- raw
}

func (f *fakeConn) next(t *testing.T) protocol.Envelope {
	t.Helper()
	select {
	case raw := <-f.out:
		env, err := protocol.Decode(raw)
		require.NoError(t, err)
		return env
	case <-time.After(2 * time.Second):
		t.Fatal("no outbound message")
		return protocol.Envelope{}
	}
}

type echoPose struct {
	started chan string
	gate    chan struct{}
}

func (p echoPose) AnalyzeFrame(_ context.Context, _ string, payload string) protocol.PoseCorrection {
	if p.started != nil {
		p.started <- payload
	}
	if p.gate != nil {
		<-p.gate
	}
	return protocol.PoseCorrection{PoseDetected: true, DetectedPose: payload}
}

func (echoPose) Describe(string) string { return "" }

type echoConsciousness struct{}

func (echoConsciousness) Analyze(_ context.Context, _ string, s consciousness.Sample) protocol.ConsciousnessAnalysis {
	return protocol.ConsciousnessAnalysis{Snapshot: consciousness.Snapshot{PCIScore: s.Duration}}
}

type echoChat struct{}

func (echoChat) Reply(_ context.Context, _ string, text string) string { return "re: " + text }
func (echoChat) History(string) []llm.Message                          { return nil }

func startHub(t *testing.T, pose echoPose) (*Hub, *memory.SessionRepository) {
	t.Helper()
	registry := memory.NewSessionRepository(time.Hour)
	hub := NewHub(Services{Pose: pose, Consciousness: echoConsciousness{}, Chat: echoChat{}}, registry, nil, HubConfig{}, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, registry
}

func serve(hub *Hub, conn *fakeConn, sessionID string) chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ServeWs(hub, conn, sessionID, "127.0.0.1:5000")
	}()
	return done
}

func TestFrameSlotLatestWins(t *testing.T) {
	s := newFrameSlot()
	s.offer("a")
	s.offer("b")
	s.offer("c")

	f, ok := s.take()
	require.True(t, ok)
	assert.Equal(t, "c", f)
	assert.EqualValues(t, 2, s.drops())

	s.close()
	_, ok = s.take()
	assert.False(t, ok)
}

func TestSessionServesEveryStream(t *testing.T) {
	hub, registry := startHub(t, echoPose{})
	conn := newFakeConn()
	done := serve(hub, conn, "s-1")

	conn.send(t, map[string]any{"type": "pose_frame", "data": "frame-1"})
	conn.send(t, map[string]any{"type": "chat_message", "content": "hello"})
	conn.send(t, map[string]any{"type": "consciousness_data", "data": map[string]any{"duration": 12.0}})

	got := map[protocol.MessageType]protocol.Envelope{}
	for i := 0; i < 3; i++ {
		env := conn.next(t)
		got[env.Type] = env
	}

	var pc protocol.PoseCorrection
	require.NoError(t, got[protocol.MsgPoseCorrection].DecodeData(&pc))
	assert.Equal(t, "frame-1", pc.DetectedPose)

	var reply string
	require.NoError(t, got[protocol.MsgChatResponse].DecodeData(&reply))
	assert.Equal(t, "re: hello", reply)

	var analysis protocol.ConsciousnessAnalysis
	require.NoError(t, got[protocol.MsgConsciousnessAnalysis].DecodeData(&analysis))
	assert.Equal(t, 12.0, analysis.PCIScore)

	require.NoError(t, conn.Close())
	<-done

	assert.Eventually(t, func() bool {
		s, err := registry.Get(context.Background(), "s-1")
		return err == nil && s.State == model.SessionDisconnected
	}, 2*time.Second, 10*time.Millisecond)

	s, err := registry.Get(context.Background(), "s-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, s.FramesAnalyzed)
	assert.EqualValues(t, 1, s.ChatTurns)
	assert.Equal(t, 1, s.Connections)
	assert.Equal(t, 0, hub.Count())
}

func TestBadMessagesAreDroppedAndSessionContinues(t *testing.T) {
	hub, _ := startHub(t, echoPose{})
	conn := newFakeConn()
	done := serve(hub, conn, "s-2")

	conn.in <- []byte("not json")
	conn.send(t, map[string]any{"type": "bogus"})
	conn.send(t, map[string]any{"type": "pose_correction", "data": map[string]any{}})
	conn.send(t, map[string]any{"type": "consciousness_data", "data": "oops"})
	conn.send(t, map[string]any{"type": "chat_message", "content": "still here?"})

	env := conn.next(t)
	assert.Equal(t, protocol.MsgChatResponse, env.Type)
	assert.False(t, conn.isClosed())

	select {
	case extra := <-conn.out:
		t.Fatalf("unexpected outbound message %s", extra)
	case <-time.After(50 * time.Millisecond):
	}

	_ = conn.Close()
	<-done
}

func TestChatRepliesKeepOrder(t *testing.T) {
	hub, _ := startHub(t, echoPose{})
	conn := newFakeConn()
	done := serve(hub, conn, "s-3")

	for _, text := range []string{"one", "two", "three"} {
		conn.send(t, map[string]any{"type": "chat_message", "content": text})
	}
	for _, want := range []string{"re: one", "re: two", "re: three"} {
		var reply string
		require.NoError(t, conn.next(t).DecodeData(&reply))
		assert.Equal(t, want, reply)
	}

	_ = conn.Close()
	<-done
}

func TestBusyPoseWorkerKeepsLatestFrame(t *testing.T) {
	started := make(chan string, 4)
	gate := make(chan struct{})
	hub, _ := startHub(t, echoPose{started: started, gate: gate})
	conn := newFakeConn()
	done := serve(hub, conn, "s-4")

	conn.send(t, map[string]any{"type": "pose_frame", "data": "first"})
	select {
	case payload := <-started:
		require.Equal(t, "first", payload)
	case <-time.After(2 * time.Second):
		t.Fatal("pose worker never started")
	}

	conn.send(t, map[string]any{"type": "pose_frame", "data": "second"})
	conn.send(t, map[string]any{"type": "pose_frame", "data": "third"})
	conn.send(t, map[string]any{"type": "chat_message", "content": "sync"})

	var reply string
	require.NoError(t, conn.next(t).DecodeData(&reply))
	assert.Equal(t, "re: sync", reply)

	gate <- struct{}{}
	var first, latest protocol.PoseCorrection
	require.NoError(t, conn.next(t).DecodeData(&first))
	assert.Equal(t, "third", <-started)
	gate <- struct{}{}
	require.NoError(t, conn.next(t).DecodeData(&latest))
	assert.Equal(t, "first", first.DetectedPose)
	assert.Equal(t, "third", latest.DetectedPose)

	close(gate)
	_ = conn.Close()
	<-done
}

func TestReattachReplacesPreviousConnection(t *testing.T) {
	hub, registry := startHub(t, echoPose{})
	first := newFakeConn()
	firstDone := serve(hub, first, "s-5")
	assert.Eventually(t, func() bool { return hub.Attached("s-5") }, 2*time.Second, 5*time.Millisecond)

	second := newFakeConn()
	secondDone := serve(hub, second, "s-5")

	select {
	case <-firstDone:
	case <-time.After(2 * time.Second):
		t.Fatal("previous connection was not closed")
	}
	assert.True(t, first.isClosed())

	assert.Eventually(t, func() bool {
		s, err := registry.Get(context.Background(), "s-5")
		return err == nil && s.Connections == 2
	}, 2*time.Second, 10*time.Millisecond)

	second.send(t, map[string]any{"type": "chat_message", "content": "after"})
	assert.Equal(t, protocol.MsgChatResponse, second.next(t).Type)
	assert.Equal(t, 1, hub.Count())

	s, err := registry.Get(context.Background(), "s-5")
	require.NoError(t, err)
	assert.Equal(t, model.SessionConnected, s.State)

	_ = second.Close()
	<-secondDone
}
