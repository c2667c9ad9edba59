package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"time"

	"github.com/fasthttp/websocket"

	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/internal/protocol"
	"yoga-intelligence-be/pkg/consciousness"
	"yoga-intelligence-be/pkg/llm"
)

var (
	ErrNotConnected = errors.New("session not connected")
	ErrQueueFull    = errors.New("outbound queue full")
	ErrClosed       = errors.New("multiplexer closed")
	ErrFrameBusy    = errors.New("pose frame in flight")
)

const (
	DefaultReconnectDelay = 3 * time.Second
	DefaultFrameTimeout   = 5 * time.Second
	DefaultReadTimeout    = 60 * time.Second
	DefaultWriteTimeout   = 10 * time.Second
	defaultQueueSize      = 16
)

type Options struct {
	Endpoint       string
	ReconnectDelay time.Duration
	// FrameTimeout releases the in-flight frame when no pose_correction arrives.
	FrameTimeout time.Duration
	// ReadTimeout is how long the connection may stay silent. Any message,
	// ping or pong extends it; on expiry the connection is dropped and redialed.
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	QueueSize    int
}

// Handlers receive inbound results on the reader goroutine. Any may be nil.
type Handlers struct {
	OnPose          func(protocol.PoseCorrection)
	OnChat          func(string)
	OnConsciousness func(protocol.ConsciousnessAnalysis)
	OnState         func(State)
}

type TranscriptEntry struct {
	Role string    `json:"role"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type Stats struct {
	State         State
	Connects      int
	FramesSent    int64
	FramesDropped int64
}

// Multiplexer carries the three session streams over one connection that it
// keeps reconnecting with the same endpoint. Only its writer goroutine writes
// to the connection.
type Multiplexer struct {
	opts     Options
	dialer   Dialer
	handlers Handlers
	logger   logger.ILogger

	frameQ chan []byte
	chatQ  chan []byte
	bioQ   chan []byte
	done   chan struct{}

	closeOnce sync.Once

	mu          sync.Mutex
	state       State
	frameBusy   bool
	frameSentAt time.Time
	stats       Stats
	transcript  []TranscriptEntry
	now         func() time.Time
}

func NewMultiplexer(opts Options, dialer Dialer, handlers Handlers, log logger.ILogger) *Multiplexer {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	if opts.FrameTimeout <= 0 {
		opts.FrameTimeout = DefaultFrameTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}
	if opts.WriteTimeout <= 0 {
		opts.WriteTimeout = DefaultWriteTimeout
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = defaultQueueSize
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Multiplexer{
		opts:     opts,
		dialer:   dialer,
		handlers: handlers,
		logger:   log,
		frameQ:   make(chan []byte, 1),
		chatQ:    make(chan []byte, opts.QueueSize),
		bioQ:     make(chan []byte, opts.QueueSize),
		done:     make(chan struct{}),
		state:    StateDisconnected,
		now:      time.Now,
	}
}

// Run connects and reconnects until ctx is cancelled or Close is called.
// Retries are unlimited with a fixed delay.
func (m *Multiplexer) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-m.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	defer m.setState(StateClosed)

	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return nil
		}

		m.setState(StateConnecting)
		conn, err := m.dialer.Dial(ctx, m.opts.Endpoint)
		if err != nil {
			m.setState(StateDisconnected)
			m.logger.Warn("Multiplexer", "Connect failed, retrying", map[string]interface{}{
				"endpoint": m.opts.Endpoint,
				"attempt":  attempt,
				"delay":    m.opts.ReconnectDelay.String(),
				"error":    err.Error(),
			})
		} else {
			attempt = 0
			m.mu.Lock()
			m.stats.Connects++
			m.mu.Unlock()
			m.setState(StateConnected)
			m.logger.Info("Multiplexer", "Connected", map[string]interface{}{"endpoint": m.opts.Endpoint})

			m.serve(ctx, conn)
			m.disconnected()
			m.logger.Warn("Multiplexer", "Disconnected", map[string]interface{}{"endpoint": m.opts.Endpoint})
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(m.opts.ReconnectDelay):
		}
	}
}

// Close stops Run and makes every Send fail with ErrClosed.
func (m *Multiplexer) Close() {
	m.closeOnce.Do(func() { close(m.done) })
}

func (m *Multiplexer) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Multiplexer) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.State = m.state
	return s
}

// Transcript returns the chat turns sent and received so far.
func (m *Multiplexer) Transcript() []TranscriptEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]TranscriptEntry(nil), m.transcript...)
}

// SendFrame offers a pose frame. While a frame is in flight the new one is
// dropped and counted.
func (m *Multiplexer) SendFrame(payload string) error {
	env, err := protocol.NewPoseFrame(payload)
	if err != nil {
		return err
	}
	raw, err := env.Encode()
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.sendableLocked(); err != nil {
		return err
	}
	now := m.now()
	if m.frameBusy && now.Sub(m.frameSentAt) < m.opts.FrameTimeout {
		m.stats.FramesDropped++
		return ErrFrameBusy
	}
	if m.frameBusy {
		m.logger.Warn("Multiplexer", "No pose correction before timeout, releasing frame slot", map[string]interface{}{"timeout": m.opts.FrameTimeout.String()})
	}
	select {
	case m.frameQ <- raw:
	default:
		m.stats.FramesDropped++
		return ErrFrameBusy
	}
	m.frameBusy = true
	m.frameSentAt = now
	m.stats.FramesSent++
	return nil
}

func (m *Multiplexer) SendChat(text string) error {
	raw, err := protocol.NewChatMessage(text).Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.enqueueLocked(m.chatQ, raw); err != nil {
		return err
	}
	m.transcript = append(m.transcript, TranscriptEntry{Role: llm.RoleUser, Text: text, At: m.now()})
	return nil
}

func (m *Multiplexer) SendBiosignal(sample consciousness.Sample) error {
	env, err := protocol.NewConsciousnessData(sample)
	if err != nil {
		return err
	}
	raw, err := env.Encode()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enqueueLocked(m.bioQ, raw)
}

func (m *Multiplexer) enqueueLocked(q chan []byte, raw []byte) error {
	if err := m.sendableLocked(); err != nil {
		return err
	}
	select {
	case q <- raw:
		return nil
	default:
		return ErrQueueFull
	}
}

func (m *Multiplexer) sendableLocked() error {
	select {
	case <-m.done:
		return ErrClosed
	default:
	}
	switch m.state {
	case StateConnected:
		return nil
	case StateClosed:
		return ErrClosed
	default:
		return ErrNotConnected
	}
}

// serve runs the writer and reader for one connection and returns when
// either side fails or ctx is cancelled.
func (m *Multiplexer) serve(ctx context.Context, conn Conn) {
	connCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer cancel()
		m.writeLoop(connCtx, conn)
	}()
	go func() {
		defer wg.Done()
		defer cancel()
		m.readLoop(conn)
	}()

	<-connCtx.Done()
	_ = conn.Close()
	wg.Wait()
}

func (m *Multiplexer) writeLoop(ctx context.Context, conn Conn) {
	ticker := time.NewTicker(max(m.opts.ReadTimeout*9/10, time.Millisecond))
	defer ticker.Stop()

	for {
		var raw []byte
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(m.opts.WriteTimeout))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(m.opts.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				m.logger.Warn("Multiplexer", "Ping failed", map[string]interface{}{"error": err.Error()})
				return
			}
			continue
		case raw = <-m.frameQ:
		case raw = <-m.chatQ:
		case raw = <-m.bioQ:
		}
		_ = conn.SetWriteDeadline(time.Now().Add(m.opts.WriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			m.logger.Warn("Multiplexer", "Write failed", map[string]interface{}{"error": err.Error()})
			return
		}
	}
}

func (m *Multiplexer) readLoop(conn Conn) {
	extend := func() { _ = conn.SetReadDeadline(time.Now().Add(m.opts.ReadTimeout)) }
	extend()
	conn.SetPongHandler(func(string) error {
		extend()
		return nil
	})
	conn.SetPingHandler(func(appData string) error {
		extend()
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(m.opts.WriteTimeout))
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		var ne net.Error
		if errors.As(err, &ne) && ne.Timeout() {
			return nil
		}
		return err
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				m.logger.Warn("Multiplexer", "Connection silent, dropping it", map[string]interface{}{"timeout": m.opts.ReadTimeout.String()})
			}
			return
		}
		extend()
		m.dispatch(raw)
	}
}

func (m *Multiplexer) dispatch(raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		m.logger.Warn("Multiplexer", "Dropping inbound message", map[string]interface{}{"type": env.Type, "error": err.Error()})
		return
	}

	switch env.Type {
	case protocol.MsgPoseCorrection:
		var pc protocol.PoseCorrection
		err = env.DecodeData(&pc)
		m.mu.Lock()
		m.frameBusy = false
		m.mu.Unlock()
		if err == nil && m.handlers.OnPose != nil {
			m.handlers.OnPose(pc)
		}

	case protocol.MsgChatResponse:
		var text string
		if err = env.DecodeData(&text); err == nil {
			m.mu.Lock()
			m.transcript = append(m.transcript, TranscriptEntry{Role: llm.RoleAssistant, Text: text, At: m.now()})
			m.mu.Unlock()
			if m.handlers.OnChat != nil {
				m.handlers.OnChat(text)
			}
		}

	case protocol.MsgConsciousnessAnalysis:
		var analysis protocol.ConsciousnessAnalysis
		if err = env.DecodeData(&analysis); err == nil && m.handlers.OnConsciousness != nil {
			m.handlers.OnConsciousness(analysis)
		}

	default:
		err = protocol.ErrUnknownType
	}

	if err != nil {
		m.logger.Warn("Multiplexer", "Dropping inbound message", map[string]interface{}{"type": env.Type, "error": err.Error()})
	}
}

// disconnected discards everything still queued for the dead connection.
func (m *Multiplexer) disconnected() {
	m.mu.Lock()
	m.frameBusy = false
	for _, q := range []chan []byte{m.frameQ, m.chatQ, m.bioQ} {
	drain:
		for {
			select {
			case <-q:
			default:
				break drain
			}
		}
	}
	changed := m.state == StateConnected
	if changed {
		m.state = StateDisconnected
	}
	m.mu.Unlock()

	if changed && m.handlers.OnState != nil {
		m.handlers.OnState(StateDisconnected)
	}
}

func (m *Multiplexer) setState(s State) {
	m.mu.Lock()
	if m.state == s || m.state == StateClosed {
		m.mu.Unlock()
		return
	}
	m.state = s
	m.mu.Unlock()

	if m.handlers.OnState != nil {
		m.handlers.OnState(s)
	}
}
