package websocket

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/websocket/v2"

	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/internal/protocol"
	"yoga-intelligence-be/pkg/consciousness"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	chatQueueSize      = 16
	biosignalQueueSize = 8
	sendBufferSize     = 64
)

// Conn is the subset of *websocket.Conn the session needs.
type Conn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteMessage(messageType int, data []byte) error
	SetReadLimit(limit int64)
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetPongHandler(h func(appData string) error)
	Close() error
}

// Client is one attached session. Each inbound stream has its own worker so a
// slow chat reply never delays pose feedback; order inside a stream is kept.
type Client struct {
	Hub        *Hub
	Conn       Conn
	SessionID  string
	RemoteAddr string

	// Buffered channel of outbound messages. Only writePump touches Conn writes.
	Send chan []byte

	services Services
	logger   logger.ILogger

	frames    *frameSlot
	chat      chan string
	biosignal chan consciousness.Sample

	ctx    context.Context
	cancel context.CancelFunc

	framesAnalyzed atomic.Int64
	chatTurns      atomic.Int64
	closeOnce      sync.Once
}

func newClient(hub *Hub, conn Conn, sessionID, remoteAddr string) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		Hub:        hub,
		Conn:       conn,
		SessionID:  sessionID,
		RemoteAddr: remoteAddr,
		Send:       make(chan []byte, sendBufferSize),
		services:   hub.services,
		logger:     hub.logger,
		frames:     newFrameSlot(),
		chat:       make(chan string, chatQueueSize),
		biosignal:  make(chan consciousness.Sample, biosignalQueueSize),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// shutdown stops the workers and closes the connection. Safe to call twice.
func (c *Client) shutdown() {
	c.closeOnce.Do(func() {
		c.cancel()
		c.frames.close()
		_ = c.Conn.Close()
	})
}

// readPump pumps messages from the websocket connection to the stream workers.
func (c *Client) readPump() {
	c.Conn.SetReadLimit(c.Hub.cfg.ReadLimit)
	_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("Client", "Unexpected close", map[string]interface{}{"session_id": c.SessionID, "error": err.Error()})
			}
			return
		}
		_ = c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.dispatch(raw)
	}
}

func (c *Client) dispatch(raw []byte) {
	env, err := protocol.Decode(raw)
	if err != nil {
		c.drop(string(env.Type), err)
		return
	}

	switch env.Type {
	case protocol.MsgPoseFrame:
		payload, err := env.Text()
		if err != nil {
			c.drop(string(env.Type), err)
			return
		}
		c.frames.offer(payload)

	case protocol.MsgChatMessage:
		text, err := env.Text()
		if err != nil && len(env.Data) > 0 {
			c.drop(string(env.Type), err)
			return
		}
		select {
		case c.chat <- text:
		default:
			c.logger.Warn("Client", "Chat queue full, dropping message", map[string]interface{}{"session_id": c.SessionID})
		}

	case protocol.MsgConsciousnessData:
		var sample consciousness.Sample
		if err := env.DecodeData(&sample); err != nil {
			c.drop(string(env.Type), err)
			return
		}
		select {
		case c.biosignal <- sample:
		default:
			c.logger.Warn("Client", "Biosignal queue full, dropping sample", map[string]interface{}{"session_id": c.SessionID})
		}

	default:
		c.logger.Warn("Client", "Dropping server-bound message type from client", map[string]interface{}{
			"session_id": c.SessionID,
			"type":       env.Type,
		})
	}
}

func (c *Client) drop(msgType string, err error) {
	c.logger.Warn("Client", "Dropping inbound message", map[string]interface{}{
		"session_id": c.SessionID,
		"type":       msgType,
		"error":      err.Error(),
	})
}

func (c *Client) poseWorker() {
	for {
		payload, ok := c.frames.take()
		if !ok {
			return
		}
		result := c.services.Pose.AnalyzeFrame(c.ctx, c.SessionID, payload)
		c.framesAnalyzed.Add(1)
		c.emit(protocol.NewPoseCorrection(result))
	}
}

func (c *Client) chatWorker() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case text := <-c.chat:
			reply := c.services.Chat.Reply(c.ctx, c.SessionID, text)
			c.chatTurns.Add(1)
			c.emit(protocol.NewChatResponse(reply))
		}
	}
}

func (c *Client) biosignalWorker() {
	for {
		select {
		case <-c.ctx.Done():
			return
		case sample := <-c.biosignal:
			analysis := c.services.Consciousness.Analyze(c.ctx, c.SessionID, sample)
			c.emit(protocol.NewConsciousnessAnalysis(analysis))
		}
	}
}

func (c *Client) emit(env protocol.Envelope, err error) {
	if err != nil {
		c.logger.Error("Client", "Failed to build outbound message", map[string]interface{}{"session_id": c.SessionID, "error": err})
		return
	}
	raw, err := env.Encode()
	if err != nil {
		c.logger.Error("Client", "Failed to encode outbound message", map[string]interface{}{"session_id": c.SessionID, "error": err})
		return
	}
	select {
	case c.Send <- raw:
	case <-c.ctx.Done():
	}
}

// writePump pumps messages from the workers to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.shutdown()
	}()

	for {
		select {
		case <-c.ctx.Done():
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.Conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case message := <-c.Send:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("Client", "Write failed", map[string]interface{}{"session_id": c.SessionID, "error": err.Error()})
				return
			}

		case <-ticker.C:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
