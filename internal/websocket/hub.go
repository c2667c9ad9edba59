package websocket

import (
	"context"
	"errors"
	"sync"
	"time"

	"yoga-intelligence-be/internal/model"
	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/internal/repository/contract"
	"yoga-intelligence-be/internal/service"
	"yoga-intelligence-be/pkg/events"
)

const defaultReadLimit = 4 << 20

// Services are the analysis pipelines a session feeds.
type Services struct {
	Pose          service.IPoseService
	Consciousness service.IConsciousnessService
	Chat          service.IChatService
}

type HubConfig struct {
	// ReadLimit caps one inbound frame in bytes. Camera frames dominate.
	ReadLimit int64
}

type Hub struct {
	// Attached sessions: SessionID -> Client. A session has one live connection.
	clients map[string]*Client

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	mu sync.RWMutex

	services  Services
	registry  contract.ISessionRegistry
	publisher service.IPublisherService
	cfg       HubConfig
	logger    logger.ILogger
	now       func() time.Time
}

func NewHub(services Services, registry contract.ISessionRegistry, publisher service.IPublisherService, cfg HubConfig, log logger.ILogger) *Hub {
	if cfg.ReadLimit <= 0 {
		cfg.ReadLimit = defaultReadLimit
	}
	if publisher == nil {
		publisher = service.NewNopPublisher()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		services:   services,
		registry:   registry,
		publisher:  publisher,
		cfg:        cfg,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Run owns the session table until ctx is cancelled, then closes every
// attached connection.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for id, client := range h.clients {
				client.shutdown()
				delete(h.clients, id)
			}
			h.mu.Unlock()
			return

		case client := <-h.register:
			h.mu.Lock()
			previous, replaced := h.clients[client.SessionID]
			h.clients[client.SessionID] = client
			h.mu.Unlock()

			if replaced {
				h.logger.Warn("Hub", "Session reattached, closing previous connection", map[string]interface{}{"session_id": client.SessionID})
				previous.shutdown()
			}
			h.markConnected(ctx, client)
			h.logger.Info("Hub", "Session attached", map[string]interface{}{"session_id": client.SessionID, "remote_addr": client.RemoteAddr})

		case client := <-h.unregister:
			h.mu.Lock()
			current, ok := h.clients[client.SessionID]
			stillCurrent := ok && current == client
			if stillCurrent {
				delete(h.clients, client.SessionID)
			}
			h.mu.Unlock()

			h.markDisconnected(ctx, client, stillCurrent)
			h.logger.Info("Hub", "Session detached", map[string]interface{}{
				"session_id":      client.SessionID,
				"frames_analyzed": client.framesAnalyzed.Load(),
				"frames_dropped":  client.frames.drops(),
			})
		}
	}
}

// Count returns the number of attached sessions.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Attached reports whether a session currently has a live connection.
func (h *Hub) Attached(sessionID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.clients[sessionID]
	return ok
}

func (h *Hub) attach(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) detach(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) markConnected(ctx context.Context, c *Client) {
	now := h.now()
	session := &model.Session{ID: c.SessionID, CreatedAt: now}
	if h.registry != nil {
		if existing, err := h.registry.Get(ctx, c.SessionID); err == nil {
			session = existing
		} else if !errors.Is(err, contract.ErrSessionNotFound) {
			h.logger.Warn("Hub", "Session lookup failed", map[string]interface{}{"session_id": c.SessionID, "error": err.Error()})
		}
	}
	session.State = model.SessionConnected
	session.RemoteAddr = c.RemoteAddr
	session.Connections++
	session.LastSeen = now
	h.save(ctx, session)

	h.publish(ctx, events.NewSessionEvent(events.SessionConnected, c.SessionID, map[string]interface{}{
		"remote_addr": c.RemoteAddr,
		"connections": session.Connections,
	}))
}

// markDisconnected folds the connection's counters into the session record.
// A replaced connection adds its counters but leaves the state connected.
func (h *Hub) markDisconnected(ctx context.Context, c *Client, current bool) {
	now := h.now()
	session := &model.Session{ID: c.SessionID, CreatedAt: now}
	if h.registry != nil {
		if existing, err := h.registry.Get(ctx, c.SessionID); err == nil {
			session = existing
		}
	}
	if current {
		session.State = model.SessionDisconnected
	}
	session.FramesAnalyzed += c.framesAnalyzed.Load()
	session.FramesDropped += c.frames.drops()
	session.ChatTurns += c.chatTurns.Load()
	session.LastSeen = now
	h.save(ctx, session)

	if current {
		h.publish(ctx, events.NewSessionEvent(events.SessionDisconnected, c.SessionID, map[string]interface{}{
			"frames_analyzed": c.framesAnalyzed.Load(),
			"frames_dropped":  c.frames.drops(),
			"chat_turns":      c.chatTurns.Load(),
		}))
	}
}

func (h *Hub) save(ctx context.Context, session *model.Session) {
	if h.registry == nil {
		return
	}
	if err := h.registry.Save(ctx, session); err != nil {
		h.logger.Warn("Hub", "Failed to save session", map[string]interface{}{"session_id": session.ID, "error": err.Error()})
	}
}

func (h *Hub) publish(ctx context.Context, e events.BaseEvent) {
	if err := h.publisher.Publish(ctx, e); err != nil {
		h.logger.Warn("Hub", "Failed to publish event", map[string]interface{}{"type": e.Type, "error": err.Error()})
	}
}
