package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"yoga-intelligence-be/internal/pkg/logger"
	"yoga-intelligence-be/internal/pkg/serverutils"
	internalWS "yoga-intelligence-be/internal/websocket"
)

const maxSessionIDLength = 128

type SessionHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewSessionHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *SessionHandler {
	return &SessionHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

// Upgrade rejects plain HTTP requests and bad session ids before the
// protocol switch.
func (h *SessionHandler) Upgrade(c *fiber.Ctx) error {
	id := c.Params("session_id")
	if id == "" || len(id) > maxSessionIDLength {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("session_id", id)
	return c.Next()
}

// ServeWs runs one session on the upgraded connection.
func (h *SessionHandler) ServeWs(c *websocket.Conn) {
	sessionID, _ := c.Locals("session_id").(string)
	remote := c.RemoteAddr().String()

	h.logger.Info("SessionHandler", "Starting WebSocket session", map[string]interface{}{"session_id": sessionID, "remote_addr": remote})
	internalWS.ServeWs(h.hub, c, sessionID, remote)
	h.logger.Info("SessionHandler", "WebSocket session ended", map[string]interface{}{"session_id": sessionID})
}

func (h *SessionHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/yoga/:session_id",
		serverutils.HandshakeAuth(h.jwtSecret),
		h.Upgrade,
		websocket.New(h.ServeWs),
	)
}
