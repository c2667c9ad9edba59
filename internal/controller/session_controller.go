package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"yoga-intelligence-be/internal/dto"
	"yoga-intelligence-be/internal/pkg/serverutils"
	"yoga-intelligence-be/internal/repository/contract"
)

// AttachChecker reports whether a session has a live connection on this instance.
type AttachChecker interface {
	Attached(sessionID string) bool
}

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type sessionController struct {
	registry contract.ISessionRegistry
	hub      AttachChecker
}

func NewSessionController(registry contract.ISessionRegistry, hub AttachChecker) ISessionController {
	return &sessionController{registry: registry, hub: hub}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	r.Get("/sessions/:id", c.Show)
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	session, err := c.registry.Get(ctx.UserContext(), id)
	if errors.Is(err, contract.ErrSessionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}

	res := dto.SessionResponse{
		ID:             session.ID,
		State:          string(session.State),
		Connections:    session.Connections,
		FramesAnalyzed: session.FramesAnalyzed,
		FramesDropped:  session.FramesDropped,
		ChatTurns:      session.ChatTurns,
		CreatedAt:      session.CreatedAt,
		LastSeen:       session.LastSeen,
	}
	if c.hub != nil {
		res.Attached = c.hub.Attached(id)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}
