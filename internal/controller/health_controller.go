package controller

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"yoga-intelligence-be/internal/dto"
	"yoga-intelligence-be/internal/pkg/logger"
)

const probeTimeout = 2 * time.Second

// Probe checks one collaborator. A nil Probe is always ready.
type Probe func(ctx context.Context) error

type SessionCounter interface {
	Count() int
}

type IHealthController interface {
	RegisterRoutes(r fiber.Router)
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	probes   map[string]Probe
	sessions SessionCounter
	events   func() map[string]int64
	logger   logger.ILogger
}

func NewHealthController(probes map[string]Probe, sessions SessionCounter, events func() map[string]int64, log logger.ILogger) IHealthController {
	return &healthController{probes: probes, sessions: sessions, events: events, logger: log}
}

func (c *healthController) RegisterRoutes(r fiber.Router) {
	r.Get("/health", c.Health)
}

// Health always answers 200. A failing collaborator shows up as false in
// services and turns the status to degraded.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	probeCtx, cancel := context.WithTimeout(ctx.UserContext(), probeTimeout)
	defer cancel()

	res := dto.HealthResponse{Status: "healthy", Services: make(map[string]bool, len(c.probes))}
	for name, probe := range c.probes {
		ready := true
		if probe != nil {
			if err := probe(probeCtx); err != nil {
				ready = false
				c.logger.Warn("HealthController", "Collaborator not ready", map[string]interface{}{"service": name, "error": err.Error()})
			}
		}
		res.Services[name] = ready
		if !ready {
			res.Status = "degraded"
		}
	}
	if c.sessions != nil {
		res.ActiveSessions = c.sessions.Count()
	}
	if c.events != nil {
		res.Events = c.events()
	}
	return ctx.JSON(res)
}
