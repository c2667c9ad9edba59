package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"yoga-intelligence-be/internal/dto"
	"yoga-intelligence-be/internal/pkg/serverutils"
	"yoga-intelligence-be/pkg/practice"
)

type IPracticeController interface {
	RegisterRoutes(r fiber.Router)
	BreathingPatterns(ctx *fiber.Ctx) error
	BreathingGuide(ctx *fiber.Ctx) error
	MeditationGuide(ctx *fiber.Ctx) error
	Routine(ctx *fiber.Ctx) error
}

type practiceController struct{}

func NewPracticeController() IPracticeController {
	return &practiceController{}
}

func (c *practiceController) RegisterRoutes(r fiber.Router) {
	r.Get("/breathing/patterns", c.BreathingPatterns)
	r.Post("/breathing/guide", c.BreathingGuide)
	r.Post("/meditation/guide", c.MeditationGuide)
	r.Post("/routines", c.Routine)
}

func (c *practiceController) BreathingPatterns(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Success get breathing patterns", practice.BreathingPatterns()))
}

func (c *practiceController) BreathingGuide(ctx *fiber.Ctx) error {
	var req dto.BreathingGuideRequest
	if err := parseOptionalBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	guide, err := practice.NewBreathingGuide(req.Pattern, req.Duration)
	if errors.Is(err, practice.ErrUnknownPattern) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success create breathing guide", guide))
}

func (c *practiceController) MeditationGuide(ctx *fiber.Ctx) error {
	var req dto.MeditationGuideRequest
	if err := parseOptionalBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	guide := practice.NewMeditationGuide(req.Theme, req.Duration, req.Level)
	return ctx.JSON(serverutils.SuccessResponse("Success create meditation guide", guide))
}

func (c *practiceController) Routine(ctx *fiber.Ctx) error {
	var req dto.RoutineRequest
	if err := parseOptionalBody(ctx, &req); err != nil {
		return err
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	routine := practice.NewRoutine(req.Level, req.Duration, req.Focus, req.Limitations)
	return ctx.JSON(serverutils.SuccessResponse("Success create routine", routine))
}

// parseOptionalBody accepts an empty body so every field falls back to its default.
func parseOptionalBody(ctx *fiber.Ctx, out interface{}) error {
	if len(ctx.Body()) == 0 {
		return nil
	}
	if err := ctx.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return nil
}
