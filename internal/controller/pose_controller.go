package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"yoga-intelligence-be/internal/dto"
	"yoga-intelligence-be/internal/pkg/serverutils"
	"yoga-intelligence-be/pkg/pose"
)

type IPoseController interface {
	RegisterRoutes(r fiber.Router)
	GetAll(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
}

type poseController struct {
	library *pose.Library
}

func NewPoseController(library *pose.Library) IPoseController {
	return &poseController{library: library}
}

func (c *poseController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/poses")
	h.Get("", c.GetAll)
	h.Get(":name", c.Show)
}

func (c *poseController) GetAll(ctx *fiber.Ctx) error {
	poses := c.library.Poses()
	res := make([]dto.PoseSummaryResponse, 0, len(poses))
	for _, p := range poses {
		res = append(res, dto.PoseSummaryResponse{Name: p.Name, Description: p.Description, Benefits: p.Benefits})
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get all poses", res))
}

func (c *poseController) Show(ctx *fiber.Ctx) error {
	res, err := c.library.Get(ctx.Params("name"))
	if errors.Is(err, pose.ErrNoReference) {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get pose", res))
}
