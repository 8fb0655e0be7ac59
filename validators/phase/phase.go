package phaseValidator

import (
	"strings"

	"cyberlearn/middleware"
	"cyberlearn/validators"

	"github.com/gofiber/fiber/v2"
)

type CreatePhaseRequest struct {
	Title       string `json:"title" validate:"required,min=3,max=100"`
	Description string `json:"description" validate:"max=2000"`
	Order       *int   `json:"order" validate:"omitempty,gte=1"`
	Color       string `json:"color" validate:"omitempty,hexcolor,max=7"`
	Icon        string `json:"icon" validate:"max=50"`
	IsActive    *bool  `json:"isActive"`
}

type UpdatePhaseRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Order       *int    `json:"order" validate:"omitempty,gte=1"`
	Color       *string `json:"color" validate:"omitempty,hexcolor,max=7"`
	Icon        *string `json:"icon" validate:"omitempty,max=50"`
	IsActive    *bool   `json:"isActive"`
}

// PhaseID parses :id into locals "phaseId"
func PhaseID() fiber.Handler {
	return validators.IDParam("id", "phaseId", "phase")
}

func CreatePhase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreatePhaseRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		if len(reqData.Title) < 3 {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "title must be at least 3 characters long!"})
		}

		c.Locals("validatedPhase", reqData)
		return c.Next()
	}
}

func UpdatePhase() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdatePhaseRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		validators.TrimPtr(reqData.Title)
		if reqData.Title != nil && len(*reqData.Title) < 3 {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "title must be at least 3 characters long!"})
		}

		c.Locals("validatedPhase", reqData)
		return c.Next()
	}
}

// ReorderPhases validator middleware
func ReorderPhases() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(validators.ReorderRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}
