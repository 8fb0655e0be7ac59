package moduleValidator

import (
	"strings"

	"cyberlearn/middleware"
	"cyberlearn/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateModuleRequest struct {
	PhaseID          uint     `json:"phaseId" validate:"required"`
	Title            string   `json:"title" validate:"required,min=3,max=150"`
	Description      string   `json:"description" validate:"max=5000"`
	Icon             string   `json:"icon" validate:"max=50"`
	Color            string   `json:"color" validate:"omitempty,hexcolor,max=7"`
	Difficulty       string   `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	Order            *int     `json:"order" validate:"omitempty,gte=1"`
	Topics           []string `json:"topics" validate:"dive,max=200"`
	Prerequisites    []string `json:"prerequisites" validate:"dive,max=200"`
	LearningOutcomes []string `json:"learningOutcomes" validate:"dive,max=500"`
	IsActive         *bool    `json:"isActive"`
}

type UpdateModuleRequest struct {
	PhaseID          *uint    `json:"phaseId" validate:"omitempty,gte=1"`
	Title            *string  `json:"title" validate:"omitempty,min=3,max=150"`
	Description      *string  `json:"description" validate:"omitempty,max=5000"`
	Icon             *string  `json:"icon" validate:"omitempty,max=50"`
	Color            *string  `json:"color" validate:"omitempty,hexcolor,max=7"`
	Difficulty       *string  `json:"difficulty" validate:"omitempty,oneof=beginner intermediate advanced expert"`
	Order            *int     `json:"order" validate:"omitempty,gte=1"`
	Topics           []string `json:"topics" validate:"omitempty,dive,max=200"`
	Prerequisites    []string `json:"prerequisites" validate:"omitempty,dive,max=200"`
	LearningOutcomes []string `json:"learningOutcomes" validate:"omitempty,dive,max=500"`
	IsActive         *bool    `json:"isActive"`
}

type ReorderModulesRequest struct {
	PhaseID uint                   `json:"phaseId" validate:"required"`
	Items   []validators.OrderItem `json:"items" validate:"required,min=1,dive"`
}

// ModuleID parses :id into locals "moduleId"
func ModuleID() fiber.Handler {
	return validators.IDParam("id", "moduleId", "module")
}

// PhaseParam parses :phaseId into locals "phaseId"
func PhaseParam() fiber.Handler {
	return validators.IDParam("phaseId", "phaseId", "phase")
}

// List validates the optional filters of the module list
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		errors := make(map[string]string)
		if d := strings.TrimSpace(c.Query("difficulty")); d != "" {
			switch d {
			case "beginner", "intermediate", "advanced", "expert":
			default:
				errors["difficulty"] = "difficulty must be one of: beginner, intermediate, advanced, expert!"
			}
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}
		return c.Next()
	}
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateModuleRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		if len(reqData.Title) < 3 {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "title must be at least 3 characters long!"})
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func UpdateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateModuleRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		validators.TrimPtr(reqData.Title)
		if reqData.Title != nil && len(*reqData.Title) < 3 {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "title must be at least 3 characters long!"})
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func ReorderModules() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReorderModulesRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedOrder", reqData)
		return c.Next()
	}
}
