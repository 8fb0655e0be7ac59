package progressValidator

import (
	"cyberlearn/validators"

	"github.com/gofiber/fiber/v2"
)

type UpdateProgressRequest struct {
	ProgressPercentage *int `json:"progressPercentage" validate:"omitempty,gte=0,lte=100"`
	Score              *int `json:"score" validate:"omitempty,gte=0"`
	TimeSpent          *int `json:"timeSpent" validate:"omitempty,gte=0"`
}

type CompleteRequest struct {
	Score     *int `json:"score" validate:"omitempty,gte=0"`
	TimeSpent *int `json:"timeSpent" validate:"omitempty,gte=0"`
}

// UserParam parses :userId into locals "targetUserId"
func UserParam() fiber.Handler {
	return validators.IDParam("userId", "targetUserId", "user")
}

// ModuleParam parses :moduleId into locals "moduleId"
func ModuleParam() fiber.Handler {
	return validators.IDParam("moduleId", "moduleId", "module")
}

// ContentParam parses :contentId into locals "contentId"
func ContentParam() fiber.Handler {
	return validators.IDParam("contentId", "contentId", "content")
}

func UpdateProgress() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateProgressRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}

func CompleteContent() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CompleteRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedProgress", reqData)
		return c.Next()
	}
}
