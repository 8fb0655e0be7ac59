package enrollmentValidator

import (
	"strings"

	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/validators"

	"github.com/gofiber/fiber/v2"
)

type EnrollRequest struct {
	ModuleID uint  `json:"moduleId" validate:"required"`
	UserID   *uint `json:"userId" validate:"omitempty,gte=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active paused dropped"`
}

// EnrollmentID parses :id into locals "enrollmentId"
func EnrollmentID() fiber.Handler {
	return validators.IDParam("id", "enrollmentId", "enrollment")
}

// UserParam parses :userId into locals "targetUserId"
func UserParam() fiber.Handler {
	return validators.IDParam("userId", "targetUserId", "user")
}

// List validates the admin enrollment filters
func List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch strings.TrimSpace(c.Query("status")) {
		case "", models.EnrollmentActive, models.EnrollmentCompleted, models.EnrollmentPaused, models.EnrollmentDropped:
			return c.Next()
		}
		return middleware.ValidationErrorResponse(c, map[string]string{"status": "status must be one of: active, completed, paused, dropped!"})
	}
}

func Enroll() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}

func UpdateStatus() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateStatusRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		c.Locals("validatedEnrollment", reqData)
		return c.Next()
	}
}
