package userValidator

import (
	"cyberlearn/validators"

	"github.com/gofiber/fiber/v2"
)

type UpdateUserRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,max=100"`
	LastName  *string `json:"lastName" validate:"omitempty,max=100"`
	Role      *string `json:"role" validate:"omitempty,oneof=admin student"`
	IsActive  *bool   `json:"isActive"`
}

// UserID parses :id into locals "targetUserId"
func UserID() fiber.Handler {
	return validators.IDParam("id", "targetUserId", "user")
}

// UpdateUser validator middleware
func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateUserRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		validators.TrimPtr(reqData.FirstName)
		validators.TrimPtr(reqData.LastName)

		c.Locals("validatedUser", reqData)
		return c.Next()
	}
}
