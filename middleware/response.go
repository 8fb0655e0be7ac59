package middleware

import (
	"errors"
	"fmt"

	"cyberlearn/database"
	"cyberlearn/logger"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
}

// ErrorHandler renders errors that escape handlers with the standard envelope
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error!"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}
	if code >= fiber.StatusInternalServerError {
		logger.Log.Error("Unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return JsonResponse(c, code, false, message, nil)
}

// DBErrorResponse answers 404 for missing rows, 409 for unique violations and 500 for the rest
func DBErrorResponse(c *fiber.Ctx, err error, entity string) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return JsonResponse(c, fiber.StatusNotFound, false, fmt.Sprintf("%s not found!", entity), nil)
	case database.IsUniqueViolation(err):
		return JsonResponse(c, fiber.StatusConflict, false, fmt.Sprintf("%s conflicts with an existing record!", entity), nil)
	}
	logger.Log.Error("Database error", "entity", entity, "method", c.Method(), "path", c.Path(), "error", err)
	return JsonResponse(c, fiber.StatusInternalServerError, false, "Internal server error!", nil)
}
