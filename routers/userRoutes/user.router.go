package userRoutes

import (
	userController "cyberlearn/controllers/userControllers"
	"cyberlearn/middleware"
	"cyberlearn/models"
	userValidator "cyberlearn/validators/userValidator"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/api/users")
	admin := middleware.RequireRole(models.RoleAdmin)

	userGroup.Get("/", middleware.JWTMiddleware, admin, userController.ListUsers)
	userGroup.Get("/:id", middleware.JWTMiddleware, admin, userValidator.UserID(), userController.GetUser)
	userGroup.Put("/:id", middleware.JWTMiddleware, admin, userValidator.UserID(), userValidator.UpdateUser(), userController.UpdateUser)
	userGroup.Delete("/:id", middleware.JWTMiddleware, admin, userValidator.UserID(), userController.DeactivateUser)
}
