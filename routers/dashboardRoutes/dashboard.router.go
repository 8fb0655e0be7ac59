package dashboardRoutes

import (
	dashboardController "cyberlearn/controllers/dashboard"
	"cyberlearn/middleware"
	"cyberlearn/models"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App) {
	dashboardGroup := app.Group("/api/admin/dashboard")

	dashboardGroup.Get("/stats", middleware.JWTMiddleware, middleware.RequireRole(models.RoleAdmin), dashboardController.AdminDashboardStats)
}
