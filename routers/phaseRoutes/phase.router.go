package phaseRoutes

import (
	phaseController "cyberlearn/controllers/phase"
	"cyberlearn/middleware"
	"cyberlearn/models"
	phaseValidator "cyberlearn/validators/phase"

	"github.com/gofiber/fiber/v2"
)

func SetupPhaseRoutes(app *fiber.App) {
	phaseGroup := app.Group("/api/phases")
	admin := middleware.RequireRole(models.RoleAdmin)

	phaseGroup.Get("/", middleware.JWTMiddleware, phaseController.ListPhases)
	phaseGroup.Post("/", middleware.JWTMiddleware, admin, phaseValidator.CreatePhase(), phaseController.CreatePhase)
	phaseGroup.Put("/reorder", middleware.JWTMiddleware, admin, phaseValidator.ReorderPhases(), phaseController.ReorderPhases)
	phaseGroup.Get("/:id", middleware.JWTMiddleware, phaseValidator.PhaseID(), phaseController.GetPhase)
	phaseGroup.Put("/:id", middleware.JWTMiddleware, admin, phaseValidator.PhaseID(), phaseValidator.UpdatePhase(), phaseController.UpdatePhase)
	phaseGroup.Delete("/:id", middleware.JWTMiddleware, admin, phaseValidator.PhaseID(), phaseController.DeletePhase)
}
