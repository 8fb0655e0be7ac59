package progressRoutes

import (
	progressController "cyberlearn/controllers/progress"
	"cyberlearn/middleware"
	progressValidator "cyberlearn/validators/progress"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/api/progress")

	// Writes always act on the authenticated user
	progressGroup.Post("/content/:contentId/start", middleware.JWTMiddleware, progressValidator.ContentParam(), progressController.StartContent)
	progressGroup.Put("/content/:contentId", middleware.JWTMiddleware, progressValidator.ContentParam(), progressValidator.UpdateProgress(), progressController.UpdateProgress)
	progressGroup.Post("/content/:contentId/complete", middleware.JWTMiddleware, progressValidator.ContentParam(), progressValidator.CompleteContent(), progressController.CompleteContent)

	progressGroup.Get("/:userId", middleware.JWTMiddleware, progressValidator.UserParam(), progressController.GetUserProgress)
	progressGroup.Get("/:userId/module/:moduleId", middleware.JWTMiddleware, progressValidator.UserParam(), progressValidator.ModuleParam(), progressController.GetModuleProgress)
	progressGroup.Get("/:userId/labs", middleware.JWTMiddleware, progressValidator.UserParam(), progressController.GetLabProgress)
	progressGroup.Get("/:userId/games", middleware.JWTMiddleware, progressValidator.UserParam(), progressController.GetGameProgress)
	progressGroup.Get("/:userId/stats", middleware.JWTMiddleware, progressValidator.UserParam(), progressController.GetProgressStats)
}
