package moduleRoutes

import (
	moduleController "cyberlearn/controllers/module"
	"cyberlearn/middleware"
	"cyberlearn/models"
	moduleValidator "cyberlearn/validators/module"

	"github.com/gofiber/fiber/v2"
)

func SetupModuleRoutes(app *fiber.App) {
	moduleGroup := app.Group("/api/modules")
	admin := middleware.RequireRole(models.RoleAdmin)

	moduleGroup.Get("/", middleware.JWTMiddleware, moduleValidator.List(), moduleController.ListModules)
	moduleGroup.Post("/", middleware.JWTMiddleware, admin, moduleValidator.CreateModule(), moduleController.CreateModule)
	moduleGroup.Put("/reorder", middleware.JWTMiddleware, admin, moduleValidator.ReorderModules(), moduleController.ReorderModules)
	moduleGroup.Get("/phase/:phaseId", middleware.JWTMiddleware, moduleValidator.PhaseParam(), moduleController.ModulesByPhase)
	moduleGroup.Get("/:id", middleware.JWTMiddleware, moduleValidator.ModuleID(), moduleController.GetModule)
	moduleGroup.Put("/:id", middleware.JWTMiddleware, admin, moduleValidator.ModuleID(), moduleValidator.UpdateModule(), moduleController.UpdateModule)
	moduleGroup.Delete("/:id", middleware.JWTMiddleware, admin, moduleValidator.ModuleID(), moduleController.DeleteModule)
}
