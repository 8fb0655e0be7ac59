package contentRoutes

import (
	contentController "cyberlearn/controllers/content"
	"cyberlearn/middleware"
	"cyberlearn/models"
	contentValidator "cyberlearn/validators/content"

	"github.com/gofiber/fiber/v2"
)

func SetupContentRoutes(app *fiber.App) {
	contentGroup := app.Group("/api/content")
	admin := middleware.RequireRole(models.RoleAdmin)

	contentGroup.Get("/", middleware.JWTMiddleware, contentValidator.List(), contentController.ListContent)
	contentGroup.Post("/", middleware.JWTMiddleware, admin, contentValidator.CreateContent(), contentController.CreateContent)
	contentGroup.Put("/reorder", middleware.JWTMiddleware, admin, contentValidator.ReorderContent(), contentController.ReorderContent)

	// Module views
	contentGroup.Get("/module/:moduleId", middleware.JWTMiddleware, contentValidator.ModuleParam(), contentController.ContentByModule)
	contentGroup.Get("/module/:moduleId/grouped", middleware.JWTMiddleware, contentValidator.ModuleParam(), contentController.GroupedContent)
	contentGroup.Get("/module/:moduleId/sections", middleware.JWTMiddleware, contentValidator.ModuleParam(), contentController.ModuleSections)
	contentGroup.Get("/type/:type", middleware.JWTMiddleware, contentValidator.ContentType(), contentController.ContentByType)

	contentGroup.Get("/:id", middleware.JWTMiddleware, contentValidator.ContentID(), contentController.GetContent)
	contentGroup.Put("/:id", middleware.JWTMiddleware, admin, contentValidator.ContentID(), contentValidator.UpdateContent(), contentController.UpdateContent)
	contentGroup.Delete("/:id", middleware.JWTMiddleware, admin, contentValidator.ContentID(), contentController.DeleteContent)
	contentGroup.Delete("/:id/permanent", middleware.JWTMiddleware, admin, contentValidator.ContentID(), contentController.PermanentDeleteContent)
}
