package achievementRoutes

import (
	achievementController "cyberlearn/controllers/achievement"
	"cyberlearn/middleware"
	"cyberlearn/models"
	achievementValidator "cyberlearn/validators/achievement"

	"github.com/gofiber/fiber/v2"
)

func SetupAchievementRoutes(app *fiber.App) {
	achievementGroup := app.Group("/api/achievements")
	admin := middleware.RequireRole(models.RoleAdmin)

	achievementGroup.Get("/", middleware.JWTMiddleware, achievementController.ListAchievements)
	achievementGroup.Post("/", middleware.JWTMiddleware, admin, achievementValidator.CreateAchievement(), achievementController.CreateAchievement)
	achievementGroup.Get("/user/me", middleware.JWTMiddleware, achievementController.MyAchievements)
	achievementGroup.Get("/user/:userId", middleware.JWTMiddleware, achievementValidator.UserParam(), achievementController.UserAchievements)
	achievementGroup.Get("/:id", middleware.JWTMiddleware, achievementValidator.AchievementID(), achievementController.GetAchievement)
	achievementGroup.Put("/:id", middleware.JWTMiddleware, admin, achievementValidator.AchievementID(), achievementValidator.UpdateAchievement(), achievementController.UpdateAchievement)
	achievementGroup.Delete("/:id", middleware.JWTMiddleware, admin, achievementValidator.AchievementID(), achievementController.DeleteAchievement)
}
