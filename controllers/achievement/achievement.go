package achievementController

import (
	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"
	achievementValidator "cyberlearn/validators/achievement"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

// ListAchievements returns active achievements; admins may pass ?includeInactive=true
func ListAchievements(c *fiber.Ctx) error {
	db := database.Database.Db
	if !(middleware.IsAdmin(c) && utils.QueryBool(c, "includeInactive")) {
		db = db.Where("is_active = ?", true)
	}

	var achievements []models.Achievement
	if err := db.Order("category asc").Order("id asc").Find(&achievements).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Achievement")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievements fetched successfully.", achievements)
}

func GetAchievement(c *fiber.Ctx) error {
	id := c.Locals("achievementId").(uint)

	var achievement models.Achievement
	if err := database.Database.Db.First(&achievement, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Achievement")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievement fetched successfully.", achievement)
}

func CreateAchievement(c *fiber.Ctx) error {
	reqData := c.Locals("validatedAchievement").(*achievementValidator.CreateAchievementRequest)

	achievement := models.Achievement{
		Title:       reqData.Title,
		Description: reqData.Description,
		Category:    reqData.Category,
		Icon:        reqData.Icon,
		Criteria:    datatypes.NewJSONType(models.AchievementCriteria{Type: reqData.Criteria.Type, Target: reqData.Criteria.Target}),
		Rewards:     datatypes.NewJSONType(models.AchievementRewards{Points: reqData.Rewards.Points, Badge: reqData.Rewards.Badge}),
		IsActive:    true,
	}
	if reqData.IsActive != nil {
		achievement.IsActive = *reqData.IsActive
	}

	if err := database.Database.Db.Create(&achievement).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "An achievement with this title already exists!", nil)
		}
		return middleware.DBErrorResponse(c, err, "Achievement")
	}

	logger.Log.Info("Achievement created", "achievementId", achievement.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Achievement created successfully.", achievement)
}

func UpdateAchievement(c *fiber.Ctx) error {
	id := c.Locals("achievementId").(uint)
	reqData := c.Locals("validatedAchievement").(*achievementValidator.UpdateAchievementRequest)

	db := database.Database.Db

	var achievement models.Achievement
	if err := db.First(&achievement, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Achievement")
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Category != nil {
		updates["category"] = *reqData.Category
	}
	if reqData.Icon != nil {
		updates["icon"] = *reqData.Icon
	}
	if reqData.Criteria != nil {
		updates["criteria"] = datatypes.NewJSONType(models.AchievementCriteria{Type: reqData.Criteria.Type, Target: reqData.Criteria.Target})
	}
	if reqData.Rewards != nil {
		updates["rewards"] = datatypes.NewJSONType(models.AchievementRewards{Points: reqData.Rewards.Points, Badge: reqData.Rewards.Badge})
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&achievement).Updates(updates).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return middleware.JsonResponse(c, fiber.StatusConflict, false, "An achievement with this title already exists!", nil)
			}
			return middleware.DBErrorResponse(c, err, "Achievement")
		}
	}

	if err := db.First(&achievement, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Achievement")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievement updated successfully.", achievement)
}

// DeleteAchievement removes the achievement and every user's progress on it. Points already awarded stay.
func DeleteAchievement(c *fiber.Ctx) error {
	id := c.Locals("achievementId").(uint)

	db := database.Database.Db

	var achievement models.Achievement
	if err := db.First(&achievement, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Achievement")
	}
	if err := db.Where("achievement_id = ?", id).Delete(&models.UserAchievement{}).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Achievement")
	}
	if err := db.Delete(&achievement).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Achievement")
	}

	logger.Log.Info("Achievement deleted", "achievementId", id)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Achievement deleted successfully.", nil)
}

func achievementsOf(c *fiber.Ctx, userId uint) error {
	var rows []models.UserAchievement
	if err := database.Database.Db.Preload("Achievement").
		Where("user_id = ?", userId).
		Order("is_completed desc").Order("achievement_id asc").
		Find(&rows).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Achievement")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User achievements fetched successfully.", rows)
}

func MyAchievements(c *fiber.Ctx) error {
	userId, _ := middleware.CurrentUserID(c)
	return achievementsOf(c, userId)
}

func UserAchievements(c *fiber.Ctx) error {
	userId := c.Locals("targetUserId").(uint)
	if !middleware.CanAccessUser(c, userId) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only access your own achievements!", nil)
	}
	return achievementsOf(c, userId)
}
