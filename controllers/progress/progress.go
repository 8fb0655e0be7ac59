package progressController

import (
	"errors"
	"time"

	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"
	progressValidator "cyberlearn/validators/progress"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// targetUser resolves :userId and enforces owner-or-admin access
func targetUser(c *fiber.Ctx) (uint, bool) {
	userId := c.Locals("targetUserId").(uint)
	return userId, middleware.CanAccessUser(c, userId)
}

func forbidden(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only access your own progress!", nil)
}

func GetUserProgress(c *fiber.Ctx) error {
	userId, ok := targetUser(c)
	if !ok {
		return forbidden(c)
	}

	var rows []models.UserProgress
	if err := database.Database.Db.Preload("Content").
		Where("user_id = ?", userId).
		Order("last_accessed_at desc").
		Find(&rows).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Progress")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", rows)
}

func GetModuleProgress(c *fiber.Ctx) error {
	userId, ok := targetUser(c)
	if !ok {
		return forbidden(c)
	}
	moduleId := c.Locals("moduleId").(uint)

	db := database.Database.Db

	var module models.Module
	if err := db.First(&module, moduleId).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}

	var rows []models.UserProgress
	if err := db.Preload("Content").
		Joins("JOIN contents ON contents.id = user_progresses.content_id").
		Where("user_progresses.user_id = ? AND contents.module_id = ?", userId, moduleId).
		Order("contents.sort_order asc").
		Find(&rows).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Progress")
	}

	var enrollment *models.UserEnrollment
	var found models.UserEnrollment
	err := db.Where("user_id = ? AND module_id = ?", userId, moduleId).First(&found).Error
	switch {
	case err == nil:
		enrollment = &found
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module progress fetched successfully.", fiber.Map{
		"module":     module,
		"enrollment": enrollment,
		"progress":   rows,
	})
}

func progressOfType(c *fiber.Ctx, kind, detail string) error {
	userId, ok := targetUser(c)
	if !ok {
		return forbidden(c)
	}

	var rows []models.UserProgress
	if err := database.Database.Db.
		Preload("Content").
		Preload("Content." + detail).
		Joins("JOIN contents ON contents.id = user_progresses.content_id").
		Where("user_progresses.user_id = ? AND contents.type = ?", userId, kind).
		Order("user_progresses.id asc").
		Find(&rows).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Progress")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress fetched successfully.", rows)
}

func GetLabProgress(c *fiber.Ctx) error {
	return progressOfType(c, models.ContentTypeLab, "Lab")
}

func GetGameProgress(c *fiber.Ctx) error {
	return progressOfType(c, models.ContentTypeGame, "Game")
}

func GetProgressStats(c *fiber.Ctx) error {
	userId, ok := targetUser(c)
	if !ok {
		return forbidden(c)
	}

	stats, err := utils.UserProgressStats(database.Database.Db, userId)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Progress")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Progress stats fetched successfully.", stats)
}

// writeProgress loads the content, auto-enrolls, applies fn to the user's row and persists it. The
// enrollment summary and achievements are recomputed before answering.
func writeProgress(c *fiber.Ctx, message string, fn func(p *models.UserProgress, content models.Content, now time.Time)) error {
	userId, _ := middleware.CurrentUserID(c)
	contentId := c.Locals("contentId").(uint)

	db := database.Database.Db
	now := time.Now()

	content, err := utils.LoadActiveContent(db, contentId)
	if err != nil {
		if errors.Is(err, utils.ErrContentUnavailable) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
		}
		return middleware.DBErrorResponse(c, err, "Content")
	}

	if _, _, err := utils.EnsureEnrollment(db, userId, content.ModuleID, now); err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}

	row, err := utils.FindOrStartProgress(db, userId, content)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Progress")
	}
	utils.Touch(&row, now)
	fn(&row, content, now)
	row.ModuleID = content.ModuleID

	if err := db.Save(&row).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Progress")
	}

	if err := db.Model(&models.UserEnrollment{}).
		Where("user_id = ? AND module_id = ?", userId, content.ModuleID).
		Update("last_accessed_at", now).Error; err != nil {
		logger.Log.Warn("Failed to touch enrollment", "userId", userId, "moduleId", content.ModuleID, "error", err)
	}

	enrollment, err := utils.ResyncEnrollment(db, userId, content.ModuleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}

	earned, err := utils.EvaluateAchievements(db, userId)
	if err != nil {
		logger.Log.Error("Achievement evaluation failed", "userId", userId, "error", err)
	}
	if earned == nil {
		earned = []models.UserAchievement{}
	}
	utils.CacheDelete(c.Context(), utils.DashboardStatsCacheKey)

	row.Content = &content
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"progress":        row,
		"enrollment":      enrollment,
		"newAchievements": earned,
	})
}

// StartContent is idempotent: a second call only refreshes lastAccessedAt
func StartContent(c *fiber.Ctx) error {
	return writeProgress(c, "Content started.", func(p *models.UserProgress, content models.Content, now time.Time) {})
}

func UpdateProgress(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgress").(*progressValidator.UpdateProgressRequest)

	return writeProgress(c, "Progress updated successfully.", func(p *models.UserProgress, content models.Content, now time.Time) {
		if reqData.TimeSpent != nil {
			utils.AddTimeSpent(p, *reqData.TimeSpent)
		}
		if reqData.Score != nil {
			utils.RecordScore(p, *reqData.Score, content.Game)
		}
		if reqData.ProgressPercentage != nil && utils.SetPercentage(p, *reqData.ProgressPercentage) {
			utils.MarkCompleted(p, content, now)
		}
	})
}

func CompleteContent(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProgress").(*progressValidator.CompleteRequest)

	return writeProgress(c, "Content completion recorded.", func(p *models.UserProgress, content models.Content, now time.Time) {
		if reqData.TimeSpent != nil {
			utils.AddTimeSpent(p, *reqData.TimeSpent)
		}
		if reqData.Score != nil {
			utils.RecordScore(p, *reqData.Score, content.Game)
		}
		utils.MarkCompleted(p, content, now)
	})
}
