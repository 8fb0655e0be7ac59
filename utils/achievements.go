package utils

import (
	"errors"
	"time"

	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/models"

	"gorm.io/gorm"
)

// AchievementMetric is the user's current value for one criteria type
func AchievementMetric(db *gorm.DB, userID uint, criteriaType string) (int, error) {
	var value int64
	var err error

	completedOfType := func(contentType string) error {
		return db.Model(&models.UserProgress{}).
			Joins("JOIN contents ON contents.id = user_progresses.content_id").
			Where("user_progresses.user_id = ? AND user_progresses.status = ? AND contents.type = ?",
				userID, models.ProgressCompleted, contentType).
			Count(&value).Error
	}

	switch criteriaType {
	case models.CriteriaContentCompleted:
		err = db.Model(&models.UserProgress{}).
			Where("user_id = ? AND status = ?", userID, models.ProgressCompleted).
			Count(&value).Error
	case models.CriteriaVideosCompleted:
		err = completedOfType(models.ContentTypeVideo)
	case models.CriteriaLabsCompleted:
		err = completedOfType(models.ContentTypeLab)
	case models.CriteriaGamesCompleted:
		err = completedOfType(models.ContentTypeGame)
	case models.CriteriaDocumentsCompleted:
		err = completedOfType(models.ContentTypeDocument)
	case models.CriteriaModulesCompleted:
		err = db.Model(&models.UserEnrollment{}).
			Where("user_id = ? AND status = ?", userID, models.EnrollmentCompleted).
			Count(&value).Error
	case models.CriteriaTotalScore:
		err = db.Model(&models.UserProgress{}).
			Select("COALESCE(SUM(score), 0)").
			Where("user_id = ? AND status = ?", userID, models.ProgressCompleted).
			Scan(&value).Error
	default:
		return 0, nil
	}
	return int(value), err
}

// AchievementProgress is the capped percentage towards target
func AchievementProgress(current, target int) int {
	if target <= 0 {
		return 100
	}
	if current >= target {
		return 100
	}
	if current <= 0 {
		return 0
	}
	return current * 100 / target
}

// EvaluateAchievements updates the user's progress on every active achievement and returns the ones
// earned by this call. A completed achievement is never reopened.
func EvaluateAchievements(db *gorm.DB, userID uint) ([]models.UserAchievement, error) {
	var achievements []models.Achievement
	if err := db.Where("is_active = ?", true).Order("id asc").Find(&achievements).Error; err != nil {
		return nil, err
	}

	metrics := map[string]int{}
	var earned []models.UserAchievement

	for _, achievement := range achievements {
		criteria := achievement.Criteria.Data()

		current, ok := metrics[criteria.Type]
		if !ok {
			value, err := AchievementMetric(db, userID, criteria.Type)
			if err != nil {
				return earned, err
			}
			metrics[criteria.Type] = value
			current = value
		}

		ua, newlyEarned, err := recordAchievementProgress(db, userID, achievement, current)
		if err != nil {
			return earned, err
		}
		if newlyEarned {
			earned = append(earned, ua)
		}
	}

	for _, ua := range earned {
		rewards := ua.EarnedRewards.Data()
		evt := AchievementEvent{
			UserID:        userID,
			AchievementID: ua.AchievementID,
			Points:        rewards.Points,
			Badge:         rewards.Badge,
			EarnedAt:      *ua.CompletedAt,
		}
		if ua.Achievement != nil {
			evt.Title = ua.Achievement.Title
		}
		goBackground("achievement-webhook", func() error {
			return NotifyAchievementEarned(evt)
		})
	}
	return earned, nil
}

func recordAchievementProgress(db *gorm.DB, userID uint, achievement models.Achievement, current int) (models.UserAchievement, bool, error) {
	criteria := achievement.Criteria.Data()
	progress := AchievementProgress(current, criteria.Target)
	reached := current >= criteria.Target
	now := time.Now()

	var ua models.UserAchievement
	err := db.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).First(&ua).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		ua = models.UserAchievement{
			UserID:        userID,
			AchievementID: achievement.ID,
			Progress:      progress,
			CurrentValue:  current,
			IsCompleted:   reached,
		}
		if reached {
			ua.CompletedAt = &now
			ua.EarnedRewards = achievement.Rewards
		}
		createErr := db.Create(&ua).Error
		if createErr == nil {
			if reached {
				ua.Achievement = &achievement
				return ua, true, awardPoints(db, userID, achievement.Rewards.Data().Points)
			}
			return ua, false, nil
		}
		if !database.IsUniqueViolation(createErr) {
			return ua, false, createErr
		}
		// a concurrent evaluation created the row first
		err = db.Where("user_id = ? AND achievement_id = ?", userID, achievement.ID).First(&ua).Error
	}
	if err != nil {
		return ua, false, err
	}

	if ua.IsCompleted {
		return ua, false, nil
	}

	if !reached {
		err := db.Model(&ua).Updates(map[string]interface{}{
			"progress":      progress,
			"current_value": current,
		}).Error
		ua.Progress, ua.CurrentValue = progress, current
		return ua, false, err
	}

	res := db.Model(&models.UserAchievement{}).
		Where("id = ? AND is_completed = ?", ua.ID, false).
		Updates(map[string]interface{}{
			"progress":       progress,
			"current_value":  current,
			"is_completed":   true,
			"completed_at":   now,
			"earned_rewards": achievement.Rewards,
		})
	if res.Error != nil {
		return ua, false, res.Error
	}
	if res.RowsAffected == 0 {
		return ua, false, nil
	}

	ua.Progress, ua.CurrentValue = progress, current
	ua.IsCompleted, ua.CompletedAt = true, &now
	ua.EarnedRewards = achievement.Rewards
	ua.Achievement = &achievement
	return ua, true, awardPoints(db, userID, achievement.Rewards.Data().Points)
}

func awardPoints(db *gorm.DB, userID uint, points int) error {
	if points == 0 {
		return nil
	}
	err := db.Model(&models.User{}).Where("id = ?", userID).
		UpdateColumn("total_points", gorm.Expr("total_points + ?", points)).Error
	if err != nil {
		logger.Log.Error("Failed to award achievement points", "userId", userID, "points", points, "error", err)
	}
	return err
}
