package achievementValidator

import (
	"strings"

	"cyberlearn/middleware"
	"cyberlearn/validators"

	"github.com/gofiber/fiber/v2"
)

type CriteriaRequest struct {
	Type   string `json:"type" validate:"required,oneof=content_completed videos_completed labs_completed games_completed documents_completed modules_completed total_score"`
	Target int    `json:"target" validate:"required,gte=1"`
}

type RewardsRequest struct {
	Points int    `json:"points" validate:"gte=0"`
	Badge  string `json:"badge" validate:"max=50"`
}

type CreateAchievementRequest struct {
	Title       string          `json:"title" validate:"required,min=3,max=100"`
	Description string          `json:"description" validate:"max=1000"`
	Category    string          `json:"category" validate:"omitempty,oneof=learning labs games milestone"`
	Icon        string          `json:"icon" validate:"max=50"`
	Criteria    CriteriaRequest `json:"criteria"`
	Rewards     RewardsRequest  `json:"rewards"`
	IsActive    *bool           `json:"isActive"`
}

type UpdateAchievementRequest struct {
	Title       *string          `json:"title" validate:"omitempty,min=3,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=1000"`
	Category    *string          `json:"category" validate:"omitempty,oneof=learning labs games milestone"`
	Icon        *string          `json:"icon" validate:"omitempty,max=50"`
	Criteria    *CriteriaRequest `json:"criteria"`
	Rewards     *RewardsRequest  `json:"rewards"`
	IsActive    *bool            `json:"isActive"`
}

// AchievementID parses :id into locals "achievementId"
func AchievementID() fiber.Handler {
	return validators.IDParam("id", "achievementId", "achievement")
}

// UserParam parses :userId into locals "targetUserId"
func UserParam() fiber.Handler {
	return validators.IDParam("userId", "targetUserId", "user")
}

func CreateAchievement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateAchievementRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		if len(reqData.Title) < 3 {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "title must be at least 3 characters long!"})
		}
		if reqData.Category == "" {
			reqData.Category = "learning"
		}

		c.Locals("validatedAchievement", reqData)
		return c.Next()
	}
}

func UpdateAchievement() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(UpdateAchievementRequest)
		if ok, err := validators.ParseBody(c, reqData); !ok {
			return err
		}
		validators.TrimPtr(reqData.Title)
		if reqData.Title != nil && len(*reqData.Title) < 3 {
			return middleware.ValidationErrorResponse(c, map[string]string{"title": "title must be at least 3 characters long!"})
		}

		c.Locals("validatedAchievement", reqData)
		return c.Next()
	}
}
