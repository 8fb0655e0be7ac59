package utils

import (
	"fmt"
	"time"

	"cyberlearn/config"

	"github.com/go-resty/resty/v2"
)

var webhookClient = resty.New().
	SetTimeout(5*time.Second).
	SetHeader("Content-Type", "application/json")

// AchievementEvent is the webhook payload sent when a user earns an achievement
type AchievementEvent struct {
	UserID        uint      `json:"userId"`
	AchievementID uint      `json:"achievementId"`
	Title         string    `json:"title"`
	Points        int       `json:"points"`
	Badge         string    `json:"badge,omitempty"`
	EarnedAt      time.Time `json:"earnedAt"`
}

// NotifyAchievementEarned posts the event to ACHIEVEMENT_WEBHOOK_URL. Single attempt, no retry.
func NotifyAchievementEarned(evt AchievementEvent) error {
	url := config.AppConfig.AchievementWebhookURL
	if url == "" {
		return nil
	}

	resp, err := webhookClient.R().SetBody(evt).Post(url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook answered %d", resp.StatusCode())
	}
	return nil
}
