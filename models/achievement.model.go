package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	CriteriaContentCompleted   = "content_completed"
	CriteriaVideosCompleted    = "videos_completed"
	CriteriaLabsCompleted      = "labs_completed"
	CriteriaGamesCompleted     = "games_completed"
	CriteriaDocumentsCompleted = "documents_completed"
	CriteriaModulesCompleted   = "modules_completed"
	CriteriaTotalScore         = "total_score"
)

type AchievementCriteria struct {
	Type   string `json:"type"`
	Target int    `json:"target"`
}

type AchievementRewards struct {
	Points int    `json:"points"`
	Badge  string `json:"badge"`
}

type Achievement struct {
	Base
	Title       string                                  `json:"title" gorm:"size:100;not null;uniqueIndex"`
	Description string                                  `json:"description" gorm:"type:text"`
	Category    string                                  `json:"category" gorm:"size:20"`
	Icon        string                                  `json:"icon" gorm:"size:50"`
	Criteria    datatypes.JSONType[AchievementCriteria] `json:"criteria"`
	Rewards     datatypes.JSONType[AchievementRewards]  `json:"rewards"`
	IsActive    bool                                    `json:"isActive" gorm:"not null"`
}

// UserAchievement tracks a user's progress towards one achievement
type UserAchievement struct {
	Base
	UserID        uint                                   `json:"userId" gorm:"not null;uniqueIndex:idx_user_achievements,priority:1"`
	AchievementID uint                                   `json:"achievementId" gorm:"not null;uniqueIndex:idx_user_achievements,priority:2"`
	Progress      int                                    `json:"progress"`
	CurrentValue  int                                    `json:"currentValue"`
	IsCompleted   bool                                   `json:"isCompleted"`
	CompletedAt   *time.Time                             `json:"completedAt"`
	EarnedRewards datatypes.JSONType[AchievementRewards] `json:"earnedRewards"`

	Achievement *Achievement `json:"achievement,omitempty"`
}

func IsValidCriteriaType(t string) bool {
	switch t {
	case CriteriaContentCompleted, CriteriaVideosCompleted, CriteriaLabsCompleted, CriteriaGamesCompleted,
		CriteriaDocumentsCompleted, CriteriaModulesCompleted, CriteriaTotalScore:
		return true
	}
	return false
}
