package models

import "time"

const (
	ProgressNotStarted = "not-started"
	ProgressInProgress = "in-progress"
	ProgressCompleted  = "completed"
)

// UserProgress is one user's completion state for one content item
type UserProgress struct {
	Base
	UserID             uint       `json:"userId" gorm:"not null;uniqueIndex:idx_progress_user_content,priority:1"`
	ContentID          uint       `json:"contentId" gorm:"not null;uniqueIndex:idx_progress_user_content,priority:2;index"`
	ModuleID           uint       `json:"moduleId" gorm:"not null;index"`
	Status             string     `json:"status" gorm:"size:20;not null"`
	ProgressPercentage int        `json:"progressPercentage"`
	Score              *int       `json:"score"`
	TimeSpent          int        `json:"timeSpent"` // minutes
	Attempts           int        `json:"attempts"`
	StartedAt          *time.Time `json:"startedAt"`
	CompletedAt        *time.Time `json:"completedAt"`
	LastAccessedAt     *time.Time `json:"lastAccessedAt"`

	Content *Content `json:"content,omitempty"`
}
