package models

import "time"

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentPaused    = "paused"
	EnrollmentDropped   = "dropped"
)

// UserEnrollment is a user's registration in a module plus its progress summary
type UserEnrollment struct {
	Base
	UserID             uint       `json:"userId" gorm:"not null;uniqueIndex:idx_enrollments_user_module,priority:1"`
	ModuleID           uint       `json:"moduleId" gorm:"not null;uniqueIndex:idx_enrollments_user_module,priority:2;index"`
	Status             string     `json:"status" gorm:"size:20;not null;index"`
	EnrolledAt         time.Time  `json:"enrolledAt"`
	ProgressPercentage int        `json:"progressPercentage"`
	CompletedSections  int        `json:"completedSections"`
	TotalSections      int        `json:"totalSections"`
	LastAccessedAt     *time.Time `json:"lastAccessedAt"`
	CompletedAt        *time.Time `json:"completedAt"`

	Module *Module `json:"module,omitempty"`
	User   *User   `json:"user,omitempty"`
}
