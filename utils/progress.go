package utils

import (
	"errors"
	"math"
	"time"

	"cyberlearn/database"
	"cyberlearn/models"

	"gorm.io/gorm"
)

// ErrContentUnavailable is returned when progress is written against missing or inactive content
var ErrContentUnavailable = errors.New("content not found or inactive")

// Touch marks the row as accessed now and starts it if it was never started
func Touch(p *models.UserProgress, now time.Time) {
	if p.Status == "" || p.Status == models.ProgressNotStarted {
		p.Status = models.ProgressInProgress
	}
	if p.StartedAt == nil {
		p.StartedAt = &now
	}
	p.LastAccessedAt = &now
}

// AddTimeSpent accumulates minutes; negative input is ignored
func AddTimeSpent(p *models.UserProgress, minutes int) {
	if minutes > 0 {
		p.TimeSpent += minutes
	}
}

// RecordScore counts an attempt and keeps the best score, clamped to [0, game max score]
func RecordScore(p *models.UserProgress, score int, game *models.Game) {
	if score < 0 {
		score = 0
	}
	if game != nil && game.MaxScore > 0 && score > game.MaxScore {
		score = game.MaxScore
	}
	p.Attempts++
	if p.Score == nil || score > *p.Score {
		best := score
		p.Score = &best
	}
}

// SetPercentage updates the completion percentage of an unfinished row and reports whether it reached 100
func SetPercentage(p *models.UserProgress, pct int) bool {
	if p.Status == models.ProgressCompleted {
		return false
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	p.ProgressPercentage = pct
	return pct == 100
}

// MarkCompleted completes the row. A game whose best score is missing or below its passing score stays
// in progress; the return value reports whether the row is completed afterwards.
func MarkCompleted(p *models.UserProgress, content models.Content, now time.Time) bool {
	if p.Status == models.ProgressCompleted {
		return true
	}
	if content.Type == models.ContentTypeGame && content.Game != nil {
		if p.Score == nil || *p.Score < content.Game.PassingScore {
			if p.ProgressPercentage >= 100 {
				p.ProgressPercentage = 99
			}
			p.Status = models.ProgressInProgress
			return false
		}
	}
	p.Status = models.ProgressCompleted
	p.ProgressPercentage = 100
	p.CompletedAt = &now
	return true
}

// LoadActiveContent loads active content with its lab/game detail
func LoadActiveContent(db *gorm.DB, contentID uint) (models.Content, error) {
	var content models.Content
	err := db.Preload("Lab").Preload("Game").
		Where("id = ? AND is_active = ?", contentID, true).
		First(&content).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return content, ErrContentUnavailable
	}
	return content, err
}

// EnsureEnrollment enrolls the user in the module unless an enrollment already exists
func EnsureEnrollment(db *gorm.DB, userID, moduleID uint, now time.Time) (models.UserEnrollment, bool, error) {
	var enrollment models.UserEnrollment
	err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&enrollment).Error
	if err == nil {
		return enrollment, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return enrollment, false, err
	}

	total, err := countActiveContent(db, moduleID)
	if err != nil {
		return enrollment, false, err
	}
	enrollment = models.UserEnrollment{
		UserID:         userID,
		ModuleID:       moduleID,
		Status:         models.EnrollmentActive,
		EnrolledAt:     now,
		TotalSections:  int(total),
		LastAccessedAt: &now,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			err = db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&enrollment).Error
			return enrollment, false, err
		}
		return enrollment, false, err
	}
	return enrollment, true, nil
}

// FindOrStartProgress loads the user's row for the content or builds an unsaved one
func FindOrStartProgress(db *gorm.DB, userID uint, content models.Content) (models.UserProgress, error) {
	var row models.UserProgress
	err := db.Where("user_id = ? AND content_id = ?", userID, content.ID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.UserProgress{
			UserID:    userID,
			ContentID: content.ID,
			ModuleID:  content.ModuleID,
			Status:    models.ProgressNotStarted,
		}, nil
	}
	return row, err
}

// ProgressStats summarises one user's progress rows
type ProgressStats struct {
	TotalStarted    int64            `json:"totalStarted"`
	Completed       int64            `json:"completed"`
	InProgress      int64            `json:"inProgress"`
	AverageScore    float64          `json:"averageScore"`
	TotalTimeSpent  int64            `json:"totalTimeSpent"`
	CompletedByType map[string]int64 `json:"completedByType"`
}

func UserProgressStats(db *gorm.DB, userID uint) (ProgressStats, error) {
	stats := ProgressStats{CompletedByType: map[string]int64{}}
	for _, kind := range models.ContentTypes {
		stats.CompletedByType[kind] = 0
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.UserProgress{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ?", userID).
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return stats, err
	}
	for _, row := range statusRows {
		switch row.Status {
		case models.ProgressCompleted:
			stats.Completed = row.Count
		case models.ProgressInProgress:
			stats.InProgress = row.Count
		}
	}
	stats.TotalStarted = stats.Completed + stats.InProgress

	var agg struct {
		AverageScore   *float64
		TotalTimeSpent int64
	}
	if err := db.Model(&models.UserProgress{}).
		Select("AVG(score) AS average_score, COALESCE(SUM(time_spent), 0) AS total_time_spent").
		Where("user_id = ?", userID).
		Scan(&agg).Error; err != nil {
		return stats, err
	}
	if agg.AverageScore != nil {
		stats.AverageScore = math.Round(*agg.AverageScore*100) / 100
	}
	stats.TotalTimeSpent = agg.TotalTimeSpent

	var typeRows []struct {
		Type  string
		Count int64
	}
	if err := db.Model(&models.UserProgress{}).
		Select("contents.type AS type, COUNT(*) AS count").
		Joins("JOIN contents ON contents.id = user_progresses.content_id").
		Where("user_progresses.user_id = ? AND user_progresses.status = ?", userID, models.ProgressCompleted).
		Group("contents.type").
		Scan(&typeRows).Error; err != nil {
		return stats, err
	}
	for _, row := range typeRows {
		stats.CompletedByType[row.Type] = row.Count
	}
	return stats, nil
}
