package utils

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"cyberlearn/logger"
	"cyberlearn/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// background jobs started by the cascade and the achievement notifier
var syncJobs sync.WaitGroup

// WaitForSync blocks until every background job started so far has finished
func WaitForSync() {
	syncJobs.Wait()
}

func goBackground(name string, fn func() error) {
	syncJobs.Add(1)
	go func() {
		defer syncJobs.Done()
		defer func() {
			if r := recover(); r != nil {
				logger.Log.Error("Background job panicked", "job", name, "panic", r)
			}
		}()
		if err := fn(); err != nil {
			logger.Log.Error("Background job failed", "job", name, "error", err)
		}
	}()
}

// RefreshModuleContent rewrites the module's per-type content ids, totalContent and estimatedHours
// from its active content.
func RefreshModuleContent(db *gorm.DB, moduleID uint) error {
	var rows []models.Content
	if err := db.Select("id", "type", "duration").
		Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("sort_order asc").
		Find(&rows).Error; err != nil {
		return err
	}

	summary := models.ModuleContent{Videos: []uint{}, Labs: []uint{}, Games: []uint{}, Documents: []uint{}}
	minutes := 0
	for _, row := range rows {
		minutes += row.Duration
		switch row.Type {
		case models.ContentTypeVideo:
			summary.Videos = append(summary.Videos, row.ID)
		case models.ContentTypeLab:
			summary.Labs = append(summary.Labs, row.ID)
		case models.ContentTypeGame:
			summary.Games = append(summary.Games, row.ID)
		case models.ContentTypeDocument:
			summary.Documents = append(summary.Documents, row.ID)
		}
	}

	return db.Model(&models.Module{}).Where("id = ?", moduleID).Updates(map[string]interface{}{
		"content":         datatypes.NewJSONType(summary),
		"total_content":   len(rows),
		"estimated_hours": EstimatedHours(minutes),
	}).Error
}

// EstimatedHours rounds content minutes up to whole hours
func EstimatedHours(minutes int) int {
	if minutes <= 0 {
		return 0
	}
	return int(math.Ceil(float64(minutes) / 60))
}

func countActiveContent(db *gorm.DB, moduleID uint) (int64, error) {
	var total int64
	err := db.Model(&models.Content{}).Where("module_id = ? AND is_active = ?", moduleID, true).Count(&total).Error
	return total, err
}

// RefreshEnrollmentTotals sets totalSections on every enrollment of the module
func RefreshEnrollmentTotals(db *gorm.DB, moduleID uint) error {
	total, err := countActiveContent(db, moduleID)
	if err != nil {
		return err
	}
	return db.Model(&models.UserEnrollment{}).
		Where("module_id = ?", moduleID).
		Update("total_sections", total).Error
}

// ApplyEnrollmentProgress derives the enrollment summary from completed/total counts.
// A dropped enrollment keeps its status; every other one becomes completed once all content is done
// and falls back to active if new content appears afterwards.
func ApplyEnrollmentProgress(e *models.UserEnrollment, completed, total int, now time.Time) {
	if completed > total {
		completed = total
	}
	e.CompletedSections = completed
	e.TotalSections = total

	pct := 0
	if total > 0 {
		pct = int(math.Round(float64(completed) * 100 / float64(total)))
		if pct == 100 && completed < total {
			pct = 99
		}
	}
	e.ProgressPercentage = pct

	if e.Status == models.EnrollmentDropped {
		return
	}
	if total > 0 && completed == total {
		e.Status = models.EnrollmentCompleted
		if e.CompletedAt == nil {
			e.CompletedAt = &now
		}
		return
	}
	if e.Status == models.EnrollmentCompleted {
		e.Status = models.EnrollmentActive
		e.CompletedAt = nil
	}
}

// ResyncEnrollment recomputes one enrollment from the user's completed progress on active content
func ResyncEnrollment(db *gorm.DB, userID, moduleID uint) (*models.UserEnrollment, error) {
	var enrollment models.UserEnrollment
	if err := db.Where("user_id = ? AND module_id = ?", userID, moduleID).First(&enrollment).Error; err != nil {
		return nil, err
	}
	if err := resyncLoaded(db, &enrollment); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func resyncLoaded(db *gorm.DB, enrollment *models.UserEnrollment) error {
	total, err := countActiveContent(db, enrollment.ModuleID)
	if err != nil {
		return err
	}

	activeContent := db.Model(&models.Content{}).Select("id").
		Where("module_id = ? AND is_active = ?", enrollment.ModuleID, true)

	var completed int64
	if err := db.Model(&models.UserProgress{}).
		Where("user_id = ? AND status = ? AND content_id IN (?)", enrollment.UserID, models.ProgressCompleted, activeContent).
		Count(&completed).Error; err != nil {
		return err
	}

	ApplyEnrollmentProgress(enrollment, int(completed), int(total), time.Now())

	return db.Model(enrollment).
		Select("completed_sections", "total_sections", "progress_percentage", "status", "completed_at").
		Updates(enrollment).Error
}

// ResyncModuleEnrollments recomputes every enrollment of the module, then re-evaluates the
// achievements of each enrolled user.
func ResyncModuleEnrollments(db *gorm.DB, moduleID uint) error {
	var enrollments []models.UserEnrollment
	if err := db.Where("module_id = ?", moduleID).Find(&enrollments).Error; err != nil {
		return err
	}

	var errs []error
	for i := range enrollments {
		if err := resyncLoaded(db, &enrollments[i]); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := EvaluateAchievements(db, enrollments[i].UserID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// SyncAfterContentChange runs the content cascade for the given modules: module summary and enrollment
// totals right away, enrollment percentages in the background. Failures are logged and left for the
// periodic reconciliation.
func SyncAfterContentChange(db *gorm.DB, moduleIDs ...uint) {
	seen := make(map[uint]bool, len(moduleIDs))
	for _, moduleID := range moduleIDs {
		if moduleID == 0 || seen[moduleID] {
			continue
		}
		seen[moduleID] = true

		log := logger.Log.With("moduleId", moduleID)
		if err := RefreshModuleContent(db, moduleID); err != nil {
			log.Error("Failed to refresh module content summary", "error", err)
		}
		if err := RefreshEnrollmentTotals(db, moduleID); err != nil {
			log.Error("Failed to refresh enrollment totals", "error", err)
		}
		InvalidateModuleCache(moduleID)

		id := moduleID
		goBackground("resync-enrollments", func() error {
			defer CacheDelete(context.Background(), DashboardStatsCacheKey)
			return ResyncModuleEnrollments(db, id)
		})
	}
}

// ReconcileAll repairs every derived field. Runs from the scheduler.
func ReconcileAll(db *gorm.DB) error {
	var moduleIDs []uint
	if err := db.Model(&models.Module{}).Pluck("id", &moduleIDs).Error; err != nil {
		return err
	}

	var errs []error
	for _, moduleID := range moduleIDs {
		if err := RefreshModuleContent(db, moduleID); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := RefreshEnrollmentTotals(db, moduleID); err != nil {
			errs = append(errs, err)
			continue
		}
		if err := ResyncModuleEnrollments(db, moduleID); err != nil {
			errs = append(errs, err)
		}
		InvalidateModuleCache(moduleID)
	}
	logger.Log.Info("Reconciliation finished", "modules", len(moduleIDs), "failures", len(errs))
	return errors.Join(errs...)
}
