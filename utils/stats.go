package utils

import (
	"math"
	"time"

	"cyberlearn/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// ModuleEnrollmentStats is one line of the per-module enrollment breakdown
type ModuleEnrollmentStats struct {
	ModuleID        uint    `json:"moduleId"`
	Title           string  `json:"title"`
	Enrollments     int64   `json:"enrollments"`
	AverageProgress float64 `json:"averageProgress"`
	Completed       int64   `json:"completed"`
}

type EnrollmentStatsResult struct {
	Total           int64                   `json:"total"`
	ByStatus        map[string]int64        `json:"byStatus"`
	AverageProgress float64                 `json:"averageProgress"`
	CompletionRate  float64                 `json:"completionRate"`
	Modules         []ModuleEnrollmentStats `json:"modules"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percentOf(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) * 100 / float64(total))
}

func EnrollmentStats(db *gorm.DB) (EnrollmentStatsResult, error) {
	result := EnrollmentStatsResult{
		ByStatus: map[string]int64{
			models.EnrollmentActive:    0,
			models.EnrollmentCompleted: 0,
			models.EnrollmentPaused:    0,
			models.EnrollmentDropped:   0,
		},
		Modules: []ModuleEnrollmentStats{},
	}

	var statusRows []struct {
		Status string
		Count  int64
	}
	if err := db.Model(&models.UserEnrollment{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return result, err
	}
	for _, row := range statusRows {
		result.ByStatus[row.Status] = row.Count
		result.Total += row.Count
	}

	var avg float64
	if err := db.Model(&models.UserEnrollment{}).Select("COALESCE(AVG(progress_percentage), 0)").Scan(&avg).Error; err != nil {
		return result, err
	}
	result.AverageProgress = round2(avg)
	result.CompletionRate = percentOf(result.ByStatus[models.EnrollmentCompleted], result.Total)

	var moduleRows []struct {
		ModuleID        uint
		Title           string
		Enrollments     int64
		AverageProgress float64
		Completed       int64
	}
	if err := db.Model(&models.UserEnrollment{}).
		Select("user_enrollments.module_id AS module_id, modules.title AS title, COUNT(*) AS enrollments, "+
			"AVG(user_enrollments.progress_percentage) AS average_progress, "+
			"SUM(CASE WHEN user_enrollments.status = ? THEN 1 ELSE 0 END) AS completed", models.EnrollmentCompleted).
		Joins("JOIN modules ON modules.id = user_enrollments.module_id").
		Group("user_enrollments.module_id, modules.title").
		Order("user_enrollments.module_id asc").
		Scan(&moduleRows).Error; err != nil {
		return result, err
	}
	for _, row := range moduleRows {
		result.Modules = append(result.Modules, ModuleEnrollmentStats{
			ModuleID:        row.ModuleID,
			Title:           row.Title,
			Enrollments:     row.Enrollments,
			AverageProgress: round2(row.AverageProgress),
			Completed:       row.Completed,
		})
	}
	return result, nil
}

type DashboardStatsResult struct {
	Users struct {
		Total    int64 `json:"total"`
		Students int64 `json:"students"`
		Admins   int64 `json:"admins"`
		Active   int64 `json:"active"`
	} `json:"users"`
	Phases  int64 `json:"phases"`
	Modules struct {
		Total  int64 `json:"total"`
		Active int64 `json:"active"`
	} `json:"modules"`
	Content struct {
		Total  int64            `json:"total"`
		Active int64            `json:"active"`
		ByType map[string]int64 `json:"byType"`
	} `json:"content"`
	Enrollments struct {
		Total    int64 `json:"total"`
		Today    int64 `json:"today"`
		ThisWeek int64 `json:"thisWeek"`
	} `json:"enrollments"`
	CompletionRate  float64   `json:"completionRate"`
	AverageProgress float64   `json:"averageProgress"`
	GeneratedAt     time.Time `json:"generatedAt"`
}

var weekConfig = &now.Config{WeekStartDay: time.Monday}

// DashboardStats gathers the admin overview. Today and this week are in the server's local time,
// weeks start on Monday.
func DashboardStats(db *gorm.DB, at time.Time) (DashboardStatsResult, error) {
	var s DashboardStatsResult
	s.Content.ByType = map[string]int64{}
	s.GeneratedAt = at

	counts := []struct {
		dst   *int64
		model interface{}
		where []interface{}
	}{
		{&s.Users.Total, &models.User{}, nil},
		{&s.Users.Students, &models.User{}, []interface{}{"role = ?", models.RoleStudent}},
		{&s.Users.Admins, &models.User{}, []interface{}{"role = ?", models.RoleAdmin}},
		{&s.Users.Active, &models.User{}, []interface{}{"is_active = ?", true}},
		{&s.Phases, &models.Phase{}, nil},
		{&s.Modules.Total, &models.Module{}, nil},
		{&s.Modules.Active, &models.Module{}, []interface{}{"is_active = ?", true}},
		{&s.Content.Total, &models.Content{}, nil},
		{&s.Content.Active, &models.Content{}, []interface{}{"is_active = ?", true}},
		{&s.Enrollments.Total, &models.UserEnrollment{}, nil},
		{&s.Enrollments.Today, &models.UserEnrollment{}, []interface{}{"enrolled_at >= ?", weekConfig.With(at).BeginningOfDay()}},
		{&s.Enrollments.ThisWeek, &models.UserEnrollment{}, []interface{}{"enrolled_at >= ?", weekConfig.With(at).BeginningOfWeek()}},
	}
	for _, q := range counts {
		tx := db.Model(q.model)
		if len(q.where) > 0 {
			tx = tx.Where(q.where[0], q.where[1:]...)
		}
		if err := tx.Count(q.dst).Error; err != nil {
			return s, err
		}
	}

	for _, kind := range models.ContentTypes {
		s.Content.ByType[kind] = 0
	}
	var typeRows []struct {
		Type  string
		Count int64
	}
	if err := db.Model(&models.Content{}).
		Select("type, COUNT(*) AS count").
		Where("is_active = ?", true).
		Group("type").
		Scan(&typeRows).Error; err != nil {
		return s, err
	}
	for _, row := range typeRows {
		s.Content.ByType[row.Type] = row.Count
	}

	var completed int64
	if err := db.Model(&models.UserEnrollment{}).Where("status = ?", models.EnrollmentCompleted).Count(&completed).Error; err != nil {
		return s, err
	}
	s.CompletionRate = percentOf(completed, s.Enrollments.Total)

	var avg float64
	if err := db.Model(&models.UserEnrollment{}).Select("COALESCE(AVG(progress_percentage), 0)").Scan(&avg).Error; err != nil {
		return s, err
	}
	s.AverageProgress = round2(avg)
	return s, nil
}
