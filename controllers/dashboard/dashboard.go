package dashboardController

import (
	"time"

	"cyberlearn/database"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"

	"github.com/gofiber/fiber/v2"
)

type recentEnrollment struct {
	EnrollmentID uint      `json:"enrollmentId"`
	Username     string    `json:"username"`
	ModuleTitle  string    `json:"moduleTitle"`
	Status       string    `json:"status"`
	EnrolledAt   time.Time `json:"enrolledAt"`
}

type dashboardResponse struct {
	Stats             utils.DashboardStatsResult `json:"stats"`
	RecentEnrollments []recentEnrollment         `json:"recentEnrollments"`
}

// AdminDashboardStats answers the admin overview, cached for CACHE_TTL_SECONDS
func AdminDashboardStats(c *fiber.Ctx) error {
	var cached dashboardResponse
	if utils.CacheGet(c.Context(), utils.DashboardStatsCacheKey, &cached) {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", cached)
	}

	db := database.Database.Db

	stats, err := utils.DashboardStats(db, time.Now())
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Dashboard")
	}

	var latest []models.UserEnrollment
	if err := db.Preload("User").Preload("Module").
		Order("enrolled_at desc").Order("id desc").
		Limit(5).
		Find(&latest).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Dashboard")
	}

	recent := make([]recentEnrollment, len(latest))
	for i, e := range latest {
		recent[i] = recentEnrollment{EnrollmentID: e.ID, Status: e.Status, EnrolledAt: e.EnrolledAt}
		if e.User != nil {
			recent[i].Username = e.User.Username
		}
		if e.Module != nil {
			recent[i].ModuleTitle = e.Module.Title
		}
	}

	resp := dashboardResponse{Stats: stats, RecentEnrollments: recent}
	utils.CacheSet(c.Context(), utils.DashboardStatsCacheKey, resp)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Dashboard stats fetched successfully!", resp)
}
