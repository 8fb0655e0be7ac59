package enrollmentController

import (
	"strings"
	"time"

	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"
	enrollmentValidator "cyberlearn/validators/enrollment"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func withModule(db *gorm.DB) *gorm.DB {
	return db.Preload("Module").Preload("Module.Phase")
}

// loadOwned fetches :id and checks the caller owns it or is admin. On failure the response is written.
func loadOwned(c *fiber.Ctx) (*models.UserEnrollment, error) {
	id := c.Locals("enrollmentId").(uint)

	var enrollment models.UserEnrollment
	if err := database.Database.Db.First(&enrollment, id).Error; err != nil {
		return nil, middleware.DBErrorResponse(c, err, "Enrollment")
	}
	if !middleware.CanAccessUser(c, enrollment.UserID) {
		return nil, middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only access your own enrollments!", nil)
	}
	return &enrollment, nil
}

// afterResync re-evaluates the user's achievements once an enrollment has been recomputed
func afterResync(c *fiber.Ctx, db *gorm.DB, userId uint) {
	if _, err := utils.EvaluateAchievements(db, userId); err != nil {
		logger.Log.Error("Failed to evaluate achievements", "userId", userId, "error", err)
	}
	utils.CacheDelete(c.Context(), utils.DashboardStatsCacheKey)
}

func Enroll(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEnrollment").(*enrollmentValidator.EnrollRequest)

	userId, _ := middleware.CurrentUserID(c)
	if reqData.UserID != nil && *reqData.UserID != userId {
		if !middleware.IsAdmin(c) {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only enroll yourself!", nil)
		}
		userId = *reqData.UserID
	}

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}

	var module models.Module
	if err := db.Where("id = ? AND is_active = ?", reqData.ModuleID, true).First(&module).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}

	var existing int64
	if err := db.Model(&models.UserEnrollment{}).Where("user_id = ? AND module_id = ?", userId, module.ID).Count(&existing).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}
	if existing > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this module!", nil)
	}

	now := time.Now()
	enrollment := models.UserEnrollment{
		UserID:         userId,
		ModuleID:       module.ID,
		Status:         models.EnrollmentActive,
		EnrolledAt:     now,
		TotalSections:  module.TotalContent,
		LastAccessedAt: &now,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this module!", nil)
		}
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}

	// progress made before enrolling still counts
	synced, err := utils.ResyncEnrollment(db, userId, module.ID)
	if err != nil {
		logger.Log.Error("Failed to sync new enrollment", "enrollmentId", enrollment.ID, "error", err)
	} else {
		enrollment = *synced
	}
	enrollment.Module = &module

	afterResync(c, db, userId)
	logger.Log.Info("User enrolled", "userId", userId, "moduleId", module.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrolled successfully.", enrollment)
}

// ListEnrollments is the admin view with ?status, ?moduleId and ?userId filters
func ListEnrollments(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	db := database.Database.Db.Model(&models.UserEnrollment{})
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		db = db.Where("status = ?", status)
	}
	moduleId, ok, err := utils.QueryUint(c, "moduleId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
	}
	if ok {
		db = db.Where("module_id = ?", moduleId)
	}
	userId, ok, err := utils.QueryUint(c, "userId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user ID!", nil)
	}
	if ok {
		db = db.Where("user_id = ?", userId)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}

	var enrollments []models.UserEnrollment
	if err := db.Preload("Module").Preload("User").
		Order("enrolled_at desc").Order("id desc").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&enrollments).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", fiber.Map{
		"items":      enrollments,
		"pagination": p.Meta(total),
	})
}

func enrollmentsOf(c *fiber.Ctx, userId uint) error {
	var enrollments []models.UserEnrollment
	if err := withModule(database.Database.Db).
		Where("user_id = ?", userId).
		Order("enrolled_at desc").Order("id desc").
		Find(&enrollments).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollments fetched successfully.", enrollments)
}

func MyEnrollments(c *fiber.Ctx) error {
	userId, _ := middleware.CurrentUserID(c)
	return enrollmentsOf(c, userId)
}

func UserEnrollments(c *fiber.Ctx) error {
	userId := c.Locals("targetUserId").(uint)
	if !middleware.CanAccessUser(c, userId) {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "You can only access your own enrollments!", nil)
	}
	return enrollmentsOf(c, userId)
}

func EnrollmentStats(c *fiber.Ctx) error {
	stats, err := utils.EnrollmentStats(database.Database.Db)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment stats fetched successfully.", stats)
}

func GetEnrollment(c *fiber.Ctx) error {
	enrollment, err := loadOwned(c)
	if enrollment == nil {
		return err
	}

	if err := withModule(database.Database.Db).First(enrollment, enrollment.ID).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment fetched successfully.", enrollment)
}

// UpdateStatus sets active, paused or dropped; completed is only ever derived from progress
func UpdateStatus(c *fiber.Ctx) error {
	reqData := c.Locals("validatedEnrollment").(*enrollmentValidator.UpdateStatusRequest)

	enrollment, err := loadOwned(c)
	if enrollment == nil {
		return err
	}

	db := database.Database.Db
	if err := db.Model(enrollment).Update("status", reqData.Status).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}

	synced, err := utils.ResyncEnrollment(db, enrollment.UserID, enrollment.ModuleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}
	afterResync(c, db, enrollment.UserID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment status updated.", synced)
}

// DeleteEnrollment removes the enrollment; progress rows are kept
func DeleteEnrollment(c *fiber.Ctx) error {
	enrollment, err := loadOwned(c)
	if enrollment == nil {
		return err
	}

	if err := database.Database.Db.Delete(enrollment).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}

	utils.CacheDelete(c.Context(), utils.DashboardStatsCacheKey)
	logger.Log.Info("Enrollment removed", "enrollmentId", enrollment.ID, "userId", enrollment.UserID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment deleted successfully.", nil)
}

func SyncEnrollment(c *fiber.Ctx) error {
	enrollment, err := loadOwned(c)
	if enrollment == nil {
		return err
	}

	db := database.Database.Db
	synced, err := utils.ResyncEnrollment(db, enrollment.UserID, enrollment.ModuleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Enrollment")
	}
	afterResync(c, db, enrollment.UserID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment synced.", synced)
}
