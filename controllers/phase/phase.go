package phaseController

import (
	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"
	"cyberlearn/validators"
	phaseValidator "cyberlearn/validators/phase"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func activeModules(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true).Order("sort_order asc")
}

// ListPhases returns phases ordered by order, with ?withModules=true embedding their active modules
func ListPhases(c *fiber.Ctx) error {
	db := database.Database.Db.Model(&models.Phase{})
	if !(middleware.IsAdmin(c) && utils.QueryBool(c, "includeInactive")) {
		db = db.Where("is_active = ?", true)
	}
	if utils.QueryBool(c, "withModules") {
		db = db.Preload("Modules", activeModules)
	}

	var phases []models.Phase
	if err := db.Order("sort_order asc").Find(&phases).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phases fetched successfully.", phases)
}

func GetPhase(c *fiber.Ctx) error {
	id := c.Locals("phaseId").(uint)

	var phase models.Phase
	if err := database.Database.Db.Preload("Modules", activeModules).First(&phase, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}
	if !phase.IsActive && !middleware.IsAdmin(c) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phase fetched successfully.", phase)
}

func CreatePhase(c *fiber.Ctx) error {
	reqData := c.Locals("validatedPhase").(*phaseValidator.CreatePhaseRequest)

	db := database.Database.Db

	phase := models.Phase{
		Title:       reqData.Title,
		Description: reqData.Description,
		Color:       reqData.Color,
		Icon:        reqData.Icon,
		IsActive:    true,
	}
	if phase.Color == "" {
		phase.Color = "#3B82F6"
	}
	if phase.Icon == "" {
		phase.Icon = "shield"
	}
	if reqData.IsActive != nil {
		phase.IsActive = *reqData.IsActive
	}

	if reqData.Order != nil {
		phase.Order = *reqData.Order
	} else {
		next, err := utils.NextOrder(db, &models.Phase{}, nil)
		if err != nil {
			return middleware.DBErrorResponse(c, err, "Phase")
		}
		phase.Order = next
	}

	if err := db.Create(&phase).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A phase with this order already exists!", nil)
		}
		return middleware.DBErrorResponse(c, err, "Phase")
	}

	utils.CacheDelete(c.Context(), utils.DashboardStatsCacheKey)
	logger.Log.Info("Phase created", "phaseId", phase.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Phase created successfully.", phase)
}

func UpdatePhase(c *fiber.Ctx) error {
	id := c.Locals("phaseId").(uint)
	reqData := c.Locals("validatedPhase").(*phaseValidator.UpdatePhaseRequest)

	db := database.Database.Db

	var phase models.Phase
	if err := db.First(&phase, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Order != nil {
		updates["sort_order"] = *reqData.Order
	}
	if reqData.Color != nil {
		updates["color"] = *reqData.Color
	}
	if reqData.Icon != nil {
		updates["icon"] = *reqData.Icon
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	if len(updates) > 0 {
		if err := db.Model(&phase).Updates(updates).Error; err != nil {
			if database.IsUniqueViolation(err) {
				return middleware.JsonResponse(c, fiber.StatusConflict, false, "A phase with this order already exists!", nil)
			}
			return middleware.DBErrorResponse(c, err, "Phase")
		}
	}

	if err := db.First(&phase, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phase updated successfully.", phase)
}

// DeletePhase removes an empty phase; phases still referenced by modules answer 409
func DeletePhase(c *fiber.Ctx) error {
	id := c.Locals("phaseId").(uint)

	db := database.Database.Db

	var phase models.Phase
	if err := db.First(&phase, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}

	var modules int64
	if err := db.Model(&models.Module{}).Where("phase_id = ?", id).Count(&modules).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}
	if modules > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Phase still has modules! Move or delete them first.", fiber.Map{
			"modules": modules,
		})
	}

	if err := db.Delete(&phase).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}

	utils.CacheDelete(c.Context(), utils.DashboardStatsCacheKey)
	logger.Log.Info("Phase deleted", "phaseId", id)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phase deleted successfully.", nil)
}

func ReorderPhases(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOrder").(*validators.ReorderRequest)

	items, err := utils.PrepareOrder(validators.OrderUpdates(reqData.Items))
	if err != nil {
		status, message, _ := utils.OrderErrorStatus(err)
		return middleware.JsonResponse(c, status, false, message, nil)
	}

	db := database.Database.Db
	if err := utils.PersistOrder(db, &models.Phase{}, nil, items, false); err != nil {
		if status, message, ok := utils.OrderErrorStatus(err); ok {
			return middleware.JsonResponse(c, status, false, message, nil)
		}
		return middleware.DBErrorResponse(c, err, "Phase order")
	}

	var phases []models.Phase
	if err := db.Order("sort_order asc").Find(&phases).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Phases reordered successfully.", phases)
}
