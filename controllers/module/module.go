package moduleController

import (
	"strings"

	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"
	"cyberlearn/validators"
	moduleValidator "cyberlearn/validators/module"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func phaseExists(db *gorm.DB, phaseID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Phase{}).Where("id = ?", phaseID).Count(&count).Error
	return count > 0, err
}

// ListModules answers the paginated catalogue with ?phaseId, ?difficulty, ?search and ?includeInactive (admin)
func ListModules(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	db := database.Database.Db.Model(&models.Module{})
	if !(middleware.IsAdmin(c) && utils.QueryBool(c, "includeInactive")) {
		db = db.Where("is_active = ?", true)
	}

	phaseID, ok, err := utils.QueryUint(c, "phaseId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid phase ID!", nil)
	}
	if ok {
		db = db.Where("phase_id = ?", phaseID)
	}
	if difficulty := strings.TrimSpace(c.Query("difficulty")); difficulty != "" {
		db = db.Where("difficulty = ?", difficulty)
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}

	var modules []models.Module
	if err := db.Preload("Phase").
		Order("phase_id asc").Order("sort_order asc").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&modules).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully.", fiber.Map{
		"items":      modules,
		"pagination": p.Meta(total),
	})
}

func GetModule(c *fiber.Ctx) error {
	id := c.Locals("moduleId").(uint)

	var module models.Module
	if err := database.Database.Db.Preload("Phase").First(&module, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	if !module.IsActive && !middleware.IsAdmin(c) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module fetched successfully.", module)
}

func ModulesByPhase(c *fiber.Ctx) error {
	phaseID := c.Locals("phaseId").(uint)

	db := database.Database.Db
	exists, err := phaseExists(db, phaseID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
	}

	q := db.Where("phase_id = ?", phaseID)
	if !(middleware.IsAdmin(c) && utils.QueryBool(c, "includeInactive")) {
		q = q.Where("is_active = ?", true)
	}

	var modules []models.Module
	if err := q.Order("sort_order asc").Find(&modules).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully.", modules)
}

func CreateModule(c *fiber.Ctx) error {
	reqData := c.Locals("validatedModule").(*moduleValidator.CreateModuleRequest)

	db := database.Database.Db

	exists, err := phaseExists(db, reqData.PhaseID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
	}

	module := models.Module{
		PhaseID:          reqData.PhaseID,
		Title:            reqData.Title,
		Description:      reqData.Description,
		Icon:             reqData.Icon,
		Color:            reqData.Color,
		Difficulty:       reqData.Difficulty,
		Topics:           utils.StringSlice(reqData.Topics),
		Prerequisites:    utils.StringSlice(reqData.Prerequisites),
		LearningOutcomes: utils.StringSlice(reqData.LearningOutcomes),
		IsActive:         true,
		Content:          datatypes.NewJSONType(models.ModuleContent{Videos: []uint{}, Labs: []uint{}, Games: []uint{}, Documents: []uint{}}),
	}
	if module.Difficulty == "" {
		module.Difficulty = models.DifficultyBeginner
	}
	if reqData.IsActive != nil {
		module.IsActive = *reqData.IsActive
	}

	if reqData.Order != nil {
		module.Order = *reqData.Order
	} else {
		next, err := utils.NextOrder(db, &models.Module{}, map[string]interface{}{"phase_id": reqData.PhaseID})
		if err != nil {
			return middleware.DBErrorResponse(c, err, "Module")
		}
		module.Order = next
	}

	if err := db.Create(&module).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A module with this order already exists in the phase!", nil)
		}
		return middleware.DBErrorResponse(c, err, "Module")
	}

	utils.CacheDelete(c.Context(), utils.DashboardStatsCacheKey)
	logger.Log.Info("Module created", "moduleId", module.ID, "phaseId", module.PhaseID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully.", module)
}

func UpdateModule(c *fiber.Ctx) error {
	id := c.Locals("moduleId").(uint)
	reqData := c.Locals("validatedModule").(*moduleValidator.UpdateModuleRequest)

	db := database.Database.Db

	var module models.Module
	if err := db.First(&module, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}

	updates := map[string]interface{}{}
	if reqData.PhaseID != nil && *reqData.PhaseID != module.PhaseID {
		exists, err := phaseExists(db, *reqData.PhaseID)
		if err != nil {
			return middleware.DBErrorResponse(c, err, "Phase")
		}
		if !exists {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
		}
		updates["phase_id"] = *reqData.PhaseID
		if reqData.Order == nil {
			next, err := utils.NextOrder(db, &models.Module{}, map[string]interface{}{"phase_id": *reqData.PhaseID})
			if err != nil {
				return middleware.DBErrorResponse(c, err, "Module")
			}
			updates["sort_order"] = next
		}
	}
	if reqData.Order != nil {
		updates["sort_order"] = *reqData.Order
	}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Icon != nil {
		updates["icon"] = *reqData.Icon
	}
	if reqData.Color != nil {
		updates["color"] = *reqData.Color
	}
	if reqData.Difficulty != nil {
		updates["difficulty"] = *reqData.Difficulty
	}
	if reqData.Topics != nil {
		updates["topics"] = utils.StringSlice(reqData.Topics)
	}
	if reqData.Prerequisites != nil {
		updates["prerequisites"] = utils.StringSlice(reqData.Prerequisites)
	}
	if reqData.LearningOutcomes != nil {
		updates["learning_outcomes"] = utils.StringSlice(reqData.LearningOutcomes)
	}
	activeChanged := reqData.IsActive != nil && *reqData.IsActive != module.IsActive
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	// a module's content follows its active flag, the same way DeleteModule hides it
	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&module).Updates(updates).Error; err != nil {
				return err
			}
		}
		if activeChanged {
			return tx.Model(&models.Content{}).Where("module_id = ?", id).Update("is_active", *reqData.IsActive).Error
		}
		return nil
	})
	if err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A module with this order already exists in the phase!", nil)
		}
		return middleware.DBErrorResponse(c, err, "Module")
	}

	if activeChanged {
		utils.SyncAfterContentChange(db, id)
		logger.Log.Info("Module active flag changed", "moduleId", id, "isActive", *reqData.IsActive)
	} else {
		utils.CacheDelete(c.Context(), utils.DashboardStatsCacheKey)
	}

	if err := db.Preload("Phase").First(&module, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully.", module)
}

// DeleteModule soft deletes the module together with its content
func DeleteModule(c *fiber.Ctx) error {
	id := c.Locals("moduleId").(uint)

	db := database.Database.Db

	var module models.Module
	if err := db.First(&module, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&module).Update("is_active", false).Error; err != nil {
			return err
		}
		return tx.Model(&models.Content{}).Where("module_id = ?", id).Update("is_active", false).Error
	})
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}

	utils.SyncAfterContentChange(db, id)

	logger.Log.Info("Module deactivated", "moduleId", id)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully.", nil)
}

func ReorderModules(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOrder").(*moduleValidator.ReorderModulesRequest)

	db := database.Database.Db
	exists, err := phaseExists(db, reqData.PhaseID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Phase")
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Phase not found!", nil)
	}

	items, err := utils.PrepareOrder(validators.OrderUpdates(reqData.Items))
	if err == nil {
		err = utils.PersistOrder(db, &models.Module{}, map[string]interface{}{"phase_id": reqData.PhaseID}, items, false)
	}
	if err != nil {
		if status, message, ok := utils.OrderErrorStatus(err); ok {
			return middleware.JsonResponse(c, status, false, message, nil)
		}
		return middleware.DBErrorResponse(c, err, "Module order")
	}

	var modules []models.Module
	if err := db.Where("phase_id = ?", reqData.PhaseID).Order("sort_order asc").Find(&modules).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully.", modules)
}
