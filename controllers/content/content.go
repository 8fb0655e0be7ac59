package contentController

import (
	"errors"
	"strings"

	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"
	"cyberlearn/validators"
	contentValidator "cyberlearn/validators/content"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func moduleExists(db *gorm.DB, moduleID uint) (bool, error) {
	var count int64
	err := db.Model(&models.Module{}).Where("id = ?", moduleID).Count(&count).Error
	return count > 0, err
}

func withDetails(db *gorm.DB) *gorm.DB {
	return db.Preload("Lab").Preload("Game")
}

func activeModuleContent(db *gorm.DB, moduleID uint) ([]models.Content, error) {
	var items []models.Content
	err := withDetails(db).
		Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("sort_order asc").
		Find(&items).Error
	return items, err
}

var errPassingAboveMax = errors.New("game.passingScore must not exceed maxScore!")

func applyLab(lab *models.Lab, d *contentValidator.LabDetail) {
	if d == nil {
		return
	}
	if d.Environment != nil {
		lab.Environment = *d.Environment
	}
	if d.Tools != nil {
		lab.Tools = utils.StringSlice(d.Tools)
	}
	if d.Steps != nil {
		lab.Steps = utils.StringSlice(d.Steps)
	}
	if d.Hints != nil {
		lab.Hints = utils.StringSlice(d.Hints)
	}
	if d.MaxAttempts != nil {
		lab.MaxAttempts = *d.MaxAttempts
	}
}

func applyGame(game *models.Game, d *contentValidator.GameDetail) {
	if d == nil {
		return
	}
	if d.GameType != nil {
		game.GameType = *d.GameType
	}
	if d.MaxScore != nil {
		game.MaxScore = *d.MaxScore
	}
	if d.PassingScore != nil {
		game.PassingScore = *d.PassingScore
	}
	if d.TimeLimit != nil {
		game.TimeLimit = *d.TimeLimit
	}
	if len(d.Config) > 0 && string(d.Config) != "null" {
		game.Config = datatypes.JSON(d.Config)
	}
}

// saveDetail keeps the lab/game row in step with the content type. Fields missing from the request keep
// their stored value; a detail row of another type is removed.
func saveDetail(tx *gorm.DB, content models.Content, lab *contentValidator.LabDetail, game *contentValidator.GameDetail) error {
	if content.Type != models.ContentTypeLab {
		if err := tx.Where("content_id = ?", content.ID).Delete(&models.Lab{}).Error; err != nil {
			return err
		}
	}
	if content.Type != models.ContentTypeGame {
		if err := tx.Where("content_id = ?", content.ID).Delete(&models.Game{}).Error; err != nil {
			return err
		}
	}

	switch content.Type {
	case models.ContentTypeLab:
		var row models.Lab
		if err := tx.Where("content_id = ?", content.ID).Limit(1).Find(&row).Error; err != nil {
			return err
		}
		if row.ID != 0 && lab == nil {
			return nil
		}
		if row.ID == 0 {
			row = models.Lab{ContentID: content.ID, Tools: utils.StringSlice(nil), Steps: utils.StringSlice(nil), Hints: utils.StringSlice(nil)}
		}
		applyLab(&row, lab)
		return tx.Save(&row).Error
	case models.ContentTypeGame:
		var row models.Game
		if err := tx.Where("content_id = ?", content.ID).Limit(1).Find(&row).Error; err != nil {
			return err
		}
		if row.ID != 0 && game == nil {
			return nil
		}
		if row.ID == 0 {
			row = models.NewGame(content.ID)
		}
		applyGame(&row, game)
		if row.PassingScore > row.MaxScore {
			return errPassingAboveMax
		}
		return tx.Save(&row).Error
	}
	return nil
}

// ListContent answers the paginated content list with ?moduleId, ?type, ?section, ?search and ?includeInactive (admin)
func ListContent(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	db := database.Database.Db.Model(&models.Content{})
	if !(middleware.IsAdmin(c) && utils.QueryBool(c, "includeInactive")) {
		db = db.Where("is_active = ?", true)
	}

	moduleID, ok, err := utils.QueryUint(c, "moduleId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module ID!", nil)
	}
	if ok {
		db = db.Where("module_id = ?", moduleID)
	}
	if kind := strings.TrimSpace(c.Query("type")); kind != "" {
		db = db.Where("type = ?", kind)
	}
	if section := strings.TrimSpace(c.Query("section")); section != "" {
		db = db.Where("section = ?", section)
	}
	if search := strings.ToLower(strings.TrimSpace(c.Query("search"))); search != "" {
		like := "%" + search + "%"
		db = db.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}

	var items []models.Content
	if err := withDetails(db).
		Order("module_id asc").Order("sort_order asc").
		Offset(p.Offset()).Limit(p.Limit).
		Find(&items).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully.", fiber.Map{
		"items":      items,
		"pagination": p.Meta(total),
	})
}

func GetContent(c *fiber.Ctx) error {
	id := c.Locals("contentId").(uint)

	var content models.Content
	if err := withDetails(database.Database.Db).First(&content, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	if !content.IsActive && !middleware.IsAdmin(c) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Content not found!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully.", content)
}

func ContentByModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)

	db := database.Database.Db
	exists, err := moduleExists(db, moduleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	items, err := activeModuleContent(db, moduleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully.", items)
}

// GroupedContent returns the module's active content grouped by section
func GroupedContent(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)

	var groups []utils.SectionGroup
	key := utils.GroupedContentCacheKey(moduleID)
	if utils.CacheGet(c.Context(), key, &groups) {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully.", groups)
	}

	db := database.Database.Db
	exists, err := moduleExists(db, moduleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	items, err := activeModuleContent(db, moduleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	groups = utils.GroupBySection(items)
	utils.CacheSet(c.Context(), key, groups)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully.", groups)
}

func ModuleSections(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleId").(uint)

	db := database.Database.Db
	exists, err := moduleExists(db, moduleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	var items []models.Content
	if err := db.Select("id", "section", "sort_order").
		Where("module_id = ? AND is_active = ?", moduleID, true).
		Order("sort_order asc").
		Find(&items).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Sections fetched successfully.", utils.SectionNames(items))
}

func ContentByType(c *fiber.Ctx) error {
	kind := c.Locals("contentType").(string)

	var items []models.Content
	if err := withDetails(database.Database.Db).
		Where("type = ? AND is_active = ?", kind, true).
		Order("module_id asc").Order("sort_order asc").
		Find(&items).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content fetched successfully.", items)
}

func CreateContent(c *fiber.Ctx) error {
	reqData := c.Locals("validatedContent").(*contentValidator.CreateContentRequest)

	db := database.Database.Db

	exists, err := moduleExists(db, reqData.ModuleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	content := models.Content{
		ModuleID:     reqData.ModuleID,
		Type:         reqData.Type,
		Title:        reqData.Title,
		Description:  reqData.Description,
		Section:      reqData.Section,
		Duration:     reqData.Duration,
		URL:          reqData.URL,
		Instructions: reqData.Instructions,
		Resources:    utils.StringSlice(reqData.Resources),
		IsActive:     true,
	}
	if reqData.IsActive != nil {
		content.IsActive = *reqData.IsActive
	}

	if reqData.Order != nil {
		content.Order = *reqData.Order
	} else {
		next, err := utils.NextOrder(db, &models.Content{}, map[string]interface{}{"module_id": reqData.ModuleID})
		if err != nil {
			return middleware.DBErrorResponse(c, err, "Content")
		}
		content.Order = next
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&content).Error; err != nil {
			return err
		}
		return saveDetail(tx, content, reqData.Lab, reqData.Game)
	})
	if err != nil {
		if errors.Is(err, errPassingAboveMax) {
			return middleware.ValidationErrorResponse(c, map[string]string{"game.passingScore": err.Error()})
		}
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Content with this order already exists in the module!", nil)
		}
		return middleware.DBErrorResponse(c, err, "Content")
	}

	utils.SyncAfterContentChange(db, content.ModuleID)

	if err := withDetails(db).First(&content, content.ID).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	logger.Log.Info("Content created", "contentId", content.ID, "moduleId", content.ModuleID, "type", content.Type)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Content created successfully.", content)
}

func UpdateContent(c *fiber.Ctx) error {
	id := c.Locals("contentId").(uint)
	reqData := c.Locals("validatedContent").(*contentValidator.UpdateContentRequest)

	db := database.Database.Db

	var content models.Content
	if err := db.First(&content, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	previousModuleID := content.ModuleID

	finalType := content.Type
	if reqData.Type != nil {
		finalType = *reqData.Type
	}
	detailErrors := map[string]string{}
	if reqData.Lab != nil && finalType != models.ContentTypeLab {
		detailErrors["lab"] = "lab details are only allowed on lab content!"
	}
	if reqData.Game != nil && finalType != models.ContentTypeGame {
		detailErrors["game"] = "game details are only allowed on game content!"
	}
	if len(detailErrors) > 0 {
		return middleware.ValidationErrorResponse(c, detailErrors)
	}

	updates := map[string]interface{}{}
	if reqData.ModuleID != nil && *reqData.ModuleID != content.ModuleID {
		exists, err := moduleExists(db, *reqData.ModuleID)
		if err != nil {
			return middleware.DBErrorResponse(c, err, "Module")
		}
		if !exists {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
		}
		updates["module_id"] = *reqData.ModuleID
		if reqData.Order == nil {
			next, err := utils.NextOrder(db, &models.Content{}, map[string]interface{}{"module_id": *reqData.ModuleID})
			if err != nil {
				return middleware.DBErrorResponse(c, err, "Content")
			}
			updates["sort_order"] = next
		}
	}
	if reqData.Order != nil {
		updates["sort_order"] = *reqData.Order
	}
	if reqData.Type != nil {
		updates["type"] = *reqData.Type
	}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Section != nil {
		updates["section"] = *reqData.Section
	}
	if reqData.Duration != nil {
		updates["duration"] = *reqData.Duration
	}
	if reqData.URL != nil {
		updates["url"] = *reqData.URL
	}
	if reqData.Instructions != nil {
		updates["instructions"] = *reqData.Instructions
	}
	if reqData.Resources != nil {
		updates["resources"] = utils.StringSlice(reqData.Resources)
	}
	if reqData.IsActive != nil {
		updates["is_active"] = *reqData.IsActive
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&content).Updates(updates).Error; err != nil {
				return err
			}
		}
		if err := tx.First(&content, id).Error; err != nil {
			return err
		}
		if err := saveDetail(tx, content, reqData.Lab, reqData.Game); err != nil {
			return err
		}
		if content.ModuleID != previousModuleID {
			return tx.Model(&models.UserProgress{}).Where("content_id = ?", id).Update("module_id", content.ModuleID).Error
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errPassingAboveMax) {
			return middleware.ValidationErrorResponse(c, map[string]string{"game.passingScore": err.Error()})
		}
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Content with this order already exists in the module!", nil)
		}
		return middleware.DBErrorResponse(c, err, "Content")
	}

	utils.SyncAfterContentChange(db, previousModuleID, content.ModuleID)

	if err := withDetails(db).First(&content, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content updated successfully.", content)
}

// DeleteContent is the soft delete: the row stays, isActive becomes false
func DeleteContent(c *fiber.Ctx) error {
	id := c.Locals("contentId").(uint)

	db := database.Database.Db

	var content models.Content
	if err := db.First(&content, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	if err := db.Model(&content).Update("is_active", false).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}

	utils.SyncAfterContentChange(db, content.ModuleID)

	logger.Log.Info("Content deactivated", "contentId", id)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content deleted successfully.", nil)
}

// PermanentDeleteContent removes the content, its lab/game detail and every progress row on it
func PermanentDeleteContent(c *fiber.Ctx) error {
	id := c.Locals("contentId").(uint)

	db := database.Database.Db

	var content models.Content
	if err := db.First(&content, id).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("content_id = ?", id).Delete(&models.UserProgress{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&models.Lab{}).Error; err != nil {
			return err
		}
		if err := tx.Where("content_id = ?", id).Delete(&models.Game{}).Error; err != nil {
			return err
		}
		return tx.Delete(&content).Error
	})
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}

	utils.SyncAfterContentChange(db, content.ModuleID)

	logger.Log.Info("Content permanently deleted", "contentId", id, "moduleId", content.ModuleID)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content permanently deleted.", nil)
}

func ReorderContent(c *fiber.Ctx) error {
	reqData := c.Locals("validatedOrder").(*contentValidator.ReorderContentRequest)

	db := database.Database.Db
	exists, err := moduleExists(db, reqData.ModuleID)
	if err != nil {
		return middleware.DBErrorResponse(c, err, "Module")
	}
	if !exists {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	items, err := utils.PrepareOrder(validators.OrderUpdates(reqData.Items))
	if err == nil {
		err = utils.PersistOrder(db, &models.Content{}, map[string]interface{}{"module_id": reqData.ModuleID}, items, true)
	}
	if err != nil {
		if status, message, ok := utils.OrderErrorStatus(err); ok {
			return middleware.JsonResponse(c, status, false, message, nil)
		}
		return middleware.DBErrorResponse(c, err, "Content order")
	}

	utils.SyncAfterContentChange(db, reqData.ModuleID)

	var contents []models.Content
	if err := db.Where("module_id = ?", reqData.ModuleID).Order("sort_order asc").Find(&contents).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Content")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Content reordered successfully.", contents)
}
