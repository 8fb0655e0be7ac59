package utils

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cyberlearn/logger"
	"cyberlearn/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ImportResult counts what a catalog import did with each content row
type ImportResult struct {
	Inserted int
	Updated  int
	Skipped  int
}

// ImportCatalogCSV upserts phases, modules and content from a CSV with the header
// phase,module,difficulty,section,type,title,duration,url,description.
// Rows are matched by title inside their parent; unknown types and blank titles are skipped.
func ImportCatalogCSV(db *gorm.DB, r io.Reader) (ImportResult, error) {
	var res ImportResult

	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return res, fmt.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return res, fmt.Errorf("csv has no data rows")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.ToLower(strings.TrimSpace(h))] = i
	}

	phases := map[string]*models.Phase{}
	modules := map[string]*models.Module{}
	touched := []uint{}

	for i, row := range records[1:] {
		phaseTitle := getField(row, headerIndex, "phase")
		moduleTitle := getField(row, headerIndex, "module")
		title := getField(row, headerIndex, "title")
		kind := strings.ToLower(getField(row, headerIndex, "type"))
		if phaseTitle == "" || moduleTitle == "" || title == "" || !models.IsValidContentType(kind) {
			logger.Log.Warn("Skipping catalog row", "row", i+2)
			res.Skipped++
			continue
		}

		phase, ok := phases[phaseTitle]
		if !ok {
			phase, err = findOrCreatePhase(db, phaseTitle)
			if err != nil {
				return res, fmt.Errorf("row %d: %w", i+2, err)
			}
			phases[phaseTitle] = phase
		}

		moduleKey := fmt.Sprintf("%d/%s", phase.ID, moduleTitle)
		module, ok := modules[moduleKey]
		if !ok {
			module, err = findOrCreateModule(db, phase.ID, moduleTitle, getField(row, headerIndex, "difficulty"))
			if err != nil {
				return res, fmt.Errorf("row %d: %w", i+2, err)
			}
			modules[moduleKey] = module
			touched = append(touched, module.ID)
		}

		section := getField(row, headerIndex, "section")
		if section == "" {
			section = "General"
		}
		fields := models.Content{
			Type:        kind,
			Section:     section,
			Duration:    parseInt(getField(row, headerIndex, "duration")),
			URL:         getField(row, headerIndex, "url"),
			Description: getField(row, headerIndex, "description"),
		}

		var existing models.Content
		err := db.Where("module_id = ? AND title = ?", module.ID, title).First(&existing).Error
		switch {
		case err == nil:
			if err := db.Model(&existing).Updates(map[string]interface{}{
				"type":        fields.Type,
				"section":     fields.Section,
				"duration":    fields.Duration,
				"url":         fields.URL,
				"description": fields.Description,
				"is_active":   true,
			}).Error; err != nil {
				return res, fmt.Errorf("row %d: update content: %w", i+2, err)
			}
			res.Updated++
		case errors.Is(err, gorm.ErrRecordNotFound):
			next, err := NextOrder(db, &models.Content{}, map[string]interface{}{"module_id": module.ID})
			if err != nil {
				return res, err
			}
			fields.ModuleID = module.ID
			fields.Title = title
			fields.Order = next
			fields.IsActive = true
			fields.Resources = StringSlice(nil)
			if err := db.Create(&fields).Error; err != nil {
				return res, fmt.Errorf("row %d: insert content: %w", i+2, err)
			}
			if err := createDefaultDetail(db, fields); err != nil {
				return res, fmt.Errorf("row %d: %w", i+2, err)
			}
			res.Inserted++
		default:
			return res, err
		}
	}

	SyncAfterContentChange(db, touched...)
	return res, nil
}

func findOrCreatePhase(db *gorm.DB, title string) (*models.Phase, error) {
	var phase models.Phase
	err := db.Where("title = ?", title).First(&phase).Error
	if err == nil {
		return &phase, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	next, err := NextOrder(db, &models.Phase{}, nil)
	if err != nil {
		return nil, err
	}
	phase = models.Phase{Title: title, Order: next, Color: "#3B82F6", Icon: "shield", IsActive: true}
	if err := db.Create(&phase).Error; err != nil {
		return nil, fmt.Errorf("create phase %q: %w", title, err)
	}
	return &phase, nil
}

func findOrCreateModule(db *gorm.DB, phaseID uint, title, difficulty string) (*models.Module, error) {
	var module models.Module
	err := db.Where("phase_id = ? AND title = ?", phaseID, title).First(&module).Error
	if err == nil {
		return &module, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	difficulty = strings.ToLower(difficulty)
	if !models.IsValidDifficulty(difficulty) {
		difficulty = models.DifficultyBeginner
	}
	next, err := NextOrder(db, &models.Module{}, map[string]interface{}{"phase_id": phaseID})
	if err != nil {
		return nil, err
	}
	module = models.Module{
		PhaseID:          phaseID,
		Title:            title,
		Difficulty:       difficulty,
		Order:            next,
		IsActive:         true,
		Topics:           StringSlice(nil),
		Prerequisites:    StringSlice(nil),
		LearningOutcomes: StringSlice(nil),
		Content:          datatypes.NewJSONType(models.ModuleContent{}),
	}
	if err := db.Create(&module).Error; err != nil {
		return nil, fmt.Errorf("create module %q: %w", title, err)
	}
	return &module, nil
}

func createDefaultDetail(db *gorm.DB, content models.Content) error {
	switch content.Type {
	case models.ContentTypeLab:
		lab := models.Lab{ContentID: content.ID, Tools: StringSlice(nil), Steps: StringSlice(nil), Hints: StringSlice(nil)}
		return db.Create(&lab).Error
	case models.ContentTypeGame:
		game := models.NewGame(content.ID)
		return db.Create(&game).Error
	}
	return nil
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseInt(s string) int {
	val, err := strconv.Atoi(s)
	if err != nil || val < 0 {
		return 0
	}
	return val
}
