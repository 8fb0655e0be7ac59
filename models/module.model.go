package models

import "gorm.io/datatypes"

const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
	DifficultyExpert       = "expert"
)

// ModuleContent is the per-type list of active content ids, ordered by content order.
// It is derived from the contents table and rewritten by the content sync.
type ModuleContent struct {
	Videos    []uint `json:"videos"`
	Labs      []uint `json:"labs"`
	Games     []uint `json:"games"`
	Documents []uint `json:"documents"`
}

// Module represents a course unit inside a phase
type Module struct {
	Base
	PhaseID          uint                        `json:"phaseId" gorm:"not null;uniqueIndex:idx_modules_phase_order,priority:1"`
	Title            string                      `json:"title" gorm:"size:150;not null"`
	Description      string                      `json:"description" gorm:"type:text"`
	Icon             string                      `json:"icon" gorm:"size:50"`
	Color            string                      `json:"color" gorm:"size:7"`
	Difficulty       string                      `json:"difficulty" gorm:"size:20;default:'beginner'"`
	Order            int                         `json:"order" gorm:"column:sort_order;not null;uniqueIndex:idx_modules_phase_order,priority:2"`
	Topics           datatypes.JSONSlice[string] `json:"topics"`
	Prerequisites    datatypes.JSONSlice[string] `json:"prerequisites"`
	LearningOutcomes datatypes.JSONSlice[string] `json:"learningOutcomes"`
	IsActive         bool                        `json:"isActive" gorm:"not null"`

	// read-cache, see utils.RefreshModuleContent
	Content        datatypes.JSONType[ModuleContent] `json:"content"`
	TotalContent   int                               `json:"totalContent"`
	EstimatedHours int                               `json:"estimatedHours"`

	Phase *Phase `json:"phase,omitempty"`
}

func IsValidDifficulty(d string) bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return true
	}
	return false
}
