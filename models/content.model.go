package models

import "gorm.io/datatypes"

const (
	ContentTypeVideo    = "video"
	ContentTypeLab      = "lab"
	ContentTypeGame     = "game"
	ContentTypeDocument = "document"
)

// ContentTypes lists every content type in display order
var ContentTypes = []string{ContentTypeVideo, ContentTypeLab, ContentTypeGame, ContentTypeDocument}

// Content is a single learning item inside a module section
type Content struct {
	Base
	ModuleID     uint                        `json:"moduleId" gorm:"not null;uniqueIndex:idx_contents_module_order,priority:1"`
	Type         string                      `json:"type" gorm:"size:20;not null;index"`
	Title        string                      `json:"title" gorm:"size:200;not null"`
	Description  string                      `json:"description" gorm:"type:text"`
	Section      string                      `json:"section" gorm:"size:100;not null;index"`
	Order        int                         `json:"order" gorm:"column:sort_order;not null;uniqueIndex:idx_contents_module_order,priority:2"`
	Duration     int                         `json:"duration"` // minutes
	URL          string                      `json:"url"`
	Instructions string                      `json:"instructions" gorm:"type:text"`
	Resources    datatypes.JSONSlice[string] `json:"resources"`
	IsActive     bool                        `json:"isActive" gorm:"not null;index"`

	Lab    *Lab    `json:"lab,omitempty" gorm:"foreignKey:ContentID"`
	Game   *Game   `json:"game,omitempty" gorm:"foreignKey:ContentID"`
	Module *Module `json:"module,omitempty"`
}

func IsValidContentType(t string) bool {
	switch t {
	case ContentTypeVideo, ContentTypeLab, ContentTypeGame, ContentTypeDocument:
		return true
	}
	return false
}
