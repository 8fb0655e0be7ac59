package models

// Phase is the top-level curriculum grouping (Beginner, Intermediate, Advanced...)
type Phase struct {
	Base
	Title       string   `json:"title" gorm:"size:100;not null"`
	Description string   `json:"description" gorm:"type:text"`
	Order       int      `json:"order" gorm:"column:sort_order;not null;uniqueIndex:idx_phases_order"`
	Color       string   `json:"color" gorm:"size:7;default:'#3B82F6'"`
	Icon        string   `json:"icon" gorm:"size:50;default:'shield'"`
	IsActive    bool     `json:"isActive" gorm:"not null"`
	Modules     []Module `json:"modules,omitempty" gorm:"foreignKey:PhaseID"`
}
