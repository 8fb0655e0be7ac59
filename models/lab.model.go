package models

import "gorm.io/datatypes"

// Lab holds the hands-on environment details of a lab content item
type Lab struct {
	Base
	ContentID   uint                        `json:"contentId" gorm:"not null;uniqueIndex"`
	Environment string                      `json:"environment" gorm:"size:100"`
	Tools       datatypes.JSONSlice[string] `json:"tools"`
	Steps       datatypes.JSONSlice[string] `json:"steps"`
	Hints       datatypes.JSONSlice[string] `json:"hints"`
	MaxAttempts int                         `json:"maxAttempts"`
}
