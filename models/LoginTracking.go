package models

import "time"

// LoginTracking records every successful login with its origin
type LoginTracking struct {
	Base
	UserID    uint      `json:"userId" gorm:"index;not null"`
	IPAddress string    `json:"ipAddress" gorm:"size:64"`
	Device    string    `json:"device" gorm:"size:255"`
	Timestamp time.Time `json:"timestamp"`
}
