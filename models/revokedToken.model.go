package models

import "time"

// RevokedToken blocks a JWT (by its jti) until it would have expired anyway
type RevokedToken struct {
	Base
	JTI       string    `json:"jti" gorm:"size:64;not null;uniqueIndex"`
	UserID    uint      `json:"userId" gorm:"index"`
	ExpiresAt time.Time `json:"expiresAt" gorm:"index"`
}
