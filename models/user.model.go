package models

import "time"

const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

type User struct {
	Base
	Username    string     `json:"username" gorm:"size:50;not null;uniqueIndex"`
	Email       string     `json:"email" gorm:"size:255;not null;uniqueIndex"`
	Password    string     `json:"-" gorm:"not null"`
	FirstName   string     `json:"firstName" gorm:"size:100"`
	LastName    string     `json:"lastName" gorm:"size:100"`
	Role        string     `json:"role" gorm:"size:20;default:'student'"`
	IsActive    bool       `json:"isActive" gorm:"not null"`
	LastLogin   *time.Time `json:"lastLogin"`
	TotalPoints int        `json:"totalPoints"`
}
