package testutil

import (
	"fmt"
	"testing"

	"cyberlearn/middleware"
	"cyberlearn/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const Password = "Passw0rd!"

// CreateUser inserts an active user with Password and returns it with a signed token
func CreateUser(tb testing.TB, db *gorm.DB, role string) (models.User, string) {
	tb.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		tb.Fatalf("hash password: %v", err)
	}
	suffix := uuid.NewString()[:8]
	user := models.User{
		Username: role + suffix,
		Email:    fmt.Sprintf("%s-%s@example.com", role, suffix),
		Password: string(hashed),
		Role:     role,
		IsActive: true,
	}
	if err := db.Create(&user).Error; err != nil {
		tb.Fatalf("create user: %v", err)
	}

	token, err := middleware.GenerateJWT(user)
	if err != nil {
		tb.Fatalf("sign token: %v", err)
	}
	return user, token
}

func CreatePhase(tb testing.TB, db *gorm.DB, title string, order int) models.Phase {
	tb.Helper()
	phase := models.Phase{Title: title, Order: order, Color: "#3B82F6", Icon: "shield", IsActive: true}
	if err := db.Create(&phase).Error; err != nil {
		tb.Fatalf("create phase: %v", err)
	}
	return phase
}

func CreateModule(tb testing.TB, db *gorm.DB, phaseID uint, title string, order int) models.Module {
	tb.Helper()
	module := models.Module{
		PhaseID:    phaseID,
		Title:      title,
		Difficulty: models.DifficultyBeginner,
		Order:      order,
		IsActive:   true,
		Content:    datatypes.NewJSONType(models.ModuleContent{}),
	}
	if err := db.Create(&module).Error; err != nil {
		tb.Fatalf("create module: %v", err)
	}
	return module
}

func CreateContent(tb testing.TB, db *gorm.DB, moduleID uint, kind, section string, order, duration int) models.Content {
	tb.Helper()
	content := models.Content{
		ModuleID: moduleID,
		Type:     kind,
		Title:    fmt.Sprintf("%s %d", kind, order),
		Section:  section,
		Order:    order,
		Duration: duration,
		IsActive: true,
	}
	if err := db.Create(&content).Error; err != nil {
		tb.Fatalf("create content: %v", err)
	}
	if kind == models.ContentTypeGame {
		game := models.Game{ContentID: content.ID, GameType: models.GameTypeQuiz, MaxScore: 100, PassingScore: 70}
		if err := db.Create(&game).Error; err != nil {
			tb.Fatalf("create game: %v", err)
		}
		content.Game = &game
	}
	if kind == models.ContentTypeLab {
		lab := models.Lab{ContentID: content.ID, Environment: "kali", MaxAttempts: 3}
		if err := db.Create(&lab).Error; err != nil {
			tb.Fatalf("create lab: %v", err)
		}
		content.Lab = &lab
	}
	return content
}

func Enroll(tb testing.TB, db *gorm.DB, userID, moduleID uint, total int) models.UserEnrollment {
	tb.Helper()
	enrollment := models.UserEnrollment{
		UserID:        userID,
		ModuleID:      moduleID,
		Status:        models.EnrollmentActive,
		TotalSections: total,
	}
	if err := db.Create(&enrollment).Error; err != nil {
		tb.Fatalf("create enrollment: %v", err)
	}
	return enrollment
}

func Complete(tb testing.TB, db *gorm.DB, userID uint, content models.Content, score *int) models.UserProgress {
	tb.Helper()
	row := models.UserProgress{
		UserID:             userID,
		ContentID:          content.ID,
		ModuleID:           content.ModuleID,
		Status:             models.ProgressCompleted,
		ProgressPercentage: 100,
		Score:              score,
	}
	if err := db.Create(&row).Error; err != nil {
		tb.Fatalf("create progress: %v", err)
	}
	return row
}

func IntPtr(v int) *int { return &v }
