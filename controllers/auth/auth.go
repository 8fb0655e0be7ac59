package authController

import (
	"errors"
	"strings"
	"time"

	"cyberlearn/config"
	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/middleware"
	"cyberlearn/models"
	"cyberlearn/utils"
	authValidator "cyberlearn/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Register(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.RegisterRequest)

	db := database.Database.Db

	// Check if email already exists
	var count int64
	db.Model(&models.User{}).Where("email = ?", reqData.Email).Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	// Check if username already exists
	db.Model(&models.User{}).Where("username = ?", reqData.Username).Count(&count)
	if count > 0 {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Username is already taken!", nil)
	}

	// Hash Password
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("Error hashing password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Username:  reqData.Username,
		Email:     reqData.Email,
		Password:  string(hashedPassword),
		FirstName: reqData.FirstName,
		LastName:  reqData.LastName,
		Role:      models.RoleStudent,
		IsActive:  true,
	}
	if err := db.Create(&newUser).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email or username is already registered!", nil)
		}
		logger.Log.Error("Error saving user to database", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to register user!", nil)
	}

	token, err := middleware.GenerateJWT(newUser)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	logger.Log.Info("User registered", "userId", newUser.ID)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"user":  newUser,
		"token": token,
	})
}

func Login(c *fiber.Ctx) error {
	reqData := c.Locals("validatedUser").(*authValidator.LoginRequest)

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ?", reqData.Email).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	// Validate password
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !user.IsActive {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Account is disabled!", nil)
	}

	// Update last login time
	now := time.Now()
	user.LastLogin = &now
	if err := db.Model(&user).Update("last_login", now).Error; err != nil {
		logger.Log.Warn("Error saving last login time", "userId", user.ID, "error", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}

	// Capture login tracking details
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: now,
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		logger.Log.Warn("Error saving login tracking details", "userId", user.ID, "error", err)
	}

	token, err := middleware.GenerateJWT(user)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

func Me(c *fiber.Ctx) error {
	userId, _ := middleware.CurrentUserID(c)

	var user models.User
	if err := database.Database.Db.First(&user, userId).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "User profile.", user)
}

// Logout revokes the presented token until it would have expired
func Logout(c *fiber.Ctx) error {
	userId, _ := middleware.CurrentUserID(c)
	jti, _ := c.Locals("jti").(string)
	exp, _ := c.Locals("tokenExp").(time.Time)

	if jti == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Token cannot be revoked!", nil)
	}

	revoked := models.RevokedToken{JTI: jti, UserID: userId, ExpiresAt: exp}
	if err := database.Database.Db.Create(&revoked).Error; err != nil && !database.IsUniqueViolation(err) {
		logger.Log.Error("Error revoking token", "userId", userId, "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to logout!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out successfully.", nil)
}

func LoginHistoryList(c *fiber.Ctx) error {
	userId, _ := middleware.CurrentUserID(c)
	p := utils.ParsePagination(c)

	db := database.Database.Db.Model(&models.LoginTracking{}).Where("user_id = ?", userId)

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Login history")
	}

	var loginTracking []models.LoginTracking
	if err := db.Order("timestamp desc").Offset(p.Offset()).Limit(p.Limit).Find(&loginTracking).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "Login history")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login History List.", fiber.Map{
		"items":      loginTracking,
		"pagination": p.Meta(total),
	})
}

func ChangeLoginPassword(c *fiber.Ctx) error {
	userId, _ := middleware.CurrentUserID(c)
	reqData := c.Locals("validatedPassword").(*authValidator.ChangePasswordRequest)

	db := database.Database.Db

	var user models.User
	if err := db.First(&user, userId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
		}
		return middleware.DBErrorResponse(c, err, "User")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.CurrentPassword)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Current password is incorrect!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		logger.Log.Error("Error hashing password", "error", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	if err := db.Model(&user).Update("password", string(hashedPassword)).Error; err != nil {
		return middleware.DBErrorResponse(c, err, "User")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password changed successfully.", nil)
}
