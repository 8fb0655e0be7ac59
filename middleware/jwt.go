package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cyberlearn/config"
	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// GenerateJWT signs a token for the user. The jti lets the token be revoked on logout.
func GenerateJWT(user models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"userId": user.ID,
		"role":   user.Role,
		"email":  user.Email,
		"jti":    uuid.NewString(),
		"iat":    now.Unix(),
		"exp":    now.Add(time.Duration(config.AppConfig.JWTExpiryHours) * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTKey))
}

// ParseJWT validates signature and expiry and returns the claims
func ParseJWT(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["userId"] == nil {
		return nil, errors.New("invalid token payload")
	}
	return claims, nil
}

// JWTMiddleware is a middleware to check for valid JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid Authorization header format", nil)
	}
	tokenString := strings.TrimSpace(authHeader[len("Bearer "):])

	claims, err := ParseJWT(tokenString)
	if err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	userIDClaim, ok := claims["userId"].(float64) // JWT numbers decode as float64
	if !ok {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid token payload", nil)
	}
	jti, _ := claims["jti"].(string)
	exp, _ := claims["exp"].(float64)

	db := database.Database.Db

	if jti != "" {
		var revoked int64
		if err := db.Model(&models.RevokedToken{}).Where("jti = ?", jti).Count(&revoked).Error; err != nil {
			logger.Log.Error("Revocation lookup failed", "error", err)
			return JsonResponse(c, fiber.StatusInternalServerError, false, "Unable to verify token!", nil)
		}
		if revoked > 0 {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Token has been revoked", nil)
		}
	}

	var user models.User
	if err := db.Where("id = ?", uint(userIDClaim)).First(&user).Error; err != nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}
	if !user.IsActive {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Account is disabled!", nil)
	}

	c.Locals("userId", user.ID)
	c.Locals("role", user.Role)
	c.Locals("jti", jti)
	c.Locals("tokenExp", time.Unix(int64(exp), 0))
	return c.Next()
}

// CurrentUserID returns the authenticated user id stored by JWTMiddleware
func CurrentUserID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals("userId").(uint)
	return id, ok
}

// IsAdmin reports whether the authenticated user has the admin role
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("role").(string)
	return role == models.RoleAdmin
}

// CanAccessUser lets admins read anyone and everyone else only themselves
func CanAccessUser(c *fiber.Ctx, targetUserID uint) bool {
	if IsAdmin(c) {
		return true
	}
	id, ok := CurrentUserID(c)
	return ok && id == targetUserID
}
