package authRoutes

import (
	"time"

	"cyberlearn/config"
	authController "cyberlearn/controllers/auth"
	"cyberlearn/middleware"
	authValidator "cyberlearn/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/api/auth")

	loginLimiter := credentialLimiter(10, time.Minute)
	registerLimiter := credentialLimiter(5, 5*time.Minute)

	authGroup.Post("/register", registerLimiter, authValidator.Register(), authController.Register)
	authGroup.Post("/login", loginLimiter, authValidator.Login(), authController.Login)
	authGroup.Get("/me", middleware.JWTMiddleware, authController.Me)
	authGroup.Post("/logout", middleware.JWTMiddleware, authController.Logout)
	authGroup.Get("/login/history", middleware.JWTMiddleware, authController.LoginHistoryList)
	authGroup.Put("/change/password", middleware.JWTMiddleware, authValidator.ChangeLoginPassword(), authController.ChangeLoginPassword)
}

// credentialLimiter caps attempts per IP on the credential endpoints; disabled in test mode
func credentialLimiter(limit int, window time.Duration) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        limit,
		Expiration: window,
		Next: func(c *fiber.Ctx) bool {
			return config.AppConfig.AppEnv == "test"
		},
		LimitReached: func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many attempts, try again later!", nil)
		},
	})
}
