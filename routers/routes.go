package routers

import (
	"strings"

	"cyberlearn/config"
	healthController "cyberlearn/controllers/health"
	"cyberlearn/middleware"
	"cyberlearn/routers/achievementRoutes"
	"cyberlearn/routers/authRoutes"
	"cyberlearn/routers/contentRoutes"
	"cyberlearn/routers/dashboardRoutes"
	"cyberlearn/routers/enrollmentRoutes"
	"cyberlearn/routers/moduleRoutes"
	"cyberlearn/routers/phaseRoutes"
	"cyberlearn/routers/progressRoutes"
	"cyberlearn/routers/userRoutes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber application with every route registered
func NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "cyberlearn",
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.TrimSpace(config.AppConfig.CORSOrigins),
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Enable the built-in logger middleware to log all requests
	if config.AppConfig.AppEnv != "test" {
		app.Use(fiberLogger.New(fiberLogger.Config{
			Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
		}))
	}

	app.Get("/api/health", healthController.Health)

	authRoutes.SetupAuthRoutes(app)
	userRoutes.SetupUserRoutes(app)
	phaseRoutes.SetupPhaseRoutes(app)
	moduleRoutes.SetupModuleRoutes(app)
	contentRoutes.SetupContentRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	enrollmentRoutes.SetupEnrollmentRoutes(app)
	achievementRoutes.SetupAchievementRoutes(app)
	dashboardRoutes.SetupDashboardRoutes(app)

	app.Use(func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Route not found!", nil)
	})

	return app
}
