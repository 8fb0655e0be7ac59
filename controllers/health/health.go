package healthController

import (
	"context"
	"time"

	"cyberlearn/database"
	"cyberlearn/middleware"

	"github.com/gofiber/fiber/v2"
)

// Health reports liveness plus database and cache reachability
func Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	dbUp := false
	if database.Database.Db != nil {
		if sqlDB, err := database.Database.Db.DB(); err == nil && sqlDB.PingContext(ctx) == nil {
			dbUp = true
		}
	}

	cacheUp := false
	if database.Redis != nil {
		cacheUp = database.Redis.Ping(ctx).Err() == nil
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Service is healthy.", fiber.Map{
		"status": "ok",
		"db":     dbUp,
		"cache":  cacheUp,
	})
}
