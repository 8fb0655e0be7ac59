package database

import (
	"context"
	"time"

	"cyberlearn/config"
	"cyberlearn/logger"

	"github.com/redis/go-redis/v9"
)

// Redis is nil unless REDIS_URL is configured and reachable
var Redis *redis.Client

// ConnectRedis connects the optional read-cache. Failure only disables caching.
func ConnectRedis() {
	url := config.AppConfig.RedisURL
	if url == "" {
		logger.Log.Info("REDIS_URL not set, cache disabled")
		return
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		logger.Log.Warn("Invalid REDIS_URL, cache disabled", "error", err)
		return
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("Redis unreachable, cache disabled", "error", err)
		_ = client.Close()
		return
	}

	Redis = client
	logger.Log.Info("Connected to redis")
}
