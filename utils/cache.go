package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cyberlearn/config"
	"cyberlearn/database"
	"cyberlearn/logger"
)

const DashboardStatsCacheKey = "dashboard:stats"

func GroupedContentCacheKey(moduleID uint) string {
	return fmt.Sprintf("content:grouped:%d", moduleID)
}

// CacheGet loads a cached JSON value into dst. Every miss, error or disabled cache reports false.
func CacheGet(ctx context.Context, key string, dst interface{}) bool {
	if database.Redis == nil {
		return false
	}
	raw, err := database.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.Log.Warn("Dropping undecodable cache entry", "key", key, "error", err)
		CacheDelete(ctx, key)
		return false
	}
	return true
}

func CacheSet(ctx context.Context, key string, v interface{}) {
	if database.Redis == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	ttl := time.Duration(config.AppConfig.CacheTTLSeconds) * time.Second
	if err := database.Redis.Set(ctx, key, raw, ttl).Err(); err != nil {
		logger.Log.Warn("Cache write failed", "key", key, "error", err)
	}
}

func CacheDelete(ctx context.Context, keys ...string) {
	if database.Redis == nil || len(keys) == 0 {
		return
	}
	if err := database.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Cache invalidation failed", "keys", keys, "error", err)
	}
}

// InvalidateModuleCache drops every cached view derived from the module's content
func InvalidateModuleCache(moduleID uint) {
	CacheDelete(context.Background(), GroupedContentCacheKey(moduleID), DashboardStatsCacheKey)
}
