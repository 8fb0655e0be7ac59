package utils

import (
	"time"

	"cyberlearn/config"
	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// InitializeSyncScheduler starts the periodic reconciliation and token cleanup jobs.
// The caller stops the returned cron on shutdown.
func InitializeSyncScheduler() (*cron.Cron, error) {
	logger.Log.Info("[SYNC-SCHEDULER] Initializing scheduler")

	cfg := config.AppConfig
	c := cron.New()

	if _, err := c.AddFunc(cfg.SyncCron, func() {
		logger.Log.Info("[SYNC-SCHEDULER] Running content reconciliation")
		if err := ReconcileAll(database.Database.Db); err != nil {
			logger.Log.Error("[SYNC-SCHEDULER] Reconciliation finished with errors", "error", err)
		}
	}); err != nil {
		return nil, err
	}

	if _, err := c.AddFunc(cfg.TokenCleanupCron, func() {
		purged, err := PurgeExpiredTokens(database.Database.Db, time.Now())
		if err != nil {
			logger.Log.Error("[SYNC-SCHEDULER] Error purging revoked tokens", "error", err)
			return
		}
		logger.Log.Info("[SYNC-SCHEDULER] Purged revoked tokens", "count", purged)
	}); err != nil {
		return nil, err
	}

	c.Start()
	logger.Log.Info("[SYNC-SCHEDULER] Scheduler started", "sync", cfg.SyncCron, "tokenCleanup", cfg.TokenCleanupCron)
	return c, nil
}

// PurgeExpiredTokens deletes revocation records whose token would have expired anyway
func PurgeExpiredTokens(db *gorm.DB, now time.Time) (int64, error) {
	res := db.Where("expires_at < ?", now).Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
