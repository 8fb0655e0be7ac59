// Package testutil wires an in-memory sqlite database, config and logger for tests.
package testutil

import (
	"fmt"
	"testing"

	"cyberlearn/config"
	"cyberlearn/database"
	"cyberlearn/logger"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

const JWTSecret = "test-secret"

// Setup gives each test a fresh migrated database and installs it as database.Database
func Setup(tb testing.TB) *gorm.DB {
	tb.Helper()

	logger.Log, _ = logger.New("test")
	config.AppConfig = &config.Config{
		AppEnv:          "test",
		DBDriver:        "sqlite",
		JWTKey:          JWTSecret,
		JWTExpiryHours:  1,
		SaltRound:       bcrypt.MinCost,
		CORSOrigins:     "*",
		CacheTTLSeconds: 60,
	}

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		TranslateError:                           true,
		Logger:                                   gormLogger.Default.LogMode(gormLogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.RunMigrations(db); err != nil {
		tb.Fatalf("failed to migrate: %v", err)
	}

	database.Database = database.DbInstance{Db: db}
	database.Redis = nil

	tb.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}
