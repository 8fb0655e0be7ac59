package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"cyberlearn/config"
	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/routers"
	"cyberlearn/utils"
)

func main() {
	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()

	database.ConnectDb()
	database.ConnectRedis()

	scheduler, err := utils.InitializeSyncScheduler()
	if err != nil {
		logger.Log.Fatal("Failed to start sync scheduler", "error", err)
	}

	app := routers.NewApp()

	go func() {
		logger.Log.Info("Server is running", "port", config.AppConfig.Port)
		if err := app.Listen(":" + config.AppConfig.Port); err != nil {
			logger.Log.Error("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Log.Error("Server shutdown failed", "error", err)
	}

	// let running cron jobs and background resyncs finish
	<-scheduler.Stop().Done()
	utils.WaitForSync()

	if database.Redis != nil {
		_ = database.Redis.Close()
	}
	if sqlDB, err := database.Database.Db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
