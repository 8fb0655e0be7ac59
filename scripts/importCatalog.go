package main

import (
	"os"

	"cyberlearn/config"
	"cyberlearn/database"
	"cyberlearn/logger"
	"cyberlearn/utils"
)

// Imports a catalog CSV (default catalog.csv) into phases, modules and content.
func main() {
	// Load config and connect to database
	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		panic(err)
	}
	defer logger.Log.Sync()
	database.ConnectDb()

	path := "catalog.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	file, err := os.Open(path)
	if err != nil {
		logger.Log.Fatal("Failed to open CSV file", "path", path, "error", err)
	}
	defer file.Close()

	res, err := utils.ImportCatalogCSV(database.Database.Db, file)
	if err != nil {
		logger.Log.Fatal("Catalog import failed", "path", path, "error", err)
	}

	// enrollment resyncs run in the background
	utils.WaitForSync()

	logger.Log.Info("Import complete",
		"inserted", res.Inserted,
		"updated", res.Updated,
		"skipped", res.Skipped,
		"total", res.Inserted+res.Updated+res.Skipped,
	)
}
