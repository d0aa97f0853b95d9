package main

import (
	"github.com/wfunc/mazeserver/config"
	"github.com/wfunc/mazeserver/logger"
	"github.com/wfunc/mazeserver/persistence"
	"github.com/wfunc/mazeserver/server"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration (all keys have defaults, config.yaml is optional)
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}

	// Run archive is optional; the server runs fully in-memory without it
	var db persistence.Database
	if cfg.Database.Enabled {
		pg := cfg.Database.Postgres
		db, err = persistence.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
		if err != nil {
			logger.Log.Fatalf("Failed to connect to database: %v", err)
		}
		logger.Log.Info("Database connection successful.")
	}

	gameServer := server.NewGameServer(cfg, db)

	logger.Log.Infof("Starting maze server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}
