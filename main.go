package main

import (
	"fmt"
	"net/http"

	"pantrypal/config"
	"pantrypal/config/database"
	"pantrypal/pkg/logger"
	"pantrypal/router"
	"pantrypal/socket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info")
		logger.Sugar.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.LogLevel)

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Sugar.Fatalf("%v", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsPath); err != nil {
		logger.Sugar.Fatalf("%v", err)
	}

	// The Hub manages every realtime subscription; its event loop runs for
	// the lifetime of the process.
	hub := socket.NewHub(db)
	go hub.Run()

	handler := router.Setup(cfg, db, hub)

	addr := fmt.Sprintf(":%d", cfg.AppPort)
	logger.Sugar.Infof("PantryPal backend listening on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Sugar.Fatalf("Server failed: %v", err)
	}
}
