package main

import (
	"log"

	"github.com/valpere/nebo/internal/config"
	"github.com/valpere/nebo/internal/storage"
)

// Creates the preferences table for the postgres storage driver.
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database; connecting migrates
	db, err := storage.ConnectPostgres(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store := storage.NewPostgresStore(db)
	defer func() { _ = store.Close() }()

	log.Printf("Migrations completed successfully on %s:%d/%s", cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
}
