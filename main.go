package main

import (
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"medinv/m/internal/api"
	"medinv/m/internal/config"
	"medinv/m/internal/database"
	"medinv/m/internal/migrations"
	"medinv/m/internal/seed"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseDSN)
	defer db.Close()

	migrations.Run(db)
	if cfg.SampleDataCSV != "" {
		seed.LoadSampleProducts(db, cfg.SampleDataCSV)
	}

	handler := api.New(db, cfg)

	log.Printf("medinv server starting on :%s", cfg.HTTPPort)
	if err := http.ListenAndServe(":"+cfg.HTTPPort, handler.Router()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
