package config

import (
	"log"
	"os"
	"strconv"
)

// Config holds application configuration values.
type Config struct {
	Secret            string
	DatabaseDSN       string
	HTTPPort          string
	ExpiryWindowDays  int
	LowStockThreshold int64
	SampleDataCSV     string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "medinv.db"
	}

	expiryDays := 15
	if raw := os.Getenv("EXPIRY_WINDOW_DAYS"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			expiryDays = v
		} else {
			log.Printf("invalid EXPIRY_WINDOW_DAYS value %q, defaulting to 15", raw)
		}
	}

	lowStock := int64(10)
	if raw := os.Getenv("LOW_STOCK_THRESHOLD"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil && v > 0 {
			lowStock = v
		} else {
			log.Printf("invalid LOW_STOCK_THRESHOLD value %q, defaulting to 10", raw)
		}
	}

	// Validate that port is numeric.
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{
		Secret:            secret,
		DatabaseDSN:       dsn,
		HTTPPort:          port,
		ExpiryWindowDays:  expiryDays,
		LowStockThreshold: lowStock,
		SampleDataCSV:     os.Getenv("SAMPLE_DATA_CSV"),
	}
}
