package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// ConnectDB connects and sets the global DB. Transient connection failures
// are retried with exponential backoff; business-level errors are never
// retried at this layer.
func ConnectDB() {
	dsn := os.Getenv("DB_URL")

	maxAttempts := intFromEnv("DB_CONNECT_MAX_ATTEMPTS", 5)
	backoff := time.Second

	var db *gorm.DB
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err == nil {
			break
		}
		if attempt == maxAttempts {
			log.Fatalf("Failed to connect database after %d attempts: %v", maxAttempts, err)
		}
		log.Printf("Database connection attempt %d failed: %v (retrying in %v)", attempt, err, backoff)
		time.Sleep(backoff)
		backoff *= 2
	}

	// Tune the database/sql pool. Env overrides (optional):
	// - DB_MAX_OPEN_CONNS (default 50)
	// - DB_MAX_IDLE_CONNS (default 25)
	// - DB_CONN_MAX_LIFETIME_SECONDS (default 300)
	if sqlDB, derr := db.DB(); derr == nil && sqlDB != nil {
		sqlDB.SetMaxOpenConns(intFromEnv("DB_MAX_OPEN_CONNS", 50))
		sqlDB.SetMaxIdleConns(intFromEnv("DB_MAX_IDLE_CONNS", 25))
		sqlDB.SetConnMaxLifetime(time.Duration(intFromEnv("DB_CONN_MAX_LIFETIME_SECONDS", 300)) * time.Second)
	}

	DB = db
}

func intFromEnv(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
