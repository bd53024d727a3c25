package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything supplied at process start.
type Config struct {
	MongoURI     string
	DatabaseName string
	SessionKey   string
	SessionIdle  time.Duration
	Port         string
	CORSOrigin   string
}

// Load reads .env if present, then the environment. MONGODB_URI and
// SESSION_SECRET have no sane defaults and are required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:     os.Getenv("MONGODB_URI"),
		DatabaseName: os.Getenv("DATABASE_NAME"),
		SessionKey:   os.Getenv("SESSION_SECRET"),
		Port:         os.Getenv("PORT"),
		CORSOrigin:   os.Getenv("CORS_ORIGIN"),
	}
	if cfg.MongoURI == "" {
		return nil, errors.New("MONGODB_URI is required")
	}
	if cfg.SessionKey == "" {
		return nil, errors.New("SESSION_SECRET is required")
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = "clinicportal"
	}
	if cfg.Port == "" {
		cfg.Port = "3000"
	}
	if cfg.CORSOrigin == "" {
		cfg.CORSOrigin = "http://localhost:8080"
	}

	cfg.SessionIdle = 30 * time.Minute
	if raw := os.Getenv("SESSION_IDLE_MINUTES"); raw != "" {
		minutes, err := strconv.Atoi(raw)
		if err != nil || minutes <= 0 {
			return nil, errors.New("SESSION_IDLE_MINUTES must be a positive integer")
		}
		cfg.SessionIdle = time.Duration(minutes) * time.Minute
	}

	return cfg, nil
}
