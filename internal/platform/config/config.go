package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr             string
	FrontendOrigin   string
	RedisURL         string
	DatabaseURL      string
	EmailSendDelay   time.Duration
	EmailSuccessRate float64
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("USERDIR_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	origin := os.Getenv("FRONTEND_ORIGIN")
	if origin == "" {
		origin = "*"
	}

	delay := 2500 * time.Millisecond
	if raw := os.Getenv("EMAIL_SEND_DELAY"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil {
			delay = parsed
		}
	}

	rate := 0.9
	if raw := os.Getenv("EMAIL_SUCCESS_RATE"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 && parsed <= 1 {
			rate = parsed
		}
	}

	return Server{
		Addr:             addr,
		FrontendOrigin:   origin,
		RedisURL:         os.Getenv("REDIS_URL"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		EmailSendDelay:   delay,
		EmailSuccessRate: rate,
	}
}
