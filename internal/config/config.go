package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

type Config struct {
	GA4PropertyID      string
	GA4CredentialsPath string
	GA4Endpoint        string
	Port               string
	DBPath             string
	PeriodDays         int
	HTTPTimeout        time.Duration
	LogLevel           slog.Level
}

func FromEnv() Config {
	to := 15 * time.Second
	if v := os.Getenv("HTTP_TIMEOUT_SECONDS"); v != "" {
		if d, err := time.ParseDuration(v + "s"); err == nil {
			to = d
		}
	}
	lvl := slog.LevelInfo
	if os.Getenv("LOG_LEVEL") == "debug" {
		lvl = slog.LevelDebug
	}
	return Config{
		GA4PropertyID:      os.Getenv("GA4_PROPERTY_ID"),
		GA4CredentialsPath: os.Getenv("GA4_CREDENTIALS_PATH"),
		GA4Endpoint:        envOr("GA4_ENDPOINT", "https://analyticsdata.googleapis.com/v1beta"),
		Port:               envOr("PORT", "8080"),
		DBPath:             envOr("DB_PATH", "./startuptracker.db"),
		PeriodDays:         envIntOr("PERIOD_DAYS", 30),
		HTTPTimeout:        to,
		LogLevel:           lvl,
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func envIntOr(k string, def int) int {
	v, err := strconv.Atoi(os.Getenv(k))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
