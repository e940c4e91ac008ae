// Package config loads runtime settings from the environment and opens the
// database they point at.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/yeremiapane/restaurant-reservation/utils"
)

type Config struct {
	Port           string
	GinMode        string
	LogLevel       string
	DBDriver       string // sqlite, mysql or postgres
	DBDSN          string
	CORSOrigin     string
	RateLimitRPS   float64
	RateLimitBurst int
	StaticDir      string
}

// Load reads .env when present and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Debugf("no .env file loaded: %v", err)
	}

	return &Config{
		Port:           getenv("PORT", "8080"),
		GinMode:        getenv("GIN_MODE", "debug"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
		DBDriver:       getenv("DB_DRIVER", DriverSQLite),
		DBDSN:          getenv("DB_DSN", "restaurant.db"),
		CORSOrigin:     getenv("CORS_ORIGIN", "*"),
		RateLimitRPS:   getfloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst: getint("RATE_LIMIT_BURST", 20),
		StaticDir:      os.Getenv("STATIC_DIR"),
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getint(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.ErrorLogger.Warnf("invalid int for %s: %q, using %d", key, v, def)
		return def
	}
	return n
}

func getfloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		utils.ErrorLogger.Warnf("invalid number for %s: %q, using %g", key, v, def)
		return def
	}
	return f
}
