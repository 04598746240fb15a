package configs

import (
	"os"
	"strconv"
	"time"

	"partyhub.app/configs/configsdatabase"
	"partyhub.app/configs/configslog"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

// LoadEnv reads the optional .env file into the process environment.
// A missing file is not an error; production supplies real env vars.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		configslog.SLog.Debug("no .env file found, using process environment")
	}
}

// GetDB is a convenience alias kept for the service layer.
func GetDB() *gorm.DB {
	return configsdatabase.GetDB()
}

// ListenAddr returns the HTTP listen address (APP_PORT, default 8080).
func ListenAddr() string {
	return ":" + envOr("APP_PORT", "8080")
}

// JWTSecret returns the HMAC secret shared with the external authenticator.
// Read per call so tests can swap it via t.Setenv.
func JWTSecret() []byte {
	return []byte(envOr("JWT_SECRET", "dev-only-secret-change-me"))
}

// RateLimitMax returns the per-client request budget per window.
func RateLimitMax() int {
	if n, err := strconv.Atoi(os.Getenv("RATE_LIMIT_MAX")); err == nil && n > 0 {
		return n
	}
	return 120
}

// RateLimitWindow returns the rate limiter window duration.
func RateLimitWindow() time.Duration {
	if n, err := strconv.Atoi(os.Getenv("RATE_LIMIT_WINDOW_SECONDS")); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return time.Minute
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
