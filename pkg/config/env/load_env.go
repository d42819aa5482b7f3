package env

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file located at ENV_PATH, or at
// defaultPath when ENV_PATH is unset. A missing file is only fatal when running
// locally.
func LoadDotEnv(env string, defaultPath string) error {
	envPath := os.Getenv("ENV_PATH")
	if envPath == "" {
		slog.Info("ENV_PATH is not set, using default path", "defaultPath", defaultPath)
		envPath = defaultPath
	}

	if err := godotenv.Load(envPath); err != nil {
		if env == "local" || env == "" {
			slog.Error("Failed to load .env in local mode", "path", envPath, "error", err)
			return err
		}
		slog.Debug("Skipping .env", "path", envPath)
	}

	return nil
}

// StringOr returns the value of key or def when it is empty.
func StringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// BoolOr parses key as a bool. Unparseable values yield def.
func BoolOr(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

// DurationOr parses key with time.ParseDuration. Unparseable or
// non-positive values yield def.
func DurationOr(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		slog.Warn("Invalid duration, using default", "key", key, "value", raw, "default", def)
		return def
	}
	return d
}
