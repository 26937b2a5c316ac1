package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds configuration for the stream service.
type Config struct {
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	HeartbeatIntervalMS int

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and an optional .env
// file. The heartbeat floor guards against accidental tight loops.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		BindAddr:            getEnvOrDefault("STREAM_BIND_ADDR", "127.0.0.1:8787"),
		PortCandidates:      splitList(getEnvOrDefault("STREAM_PORT_CANDIDATES", "127.0.0.1:8787,127.0.0.1:8788,127.0.0.1:8789")),
		PortAutoFallback:    getEnvBoolOrDefault("STREAM_PORT_AUTO_FALLBACK", true),
		HeartbeatIntervalMS: getEnvIntOrDefault("STREAM_HEARTBEAT_INTERVAL_MS", 30000),
		LogLevel:            strings.ToLower(getEnvOrDefault("STREAM_LOG_LEVEL", "info")),
		LogFile:             getEnvOrDefault("STREAM_LOG_FILE", "logs/streamd.log"),
	}
	if cfg.HeartbeatIntervalMS < 1000 {
		cfg.HeartbeatIntervalMS = 1000
	}
	return cfg, nil
}

func splitList(val string) []string {
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
