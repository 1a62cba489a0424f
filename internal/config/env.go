package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables consulted after the config file.
const (
	EnvEngine   = "MULTITEX_ENGINE"
	EnvLogLevel = "MULTITEX_LOG_LEVEL"
	EnvHistory  = "MULTITEX_HISTORY"
	EnvTimeout  = "MULTITEX_COMPILE_TIMEOUT"
	EnvCompile  = "MULTITEX_COMPILE"
)

// loadEnvFile loads variables from .env and .env.local in the working
// directory. Variables already present in the process environment win.
func loadEnvFile() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load env file", "file", name, "error", err)
			continue
		}
		slog.Debug("Loaded environment variables", "file", name)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(EnvEngine); v != "" {
		cfg.Compile.Engine = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = NormalizeLogLevel(v)
	}
	if v := os.Getenv(EnvHistory); v != "" {
		cfg.History.Path = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Compile.Timeout = d
		} else {
			slog.Warn("Ignoring invalid compile timeout", "env", EnvTimeout, "value", v)
		}
	}
	if v := os.Getenv(EnvCompile); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Compile.Enabled = &b
		} else {
			slog.Warn("Ignoring invalid compile toggle", "env", EnvCompile, "value", v)
		}
	}
}
