// Package config holds global settings for the Sentinal honeypot gateway.
// All settings can be configured via environment variables, with an optional
// YAML overlay for deployments that prefer files over env vars.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds global settings for the Sentinal gateway.
type Config struct {
	// === Core Settings ===
	ListenAddr string // HTTP listen address (default: ":8080")
	APIKey     string // Value required in the x-api-key header

	// === Session Lifecycle ===
	SweepInterval time.Duration // How often the session sweeper runs (default: 60s)
	IdleFinalize  time.Duration // Idle time before a finalization report (default: 5m)
	IdleExpire    time.Duration // Idle time before a session is deleted (default: 1h)

	// === Session Store Backend ===
	RedisAddr     string // If set, sessions live in Redis instead of memory
	RedisPassword string
	RedisDB       int

	// === Reporting ===
	ReportURL         string        // Callback endpoint for intelligence reports
	ReportTimeout     time.Duration // Per-dispatch timeout (default: 5s)
	ReportConcurrency int           // Max in-flight report dispatches (default: 16)

	// === Persona ===
	TemplatePath string // Optional YAML file overriding the built-in reply corpus

	// === Engagement Metrics ===
	SecondsPerTurn int // Estimated seconds per conversation turn (default: 20)
}

// fileOverlay mirrors the subset of Config that may come from a YAML file.
// Env vars win over the file; the file wins over defaults.
type fileOverlay struct {
	ListenAddr    string `yaml:"listen_addr"`
	APIKey        string `yaml:"api_key"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	ReportURL     string `yaml:"report_url"`
	TemplatePath  string `yaml:"template_path"`
}

// NewDefaultConfig creates a Config with sensible defaults.
// All settings can be overridden via environment variables.
func NewDefaultConfig() *Config {
	cfg := &Config{
		ListenAddr: GetEnv("SENTINAL_LISTEN_ADDR", ":8080"),
		APIKey:     GetEnv("SENTINAL_API_KEY", "sentinal-dev-key"),

		SweepInterval: time.Duration(clampInt(GetEnvInt("SENTINAL_SWEEP_INTERVAL_SECONDS", 60), 1, 3600)) * time.Second,
		IdleFinalize:  time.Duration(GetEnvInt("SENTINAL_IDLE_FINALIZE_SECONDS", 300)) * time.Second,
		IdleExpire:    time.Duration(GetEnvInt("SENTINAL_IDLE_EXPIRE_SECONDS", 3600)) * time.Second,

		RedisAddr:     GetEnv("SENTINAL_REDIS_ADDR", ""),
		RedisPassword: GetEnv("SENTINAL_REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("SENTINAL_REDIS_DB", 0),

		ReportURL:         GetEnv("SENTINAL_REPORT_URL", ""),
		ReportTimeout:     time.Duration(clampInt(GetEnvInt("SENTINAL_REPORT_TIMEOUT_MS", 5000), 100, 60000)) * time.Millisecond,
		ReportConcurrency: clampInt(GetEnvInt("SENTINAL_REPORT_CONCURRENCY", 16), 1, 256),

		TemplatePath: GetEnv("SENTINAL_TEMPLATE_PATH", ""),

		SecondsPerTurn: clampInt(GetEnvInt("SENTINAL_SECONDS_PER_TURN", 20), 1, 600),
	}

	if path := os.Getenv("SENTINAL_CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] config file %s ignored: %v\n", path, err)
		}
	}

	return cfg
}

// applyFile merges a YAML overlay, filling only fields the environment
// left unset.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var f fileOverlay
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}

	if f.ListenAddr != "" && os.Getenv("SENTINAL_LISTEN_ADDR") == "" {
		c.ListenAddr = f.ListenAddr
	}
	if f.APIKey != "" && os.Getenv("SENTINAL_API_KEY") == "" {
		c.APIKey = f.APIKey
	}
	if f.RedisAddr != "" && os.Getenv("SENTINAL_REDIS_ADDR") == "" {
		c.RedisAddr = f.RedisAddr
	}
	if f.RedisPassword != "" && os.Getenv("SENTINAL_REDIS_PASSWORD") == "" {
		c.RedisPassword = f.RedisPassword
	}
	if f.RedisDB != 0 && os.Getenv("SENTINAL_REDIS_DB") == "" {
		c.RedisDB = f.RedisDB
	}
	if f.ReportURL != "" && os.Getenv("SENTINAL_REPORT_URL") == "" {
		c.ReportURL = f.ReportURL
	}
	if f.TemplatePath != "" && os.Getenv("SENTINAL_TEMPLATE_PATH") == "" {
		c.TemplatePath = f.TemplatePath
	}
	return nil
}

// clampInt ensures a value is within bounds
func clampInt(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// GetEnv returns the environment variable value or a default.
func GetEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// GetEnvBool parses a boolean environment variable.
// Accepts: true/false, 1/0, yes/no (case insensitive).
func GetEnvBool(key string, defaultVal bool) bool {
	switch os.Getenv(key) {
	case "true", "TRUE", "True", "1", "yes", "YES", "on":
		return true
	case "false", "FALSE", "False", "0", "no", "NO", "off":
		return false
	}
	return defaultVal
}

// GetEnvInt parses an integer environment variable.
func GetEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if i, err := strconv.Atoi(val); err == nil {
		return i
	}
	return defaultVal
}

// GetEnvFloat parses a float environment variable.
func GetEnvFloat(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(val, 64); err == nil {
		return f
	}
	return defaultVal
}
