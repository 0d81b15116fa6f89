// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"
)

// Driver names accepted by DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type Config struct {
	Server   ServerConfig
	Session  SessionConfig
	Verifier VerifierConfig
	Audit    AuditConfig
	Database DatabaseConfig
	Roster   RosterConfig
}

type ServerConfig struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

type SessionConfig struct {
	Secret string        // HMAC secret for cookie signing
	TTL    time.Duration // session lifetime from issue
}

type VerifierConfig struct {
	Comparator string  // "exact" or "dhash"
	Threshold  float64 // minimum match confidence in [0,1]
	Timeout    time.Duration
}

type AuditConfig struct {
	Window   int    // entries returned by the access-log endpoint
	Capacity int    // entries retained in memory
	LogPath  string // optional JSON-lines export file
}

type DatabaseConfig struct {
	Driver       string // postgres | sqlite | memory
	URL          string // PostgreSQL connection URL
	Path         string // SQLite database file
	MaxOpenConns int
	MaxIdleConns int
}

type RosterConfig struct {
	Path string // personnel roster YAML, empty for the embedded default
}

// Load reads configuration from environment variables, applying
// defaults suitable for local development.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            envDefault("HAWKEYE_HOST", "0.0.0.0"),
			Port:            envInt("HAWKEYE_PORT", 8080),
			ShutdownTimeout: envDuration("HAWKEYE_SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Session: SessionConfig{
			Secret: os.Getenv("HAWKEYE_SESSION_SECRET"),
			TTL:    envDuration("HAWKEYE_SESSION_TTL", 24*time.Hour),
		},
		Verifier: VerifierConfig{
			Comparator: envDefault("HAWKEYE_COMPARATOR", "exact"),
			Threshold:  envFloat("HAWKEYE_MATCH_THRESHOLD", 1.0),
			Timeout:    envDuration("HAWKEYE_VERIFY_TIMEOUT", 5*time.Second),
		},
		Audit: AuditConfig{
			Window:   envInt("HAWKEYE_AUDIT_WINDOW", 50),
			Capacity: envInt("HAWKEYE_AUDIT_CAPACITY", 1000),
			LogPath:  os.Getenv("HAWKEYE_AUDIT_LOG_PATH"),
		},
		Database: DatabaseConfig{
			Driver:       envDefault("DATABASE_DRIVER", DriverSQLite),
			URL:          os.Getenv("DATABASE_URL"),
			Path:         envDefault("DATABASE_PATH", "./data/hawkeye.db"),
			MaxOpenConns: envInt("DATABASE_MAX_OPEN_CONNS", 25),
			MaxIdleConns: envInt("DATABASE_MAX_IDLE_CONNS", 5),
		},
		Roster: RosterConfig{
			Path: os.Getenv("HAWKEYE_ROSTER_PATH"),
		},
	}
}

// envDefault reads an environment variable, falling back to def when
// unset or empty.
func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// envInt reads an environment variable and parses it as a positive
// integer. Returns the default if unset, empty, or invalid.
func envInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return def
}

// envFloat reads an environment variable as a float in [0,1].
func envFloat(key string, def float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f <= 1 {
		return f
	}
	return def
}

// envDuration reads an environment variable in time.ParseDuration
// syntax (e.g. "30m", "24h").
func envDuration(key string, def time.Duration) time.Duration {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
