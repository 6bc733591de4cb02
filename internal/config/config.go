// Package config loads exporthub settings from the environment, optionally
// layered over a YAML file.
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigFileEnv names the variable holding an optional YAML config path.
const ConfigFileEnv = "EXPORTHUB_CONFIG"

type Config struct {
	// HTTP Server
	Port string `yaml:"port"`
	// TrustedProxies lists CIDRs allowed to set X-Forwarded-For. Empty means
	// loopback only.
	TrustedProxies []string `yaml:"trusted_proxies"`

	// Backend selection
	DataBackend  string `yaml:"data_backend"`
	SQLiteDBPath string `yaml:"sqlite_db_path"`
	SeedDir      string `yaml:"seed_dir"`

	// AMQP. An empty URL disables export events.
	AMQPURL      string `yaml:"amqp_url"`
	AMQPExchange string `yaml:"amqp_exchange"`
	AMQPQueue    string `yaml:"amqp_queue"`

	// Sharing
	ShareBaseURL   string        `yaml:"share_base_url"`
	ShareTTL       time.Duration `yaml:"share_ttl"`
	ShareCacheSize int           `yaml:"share_cache_size"`

	// TransportDelay scales every simulated delay; 0 completes transports
	// immediately.
	TransportDelay float64 `yaml:"transport_delay"`

	LogLevel string `yaml:"log_level"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		Port:           "8081",
		DataBackend:    "memory",
		SQLiteDBPath:   "./data/exporthub.db",
		AMQPExchange:   "exporthub",
		AMQPQueue:      "export_events",
		ShareBaseURL:   "https://expenses.app",
		ShareTTL:       24 * time.Hour,
		ShareCacheSize: 100,
		TransportDelay: 1,
		LogLevel:       "info",
	}
}

// CLIDefaults returns the defaults for exportctl. Every CLI run opens a fresh
// backend, so it persists to sqlite under the user data directory instead of
// the in-memory store.
func CLIDefaults() *Config {
	cfg := Defaults()
	cfg.DataBackend = "sqlite"
	cfg.SQLiteDBPath = UserDataPath("exporthub.db")
	return cfg
}

// UserDataPath joins name onto the exporthub directory under
// $XDG_DATA_HOME, or ~/.local/share when that is unset. It falls back to
// ./data when no home directory is known.
func UserDataPath(name string) string {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			return filepath.Join("data", name)
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "exporthub", name)
}

// Load builds the configuration from defaults, then the YAML file named by
// EXPORTHUB_CONFIG if any, then environment variables.
func Load() (*Config, error) {
	return LoadWithDefaults(Defaults())
}

// LoadWithDefaults is Load starting from cfg instead of Defaults.
func LoadWithDefaults(cfg *Config) (*Config, error) {
	if path := os.Getenv(ConfigFileEnv); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

// LoadFile overlays the non-empty values of a YAML file onto c. A missing
// file is not an error.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Port = getEnv("PORT", c.Port)
	c.TrustedProxies = getEnvList("TRUSTED_PROXIES", c.TrustedProxies)
	c.DataBackend = getEnv("DATA_BACKEND", c.DataBackend)
	c.SQLiteDBPath = getEnv("SQLITE_DB_PATH", c.SQLiteDBPath)
	c.SeedDir = getEnv("SEED_DIR", c.SeedDir)
	c.AMQPURL = getEnv("AMQP_URL", c.AMQPURL)
	c.AMQPExchange = getEnv("AMQP_EXCHANGE", c.AMQPExchange)
	c.AMQPQueue = getEnv("AMQP_QUEUE", c.AMQPQueue)
	c.ShareBaseURL = getEnv("SHARE_BASE_URL", c.ShareBaseURL)
	c.ShareTTL = getEnvDuration("SHARE_TTL", c.ShareTTL)
	c.ShareCacheSize = getEnvInt("SHARE_CACHE_SIZE", c.ShareCacheSize)
	c.TransportDelay = getEnvFloat("TRANSPORT_DELAY", c.TransportDelay)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
}

// EventsEnabled reports whether export events should be published.
func (c *Config) EventsEnabled() bool {
	return c.AMQPURL != ""
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	for _, cidr := range c.TrustedProxies {
		if _, err := netip.ParsePrefix(cidr); err != nil {
			errors = append(errors, fmt.Sprintf("invalid trusted proxy '%s': %v", cidr, err))
		}
	}

	// Validate data backend
	validBackends := []string{"memory", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	// Validate SQLite configuration if backend is sqlite
	if c.DataBackend == "sqlite" {
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Validate sharing
	if parsedURL, err := url.Parse(c.ShareBaseURL); err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		errors = append(errors, fmt.Sprintf("invalid share base URL '%s': must be an absolute URL", c.ShareBaseURL))
	}
	if c.ShareTTL < time.Minute {
		errors = append(errors, fmt.Sprintf("invalid share TTL %v: must be at least 1 minute", c.ShareTTL))
	}
	if c.ShareCacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid share cache size %d: must be at least 1", c.ShareCacheSize))
	}

	if c.TransportDelay < 0 {
		errors = append(errors, fmt.Sprintf("invalid transport delay scale %v: must not be negative", c.TransportDelay))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
