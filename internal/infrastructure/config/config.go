// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	baseURL := cfg.Ledger.BaseURL
//	dbPath := cfg.Storage.DatabasePath
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration
type Config struct {
	Ledger        LedgerConfig        `yaml:"ledger"`
	Reconcile     ReconcileConfig     `yaml:"reconcile"`
	Storage       StorageConfig       `yaml:"storage"`
	Server        ServerConfig        `yaml:"server"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// LedgerConfig holds wallet/billing API connection settings
type LedgerConfig struct {
	BaseURL  string `yaml:"base_url"`
	APIToken string `yaml:"api_token"`
	// RetryMax enables a retrying HTTP client at the call site. The ledger
	// client itself never retries; zero disables retries entirely.
	RetryMax int `yaml:"retry_max"`
}

// ReconcileConfig holds the reconciliation engine knobs
type ReconcileConfig struct {
	PageSize int `yaml:"page_size"`
	MaxPages int `yaml:"max_pages"`
	// ToleranceFloor and ToleranceRatio define the discrepancy threshold:
	// max(floor, server_total*ratio). Defaults: one cent, half a percent.
	ToleranceFloor string `yaml:"tolerance_floor"`
	ToleranceRatio string `yaml:"tolerance_ratio"`
}

// StorageConfig holds database configuration
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// ServerConfig holds API server configuration
type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${LEDGER_API_TOKEN})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only
func LoadFromEnv() *Config {
	cfg := &Config{
		Ledger: LedgerConfig{
			BaseURL:  getEnv("LEDGER_BASE_URL", "http://localhost:9090"),
			APIToken: os.Getenv("LEDGER_API_TOKEN"),
			RetryMax: getEnvInt("LEDGER_RETRY_MAX", 0),
		},
		Reconcile: ReconcileConfig{
			PageSize: getEnvInt("RECONCILE_PAGE_SIZE", 100),
			MaxPages: getEnvInt("RECONCILE_MAX_PAGES", 20),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RECONCILE_DB_PATH", "billing_recon.db"),
		},
		Server: ServerConfig{
			Port: getEnvInt("API_PORT", 8080),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	cfg.applyDefaults()
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment variables
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from specified path, falls back to environment variables
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

func (c *Config) applyDefaults() {
	if c.Reconcile.PageSize <= 0 {
		c.Reconcile.PageSize = 100
	}
	if c.Reconcile.MaxPages <= 0 {
		c.Reconcile.MaxPages = 20
	}
	if c.Reconcile.ToleranceFloor == "" {
		c.Reconcile.ToleranceFloor = "0.01"
	}
	if c.Reconcile.ToleranceRatio == "" {
		c.Reconcile.ToleranceRatio = "0.005"
	}
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "billing_recon.db"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if len(c.Server.AllowedOrigins) == 0 {
		c.Server.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
	if c.Observability.Logging.Format == "" {
		c.Observability.Logging.Format = "text"
	}
}

// getEnv retrieves an environment variable with a fallback default
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback default
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}
