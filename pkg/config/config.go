package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Storage backends understood by storage.Open.
const (
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
	StorageMemory = "memory"
)

// Config represents the application configuration
type Config struct {
	ServerURL      string        `json:"server_url"`
	APIKey         string        `json:"api_key"`
	TimeoutSeconds int           `json:"timeout_seconds"`
	Storage        StorageConfig `json:"storage"`
	Theme          string        `json:"theme"`
	LogLevel       string        `json:"log_level"`
	LogFormat      string        `json:"log_format"`
	LogFile        string        `json:"log_file"`
}

// StorageConfig selects where chats and preferences are persisted
type StorageConfig struct {
	Backend     string `json:"backend"`
	Path        string `json:"path"`         // file or sqlite database path
	RedisAddr   string `json:"redis_addr"`   // host:port
	RedisDB     int    `json:"redis_db"`     // database number
	RedisPrefix string `json:"redis_prefix"` // key namespace
}

// Default returns a configuration with default values
func Default() Config {
	return Config{
		ServerURL:      "http://127.0.0.1:8000",
		APIKey:         "",
		TimeoutSeconds: 30,
		Storage: StorageConfig{
			Backend:     StorageFile,
			RedisAddr:   "localhost:6379",
			RedisPrefix: "tougpt:",
		},
		Theme:     "",
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// Load loads configuration from the specified path.
// If the file doesn't exist, creates one with default values.
// Environment variables override file values.
func Load(configPath string) (Config, error) {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return Config{}, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := Default()
			if err := Save(configPath, cfg); err != nil {
				return Config{}, fmt.Errorf("failed to create default config: %w", err)
			}
			return applyEnvironmentOverrides(cfg), nil
		}
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	// Unmarshal over defaults so fields missing from older files keep sane values
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}
	if strings.TrimSpace(cfg.Storage.Backend) == "" {
		cfg.Storage.Backend = StorageFile
	}

	return applyEnvironmentOverrides(cfg), nil
}

// applyEnvironmentOverrides applies TOUGPT_* environment variables to the config
func applyEnvironmentOverrides(cfg Config) Config {
	if serverURL := os.Getenv("TOUGPT_SERVER_URL"); serverURL != "" {
		cfg.ServerURL = serverURL
	}

	if apiKey := os.Getenv("TOUGPT_API_KEY"); apiKey != "" {
		cfg.APIKey = apiKey
	}

	if timeoutStr := os.Getenv("TOUGPT_TIMEOUT"); timeoutStr != "" {
		if timeout, err := strconv.Atoi(timeoutStr); err == nil && timeout > 0 {
			cfg.TimeoutSeconds = timeout
		}
	}

	if backend := os.Getenv("TOUGPT_STORAGE"); backend != "" {
		cfg.Storage.Backend = strings.ToLower(backend)
	}

	if logLevel := os.Getenv("TOUGPT_LOG_LEVEL"); logLevel != "" {
		logLevel = strings.ToLower(logLevel)
		if isValidLogLevel(logLevel) {
			cfg.LogLevel = logLevel
		}
	}

	return cfg
}

// Save saves the configuration to the specified path
func Save(configPath string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return fmt.Errorf("server_url is required")
	}
	u, err := url.Parse(c.ServerURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("server_url must be an absolute http(s) URL, got: %q", c.ServerURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("server_url scheme must be http or https, got: %q", u.Scheme)
	}

	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got: %d", c.TimeoutSeconds)
	}

	switch c.Storage.Backend {
	case StorageFile, StorageSQLite, StorageMemory:
	case StorageRedis:
		if strings.TrimSpace(c.Storage.RedisAddr) == "" {
			return fmt.Errorf("storage.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unsupported storage backend: %s", c.Storage.Backend)
	}

	switch c.Theme {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme must be light or dark, got: %q", c.Theme)
	}

	if !isValidLogLevel(strings.ToLower(strings.TrimSpace(c.LogLevel))) {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}

	switch strings.ToLower(strings.TrimSpace(c.LogFormat)) {
	case "", "json", "text":
	default:
		return fmt.Errorf("invalid log_format: %q", c.LogFormat)
	}

	return nil
}

// StoragePath returns the configured storage path or a backend-specific default
func (c Config) StoragePath() string {
	if p := strings.TrimSpace(c.Storage.Path); p != "" {
		return p
	}
	name := "storage.json"
	if c.Storage.Backend == StorageSQLite {
		name = "storage.db"
	}
	return filepath.Join(DataDir(), name)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "", "trace", "debug", "info", "warn", "warning", "error":
		return true
	}
	return false
}

// DataDir returns the directory holding config, storage, and logs
func DataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(homeDir) == "" {
		return ".tougpt"
	}
	return filepath.Join(homeDir, ".tougpt")
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}
