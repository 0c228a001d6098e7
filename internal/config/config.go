package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Identity IdentityConfig `mapstructure:"identity"`
	Library  LibraryConfig  `mapstructure:"library"`
	UI       UIConfig       `mapstructure:"ui"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// APIConfig holds remote API configuration
type APIConfig struct {
	URL string `mapstructure:"url"` // Base URL, e.g. https://api.completeditmate.app/api
	Key string `mapstructure:"key"` // Sent as x-api-key on every request
}

// IdentityConfig holds the persistent per-device identity
type IdentityConfig struct {
	// DeviceID is generated on first run and exchanged for a server-issued
	// user id each session. Clearing it provisions a fresh identity.
	DeviceID string `mapstructure:"device_id"`
}

// LibraryConfig holds library mutation behavior
type LibraryConfig struct {
	// OnFailure picks what happens to optimistic state when a mutation's
	// network call fails: "retain", "rollback", or "reload".
	OnFailure string `mapstructure:"on_failure"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	PageSize    int    `mapstructure:"page_size"`
	Theme       string `mapstructure:"theme"`
	DefaultView string `mapstructure:"default_view"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			URL: "https://api.completeditmate.app/api",
			Key: "",
		},
		Identity: IdentityConfig{
			DeviceID: "",
		},
		Library: LibraryConfig{
			OnFailure: "retain",
		},
		UI: UIConfig{
			PageSize:    24,
			Theme:       "default",
			DefaultView: "browse",
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mate", "mate.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mate", "mate.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mate")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "mate")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "mate", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mate", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("MATE")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("api.url", cfg.API.URL)
	viper.Set("api.key", cfg.API.Key)
	viper.Set("identity.device_id", cfg.Identity.DeviceID)
	viper.Set("library.on_failure", cfg.Library.OnFailure)
	viper.Set("ui.page_size", cfg.UI.PageSize)
	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.default_view", cfg.UI.DefaultView)
	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// SaveDeviceID updates just the device id in the configuration
func SaveDeviceID(deviceID string) error {
	viper.Set("identity.device_id", deviceID)

	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// IsConfigured returns true if the API base URL is set
func (c *Config) IsConfigured() bool {
	return c.API.URL != ""
}

// PageSize returns the configured browse page size, clamped to the
// sizes the UI offers.
func (c *Config) PageSize() int {
	switch c.UI.PageSize {
	case 12, 24, 36, 48:
		return c.UI.PageSize
	default:
		return 24
	}
}

// GetCachePath returns the cache directory path
func GetCachePath() string {
	return defaultCachePath()
}

// ClearCache removes all cached data
func ClearCache() error {
	if err := os.RemoveAll(defaultCachePath()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
