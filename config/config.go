package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server       ServerConfig
	Catalog      CatalogConfig
	Resolver     ResolverConfig
	Autocomplete AutocompleteConfig
	Gemini       GeminiConfig
	Risk         RiskConfig
	Log          LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds product catalog configuration. An empty path
// disables the catalog and the resolver runs on the synthesizer alone.
type CatalogConfig struct {
	Path         string        `mapstructure:"path"`
	PoolSize     int           `mapstructure:"pool_size"`
	QueryTimeout time.Duration `mapstructure:"query_timeout"`
	SeedFile     string        `mapstructure:"seed_file"`
}

// ResolverConfig holds resolution tuning
type ResolverConfig struct {
	MinScore float64 `mapstructure:"min_score"`
}

// AutocompleteConfig holds typeahead tuning
type AutocompleteConfig struct {
	Limit int `mapstructure:"limit"`
}

// GeminiConfig holds Gemini API configuration. An empty API key disables
// AI augmentation and product synthesis.
type GeminiConfig struct {
	APIKey            string `mapstructure:"api_key"`
	Model             string `mapstructure:"model"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
}

// RiskConfig holds health risk analysis configuration
type RiskConfig struct {
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level       string `mapstructure:"level"`
	File        string `mapstructure:"file"`
	Development bool   `mapstructure:"development"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/informedchoice/")

	// Environment variable settings
	v.SetEnvPrefix("INFORMEDCHOICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:8081", "exp://*"})

	// Catalog defaults
	v.SetDefault("catalog.path", "")
	v.SetDefault("catalog.pool_size", 5)
	v.SetDefault("catalog.query_timeout", "3s")
	v.SetDefault("catalog.seed_file", "")

	// Resolver defaults
	v.SetDefault("resolver.min_score", 0.1)

	// Autocomplete defaults
	v.SetDefault("autocomplete.limit", 10)

	// Gemini defaults. The empty api_key default keeps the key visible to
	// AutomaticEnv so INFORMEDCHOICE_GEMINI_API_KEY is picked up.
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.5-flash")
	v.SetDefault("gemini.requests_per_minute", 15)

	// Risk defaults
	v.SetDefault("risk.timeout", "5s")
	v.SetDefault("risk.cache_ttl", "24h")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
	v.SetDefault("log.development", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required (set INFORMEDCHOICE_SERVER_PORT)")
	}

	if config.Resolver.MinScore < 0 {
		return fmt.Errorf("resolver min score must be >= 0, got: %g", config.Resolver.MinScore)
	}

	if config.Autocomplete.Limit < 1 {
		return fmt.Errorf("autocomplete limit must be >= 1, got: %d", config.Autocomplete.Limit)
	}

	if config.Catalog.PoolSize < 1 {
		return fmt.Errorf("catalog pool size must be >= 1, got: %d", config.Catalog.PoolSize)
	}

	if config.Risk.Timeout <= 0 {
		return fmt.Errorf("risk timeout must be positive, got: %s", config.Risk.Timeout)
	}

	return nil
}
