package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"stock-game-go/logging"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig `json:"server"`

	// Database configuration
	Database DatabaseConfig `json:"database"`

	// Logging configuration
	Logging LoggingConfig `json:"logging"`

	// Authentication configuration
	Auth AuthConfig `json:"auth"`

	// Game configuration
	Game GameConfig `json:"game"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port          string `json:"port"`
	Host          string `json:"host"`
	Environment   string `json:"environment"`
	AllowedOrigin string `json:"allowed_origin"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Username string        `json:"username"`
	Password string        `json:"password"`
	Database string        `json:"database"`
	Timeout  time.Duration `json:"timeout"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level       string `json:"level"`
	Prefix      string `json:"prefix"`
	EnableColor bool   `json:"enable_color"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWTSecret   string        `json:"jwt_secret"`
	TokenExpiry time.Duration `json:"token_expiry"`
}

// GameConfig holds the game-specific configuration: which symbol the
// model predicts and which market time zone defines "today".
type GameConfig struct {
	Symbol        string `json:"symbol"`
	Timezone      string `json:"timezone"`
	IsDevelopment bool   `json:"is_development"`
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Don't treat missing .env as an error
		logging.Warnf("Could not load .env file: %v", err)
	}

	environment := getEnv("ENVIRONMENT", "development")
	isDevelopment := strings.ToLower(environment) == "development"

	config := &Config{
		Server: ServerConfig{
			Port:          getEnv("SERVER_PORT", "8080"),
			Host:          getEnv("SERVER_HOST", "0.0.0.0"),
			Environment:   environment,
			AllowedOrigin: getEnv("ALLOWED_ORIGIN", "*"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "27017"),
			Username: getEnv("DB_USERNAME", ""),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "stock_game"),
			Timeout:  getDurationEnv("DB_TIMEOUT", 10*time.Second),
		},
		Logging: LoggingConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Prefix:      getEnv("LOG_PREFIX", "stock-game"),
			EnableColor: getBoolEnv("LOG_COLOR", true),
		},
		Auth: AuthConfig{
			JWTSecret:   getEnv("JWT_SECRET", "your-secret-key-change-in-production"),
			TokenExpiry: getDurationEnv("TOKEN_EXPIRY", 30*24*time.Hour),
		},
		Game: GameConfig{
			Symbol:        getEnv("GAME_SYMBOL", "NVDA"),
			Timezone:      getEnv("GAME_TIMEZONE", "America/New_York"),
			IsDevelopment: isDevelopment,
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration for required fields and sensible values
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.Port == "" {
		return fmt.Errorf("database port is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if c.Auth.JWTSecret == "your-secret-key-change-in-production" && !c.Game.IsDevelopment {
		return fmt.Errorf("JWT secret must be changed in production")
	}

	if c.Game.Symbol == "" {
		return fmt.Errorf("game symbol is required")
	}
	if _, err := time.LoadLocation(c.Game.Timezone); err != nil {
		return fmt.Errorf("invalid game timezone %q: %w", c.Game.Timezone, err)
	}

	return nil
}

// MarketLocation returns the configured market time zone. Validate has
// already checked the name, so a load failure here falls back to UTC.
func (c *Config) MarketLocation() *time.Location {
	loc, err := time.LoadLocation(c.Game.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return c.Server.Host + ":" + c.Server.Port
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getBoolEnv gets a boolean environment variable with a default value
func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
		logging.Warnf("Invalid boolean value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getDurationEnv gets a duration environment variable with a default value
func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
		logging.Warnf("Invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
