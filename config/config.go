package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings and the upstream Yahoo Finance connection details.
//
// Example YAML/ENV equivalent:
//
//	SERVER_PORT=8080
//	SERVER_REQUEST_TIMEOUT_SECONDS=15
//	YAHOO_BASE_URL=https://query2.finance.yahoo.com
//	YAHOO_TIMEOUT_SECONDS=10
//	YAHOO_USER_AGENT=yfpulse/1.0
type Config struct {
	Server ServerConfig // HTTP server configuration
	Yahoo  YahooConfig  // Upstream Yahoo Finance settings
}

// ServerConfig holds HTTP server settings such as the port to listen on.
type ServerConfig struct {
	Port           string        // The TCP port the HTTP server will listen on (e.g., "8080")
	RequestTimeout time.Duration // Per-request deadline applied by the router
}

// YahooConfig defines how the service talks to the upstream market-data provider.
//
// Fields:
//   - BaseURL: scheme+host of the Yahoo Finance query API (no trailing slash).
//   - Timeout: HTTP client timeout for upstream calls.
//   - UserAgent: User-Agent header sent on upstream requests.
type YahooConfig struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
// All services should import this package and read from AppConfig instead of
// reloading environment variables directly.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Behavior:
//   - Sets defaults for all required fields.
//   - Reads environment variables automatically with viper.AutomaticEnv().
//   - Normalizes the upstream base URL (strips a trailing slash).
//   - Calls validateConfig() to ensure required fields are present.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	// Default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_REQUEST_TIMEOUT_SECONDS", 15)

	viper.SetDefault("YAHOO_BASE_URL", "https://query2.finance.yahoo.com")
	viper.SetDefault("YAHOO_TIMEOUT_SECONDS", 10)
	viper.SetDefault("YAHOO_USER_AGENT", "yfpulse/1.0")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	// Read environment variables automatically
	viper.AutomaticEnv()

	// Populate global config instance
	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			RequestTimeout: time.Duration(viper.GetInt("SERVER_REQUEST_TIMEOUT_SECONDS")) * time.Second,
		},
		Yahoo: YahooConfig{
			BaseURL:   strings.TrimRight(viper.GetString("YAHOO_BASE_URL"), "/"),
			Timeout:   time.Duration(viper.GetInt("YAHOO_TIMEOUT_SECONDS")) * time.Second,
			UserAgent: viper.GetString("YAHOO_USER_AGENT"),
		},
	}

	// Validate critical fields
	validateConfig()
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// This avoids unexpected runtime failures due to incomplete configuration.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Collects missing ones in a slice.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.Server.RequestTimeout <= 0 {
		missing = append(missing, "SERVER_REQUEST_TIMEOUT_SECONDS")
	}
	if AppConfig.Yahoo.BaseURL == "" {
		missing = append(missing, "YAHOO_BASE_URL")
	}
	if AppConfig.Yahoo.Timeout <= 0 {
		missing = append(missing, "YAHOO_TIMEOUT_SECONDS")
	}
	if AppConfig.Yahoo.UserAgent == "" {
		missing = append(missing, "YAHOO_USER_AGENT")
	}

	if len(missing) > 0 {
		log.Fatalf("missing required environment variables: %v\n", missing)
	}
}
