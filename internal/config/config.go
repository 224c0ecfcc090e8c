package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
)

// Config holds application configuration
type Config struct {
	// Server
	Env         string
	Port        string
	AllowOrigin []string
	EnablePprof bool

	// Reporting
	Currency string
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:         getEnv("ENV", "development"),
		Port:        getEnv("PORT", "8080"),
		AllowOrigin: strings.Fields(getEnv("CORS_ALLOW_ORIGINS", "*")),
		Currency:    strings.ToUpper(getEnv("CURRENCY", "EUR")),
	}

	pprofStr := getEnv("ENABLE_PPROF", "false")
	enabled, err := strconv.ParseBool(pprofStr)
	if err != nil {
		log.Printf("Warning: invalid ENABLE_PPROF value '%s', falling back to false\n", pprofStr)
		enabled = false
	}
	config.EnablePprof = enabled

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid PORT %q: must be a number between 1 and 65535", c.Port)
	}

	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("invalid CURRENCY %q: %w", c.Currency, err)
	}

	return nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
