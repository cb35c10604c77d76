// Package config builds the warehouse configuration from environment
// variables, optionally seeded from a .env file. The result is an
// explicit struct constructed once at startup and passed to the egress
// layer; nothing here keeps process-wide state.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the warehouse connection settings.
type Config struct {
	Account   string // host or host:port of the warehouse
	User      string
	Password  string
	Database  string
	Schema    string
	Warehouse string // named compute warehouse, reported as application_name
	SSLMode   string
}

// Load reads the configuration from the environment. Values already in
// the environment win over the .env file; a missing .env file is fine.
func Load() (*Config, error) {
	// godotenv only fills variables that are not already set.
	_ = godotenv.Load()

	cfg := &Config{
		Account:   os.Getenv("WAREHOUSE_ACCOUNT"),
		User:      os.Getenv("WAREHOUSE_USER"),
		Password:  os.Getenv("WAREHOUSE_PASSWORD"),
		Database:  os.Getenv("WAREHOUSE_DATABASE"),
		Schema:    os.Getenv("WAREHOUSE_SCHEMA"),
		Warehouse: os.Getenv("WAREHOUSE_NAME"),
		SSLMode:   getEnvOrDefault("WAREHOUSE_SSLMODE", "disable"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.Account == "" {
		missing = append(missing, "WAREHOUSE_ACCOUNT")
	}
	if c.User == "" {
		missing = append(missing, "WAREHOUSE_USER")
	}
	if c.Password == "" {
		missing = append(missing, "WAREHOUSE_PASSWORD")
	}
	if c.Database == "" {
		missing = append(missing, "WAREHOUSE_DATABASE")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// HostPort splits the account into host and port, defaulting the port
// to 5432 when the account carries no port.
func (c *Config) HostPort() (string, string) {
	if host, port, ok := strings.Cut(c.Account, ":"); ok {
		return host, port
	}
	return c.Account, "5432"
}

// getEnvOrDefault returns environment variable or default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
