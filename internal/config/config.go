package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/yigit/mentormatch/internal/pkg/helpers"
	"gopkg.in/yaml.v3"
)

const productionMode = "production"

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout    string   `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout   string   `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		Issuer                string `yaml:"issuer" env:"JWT_ISSUER"`
		Audience              string `yaml:"audience" env:"JWT_AUDIENCE"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Security struct {
		BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
	} `yaml:"security"`

	RateLimit struct {
		Enabled         bool   `yaml:"enabled" env:"RATE_LIMIT_ENABLED"`
		Window          string `yaml:"window" env:"RATE_LIMIT_WINDOW"`
		GeneralRequests int    `yaml:"general_requests" env:"RATE_LIMIT_GENERAL_REQUESTS"`
		AuthRequests    int    `yaml:"auth_requests" env:"RATE_LIMIT_AUTH_REQUESTS"`
		ProfileRequests int    `yaml:"profile_requests" env:"RATE_LIMIT_PROFILE_REQUESTS"`
	} `yaml:"rate_limit"`

	Match struct {
		MaxMessageLength      int  `yaml:"max_message_length" env:"MATCH_MAX_MESSAGE_LENGTH"`
		SkipExclusivityChecks bool `yaml:"skip_exclusivity_checks" env:"MATCH_SKIP_EXCLUSIVITY_CHECKS"`
	} `yaml:"match"`

	Seed struct {
		DemoAccounts bool `yaml:"demo_accounts" env:"SEED_DEMO_ACCOUNTS"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// The file is optional; env vars alone are enough in containers.
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.AllowedOrigins = []string{"http://localhost:3000"}

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "mentormatch"
	config.Database.SSLMode = "disable"
	config.Database.MinConns = 2
	config.Database.MaxConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.Issuer = "mentor-mentee-app"
	config.JWT.Audience = "mentor-mentee-app-users"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Security.BcryptCost = 10

	config.RateLimit.Enabled = true
	config.RateLimit.Window = "15m"
	config.RateLimit.GeneralRequests = 100
	config.RateLimit.AuthRequests = 10
	config.RateLimit.ProfileRequests = 20

	config.Match.MaxMessageLength = 1000
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if config.IsProduction() && len(config.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters in production")
	}

	durations := map[string]string{
		"JWT access token expiration": config.JWT.AccessTokenExpiration,
		"database conn max lifetime":  config.Database.ConnMaxLifetime,
		"server read timeout":         config.Server.ReadTimeout,
		"server write timeout":        config.Server.WriteTimeout,
		"rate limit window":           config.RateLimit.Window,
	}
	for name, value := range durations {
		if _, err := helpers.ParseConfigDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	if config.Security.BcryptCost < 4 || config.Security.BcryptCost > 31 {
		return fmt.Errorf("bcrypt cost must be between 4 and 31, got %d", config.Security.BcryptCost)
	}

	if config.Match.MaxMessageLength <= 0 {
		return fmt.Errorf("match max message length must be positive")
	}

	if config.IsProduction() && config.Match.SkipExclusivityChecks {
		return fmt.Errorf("match exclusivity checks cannot be skipped in production")
	}
	if config.IsProduction() && config.Seed.DemoAccounts {
		return fmt.Errorf("demo accounts cannot be seeded in production")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, productionMode)
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}
