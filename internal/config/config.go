package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported database drivers
const (
	DriverMongo    = "mongodb"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// Department delete policies
const (
	DeletePolicyAllow    = "allow"
	DeletePolicyRestrict = "restrict"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		FrontendURL    string `yaml:"frontend_url" env:"FRONTEND_URL"`
		AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Driver               string `yaml:"driver" env:"DB_DRIVER"`
		URI                  string `yaml:"uri" env:"MONGODB_URI"`
		Name                 string `yaml:"name" env:"DB_NAME"`
		Host                 string `yaml:"host" env:"DB_HOST"`
		Port                 string `yaml:"port" env:"DB_PORT"`
		User                 string `yaml:"user" env:"DB_USER"`
		Password             string `yaml:"password" env:"DB_PASSWORD"`
		SSLMode              string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns         int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns         int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime      string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		ConnectRetryInterval string `yaml:"connect_retry_interval" env:"DB_CONNECT_RETRY_INTERVAL"`
		ConnectMaxRetries    int    `yaml:"connect_max_retries" env:"DB_CONNECT_MAX_RETRIES"`
		Seed                 bool   `yaml:"seed" env:"DB_SEED"`
	} `yaml:"database"`

	Session struct {
		Secret       string `yaml:"secret" env:"SESSION_SECRET"`
		Expiration   string `yaml:"expiration" env:"SESSION_EXPIRATION"`
		Issuer       string `yaml:"issuer" env:"SESSION_ISSUER"`
		CookieName   string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		CookieSecure bool   `yaml:"cookie_secure" env:"SESSION_COOKIE_SECURE"`
	} `yaml:"session"`

	Google struct {
		ClientID     string `yaml:"client_id" env:"GOOGLE_CLIENT_ID"`
		ClientSecret string `yaml:"client_secret" env:"GOOGLE_CLIENT_SECRET"`
		RedirectURL  string `yaml:"redirect_url" env:"GOOGLE_REDIRECT_URL"`
	} `yaml:"google"`

	Auth struct {
		RequireLogin bool `yaml:"require_login" env:"AUTH_REQUIRE_LOGIN"`
	} `yaml:"auth"`

	Integrity struct {
		DepartmentDeletePolicy string `yaml:"department_delete_policy" env:"DEPARTMENT_DELETE_POLICY"`
	} `yaml:"integrity"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a .env file, a YAML file and environment variables,
// in increasing order of precedence.
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env is normal outside local development
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

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
	config.Server.Port = "5001"
	config.Server.Mode = "development"
	config.Server.FrontendURL = "http://localhost:5173"
	config.Server.AllowedOrigins = "http://localhost:5173"

	config.Database.Driver = DriverMongo
	config.Database.URI = "mongodb://localhost:27017"
	config.Database.Name = "campusrecords"
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.ConnectRetryInterval = "5s"
	config.Database.ConnectMaxRetries = 10

	config.Session.Expiration = "24h"
	config.Session.Issuer = "campusrecords"
	config.Session.CookieName = "campus_session"

	config.Integrity.DepartmentDeletePolicy = DeletePolicyAllow

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverMongo:
		if config.Database.URI == "" {
			return fmt.Errorf("mongodb uri is required")
		}
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	if config.Database.Name == "" {
		return fmt.Errorf("database name is required")
	}

	if _, err := time.ParseDuration(config.Database.ConnectRetryInterval); err != nil {
		return fmt.Errorf("invalid connect retry interval: %w", err)
	}

	if config.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}

	if _, err := time.ParseDuration(config.Session.Expiration); err != nil {
		return fmt.Errorf("invalid session expiration format: %w", err)
	}

	switch config.Integrity.DepartmentDeletePolicy {
	case DeletePolicyAllow, DeletePolicyRestrict:
	default:
		return fmt.Errorf("unsupported department delete policy %q", config.Integrity.DepartmentDeletePolicy)
	}

	return nil
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
		c.Database.Name,
		sslMode,
	)
}

// Origins returns the configured CORS origins, falling back to the frontend URL.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 && c.Server.FrontendURL != "" {
		origins = append(origins, c.Server.FrontendURL)
	}
	return origins
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}
