package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	JWT       JWTConfig       `yaml:"jwt"`
	Auth      AuthConfig      `yaml:"auth"`
	Email     EmailConfig     `yaml:"email"`
	Push      PushConfig      `yaml:"push"`
	Cache     CacheConfig     `yaml:"cache"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP and gRPC listener settings
type ServerConfig struct {
	Host     string `yaml:"host"`
	HTTPPort int    `yaml:"http_port"`
	GRPCPort int    `yaml:"grpc_port"`
	// TimeZone is the IANA zone the lockout policy computes "next 6 AM" in.
	// Empty means the server's local zone.
	TimeZone string `yaml:"time_zone"`
	BaseURL  string `yaml:"base_url"` // Used in password reset links
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// JWTConfig contains session token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	SessionTokenExpiry int    `yaml:"session_token_expiry_minutes"`
}

// AuthConfig controls how far session claims are trusted
type AuthConfig struct {
	RevalidateClaims      bool `yaml:"revalidate_claims"`
	ClaimsCacheTTLSeconds int  `yaml:"claims_cache_ttl_seconds"`
}

// EmailConfig contains SendGrid settings. An empty API key logs emails instead of sending them.
type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
}

// PushConfig contains Firebase Cloud Messaging settings for lockout alerts
type PushConfig struct {
	CredentialsFile string `yaml:"credentials_file"` // Empty disables push
	Topic           string `yaml:"topic"`
}

// CacheConfig contains Redis settings for the claims cache
type CacheConfig struct {
	RedisAddr     string `yaml:"redis_addr"` // Empty disables caching
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings for housekeeping jobs
type SchedulerConfig struct {
	PurgeExpiredTokens   string `yaml:"purge_expired_tokens"`
	ReleaseElapsedBlocks string `yaml:"release_elapsed_blocks"`
}

// Load reads configuration from a YAML file, then applies a .env file and
// environment variable overrides.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// A missing .env file is normal outside local development.
	_ = godotenv.Load()
	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	envString("DB_HOST", &c.Database.Host)
	envInt("DB_PORT", &c.Database.Port)
	envString("DB_USER", &c.Database.User)
	envString("DB_PASSWORD", &c.Database.Password)
	envString("DB_NAME", &c.Database.Database)
	envString("DB_SSL_MODE", &c.Database.SSLMode)

	// JWT
	envString("JWT_SECRET", &c.JWT.Secret)

	// Server
	envString("SERVER_HOST", &c.Server.Host)
	envInt("HTTP_PORT", &c.Server.HTTPPort)
	envInt("GRPC_PORT", &c.Server.GRPCPort)
	envString("SERVER_TIME_ZONE", &c.Server.TimeZone)
	envString("APP_BASE_URL", &c.Server.BaseURL)

	// Auth
	envBool("AUTH_REVALIDATE_CLAIMS", &c.Auth.RevalidateClaims)

	// Email
	envString("SENDGRID_API_KEY", &c.Email.SendGridAPIKey)
	envString("EMAIL_FROM", &c.Email.FromEmail)

	// Push
	envString("FIREBASE_CREDENTIALS_FILE", &c.Push.CredentialsFile)

	// Cache
	envString("REDIS_ADDR", &c.Cache.RedisAddr)
	envString("REDIS_PASSWORD", &c.Cache.RedisPassword)

	// Log
	envString("LOG_LEVEL", &c.Log.Level)
	envString("LOG_FORMAT", &c.Log.Format)

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	// Server validation
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Server.HTTPPort)
	}
	if c.Server.GRPCPort == 0 {
		c.Server.GRPCPort = c.Server.HTTPPort + 1
	}
	if c.Server.GRPCPort < 0 || c.Server.GRPCPort > 65535 || c.Server.GRPCPort == c.Server.HTTPPort {
		return fmt.Errorf("invalid gRPC port: %d", c.Server.GRPCPort)
	}
	if c.Server.TimeZone != "" {
		if _, err := time.LoadLocation(c.Server.TimeZone); err != nil {
			return fmt.Errorf("invalid time zone %q: %w", c.Server.TimeZone, err)
		}
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.HTTPPort)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.SessionTokenExpiry <= 0 {
		c.JWT.SessionTokenExpiry = 12 * 60 // One shift
	}

	// Auth defaults
	if c.Auth.ClaimsCacheTTLSeconds <= 0 {
		c.Auth.ClaimsCacheTTLSeconds = 60
	}

	// Email defaults
	if c.Email.FromEmail == "" {
		c.Email.FromEmail = "no-reply@fieldops.local"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "FieldOps"
	}

	// Push defaults
	if c.Push.Topic == "" {
		c.Push.Topic = "technician-lockouts"
	}

	// Scheduler defaults
	if c.Scheduler.PurgeExpiredTokens == "" {
		c.Scheduler.PurgeExpiredTokens = "0 0 * * * *" // Hourly
	}
	if c.Scheduler.ReleaseElapsedBlocks == "" {
		c.Scheduler.ReleaseElapsedBlocks = "0 5 6 * * *" // Daily at 6:05 AM
	}

	return nil
}

// Location returns the time zone the lockout policy runs in
func (c *Config) Location() *time.Location {
	if c.Server.TimeZone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Server.TimeZone)
	if err != nil {
		return time.Local
	}
	return loc
}

// SessionTokenTTL returns the session token lifetime
func (c *Config) SessionTokenTTL() time.Duration {
	return time.Duration(c.JWT.SessionTokenExpiry) * time.Minute
}

// ClaimsCacheTTL returns how long a revalidated session stays trusted
func (c *Config) ClaimsCacheTTL() time.Duration {
	return time.Duration(c.Auth.ClaimsCacheTTLSeconds) * time.Second
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetHTTPAddress returns the HTTP listen address
func (c *Config) GetHTTPAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.HTTPPort)
}

// GetGRPCAddress returns the gRPC listen address
func (c *Config) GetGRPCAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.GRPCPort)
}
