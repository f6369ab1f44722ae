package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Resend   ResendConfig
	R2       R2Config
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	Lookup   LookupConfig
	Contact  ContactConfig
}

type ServerConfig struct {
	Port    string
	Host    string
	Env     string
	BaseURL string

	// UploadDir holds cover images when object storage is unavailable. Served at /uploads.
	UploadDir string

	// AllowedOrigins lists the CORS origins; empty allows any origin
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URL      string // Full database URL
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string

	// AutoMigrate applies pending migrations when the server starts
	AutoMigrate bool
}

type SessionConfig struct {
	Secret string
	Secure bool

	// Admin sign-in attempts allowed per IP within LoginWindow
	LoginMaxAttempts int
	LoginWindow      time.Duration
}

type ResendConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicURL       string
	Region          string
	Endpoint        string
}

// RedisConfig configures the optional catalog cache. An empty Addr disables it.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
	TTL      time.Duration
}

// RabbitMQConfig configures the optional domain event publisher. An empty URL disables it.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type LookupConfig struct {
	SourceTimeout time.Duration
}

// ContactConfig limits contact form submissions per IP
type ContactConfig struct {
	MaxMessages int
	Window      time.Duration
}

const (
	defaultSessionSecret = "your-secret-key-change-in-production"
	minSessionSecretLen  = 32
)

func Load() (*Config, error) {
	// Load .env files if they exist (try .env.local first, then .env)
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	port := getEnv("PORT", "8080")
	host := getEnv("HOST", "localhost")

	config := &Config{
		Server: ServerConfig{
			Port:      port,
			Host:      host,
			Env:       getEnv("ENV", "development"),
			BaseURL:   getEnv("BASE_URL", "http://"+host+":"+port),
			UploadDir: getEnv("UPLOAD_DIR", "uploads"),

			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", nil),
		},
		Database: parseDatabaseConfig(),
		Session: SessionConfig{
			Secret: getEnv("SESSION_SECRET", defaultSessionSecret),
			Secure: getEnvAsBool("SESSION_SECURE", false),

			LoginMaxAttempts: getEnvAsInt("ADMIN_LOGIN_MAX_ATTEMPTS", 5),
			LoginWindow:      getEnvAsDuration("ADMIN_LOGIN_WINDOW", 15*time.Minute),
		},
		Resend: ResendConfig{
			APIKey:    getEnv("RESEND_API_KEY", ""),
			FromEmail: getEnv("RESEND_FROM_EMAIL", "support@eventip.net"),
			FromName:  getEnv("RESEND_FROM_NAME", "Eventip"),
		},
		R2: R2Config{
			AccountID:       getEnv("R2_ACCOUNT_ID", ""),
			AccessKeyID:     getEnv("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("R2_BUCKET_NAME", "news-images"),
			PublicURL:       getEnv("R2_PUBLIC_URL", ""),
			Region:          getEnv("R2_REGION", "auto"),
			Endpoint:        getEnv("R2_ENDPOINT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			PoolSize: getEnvAsInt("REDIS_POOL_SIZE", 10),
			TTL:      getEnvAsDuration("CATALOG_CACHE_TTL", time.Minute),
		},
		RabbitMQ: RabbitMQConfig{
			URL:      getEnv("RABBITMQ_URL", ""),
			Exchange: getEnv("RABBITMQ_EXCHANGE", "eventip"),
		},
		Lookup: LookupConfig{
			SourceTimeout: getEnvAsDuration("LOOKUP_SOURCE_TIMEOUT", 5*time.Second),
		},
		Contact: ContactConfig{
			MaxMessages: getEnvAsInt("CONTACT_MAX_MESSAGES", 5),
			Window:      getEnvAsDuration("CONTACT_WINDOW", time.Hour),
		},
	}
	config.Database.AutoMigrate = getEnvAsBool("DB_AUTO_MIGRATE", false)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the server cannot run with. Outside development the
// session secret must be set explicitly and be long enough to sign cookies.
func (c *Config) Validate() error {
	var errs []error

	if !c.IsDevelopment() {
		switch {
		case c.Session.Secret == defaultSessionSecret:
			errs = append(errs, errors.New("SESSION_SECRET must be set outside development"))
		case len(c.Session.Secret) < minSessionSecretLen:
			errs = append(errs, fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSessionSecretLen))
		}
	}

	if c.Session.LoginMaxAttempts < 0 {
		errs = append(errs, errors.New("ADMIN_LOGIN_MAX_ATTEMPTS cannot be negative"))
	}
	if c.Contact.MaxMessages < 0 {
		errs = append(errs, errors.New("CONTACT_MAX_MESSAGES cannot be negative"))
	}
	if c.Lookup.SourceTimeout < 0 {
		errs = append(errs, errors.New("LOOKUP_SOURCE_TIMEOUT cannot be negative"))
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the server runs in the development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func parseDatabaseConfig() DatabaseConfig {
	// Check if DATABASE_URL is provided
	databaseURL := getEnv("DATABASE_URL", "")
	if databaseURL != "" {
		return parseDatabaseURL(databaseURL)
	}

	// Fall back to individual environment variables
	return DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnvAsInt("DB_PORT", 5432),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		DBName:   getEnv("DB_NAME", "eventip"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}
}

func parseDatabaseURL(databaseURL string) DatabaseConfig {
	config := DatabaseConfig{
		URL: databaseURL,
	}

	u, err := url.Parse(databaseURL)
	if err != nil {
		// If parsing fails, return the URL as-is
		return config
	}

	config.Host = u.Hostname()
	if u.Port() != "" {
		config.Port, _ = strconv.Atoi(u.Port())
	} else {
		config.Port = 5432
	}

	if u.User != nil {
		config.User = u.User.Username()
		config.Password, _ = u.User.Password()
	}

	config.DBName = strings.TrimPrefix(u.Path, "/")

	config.SSLMode = u.Query().Get("sslmode")
	if config.SSLMode == "" {
		config.SSLMode = "disable"
	}

	return config
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsSlice splits a comma separated value, dropping empty entries
func getEnvAsSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
