package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Redis     RedisConfig
	SMTP      SMTPConfig
	Catalog   CatalogConfig
	S3        S3Config
	Scheduler SchedulerConfig
}

// defaultJWTSecret is the development fallback for JWT_SECRET.
const defaultJWTSecret = "your-secret-key"

type ServerConfig struct {
	Port        string
	GinMode     string
	Environment string
	FrontendURL string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig controls every token the service mints. Reset codes and reset
// session tokens share the secret with access tokens and are told apart by
// their kind claim.
type JWTConfig struct {
	Secret             string
	Algorithm          string
	AccessTokenExpiry  time.Duration
	ResetCodeExpiry    time.Duration
	ResetSessionExpiry time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RedisConfig struct {
	Enabled  bool
	Host     string
	Port     string
	Password string
	DB       int
}

type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// Enabled reports whether outgoing mail is configured. Without it the mailer
// only logs what it would have sent.
func (c SMTPConfig) Enabled() bool {
	return c.Host != "" && c.Username != ""
}

// UnresolvedNamesPolicy decides what happens to relation names on a game
// payload that match no stored row.
type UnresolvedNamesPolicy string

const (
	UnresolvedDrop   UnresolvedNamesPolicy = "drop"
	UnresolvedReject UnresolvedNamesPolicy = "reject"
)

type CatalogConfig struct {
	UnresolvedNames  UnresolvedNamesPolicy
	DefaultPageLimit int
	MaxPageLimit     int
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	BaseURL         string // CloudFront or S3 direct URL
}

type SchedulerConfig struct {
	ResetTokenSweepSpec string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			GinMode:     getEnv("GIN_MODE", "debug"),
			Environment: getEnv("ENVIRONMENT", "development"),
			FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", ""),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "gamecatalog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret:             getEnv("JWT_SECRET", defaultJWTSecret),
			Algorithm:          strings.ToUpper(getEnv("JWT_ALGORITHM", "HS256")),
			AccessTokenExpiry:  parseDuration(getEnv("JWT_ACCESS_TOKEN_EXPIRY", "30m"), 30*time.Minute),
			ResetCodeExpiry:    parseDuration(getEnv("JWT_RESET_CODE_EXPIRY", "15m"), 15*time.Minute),
			ResetSessionExpiry: parseDuration(getEnv("JWT_RESET_SESSION_EXPIRY", "60m"), 60*time.Minute),
		},
		CORS: CORSConfig{
			AllowedOrigins: parseSlice(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		},
		Redis: RedisConfig{
			Enabled:  parseBool(getEnv("REDIS_ENABLED", "true")),
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       parseInt(getEnv("REDIS_DB", "0"), 0),
		},
		SMTP: SMTPConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnv("SMTP_PORT", "587"),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("SMTP_FROM", "no-reply@gamecatalog.local"),
		},
		Catalog: CatalogConfig{
			UnresolvedNames:  UnresolvedNamesPolicy(strings.ToLower(getEnv("CATALOG_UNRESOLVED_NAMES", string(UnresolvedDrop)))),
			DefaultPageLimit: parseInt(getEnv("CATALOG_DEFAULT_PAGE_LIMIT", "50"), 50),
			MaxPageLimit:     parseInt(getEnv("CATALOG_MAX_PAGE_LIMIT", "100"), 100),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "eu-central-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BaseURL:         getEnv("AWS_S3_BASE_URL", ""),
		},
		Scheduler: SchedulerConfig{
			ResetTokenSweepSpec: getEnv("RESET_TOKEN_SWEEP_SPEC", "*/10 * * * *"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	if c.Server.Environment == "production" && (c.JWT.Secret == "" || c.JWT.Secret == defaultJWTSecret) {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported JWT_ALGORITHM %q", c.JWT.Algorithm)
	}
	switch c.Catalog.UnresolvedNames {
	case UnresolvedDrop, UnresolvedReject:
	default:
		return fmt.Errorf("unsupported CATALOG_UNRESOLVED_NAMES %q", c.Catalog.UnresolvedNames)
	}
	if c.Catalog.DefaultPageLimit <= 0 || c.Catalog.MaxPageLimit < c.Catalog.DefaultPageLimit {
		return fmt.Errorf("invalid page limits: default=%d max=%d", c.Catalog.DefaultPageLimit, c.Catalog.MaxPageLimit)
	}
	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	return err == nil && b
}

func parseSlice(s string) []string {
	if s == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
