package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database  DatabaseConfig
	JWT       JWTConfig
	App       AppConfig
	Redis     RedisConfig
	RabbitMQ  RabbitMQConfig
	Scheduler SchedulerConfig
	Bulk      BulkConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	Timezone       string
	AllowedOrigins []string
}

// RedisConfig is optional; an empty Addr disables the calendar cache.
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	CalendarTTL time.Duration
}

// RabbitMQConfig is optional; an empty URL keeps notifications in-process.
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

type SchedulerConfig struct {
	NonWorkingDaySpec string
}

type BulkConfig struct {
	BatchSize       int
	MaxAttempts     int
	InitialInterval time.Duration
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	var err error
	config := &Config{}

	// Database configuration
	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "retail_hr"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}
	if config.Database.Port, err = getEnvInt("DB_PORT", 5432); err != nil {
		return nil, err
	}

	// Application configuration
	config.App = AppConfig{
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Timezone:       getEnv("APP_TIMEZONE", "Asia/Kolkata"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if config.App.Port, err = getEnvInt("APP_PORT", 8080); err != nil {
		return nil, err
	}

	// JWT configuration
	config.JWT = JWTConfig{Secret: getEnv("JWT_SECRET_KEY", "")}
	if config.JWT.AccessExpiration, err = getEnvDuration("JWT_ACCESS_EXPIRATION_TIME", time.Hour); err != nil {
		return nil, err
	}

	// Redis configuration
	config.Redis = RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
	}
	if config.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if config.Redis.CalendarTTL, err = getEnvDuration("REDIS_CALENDAR_TTL", 10*time.Minute); err != nil {
		return nil, err
	}

	config.RabbitMQ = RabbitMQConfig{
		URL:      getEnv("RABBITMQ_URL", ""),
		Exchange: getEnv("RABBITMQ_EXCHANGE", "hr.events"),
	}

	config.Scheduler = SchedulerConfig{
		NonWorkingDaySpec: getEnv("SCHEDULER_NON_WORKING_DAY_SPEC", "5 0 * * *"),
	}

	// Bulk non-working-day job
	if config.Bulk.BatchSize, err = getEnvInt("BULK_BATCH_SIZE", 100); err != nil {
		return nil, err
	}
	if config.Bulk.MaxAttempts, err = getEnvInt("BULK_MAX_ATTEMPTS", 3); err != nil {
		return nil, err
	}
	if config.Bulk.InitialInterval, err = getEnvDuration("BULK_RETRY_INTERVAL", 500*time.Millisecond); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	if c.Bulk.BatchSize <= 0 {
		return fmt.Errorf("BULK_BATCH_SIZE must be positive")
	}
	if c.Bulk.MaxAttempts <= 0 {
		return fmt.Errorf("BULK_MAX_ATTEMPTS must be positive")
	}
	return nil
}

// Location returns the business timezone.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SlogLevel maps LOG_LEVEL onto slog; unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.App.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
