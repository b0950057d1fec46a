package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr           string        `yaml:"addr"`
	DatabaseURL    string        `yaml:"databaseUrl"`
	JWTSecret      string        `yaml:"jwtSecret"`
	Environment    string        `yaml:"environment"`
	LogLevel       string        `yaml:"logLevel"`
	RunMigrations  bool          `yaml:"runMigrations"`
	MaxBodyBytes   int64         `yaml:"maxBodyBytes"`
	MetricsEnabled bool          `yaml:"metricsEnabled"`
	RateLimit      int           `yaml:"rateLimitPerMinute"`
	DBMaxConns     int           `yaml:"dbMaxConns"`
	DBMinConns     int           `yaml:"dbMinConns"`
	ReadTimeout    time.Duration `yaml:"readTimeout"`
	WriteTimeout   time.Duration `yaml:"writeTimeout"`
}

func Default() Config {
	return Config{
		Addr:           ":8080",
		Environment:    "development",
		LogLevel:       "info",
		RunMigrations:  true,
		MaxBodyBytes:   1048576,
		MetricsEnabled: true,
		RateLimit:      600,
		DBMaxConns:     10,
		DBMinConns:     2,
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   30 * time.Second,
	}
}

// Load reads the configuration from the environment. When APP_CONFIG_FILE is
// set the file is applied first and environment variables override it.
func Load() (Config, error) {
	return LoadWithFile(os.Getenv("APP_CONFIG_FILE"))
}

func LoadWithFile(path string) (Config, error) {
	base := Default()
	if path != "" {
		fromFile, err := LoadFromFile(path)
		if err != nil {
			return Config{}, err
		}
		base = fromFile
	}
	return fromEnv(base), nil
}

// LoadFromFile overlays a YAML file on the defaults.
func LoadFromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

func fromEnv(base Config) Config {
	return Config{
		Addr:           getEnv("APP_ADDR", base.Addr),
		DatabaseURL:    getEnv("DATABASE_URL", base.DatabaseURL),
		JWTSecret:      getEnv("JWT_SECRET", base.JWTSecret),
		Environment:    getEnv("APP_ENV", base.Environment),
		LogLevel:       getEnv("LOG_LEVEL", base.LogLevel),
		RunMigrations:  getEnvBool("RUN_MIGRATIONS", base.RunMigrations),
		MaxBodyBytes:   int64(getEnvInt("MAX_BODY_BYTES", int(base.MaxBodyBytes))),
		MetricsEnabled: getEnvBool("METRICS_ENABLED", base.MetricsEnabled),
		RateLimit:      getEnvInt("RATE_LIMIT_PER_MINUTE", base.RateLimit),
		DBMaxConns:     getEnvInt("DB_MAX_CONNS", base.DBMaxConns),
		DBMinConns:     getEnvInt("DB_MIN_CONNS", base.DBMinConns),
		ReadTimeout:    getEnvDuration("READ_TIMEOUT", base.ReadTimeout),
		WriteTimeout:   getEnvDuration("WRITE_TIMEOUT", base.WriteTimeout),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.IsProduction() && strings.TrimSpace(c.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative")
	}
	if c.DBMaxConns <= 0 {
		return fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS must be between 0 and DB_MAX_CONNS")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error")
	}
	return nil
}
