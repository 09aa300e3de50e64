package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

// Supported values for DBDriver and SessionStore.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SessionStoreCookie = "cookie"
	SessionStoreRedis  = "redis"
)

type Config struct {
	DBDriver      string `yaml:"db_driver"`
	DBHost        string `yaml:"db_host"`
	DBPort        string `yaml:"db_port"`
	DBUser        string `yaml:"db_user"`
	DBPassword    string `yaml:"db_password"`
	DBName        string `yaml:"db_name"`
	DBPath        string `yaml:"db_path"`
	SessionStore  string `yaml:"session_store"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`
	SessionSecret string `yaml:"session_secret"`
	GinMode       string `yaml:"gin_mode"`
	HTTPAddr      string `yaml:"http_addr"`
	LogLevel      string `yaml:"log_level"`
	SweepSchedule string `yaml:"sweep_schedule"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present, and a YAML file named by path (or by
// CONFIG_FILE when path is empty) overrides the environment.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBDriver:      getEnv("DB_DRIVER", DriverMySQL),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "3306"),
		DBUser:        getEnv("DB_USER", "trackeruser"),
		DBPassword:    getEnv("DB_PASSWORD", "trackerpassword"),
		DBName:        getEnv("DB_NAME", "issue_tracker"),
		DBPath:        getEnv("DB_PATH", "tracker.db"),
		SessionStore:  getEnv("SESSION_STORE", SessionStoreCookie),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SweepSchedule: getEnv("SWEEP_SCHEDULE", ""),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
	}

	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := cfg.overlay(data); err != nil {
			return nil, err
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// overlay applies non-empty YAML values on top of the current configuration.
func (c *Config) overlay(data []byte) error {
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("config: parse: %w", err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&c.DBDriver, file.DBDriver)
	set(&c.DBHost, file.DBHost)
	set(&c.DBPort, file.DBPort)
	set(&c.DBUser, file.DBUser)
	set(&c.DBPassword, file.DBPassword)
	set(&c.DBName, file.DBName)
	set(&c.DBPath, file.DBPath)
	set(&c.SessionStore, file.SessionStore)
	set(&c.RedisHost, file.RedisHost)
	set(&c.RedisPort, file.RedisPort)
	set(&c.SessionSecret, file.SessionSecret)
	set(&c.GinMode, file.GinMode)
	set(&c.HTTPAddr, file.HTTPAddr)
	set(&c.LogLevel, file.LogLevel)
	set(&c.SweepSchedule, file.SweepSchedule)
	set(&c.OpenAIAPIKey, file.OpenAIAPIKey)
	return nil
}

func (c *Config) validate() error {
	var errs []string
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Sprintf("unsupported db_driver %q", c.DBDriver))
	}
	switch c.SessionStore {
	case SessionStoreCookie, SessionStoreRedis:
	default:
		errs = append(errs, fmt.Sprintf("unsupported session_store %q", c.SessionStore))
	}
	if c.SweepSchedule != "" {
		if _, err := cron.ParseStandard(c.SweepSchedule); err != nil {
			errs = append(errs, fmt.Sprintf("invalid sweep_schedule %q: %v", c.SweepSchedule, err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// IsProduction reports whether gin runs in release mode.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
