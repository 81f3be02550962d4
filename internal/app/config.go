package app

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/goalflow-backend/internal/data/db"
	"github.com/yungbote/goalflow-backend/internal/platform/envutil"
	"github.com/yungbote/goalflow-backend/internal/week"
)

// Config is read once at startup. Precedence, lowest first: defaults, the
// YAML file named by GOALFLOW_CONFIG, then environment variables (a .env
// file in the working directory is loaded into the environment first).
type Config struct {
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	StoreMode        string `yaml:"store_mode"`
	SQLitePath       string `yaml:"sqlite_path"`
	PostgresHost     string `yaml:"postgres_host"`
	PostgresPort     string `yaml:"postgres_port"`
	PostgresUser     string `yaml:"postgres_user"`
	PostgresPassword string `yaml:"postgres_password"`
	PostgresName     string `yaml:"postgres_name"`
	PostgresSSLMode  string `yaml:"postgres_sslmode"`

	JWTSecretKey string        `yaml:"jwt_secret_key"`
	DevUserID    string        `yaml:"dev_user_id"`
	TokenTTL     time.Duration `yaml:"token_ttl"`

	AppTimezone           string   `yaml:"app_timezone"`
	RecentRecordsPageSize int      `yaml:"recent_records_page_size"`
	CORSOrigins           []string `yaml:"cors_origins"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisChannel  string `yaml:"redis_channel"`

	OtelEnabled     bool    `yaml:"otel_enabled"`
	OtelServiceName string  `yaml:"otel_service_name"`
	OtelEndpoint    string  `yaml:"otel_endpoint"`
	OtelHeaders     string  `yaml:"otel_headers"`
	OtelInsecure    bool    `yaml:"otel_insecure"`
	OtelSampleRatio float64 `yaml:"otel_sample_ratio"`
	Environment     string  `yaml:"environment"`
	MetricsEnabled  bool    `yaml:"metrics_enabled"`
}

func defaultConfig() Config {
	return Config{
		Port:                  "8080",
		LogMode:               "development",
		StoreMode:             string(db.StoreOffline),
		PostgresPort:          "5432",
		PostgresSSLMode:       "disable",
		TokenTTL:              24 * time.Hour,
		AppTimezone:           week.DefaultZone,
		RecentRecordsPageSize: 5,
		OtelServiceName:       "goalflow",
		OtelSampleRatio:       0.1,
		Environment:           "development",
		MetricsEnabled:        true,
	}
}

func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	cfg := defaultConfig()
	if path := strings.TrimSpace(os.Getenv("GOALFLOW_CONFIG")); path != "" {
		if err := cfg.mergeYAML(path); err != nil {
			return Config{}, err
		}
	}
	cfg.mergeEnv()
	return cfg, cfg.Validate()
}

func (c *Config) mergeYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv() {
	c.Port = envutil.String("PORT", c.Port)
	c.LogMode = envutil.String("LOG_MODE", c.LogMode)

	c.StoreMode = envutil.String("STORE_MODE", c.StoreMode)
	c.SQLitePath = envutil.String("SQLITE_PATH", c.SQLitePath)
	c.PostgresHost = envutil.String("POSTGRES_HOST", c.PostgresHost)
	c.PostgresPort = envutil.String("POSTGRES_PORT", c.PostgresPort)
	c.PostgresUser = envutil.String("POSTGRES_USER", c.PostgresUser)
	c.PostgresPassword = envutil.String("POSTGRES_PASSWORD", c.PostgresPassword)
	c.PostgresName = envutil.String("POSTGRES_NAME", c.PostgresName)
	c.PostgresSSLMode = envutil.String("POSTGRES_SSLMODE", c.PostgresSSLMode)

	c.JWTSecretKey = envutil.String("JWT_SECRET_KEY", c.JWTSecretKey)
	c.DevUserID = envutil.String("DEV_USER_ID", c.DevUserID)
	c.TokenTTL = envutil.Duration("TOKEN_TTL", c.TokenTTL)

	c.AppTimezone = envutil.String("APP_TIMEZONE", c.AppTimezone)
	c.RecentRecordsPageSize = envutil.Int("RECENT_RECORDS_PAGE_SIZE", c.RecentRecordsPageSize)
	c.CORSOrigins = envutil.List("CORS_ORIGINS", c.CORSOrigins)

	c.RedisAddr = envutil.String("REDIS_ADDR", c.RedisAddr)
	c.RedisPassword = envutil.String("REDIS_PASSWORD", c.RedisPassword)
	c.RedisDB = envutil.Int("REDIS_DB", c.RedisDB)
	c.RedisChannel = envutil.String("REDIS_CHANNEL", c.RedisChannel)

	c.OtelEnabled = envutil.Bool("OTEL_ENABLED", c.OtelEnabled)
	c.OtelServiceName = envutil.String("OTEL_SERVICE_NAME", c.OtelServiceName)
	c.OtelEndpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", c.OtelEndpoint)
	c.OtelHeaders = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", c.OtelHeaders)
	c.OtelInsecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", c.OtelInsecure)
	c.OtelSampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", c.OtelSampleRatio)
	c.Environment = envutil.String("APP_ENV", c.Environment)
	c.MetricsEnabled = envutil.Bool("METRICS_ENABLED", c.MetricsEnabled)
}

func (c Config) Validate() error {
	mode, err := db.ParseStoreMode(c.StoreMode)
	if err != nil {
		return err
	}
	if mode == db.StoreConnected {
		if c.PostgresHost == "" || c.PostgresUser == "" || c.PostgresName == "" {
			return fmt.Errorf("connected mode needs POSTGRES_HOST, POSTGRES_USER and POSTGRES_NAME")
		}
		if c.JWTSecretKey == "" {
			return fmt.Errorf("connected mode needs JWT_SECRET_KEY")
		}
	}
	if _, err := c.devUser(); err != nil {
		return err
	}
	return nil
}

// devUser is only honoured in offline mode.
func (c Config) devUser() (uuid.UUID, error) {
	raw := strings.TrimSpace(c.DevUserID)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("DEV_USER_ID: %w", err)
	}
	if mode, _ := db.ParseStoreMode(c.StoreMode); mode != db.StoreOffline {
		return uuid.Nil, nil
	}
	return id, nil
}

func (c Config) StoreOptions() db.Options {
	mode, _ := db.ParseStoreMode(c.StoreMode)
	return db.Options{
		Mode:             mode,
		SQLitePath:       c.SQLitePath,
		PostgresHost:     c.PostgresHost,
		PostgresPort:     c.PostgresPort,
		PostgresUser:     c.PostgresUser,
		PostgresPassword: c.PostgresPassword,
		PostgresName:     c.PostgresName,
		PostgresSSLMode:  c.PostgresSSLMode,
	}
}
