package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	WhatsApp WhatsAppConfig `yaml:"whatsapp"`
	N8N      N8NConfig      `yaml:"n8n"`
	Importer ImporterConfig `yaml:"importer"`
	Quota    QuotaConfig    `yaml:"quota"`
	Audience AudienceConfig `yaml:"audience"`
	Rescore  RescoreConfig  `yaml:"rescore"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig holds the Postgres connection settings.
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
}

// RedisConfig holds the Redis connection settings.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// WhatsAppConfig holds the bridge API settings.
type WhatsAppConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// N8NConfig holds the workflow webhook settings.
type N8NConfig struct {
	WebhookURL     string `yaml:"webhook_url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// ImporterConfig holds S3 contact import settings.
type ImporterConfig struct {
	Enabled    bool   `yaml:"enabled"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Region   string `yaml:"s3_region"`
	S3Prefix   string `yaml:"s3_prefix"`
	AWSProfile string `yaml:"aws_profile"`
}

// QuotaConfig holds the daily outbound send limit. Zero disables enforcement.
type QuotaConfig struct {
	DailySendLimit int `yaml:"daily_send_limit"`
}

// AudienceConfig holds audience pipeline toggles.
type AudienceConfig struct {
	// EnforceOptIn gates campaign audiences on the contact opt-in flag.
	EnforceOptIn bool `yaml:"enforce_opt_in"`
}

// RescoreConfig holds batch scoring settings.
type RescoreConfig struct {
	Workers int `yaml:"workers"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.WhatsApp.TimeoutSeconds == 0 {
		cfg.WhatsApp.TimeoutSeconds = 15
	}
	if cfg.N8N.TimeoutSeconds == 0 {
		cfg.N8N.TimeoutSeconds = 10
	}
	if cfg.Importer.S3Region == "" {
		cfg.Importer.S3Region = "ap-southeast-1"
	}
	if cfg.Rescore.Workers == 0 {
		cfg.Rescore.Workers = 8
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("WHATSAPP_BASE_URL"); v != "" {
		cfg.WhatsApp.BaseURL = v
	}
	if v := os.Getenv("WHATSAPP_API_KEY"); v != "" {
		cfg.WhatsApp.APIKey = v
	}
	if v := os.Getenv("N8N_WEBHOOK_URL"); v != "" {
		cfg.N8N.WebhookURL = v
	}
	if v := os.Getenv("IMPORTER_S3_BUCKET"); v != "" {
		cfg.Importer.S3Bucket = v
	}
	if v := os.Getenv("IMPORTER_S3_REGION"); v != "" {
		cfg.Importer.S3Region = v
	}
	if v := os.Getenv("DAILY_SEND_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Quota.DailySendLimit = n
		}
	}
	if v := os.Getenv("ENFORCE_OPT_IN"); v != "" {
		cfg.Audience.EnforceOptIn = v == "true" || v == "1"
	}

	return cfg, nil
}
