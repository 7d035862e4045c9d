package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Notify    NotifyConfig
	Companies CompaniesConfig
	Log       LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings for the batch archive.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// NotifyConfig holds review notification settings.
type NotifyConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	ToAddress   string `mapstructure:"to_address"`
}

// CompaniesConfig holds the group company registry settings.
type CompaniesConfig struct {
	File string `mapstructure:"file"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the CONCIL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CONCIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "concil")
	v.SetDefault("db.password", "concil_secret")
	v.SetDefault("db.name", "concil_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "sa-east-1")
	v.SetDefault("s3.bucket", "concil-batches")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "sa-east-1")
	v.SetDefault("notify.from_address", "noreply@concil.local")
	v.SetDefault("notify.from_name", "Conciliação")
	v.SetDefault("notify.to_address", "")

	// Companies defaults
	v.SetDefault("companies.file", "")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "CONCIL_SERVER_PORT",
		"server.read_timeout":  "CONCIL_SERVER_READ_TIMEOUT",
		"server.write_timeout": "CONCIL_SERVER_WRITE_TIMEOUT",
		"server.environment":   "CONCIL_SERVER_ENVIRONMENT",
		"db.host":              "CONCIL_DB_HOST",
		"db.port":              "CONCIL_DB_PORT",
		"db.user":              "CONCIL_DB_USER",
		"db.password":          "CONCIL_DB_PASSWORD",
		"db.name":              "CONCIL_DB_NAME",
		"db.sslmode":           "CONCIL_DB_SSLMODE",
		"db.max_open":          "CONCIL_DB_MAX_OPEN",
		"db.max_idle":          "CONCIL_DB_MAX_IDLE",
		"s3.region":            "CONCIL_S3_REGION",
		"s3.bucket":            "CONCIL_S3_BUCKET",
		"s3.endpoint":          "CONCIL_S3_ENDPOINT",
		"s3.access_key":        "CONCIL_S3_ACCESS_KEY",
		"s3.secret_key":        "CONCIL_S3_SECRET_KEY",
		"s3.presign_expiry":    "CONCIL_S3_PRESIGN_EXPIRY",
		"notify.provider":      "CONCIL_NOTIFY_PROVIDER",
		"notify.region":        "CONCIL_NOTIFY_REGION",
		"notify.from_address":  "CONCIL_NOTIFY_FROM_ADDRESS",
		"notify.from_name":     "CONCIL_NOTIFY_FROM_NAME",
		"notify.to_address":    "CONCIL_NOTIFY_TO_ADDRESS",
		"companies.file":       "CONCIL_COMPANIES_FILE",
		"log.level":            "CONCIL_LOG_LEVEL",
		"log.format":           "CONCIL_LOG_FORMAT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CONCIL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CONCIL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Notify = NotifyConfig{
		Provider:    v.GetString("notify.provider"),
		Region:      v.GetString("notify.region"),
		FromAddress: v.GetString("notify.from_address"),
		FromName:    v.GetString("notify.from_name"),
		ToAddress:   v.GetString("notify.to_address"),
	}
	cfg.Companies = CompaniesConfig{
		File: v.GetString("companies.file"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	return cfg, nil
}
