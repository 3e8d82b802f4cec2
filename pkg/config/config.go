package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	API    APIConfig
	Log    LogConfig
	Notify NotifyConfig
	Stub   StubConfig
}

// APIConfig points the gateway at the course-management backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

// NotifyConfig sets how long transient feedback stays visible.
type NotifyConfig struct {
	SuccessTTL time.Duration
	ErrorTTL   time.Duration
}

// StubConfig governs the local in-memory API server.
type StubConfig struct {
	Port           int
	AllowedOrigins []string
	Seed           bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.API = APIConfig{
		BaseURL: strings.TrimRight(v.GetString("API_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("API_TIMEOUT"), 10*time.Second),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Notify = NotifyConfig{
		SuccessTTL: parseDuration(v.GetString("NOTIFY_SUCCESS_TTL"), 3*time.Second),
		ErrorTTL:   parseDuration(v.GetString("NOTIFY_ERROR_TTL"), 5*time.Second),
	}

	cfg.Stub = StubConfig{
		Port:           v.GetInt("STUB_PORT"),
		AllowedOrigins: splitAndTrim(v.GetString("STUB_ALLOWED_ORIGINS")),
		Seed:           v.GetBool("STUB_SEED"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("API_BASE_URL", "http://localhost:8080/api")
	v.SetDefault("API_TIMEOUT", "10s")

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("NOTIFY_SUCCESS_TTL", "3s")
	v.SetDefault("NOTIFY_ERROR_TTL", "5s")

	v.SetDefault("STUB_PORT", 8080)
	v.SetDefault("STUB_ALLOWED_ORIGINS", "")
	v.SetDefault("STUB_SEED", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
