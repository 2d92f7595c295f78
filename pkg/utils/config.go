package utils

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Booking   BookingConfig
	Directory DirectoryConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Tracing   TracingConfig
	RateLimit RateLimitConfig
	CORS      CORSConfig
}

type AppConfig struct {
	Name            string
	Port            string
	Debug           bool
	LogLevel        string
	LogPath         string
	Timezone        string
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string
	MaxConns int32
}

type BookingConfig struct {
	SlotGranularityMinutes int
	StoreTimeout           time.Duration
}

type DirectoryConfig struct {
	BaseURL  string
	Timeout  time.Duration
	CacheTTL time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers   []string
	PollEvery time.Duration
	BatchSize int
}

type TracingConfig struct {
	Enabled      bool
	OTLPEndpoint string
	SampleRatio  float64
}

type RateLimitConfig struct {
	RPS   float64
	Burst int
	// TrustedProxies lists peers whose X-Forwarded-For is believed. Empty keys on the peer address.
	TrustedProxies []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Location resolves the zone booking dates and times are interpreted in.
func (c AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func LoadConfig() (*Config, error) {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")

	viper.SetDefault("APP_NAME", "barbershop-booking")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DEBUG", false)
	viper.SetDefault("LOG_PATH", "logs/")
	viper.SetDefault("APP_TIMEZONE", "")
	viper.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_MAX_CONNS", 10)

	viper.SetDefault("SLOT_GRANULARITY_MINUTES", 15)
	viper.SetDefault("STORE_TIMEOUT", "5s")

	viper.SetDefault("DIRECTORY_BASE_URL", "http://localhost:8081")
	viper.SetDefault("DIRECTORY_TIMEOUT", "3s")
	viper.SetDefault("DIRECTORY_CACHE_TTL", "10m")

	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("KAFKA_POLL_INTERVAL", "2s")
	viper.SetDefault("KAFKA_BATCH_SIZE", 50)

	viper.SetDefault("OTEL_ENABLED", false)
	viper.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")
	viper.SetDefault("OTEL_SAMPLING_RATIO", 1.0)

	viper.SetDefault("RATE_LIMIT_RPS", 20)
	viper.SetDefault("RATE_LIMIT_BURST", 40)

	// .env is optional; the environment alone is enough in containers.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	viper.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:            viper.GetString("APP_NAME"),
			Port:            viper.GetString("PORT"),
			Debug:           viper.GetBool("DEBUG"),
			LogLevel:        viper.GetString("LOG_LEVEL"),
			LogPath:         viper.GetString("LOG_PATH"),
			Timezone:        viper.GetString("APP_TIMEZONE"),
			ShutdownTimeout: viper.GetDuration("SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			Name:     viper.GetString("DB_NAME"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASS"),
			SSLMode:  viper.GetString("DB_SSLMODE"),
			MaxConns: viper.GetInt32("DB_MAX_CONNS"),
		},
		Booking: BookingConfig{
			SlotGranularityMinutes: viper.GetInt("SLOT_GRANULARITY_MINUTES"),
			StoreTimeout:           viper.GetDuration("STORE_TIMEOUT"),
		},
		Directory: DirectoryConfig{
			BaseURL:  viper.GetString("DIRECTORY_BASE_URL"),
			Timeout:  viper.GetDuration("DIRECTORY_TIMEOUT"),
			CacheTTL: viper.GetDuration("DIRECTORY_CACHE_TTL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Brokers:   splitList(viper.GetString("KAFKA_BROKERS")),
			PollEvery: viper.GetDuration("KAFKA_POLL_INTERVAL"),
			BatchSize: viper.GetInt("KAFKA_BATCH_SIZE"),
		},
		Tracing: TracingConfig{
			Enabled:      viper.GetBool("OTEL_ENABLED"),
			OTLPEndpoint: viper.GetString("OTEL_EXPORTER_OTLP_ENDPOINT"),
			SampleRatio:  viper.GetFloat64("OTEL_SAMPLING_RATIO"),
		},
		RateLimit: RateLimitConfig{
			RPS:            viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:          viper.GetInt("RATE_LIMIT_BURST"),
			TrustedProxies: splitList(viper.GetString("RATE_LIMIT_TRUSTED_PROXIES")),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if config.Booking.SlotGranularityMinutes <= 0 {
		return nil, fmt.Errorf("SLOT_GRANULARITY_MINUTES must be positive, got %d", config.Booking.SlotGranularityMinutes)
	}

	return config, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
