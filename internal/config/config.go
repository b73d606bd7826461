package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Kafka    KafkaConfig
	QR       QRConfig
}

type ServerConfig struct {
	Host           string
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

type DatabaseConfig struct {
	URI string
}

type RedisConfig struct {
	URI     string
	Enabled bool
}

type JWTConfig struct {
	Secret string
}

type KafkaConfig struct {
	Brokers []string
	Topic   string
}

type QRConfig struct {
	BaseURL string
}

var (
	configInstance *Config
	once           sync.Once
)

// splitList parses a comma-separated env value like
// "broker-1:9092,broker-2:9092" into its entries.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

func LoadConfig() (*Config, error) {
	once.Do(func() {
		viper.SetDefault("DZIEKAN_HOST", "")
		viper.SetDefault("DZIEKAN_PORT", "8080")
		viper.SetDefault("DZIEKAN_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("DZIEKAN_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("DZIEKAN_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("DZIEKAN_JWT_SECRET", "secret")
		viper.SetDefault("POSTGRES_USER", "postgres")
		viper.SetDefault("POSTGRES_PASSWORD", "password")
		viper.SetDefault("POSTGRES_HOST", "localhost")
		viper.SetDefault("POSTGRES_PORT", "5432")
		viper.SetDefault("POSTGRES_DB", "postgres")
		viper.SetDefault("POSTGRES_SSLMODE", "disable")
		viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,https://localhost:3000,http://127.0.0.1:3000")
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("KAFKA_BROKERS", "")
		viper.SetDefault("KAFKA_TOPIC", "support-chat-messages")
		viper.SetDefault("QR_BASE_URL", "http://localhost:8080")
		viper.AutomaticEnv()

		dburi := viper.GetString("DATABASE_URL")
		if dburi == "" {
			dburi = fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
				viper.GetString("POSTGRES_USER"),
				viper.GetString("POSTGRES_PASSWORD"),
				viper.GetString("POSTGRES_HOST"),
				viper.GetString("POSTGRES_PORT"),
				viper.GetString("POSTGRES_DB"),
				viper.GetString("POSTGRES_SSLMODE"),
			)
		}

		redisURI := viper.GetString("REDIS_URL")

		configInstance = &Config{
			Server: ServerConfig{
				Host:           viper.GetString("DZIEKAN_HOST"),
				Port:           viper.GetString("DZIEKAN_PORT"),
				ReadTimeout:    viper.GetDuration("DZIEKAN_READ_TIMEOUT"),
				WriteTimeout:   viper.GetDuration("DZIEKAN_WRITE_TIMEOUT"),
				IdleTimeout:    viper.GetDuration("DZIEKAN_IDLE_TIMEOUT"),
				AllowedOrigins: splitList(viper.GetString("ALLOWED_ORIGINS")),
			},
			Database: DatabaseConfig{URI: dburi},
			Redis: RedisConfig{
				URI:     redisURI,
				Enabled: redisURI != "",
			},
			JWT: JWTConfig{
				Secret: viper.GetString("DZIEKAN_JWT_SECRET"),
			},
			Kafka: KafkaConfig{
				Brokers: splitList(viper.GetString("KAFKA_BROKERS")),
				Topic:   viper.GetString("KAFKA_TOPIC"),
			},
			QR: QRConfig{
				BaseURL: viper.GetString("QR_BASE_URL"),
			},
		}
	})

	return configInstance, nil
}
