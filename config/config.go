package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultJWTSecret is used when JWT_SECRET is unset. Startup logs a warning
// when it is in effect.
const DefaultJWTSecret = "fallback_secret"

type Config struct {
	Env            string
	LogLevel       string
	ServerPort     int
	BasePath       string
	JWTSecret      string
	MigrationsPath string
	Database       DatabaseConfig
	MQ             MQConfig
	Storage        StorageConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	UseSSL   bool
}

// MQConfig selects and configures the event bus. An empty Backend disables
// event publishing.
type MQConfig struct {
	Backend  string
	Channel  string
	RabbitMQ RabbitMQConfig
	PubSub   PubSubConfig
	Kafka    KafkaConfig
}

type RabbitMQConfig struct {
	URL             string
	QueueDurable    bool
	QueueAutoDelete bool
	PrefetchCount   int
}

type PubSubConfig struct {
	ProjectID          string
	CredentialsFile    string
	SubscriptionSuffix string
}

type KafkaConfig struct {
	Brokers []string
	GroupID string
}

// StorageConfig selects and configures the object store used for reports.
type StorageConfig struct {
	Backend string
	Minio   MinioConfig
	GCS     GCSConfig
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type GCSConfig struct {
	Bucket          string
	ProjectID       string
	CredentialsFile string
}

func LoadConfig() Config {
	v := viper.New()
	v.AutomaticEnv()
	if strings.EqualFold(v.GetString("ENV"), "dev") {
		_ = godotenv.Load()
	}

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_PORT", 3000)
	v.SetDefault("API_BASE_PATH", "/api")
	v.SetDefault("MIGRATIONS_PATH", "internal/db/migrations")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "shop")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "shop_db")
	v.SetDefault("DB_USE_SSL", false)

	v.SetDefault("MQ_CHANNEL", "shop-events")
	v.SetDefault("RABBITMQ_QUEUE_DURABLE", true)
	v.SetDefault("RABBITMQ_QUEUE_AUTO_DELETE", false)
	v.SetDefault("RABBITMQ_PREFETCH_COUNT", 10)
	v.SetDefault("PUBSUB_SUBSCRIPTION_SUFFIX", "-sub")
	v.SetDefault("KAFKA_GROUP_ID", "shop-events-tail")

	dbConfig := DatabaseConfig{
		Host:     v.GetString("DB_HOST"),
		Port:     v.GetInt("DB_PORT"),
		User:     v.GetString("DB_USER"),
		Password: v.GetString("DB_PASSWORD"),
		DBName:   v.GetString("DB_NAME"),
		UseSSL:   v.GetBool("DB_USE_SSL"),
	}

	mqConfig := MQConfig{
		Backend: strings.ToLower(strings.TrimSpace(v.GetString("MQ_BACKEND"))),
		Channel: v.GetString("MQ_CHANNEL"),
		RabbitMQ: RabbitMQConfig{
			URL:             v.GetString("RABBITMQ_URL"),
			QueueDurable:    v.GetBool("RABBITMQ_QUEUE_DURABLE"),
			QueueAutoDelete: v.GetBool("RABBITMQ_QUEUE_AUTO_DELETE"),
			PrefetchCount:   v.GetInt("RABBITMQ_PREFETCH_COUNT"),
		},
		PubSub: PubSubConfig{
			ProjectID:          v.GetString("PUBSUB_PROJECT_ID"),
			CredentialsFile:    v.GetString("PUBSUB_CREDENTIALS_FILE"),
			SubscriptionSuffix: v.GetString("PUBSUB_SUBSCRIPTION_SUFFIX"),
		},
		Kafka: KafkaConfig{
			Brokers: splitCSV(v.GetString("KAFKA_BROKERS")),
			GroupID: v.GetString("KAFKA_GROUP_ID"),
		},
	}

	storageConfig := StorageConfig{
		Backend: strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_BACKEND"))),
		Minio: MinioConfig{
			Endpoint:  v.GetString("MINIO_ENDPOINT"),
			AccessKey: v.GetString("MINIO_ACCESS_KEY"),
			SecretKey: v.GetString("MINIO_SECRET_KEY"),
			Bucket:    v.GetString("MINIO_BUCKET"),
			UseSSL:    v.GetBool("MINIO_USE_SSL"),
		},
		GCS: GCSConfig{
			Bucket:          v.GetString("GCS_BUCKET"),
			ProjectID:       v.GetString("GCS_PROJECT_ID"),
			CredentialsFile: v.GetString("GCS_CREDENTIALS_FILE"),
		},
	}

	return Config{
		Env:            v.GetString("ENV"),
		LogLevel:       v.GetString("LOG_LEVEL"),
		ServerPort:     v.GetInt("SERVER_PORT"),
		BasePath:       normalizeBasePath(v.GetString("API_BASE_PATH")),
		JWTSecret:      strings.TrimSpace(v.GetString("JWT_SECRET")),
		MigrationsPath: v.GetString("MIGRATIONS_PATH"),
		Database:       dbConfig,
		MQ:             mqConfig,
		Storage:        storageConfig,
	}
}

// SigningSecret returns the configured JWT secret and whether the fallback
// default had to be used.
func (c Config) SigningSecret() (string, bool) {
	if c.JWTSecret == "" {
		return DefaultJWTSecret, true
	}
	return c.JWTSecret, false
}

func splitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func normalizeBasePath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "/" {
		return ""
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return strings.TrimRight(raw, "/")
}
