package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Backend  BackendConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Observ   ObservabilityConfig
	Session  SessionConfig
	Realtime RealtimeConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

// BackendConfig points the console at the marketplace REST API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	TopicOrders   string
	ConsumerGroup string
}

type ObservabilityConfig struct {
	JaegerEndpoint string
}

type SessionConfig struct {
	TTL time.Duration
}

// RealtimeConfig makes the notifier's reconnect policy explicit instead of
// inheriting transport defaults.
type RealtimeConfig struct {
	BackoffMin time.Duration
	BackoffMax time.Duration
	MaxRetries int
}

func Load() *Config {
	_ = godotenv.Load()

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	backendTimeout, _ := strconv.Atoi(getEnv("BACKEND_TIMEOUT_SECONDS", "15"))
	sessionTTL, _ := strconv.Atoi(getEnv("SESSION_TTL_MINUTES", "720"))
	backoffMin, _ := strconv.Atoi(getEnv("REALTIME_BACKOFF_MIN_MS", "500"))
	backoffMax, _ := strconv.Atoi(getEnv("REALTIME_BACKOFF_MAX_MS", "30000"))
	maxRetries, _ := strconv.Atoi(getEnv("REALTIME_MAX_RETRIES", "0"))

	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Env:  getEnv("ENV", "development"),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", "http://127.0.0.1:9090"),
			Timeout: time.Duration(backendTimeout) * time.Second,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicOrders:   getEnv("KAFKA_TOPIC_STORE_ORDERS", "store-order-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "seller-console-group"),
		},
		Observ: ObservabilityConfig{
			JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
		},
		Session: SessionConfig{
			TTL: time.Duration(sessionTTL) * time.Minute,
		},
		Realtime: RealtimeConfig{
			BackoffMin: time.Duration(backoffMin) * time.Millisecond,
			BackoffMax: time.Duration(backoffMax) * time.Millisecond,
			MaxRetries: maxRetries, // 0 means retry forever
		},
	}

	log.Printf("Config loaded: env=%s, port=%s, backend=%s", cfg.Server.Env, cfg.Server.Port, cfg.Backend.BaseURL)
	return cfg
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
