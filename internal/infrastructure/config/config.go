package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Batch status store backends.
const (
	StoreMemory   = "memory"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

type DatabaseConfig struct {
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MigrationsPath string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	SASLMechanism string
	SASLUsername  string
	SASLPassword  string
	TLS           bool
}

// Enabled reports whether a broker list was configured.
func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type GRPCConfig struct {
	Reflection  bool
	TLSCertFile string
	TLSKeyFile  string
}

type Config struct {
	GRPCPort       int
	HTTPPort       int
	ServiceName    string
	LogLevel       string
	LogFormat      string
	WorkerPoolSize int
	RateLimitRPS   int
	StatusStore    string
	StatusTTL      time.Duration
	OTLPEndpoint   string
	DB             DatabaseConfig
	Redis          RedisConfig
	Kafka          KafkaConfig
	GRPC           GRPCConfig
}

func Load() Config {
	return Config{
		GRPCPort:       getEnvInt("GRPC_PORT", 9090),
		HTTPPort:       getEnvInt("HTTP_PORT", 8080),
		ServiceName:    getEnv("SERVICE_NAME", "credit-simulator"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		WorkerPoolSize: getEnvInt("WORKER_POOL_SIZE", runtime.NumCPU()),
		RateLimitRPS:   getEnvInt("RATE_LIMIT_RPS", 0),
		StatusStore:    strings.ToLower(getEnv("BATCH_STATUS_STORE", StoreMemory)),
		StatusTTL:      getEnvDuration("BATCH_STATUS_TTL", 24*time.Hour),
		OTLPEndpoint:   getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		DB: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnvInt("DB_PORT", 5432),
			User:           getEnv("DB_USER", "simulator"),
			Password:       getEnv("DB_PASSWORD", ""),
			Name:           getEnv("DB_NAME", "credit_simulator"),
			SSLMode:        getEnv("DB_SSLMODE", "require"),
			MigrationsPath: getEnv("MIGRATIONS_PATH", "file://internal/infrastructure/persistence/postgres/migrations"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:       getEnvList("KAFKA_BROKERS"),
			Topic:         getEnv("KAFKA_TOPIC", "credit-simulator.batches"),
			SASLMechanism: getEnv("KAFKA_SASL_MECHANISM", ""),
			SASLUsername:  getEnv("KAFKA_SASL_USERNAME", ""),
			SASLPassword:  getEnv("KAFKA_SASL_PASSWORD", ""),
			TLS:           getEnvBool("KAFKA_TLS", false),
		},
		GRPC: GRPCConfig{
			Reflection:  getEnvBool("GRPC_REFLECTION", false),
			TLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
			TLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		},
	}
}

// Validate rejects combinations the process cannot start with.
func (c Config) Validate() error {
	switch c.StatusStore {
	case StoreMemory, StoreRedis:
	case StorePostgres:
		if c.DB.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required when BATCH_STATUS_STORE=%s", StorePostgres)
		}
	default:
		return fmt.Errorf("unknown BATCH_STATUS_STORE %q", c.StatusStore)
	}
	if c.WorkerPoolSize <= 0 {
		return fmt.Errorf("WORKER_POOL_SIZE must be positive, got %d", c.WorkerPoolSize)
	}
	if c.StatusTTL <= 0 {
		return fmt.Errorf("BATCH_STATUS_TTL must be positive, got %s", c.StatusTTL)
	}
	if (c.GRPC.TLSCertFile == "") != (c.GRPC.TLSKeyFile == "") {
		return fmt.Errorf("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together")
	}
	return nil
}

func (c Config) GRPCAddr() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// getEnvList splits a comma-separated value, dropping blanks.
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
