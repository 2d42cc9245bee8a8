package common

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/live-orders/constants"
)

// Config holds all application configuration
type Config struct {
	Engine   EngineConfig
	Database DatabaseConfig
	Stock    StockConfig
	Kafka    KafkaConfig
	Server   ServerConfig
}

// EngineConfig holds order construction tuning
type EngineConfig struct {
	PriceMatchThreshold   float64
	PriceContextRadius    int
	CatalogMatchThreshold float64
	CatalogCacheSize      int
	DefaultRegion         string
	DefaultCurrency       string
	ServiceType           string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// StockConfig holds the stock service client configuration
type StockConfig struct {
	URL     string
	Timeout time.Duration
}

// KafkaConfig holds topics for the order worker
type KafkaConfig struct {
	Brokers     []string
	InputTopic  string
	OutputTopic string
	GroupID     string
	Workers     int
}

// ServerConfig holds listener addresses
type ServerConfig struct {
	GRPCAddr    string
	MetricsAddr string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			PriceMatchThreshold:   getEnvAsFloat64("PRICE_MATCH_THRESHOLD", 60),
			PriceContextRadius:    getEnvAsInt("PRICE_CONTEXT_RADIUS", 30),
			CatalogMatchThreshold: getEnvAsFloat64("CATALOG_MATCH_THRESHOLD", 70),
			CatalogCacheSize:      getEnvAsInt("CATALOG_CACHE_SIZE", 100),
			DefaultRegion:         getEnv("DEFAULT_REGION", constants.DefaultRegion),
			DefaultCurrency:       getEnv("DEFAULT_CURRENCY", constants.DefaultCurrency),
			ServiceType:           getEnv("ORDER_SERVICE_TYPE", "default"),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DB_URL", ""),
			MaxConns:        getEnvAsInt32("DB_MAX_CONNS", 10),
			MinConns:        getEnvAsInt32("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 30*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 5*time.Minute),
			DialTimeout:     getEnvAsDuration("DB_DIAL_TIMEOUT", 3*time.Second),
		},
		Stock: StockConfig{
			URL:     getEnv("STOCK_SERVICE_URL", ""),
			Timeout: getEnvAsDuration("STOCK_SERVICE_TIMEOUT", 5*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:     getEnvAsList("KAFKA_BROKERS", []string{"localhost:9092"}),
			InputTopic:  getEnv("KAFKA_INPUT_TOPIC", "nlp.extractions"),
			OutputTopic: getEnv("KAFKA_OUTPUT_TOPIC", "orders.structured"),
			GroupID:     getEnv("KAFKA_GROUP_ID", "order-builder"),
			Workers:     getEnvAsInt("ORDER_WORKERS", 4),
		},
		Server: ServerConfig{
			GRPCAddr:    getEnv("GRPC_ADDR", ":8080"),
			MetricsAddr: getEnv("METRICS_ADDR", ":9090"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsInt32(key string, defaultValue int32) int32 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 32); err == nil {
			return int32(intVal)
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// Validate checks the engine settings every binary depends on.
func (c *Config) Validate() error {
	v := NewValidator().
		Field("DEFAULT_REGION", c.Engine.DefaultRegion, Required).
		Field("DEFAULT_CURRENCY", c.Engine.DefaultCurrency, Required, CurrencyCode).
		Field("PRICE_MATCH_THRESHOLD", c.Engine.PriceMatchThreshold, Between(0, 100)).
		Field("CATALOG_MATCH_THRESHOLD", c.Engine.CatalogMatchThreshold, Between(0, 100))
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}

// ValidateWorker additionally requires the Kafka settings.
func (c *Config) ValidateWorker() error {
	if err := c.Validate(); err != nil {
		return err
	}
	v := NewValidator().
		Field("KAFKA_INPUT_TOPIC", c.Kafka.InputTopic, Required).
		Field("KAFKA_OUTPUT_TOPIC", c.Kafka.OutputTopic, Required).
		Field("KAFKA_GROUP_ID", c.Kafka.GroupID, Required)
	if len(c.Kafka.Brokers) == 0 {
		return NewAppError(CodeConfig, "KAFKA_BROKERS is required", ErrInvalidInput)
	}
	if v.HasErrors() {
		return NewAppError(CodeConfig, v.ErrorMessage(), ErrInvalidInput)
	}
	return nil
}
