package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	LocatorPostgres = "postgres"
	LocatorRedis    = "redis"
)

type Config struct {
	HTTPPort string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	RabbitMQURL      string
	RabbitMQExchange string

	KafkaBrokers []string
	KafkaTopic   string

	PaymentGatewayURL     string
	PaymentGatewayTimeout time.Duration

	DriverLocator        string
	DriverSearchRadiusKm float64
	DriverCandidateLimit int

	BaseDeliveryFee float64
	CostPerKm       float64
	FreeDistanceKm  float64
	TaxRate         float64

	AssignmentRetrySchedule string
	AssignmentRetryBatch    int
	AssignmentRetryDelay    time.Duration
}

// LoadConfig reads the environment, after loading .env when one exists.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var errs []string
	intVar := func(key string, def int) int {
		v, err := getEnvInt(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	floatVar := func(key string, def float64) float64 {
		v, err := getEnvFloat(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}
	durationVar := func(key string, def time.Duration) time.Duration {
		v, err := getEnvDuration(key, def)
		if err != nil {
			errs = append(errs, err.Error())
		}
		return v
	}

	config := Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "marketplace"),
		DBSslMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       intVar("REDIS_DB", 0),

		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQExchange: getEnv("RABBITMQ_EXCHANGE", "marketplace.events"),

		KafkaBrokers: getEnvList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "marketplace.order-audit"),

		PaymentGatewayURL:     getEnv("PAYMENT_GATEWAY_URL", "http://localhost:8090"),
		PaymentGatewayTimeout: durationVar("PAYMENT_GATEWAY_TIMEOUT", 10*time.Second),

		DriverLocator:        getEnv("DRIVER_LOCATOR", LocatorPostgres),
		DriverSearchRadiusKm: floatVar("DRIVER_SEARCH_RADIUS_KM", 5),
		DriverCandidateLimit: intVar("DRIVER_CANDIDATE_LIMIT", 20),

		BaseDeliveryFee: floatVar("BASE_DELIVERY_FEE", 2.99),
		CostPerKm:       floatVar("COST_PER_KM", 0.50),
		FreeDistanceKm:  floatVar("FREE_DISTANCE_KM", 2),
		TaxRate:         floatVar("TAX_RATE", 0.10),

		AssignmentRetrySchedule: getEnv("ASSIGNMENT_RETRY_SCHEDULE", "*/10 * * * * *"),
		AssignmentRetryBatch:    intVar("ASSIGNMENT_RETRY_BATCH", 50),
		AssignmentRetryDelay:    durationVar("ASSIGNMENT_RETRY_DELAY", 30*time.Second),
	}

	if config.DriverLocator != LocatorPostgres && config.DriverLocator != LocatorRedis {
		errs = append(errs, fmt.Sprintf("DRIVER_LOCATOR must be %q or %q, got %q", LocatorPostgres, LocatorRedis, config.DriverLocator))
	}
	if config.DriverLocator == LocatorRedis && config.RedisAddr == "" {
		errs = append(errs, "DRIVER_LOCATOR=redis requires REDIS_ADDR")
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return config, nil
}

// DSN builds the postgres connection string for gorm.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
