package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Booking  BookingConfig
	Auth     AuthConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	User     string
	Password string
	Name     string
	Host     string
	Port     int
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Brokers            []string
	BookingTopic       string
	NotificationsTopic string
	WorkerGroupID      string
}

type BookingConfig struct {
	Currency         string
	CheckoutRateHits int
	CheckoutRateWin  time.Duration
	IdempotencyTTL   time.Duration
}

type AuthConfig struct {
	SessionPrefix string
	SessionTTL    time.Duration
}

func New() (*Config, error) {
	const op = "config.New"

	_ = godotenv.Load()

	serverHost := os.Getenv("SERVER_HOST")
	if serverHost == "" {
		serverHost = "localhost"
	}

	serverPortStr := os.Getenv("SERVER_PORT")
	if serverPortStr == "" {
		serverPortStr = "8080"
	}

	serverPort, err := strconv.Atoi(serverPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid SERVER_PORT: %w", op, err)
	}

	serverCfg := ServerConfig{
		Host: serverHost,
		Port: serverPort,
	}

	postgresHost := os.Getenv("POSTGRES_HOST")
	if postgresHost == "" {
		postgresHost = "localhost"
	}

	postgresPortStr := os.Getenv("POSTGRES_PORT")
	if postgresPortStr == "" {
		postgresPortStr = "5432"
	}

	postgresPort, err := strconv.Atoi(postgresPortStr)
	if err != nil {
		return nil, fmt.Errorf("%s: invalid POSTGRES_PORT: %w", op, err)
	}

	postgresUser := os.Getenv("POSTGRES_USER")
	if postgresUser == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_USER", op)
	}

	postgresPassword := os.Getenv("POSTGRES_PASSWORD")
	if postgresPassword == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_PASSWORD", op)
	}

	postgresDB := os.Getenv("POSTGRES_DB")
	if postgresDB == "" {
		return nil, fmt.Errorf("%s: missing POSTGRES_DB", op)
	}

	postgresSSLMode := os.Getenv("POSTGRES_SSLMODE")
	if postgresSSLMode == "" {
		postgresSSLMode = "disable"
	}

	postgresCfg := PostgresConfig{
		User:     postgresUser,
		Password: postgresPassword,
		Name:     postgresDB,
		Host:     postgresHost,
		Port:     postgresPort,
		SSLMode:  postgresSSLMode,
		MaxConns: intEnv("POSTGRES_MAX_CONNS", 10),
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		redisAddr = "localhost:6379"
	}

	redisCfg := RedisConfig{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	}

	kafkaBrokers := os.Getenv("KAFKA_BROKERS")
	if kafkaBrokers == "" {
		kafkaBrokers = "localhost:9092"
	}

	bookingTopic := os.Getenv("KAFKA_BOOKING_TOPIC")
	if bookingTopic == "" {
		bookingTopic = "booking-events"
	}

	notificationsTopic := os.Getenv("KAFKA_NOTIFICATIONS_TOPIC")
	if notificationsTopic == "" {
		notificationsTopic = "booking-notifications"
	}

	workerGroupID := os.Getenv("KAFKA_WORKER_GROUP")
	if workerGroupID == "" {
		workerGroupID = "voyago-notifier"
	}

	kafkaCfg := KafkaConfig{
		Brokers:            strings.Split(kafkaBrokers, ","),
		BookingTopic:       bookingTopic,
		NotificationsTopic: notificationsTopic,
		WorkerGroupID:      workerGroupID,
	}

	currency := os.Getenv("BOOKING_CURRENCY")
	if currency == "" {
		currency = "EUR"
	}

	bookingCfg := BookingConfig{
		Currency:         currency,
		CheckoutRateHits: intEnv("CHECKOUT_RATE_HITS", 10),
		CheckoutRateWin:  durationEnv("CHECKOUT_RATE_WINDOW", time.Minute),
		IdempotencyTTL:   durationEnv("CHECKOUT_IDEMPOTENCY_TTL", 2*time.Hour),
	}

	sessionPrefix := os.Getenv("SESSION_PREFIX")
	if sessionPrefix == "" {
		sessionPrefix = "voyago:v1:session"
	}

	authCfg := AuthConfig{
		SessionPrefix: sessionPrefix,
		SessionTTL:    durationEnv("SESSION_TTL", 24*time.Hour),
	}

	return &Config{
		Server:   serverCfg,
		Postgres: postgresCfg,
		Redis:    redisCfg,
		Kafka:    kafkaCfg,
		Booking:  bookingCfg,
		Auth:     authCfg,
	}, nil
}

func intEnv(name string, def int) int {
	s := os.Getenv(name)
	if s == "" {
		return def
	}

	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}

	return v
}

func durationEnv(name string, def time.Duration) time.Duration {
	s := os.Getenv(name)
	if s == "" {
		return def
	}

	v, err := time.ParseDuration(s)
	if err != nil {
		return def
	}

	return v
}
