package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirinyoku/voyago/internal/config"
	"github.com/kirinyoku/voyago/internal/kafka"
	"github.com/kirinyoku/voyago/internal/postgres"
	"github.com/kirinyoku/voyago/internal/redis"
	postgresrepo "github.com/kirinyoku/voyago/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/voyago/internal/repository/redis"
	"github.com/kirinyoku/voyago/internal/service"
	"github.com/kirinyoku/voyago/internal/service/booking"
	"github.com/kirinyoku/voyago/internal/service/pricing"
	httpgin "github.com/kirinyoku/voyago/internal/transport/http/gin"
	"golang.org/x/sync/errgroup"
)

type App struct {
	cfg        *config.Config
	logger     *slog.Logger
	httpServer *http.Server
	producer   *kafka.Producer
}

func New(cfg *config.Config, logger *slog.Logger) (*App, error) {
	// Initialize dependencies
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.Postgres.User,
		cfg.Postgres.Password,
		cfg.Postgres.Host,
		cfg.Postgres.Port,
		cfg.Postgres.Name,
		cfg.Postgres.SSLMode,
	)

	pgxPool, err := postgres.New(context.Background(), postgres.Config{
		DSN:      dsn,
		MaxConns: int32(cfg.Postgres.MaxConns),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize postgres: %w", err)
	}

	rdb, err := redis.New(context.Background(), redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}

	// Initialize repositories
	store := postgresrepo.NewStore(pgxPool)
	cache := redisrepo.New(rdb)
	pubsub := redis.NewCatalogPubSub(rdb)
	sessions := redisrepo.NewSessionStore(rdb, cfg.Auth.SessionPrefix)
	limiter := redisrepo.NewSlidingWindowLimiter(
		rdb,
		redis.KeyRateLimit("checkout"),
		cfg.Booking.CheckoutRateHits,
		cfg.Booking.CheckoutRateWin,
	)
	idempotencyStore := redisrepo.NewIdempotencyStore(rdb, cfg.Booking.IdempotencyTTL)

	producer := kafka.NewProducer(cfg.Kafka.Brokers)

	// Initialize services
	services := service.NewServices(store, cache, pubsub, producer, logger, service.Config{
		Booking: booking.Config{
			Currency:           cfg.Booking.Currency,
			BookingTopic:       cfg.Kafka.BookingTopic,
			NotificationsTopic: cfg.Kafka.NotificationsTopic,
		},
		Pricing: pricing.Config{Currency: cfg.Booking.Currency},
	})

	// Initialize Gin router
	router := httpgin.NewRouter(services, sessions, idempotencyStore, limiter, logger)

	return &App{
		cfg:      cfg,
		logger:   logger,
		producer: producer,
		httpServer: &http.Server{
			Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
			Handler: router,
		},
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, gCtx := errgroup.WithContext(ctx)

	// Start HTTP server
	g.Go(func() error {
		a.logger.Info("HTTP server listening", "host", a.cfg.Server.Host, "port", a.cfg.Server.Port)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("failed to start HTTP server: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		a.logger.Info("shutting down HTTP server")

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := a.httpServer.Shutdown(ctx); err != nil {
			return err
		}

		return a.producer.Close()
	})

	return g.Wait()
}
