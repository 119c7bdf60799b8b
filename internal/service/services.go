package service

import (
	"log/slog"

	redisx "github.com/kirinyoku/voyago/internal/redis"
	postgresrepo "github.com/kirinyoku/voyago/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/voyago/internal/repository/redis"
	"github.com/kirinyoku/voyago/internal/service/admin"
	"github.com/kirinyoku/voyago/internal/service/booking"
	"github.com/kirinyoku/voyago/internal/service/catalog"
	"github.com/kirinyoku/voyago/internal/service/pricing"
	"github.com/kirinyoku/voyago/internal/service/users"
)

type Services struct {
	Booking *booking.Service
	Pricing *pricing.Service
	Catalog *catalog.Service
	Admin   *admin.Service
	Users   *users.Service
}

type Config struct {
	Booking booking.Config
	Pricing pricing.Config
	Catalog catalog.Config
}

func NewServices(
	store *postgresrepo.Store,
	cache *redisrepo.Cache,
	pubsub *redisx.CatalogPubSub,
	producer booking.Producer,
	logger *slog.Logger,
	cfg Config,
) *Services {
	pricingSvc := pricing.New(store.Catalog(), cfg.Pricing)

	return &Services{
		Booking: booking.New(store.Bookings(), pricingSvc, store.Catalog(), producer, logger, cfg.Booking),
		Pricing: pricingSvc,
		Catalog: catalog.New(store.Catalog(), cache, cfg.Catalog),
		Admin:   admin.New(store, cache, pubsub),
		Users:   users.New(store.Users()),
	}
}
