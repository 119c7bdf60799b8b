package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kirinyoku/voyago/internal/domain"
	redisx "github.com/kirinyoku/voyago/internal/redis"
	"github.com/kirinyoku/voyago/internal/repository"
	redisrepo "github.com/kirinyoku/voyago/internal/repository/redis"
)

// Repo is the read-only catalog surface. Every query is a filtered, sorted
// projection; "no rows" is an empty slice, never an error.
type Repo interface {
	ListCities(ctx context.Context) ([]domain.City, error)
	ListCountries(ctx context.Context) ([]domain.Country, error)
	ListDestinations(ctx context.Context, at time.Time) ([]domain.City, error)
	ListHotelsWithPackageCount(ctx context.Context) ([]domain.HotelWithPackageCount, error)
	SearchHotels(ctx context.Context, cityID int64, from, to time.Time, guests int) ([]domain.Hotel, error)
	ListExcursions(ctx context.Context, cityID int64) ([]domain.Excursion, error)
	ListPackagesByCity(ctx context.Context, cityID int64, at time.Time) ([]domain.Package, error)
	GetPackage(ctx context.Context, id int64) (*domain.Package, error)
}

var ErrPackageNotFound = errors.New("package not found")

type Config struct {
	CitiesTTL       time.Duration
	DestinationsTTL time.Duration
	HotelsTTL       time.Duration
	PackagesTTL     time.Duration
}

type Service struct {
	repo  Repo
	cache *redisrepo.Cache
	cfg   Config
}

func New(repo Repo, cache *redisrepo.Cache, cfg Config) *Service {
	if cfg.CitiesTTL <= 0 {
		cfg.CitiesTTL = 5 * time.Minute
	}

	if cfg.DestinationsTTL <= 0 {
		cfg.DestinationsTTL = time.Minute
	}

	if cfg.HotelsTTL <= 0 {
		cfg.HotelsTTL = time.Minute
	}

	if cfg.PackagesTTL <= 0 {
		cfg.PackagesTTL = time.Minute
	}

	return &Service{
		repo:  repo,
		cache: cache,
		cfg:   cfg,
	}
}

// ListCities returns active cities, popular first, then name ascending.
func (s *Service) ListCities(ctx context.Context) ([]domain.City, error) {
	const op = "service.catalog.ListCities"

	out, err := cached(ctx, s, redisx.KeyCities(), s.cfg.CitiesTTL,
		func(ctx context.Context) ([]domain.City, error) {
			return s.repo.ListCities(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return notNil(out), nil
}

func (s *Service) ListCountries(ctx context.Context) ([]domain.Country, error) {
	const op = "service.catalog.ListCountries"

	out, err := cached(ctx, s, redisx.KeyCountries(), s.cfg.CitiesTTL,
		func(ctx context.Context) ([]domain.Country, error) {
			return s.repo.ListCountries(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return notNil(out), nil
}

// ListDestinations returns cities that have at least one active package whose
// availability window contains the given date. The cache key carries the day
// so stale windows age out naturally.
func (s *Service) ListDestinations(ctx context.Context, at time.Time) ([]domain.City, error) {
	const op = "service.catalog.ListDestinations"

	key := redisx.KeyDestinations(at.Format("2006-01-02"))

	out, err := cached(ctx, s, key, s.cfg.DestinationsTTL,
		func(ctx context.Context) ([]domain.City, error) {
			return s.repo.ListDestinations(ctx, at)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return notNil(out), nil
}

func (s *Service) ListHotels(ctx context.Context) ([]domain.HotelWithPackageCount, error) {
	const op = "service.catalog.ListHotels"

	out, err := cached(ctx, s, redisx.KeyPublicHotels(), s.cfg.HotelsTTL,
		func(ctx context.Context) ([]domain.HotelWithPackageCount, error) {
			return s.repo.ListHotelsWithPackageCount(ctx)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return notNil(out), nil
}

// SearchHotels is not cached: the (city, dates, guests) space is too wide for
// useful hit rates.
func (s *Service) SearchHotels(ctx context.Context, cityID int64, from, to time.Time, guests int) ([]domain.Hotel, error) {
	const op = "service.catalog.SearchHotels"

	if cityID <= 0 {
		return nil, fmt.Errorf("%s: destination city is required", op)
	}

	if guests <= 0 {
		guests = 1
	}

	if to.Before(from) {
		return nil, fmt.Errorf("%s: stay window end precedes start", op)
	}

	out, err := s.repo.SearchHotels(ctx, cityID, from, to, guests)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return notNil(out), nil
}

func (s *Service) ListExcursions(ctx context.Context, cityID int64) ([]domain.Excursion, error) {
	const op = "service.catalog.ListExcursions"

	out, err := cached(ctx, s, redisx.KeyExcursions(cityID), s.cfg.PackagesTTL,
		func(ctx context.Context) ([]domain.Excursion, error) {
			return s.repo.ListExcursions(ctx, cityID)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return notNil(out), nil
}

func (s *Service) ListPackagesByCity(ctx context.Context, cityID int64, at time.Time) ([]domain.Package, error) {
	const op = "service.catalog.ListPackagesByCity"

	if cityID <= 0 {
		return nil, fmt.Errorf("%s: city is required", op)
	}

	key := redisx.KeyCityPackages(cityID, at.Format("2006-01-02"))

	out, err := cached(ctx, s, key, s.cfg.PackagesTTL,
		func(ctx context.Context) ([]domain.Package, error) {
			return s.repo.ListPackagesByCity(ctx, cityID, at)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return notNil(out), nil
}

// GetPackage resolves one package with its hotel, block and excursion links.
//
// Returns:
//   - error: catalog.ErrPackageNotFound if the id is unknown.
func (s *Service) GetPackage(ctx context.Context, id int64) (*domain.Package, error) {
	const op = "service.catalog.GetPackage"

	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrPackageNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return p, nil
}

// cached wraps the loader with the redis read-through cache when one is
// configured; without a cache it calls the loader directly.
func cached[T any](
	ctx context.Context,
	s *Service,
	key string,
	ttl time.Duration,
	loader func(ctx context.Context) ([]T, error),
) ([]T, error) {
	if s.cache == nil {
		return loader(ctx)
	}

	return redisrepo.GetOrSetJSON(ctx, s.cache, key, ttl, loader)
}

func notNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
