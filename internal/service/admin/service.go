package admin

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kirinyoku/voyago/internal/domain"
	redisx "github.com/kirinyoku/voyago/internal/redis"
	"github.com/kirinyoku/voyago/internal/repository"
	postgresrepo "github.com/kirinyoku/voyago/internal/repository/postgres"
	redisrepo "github.com/kirinyoku/voyago/internal/repository/redis"
	"github.com/kirinyoku/voyago/internal/uow"
)

type Service struct {
	store   *postgresrepo.Store
	cache   *redisrepo.Cache
	pubsub  *redisx.CatalogPubSub
	uow     *uow.UoW
	idAlloc *IDAllocator
}

func New(store *postgresrepo.Store, cache *redisrepo.Cache, pubsub *redisx.CatalogPubSub) *Service {
	return &Service{
		store:   store,
		cache:   cache,
		pubsub:  pubsub,
		uow:     uow.NewUoW(store),
		idAlloc: NewIDAllocator(store.Admin(), 0),
	}
}

// CreateCountry creates a country record.
//
// Returns:
//   - error: admin.ErrCountryConflict if a country with the same name exists.
func (s *Service) CreateCountry(ctx context.Context, c *domain.Country) error {
	const op = "service.admin.CreateCountry"

	return s.mutate(ctx, op, "country", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).CreateCountry(ctx, c); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return 0, ErrCountryConflict
			}
			return 0, err
		}
		return c.ID, nil
	})
}

func (s *Service) UpdateCountry(ctx context.Context, c *domain.Country) error {
	const op = "service.admin.UpdateCountry"

	return s.mutate(ctx, op, "country", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).UpdateCountry(ctx, c); err != nil {
			return 0, translateErr(err, ErrCountryConflict)
		}
		return c.ID, nil
	})
}

// CreateCity creates a city record.
//
// Returns:
//   - error: admin.ErrCityConflict if the slug is already taken.
func (s *Service) CreateCity(ctx context.Context, c *domain.City) error {
	const op = "service.admin.CreateCity"

	return s.mutate(ctx, op, "city", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).CreateCity(ctx, c); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return 0, ErrCityConflict
			}
			return 0, err
		}
		return c.ID, nil
	})
}

func (s *Service) UpdateCity(ctx context.Context, c *domain.City) error {
	const op = "service.admin.UpdateCity"

	return s.mutate(ctx, op, "city", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).UpdateCity(ctx, c); err != nil {
			return 0, translateErr(err, ErrCityConflict)
		}
		return c.ID, nil
	})
}

func (s *Service) DeleteCity(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteCity"

	return s.mutate(ctx, op, "city", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).DeleteCity(ctx, id); err != nil {
			return 0, translateErr(err, ErrCityConflict)
		}
		return id, nil
	})
}

// CreateHotel creates a hotel with an identifier previously claimed through
// AllocateHotelID.
//
// Returns:
//   - error: admin.ErrInvalidHotelID if the id is outside [10000, 99999].
//   - error: admin.ErrHotelConflict if the id or name is already taken.
func (s *Service) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	const op = "service.admin.CreateHotel"

	if h.ID < hotelIDMin || h.ID > hotelIDMax {
		return fmt.Errorf("%s:%w", op, ErrInvalidHotelID)
	}

	return s.mutate(ctx, op, "hotel", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).CreateHotel(ctx, h); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return 0, ErrHotelConflict
			}
			return 0, err
		}
		return h.ID, nil
	})
}

func (s *Service) UpdateHotel(ctx context.Context, h *domain.Hotel) error {
	const op = "service.admin.UpdateHotel"

	return s.mutate(ctx, op, "hotel", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).UpdateHotel(ctx, h); err != nil {
			return 0, translateErr(err, ErrHotelConflict)
		}
		return h.ID, nil
	})
}

func (s *Service) DeleteHotel(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteHotel"

	return s.mutate(ctx, op, "hotel", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).DeleteHotel(ctx, id); err != nil {
			return 0, translateErr(err, ErrHotelConflict)
		}
		return id, nil
	})
}

// CreateFlightTemplate creates a reusable template row: no block group, no
// seats, not sellable.
func (s *Service) CreateFlightTemplate(ctx context.Context, f *domain.Flight) error {
	const op = "service.admin.CreateFlightTemplate"

	if f.TotalSeats != 0 || f.AvailableSeats != 0 {
		return fmt.Errorf("%s:%w", op, ErrTemplateWithSeats)
	}

	f.IsBlockSeat = false
	f.BlockGroupID = nil

	return s.mutate(ctx, op, "flight", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).CreateFlight(ctx, f); err != nil {
			return 0, translateErr(err, ErrFlightConflict)
		}
		return f.ID, nil
	})
}

// CreateBlockPair creates the outbound and return legs of a seat block in one
// transaction, both carrying a freshly generated shared block group id.
//
// Returns:
//   - string: the generated block group id.
//   - error: admin.ErrInvalidBlock if either leg lacks a positive seat count.
func (s *Service) CreateBlockPair(ctx context.Context, outbound, ret *domain.Flight) (string, error) {
	const op = "service.admin.CreateBlockPair"

	if outbound.TotalSeats <= 0 || ret.TotalSeats <= 0 {
		return "", fmt.Errorf("%s:%w", op, ErrInvalidBlock)
	}

	groupID := uuid.NewString()

	for _, leg := range []*domain.Flight{outbound, ret} {
		leg.IsBlockSeat = true
		leg.BlockGroupID = &groupID
		leg.AvailableSeats = leg.TotalSeats
	}

	err := s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		for _, leg := range []*domain.Flight{outbound, ret} {
			if err := s.store.Admin().With(tx).CreateFlight(ctx, leg); err != nil {
				return fmt.Errorf("%s:%w", op, translateErr(err, ErrFlightConflict))
			}
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateCatalog(ctx)
			_ = s.pubsub.PublishCatalogChanged(ctx, "flight", outbound.ID)
		})
		return nil
	})
	if err != nil {
		return "", err
	}

	return groupID, nil
}

func (s *Service) UpdateFlight(ctx context.Context, f *domain.Flight) error {
	const op = "service.admin.UpdateFlight"

	return s.mutate(ctx, op, "flight", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).UpdateFlight(ctx, f); err != nil {
			return 0, translateErr(err, ErrFlightConflict)
		}
		return f.ID, nil
	})
}

func (s *Service) DeleteFlight(ctx context.Context, id int64) error {
	const op = "service.admin.DeleteFlight"

	return s.mutate(ctx, op, "flight", func(ctx context.Context, tx postgresrepo.DB) (int64, error) {
		if err := s.store.Admin().With(tx).DeleteFlight(ctx, id); err != nil {
			return 0, translateErr(err, ErrFlightConflict)
		}
		return id, nil
	})
}

// AllocateHotelID claims a fresh unique 5-digit hotel identifier.
//
// Returns:
//   - error: admin.ErrIDSpaceExhausted when the attempt bound is hit.
func (s *Service) AllocateHotelID(ctx context.Context) (int64, error) {
	const op = "service.admin.AllocateHotelID"

	id, err := s.idAlloc.Allocate(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s:%w", op, err)
	}

	return id, nil
}

// mutate runs one admin mutation inside a unit of work and schedules the
// catalog cache invalidation and pub/sub fanout for after the commit.
func (s *Service) mutate(
	ctx context.Context,
	op, entity string,
	fn func(ctx context.Context, tx postgresrepo.DB) (int64, error),
) error {
	return s.uow.Do(ctx, func(ctx context.Context, tx postgresrepo.DB, after func(uow.AfterCommit)) error {
		id, err := fn(ctx, tx)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		after(func(ctx context.Context) {
			_ = s.cache.InvalidateCatalog(ctx)
			_ = s.pubsub.PublishCatalogChanged(ctx, entity, id)
		})
		return nil
	})
}

func translateErr(err error, conflict error) error {
	switch {
	case errors.Is(err, repository.ErrConflict):
		return conflict
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}
