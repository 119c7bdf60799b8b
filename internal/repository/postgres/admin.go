package postgresrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/repository"
)

type AdminRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *AdminRepo) With(db DB) *AdminRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *AdminRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

func (r *AdminRepo) CreateCountry(ctx context.Context, c *domain.Country) error {
	const op = "postgresrepo.AdminRepo.CreateCountry"

	db := r.handle()

	if err := db.QueryRow(ctx,
		`INSERT INTO countries(name, code, active)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		c.Name, c.Code, c.Active,
	).Scan(&c.ID); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *AdminRepo) UpdateCountry(ctx context.Context, c *domain.Country) error {
	const op = "postgresrepo.AdminRepo.UpdateCountry"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE countries SET name = $2, code = $3, active = $4 WHERE id = $1`,
		c.ID, c.Name, c.Code, c.Active,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *AdminRepo) CreateCity(ctx context.Context, c *domain.City) error {
	const op = "postgresrepo.AdminRepo.CreateCity"

	db := r.handle()

	if err := db.QueryRow(ctx,
		`INSERT INTO cities(country_id, name, slug, popular, active)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		c.CountryID, c.Name, c.Slug, c.Popular, c.Active,
	).Scan(&c.ID); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *AdminRepo) UpdateCity(ctx context.Context, c *domain.City) error {
	const op = "postgresrepo.AdminRepo.UpdateCity"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE cities
		 SET country_id = $2, name = $3, slug = $4, popular = $5, active = $6
		 WHERE id = $1`,
		c.ID, c.CountryID, c.Name, c.Slug, c.Popular, c.Active,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *AdminRepo) DeleteCity(ctx context.Context, id int64) error {
	const op = "postgresrepo.AdminRepo.DeleteCity"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM cities WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *AdminRepo) CreateHotel(ctx context.Context, h *domain.Hotel) error {
	const op = "postgresrepo.AdminRepo.CreateHotel"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO hotels(id, city_id, name, stars, rating, address, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		h.ID, h.CityID, h.Name, h.Stars, h.Rating, h.Address, h.Active,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

func (r *AdminRepo) UpdateHotel(ctx context.Context, h *domain.Hotel) error {
	const op = "postgresrepo.AdminRepo.UpdateHotel"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE hotels
		 SET city_id = $2, name = $3, stars = $4, rating = $5, address = $6, active = $7
		 WHERE id = $1`,
		h.ID, h.CityID, h.Name, h.Stars, h.Rating, h.Address, h.Active,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *AdminRepo) DeleteHotel(ctx context.Context, id int64) error {
	const op = "postgresrepo.AdminRepo.DeleteHotel"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM hotels WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *AdminRepo) CreateFlight(ctx context.Context, f *domain.Flight) error {
	const op = "postgresrepo.AdminRepo.CreateFlight"

	db := r.handle()

	if err := db.QueryRow(ctx,
		`INSERT INTO flights(block_group_id, departure_airport_id, arrival_airport_id,
		                     departs_at, arrives_at, total_seats, available_seats, is_block_seat)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id`,
		f.BlockGroupID, f.DepartureAirportID, f.ArrivalAirportID,
		f.DepartsAt, f.ArrivesAt, f.TotalSeats, f.AvailableSeats, f.IsBlockSeat,
	).Scan(&f.ID); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// UpdateFlight edits a flight's schedule, airports and capacity. Block
// membership (block_group_id, is_block_seat) is never written here, and
// available_seats moves by the capacity delta, so seats already held by
// bookings stay accounted for.
func (r *AdminRepo) UpdateFlight(ctx context.Context, f *domain.Flight) error {
	const op = "postgresrepo.AdminRepo.UpdateFlight"

	db := r.handle()

	tag, err := db.Exec(ctx,
		`UPDATE flights
		 SET departure_airport_id = $2, arrival_airport_id = $3,
		     departs_at = $4, arrives_at = $5,
		     available_seats = GREATEST(0, available_seats + ($6 - total_seats)),
		     total_seats = $6
		 WHERE id = $1`,
		f.ID, f.DepartureAirportID, f.ArrivalAirportID,
		f.DepartsAt, f.ArrivesAt, f.TotalSeats,
	)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

func (r *AdminRepo) DeleteFlight(ctx context.Context, id int64) error {
	const op = "postgresrepo.AdminRepo.DeleteFlight"

	db := r.handle()

	tag, err := db.Exec(ctx, `DELETE FROM flights WHERE id = $1`, id)
	if err != nil {
		return wrapDBErr(op, err)
	}

	if tag.RowsAffected() == 0 {
		return wrapDBErr(op, repository.ErrNotFound)
	}

	return nil
}

// ReserveHotelID claims a candidate hotel identifier. The primary key on
// hotel_ids makes the claim atomic: a taken candidate surfaces as
// repository.ErrConflict and the caller retries with a fresh one.
func (r *AdminRepo) ReserveHotelID(ctx context.Context, id int64) error {
	const op = "postgresrepo.AdminRepo.ReserveHotelID"

	db := r.handle()

	if _, err := db.Exec(ctx,
		`INSERT INTO hotel_ids(id) VALUES ($1)`,
		id,
	); err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}
