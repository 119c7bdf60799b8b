package postgresrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/voyago/internal/domain"
)

type CatalogRepo struct {
	pool *pgxpool.Pool
	db   DB
}

func (r *CatalogRepo) With(db DB) *CatalogRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *CatalogRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// ListCities returns active cities ordered popular-first, then by name.
func (r *CatalogRepo) ListCities(ctx context.Context) ([]domain.City, error) {
	const op = "postgresrepo.CatalogRepo.ListCities"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, country_id, name, slug, popular, active
		 FROM cities
		 WHERE active
		 ORDER BY popular DESC, name ASC`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.City
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.CountryID, &c.Name, &c.Slug, &c.Popular, &c.Active); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *CatalogRepo) ListCountries(ctx context.Context) ([]domain.Country, error) {
	const op = "postgresrepo.CatalogRepo.ListCountries"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, name, code, active
		 FROM countries
		 WHERE active
		 ORDER BY name ASC`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Country
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.ID, &c.Name, &c.Code, &c.Active); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListDestinations returns active cities that have at least one active
// package whose availability window contains the given date.
func (r *CatalogRepo) ListDestinations(ctx context.Context, at time.Time) ([]domain.City, error) {
	const op = "postgresrepo.CatalogRepo.ListDestinations"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT DISTINCT c.id, c.country_id, c.name, c.slug, c.popular, c.active
		 FROM cities c
		 JOIN packages p ON p.city_id = c.id
		 WHERE c.active
		   AND p.active
		   AND p.available_from <= $1
		   AND p.available_to >= $1
		 ORDER BY c.popular DESC, c.name ASC`,
		at,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.City
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.CountryID, &c.Name, &c.Slug, &c.Popular, &c.Active); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListHotelsWithPackageCount returns active hotels annotated with the number
// of active packages each appears in (as primary or listed hotel).
func (r *CatalogRepo) ListHotelsWithPackageCount(ctx context.Context) ([]domain.HotelWithPackageCount, error) {
	const op = "postgresrepo.CatalogRepo.ListHotelsWithPackageCount"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT h.id, h.city_id, h.name, h.stars, h.rating, h.address, h.active,
		        COUNT(DISTINCT p.id)
		 FROM hotels h
		 LEFT JOIN package_hotels ph ON ph.hotel_id = h.id
		 LEFT JOIN packages p
		   ON p.active AND (p.id = ph.package_id OR p.primary_hotel_id = h.id)
		 WHERE h.active
		 GROUP BY h.id
		 ORDER BY h.rating DESC, h.name ASC`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.HotelWithPackageCount
	for rows.Next() {
		var h domain.HotelWithPackageCount
		if err := rows.Scan(
			&h.ID,
			&h.CityID,
			&h.Name,
			&h.Stars,
			&h.Rating,
			&h.Address,
			&h.Active,
			&h.PackageCount,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// SearchHotels returns active hotels in the destination city that appear in
// at least one active package covering the requested stay window and a price
// row for the requested party size.
func (r *CatalogRepo) SearchHotels(ctx context.Context, cityID int64, from, to time.Time, guests int) ([]domain.Hotel, error) {
	const op = "postgresrepo.CatalogRepo.SearchHotels"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT DISTINCT h.id, h.city_id, h.name, h.stars, h.rating, h.address, h.active
		 FROM hotels h
		 JOIN packages pk ON pk.city_id = h.city_id AND pk.active
		 JOIN package_prices pp ON pp.package_id = pk.id AND pp.hotel_name = h.name
		 WHERE h.active
		   AND h.city_id = $1
		   AND pk.available_from <= $2
		   AND pk.available_to >= $3
		   AND pp.adults + pp.children >= $4
		 ORDER BY h.rating DESC, h.name ASC`,
		cityID, from, to, guests,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		var h domain.Hotel
		if err := rows.Scan(&h.ID, &h.CityID, &h.Name, &h.Stars, &h.Rating, &h.Address, &h.Active); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListExcursions returns active excursions, optionally limited to one city
// (cityID = 0 lists all).
func (r *CatalogRepo) ListExcursions(ctx context.Context, cityID int64) ([]domain.Excursion, error) {
	const op = "postgresrepo.CatalogRepo.ListExcursions"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, city_id, name, description, price_cents, active
		 FROM excursions
		 WHERE active AND ($1 = 0 OR city_id = $1)
		 ORDER BY name ASC`,
		cityID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Excursion
	for rows.Next() {
		var e domain.Excursion
		if err := rows.Scan(&e.ID, &e.CityID, &e.Name, &e.Description, &e.PriceCents, &e.Active); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// ListPackagesByCity returns active packages for a city whose availability
// window contains the given date.
func (r *CatalogRepo) ListPackagesByCity(ctx context.Context, cityID int64, at time.Time) ([]domain.Package, error) {
	const op = "postgresrepo.CatalogRepo.ListPackagesByCity"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, city_id, name, primary_hotel_id, transfer_included, active,
		        available_from, available_to
		 FROM packages
		 WHERE active
		   AND city_id = $1
		   AND available_from <= $2
		   AND available_to >= $2
		 ORDER BY name ASC`,
		cityID, at,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Package
	for rows.Next() {
		var p domain.Package
		if err := rows.Scan(
			&p.ID,
			&p.CityID,
			&p.Name,
			&p.PrimaryHotelID,
			&p.TransferIncluded,
			&p.Active,
			&p.AvailableFrom,
			&p.AvailableTo,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *CatalogRepo) GetPackage(ctx context.Context, id int64) (*domain.Package, error) {
	const op = "postgresrepo.CatalogRepo.GetPackage"

	db := r.handle()

	var p domain.Package
	err := db.QueryRow(ctx,
		`SELECT id, city_id, name, primary_hotel_id, transfer_included, active,
		        available_from, available_to
		 FROM packages WHERE id = $1`,
		id,
	).Scan(
		&p.ID,
		&p.CityID,
		&p.Name,
		&p.PrimaryHotelID,
		&p.TransferIncluded,
		&p.Active,
		&p.AvailableFrom,
		&p.AvailableTo,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &p, nil
}

// PricesForPackage loads the precomputed price rows owned by a package.
func (r *CatalogRepo) PricesForPackage(ctx context.Context, packageID int64) ([]domain.PackagePrice, error) {
	const op = "postgresrepo.CatalogRepo.PricesForPackage"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, package_id, adults, children, hotel_name, flight_block_id,
		        flight_cents, hotel_cents, transfer_cents, total_cents
		 FROM package_prices
		 WHERE package_id = $1`,
		packageID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.PackagePrice
	for rows.Next() {
		var pp domain.PackagePrice
		if err := rows.Scan(
			&pp.ID,
			&pp.PackageID,
			&pp.Adults,
			&pp.Children,
			&pp.HotelName,
			&pp.FlightBlockID,
			&pp.FlightCents,
			&pp.HotelCents,
			&pp.TransferCents,
			&pp.TotalCents,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, pp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

// FlightsByBlockGroup returns the sellable legs (outbound + return) sharing
// one block group identifier.
func (r *CatalogRepo) FlightsByBlockGroup(ctx context.Context, blockGroupID string) ([]domain.Flight, error) {
	const op = "postgresrepo.CatalogRepo.FlightsByBlockGroup"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, block_group_id, departure_airport_id, arrival_airport_id,
		        departs_at, arrives_at, total_seats, available_seats, is_block_seat
		 FROM flights
		 WHERE block_group_id = $1 AND is_block_seat
		 ORDER BY departs_at ASC`,
		blockGroupID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Flight
	for rows.Next() {
		var f domain.Flight
		if err := rows.Scan(
			&f.ID,
			&f.BlockGroupID,
			&f.DepartureAirportID,
			&f.ArrivalAirportID,
			&f.DepartsAt,
			&f.ArrivesAt,
			&f.TotalSeats,
			&f.AvailableSeats,
			&f.IsBlockSeat,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}
