package postgresrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/repository"
)

type BookingRepo struct {
	pool  *pgxpool.Pool
	store *Store
	db    DB
}

func (r *BookingRepo) With(db DB) *BookingRepo {
	cp := *r
	cp.db = db
	return &cp
}

func (r *BookingRepo) handle() DB {
	if r.db != nil {
		return r.db
	}
	return r.pool
}

// GetByCode retrieves a booking and its line items by reservation code.
//
// Returns:
//   - *domain.BookingDetails: the booking when found.
//   - error: repository.ErrNotFound if the code is unknown.
func (r *BookingRepo) GetByCode(ctx context.Context, code string) (*domain.BookingDetails, error) {
	const op = "postgresrepo.BookingRepo.GetByCode"

	db := r.handle()

	var out domain.BookingDetails

	err := db.QueryRow(ctx,
		`SELECT id, code, user_id, status, contact_name, contact_email,
		        contact_phone, adults, children, total_cents, currency,
		        created_at, confirmed_at, paid_at, cancelled_at
		 FROM bookings WHERE code = $1`,
		code,
	).Scan(
		&out.Booking.ID,
		&out.Booking.Code,
		&out.Booking.UserID,
		&out.Booking.Status,
		&out.Booking.ContactName,
		&out.Booking.ContactEmail,
		&out.Booking.ContactPhone,
		&out.Booking.Adults,
		&out.Booking.Children,
		&out.Booking.TotalCents,
		&out.Booking.Currency,
		&out.Booking.CreatedAt,
		&out.Booking.ConfirmedAt,
		&out.Booking.PaidAt,
		&out.Booking.CancelledAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	rows, err := db.Query(ctx,
		`SELECT flight_id, passengers, price_cents
		 FROM booking_flights WHERE booking_id = $1`,
		out.Booking.ID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.BookingFlight
		if err := rows.Scan(&f.FlightID, &f.Passengers, &f.PriceCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out.Flights = append(out.Flights, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	rows, err = db.Query(ctx,
		`SELECT hotel_id, room_type, nights, price_cents
		 FROM booking_hotels WHERE booking_id = $1`,
		out.Booking.ID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var h domain.BookingHotel
		if err := rows.Scan(&h.HotelID, &h.RoomType, &h.Nights, &h.PriceCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out.Hotels = append(out.Hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	rows, err = db.Query(ctx,
		`SELECT description, price_cents
		 FROM booking_transfers WHERE booking_id = $1`,
		out.Booking.ID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.BookingTransfer
		if err := rows.Scan(&t.Description, &t.PriceCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out.Transfers = append(out.Transfers, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	rows, err = db.Query(ctx,
		`SELECT excursion_id, quantity, price_cents
		 FROM booking_excursions WHERE booking_id = $1`,
		out.Booking.ID,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var e domain.BookingExcursion
		if err := rows.Scan(&e.ExcursionID, &e.Quantity, &e.PriceCents); err != nil {
			return nil, wrapDBErr(op, err)
		}
		out.Excursions = append(out.Excursions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return &out, nil
}

// CreateWithSeatHold inserts a SOFT booking with its line items and decrements
// available seats on every referenced flight leg in one serializable
// transaction. The conditional seat update makes overselling impossible: a
// leg without enough seats aborts the whole transaction.
//
// Returns:
//   - error: repository.ErrSeatsUnavailable if any leg lacks seats.
//   - error: repository.ErrConflict if the reservation code already exists.
func (r *BookingRepo) CreateWithSeatHold(ctx context.Context, d *domain.BookingDetails) error {
	const op = "postgresrepo.BookingRepo.CreateWithSeatHold"

	if r.db != nil {
		if err := r.createCore(ctx, r.db, d); err != nil {
			return wrapDBErr(op, err)
		}
		return nil
	}

	err := r.store.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
		return r.createCore(ctx, tx, d)
	})
	if err != nil {
		return wrapDBErr(op, err)
	}

	return nil
}

// UpdateStatus advances a booking to the target status, stamping the matching
// timestamp column. The transition is validated in SQL against the current
// status so concurrent updates cannot skip states.
//
// Returns:
//   - *domain.Booking: the updated booking.
//   - error: repository.ErrNotFound if the code is unknown.
//   - error: repository.ErrInvalidTransition if the current status does not
//     allow the transition.
func (r *BookingRepo) UpdateStatus(
	ctx context.Context,
	code string,
	from []domain.BookingStatus,
	to domain.BookingStatus,
) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.UpdateStatus"

	db := r.handle()

	stampCol, ok := stampColumn(to)
	if !ok {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrInvalidTransition)
	}

	fromStrs := make([]string, 0, len(from))
	for _, s := range from {
		fromStrs = append(fromStrs, string(s))
	}

	var b domain.Booking
	err := db.QueryRow(ctx,
		fmt.Sprintf(
			`UPDATE bookings
			 SET status = $1, %s = now()
			 WHERE code = $2 AND status = ANY($3)
			 RETURNING id, code, user_id, status, contact_name, contact_email,
			           contact_phone, adults, children, total_cents, currency,
			           created_at, confirmed_at, paid_at, cancelled_at`,
			stampCol,
		),
		string(to), code, fromStrs,
	).Scan(
		&b.ID,
		&b.Code,
		&b.UserID,
		&b.Status,
		&b.ContactName,
		&b.ContactEmail,
		&b.ContactPhone,
		&b.Adults,
		&b.Children,
		&b.TotalCents,
		&b.Currency,
		&b.CreatedAt,
		&b.ConfirmedAt,
		&b.PaidAt,
		&b.CancelledAt,
	)
	if err == nil {
		return &b, nil
	}

	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, wrapDBErr(op, err)
	}

	// Zero rows: either the code is unknown or the booking is in a state the
	// transition does not allow. Distinguish for the caller.
	var exists bool
	if err := db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE code = $1)`, code,
	).Scan(&exists); err != nil {
		return nil, wrapDBErr(op, err)
	}

	if !exists {
		return nil, fmt.Errorf("%s:%w", op, repository.ErrNotFound)
	}

	return nil, fmt.Errorf("%s:%w", op, repository.ErrInvalidTransition)
}

// CancelWithSeatRelease moves a SOFT or CONFIRMED booking to CANCELLED and
// returns the held seats to every referenced flight leg in one transaction.
func (r *BookingRepo) CancelWithSeatRelease(ctx context.Context, code string) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.CancelWithSeatRelease"

	if r.db != nil {
		b, err := r.cancelCore(ctx, r.db, code)
		if err != nil {
			return nil, wrapDBErr(op, err)
		}
		return b, nil
	}

	var booking *domain.Booking
	err := r.store.RunTx(ctx, nil, func(ctx context.Context, tx DB) error {
		b, err := r.cancelCore(ctx, tx, code)
		if err != nil {
			return err
		}
		booking = b
		return nil
	})
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return booking, nil
}

// SearchByCode retrieves the bare booking row for the agent back office.
func (r *BookingRepo) SearchByCode(ctx context.Context, code string) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.SearchByCode"

	db := r.handle()

	var b domain.Booking
	err := db.QueryRow(ctx,
		`SELECT id, code, user_id, status, contact_name, contact_email,
		        contact_phone, adults, children, total_cents, currency,
		        created_at, confirmed_at, paid_at, cancelled_at
		 FROM bookings WHERE code = $1`,
		code,
	).Scan(
		&b.ID,
		&b.Code,
		&b.UserID,
		&b.Status,
		&b.ContactName,
		&b.ContactEmail,
		&b.ContactPhone,
		&b.Adults,
		&b.Children,
		&b.TotalCents,
		&b.Currency,
		&b.CreatedAt,
		&b.ConfirmedAt,
		&b.PaidAt,
		&b.CancelledAt,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	return &b, nil
}

// PendingPayments lists CONFIRMED bookings awaiting payment, oldest
// confirmation first.
func (r *BookingRepo) PendingPayments(ctx context.Context) ([]domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.PendingPayments"

	db := r.handle()

	rows, err := db.Query(ctx,
		`SELECT id, code, user_id, status, contact_name, contact_email,
		        contact_phone, adults, children, total_cents, currency,
		        created_at, confirmed_at, paid_at, cancelled_at
		 FROM bookings
		 WHERE status = 'CONFIRMED'
		 ORDER BY confirmed_at ASC`,
	)
	if err != nil {
		return nil, wrapDBErr(op, err)
	}

	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(
			&b.ID,
			&b.Code,
			&b.UserID,
			&b.Status,
			&b.ContactName,
			&b.ContactEmail,
			&b.ContactPhone,
			&b.Adults,
			&b.Children,
			&b.TotalCents,
			&b.Currency,
			&b.CreatedAt,
			&b.ConfirmedAt,
			&b.PaidAt,
			&b.CancelledAt,
		); err != nil {
			return nil, wrapDBErr(op, err)
		}

		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (r *BookingRepo) createCore(ctx context.Context, db DB, d *domain.BookingDetails) error {
	const op = "postgresrepo.BookingRepo.createCore"

	for _, f := range d.Flights {
		tag, err := db.Exec(ctx,
			`UPDATE flights
			 SET available_seats = available_seats - $2
			 WHERE id = $1 AND is_block_seat AND available_seats >= $2`,
			f.FlightID, f.Passengers,
		)
		if err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}

		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%s:%w", op, repository.ErrSeatsUnavailable)
		}
	}

	b := &d.Booking
	if err := db.QueryRow(ctx,
		`INSERT INTO bookings(code, user_id, status, contact_name, contact_email,
		                      contact_phone, adults, children, total_cents, currency)
		 VALUES ($1, $2, 'SOFT', $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, status, created_at`,
		b.Code, b.UserID, b.ContactName, b.ContactEmail, b.ContactPhone,
		b.Adults, b.Children, b.TotalCents, b.Currency,
	).Scan(&b.ID, &b.Status, &b.CreatedAt); err != nil {
		return fmt.Errorf("%s:%w", op, err)
	}

	batch := &pgx.Batch{}
	for _, f := range d.Flights {
		batch.Queue(
			`INSERT INTO booking_flights(booking_id, flight_id, passengers, price_cents)
			 VALUES ($1, $2, $3, $4)`,
			b.ID, f.FlightID, f.Passengers, f.PriceCents,
		)
	}
	for _, h := range d.Hotels {
		batch.Queue(
			`INSERT INTO booking_hotels(booking_id, hotel_id, room_type, nights, price_cents)
			 VALUES ($1, $2, $3, $4, $5)`,
			b.ID, h.HotelID, h.RoomType, h.Nights, h.PriceCents,
		)
	}
	for _, t := range d.Transfers {
		batch.Queue(
			`INSERT INTO booking_transfers(booking_id, description, price_cents)
			 VALUES ($1, $2, $3)`,
			b.ID, t.Description, t.PriceCents,
		)
	}
	for _, e := range d.Excursions {
		batch.Queue(
			`INSERT INTO booking_excursions(booking_id, excursion_id, quantity, price_cents)
			 VALUES ($1, $2, $3, $4)`,
			b.ID, e.ExcursionID, e.Quantity, e.PriceCents,
		)
	}
	if batch.Len() > 0 {
		if err := db.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("%s:%w", op, err)
		}
	}

	return nil
}

func (r *BookingRepo) cancelCore(ctx context.Context, db DB, code string) (*domain.Booking, error) {
	const op = "postgresrepo.BookingRepo.cancelCore"

	b, err := r.With(db).UpdateStatus(ctx, code,
		[]domain.BookingStatus{domain.BookingSoft, domain.BookingConfirmed},
		domain.BookingCancelled,
	)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(ctx,
		`UPDATE flights f
		 SET available_seats = LEAST(f.total_seats, f.available_seats + bf.passengers)
		 FROM booking_flights bf
		 WHERE bf.booking_id = $1 AND bf.flight_id = f.id AND f.is_block_seat`,
		b.ID,
	); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return b, nil
}

func stampColumn(to domain.BookingStatus) (string, bool) {
	switch to {
	case domain.BookingConfirmed:
		return "confirmed_at", true
	case domain.BookingPaid:
		return "paid_at", true
	case domain.BookingCancelled:
		return "cancelled_at", true
	default:
		return "", false
	}
}
