package postgresrepo

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/repository"
	"github.com/stretchr/testify/assert"
)

// execRecorder captures the statement an operation sends so tests can pin
// down which columns it touches.
type execRecorder struct {
	sql  string
	args []any
	tag  pgconn.CommandTag
}

func (r *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = sql
	r.args = args
	return r.tag, nil
}

func (r *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected Query")
}

func (r *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected QueryRow")
}

func (r *execRecorder) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("unexpected SendBatch")
}

// Editing a block leg's schedule must never touch its block membership or
// overwrite the seats held by existing bookings: a leg stripped of
// is_block_seat would vanish from block lookups and skip seat release on
// cancellation.
func TestUpdateFlight_PreservesBlockMembershipAndHeldSeats(t *testing.T) {
	rec := &execRecorder{tag: pgconn.NewCommandTag("UPDATE 1")}
	repo := (&AdminRepo{}).With(rec)

	f := &domain.Flight{
		ID:                 42,
		DepartureAirportID: 1,
		ArrivalAirportID:   2,
		DepartsAt:          time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC),
		ArrivesAt:          time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
		TotalSeats:         50,
		// zero-valued on purpose: the transport layer does not carry these
		BlockGroupID:   nil,
		AvailableSeats: 0,
		IsBlockSeat:    false,
	}

	err := repo.UpdateFlight(context.Background(), f)
	assert.NoError(t, err)

	assert.NotContains(t, rec.sql, "block_group_id")
	assert.NotContains(t, rec.sql, "is_block_seat")

	// capacity changes shift available_seats by the delta instead of
	// overwriting the bookings-held count
	assert.Contains(t, rec.sql, "available_seats = GREATEST(0, available_seats + ($6 - total_seats))")

	assert.Equal(t, []any{
		int64(42), int64(1), int64(2), f.DepartsAt, f.ArrivesAt, 50,
	}, rec.args)
}

func TestUpdateFlight_UnknownID(t *testing.T) {
	rec := &execRecorder{tag: pgconn.NewCommandTag("UPDATE 0")}
	repo := (&AdminRepo{}).With(rec)

	err := repo.UpdateFlight(context.Background(), &domain.Flight{ID: 404})

	assert.ErrorIs(t, err, repository.ErrNotFound)
}
