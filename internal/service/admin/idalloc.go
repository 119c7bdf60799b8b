package admin

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/kirinyoku/voyago/internal/repository"
)

const (
	hotelIDMin = 10000
	hotelIDMax = 99999

	defaultIDAttempts = 20
)

// IDReserver atomically claims a candidate identifier. A taken candidate
// must surface as repository.ErrConflict.
type IDReserver interface {
	ReserveHotelID(ctx context.Context, id int64) error
}

// IDAllocator draws random 5-digit candidates and claims the first free one
// through an atomic insert against a unique constraint. Check-then-insert
// would race under concurrent allocations; insert-and-retry cannot.
type IDAllocator struct {
	reserver IDReserver
	attempts int
}

func NewIDAllocator(reserver IDReserver, attempts int) *IDAllocator {
	if attempts <= 0 {
		attempts = defaultIDAttempts
	}

	return &IDAllocator{
		reserver: reserver,
		attempts: attempts,
	}
}

// Allocate returns a claimed identifier in [10000, 99999].
//
// Returns:
//   - error: admin.ErrIDSpaceExhausted after the attempt bound; at high fill
//     ratios of the 90000-value space callers get an explicit failure instead
//     of an unbounded loop.
func (a *IDAllocator) Allocate(ctx context.Context) (int64, error) {
	const op = "admin.IDAllocator.Allocate"

	for i := 0; i < a.attempts; i++ {
		candidate := int64(hotelIDMin + rand.IntN(hotelIDMax-hotelIDMin+1))

		err := a.reserver.ReserveHotelID(ctx, candidate)
		if err == nil {
			return candidate, nil
		}

		if errors.Is(err, repository.ErrConflict) {
			continue
		}

		return 0, fmt.Errorf("%s:%w", op, err)
	}

	return 0, fmt.Errorf("%s:%w", op, ErrIDSpaceExhausted)
}
