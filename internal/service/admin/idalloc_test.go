package admin

import (
	"context"
	"errors"
	"testing"

	"github.com/kirinyoku/voyago/internal/repository"
	"github.com/stretchr/testify/assert"
)

type fakeReserver struct {
	taken map[int64]bool
	fail  error
	calls int
}

func (f *fakeReserver) ReserveHotelID(ctx context.Context, id int64) error {
	f.calls++
	if f.fail != nil {
		return f.fail
	}
	if f.taken[id] {
		return repository.ErrConflict
	}
	return nil
}

func TestIDAllocator_AllocatesInRange(t *testing.T) {
	alloc := NewIDAllocator(&fakeReserver{}, 0)

	for i := 0; i < 50; i++ {
		id, err := alloc.Allocate(context.Background())

		assert.NoError(t, err)
		assert.GreaterOrEqual(t, id, int64(hotelIDMin))
		assert.LessOrEqual(t, id, int64(hotelIDMax))
	}
}

func TestIDAllocator_RetriesTakenCandidates(t *testing.T) {
	// every id taken: the allocator must keep drawing until the bound
	reserver := &fakeReserver{fail: repository.ErrConflict}
	alloc := NewIDAllocator(reserver, 20)

	_, err := alloc.Allocate(context.Background())

	assert.ErrorIs(t, err, ErrIDSpaceExhausted)
	assert.Equal(t, 20, reserver.calls)
}

func TestIDAllocator_StopsOnStorageError(t *testing.T) {
	reserver := &fakeReserver{fail: errors.New("db down")}
	alloc := NewIDAllocator(reserver, 20)

	_, err := alloc.Allocate(context.Background())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrIDSpaceExhausted)
	assert.Equal(t, 1, reserver.calls)
}
