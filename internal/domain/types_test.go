package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	statuses := []BookingStatus{BookingSoft, BookingConfirmed, BookingPaid, BookingCancelled}

	allowed := map[BookingStatus][]BookingStatus{
		BookingSoft:      {BookingConfirmed, BookingCancelled},
		BookingConfirmed: {BookingPaid, BookingCancelled},
		BookingPaid:      {},
		BookingCancelled: {},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			want := false
			for _, a := range allowed[from] {
				if a == to {
					want = true
				}
			}

			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestActor_IsStaff(t *testing.T) {
	assert.False(t, Actor{UserID: 1, Role: RoleUser}.IsStaff())
	assert.True(t, Actor{UserID: 2, Role: RoleAgent}.IsStaff())
	assert.True(t, Actor{UserID: 3, Role: RoleAdmin}.IsStaff())
}
