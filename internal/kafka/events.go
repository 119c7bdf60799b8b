package kafka

import "time"

// BookingEvent is the wire format published on every booking lifecycle
// transition and consumed by the notification worker.
type BookingEvent struct {
	Type       string    `json:"type"` // booking_created | booking_confirmed | booking_paid | booking_cancelled
	Code       string    `json:"code"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Status     string    `json:"status"`
	TotalCents int64     `json:"total_cents"`
	Currency   string    `json:"currency"`
	OccurredAt time.Time `json:"occurred_at"`
}
