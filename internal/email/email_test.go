package email

import (
	"bytes"
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/kirinyoku/voyago/internal/kafka"
	"github.com/stretchr/testify/assert"
)

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "123.45 EUR", FormatAmount(12345, "EUR"))
	assert.Equal(t, "0.05 EUR", FormatAmount(5, "EUR"))
	assert.Equal(t, "1050.00 USD", FormatAmount(105000, "USD"))
	assert.Equal(t, "-12.30 EUR", FormatAmount(-1230, "EUR"))
}

func TestCompose_PerEventType(t *testing.T) {
	event := kafka.BookingEvent{
		Type:       "booking_confirmed",
		Code:       "VG-7KQ2MX",
		Name:       "Ada Example",
		TotalCents: 105000,
		Currency:   "EUR",
	}

	subject, body := compose(event)
	assert.Contains(t, subject, "VG-7KQ2MX")
	assert.Contains(t, subject, "confirmed")
	assert.Contains(t, body, "1050.00 EUR")

	event.Type = "booking_cancelled"
	subject, _ = compose(event)
	assert.Contains(t, subject, "cancelled")

	event.Type = "something_else"
	event.Status = "PAID"
	_, body = compose(event)
	assert.Contains(t, body, "PAID")
}

// The log-only transport is the delivery contract for now, so the composed
// body has to land in the log record, not just the subject.
func TestSend_LogsComposedBody(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	err := NewSender(logger).Send(context.Background(), kafka.BookingEvent{
		Type:       "booking_paid",
		Code:       "VG-7KQ2MX",
		Email:      "ada@example.com",
		Name:       "Ada Example",
		TotalCents: 105000,
		Currency:   "EUR",
	})
	assert.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "ada@example.com")
	assert.Contains(t, out, "we received your payment of 1050.00 EUR")
}

func TestRenderVoucher(t *testing.T) {
	v := RenderVoucher(kafka.BookingEvent{
		Code:       "VG-7KQ2MX",
		Name:       "Ada Example",
		Status:     "CONFIRMED",
		TotalCents: 105000,
		Currency:   "EUR",
		OccurredAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	})

	assert.Contains(t, v, "TRAVEL VOUCHER")
	assert.Contains(t, v, "VG-7KQ2MX")
	assert.Contains(t, v, "1050.00 EUR")
	assert.Contains(t, v, "2025-06-01")
}
