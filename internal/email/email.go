package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kirinyoku/voyago/internal/kafka"
)

// Sender delivers booking notification emails. The transport is a log-only
// stub until an SMTP relay is provisioned; the worker's contract (subject,
// body, voucher attachment for confirmations) is final.
type Sender struct {
	logger *slog.Logger
}

func NewSender(logger *slog.Logger) *Sender {
	return &Sender{logger: logger}
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, body := compose(event)

	s.logger.Info("sending booking email",
		"to", event.Email,
		"subject", subject,
		"code", event.Code,
		"body", body,
	)

	if event.Type == "booking_confirmed" {
		voucher := RenderVoucher(event)
		s.logger.Info("voucher attached", "code", event.Code, "bytes", len(voucher))
	}

	return nil
}

func compose(event kafka.BookingEvent) (subject, body string) {
	switch event.Type {
	case "booking_created":
		subject = fmt.Sprintf("Reservation %s received", event.Code)
		body = fmt.Sprintf(
			"Dear %s,\n\nwe are holding your reservation %s. Please confirm it to secure your seats.\n",
			event.Name, event.Code,
		)
	case "booking_confirmed":
		subject = fmt.Sprintf("Booking %s confirmed", event.Code)
		body = fmt.Sprintf(
			"Dear %s,\n\nyour booking %s is confirmed. Total due: %s. Your voucher is attached.\n",
			event.Name, event.Code, FormatAmount(event.TotalCents, event.Currency),
		)
	case "booking_paid":
		subject = fmt.Sprintf("Payment received for %s", event.Code)
		body = fmt.Sprintf(
			"Dear %s,\n\nwe received your payment of %s for booking %s. Have a great trip!\n",
			event.Name, FormatAmount(event.TotalCents, event.Currency), event.Code,
		)
	case "booking_cancelled":
		subject = fmt.Sprintf("Booking %s cancelled", event.Code)
		body = fmt.Sprintf(
			"Dear %s,\n\nyour booking %s has been cancelled.\n",
			event.Name, event.Code,
		)
	default:
		subject = fmt.Sprintf("Update on booking %s", event.Code)
		body = fmt.Sprintf("Dear %s,\n\nyour booking %s was updated to %s.\n",
			event.Name, event.Code, event.Status)
	}

	return subject, body
}

// FormatAmount renders a cent amount as "123.45 EUR".
func FormatAmount(cents int64, currency string) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return fmt.Sprintf("%s%d.%02d %s", sign, cents/100, cents%100, currency)
}
