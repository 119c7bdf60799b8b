package email

import (
	"fmt"
	"strings"

	"github.com/kirinyoku/voyago/internal/kafka"
)

// RenderVoucher produces the plain-text voucher sent with confirmation
// emails. Layout is fixed-width so it prints cleanly.
func RenderVoucher(event kafka.BookingEvent) string {
	var b strings.Builder

	line := strings.Repeat("=", 48)

	b.WriteString(line + "\n")
	b.WriteString("                TRAVEL VOUCHER\n")
	b.WriteString(line + "\n")
	fmt.Fprintf(&b, "Reservation code : %s\n", event.Code)
	fmt.Fprintf(&b, "Guest            : %s\n", event.Name)
	fmt.Fprintf(&b, "Status           : %s\n", event.Status)
	fmt.Fprintf(&b, "Total            : %s\n", FormatAmount(event.TotalCents, event.Currency))
	fmt.Fprintf(&b, "Issued           : %s\n", event.OccurredAt.Format("2006-01-02 15:04 MST"))
	b.WriteString(line + "\n")
	b.WriteString("Present this voucher together with a valid ID\n")
	b.WriteString("at check-in and at the departure desk.\n")
	b.WriteString(line + "\n")

	return b.String()
}
