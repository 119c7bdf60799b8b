package booking

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/kafka"
	"github.com/kirinyoku/voyago/internal/repository"
)

// Store is the transactional persistence surface of the booking lifecycle.
// The composite operations (create with seat hold, cancel with seat release)
// run inside a single serializable transaction in the implementation.
type Store interface {
	GetByCode(ctx context.Context, code string) (*domain.BookingDetails, error)
	CreateWithSeatHold(ctx context.Context, d *domain.BookingDetails) error
	UpdateStatus(ctx context.Context, code string, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error)
	CancelWithSeatRelease(ctx context.Context, code string) (*domain.Booking, error)
	SearchByCode(ctx context.Context, code string) (*domain.Booking, error)
	PendingPayments(ctx context.Context) ([]domain.Booking, error)
}

// Quoter resolves the exact-tuple package price for a checkout selection.
type Quoter interface {
	QuotePackage(ctx context.Context, packageID int64, hotelName, flightBlockID string, adults, children int) (domain.Quote, bool, error)
}

// BlockSource resolves the sellable legs of a flight block group.
type BlockSource interface {
	FlightsByBlockGroup(ctx context.Context, blockGroupID string) ([]domain.Flight, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, payload any) error
}

type Config struct {
	Currency           string
	BookingTopic       string
	NotificationsTopic string
	CodeAttempts       int
}

type Service struct {
	store    Store
	quoter   Quoter
	blocks   BlockSource
	producer Producer
	logger   *slog.Logger
	cfg      Config
}

func New(
	store Store,
	quoter Quoter,
	blocks BlockSource,
	producer Producer,
	logger *slog.Logger,
	cfg Config,
) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}

	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = 5
	}

	return &Service{
		store:    store,
		quoter:   quoter,
		blocks:   blocks,
		producer: producer,
		logger:   logger,
		cfg:      cfg,
	}
}

type CreateInput struct {
	PackageID     int64
	HotelID       int64
	HotelName     string
	FlightBlockID string
	Adults        int
	Children      int
	Nights        int
	RoomType      string
	ContactName   string
	ContactEmail  string
	ContactPhone  string
}

// Create prices the selection, then holds seats on both legs of the block and
// inserts a SOFT booking in one transaction. A booking_created event is
// published after the transaction commits; publish failures are logged, never
// surfaced to the caller.
//
// Returns:
//   - error: booking.ErrPriceNotFound if no price row matches the tuple.
//   - error: booking.ErrBlockNotFound if the block has no sellable legs.
//   - error: booking.ErrSeatsUnavailable if a leg lacks seats.
func (s *Service) Create(ctx context.Context, actor domain.Actor, in CreateInput) (*domain.BookingDetails, error) {
	const op = "service.booking.Create"

	if in.Adults <= 0 {
		return nil, fmt.Errorf("%s: at least one adult is required", op)
	}

	if in.ContactEmail == "" {
		return nil, fmt.Errorf("%s: contact email is required", op)
	}

	quote, found, err := s.quoter.QuotePackage(
		ctx, in.PackageID, in.HotelName, in.FlightBlockID, in.Adults, in.Children,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("%s:%w", op, ErrPriceNotFound)
	}

	legs, err := s.blocks.FlightsByBlockGroup(ctx, in.FlightBlockID)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}
	if len(legs) == 0 {
		return nil, fmt.Errorf("%s:%w", op, ErrBlockNotFound)
	}

	passengers := in.Adults + in.Children

	d := &domain.BookingDetails{
		Booking: domain.Booking{
			UserID:       actor.UserID,
			ContactName:  in.ContactName,
			ContactEmail: in.ContactEmail,
			ContactPhone: in.ContactPhone,
			Adults:       in.Adults,
			Children:     in.Children,
			TotalCents:   quote.TotalCents,
			Currency:     s.cfg.Currency,
		},
	}

	// The flight component of the quote covers the whole block pair; spread
	// it over the legs with the remainder on the first.
	per := quote.FlightCents / int64(len(legs))
	rem := quote.FlightCents - per*int64(len(legs))
	for i, leg := range legs {
		price := per
		if i == 0 {
			price += rem
		}
		d.Flights = append(d.Flights, domain.BookingFlight{
			FlightID:   leg.ID,
			Passengers: passengers,
			PriceCents: price,
		})
	}

	d.Hotels = append(d.Hotels, domain.BookingHotel{
		HotelID:    in.HotelID,
		RoomType:   in.RoomType,
		Nights:     in.Nights,
		PriceCents: quote.HotelCents,
	})

	if quote.TransferCents > 0 {
		d.Transfers = append(d.Transfers, domain.BookingTransfer{
			Description: "airport transfer",
			PriceCents:  quote.TransferCents,
		})
	}

	// A fresh random code can collide with an existing booking; the unique
	// constraint surfaces that as ErrConflict and we retry with a new code.
	for attempt := 0; ; attempt++ {
		d.Booking.Code = newReservationCode()

		err = s.store.CreateWithSeatHold(ctx, d)
		if err == nil {
			break
		}

		if errors.Is(err, repository.ErrConflict) && attempt+1 < s.cfg.CodeAttempts {
			continue
		}

		if errors.Is(err, repository.ErrSeatsUnavailable) {
			return nil, fmt.Errorf("%s:%w", op, ErrSeatsUnavailable)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	s.publish(ctx, "booking_created", &d.Booking)

	return d, nil
}

// GetByCode retrieves a booking for its owner or for staff.
//
// Returns:
//   - error: booking.ErrBookingNotFound if the code is unknown.
//   - error: booking.ErrForbidden if the caller neither owns the booking nor
//     holds an agent/admin role.
func (s *Service) GetByCode(ctx context.Context, actor domain.Actor, code string) (*domain.BookingDetails, error) {
	const op = "service.booking.GetByCode"

	d, err := s.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	if err := authorize(actor, &d.Booking); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return d, nil
}

// Confirm advances a SOFT booking to CONFIRMED and stamps the confirmation
// time. The durable transition commits first; the confirmation email and
// voucher are produced by the notification worker from the published event,
// so a notification failure can never undo or mask a committed confirmation.
func (s *Service) Confirm(ctx context.Context, actor domain.Actor, code string) (*domain.Booking, error) {
	const op = "service.booking.Confirm"

	if err := s.authorizeByCode(ctx, actor, code); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	b, err := s.store.UpdateStatus(ctx, code,
		[]domain.BookingStatus{domain.BookingSoft},
		domain.BookingConfirmed,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateErr(err))
	}

	s.publish(ctx, "booking_confirmed", b)

	return b, nil
}

// Cancel moves a SOFT or CONFIRMED booking to CANCELLED and returns its held
// seats to the flight block in the same transaction.
func (s *Service) Cancel(ctx context.Context, actor domain.Actor, code string) (*domain.Booking, error) {
	const op = "service.booking.Cancel"

	if err := s.authorizeByCode(ctx, actor, code); err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	b, err := s.store.CancelWithSeatRelease(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateErr(err))
	}

	s.publish(ctx, "booking_cancelled", b)

	return b, nil
}

// MarkPaid advances a CONFIRMED booking to PAID. Staff only.
func (s *Service) MarkPaid(ctx context.Context, actor domain.Actor, code string) (*domain.Booking, error) {
	const op = "service.booking.MarkPaid"

	if !actor.IsStaff() {
		return nil, fmt.Errorf("%s:%w", op, ErrForbidden)
	}

	b, err := s.store.UpdateStatus(ctx, code,
		[]domain.BookingStatus{domain.BookingConfirmed},
		domain.BookingPaid,
	)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, translateErr(err))
	}

	s.publish(ctx, "booking_paid", b)

	return b, nil
}

// SearchByCode is the agent back-office lookup. Role gating happens in the
// transport layer; the service only resolves the code.
func (s *Service) SearchByCode(ctx context.Context, code string) (*domain.Booking, error) {
	const op = "service.booking.SearchByCode"

	b, err := s.store.SearchByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s:%w", op, ErrBookingNotFound)
		}

		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return b, nil
}

// PendingPayments lists CONFIRMED bookings awaiting payment, oldest first.
func (s *Service) PendingPayments(ctx context.Context) ([]domain.Booking, error) {
	const op = "service.booking.PendingPayments"

	out, err := s.store.PendingPayments(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s:%w", op, err)
	}

	return out, nil
}

func (s *Service) authorizeByCode(ctx context.Context, actor domain.Actor, code string) error {
	b, err := s.store.SearchByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}

		return err
	}

	return authorize(actor, b)
}

func authorize(actor domain.Actor, b *domain.Booking) error {
	if b.UserID == actor.UserID || actor.IsStaff() {
		return nil
	}

	return ErrForbidden
}

func translateErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrBookingNotFound
	case errors.Is(err, repository.ErrInvalidTransition):
		return ErrInvalidTransition
	default:
		return err
	}
}

func (s *Service) publish(ctx context.Context, eventType string, b *domain.Booking) {
	if s.producer == nil {
		return
	}

	event := kafka.BookingEvent{
		Type:       eventType,
		Code:       b.Code,
		Email:      b.ContactEmail,
		Name:       b.ContactName,
		Status:     string(b.Status),
		TotalCents: b.TotalCents,
		Currency:   b.Currency,
		OccurredAt: time.Now(),
	}

	for _, topic := range []string{s.cfg.BookingTopic, s.cfg.NotificationsTopic} {
		if topic == "" {
			continue
		}
		if err := s.producer.Publish(ctx, topic, b.Code, event); err != nil {
			s.logger.Warn("failed to publish booking event",
				"type", eventType, "code", b.Code, "topic", topic, "error", err)
		}
	}
}

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// newReservationCode returns a human-shareable code like "VG-7KQ2MX".
// Ambiguous characters (0/O, 1/I) are excluded from the alphabet.
func newReservationCode() string {
	buf := make([]byte, 6)
	_, _ = rand.Read(buf)

	out := make([]byte, 0, 9)
	out = append(out, 'V', 'G', '-')
	for _, b := range buf {
		out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
	}

	return string(out)
}
