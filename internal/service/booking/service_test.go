package booking

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockStore struct {
	mock.Mock
}

func (m *MockStore) GetByCode(ctx context.Context, code string) (*domain.BookingDetails, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetails), args.Error(1)
}

func (m *MockStore) CreateWithSeatHold(ctx context.Context, d *domain.BookingDetails) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *MockStore) UpdateStatus(ctx context.Context, code string, from []domain.BookingStatus, to domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, code, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockStore) CancelWithSeatRelease(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockStore) SearchByCode(ctx context.Context, code string) (*domain.Booking, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockStore) PendingPayments(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockQuoter struct {
	mock.Mock
}

func (m *MockQuoter) QuotePackage(ctx context.Context, packageID int64, hotelName, flightBlockID string, adults, children int) (domain.Quote, bool, error) {
	args := m.Called(ctx, packageID, hotelName, flightBlockID, adults, children)
	return args.Get(0).(domain.Quote), args.Bool(1), args.Error(2)
}

type MockBlockSource struct {
	mock.Mock
}

func (m *MockBlockSource) FlightsByBlockGroup(ctx context.Context, blockGroupID string) ([]domain.Flight, error) {
	args := m.Called(ctx, blockGroupID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, payload any) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

func newTestService(store *MockStore, quoter *MockQuoter, blocks *MockBlockSource, producer *MockProducer) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return New(store, quoter, blocks, producer, logger, Config{
		Currency:           "EUR",
		BookingTopic:       "booking-events",
		NotificationsTopic: "booking-notifications",
	})
}

var (
	testQuote = domain.Quote{
		FlightCents:   40001,
		HotelCents:    60000,
		TransferCents: 5000,
		TotalCents:    105001,
		Currency:      "EUR",
	}

	testLegs = []domain.Flight{
		{ID: 11, IsBlockSeat: true},
		{ID: 12, IsBlockSeat: true},
	}

	testInput = CreateInput{
		PackageID:     1,
		HotelID:       10001,
		HotelName:     "Marriott",
		FlightBlockID: "BLOCK-1",
		Adults:        2,
		Children:      0,
		Nights:        7,
		RoomType:      "DBL",
		ContactName:   "Ada Example",
		ContactEmail:  "ada@example.com",
	}
)

func TestCreate_Success(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()
	actor := domain.Actor{UserID: 7, Role: domain.RoleUser}

	quoter.On("QuotePackage", ctx, int64(1), "Marriott", "BLOCK-1", 2, 0).Return(testQuote, true, nil).Once()
	blocks.On("FlightsByBlockGroup", ctx, "BLOCK-1").Return(testLegs, nil).Once()
	store.On("CreateWithSeatHold", ctx, mock.AnythingOfType("*domain.BookingDetails")).Return(nil).Once()
	producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	d, err := svc.Create(ctx, actor, testInput)

	assert.NoError(t, err)
	assert.NotNil(t, d)
	assert.Equal(t, int64(7), d.Booking.UserID)
	assert.Equal(t, int64(105001), d.Booking.TotalCents)
	assert.NotEmpty(t, d.Booking.Code)

	// flight component spread across both legs, remainder on the first
	assert.Len(t, d.Flights, 2)
	assert.Equal(t, testQuote.FlightCents, d.Flights[0].PriceCents+d.Flights[1].PriceCents)
	assert.Equal(t, 2, d.Flights[0].Passengers)

	assert.Len(t, d.Hotels, 1)
	assert.Equal(t, int64(60000), d.Hotels[0].PriceCents)
	assert.Equal(t, 7, d.Hotels[0].Nights)

	assert.Len(t, d.Transfers, 1)
	assert.Equal(t, int64(5000), d.Transfers[0].PriceCents)

	store.AssertExpectations(t)
	quoter.AssertExpectations(t)
	blocks.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestCreate_PriceNotFound(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	quoter.On("QuotePackage", ctx, int64(1), "Marriott", "BLOCK-1", 2, 0).Return(domain.Quote{}, false, nil).Once()

	d, err := svc.Create(ctx, domain.Actor{UserID: 7}, testInput)

	assert.Nil(t, d)
	assert.ErrorIs(t, err, ErrPriceNotFound)

	quoter.AssertExpectations(t)
	store.AssertNotCalled(t, "CreateWithSeatHold", mock.Anything, mock.Anything)
}

func TestCreate_BlockNotFound(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	quoter.On("QuotePackage", ctx, int64(1), "Marriott", "BLOCK-1", 2, 0).Return(testQuote, true, nil).Once()
	blocks.On("FlightsByBlockGroup", ctx, "BLOCK-1").Return([]domain.Flight{}, nil).Once()

	_, err := svc.Create(ctx, domain.Actor{UserID: 7}, testInput)

	assert.ErrorIs(t, err, ErrBlockNotFound)
}

func TestCreate_SeatsUnavailable(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	quoter.On("QuotePackage", ctx, int64(1), "Marriott", "BLOCK-1", 2, 0).Return(testQuote, true, nil).Once()
	blocks.On("FlightsByBlockGroup", ctx, "BLOCK-1").Return(testLegs, nil).Once()
	store.On("CreateWithSeatHold", ctx, mock.Anything).Return(repository.ErrSeatsUnavailable).Once()

	_, err := svc.Create(ctx, domain.Actor{UserID: 7}, testInput)

	assert.ErrorIs(t, err, ErrSeatsUnavailable)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreate_RetriesOnCodeCollision(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	quoter.On("QuotePackage", ctx, int64(1), "Marriott", "BLOCK-1", 2, 0).Return(testQuote, true, nil).Once()
	blocks.On("FlightsByBlockGroup", ctx, "BLOCK-1").Return(testLegs, nil).Once()
	store.On("CreateWithSeatHold", ctx, mock.Anything).Return(repository.ErrConflict).Once()
	store.On("CreateWithSeatHold", ctx, mock.Anything).Return(nil).Once()
	producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	d, err := svc.Create(ctx, domain.Actor{UserID: 7}, testInput)

	assert.NoError(t, err)
	assert.NotNil(t, d)
	store.AssertNumberOfCalls(t, "CreateWithSeatHold", 2)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(&MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{})

	ctx := context.Background()

	noAdults := testInput
	noAdults.Adults = 0
	_, err := svc.Create(ctx, domain.Actor{UserID: 7}, noAdults)
	assert.Error(t, err)

	noEmail := testInput
	noEmail.ContactEmail = ""
	_, err = svc.Create(ctx, domain.Actor{UserID: 7}, noEmail)
	assert.Error(t, err)
}

func TestConfirm_Success(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()
	actor := domain.Actor{UserID: 7, Role: domain.RoleUser}

	soft := &domain.Booking{Code: "VG-ABC234", UserID: 7, Status: domain.BookingSoft}
	confirmed := &domain.Booking{Code: "VG-ABC234", UserID: 7, Status: domain.BookingConfirmed}

	store.On("SearchByCode", ctx, "VG-ABC234").Return(soft, nil).Once()
	store.On("UpdateStatus", ctx, "VG-ABC234",
		[]domain.BookingStatus{domain.BookingSoft}, domain.BookingConfirmed,
	).Return(confirmed, nil).Once()
	producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	b, err := svc.Confirm(ctx, actor, "VG-ABC234")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)

	store.AssertExpectations(t)
	producer.AssertExpectations(t)
}

func TestConfirm_UnknownCode(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	store.On("SearchByCode", ctx, "VG-MISSING").Return(nil, repository.ErrNotFound).Once()

	_, err := svc.Confirm(ctx, domain.Actor{UserID: 7}, "VG-MISSING")

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestConfirm_InvalidTransition(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	paid := &domain.Booking{Code: "VG-ABC234", UserID: 7, Status: domain.BookingPaid}

	store.On("SearchByCode", ctx, "VG-ABC234").Return(paid, nil).Once()
	store.On("UpdateStatus", ctx, "VG-ABC234",
		[]domain.BookingStatus{domain.BookingSoft}, domain.BookingConfirmed,
	).Return(nil, repository.ErrInvalidTransition).Once()

	_, err := svc.Confirm(ctx, domain.Actor{UserID: 7}, "VG-ABC234")

	assert.ErrorIs(t, err, ErrInvalidTransition)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetByCode_ForbiddenForStrangers(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	owned := &domain.BookingDetails{Booking: domain.Booking{Code: "VG-ABC234", UserID: 7}}
	store.On("GetByCode", ctx, "VG-ABC234").Return(owned, nil)

	_, err := svc.GetByCode(ctx, domain.Actor{UserID: 99, Role: domain.RoleUser}, "VG-ABC234")
	assert.ErrorIs(t, err, ErrForbidden)

	// the owner and staff both pass
	_, err = svc.GetByCode(ctx, domain.Actor{UserID: 7, Role: domain.RoleUser}, "VG-ABC234")
	assert.NoError(t, err)

	_, err = svc.GetByCode(ctx, domain.Actor{UserID: 99, Role: domain.RoleAgent}, "VG-ABC234")
	assert.NoError(t, err)
}

func TestCancel_ReleasesSeats(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	confirmed := &domain.Booking{Code: "VG-ABC234", UserID: 7, Status: domain.BookingConfirmed}
	cancelled := &domain.Booking{Code: "VG-ABC234", UserID: 7, Status: domain.BookingCancelled}

	store.On("SearchByCode", ctx, "VG-ABC234").Return(confirmed, nil).Once()
	store.On("CancelWithSeatRelease", ctx, "VG-ABC234").Return(cancelled, nil).Once()
	producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	b, err := svc.Cancel(ctx, domain.Actor{UserID: 7}, "VG-ABC234")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)

	store.AssertExpectations(t)
}

func TestMarkPaid_StaffOnly(t *testing.T) {
	store, quoter, blocks, producer := &MockStore{}, &MockQuoter{}, &MockBlockSource{}, &MockProducer{}
	svc := newTestService(store, quoter, blocks, producer)

	ctx := context.Background()

	_, err := svc.MarkPaid(ctx, domain.Actor{UserID: 7, Role: domain.RoleUser}, "VG-ABC234")
	assert.ErrorIs(t, err, ErrForbidden)
	store.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	paid := &domain.Booking{Code: "VG-ABC234", Status: domain.BookingPaid}
	store.On("UpdateStatus", ctx, "VG-ABC234",
		[]domain.BookingStatus{domain.BookingConfirmed}, domain.BookingPaid,
	).Return(paid, nil).Once()
	producer.On("Publish", ctx, mock.Anything, mock.Anything, mock.Anything).Return(nil).Twice()

	b, err := svc.MarkPaid(ctx, domain.Actor{UserID: 1, Role: domain.RoleAgent}, "VG-ABC234")

	assert.NoError(t, err)
	assert.Equal(t, domain.BookingPaid, b.Status)
}

func TestNewReservationCode_Format(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		code := newReservationCode()

		assert.Len(t, code, 9)
		assert.Equal(t, "VG-", code[:3])
		for _, r := range code[3:] {
			assert.Contains(t, codeAlphabet, string(r))
		}

		seen[code] = true
	}

	// 100 draws from a 32^6 space should not collide
	assert.Greater(t, len(seen), 95)
}
