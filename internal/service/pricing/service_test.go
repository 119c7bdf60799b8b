package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var testPrices = []domain.PackagePrice{
	{
		PackageID: 1, Adults: 2, Children: 0,
		HotelName: "Marriott", FlightBlockID: "BLOCK-1",
		FlightCents: 40000, HotelCents: 60000, TransferCents: 5000, TotalCents: 105000,
	},
	{
		PackageID: 1, Adults: 2, Children: 1,
		HotelName: "Marriott", FlightBlockID: "BLOCK-1",
		FlightCents: 55000, HotelCents: 70000, TransferCents: 5000, TotalCents: 130000,
	},
	{
		PackageID: 1, Adults: 2, Children: 0,
		HotelName: "Marriott", FlightBlockID: "BLOCK-2",
		FlightCents: 42000, HotelCents: 60000, TransferCents: 0, TotalCents: 102000,
	},
}

func TestFindPrice_ExactTupleOnly(t *testing.T) {
	testCases := []struct {
		name          string
		hotelName     string
		flightBlockID string
		adults        int
		children      int
		wantFound     bool
		wantTotal     int64
	}{
		{
			name:      "exact match",
			hotelName: "Marriott", flightBlockID: "BLOCK-1",
			adults: 2, children: 0,
			wantFound: true, wantTotal: 105000,
		},
		{
			name:      "children distinguish rows",
			hotelName: "Marriott", flightBlockID: "BLOCK-1",
			adults: 2, children: 1,
			wantFound: true, wantTotal: 130000,
		},
		{
			name:      "block distinguishes rows",
			hotelName: "Marriott", flightBlockID: "BLOCK-2",
			adults: 2, children: 0,
			wantFound: true, wantTotal: 102000,
		},
		{
			name:      "hotel not priced",
			hotelName: "Hilton", flightBlockID: "BLOCK-1",
			adults: 2, children: 0,
			wantFound: false,
		},
		{
			name:      "no nearest-match fallback on occupancy",
			hotelName: "Marriott", flightBlockID: "BLOCK-1",
			adults: 3, children: 0,
			wantFound: false,
		},
		{
			name:      "empty hotel never matches",
			hotelName: "", flightBlockID: "BLOCK-1",
			adults: 2, children: 0,
			wantFound: false,
		},
		{
			name:      "empty block never matches",
			hotelName: "Marriott", flightBlockID: "",
			adults: 2, children: 0,
			wantFound: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			q, found := FindPrice(testPrices, tc.hotelName, tc.flightBlockID, tc.adults, tc.children)

			assert.Equal(t, tc.wantFound, found)
			if tc.wantFound {
				assert.Equal(t, tc.wantTotal, q.TotalCents)
				assert.Equal(t, q.TotalCents, q.FlightCents+q.HotelCents+q.TransferCents)
			} else {
				assert.Zero(t, q.TotalCents)
			}
		})
	}
}

type MockPriceSource struct {
	mock.Mock
}

func (m *MockPriceSource) PricesForPackage(ctx context.Context, packageID int64) ([]domain.PackagePrice, error) {
	args := m.Called(ctx, packageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PackagePrice), args.Error(1)
}

func TestQuotePackage_Found(t *testing.T) {
	src := &MockPriceSource{}
	svc := New(src, Config{Currency: "EUR"})

	ctx := context.Background()
	src.On("PricesForPackage", ctx, int64(1)).Return(testPrices, nil).Once()

	q, found, err := svc.QuotePackage(ctx, 1, "Marriott", "BLOCK-1", 2, 0)

	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, int64(105000), q.TotalCents)
	assert.Equal(t, "EUR", q.Currency)

	src.AssertExpectations(t)
}

func TestQuotePackage_MissingTupleIsNotAnError(t *testing.T) {
	src := &MockPriceSource{}
	svc := New(src, Config{})

	ctx := context.Background()
	src.On("PricesForPackage", ctx, int64(1)).Return(testPrices, nil).Once()

	q, found, err := svc.QuotePackage(ctx, 1, "Hilton", "BLOCK-1", 2, 0)

	assert.NoError(t, err)
	assert.False(t, found)
	assert.Zero(t, q.TotalCents)

	src.AssertExpectations(t)
}

func TestQuotePackage_SourceError(t *testing.T) {
	src := &MockPriceSource{}
	svc := New(src, Config{})

	ctx := context.Background()
	src.On("PricesForPackage", ctx, int64(1)).Return(nil, errors.New("db down")).Once()

	_, found, err := svc.QuotePackage(ctx, 1, "Marriott", "BLOCK-1", 2, 0)

	assert.Error(t, err)
	assert.False(t, found)

	src.AssertExpectations(t)
}
