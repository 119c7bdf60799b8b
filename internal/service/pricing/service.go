package pricing

import (
	"context"
	"fmt"

	"github.com/kirinyoku/voyago/internal/domain"
)

// PriceSource loads the precomputed price rows owned by a package.
type PriceSource interface {
	PricesForPackage(ctx context.Context, packageID int64) ([]domain.PackagePrice, error)
}

type Config struct {
	Currency string
}

type Service struct {
	prices PriceSource
	cfg    Config
}

func New(prices PriceSource, cfg Config) *Service {
	if cfg.Currency == "" {
		cfg.Currency = "EUR"
	}

	return &Service{
		prices: prices,
		cfg:    cfg,
	}
}

// FindPrice scans the candidate rows for the first entry whose
// (adults, children, hotel name, flight block id) all equal the requested
// tuple. There is no interpolation and no nearest-match fallback: margins and
// occupancy pricing are baked into the rows by the offline pricing job, so a
// missing tuple means the combination is simply not sellable.
func FindPrice(
	prices []domain.PackagePrice,
	hotelName, flightBlockID string,
	adults, children int,
) (domain.Quote, bool) {
	if hotelName == "" || flightBlockID == "" {
		return domain.Quote{}, false
	}

	for _, p := range prices {
		if p.Adults == adults &&
			p.Children == children &&
			p.HotelName == hotelName &&
			p.FlightBlockID == flightBlockID {
			return domain.Quote{
				FlightCents:   p.FlightCents,
				HotelCents:    p.HotelCents,
				TransferCents: p.TransferCents,
				TotalCents:    p.TotalCents,
			}, true
		}
	}

	return domain.Quote{}, false
}

// QuotePackage loads the package's price rows and applies the exact-tuple
// lookup. A missing tuple is not an error: found=false and a zero quote.
func (s *Service) QuotePackage(
	ctx context.Context,
	packageID int64,
	hotelName, flightBlockID string,
	adults, children int,
) (domain.Quote, bool, error) {
	const op = "service.pricing.QuotePackage"

	rows, err := s.prices.PricesForPackage(ctx, packageID)
	if err != nil {
		return domain.Quote{}, false, fmt.Errorf("%s:%w", op, err)
	}

	q, found := FindPrice(rows, hotelName, flightBlockID, adults, children)
	if !found {
		return domain.Quote{}, false, nil
	}

	q.Currency = s.cfg.Currency

	return q, true, nil
}
