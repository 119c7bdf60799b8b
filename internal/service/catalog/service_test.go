package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/kirinyoku/voyago/internal/domain"
	"github.com/kirinyoku/voyago/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) ListCities(ctx context.Context) ([]domain.City, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.City), args.Error(1)
}

func (m *MockRepo) ListCountries(ctx context.Context) ([]domain.Country, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Country), args.Error(1)
}

func (m *MockRepo) ListDestinations(ctx context.Context, at time.Time) ([]domain.City, error) {
	args := m.Called(ctx, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.City), args.Error(1)
}

func (m *MockRepo) ListHotelsWithPackageCount(ctx context.Context) ([]domain.HotelWithPackageCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.HotelWithPackageCount), args.Error(1)
}

func (m *MockRepo) SearchHotels(ctx context.Context, cityID int64, from, to time.Time, guests int) ([]domain.Hotel, error) {
	args := m.Called(ctx, cityID, from, to, guests)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Hotel), args.Error(1)
}

func (m *MockRepo) ListExcursions(ctx context.Context, cityID int64) ([]domain.Excursion, error) {
	args := m.Called(ctx, cityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Excursion), args.Error(1)
}

func (m *MockRepo) ListPackagesByCity(ctx context.Context, cityID int64, at time.Time) ([]domain.Package, error) {
	args := m.Called(ctx, cityID, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Package), args.Error(1)
}

func (m *MockRepo) GetPackage(ctx context.Context, id int64) (*domain.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}

// without a cache the service goes straight to the repo
func newUncached(repo *MockRepo) *Service {
	return New(repo, nil, Config{})
}

func TestListCities_EmptyResultIsNotNil(t *testing.T) {
	repo := &MockRepo{}
	svc := newUncached(repo)

	ctx := context.Background()
	repo.On("ListCities", ctx).Return([]domain.City(nil), nil).Once()

	out, err := svc.ListCities(ctx)

	assert.NoError(t, err)
	assert.NotNil(t, out)
	assert.Empty(t, out)

	repo.AssertExpectations(t)
}

func TestSearchHotels_RequiresCity(t *testing.T) {
	repo := &MockRepo{}
	svc := newUncached(repo)

	now := time.Now()
	_, err := svc.SearchHotels(context.Background(), 0, now, now.AddDate(0, 0, 7), 2)

	assert.Error(t, err)
	repo.AssertNotCalled(t, "SearchHotels", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearchHotels_RejectsInvertedWindow(t *testing.T) {
	repo := &MockRepo{}
	svc := newUncached(repo)

	now := time.Now()
	_, err := svc.SearchHotels(context.Background(), 1, now, now.AddDate(0, 0, -1), 2)

	assert.Error(t, err)
}

func TestSearchHotels_DefaultsGuestsToOne(t *testing.T) {
	repo := &MockRepo{}
	svc := newUncached(repo)

	ctx := context.Background()
	from := time.Now()
	to := from.AddDate(0, 0, 7)

	repo.On("SearchHotels", ctx, int64(1), from, to, 1).Return([]domain.Hotel{{ID: 10001}}, nil).Once()

	out, err := svc.SearchHotels(ctx, 1, from, to, 0)

	assert.NoError(t, err)
	assert.Len(t, out, 1)

	repo.AssertExpectations(t)
}

func TestGetPackage_TranslatesNotFound(t *testing.T) {
	repo := &MockRepo{}
	svc := newUncached(repo)

	ctx := context.Background()
	repo.On("GetPackage", ctx, int64(404)).Return(nil, repository.ErrNotFound).Once()

	_, err := svc.GetPackage(ctx, 404)

	assert.ErrorIs(t, err, ErrPackageNotFound)
}

func TestListPackagesByCity_RequiresCity(t *testing.T) {
	repo := &MockRepo{}
	svc := newUncached(repo)

	_, err := svc.ListPackagesByCity(context.Background(), 0, time.Now())

	assert.Error(t, err)
}
