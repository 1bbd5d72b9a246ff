package queries_test

import (
	"context"
	"errors"
	"testing"

	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDriverLocator struct{ mock.Mock }

func (m *MockDriverLocator) FindNearbyDrivers(
	ctx context.Context,
	point kernel.GeoPoint,
	radiusKm float64,
	limit int,
) ([]services.DriverCandidate, error) {
	args := m.Called(ctx, point, radiusKm, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]services.DriverCandidate), args.Error(1)
}

func TestNewFindNearbyDriversQuery_Defaults(t *testing.T) {
	query, err := queries.NewFindNearbyDriversQuery(52.52, 13.405, 0, 0)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.InDelta(t, services.DefaultSearchRadiusKm, query.RadiusKm(), 1e-9)
	assert.Equal(t, services.DefaultCandidateLimit, query.Limit())
}

func TestNewFindNearbyDriversQuery_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name             string
		lat, lon, radius float64
		limit            int
	}{
		{name: "latitude out of range", lat: 91, lon: 13, radius: 5, limit: 10},
		{name: "longitude out of range", lat: 52, lon: -181, radius: 5, limit: 10},
		{name: "radius above the cap", lat: 52, lon: 13, radius: 50.5, limit: 10},
		{name: "negative radius", lat: 52, lon: 13, radius: -1, limit: 10},
		{name: "limit too large", lat: 52, lon: 13, radius: 5, limit: 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.NewFindNearbyDriversQuery(tt.lat, tt.lon, tt.radius, tt.limit)
			require.Error(t, err)
			assert.Equal(t, errs.KindBadRequest, errs.Classify(err))
		})
	}
}

func TestFindNearbyDriversQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.FindNearbyDriversQuery{}.Validate()
	require.ErrorIs(t, err, queries.ErrFindNearbyDriversQueryIsNotConstructed)
}

func TestFindNearbyDriversQueryHandler_RanksAndRounds(t *testing.T) {
	ctx := t.Context()
	locator := &MockDriverLocator{}
	query, err := queries.NewFindNearbyDriversQuery(52.52, 13.405, 3, 2)
	require.NoError(t, err)

	far, near, nearBetter := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	locator.On("FindNearbyDrivers", ctx, query.Point(), 3.0, 2).Return([]services.DriverCandidate{
		{DriverID: far, DistanceKm: 2.4567, Rating: 5},
		{DriverID: near, DistanceKm: 0.5, Rating: 4.1},
		{DriverID: nearBetter, DistanceKm: 0.5, Rating: 4.8},
	}, nil).Once()

	drivers, err := queries.NewFindNearbyDriversQueryHandler(locator).Handle(ctx, query)
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, nearBetter, drivers[0].DriverID)
	assert.Equal(t, near, drivers[1].DriverID)
	locator.AssertExpectations(t)
}

func TestFindNearbyDriversQueryHandler_RoundsDistance(t *testing.T) {
	ctx := t.Context()
	locator := &MockDriverLocator{}
	query, err := queries.NewFindNearbyDriversQuery(52.52, 13.405, 5, 20)
	require.NoError(t, err)

	locator.On("FindNearbyDrivers", ctx, query.Point(), 5.0, 20).Return([]services.DriverCandidate{
		{DriverID: kernel.NewUUID(), DistanceKm: 2.4567, Rating: 5},
	}, nil).Once()

	drivers, err := queries.NewFindNearbyDriversQueryHandler(locator).Handle(ctx, query)
	require.NoError(t, err)
	require.Len(t, drivers, 1)
	assert.InDelta(t, 2.46, drivers[0].DistanceKm, 1e-9)
}

func TestFindNearbyDriversQueryHandler_LocatorError(t *testing.T) {
	ctx := t.Context()
	locator := &MockDriverLocator{}
	query, err := queries.NewFindNearbyDriversQuery(52.52, 13.405, 5, 20)
	require.NoError(t, err)
	boom := errors.New("redis: connection refused")
	locator.On("FindNearbyDrivers", ctx, query.Point(), 5.0, 20).Return(nil, boom).Once()

	_, err = queries.NewFindNearbyDriversQueryHandler(locator).Handle(ctx, query)
	require.ErrorIs(t, err, boom)
}
