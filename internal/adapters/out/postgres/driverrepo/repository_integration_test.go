package driverrepo_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/driverrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

type DriverRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *tcpostgres.PostgresContainer
	db         *gorm.DB
	repository *driverrepo.GormDriverRepository
	deliveries *deliveryrepo.GormDeliveryRepository
	locator    *driverrepo.SQLDriverLocator
	tracker    *MockAggregateTracker
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
}

func (suite *DriverRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(postgres.Truncate(suite.db))

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything).Maybe()
	suite.repository = driverrepo.NewGormDriverRepository(suite.db, suite.tracker)
	suite.deliveries = deliveryrepo.NewGormDeliveryRepository(suite.db, suite.tracker)
	suite.locator = driverrepo.NewSQLDriverLocator(suite.db)
}

func (suite *DriverRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *DriverRepositoryIntegrationTestSuite) TestAdd_ThenGet_RoundTrips() {
	ctx := suite.T().Context()
	d := suite.addDriver(52.5210, 13.4060, 4.7, driver.Online, true)

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Online, got.Status())
	suite.True(got.IsAvailable())
	suite.InDelta(4.7, got.Rating(), 0.001)
	suite.Require().NotNil(got.Location())
	suite.InDelta(52.5210, got.Location().Latitude(), 1e-9)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestGet_Unknown_ReturnsNotFound() {
	_, err := suite.repository.Get(suite.T().Context(), kernel.NewUUID())

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestTryClaim_AvailableDriver_ClaimsAndLinks() {
	ctx := suite.T().Context()
	d := suite.addDriver(52.5210, 13.4060, 4.7, driver.Online, true)
	del := suite.addDelivery()
	at := time.Now().UTC().Truncate(time.Microsecond)

	claimed, err := suite.repository.TryClaim(ctx, d.ID(), del.ID(), at)
	suite.Require().NoError(err)
	suite.True(claimed)

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Busy, got.Status())
	suite.False(got.IsAvailable())

	linked, err := suite.deliveries.GetByOrderID(ctx, del.OrderID())
	suite.Require().NoError(err)
	suite.Require().NotNil(linked.DriverID())
	suite.Equal(d.ID(), *linked.DriverID())
	suite.NotNil(linked.AssignedAt())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestTryClaim_TakenDriver_ReturnsFalse() {
	ctx := suite.T().Context()
	d := suite.addDriver(52.5210, 13.4060, 4.7, driver.Online, true)
	first := suite.addDelivery()
	second := suite.addDelivery()

	claimed, err := suite.repository.TryClaim(ctx, d.ID(), first.ID(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.True(claimed)

	claimed, err = suite.repository.TryClaim(ctx, d.ID(), second.ID(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.False(claimed)

	untouched, err := suite.deliveries.GetByOrderID(ctx, second.OrderID())
	suite.Require().NoError(err)
	suite.Nil(untouched.DriverID())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestTryClaim_DeliveryAlreadyLinked_UndoesClaim() {
	ctx := suite.T().Context()
	first := suite.addDriver(52.5210, 13.4060, 4.7, driver.Online, true)
	second := suite.addDriver(52.5211, 13.4061, 4.1, driver.Online, true)
	del := suite.addDelivery()

	claimed, err := suite.repository.TryClaim(ctx, first.ID(), del.ID(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().True(claimed)

	err = suite.db.Transaction(func(tx *gorm.DB) error {
		repo := driverrepo.NewGormDriverRepository(tx, suite.tracker)
		_, claimErr := repo.TryClaim(ctx, second.ID(), del.ID(), time.Now().UTC())
		suite.ErrorIs(claimErr, errs.ErrBusinessRuleViolated)

		got, getErr := repo.Get(ctx, second.ID())
		suite.Require().NoError(getErr)
		suite.Equal(driver.Online, got.Status())
		suite.True(got.IsAvailable())
		return nil
	})
	suite.Require().NoError(err)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdateStatus_NeverOverwritesBusy() {
	ctx := suite.T().Context()
	d := suite.addDriver(52.5210, 13.4060, 4.7, driver.Online, true)
	stale, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)

	claimed, err := suite.repository.TryClaim(ctx, d.ID(), suite.addDelivery().ID(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().True(claimed)

	suite.Require().NoError(stale.ChangeStatus(driver.Offline))
	err = suite.repository.UpdateStatus(ctx, stale)
	suite.Require().ErrorIs(err, driver.ErrDriverIsBusy)

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Busy, got.Status())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestRelease_PutsBusyDriverBackOnline() {
	ctx := suite.T().Context()
	d := suite.addDriver(52.5210, 13.4060, 4.7, driver.Online, true)
	claimed, err := suite.repository.TryClaim(ctx, d.ID(), suite.addDelivery().ID(), time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().True(claimed)

	suite.Require().NoError(suite.repository.Release(ctx, d.ID()))

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.Equal(driver.Online, got.Status())
	suite.True(got.IsAvailable())
}

func (suite *DriverRepositoryIntegrationTestSuite) TestUpdateLocation_WritesCoordinates() {
	ctx := suite.T().Context()
	d := suite.addDriver(52.5210, 13.4060, 4.7, driver.Online, true)
	point, err := kernel.NewGeoPoint(52.5300, 13.4200)
	suite.Require().NoError(err)
	suite.Require().NoError(d.UpdateLocation(point))

	suite.Require().NoError(suite.repository.UpdateLocation(ctx, d))

	got, err := suite.repository.Get(ctx, d.ID())
	suite.Require().NoError(err)
	suite.InDelta(52.5300, got.Location().Latitude(), 1e-9)
	suite.InDelta(13.4200, got.Location().Longitude(), 1e-9)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestFindNearbyDrivers_FiltersAndRanks() {
	ctx := suite.T().Context()
	near := suite.addDriver(52.5201, 13.4051, 4.0, driver.Online, true)
	sameSpotBetter := suite.addDriver(52.5201, 13.4051, 4.9, driver.Online, true)
	farther := suite.addDriver(52.5300, 13.4200, 5.0, driver.Online, true)
	suite.addDriver(52.5200, 13.4050, 5.0, driver.OnBreak, false)
	suite.addDriver(52.5200, 13.4050, 5.0, driver.Offline, false)
	suite.addDriver(48.1351, 11.5820, 5.0, driver.Online, true)

	pickup, err := kernel.NewGeoPoint(52.5200, 13.4050)
	suite.Require().NoError(err)

	candidates, err := suite.locator.FindNearbyDrivers(ctx, pickup, 5, 20)
	suite.Require().NoError(err)
	suite.Require().Len(candidates, 3)
	suite.Equal(sameSpotBetter.ID(), candidates[0].DriverID)
	suite.Equal(near.ID(), candidates[1].DriverID)
	suite.Equal(farther.ID(), candidates[2].DriverID)
	suite.Less(candidates[1].DistanceKm, candidates[2].DistanceKm)

	limited, err := suite.locator.FindNearbyDrivers(ctx, pickup, 5, 1)
	suite.Require().NoError(err)
	suite.Require().Len(limited, 1)
	suite.Equal(sameSpotBetter.ID(), limited[0].DriverID)
}

func (suite *DriverRepositoryIntegrationTestSuite) TestFindNearbyDrivers_NobodyAround_ReturnsEmpty() {
	pickup, err := kernel.NewGeoPoint(-33.8688, 151.2093)
	suite.Require().NoError(err)
	suite.addDriver(52.5200, 13.4050, 5.0, driver.Online, true)

	candidates, err := suite.locator.FindNearbyDrivers(suite.T().Context(), pickup, 5, 20)
	suite.Require().NoError(err)
	suite.Empty(candidates)
}

func (suite *DriverRepositoryIntegrationTestSuite) addDriver(
	lat, lon, rating float64,
	status driver.Status,
	available bool,
) *driver.Driver {
	loc, err := kernel.NewGeoPoint(lat, lon)
	suite.Require().NoError(err)
	d, err := driver.RestoreDriver(kernel.NewUUID(), kernel.NewUUID(), &loc, rating, available, status)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repository.Add(suite.T().Context(), d))
	return d
}

func (suite *DriverRepositoryIntegrationTestSuite) addDelivery() *delivery.Delivery {
	pickup, err := kernel.NewGeoPoint(52.5200, 13.4050)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewGeoPoint(52.5300, 13.4200)
	suite.Require().NoError(err)
	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.deliveries.Add(suite.T().Context(), d))
	return d
}

func TestDriverRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(DriverRepositoryIntegrationTestSuite))
}
