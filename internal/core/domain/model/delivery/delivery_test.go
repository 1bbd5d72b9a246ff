package delivery_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func points(t *testing.T) (kernel.GeoPoint, kernel.GeoPoint) {
	t.Helper()
	pickup, err := kernel.NewGeoPoint(52.5200, 13.4050)
	require.NoError(t, err)
	dropoff, err := kernel.NewGeoPoint(52.5300, 13.4050)
	require.NoError(t, err)
	return pickup, dropoff
}

func TestNewDelivery(t *testing.T) {
	pickup, dropoff := points(t)

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff)

	require.NoError(t, err)
	require.NoError(t, d.Validate())
	assert.InDelta(t, 1.11, d.DistanceKm(), 0.001)
	assert.False(t, d.HasDriver())
	assert.Nil(t, d.DriverID())
	assert.Nil(t, d.AssignedAt())
}

func TestNewDelivery_RejectsUnconstructedPoints(t *testing.T) {
	pickup, _ := points(t)

	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, kernel.GeoPoint{})

	require.ErrorIs(t, err, kernel.ErrGeoPointIsNotConstructed)
	assert.Nil(t, d)
}

func TestDelivery_AssignDriver(t *testing.T) {
	pickup, dropoff := points(t)
	at := time.Date(2025, 3, 14, 12, 30, 0, 0, time.UTC)

	t.Run("should link a driver exactly once", func(t *testing.T) {
		d, _ := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff)
		first := kernel.NewUUID()

		require.NoError(t, d.AssignDriver(first, at))
		assert.True(t, d.DriverID().IsEqual(first))
		assert.Equal(t, at, *d.AssignedAt())

		err := d.AssignDriver(kernel.NewUUID(), at.Add(time.Minute))
		require.ErrorIs(t, err, delivery.ErrDriverAlreadyAssigned)
		assert.True(t, d.DriverID().IsEqual(first))
	})

	t.Run("should reject the nil driver id", func(t *testing.T) {
		d, _ := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff)

		require.ErrorIs(t, d.AssignDriver(kernel.UUID{}, at), kernel.ErrUUIDIsNotConstructed)
		assert.False(t, d.HasDriver())
	})
}

func TestDelivery_Stamps(t *testing.T) {
	pickup, dropoff := points(t)
	d, _ := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff)
	first := time.Date(2025, 3, 14, 13, 0, 0, 0, time.UTC)

	d.MarkPickedUp(first)
	d.MarkPickedUp(first.Add(time.Hour))
	d.MarkDelivered(first.Add(time.Minute))

	assert.Equal(t, first, *d.PickedUpAt())
	assert.Equal(t, first.Add(time.Minute), *d.DeliveredAt())
}

func TestRestoreDelivery(t *testing.T) {
	pickup, dropoff := points(t)
	driverID := kernel.NewUUID()
	at := time.Now().UTC()

	d, err := delivery.RestoreDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff, 1.11, &driverID, &at, nil, nil)

	require.NoError(t, err)
	assert.True(t, d.HasDriver())
	require.ErrorIs(t, d.AssignDriver(kernel.NewUUID(), at), delivery.ErrDriverAlreadyAssigned)

	_, err = delivery.RestoreDelivery(kernel.NewUUID(), kernel.NewUUID(), pickup, dropoff, -1, nil, nil, nil, nil)
	require.Error(t, err)
}
