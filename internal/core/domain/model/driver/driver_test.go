package driver_test

import (
	"testing"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onlineDriver(t *testing.T) *driver.Driver {
	t.Helper()
	d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), 4.8)
	require.NoError(t, err)
	require.NoError(t, d.ChangeStatus(driver.Online))
	return d
}

func TestNewDriver(t *testing.T) {
	t.Run("should start offline and unavailable", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.NewUUID(), kernel.NewUUID(), 4.5)

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.Equal(t, driver.Offline, d.Status())
		assert.False(t, d.IsAvailable())
		assert.Nil(t, d.Location())
		assert.InDelta(t, 4.5, d.Rating(), 1e-9)
	})

	t.Run("should reject invalid ids and rating", func(t *testing.T) {
		d, err := driver.NewDriver(kernel.UUID{}, kernel.NewUUID(), 7)

		require.Error(t, err)
		assert.Nil(t, d)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestRestoreDriver(t *testing.T) {
	point, _ := kernel.NewGeoPoint(52.52, 13.405)

	t.Run("should restore a busy driver with a location", func(t *testing.T) {
		d, err := driver.RestoreDriver(kernel.NewUUID(), kernel.NewUUID(), &point, 4.9, false, driver.Busy)

		require.NoError(t, err)
		assert.Equal(t, driver.Busy, d.Status())
		require.NotNil(t, d.Location())
		assert.InDelta(t, 52.52, d.Location().Latitude(), 1e-9)
	})

	t.Run("should reject available drivers that are not online", func(t *testing.T) {
		for _, s := range []driver.Status{driver.Offline, driver.Busy, driver.OnBreak} {
			_, err := driver.RestoreDriver(kernel.NewUUID(), kernel.NewUUID(), nil, 4, true, s)

			require.Error(t, err, s.String())
			assert.Contains(t, err.Error(), "available driver must be ONLINE")
		}
	})

	t.Run("should reject unknown status", func(t *testing.T) {
		_, err := driver.RestoreDriver(kernel.NewUUID(), kernel.NewUUID(), nil, 4, false, driver.Status("DRIVING"))
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestDriver_ChangeStatus(t *testing.T) {
	t.Run("should tie availability to ONLINE", func(t *testing.T) {
		d := onlineDriver(t)
		assert.True(t, d.IsAvailable())

		require.NoError(t, d.ChangeStatus(driver.OnBreak))
		assert.False(t, d.IsAvailable())

		require.NoError(t, d.ChangeStatus(driver.Offline))
		assert.False(t, d.IsAvailable())
	})

	t.Run("should not let drivers set BUSY themselves", func(t *testing.T) {
		d := onlineDriver(t)

		err := d.ChangeStatus(driver.Busy)

		require.ErrorIs(t, err, driver.ErrBusyIsReserved)
		assert.Equal(t, driver.Online, d.Status())
	})

	t.Run("should not go offline while busy", func(t *testing.T) {
		d := onlineDriver(t)
		require.NoError(t, d.Claim())

		err := d.ChangeStatus(driver.Offline)

		require.ErrorIs(t, err, driver.ErrDriverIsBusy)
		assert.Equal(t, driver.Busy, d.Status())
	})
}

func TestDriver_ClaimAndRelease(t *testing.T) {
	t.Run("should claim an online available driver once", func(t *testing.T) {
		d := onlineDriver(t)

		require.NoError(t, d.Claim())
		assert.Equal(t, driver.Busy, d.Status())
		assert.False(t, d.IsAvailable())

		err := d.Claim()
		require.ErrorIs(t, err, errs.ErrBusinessRuleViolated)
		assert.Contains(t, err.Error(), "not online and available")
	})

	t.Run("should release back into the pool", func(t *testing.T) {
		d := onlineDriver(t)
		require.NoError(t, d.Claim())

		require.NoError(t, d.Release())

		assert.True(t, d.IsClaimable())
	})

	t.Run("should refuse to release an idle driver", func(t *testing.T) {
		d := onlineDriver(t)
		require.Error(t, d.Release())
	})
}

func TestDriver_UpdateLocation(t *testing.T) {
	d := onlineDriver(t)
	point, _ := kernel.NewGeoPoint(48.85, 2.35)

	require.NoError(t, d.UpdateLocation(point))
	assert.Equal(t, point.String(), d.Location().String())
	assert.True(t, d.IsAvailable())

	require.ErrorIs(t, d.UpdateLocation(kernel.GeoPoint{}), errs.ErrValueIsRequired)
}
