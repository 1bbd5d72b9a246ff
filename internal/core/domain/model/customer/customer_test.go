package customer_test

import (
	"testing"

	"marketplace/internal/core/domain/model/customer"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddress(t *testing.T) {
	owner := kernel.NewUUID()
	loc, _ := kernel.NewGeoPoint(40.7128, -74.0060)

	a, err := customer.NewAddress(kernel.NewUUID(), owner, "home", loc)

	require.NoError(t, err)
	require.NoError(t, a.Validate())
	assert.Equal(t, "home", a.Label())
	require.NoError(t, a.CheckOwner(owner))
	require.ErrorIs(t, a.CheckOwner(kernel.NewUUID()), customer.ErrAddressOwnedByOther)
}

func TestNewAddress_Invalid(t *testing.T) {
	a, err := customer.NewAddress(kernel.NewUUID(), kernel.UUID{}, "", kernel.GeoPoint{})

	require.Error(t, err)
	assert.Nil(t, a)

	var zero *customer.Address
	assert.Equal(t, customer.ErrAddressIsNotConstructed, zero.Validate())
}
