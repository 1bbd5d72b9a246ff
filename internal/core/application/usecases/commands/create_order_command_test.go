package commands_test

import (
	"strings"
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validItems() []commands.OrderItemRequest {
	return []commands.OrderItemRequest{{MenuItemID: kernel.NewUUID(), Quantity: 2}}
}

func TestNewCreateOrderCommand_ValidInput(t *testing.T) {
	customerID, restaurantID, addressID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()
	items := validItems()

	cmd, err := commands.NewCreateOrderCommand(customerID, restaurantID, addressID, items, order.PaymentWallet, "  leave at door ")

	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, customerID, cmd.CustomerID())
	assert.Equal(t, restaurantID, cmd.RestaurantID())
	assert.Equal(t, addressID, cmd.AddressID())
	assert.Equal(t, items, cmd.Items())
	assert.Equal(t, order.PaymentWallet, cmd.PaymentMethod())
	assert.Equal(t, "leave at door", cmd.SpecialInstructions())
}

func TestNewCreateOrderCommand_InvalidInput(t *testing.T) {
	testCases := []struct {
		name     string
		items    []commands.OrderItemRequest
		method   order.PaymentMethod
		notes    string
		expected error
	}{
		{"no items", nil, order.PaymentCard, "", errs.ErrValueIsRequired},
		{"zero quantity", []commands.OrderItemRequest{{MenuItemID: kernel.NewUUID(), Quantity: 0}}, order.PaymentCard, "", errs.ErrValueIsOutOfRange},
		{"quantity above limit", []commands.OrderItemRequest{{MenuItemID: kernel.NewUUID(), Quantity: 101}}, order.PaymentCard, "", errs.ErrValueIsOutOfRange},
		{"missing menu item id", []commands.OrderItemRequest{{Quantity: 1}}, order.PaymentCard, "", errs.ErrValueIsRequired},
		{"missing addon id", []commands.OrderItemRequest{{MenuItemID: kernel.NewUUID(), Quantity: 1, AddonIDs: []kernel.UUID{{}}}}, order.PaymentCard, "", errs.ErrValueIsRequired},
		{"unknown payment method", validItems(), order.PaymentMethod("CHEQUE"), "", errs.ErrValueIsInvalid},
		{"instructions too long", validItems(), order.PaymentCard, strings.Repeat("x", 501), errs.ErrValueIsOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), tc.items, tc.method, tc.notes)

			require.Error(t, err)
			require.ErrorIs(t, err, tc.expected)
		})
	}
}

func TestNewCreateOrderCommand_InvalidIDs(t *testing.T) {
	_, err := commands.NewCreateOrderCommand(kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), validItems(), order.PaymentCard, "")

	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestCreateOrderCommand_MenuItemIDsAreDistinct(t *testing.T) {
	burger := kernel.NewUUID()
	fries := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]commands.OrderItemRequest{
			{MenuItemID: burger, Quantity: 1},
			{MenuItemID: fries, Quantity: 1},
			{MenuItemID: burger, Quantity: 3, AddonIDs: []kernel.UUID{kernel.NewUUID()}},
		}, order.PaymentCash, "")
	require.NoError(t, err)

	assert.Equal(t, []kernel.UUID{burger, fries}, cmd.MenuItemIDs())
}

func TestCreateOrderCommand_Validate_ZeroValue(t *testing.T) {
	var cmd commands.CreateOrderCommand

	err := cmd.Validate()

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
}
