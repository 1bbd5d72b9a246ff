package commands

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const maxSpecialInstructions = 500

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// OrderItemRequest is one line of a placement request. Prices are never taken from the
// client; the handler reads them from the menu.
type OrderItemRequest struct {
	MenuItemID kernel.UUID
	Quantity   int
	AddonIDs   []kernel.UUID
}

// CreateOrderCommand represents a customer placing an order at one restaurant.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(customerID, restaurantID, addressID,
//	    []OrderItemRequest{{MenuItemID: burgerID, Quantity: 2}}, order.PaymentCard, "no onions")
//	if err != nil {
//	    return fmt.Errorf("invalid order: %w", err)
//	}
//	result, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID          kernel.UUID
	restaurantID        kernel.UUID
	addressID           kernel.UUID
	items               []OrderItemRequest
	paymentMethod       order.PaymentMethod
	specialInstructions string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the identifiers, the item list and the payment method.
func NewCreateOrderCommand(
	customerID, restaurantID, addressID kernel.UUID,
	items []OrderItemRequest,
	paymentMethod order.PaymentMethod,
	specialInstructions string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		customerID:          customerID,
		restaurantID:        restaurantID,
		addressID:           addressID,
		paymentMethod:       paymentMethod,
		specialInstructions: strings.TrimSpace(specialInstructions),
		guard:               guard.NewConstructorGuard(),
	}

	var instructionsErr error
	if len(cmd.specialInstructions) > maxSpecialInstructions {
		instructionsErr = errs.NewValueIsOutOfRangeError("specialInstructions", len(cmd.specialInstructions), 0, maxSpecialInstructions)
	}

	if err := errors.Join(
		customerID.Validate(),
		restaurantID.Validate(),
		addressID.Validate(),
		cmd.setItems(items),
		paymentMethod.Validate(),
		instructionsErr,
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

func (c CreateOrderCommand) RestaurantID() kernel.UUID {
	return c.restaurantID
}

func (c CreateOrderCommand) AddressID() kernel.UUID {
	return c.addressID
}

// Items returns a copy of the requested lines.
func (c CreateOrderCommand) Items() []OrderItemRequest {
	out := make([]OrderItemRequest, len(c.items))
	copy(out, c.items)
	return out
}

func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod {
	return c.paymentMethod
}

func (c CreateOrderCommand) SpecialInstructions() string {
	return c.specialInstructions
}

// MenuItemIDs lists every distinct menu item referenced by the request.
func (c CreateOrderCommand) MenuItemIDs() []kernel.UUID {
	seen := make(map[string]struct{}, len(c.items))
	ids := make([]kernel.UUID, 0, len(c.items))
	for _, item := range c.items {
		if _, ok := seen[item.MenuItemID.String()]; ok {
			continue
		}
		seen[item.MenuItemID.String()] = struct{}{}
		ids = append(ids, item.MenuItemID)
	}
	return ids
}

func (c *CreateOrderCommand) setItems(items []OrderItemRequest) error {
	if len(items) == 0 {
		return ErrOrderItemsAreRequired
	}

	var problems []error
	for i, item := range items {
		if err := item.MenuItemID.Validate(); err != nil {
			problems = append(problems, fmt.Errorf("items[%d]: %w", i, err))
		}
		if item.Quantity < order.MinItemQuantity || item.Quantity > order.MaxItemQuantity {
			problems = append(problems, errs.NewValueIsOutOfRangeError(
				fmt.Sprintf("items[%d].quantity", i), item.Quantity, order.MinItemQuantity, order.MaxItemQuantity))
		}
		for j, addonID := range item.AddonIDs {
			if err := addonID.Validate(); err != nil {
				problems = append(problems, fmt.Errorf("items[%d].addons[%d]: %w", i, j, err))
			}
		}
	}
	if err := errors.Join(problems...); err != nil {
		return err
	}

	c.items = make([]OrderItemRequest, len(items))
	for i, item := range items {
		c.items[i] = OrderItemRequest{
			MenuItemID: item.MenuItemID,
			Quantity:   item.Quantity,
			AddonIDs:   append([]kernel.UUID(nil), item.AddonIDs...),
		}
	}
	return nil
}
