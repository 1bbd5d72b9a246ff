package catalog

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

type RestaurantStatus string

const (
	RestaurantActive    RestaurantStatus = "ACTIVE"
	RestaurantInactive  RestaurantStatus = "INACTIVE"
	RestaurantSuspended RestaurantStatus = "SUSPENDED"
)

func (s RestaurantStatus) Validate() error {
	switch s {
	case RestaurantActive, RestaurantInactive, RestaurantSuspended:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("restaurant status", fmt.Errorf("%q is not a valid status", string(s)))
	}
}

var ErrRestaurantIsNotConstructed = errors.New("Restaurant must be created via NewRestaurant constructor")

type Restaurant struct {
	id           kernel.UUID
	name         string
	status       RestaurantStatus
	isOpen       bool
	location     kernel.GeoPoint
	minimumOrder decimal.Decimal
	deliveryFee  decimal.Decimal
	guard        guard.ConstructorGuard
}

func NewRestaurant(
	id kernel.UUID,
	name string,
	status RestaurantStatus,
	isOpen bool,
	location kernel.GeoPoint,
	minimumOrder decimal.Decimal,
	deliveryFee decimal.Decimal,
) (*Restaurant, error) {
	var amountErr error
	if minimumOrder.IsNegative() || deliveryFee.IsNegative() {
		amountErr = errs.NewValueIsInvalidErrorWithCause("restaurant amounts",
			fmt.Errorf("minimum order %s and delivery fee %s must not be negative", minimumOrder, deliveryFee))
	}
	if err := errors.Join(id.Validate(), status.Validate(), location.Validate(), amountErr); err != nil {
		return nil, err
	}
	return &Restaurant{
		id:           id,
		name:         name,
		status:       status,
		isOpen:       isOpen,
		location:     location,
		minimumOrder: minimumOrder,
		deliveryFee:  deliveryFee,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (r *Restaurant) Validate() error {
	if r == nil {
		return ErrRestaurantIsNotConstructed
	}
	return r.guard.Validate(ErrRestaurantIsNotConstructed)
}

func (r *Restaurant) ID() kernel.UUID               { return r.id }
func (r *Restaurant) Name() string                  { return r.name }
func (r *Restaurant) Status() RestaurantStatus      { return r.status }
func (r *Restaurant) IsOpen() bool                  { return r.isOpen }
func (r *Restaurant) Location() kernel.GeoPoint     { return r.location }
func (r *Restaurant) MinimumOrder() decimal.Decimal { return r.minimumOrder }

// DeliveryFee is the restaurant's advertised baseline. Orders are charged the
// distance-based fee computed at checkout.
func (r *Restaurant) DeliveryFee() decimal.Decimal { return r.deliveryFee }

// AcceptsOrders is the gate checked at order creation.
func (r *Restaurant) AcceptsOrders() error {
	if r.status != RestaurantActive || !r.isOpen {
		return errs.NewBusinessRuleErrorWithCause("restaurant is not accepting orders",
			fmt.Errorf("restaurant %s is %s, open=%t", r.id, r.status, r.isOpen))
	}
	return nil
}

// CheckMinimumOrder fails when subtotal is below the restaurant minimum.
func (r *Restaurant) CheckMinimumOrder(subtotal decimal.Decimal) error {
	if subtotal.LessThan(r.minimumOrder) {
		return errs.NewBusinessRuleErrorWithCause("order is below the restaurant minimum",
			fmt.Errorf("minimum order amount is %s, subtotal is %s", r.minimumOrder.StringFixed(2), subtotal.StringFixed(2)))
	}
	return nil
}
