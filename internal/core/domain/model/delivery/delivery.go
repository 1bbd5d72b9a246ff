package delivery

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery constructor")
	ErrDriverAlreadyAssigned    = errs.NewBusinessRuleError("delivery already has a driver")
)

type Delivery struct {
	id          kernel.UUID
	orderID     kernel.UUID
	pickup      kernel.GeoPoint
	dropoff     kernel.GeoPoint
	distanceKm  float64
	driverID    *kernel.UUID
	assignedAt  *time.Time
	pickedUpAt  *time.Time
	deliveredAt *time.Time
	guard       guard.ConstructorGuard
}

// NewDelivery pairs a fresh delivery with orderID and computes the haversine distance
// between the restaurant (pickup) and the customer address (dropoff).
func NewDelivery(id, orderID kernel.UUID, pickup, dropoff kernel.GeoPoint) (*Delivery, error) {
	d := &Delivery{guard: guard.NewConstructorGuard()}
	if err := errors.Join(d.setID(id), d.setOrderID(orderID)); err != nil {
		return nil, err
	}
	distance, err := pickup.DistanceKm(dropoff)
	if err != nil {
		return nil, err
	}
	d.pickup = pickup
	d.dropoff = dropoff
	d.distanceKm = distance
	return d, nil
}

// RestoreDelivery rebuilds a delivery from storage.
func RestoreDelivery(
	id, orderID kernel.UUID,
	pickup, dropoff kernel.GeoPoint,
	distanceKm float64,
	driverID *kernel.UUID,
	assignedAt, pickedUpAt, deliveredAt *time.Time,
) (*Delivery, error) {
	d := &Delivery{
		pickup:      pickup,
		dropoff:     dropoff,
		distanceKm:  distanceKm,
		assignedAt:  assignedAt,
		pickedUpAt:  pickedUpAt,
		deliveredAt: deliveredAt,
		guard:       guard.NewConstructorGuard(),
	}
	var driverErr error
	if driverID != nil {
		driverErr = driverID.Validate()
		id := *driverID
		d.driverID = &id
	}
	var distanceErr error
	if distanceKm < 0 {
		distanceErr = errs.NewValueIsInvalidErrorWithCause("distance", fmt.Errorf("%.2f is negative", distanceKm))
	}
	if err := errors.Join(
		d.setID(id),
		d.setOrderID(orderID),
		pickup.Validate(),
		dropoff.Validate(),
		driverErr,
		distanceErr,
	); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil {
		return ErrDeliveryIsNotConstructed
	}
	return d.guard.Validate(ErrDeliveryIsNotConstructed)
}

func (d *Delivery) ID() kernel.UUID {
	return d.id
}

func (d *Delivery) OrderID() kernel.UUID {
	return d.orderID
}

func (d *Delivery) Pickup() kernel.GeoPoint {
	return d.pickup
}

func (d *Delivery) Dropoff() kernel.GeoPoint {
	return d.dropoff
}

func (d *Delivery) DistanceKm() float64 {
	return d.distanceKm
}

func (d *Delivery) DriverID() *kernel.UUID {
	if d.driverID == nil {
		return nil
	}
	id := *d.driverID
	return &id
}

func (d *Delivery) HasDriver() bool {
	return d.driverID != nil
}

func (d *Delivery) AssignedAt() *time.Time {
	return d.assignedAt
}

func (d *Delivery) PickedUpAt() *time.Time {
	return d.pickedUpAt
}

func (d *Delivery) DeliveredAt() *time.Time {
	return d.deliveredAt
}

// AssignDriver links the claimed driver. There is no unassign step, so a second call fails.
func (d *Delivery) AssignDriver(driverID kernel.UUID, at time.Time) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if d.driverID != nil {
		return ErrDriverAlreadyAssigned
	}
	d.driverID = &driverID
	d.assignedAt = &at
	return nil
}

// MarkPickedUp stamps pickedUpAt the first time the order goes out for delivery.
func (d *Delivery) MarkPickedUp(at time.Time) {
	if d.pickedUpAt == nil {
		d.pickedUpAt = &at
	}
}

// MarkDelivered stamps deliveredAt once.
func (d *Delivery) MarkDelivered(at time.Time) {
	if d.deliveredAt == nil {
		d.deliveredAt = &at
	}
}

func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Delivery) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.orderID = id
	return nil
}
