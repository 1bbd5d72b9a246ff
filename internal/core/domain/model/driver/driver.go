package driver

import (
	"errors"
	"fmt"
	"math"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const (
	MinRating = 0.0
	MaxRating = 5.0
)

var (
	ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver or RestoreDriver constructor")
	ErrDriverIsBusy           = errs.NewBusinessRuleError("driver is busy with a delivery")
	ErrDriverNotClaimable     = errs.NewBusinessRuleError("driver is not online and available")
	ErrBusyIsReserved         = errs.NewBusinessRuleError("BUSY is set only by driver assignment")
)

// Driver is a delivery driver. Location is nil until the first report arrives.
type Driver struct {
	id          kernel.UUID
	userID      kernel.UUID
	location    *kernel.GeoPoint
	rating      float64
	isAvailable bool
	status      Status
	guard       guard.ConstructorGuard
}

// NewDriver registers a driver OFFLINE and unavailable.
func NewDriver(id, userID kernel.UUID, rating float64) (*Driver, error) {
	d := &Driver{
		status: Offline,
		guard:  guard.NewConstructorGuard(),
	}
	if err := errors.Join(d.setID(id), d.setUserID(userID), d.setRating(rating)); err != nil {
		return nil, err
	}
	return d, nil
}

// RestoreDriver rebuilds a driver from storage and rejects rows breaking the
// availability invariant.
func RestoreDriver(
	id, userID kernel.UUID,
	location *kernel.GeoPoint,
	rating float64,
	isAvailable bool,
	status Status,
) (*Driver, error) {
	d := &Driver{
		isAvailable: isAvailable,
		status:      status,
		guard:       guard.NewConstructorGuard(),
	}
	var locationErr error
	if location != nil {
		locationErr = location.Validate()
		loc := *location
		d.location = &loc
	}
	if err := errors.Join(
		d.setID(id),
		d.setUserID(userID),
		d.setRating(rating),
		status.Validate(),
		locationErr,
		d.checkAvailability(),
	); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil {
		return ErrDriverIsNotConstructed
	}
	return d.guard.Validate(ErrDriverIsNotConstructed)
}

func (d *Driver) IsEqual(other *Driver) bool {
	return other != nil && d.id.IsEqual(other.id)
}

func (d *Driver) ID() kernel.UUID {
	return d.id
}

func (d *Driver) UserID() kernel.UUID {
	return d.userID
}

func (d *Driver) Location() *kernel.GeoPoint {
	if d.location == nil {
		return nil
	}
	loc := *d.location
	return &loc
}

func (d *Driver) Rating() float64 {
	return d.rating
}

func (d *Driver) IsAvailable() bool {
	return d.isAvailable
}

func (d *Driver) Status() Status {
	return d.status
}

// IsClaimable mirrors the precondition of the conditional claim write.
func (d *Driver) IsClaimable() bool {
	return d.isAvailable && d.status == Online
}

// UpdateLocation records a position report. It never touches availability.
func (d *Driver) UpdateLocation(point kernel.GeoPoint) error {
	if err := point.Validate(); err != nil {
		return err
	}
	d.location = &point
	return nil
}

// ChangeStatus handles driver-initiated status changes. BUSY is reserved for Claim, and a
// busy driver has to finish the delivery first.
func (d *Driver) ChangeStatus(target Status) error {
	if err := target.Validate(); err != nil {
		return err
	}
	if target == Busy {
		return ErrBusyIsReserved
	}
	if d.status == Busy {
		return ErrDriverIsBusy
	}
	d.status = target
	d.isAvailable = target == Online
	return nil
}

// Claim reserves the driver for a delivery: (available, ONLINE) → (unavailable, BUSY).
func (d *Driver) Claim() error {
	if !d.IsClaimable() {
		return errs.NewBusinessRuleErrorWithCause(ErrDriverNotClaimable.Rule,
			fmt.Errorf("driver %s is %s, available=%t", d.id, d.status, d.isAvailable))
	}
	d.status = Busy
	d.isAvailable = false
	return nil
}

// Release puts a busy driver back into the pool once the delivery is done.
func (d *Driver) Release() error {
	if d.status != Busy {
		return errs.NewBusinessRuleErrorWithCause("only a busy driver can be released",
			fmt.Errorf("driver %s is %s", d.id, d.status))
	}
	d.status = Online
	d.isAvailable = true
	return nil
}

func (d *Driver) checkAvailability() error {
	if d.isAvailable && d.status != Online {
		return errs.NewValueIsInvalidErrorWithCause("driver availability",
			fmt.Errorf("available driver must be %s, got %s", Online, d.status))
	}
	return nil
}

func (d *Driver) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

func (d *Driver) setUserID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.userID = id
	return nil
}

func (d *Driver) setRating(rating float64) error {
	if math.IsNaN(rating) || rating < MinRating || rating > MaxRating {
		return errs.NewValueIsOutOfRangeError("rating", rating, MinRating, MaxRating)
	}
	d.rating = rating
	return nil
}
