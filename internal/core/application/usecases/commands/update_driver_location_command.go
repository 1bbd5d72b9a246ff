package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateDriverLocationCommandIsNotConstructed = errors.New(
	"UpdateDriverLocationCommand must be created via NewUpdateDriverLocationCommand constructor",
)

// UpdateDriverLocationCommand is a position report from a driver's device.
type UpdateDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewUpdateDriverLocationCommand(driverID kernel.UUID, latitude, longitude float64) (UpdateDriverLocationCommand, error) {
	location, pointErr := kernel.NewGeoPoint(latitude, longitude)
	if err := errors.Join(driverID.Validate(), pointErr); err != nil {
		return UpdateDriverLocationCommand{}, err
	}

	return UpdateDriverLocationCommand{
		driverID: driverID,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateDriverLocationCommandIsNotConstructed)
}

func (c UpdateDriverLocationCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c UpdateDriverLocationCommand) Location() kernel.GeoPoint {
	return c.location
}
