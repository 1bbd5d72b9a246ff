package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/guard"
)

var ErrChangeDriverStatusCommandIsNotConstructed = errors.New(
	"ChangeDriverStatusCommand must be created via NewChangeDriverStatusCommand constructor",
)

// ChangeDriverStatusCommand is a driver going ONLINE, OFFLINE or ON_BREAK.
type ChangeDriverStatusCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	status   driver.Status

	guard guard.ConstructorGuard
}

func NewChangeDriverStatusCommand(driverID kernel.UUID, status driver.Status) (ChangeDriverStatusCommand, error) {
	var reservedErr error
	if status == driver.Busy {
		reservedErr = driver.ErrBusyIsReserved
	}
	if err := errors.Join(driverID.Validate(), status.Validate(), reservedErr); err != nil {
		return ChangeDriverStatusCommand{}, err
	}

	return ChangeDriverStatusCommand{
		driverID: driverID,
		status:   status,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeDriverStatusCommandIsNotConstructed)
}

func (c ChangeDriverStatusCommand) DriverID() kernel.UUID {
	return c.driverID
}

func (c ChangeDriverStatusCommand) Status() driver.Status {
	return c.status
}
