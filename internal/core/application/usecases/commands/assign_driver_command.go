package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrAssignDriverCommandIsNotConstructed = errors.New(
	"AssignDriverCommand must be created via NewAssignDriverCommand constructor",
)

// AssignDriverCommand retries the driver assignment of a READY_FOR_PICKUP order. Attempt
// counts earlier failed tries and drives the backoff of the next one.
//
// Example:
//
//	cmd, _ := NewAssignDriverCommand(entry.OrderID, entry.Attempts)
//	result, err := handler.Handle(ctx, cmd)
type AssignDriverCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	attempt int

	guard guard.ConstructorGuard
}

func NewAssignDriverCommand(orderID kernel.UUID, attempt int) (AssignDriverCommand, error) {
	var attemptErr error
	if attempt < 0 {
		attemptErr = errs.NewValueIsOutOfRangeError("attempt", attempt, 0, "unbounded")
	}
	if err := errors.Join(orderID.Validate(), attemptErr); err != nil {
		return AssignDriverCommand{}, err
	}

	return AssignDriverCommand{
		orderID: orderID,
		attempt: attempt,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDriverCommand) Validate() error {
	return c.guard.Validate(ErrAssignDriverCommandIsNotConstructed)
}

func (c AssignDriverCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c AssignDriverCommand) Attempt() int {
	return c.attempt
}
