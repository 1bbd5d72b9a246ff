package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand asks to move an order to a new status. ActorID is the user
// performing the change and is nil for system-driven transitions.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status
	actorID *kernel.UUID
	notes   string

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(
	orderID kernel.UUID,
	status order.Status,
	actorID *kernel.UUID,
	notes string,
) (UpdateOrderStatusCommand, error) {
	var actorErr error
	if actorID != nil {
		actorErr = actorID.Validate()
	}
	if err := errors.Join(orderID.Validate(), status.Validate(), actorErr); err != nil {
		return UpdateOrderStatusCommand{}, err
	}

	cmd := UpdateOrderStatusCommand{
		orderID: orderID,
		status:  status,
		notes:   strings.TrimSpace(notes),
		guard:   guard.NewConstructorGuard(),
	}
	if actorID != nil {
		actor := *actorID
		cmd.actorID = &actor
	}
	return cmd, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c UpdateOrderStatusCommand) Status() order.Status {
	return c.status
}

func (c UpdateOrderStatusCommand) ActorID() *kernel.UUID {
	return c.actorID
}

func (c UpdateOrderStatusCommand) Notes() string {
	return c.notes
}
