package commands

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const maxCancellationReason = 500

var ErrCancelOrderCommandIsNotConstructed = errors.New(
	"CancelOrderCommand must be created via NewCancelOrderCommand constructor",
)

// CancelOrderCommand cancels an order on behalf of actorID with a mandatory reason.
type CancelOrderCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	actorID kernel.UUID
	reason  string

	guard guard.ConstructorGuard
}

func NewCancelOrderCommand(orderID, actorID kernel.UUID, reason string) (CancelOrderCommand, error) {
	reason = strings.TrimSpace(reason)

	var reasonErr error
	switch {
	case reason == "":
		reasonErr = errs.NewValueIsRequiredError("reason")
	case len(reason) > maxCancellationReason:
		reasonErr = errs.NewValueIsOutOfRangeError("reason", len(reason), 1, maxCancellationReason)
	}

	if err := errors.Join(orderID.Validate(), actorID.Validate(), reasonErr); err != nil {
		return CancelOrderCommand{}, err
	}

	return CancelOrderCommand{
		orderID: orderID,
		actorID: actorID,
		reason:  reason,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c CancelOrderCommand) Validate() error {
	return c.guard.Validate(ErrCancelOrderCommandIsNotConstructed)
}

func (c CancelOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CancelOrderCommand) ActorID() kernel.UUID {
	return c.actorID
}

func (c CancelOrderCommand) Reason() string {
	return c.reason
}
