package commands

import (
	"context"
)

// UpdateOrderStatusCommandHandler applies one transition with optimistic concurrency.
// Of two concurrent writers holding the same version exactly one commits; the other gets
// *errs.VersionConflictError and no side effects.
type UpdateOrderStatusCommandHandler struct {
	uowFactory LifecycleUoWFactory
	lifecycle  lifecycle
}

func NewUpdateOrderStatusCommandHandler(uowFactory LifecycleUoWFactory, deps LifecycleDeps) UpdateOrderStatusCommandHandler {
	return UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle{deps: deps.withDefaults()},
	}
}

// Handle moves the order and runs the side effects of the target status:
//
//	READY_FOR_PICKUP  driver assignment (or backlog entry when nobody is free)
//	OUT_FOR_DELIVERY  delivery pickedUpAt
//	DELIVERED         delivery deliveredAt, driver release, customer counter, payment settlement
//	REFUNDED          gateway refund of a completed payment
//	CANCELLED         cancellation window check, refund request for a completed payment
func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	return h.lifecycle.run(ctx, h.uowFactory, transitionRequest{
		orderID: cmd.OrderID(),
		next:    cmd.Status(),
		actorID: cmd.ActorID(),
		notes:   cmd.Notes(),
	})
}
