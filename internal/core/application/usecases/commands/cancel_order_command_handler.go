package commands

import (
	"context"

	"marketplace/internal/core/domain/model/order"
)

// CancelOrderCommandHandler cancels orders that are still PENDING or ACCEPTED. Later
// statuses fail with a business rule error and nothing is written.
type CancelOrderCommandHandler struct {
	uowFactory LifecycleUoWFactory
	lifecycle  lifecycle
}

func NewCancelOrderCommandHandler(uowFactory LifecycleUoWFactory, deps LifecycleDeps) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle{deps: deps.withDefaults()},
	}
}

func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	actor := cmd.ActorID()
	return h.lifecycle.run(ctx, h.uowFactory, transitionRequest{
		orderID: cmd.OrderID(),
		next:    order.Cancelled,
		actorID: &actor,
		notes:   cmd.Reason(),
		cancel:  true,
	})
}
