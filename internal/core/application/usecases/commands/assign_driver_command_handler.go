package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
)

// AssignDriverResult reports a retry. Skipped means the order no longer needed a driver
// and its backlog entry was dropped.
type AssignDriverResult struct {
	Outcome services.AssignmentOutcome
	Skipped bool
}

// AssignDriverCommandHandler is the deferred path of driver assignment, driven by the
// backlog job.
type AssignDriverCommandHandler struct {
	uowFactory LifecycleUoWFactory
	lifecycle  lifecycle
}

func NewAssignDriverCommandHandler(uowFactory LifecycleUoWFactory, deps LifecycleDeps) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{
		uowFactory: uowFactory,
		lifecycle:  lifecycle{deps: deps.withDefaults()},
	}
}

func (h *AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (AssignDriverResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignDriverResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignDriverResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return AssignDriverResult{}, err
	}

	if o.Status() != order.ReadyForPickup {
		return h.skip(ctx, uow, cmd, "order is "+o.Status().String())
	}

	d, err := uow.DeliveryRepository().GetByOrderID(ctx, o.ID())
	if err != nil {
		return AssignDriverResult{}, err
	}
	if d.HasDriver() {
		return h.skip(ctx, uow, cmd, "delivery already has a driver")
	}

	outcome, events, err := h.lifecycle.assign(ctx, uow, o, d, cmd.Attempt()+1, time.Now().UTC())
	if err != nil {
		return AssignDriverResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignDriverResult{}, err
	}

	h.lifecycle.deps.Metrics.AssignmentFinished(outcome)
	publishAll(ctx, h.lifecycle.deps.Publisher, h.lifecycle.deps.Logger, events)
	return AssignDriverResult{Outcome: outcome}, nil
}

func (h *AssignDriverCommandHandler) skip(
	ctx context.Context,
	uow LifecycleUoW,
	cmd AssignDriverCommand,
	reason string,
) (AssignDriverResult, error) {
	if err := uow.AssignmentBacklogRepository().Remove(ctx, cmd.OrderID()); err != nil {
		return AssignDriverResult{}, err
	}
	if err := uow.Commit(ctx); err != nil {
		return AssignDriverResult{}, err
	}
	h.lifecycle.deps.Logger.InfoContext(ctx, "driver assignment no longer needed",
		slog.String("order_id", cmd.OrderID().String()),
		slog.String("reason", reason))
	return AssignDriverResult{Skipped: true}, nil
}
