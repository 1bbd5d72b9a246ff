package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

const (
	// DefaultAssignmentRetryDelay is the first backoff step of the assignment backlog.
	DefaultAssignmentRetryDelay = 30 * time.Second
	maxAssignmentRetryDelay     = 5 * time.Minute

	noDriverReason = "no driver available within search radius"
)

// DriverAssigner reserves a driver for a delivery inside the caller's transaction.
type DriverAssigner interface {
	Assign(ctx context.Context, d *delivery.Delivery, claimer services.DriverClaimer) (services.AssignmentOutcome, error)
}

// LifecycleDeps are the collaborators shared by every handler that moves an order.
type LifecycleDeps struct {
	Assigner   DriverAssigner
	Payments   ports.PaymentGateway
	Publisher  ports.EventPublisher
	Metrics    LifecycleMetrics
	Logger     *slog.Logger
	RetryDelay time.Duration
}

func (d LifecycleDeps) withDefaults() LifecycleDeps {
	if d.Metrics == nil {
		d.Metrics = NopMetrics{}
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.RetryDelay <= 0 {
		d.RetryDelay = DefaultAssignmentRetryDelay
	}
	return d
}

// TransitionResult describes a committed status write.
type TransitionResult struct {
	OrderID       kernel.UUID
	Status        order.Status
	Version       int64
	PaymentStatus order.PaymentStatus
	// Assignment is set when the transition ran the driver assignment.
	Assignment *services.AssignmentOutcome
}

// lifecycle applies one status transition and its side effects inside a unit of work.
type lifecycle struct {
	deps LifecycleDeps
}

type transitionRequest struct {
	orderID kernel.UUID
	next    order.Status
	actorID *kernel.UUID
	notes   string
	// cancel routes through Order.Cancel and stores notes as the cancellation reason.
	cancel bool
}

func (l lifecycle) run(ctx context.Context, uowFactory LifecycleUoWFactory, req transitionRequest) (TransitionResult, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return TransitionResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	result, events, err := l.apply(ctx, uow, req)
	if err != nil {
		if errors.Is(err, errs.ErrVersionConflict) {
			l.deps.Metrics.VersionConflict()
		}
		return TransitionResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return TransitionResult{}, err
	}

	if result.Assignment != nil {
		l.deps.Metrics.AssignmentFinished(*result.Assignment)
	}
	publishAll(ctx, l.deps.Publisher, l.deps.Logger, events)
	return result, nil
}

func (l lifecycle) apply(ctx context.Context, uow LifecycleUoW, req transitionRequest) (TransitionResult, []pendingEvent, error) {
	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, req.orderID)
	if err != nil {
		return TransitionResult{}, nil, err
	}

	from := o.Status()
	now := time.Now().UTC()
	if req.cancel || req.next == order.Cancelled {
		err = o.Cancel(req.notes, now)
	} else {
		err = o.Transition(req.next, now)
	}
	if err != nil {
		return TransitionResult{}, nil, err
	}

	// Only the compare-and-swap winner gets past this point, so every side effect below
	// runs at most once per version.
	if err = orderRepo.UpdateStatus(ctx, o); err != nil {
		return TransitionResult{}, nil, err
	}
	o.MarkPersisted()

	notes := req.notes
	switch {
	case o.Status() == order.Cancelled && notes != "":
		notes = "Cancelled: " + notes
	case notes == "":
		notes = fmt.Sprintf("Order status updated to %s", o.Status())
	}
	entry := order.NewHistoryEntry(o.ID(), o.Status(), req.actorID, notes, now)
	if err = uow.StatusHistoryRepository().Append(ctx, entry); err != nil {
		return TransitionResult{}, nil, err
	}

	// A cancellation notifies the customer through order.cancelled alone.
	var events []pendingEvent
	if o.Status() != order.Cancelled {
		events = append(events, pendingEvent{
			userID:    o.CustomerID(),
			eventType: EventOrderStatusChanged,
			payload:   newOrderEvent(o, "Order Update", StatusMessage(o.Status())),
		})
	}
	result := TransitionResult{OrderID: o.ID(), Status: o.Status(), Version: o.Version()}

	var extra []pendingEvent
	//nolint:exhaustive // the remaining statuses have no side effects
	switch o.Status() {
	case order.ReadyForPickup:
		var d *delivery.Delivery
		if d, err = uow.DeliveryRepository().GetByOrderID(ctx, o.ID()); err != nil {
			break
		}
		var outcome services.AssignmentOutcome
		outcome, extra, err = l.assign(ctx, uow, o, d, 0, now)
		result.Assignment = &outcome
	case order.OutForDelivery:
		err = l.markPickedUp(ctx, uow, o, now)
	case order.Delivered:
		extra, err = l.completeDelivery(ctx, uow, o, now)
	case order.Refunded:
		extra, err = l.refund(ctx, uow, o, req.notes)
	case order.Cancelled:
		extra, err = l.cancelled(ctx, uow, o)
	}
	if err != nil {
		return TransitionResult{}, nil, err
	}

	l.deps.Metrics.TransitionApplied(from, o.Status())
	l.deps.Logger.InfoContext(ctx, "order status updated",
		slog.String("order_id", o.ID().String()),
		slog.String("order_number", o.Number()),
		slog.String("from", from.String()),
		slog.String("to", o.Status().String()),
		slog.Int64("version", o.Version()))

	result.PaymentStatus = o.PaymentStatus()
	return result, append(events, extra...), nil
}

// assign runs the coordinator for d, the delivery of o. A delivery that finds no driver is put on
// the backlog in the same transaction; the order stays READY_FOR_PICKUP.
func (l lifecycle) assign(
	ctx context.Context,
	uow LifecycleUoW,
	o *order.Order,
	d *delivery.Delivery,
	attempt int,
	now time.Time,
) (services.AssignmentOutcome, []pendingEvent, error) {
	outcome, err := l.deps.Assigner.Assign(ctx, d, uow.DriverRepository())
	if err != nil {
		return services.AssignmentOutcome{}, nil, fmt.Errorf("assign driver to order %s: %w", o.Number(), err)
	}

	backlog := uow.AssignmentBacklogRepository()
	if !outcome.Assigned {
		next := now.Add(l.retryDelay(attempt))
		if err = backlog.Enqueue(ctx, o.ID(), next, noDriverReason); err != nil {
			return services.AssignmentOutcome{}, nil, err
		}
		l.deps.Logger.WarnContext(ctx, "no driver available",
			slog.String("order_number", o.Number()),
			slog.Int("candidates", outcome.Candidates),
			slog.Int("attempt", attempt),
			slog.Time("next_attempt_at", next))
		event := newOrderEvent(o, "Assigning Driver", "We are looking for a driver for your order")
		event.DeliveryID = d.ID().String()
		return outcome, []pendingEvent{{userID: o.CustomerID(), eventType: EventDriverAssignmentPending, payload: event}}, nil
	}

	if err = backlog.Remove(ctx, o.ID()); err != nil {
		return services.AssignmentOutcome{}, nil, err
	}

	assigned, err := uow.DriverRepository().Get(ctx, outcome.DriverID)
	if err != nil {
		return services.AssignmentOutcome{}, nil, err
	}

	l.deps.Logger.InfoContext(ctx, "driver assigned",
		slog.String("order_number", o.Number()),
		slog.String("driver_id", outcome.DriverID.String()),
		slog.Float64("distance_km", outcome.DistanceKm),
		slog.Int("attempts", outcome.Attempts))

	toDriver := newOrderEvent(o, "New Delivery", fmt.Sprintf("You have been assigned to order #%s", o.Number()))
	toDriver.DriverID = outcome.DriverID.String()
	toDriver.DeliveryID = d.ID().String()
	return outcome, []pendingEvent{{userID: assigned.UserID(), eventType: EventDriverAssigned, payload: toDriver}}, nil
}

func (l lifecycle) markPickedUp(ctx context.Context, uow LifecycleUoW, o *order.Order, now time.Time) error {
	deliveries := uow.DeliveryRepository()
	d, err := deliveries.GetByOrderID(ctx, o.ID())
	if err != nil {
		return err
	}
	d.MarkPickedUp(now)
	return deliveries.UpdateProgress(ctx, d)
}

// completeDelivery stamps the delivery, frees the driver, bumps the customer counter and
// settles payment. A transport error from the gateway aborts the transaction; a declined
// charge is recorded as FAILED and the delivery still commits.
func (l lifecycle) completeDelivery(ctx context.Context, uow LifecycleUoW, o *order.Order, now time.Time) ([]pendingEvent, error) {
	deliveries := uow.DeliveryRepository()
	d, err := deliveries.GetByOrderID(ctx, o.ID())
	if err != nil {
		return nil, err
	}
	d.MarkDelivered(now)
	if err = deliveries.UpdateProgress(ctx, d); err != nil {
		return nil, err
	}

	if driverID := d.DriverID(); driverID != nil {
		if err = uow.DriverRepository().Release(ctx, *driverID); err != nil {
			return nil, err
		}
	}

	if err = uow.CustomerRepository().IncrementTotalOrders(ctx, o.CustomerID()); err != nil {
		return nil, err
	}

	if l.deps.Payments == nil {
		return nil, nil
	}
	outcome, err := l.deps.Payments.Settle(ctx, o.ID(), o.Totals().Total, o.PaymentMethod())
	if err != nil {
		return nil, fmt.Errorf("settle payment for order %s: %w", o.Number(), err)
	}
	if err = o.SettlePayment(outcome.Succeeded); err != nil {
		return nil, err
	}
	if err = uow.OrderRepository().UpdatePaymentStatus(ctx, o); err != nil {
		return nil, err
	}
	l.deps.Metrics.PaymentSettled(outcome.Succeeded)

	if outcome.Succeeded {
		return []pendingEvent{{
			userID:    o.CustomerID(),
			eventType: EventPaymentSettled,
			payload:   newOrderEvent(o, "Payment Received", fmt.Sprintf("Payment for order #%s is complete", o.Number())),
		}}, nil
	}
	event := newOrderEvent(o, "Payment Failed", fmt.Sprintf("Payment for order #%s could not be completed", o.Number()))
	event.Reason = outcome.FailureReason
	return []pendingEvent{{userID: o.CustomerID(), eventType: EventPaymentFailed, payload: event}}, nil
}

// refund asks the gateway to return a completed payment. Orders that were never charged
// successfully need nothing from the gateway.
func (l lifecycle) refund(ctx context.Context, uow LifecycleUoW, o *order.Order, reason string) ([]pendingEvent, error) {
	if o.PaymentStatus() != order.PaymentCompleted || l.deps.Payments == nil {
		return nil, nil
	}
	if err := l.deps.Payments.Refund(ctx, o.ID(), reason); err != nil {
		return nil, fmt.Errorf("refund order %s: %w", o.Number(), err)
	}
	if err := o.RequestRefund(); err != nil {
		return nil, err
	}
	if err := uow.OrderRepository().UpdatePaymentStatus(ctx, o); err != nil {
		return nil, err
	}
	return nil, nil
}

// cancelled flags a completed payment for refund and emits the refund request; the
// refund itself is carried out by the payment side.
func (l lifecycle) cancelled(ctx context.Context, uow LifecycleUoW, o *order.Order) ([]pendingEvent, error) {
	events := []pendingEvent{{
		userID:    o.CustomerID(),
		eventType: EventOrderCancelled,
		payload:   l.cancelPayload(o),
	}}
	if o.PaymentStatus() != order.PaymentCompleted {
		return events, nil
	}
	if err := o.RequestRefund(); err != nil {
		return nil, err
	}
	if err := uow.OrderRepository().UpdatePaymentStatus(ctx, o); err != nil {
		return nil, err
	}
	refund := newOrderEvent(o, "Refund Initiated", fmt.Sprintf("A refund for order #%s has been requested", o.Number()))
	refund.Reason = o.CancellationReason()
	return append(events, pendingEvent{userID: o.CustomerID(), eventType: EventPaymentRefundRequested, payload: refund}), nil
}

func (l lifecycle) cancelPayload(o *order.Order) OrderEvent {
	event := newOrderEvent(o, "Order Cancelled", StatusMessage(order.Cancelled))
	event.Reason = o.CancellationReason()
	return event
}

// retryDelay doubles per attempt up to five minutes.
func (l lifecycle) retryDelay(attempt int) time.Duration {
	delay := l.deps.RetryDelay
	for i := 0; i < attempt && delay < maxAssignmentRetryDelay; i++ {
		delay *= 2
	}
	return min(delay, maxAssignmentRetryDelay)
}
