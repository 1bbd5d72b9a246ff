package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// Event types published by the lifecycle.
const (
	EventOrderCreated             = "order.created"
	EventOrderStatusChanged       = "order.status_changed"
	EventOrderCancelled           = "order.cancelled"
	EventDriverAssigned           = "delivery.driver_assigned"
	EventDriverAssignmentPending  = "delivery.driver_assignment_pending"
	EventPaymentSettled           = "payment.settled"
	EventPaymentFailed            = "payment.failed"
	EventPaymentRefundRequested   = "payment.refund_requested"
	EventDriverLocationUpdated    = "driver.location_updated"
	EventDriverAvailabilityChange = "driver.status_changed"
)

// OrderEvent is the payload of every order-scoped event.
type OrderEvent struct {
	OrderID     string       `json:"orderId"`
	OrderNumber string       `json:"orderNumber"`
	Status      order.Status `json:"status"`
	Version     int64        `json:"version"`
	Title       string       `json:"title"`
	Message     string       `json:"message"`
	DriverID    string       `json:"driverId,omitempty"`
	DeliveryID  string       `json:"deliveryId,omitempty"`
	Reason      string       `json:"reason,omitempty"`
}

// StatusMessage is the customer-facing line for each status.
func StatusMessage(s order.Status) string {
	//nolint:exhaustive // unknown falls through to the generic message
	switch s {
	case order.Pending:
		return "Your order has been placed"
	case order.Accepted:
		return "Your order has been accepted"
	case order.Preparing:
		return "Restaurant is preparing your order"
	case order.ReadyForPickup:
		return "Your order is ready for pickup"
	case order.OutForDelivery:
		return "Your order is out for delivery"
	case order.Delivered:
		return "Your order has been delivered"
	case order.Cancelled:
		return "Your order has been cancelled"
	case order.Refunded:
		return "Your order has been refunded"
	default:
		return "Your order has been updated"
	}
}

type pendingEvent struct {
	userID    kernel.UUID
	eventType string
	payload   any
}

func newOrderEvent(o *order.Order, title, message string) OrderEvent {
	return OrderEvent{
		OrderID:     o.ID().String(),
		OrderNumber: o.Number(),
		Status:      o.Status(),
		Version:     o.Version(),
		Title:       title,
		Message:     message,
	}
}

// publishAll runs after commit. The sink is fire-and-forget, so failures are logged and
// never reach the caller.
func publishAll(ctx context.Context, publisher ports.EventPublisher, logger *slog.Logger, events []pendingEvent) {
	if publisher == nil {
		return
	}
	for _, e := range events {
		if err := publisher.Publish(ctx, e.userID, e.eventType, e.payload); err != nil {
			logger.WarnContext(ctx, "event publish failed",
				slog.String("event_type", e.eventType),
				slog.String("user_id", e.userID.String()),
				slog.Any("error", err))
		}
	}
}
