package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
)

// EventPublisher is the notification/event sink. Publishing is fire-and-forget from the
// core's point of view: it runs after commit and failures are only logged.
type EventPublisher interface {
	Publish(ctx context.Context, userID kernel.UUID, eventType string, payload any) error
}

// SettlementOutcome is the gateway verdict for a charge.
type SettlementOutcome struct {
	Succeeded     bool
	Reference     string
	FailureReason string
}

// PaymentGateway settles and refunds payments. An error means the gateway could not be
// reached; a declined charge is a SettlementOutcome with Succeeded=false.
type PaymentGateway interface {
	Settle(ctx context.Context, orderID kernel.UUID, amount decimal.Decimal, method order.PaymentMethod) (SettlementOutcome, error)
	Refund(ctx context.Context, orderID kernel.UUID, reason string) error
}
