package ports

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add inserts a new order with its line items.
	Add(ctx context.Context, aggregate *order.Order) error

	// UpdateStatus is the compare-and-swap write of a status transition. It succeeds only
	// while the stored version equals aggregate.ExpectedVersion() and stores
	// aggregate.Version(). Zero affected rows on an existing order yields
	// *errs.VersionConflictError.
	UpdateStatus(ctx context.Context, aggregate *order.Order) error

	// UpdatePaymentStatus writes the payment status only; it does not touch the version.
	UpdatePaymentStatus(ctx context.Context, aggregate *order.Order) error

	// Get returns the order with its items, or *errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// StatusHistoryRepository is the append-only status log.
type StatusHistoryRepository interface {
	Append(ctx context.Context, entry order.HistoryEntry) error
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.HistoryEntry, error)
}
