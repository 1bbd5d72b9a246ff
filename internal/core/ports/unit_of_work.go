// Package ports defines the contracts between the order lifecycle core and its adapters:
// repositories bound to a unit of work, the geospatial locator, the event sink and the
// payment gateway.
package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork for each command.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Every repository it returns after Begin
// shares the same transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() OrderRepository
	StatusHistoryRepository() StatusHistoryRepository
	DeliveryRepository() DeliveryRepository
	DriverRepository() DriverRepository
	CatalogRepository() CatalogRepository
	CustomerRepository() CustomerRepository
	AssignmentBacklogRepository() AssignmentBacklogRepository
}
