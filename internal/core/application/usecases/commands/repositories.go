// Package commands contains the write side of the order lifecycle: order placement,
// status transitions, cancellation, deferred driver assignment and the driver-side
// status/location updates. Every handler validates its command, runs inside one unit of
// work and publishes events only after commit.
package commands

import (
	"context"

	"marketplace/internal/core/ports"
)

// Unit of Work interfaces. Each handler depends only on the repositories it touches.
type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	HistoryRepoFactory interface {
		StatusHistoryRepository() ports.StatusHistoryRepository
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	CatalogRepoFactory interface {
		CatalogRepository() ports.CatalogRepository
	}

	CustomerRepoFactory interface {
		CustomerRepository() ports.CustomerRepository
	}

	BacklogRepoFactory interface {
		AssignmentBacklogRepository() ports.AssignmentBacklogRepository
	}

	// CreateOrderUoW covers order placement: catalog and address reads plus the order,
	// delivery and first history row.
	CreateOrderUoW interface {
		TxManager
		OrderRepoFactory
		HistoryRepoFactory
		DeliveryRepoFactory
		CatalogRepoFactory
		CustomerRepoFactory
	}

	CreateOrderUoWFactory interface {
		Create() CreateOrderUoW
	}

	// LifecycleUoW covers status transitions and everything they trigger: driver claim,
	// delivery progress, customer counter and the assignment backlog.
	LifecycleUoW interface {
		TxManager
		OrderRepoFactory
		HistoryRepoFactory
		DeliveryRepoFactory
		DriverRepoFactory
		CustomerRepoFactory
		BacklogRepoFactory
	}

	LifecycleUoWFactory interface {
		Create() LifecycleUoW
	}

	// DriverUoW covers driver-initiated updates.
	DriverUoW interface {
		TxManager
		DriverRepoFactory
	}

	DriverUoWFactory interface {
		Create() DriverUoW
	}
)
