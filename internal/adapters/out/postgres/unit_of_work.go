// Package postgres provides the GORM-based Unit of Work for the order lifecycle.
// A unit of work wraps one database transaction and hands out repositories bound to it,
// so the order CAS write, the driver claim, delivery progress, status history, the
// customer counter and the assignment backlog commit or roll back together.
//
// Usage:
//
//	factory := NewGormUnitOfWorkFactory(db, observer)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().UpdateStatus(ctx, o); err != nil {
//	    return err
//	}
//	if err := uow.StatusHistoryRepository().Append(ctx, entry); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Rollback after a successful Commit returns gorm.ErrInvalidTransaction and is safe to
// ignore, which is what the deferred call above relies on.
//
// Each UnitOfWork instance is single-goroutine. Concurrent commands use separate
// instances from the same factory.
package postgres

import (
	"context"

	"marketplace/internal/adapters/out/postgres/backlogrepo"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/customerrepo"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/driverrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"gorm.io/gorm"
)

// TrackedAggregate is an aggregate written during the unit of work.
type TrackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// CommitObserver is told about every aggregate written by a unit of work once its
// transaction has committed. It is never called for a rolled back transaction.
type CommitObserver interface {
	AggregatesCommitted(ctx context.Context, aggregates []TrackedAggregate)
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db       *gorm.DB
	observer CommitObserver
}

// NewGormUnitOfWorkFactory builds a factory. observer may be nil.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, kafkaAudit)
func NewGormUnitOfWorkFactory(db *gorm.DB, observer CommitObserver) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db, observer: observer}
}

// Create produces a fresh UnitOfWork with its own transaction state and tracking list.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return f.CreateGorm()
}

// CreateGorm is Create without the interface conversion. The composition root uses it to
// satisfy the narrower unit of work interfaces the command handlers declare.
func (f *GormUnitOfWorkFactory) CreateGorm() *GormUnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		observer:          f.observer,
		trackedAggregates: make([]TrackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction and tracks the aggregates written
// inside it.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	observer          CommitObserver
	trackedAggregates []TrackedAggregate
}

// Begin opens the transaction. Calling Begin twice does not nest.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then reports the tracked aggregates to the
// observer. The transaction cannot be reused afterwards.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	if uow.observer != nil && len(uow.trackedAggregates) > 0 {
		committed := make([]TrackedAggregate, len(uow.trackedAggregates))
		copy(committed, uow.trackedAggregates)
		uow.observer.AggregatesCommitted(ctx, committed)
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return nil
}

// Rollback discards the transaction and everything tracked inside it.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

// conn returns the open transaction, or the pool when none is open.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) StatusHistoryRepository() ports.StatusHistoryRepository {
	return orderrepo.NewGormStatusHistoryRepository(uow.conn())
}

func (uow *GormUnitOfWork) DeliveryRepository() ports.DeliveryRepository {
	return deliveryrepo.NewGormDeliveryRepository(uow.conn(), uow)
}

// DriverRepository is also the claimer the assignment coordinator calls, so a claim
// shares the transaction of the order write that triggered it.
func (uow *GormUnitOfWork) DriverRepository() ports.DriverRepository {
	return driverrepo.NewGormDriverRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) CatalogRepository() ports.CatalogRepository {
	return catalogrepo.NewGormCatalogRepository(uow.conn())
}

func (uow *GormUnitOfWork) CustomerRepository() ports.CustomerRepository {
	return customerrepo.NewGormCustomerRepository(uow.conn())
}

func (uow *GormUnitOfWork) AssignmentBacklogRepository() ports.AssignmentBacklogRepository {
	return backlogrepo.NewGormBacklogRepository(uow.conn())
}

// TrackAggregate registers an aggregate written inside this unit of work. Repositories
// call it after each successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, TrackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// TrackedAggregates returns what has been written since Begin.
func (uow *GormUnitOfWork) TrackedAggregates() []TrackedAggregate {
	return uow.trackedAggregates
}
