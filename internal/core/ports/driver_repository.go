package ports

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
)

// DriverRepository persists drivers and performs the conditional claim.
type DriverRepository interface {
	Add(ctx context.Context, aggregate *driver.Driver) error
	Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error)

	// UpdateStatus writes a driver-initiated status change. It refuses to overwrite BUSY so
	// a claim that landed after the driver was read is never undone.
	UpdateStatus(ctx context.Context, aggregate *driver.Driver) error

	UpdateLocation(ctx context.Context, aggregate *driver.Driver) error

	// Release puts a BUSY driver back to ONLINE and available.
	Release(ctx context.Context, id kernel.UUID) error

	// TryClaim flips (available, ONLINE) to (unavailable, BUSY) only if both still hold,
	// then links the driver to the delivery. It returns false when the driver was taken;
	// a failed link undoes the claim and returns an error.
	services.DriverClaimer
}

// DriverLocator is the geospatial query over available drivers, ordered by ascending
// distance then descending rating and capped at limit.
type DriverLocator interface {
	services.CandidateFinder
}

// DriverLocationIndex mirrors driver positions into a geo index. Implementations are
// best effort: the relational row stays the source of truth.
type DriverLocationIndex interface {
	Upsert(ctx context.Context, driverID kernel.UUID, point kernel.GeoPoint) error
	Remove(ctx context.Context, driverID kernel.UUID) error
}

// AssignmentBacklogEntry is a deferred driver assignment.
type AssignmentBacklogEntry struct {
	OrderID       kernel.UUID
	Attempts      int
	NextAttemptAt time.Time
	LastError     string
}

// AssignmentBacklogRepository stores orders that are READY_FOR_PICKUP without a driver.
type AssignmentBacklogRepository interface {
	// Enqueue inserts the order or, when already queued, bumps attempts and reschedules.
	Enqueue(ctx context.Context, orderID kernel.UUID, nextAttemptAt time.Time, reason string) error
	Remove(ctx context.Context, orderID kernel.UUID) error
	// Due returns up to limit entries whose next attempt is not after now, oldest first.
	Due(ctx context.Context, now time.Time, limit int) ([]AssignmentBacklogEntry, error)
}
