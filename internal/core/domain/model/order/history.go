package order

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
)

// HistoryEntry is one row of the append-only status history. ActorID is nil for
// system-driven changes such as order creation.
type HistoryEntry struct {
	OrderID   kernel.UUID
	Status    Status
	ActorID   *kernel.UUID
	Notes     string
	CreatedAt time.Time
}

func NewHistoryEntry(orderID kernel.UUID, status Status, actorID *kernel.UUID, notes string, at time.Time) HistoryEntry {
	return HistoryEntry{
		OrderID:   orderID,
		Status:    status,
		ActorID:   actorID,
		Notes:     notes,
		CreatedAt: at,
	}
}
