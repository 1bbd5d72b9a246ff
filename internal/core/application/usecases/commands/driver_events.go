package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/ports"
)

// DriverEvent is the payload of driver-scoped events.
type DriverEvent struct {
	DriverID    string        `json:"driverId"`
	Status      driver.Status `json:"status"`
	IsAvailable bool          `json:"isAvailable"`
	Latitude    *float64      `json:"latitude,omitempty"`
	Longitude   *float64      `json:"longitude,omitempty"`
}

func newDriverEvent(d *driver.Driver) DriverEvent {
	event := DriverEvent{
		DriverID:    d.ID().String(),
		Status:      d.Status(),
		IsAvailable: d.IsAvailable(),
	}
	if loc := d.Location(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		event.Latitude = &lat
		event.Longitude = &lon
	}
	return event
}

// syncLocationIndex mirrors the committed driver row into the geo index. The index is a
// read optimisation, so failures are logged and swallowed.
func syncLocationIndex(ctx context.Context, index ports.DriverLocationIndex, logger *slog.Logger, d *driver.Driver) {
	if index == nil {
		return
	}

	var err error
	if loc := d.Location(); loc != nil && d.IsClaimable() {
		err = index.Upsert(ctx, d.ID(), *loc)
	} else {
		err = index.Remove(ctx, d.ID())
	}
	if err != nil {
		logger.WarnContext(ctx, "driver location index out of sync",
			slog.String("driver_id", d.ID().String()),
			slog.Any("error", err))
	}
}
