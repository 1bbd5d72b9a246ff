package queries

import (
	"context"
	"math"

	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// FindNearbyDriversQueryHandler serves the geospatial read through whichever locator is
// configured.
type FindNearbyDriversQueryHandler struct {
	locator ports.DriverLocator
}

func NewFindNearbyDriversQueryHandler(locator ports.DriverLocator) FindNearbyDriversQueryHandler {
	return FindNearbyDriversQueryHandler{locator: locator}
}

// Handle returns drivers nearest first, ties broken by higher rating, with distances
// rounded to 2 decimals.
func (h FindNearbyDriversQueryHandler) Handle(ctx context.Context, query FindNearbyDriversQuery) ([]NearbyDriver, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	candidates, err := h.locator.FindNearbyDrivers(ctx, query.Point(), query.RadiusKm(), query.Limit())
	if err != nil {
		return nil, err
	}
	candidates = services.RankCandidates(candidates)
	if len(candidates) > query.Limit() {
		candidates = candidates[:query.Limit()]
	}

	drivers := make([]NearbyDriver, 0, len(candidates))
	for _, c := range candidates {
		drivers = append(drivers, NearbyDriver{
			DriverID:   c.DriverID,
			DistanceKm: math.Round(c.DistanceKm*100) / 100,
			Rating:     c.Rating,
		})
	}
	return drivers, nil
}
