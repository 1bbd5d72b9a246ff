package driverrepo

import (
	"context"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// nearbySQL computes the great-circle distance in SQL so radius filtering and ranking
// happen in one round trip. LEAST guards acos against rounding above 1.
const nearbySQL = `
SELECT id, rating, distance_km FROM (
	SELECT id, rating,
		6371 * acos(LEAST(1.0,
			cos(radians(@lat)) * cos(radians(latitude)) * cos(radians(longitude) - radians(@lon)) +
			sin(radians(@lat)) * sin(radians(latitude))
		)) AS distance_km
	FROM drivers
	WHERE is_available AND status = @status
		AND latitude IS NOT NULL AND longitude IS NOT NULL
) AS candidates
WHERE distance_km <= @radius
ORDER BY distance_km ASC, rating DESC
LIMIT @limit`

// SQLDriverLocator implements ports.DriverLocator with a haversine query over drivers.
type SQLDriverLocator struct {
	db *gorm.DB
}

func NewSQLDriverLocator(db *gorm.DB) *SQLDriverLocator {
	return &SQLDriverLocator{db: db}
}

type candidateRow struct {
	ID         uuid.UUID
	Rating     float64
	DistanceKm float64
}

func (l *SQLDriverLocator) FindNearbyDrivers(
	ctx context.Context,
	point kernel.GeoPoint,
	radiusKm float64,
	limit int,
) ([]services.DriverCandidate, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 || radiusKm > services.MaxSearchRadiusKm {
		radiusKm = services.DefaultSearchRadiusKm
	}
	if limit <= 0 {
		limit = services.DefaultCandidateLimit
	}

	var rows []candidateRow
	err := l.db.WithContext(ctx).Raw(nearbySQL, map[string]any{
		"lat":    point.Latitude(),
		"lon":    point.Longitude(),
		"status": driver.Online.String(),
		"radius": radiusKm,
		"limit":  limit,
	}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]services.DriverCandidate, 0, len(rows))
	for _, row := range rows {
		id, idErr := kernel.UUIDFromBytes(row.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		candidates = append(candidates, services.DriverCandidate{
			DriverID:   id,
			DistanceKm: row.DistanceKm,
			Rating:     row.Rating,
		})
	}
	return candidates, nil
}
