package redisgeo

import (
	"context"
	"fmt"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"

	"github.com/go-redis/redis/v8"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// oversample widens the Redis search because some of the nearest members may have gone
// busy or offline since their last position report.
const oversample = 3

type availabilityRow struct {
	ID     string
	Rating float64
}

// DriverLocator answers the geospatial query from Redis and keeps only drivers that
// Postgres still reports as ONLINE and available.
type DriverLocator struct {
	rdb redis.Cmdable
	key string
	db  *gorm.DB
}

var _ ports.DriverLocator = (*DriverLocator)(nil)

func NewDriverLocator(rdb redis.Cmdable, key string, db *gorm.DB) *DriverLocator {
	if key == "" {
		key = DefaultKey
	}
	return &DriverLocator{rdb: rdb, key: key, db: db}
}

func (l *DriverLocator) FindNearbyDrivers(
	ctx context.Context,
	point kernel.GeoPoint,
	radiusKm float64,
	limit int,
) ([]services.DriverCandidate, error) {
	if limit <= 0 {
		return nil, nil
	}

	locations, err := l.rdb.GeoSearchLocation(ctx, l.key, &redis.GeoSearchLocationQuery{
		GeoSearchQuery: redis.GeoSearchQuery{
			Longitude:  point.Longitude(),
			Latitude:   point.Latitude(),
			Radius:     radiusKm,
			RadiusUnit: "km",
			Sort:       "ASC",
			Count:      limit * oversample,
		},
		WithDist: true,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("geosearch %s: %w", l.key, err)
	}
	if len(locations) == 0 {
		return nil, nil
	}

	ids := make([]string, len(locations))
	for i, loc := range locations {
		ids[i] = loc.Name
	}

	var rows []availabilityRow
	err = l.db.WithContext(ctx).Raw(`
		SELECT id::text AS id, rating
		FROM drivers
		WHERE id = ANY(CAST(? AS uuid[]))
			AND status = ?
			AND is_available
	`, pq.Array(ids), driver.Online.String()).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	ratings := make(map[string]float64, len(rows))
	for _, row := range rows {
		ratings[row.ID] = row.Rating
	}

	candidates := make([]services.DriverCandidate, 0, len(rows))
	for _, loc := range locations {
		rating, ok := ratings[loc.Name]
		if !ok {
			continue
		}
		id, err := kernel.UUIDFromString(loc.Name)
		if err != nil {
			continue
		}
		candidates = append(candidates, services.DriverCandidate{
			DriverID:   id,
			DistanceKm: loc.Dist,
			Rating:     rating,
		})
	}

	ranked := services.RankCandidates(candidates)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}
