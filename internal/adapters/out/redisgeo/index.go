// Package redisgeo keeps driver positions in a Redis GEO set and answers nearby-driver
// queries from it. Postgres stays the source of truth for availability and rating.
package redisgeo

import (
	"context"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/go-redis/redis/v8"
)

const DefaultKey = "drivers:locations"

type LocationIndex struct {
	rdb redis.Cmdable
	key string
}

var _ ports.DriverLocationIndex = (*LocationIndex)(nil)

func NewLocationIndex(rdb redis.Cmdable, key string) *LocationIndex {
	if key == "" {
		key = DefaultKey
	}
	return &LocationIndex{rdb: rdb, key: key}
}

func (i *LocationIndex) Upsert(ctx context.Context, driverID kernel.UUID, point kernel.GeoPoint) error {
	return i.rdb.GeoAdd(ctx, i.key, &redis.GeoLocation{
		Name:      driverID.String(),
		Longitude: point.Longitude(),
		Latitude:  point.Latitude(),
	}).Err()
}

func (i *LocationIndex) Remove(ctx context.Context, driverID kernel.UUID) error {
	return i.rdb.ZRem(ctx, i.key, driverID.String()).Err()
}
