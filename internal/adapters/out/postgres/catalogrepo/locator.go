package catalogrepo

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// distanceSelect is the haversine distance from the bound point to each restaurant.
// LEAST guards acos against rounding above 1.
const distanceSelect = `id, name, cuisine_types, is_open, rating, minimum_order, delivery_fee, latitude, longitude,
	6371 * acos(LEAST(1.0,
		cos(radians(?)) * cos(radians(latitude)) * cos(radians(longitude) - radians(?)) +
		sin(radians(?)) * sin(radians(latitude))
	)) AS distance_km`

// SQLRestaurantLocator implements ports.RestaurantLocator with a haversine query over
// restaurants.
type SQLRestaurantLocator struct {
	db *gorm.DB
}

func NewSQLRestaurantLocator(db *gorm.DB) *SQLRestaurantLocator {
	return &SQLRestaurantLocator{db: db}
}

type restaurantRow struct {
	ID           uuid.UUID
	Name         string
	CuisineTypes pq.StringArray
	IsOpen       bool
	Rating       float64
	MinimumOrder decimal.Decimal
	DeliveryFee  decimal.Decimal
	Latitude     float64
	Longitude    float64
	DistanceKm   float64
}

func (l *SQLRestaurantLocator) FindNearbyRestaurants(
	ctx context.Context,
	point kernel.GeoPoint,
	radiusKm float64,
	filter ports.RestaurantFilter,
	limit int,
) ([]ports.RestaurantMatch, error) {
	if err := point.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 || radiusKm > services.MaxSearchRadiusKm {
		radiusKm = ports.DefaultRestaurantSearchRadiusKm
	}
	if limit <= 0 || limit > ports.MaxRestaurantResults {
		limit = ports.MaxRestaurantResults
	}

	db := l.db.WithContext(ctx)
	nearby := db.Model(&RestaurantDTO{}).
		Select(distanceSelect, point.Latitude(), point.Longitude(), point.Latitude()).
		Where("status = ?", string(catalog.RestaurantActive))
	if filter.IsOpen != nil {
		nearby = nearby.Where("is_open = ?", *filter.IsOpen)
	}
	if filter.MinimumRating != nil {
		nearby = nearby.Where("rating >= ?", *filter.MinimumRating)
	}
	if filter.MaxDeliveryFee != nil {
		nearby = nearby.Where("delivery_fee <= ?", *filter.MaxDeliveryFee)
	}
	if len(filter.CuisineTypes) > 0 {
		nearby = nearby.Where("cuisine_types && ?::text[]", pq.Array(filter.CuisineTypes))
	}

	var rows []restaurantRow
	err := db.Table("(?) AS nearby", nearby).
		Where("distance_km <= ?", radiusKm).
		Order("distance_km ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	matches := make([]ports.RestaurantMatch, 0, len(rows))
	for _, row := range rows {
		id, idErr := kernel.UUIDFromBytes(row.ID[:])
		if idErr != nil {
			return nil, idErr
		}
		location, pointErr := kernel.NewGeoPoint(row.Latitude, row.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		matches = append(matches, ports.RestaurantMatch{
			RestaurantID: id,
			Name:         row.Name,
			CuisineTypes: []string(row.CuisineTypes),
			IsOpen:       row.IsOpen,
			Rating:       row.Rating,
			MinimumOrder: row.MinimumOrder,
			DeliveryFee:  row.DeliveryFee,
			Location:     location,
			DistanceKm:   row.DistanceKm,
		})
	}
	return matches, nil
}
