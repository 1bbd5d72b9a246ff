package ports

import (
	"context"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/customer"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// CatalogRepository reads restaurants and menu items for order placement.
type CatalogRepository interface {
	GetRestaurant(ctx context.Context, id kernel.UUID) (*catalog.Restaurant, error)
	// GetMenuItems returns the items found among ids, keyed by id string. Missing ids are
	// simply absent from the map.
	GetMenuItems(ctx context.Context, ids []kernel.UUID) (map[string]*catalog.MenuItem, error)
}

type CustomerRepository interface {
	GetAddress(ctx context.Context, id kernel.UUID) (*customer.Address, error)
	// IncrementTotalOrders bumps the lifetime counter, creating the row on first delivery.
	IncrementTotalOrders(ctx context.Context, customerID kernel.UUID) error
}

const (
	DefaultRestaurantSearchRadiusKm = 10.0
	MaxRestaurantResults            = 50
)

// RestaurantFilter narrows a nearby search. Nil fields and an empty cuisine list match
// every restaurant.
type RestaurantFilter struct {
	CuisineTypes   []string
	IsOpen         *bool
	MinimumRating  *float64
	MaxDeliveryFee *decimal.Decimal
}

type RestaurantMatch struct {
	RestaurantID kernel.UUID
	Name         string
	CuisineTypes []string
	IsOpen       bool
	Rating       float64
	MinimumOrder decimal.Decimal
	DeliveryFee  decimal.Decimal
	Location     kernel.GeoPoint
	DistanceKm   float64
}

// RestaurantLocator finds active restaurants within radiusKm of point, nearest first and
// capped at limit.
type RestaurantLocator interface {
	FindNearbyRestaurants(
		ctx context.Context,
		point kernel.GeoPoint,
		radiusKm float64,
		filter RestaurantFilter,
		limit int,
	) ([]RestaurantMatch, error)
}
