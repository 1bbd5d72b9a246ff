package queries

import (
	"context"
	"math"

	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
)

// FindNearbyRestaurantsQueryHandler lists restaurants a customer can order from, quoting
// the delivery fee each one would be charged at its distance.
type FindNearbyRestaurantsQueryHandler struct {
	locator ports.RestaurantLocator
	pricing services.PricingPolicy
}

func NewFindNearbyRestaurantsQueryHandler(
	locator ports.RestaurantLocator,
	pricing services.PricingPolicy,
) FindNearbyRestaurantsQueryHandler {
	return FindNearbyRestaurantsQueryHandler{locator: locator, pricing: pricing}
}

func (h FindNearbyRestaurantsQueryHandler) Handle(
	ctx context.Context,
	query FindNearbyRestaurantsQuery,
) ([]NearbyRestaurant, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	matches, err := h.locator.FindNearbyRestaurants(ctx, query.Point(), query.RadiusKm(), query.Filter(),
		ports.MaxRestaurantResults)
	if err != nil {
		return nil, err
	}

	restaurants := make([]NearbyRestaurant, 0, len(matches))
	for _, m := range matches {
		restaurants = append(restaurants, NearbyRestaurant{
			RestaurantID:          m.RestaurantID,
			Name:                  m.Name,
			CuisineTypes:          m.CuisineTypes,
			IsOpen:                m.IsOpen,
			Rating:                m.Rating,
			MinimumOrder:          m.MinimumOrder,
			DeliveryFee:           m.DeliveryFee,
			CalculatedDeliveryFee: h.pricing.DeliveryFee(m.DistanceKm),
			DistanceKm:            math.Round(m.DistanceKm*100) / 100,
		})
	}
	return restaurants, nil
}
