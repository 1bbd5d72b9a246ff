package queries

import (
	"errors"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const MaxRestaurantRating = 5.0

var ErrFindNearbyRestaurantsQueryIsNotConstructed = errors.New(
	"FindNearbyRestaurantsQuery must be created via NewFindNearbyRestaurantsQuery constructor",
)

// FindNearbyRestaurantsQuery asks for active restaurants around a customer. A zero radius
// means the default search radius.
type FindNearbyRestaurantsQuery struct { //nolint:recvcheck //using for validation
	point    kernel.GeoPoint
	radiusKm float64
	filter   ports.RestaurantFilter
	guard    guard.ConstructorGuard
}

func NewFindNearbyRestaurantsQuery(
	latitude, longitude, radiusKm float64,
	cuisineTypes []string,
	isOpen *bool,
	minimumRating *float64,
	maxDeliveryFee *decimal.Decimal,
) (FindNearbyRestaurantsQuery, error) {
	point, pointErr := kernel.NewGeoPoint(latitude, longitude)

	if radiusKm == 0 {
		radiusKm = ports.DefaultRestaurantSearchRadiusKm
	}
	var radiusErr error
	if radiusKm < 0 || radiusKm > services.MaxSearchRadiusKm {
		radiusErr = errs.NewValueIsOutOfRangeError("radius", radiusKm, 0, services.MaxSearchRadiusKm)
	}

	var ratingErr error
	if minimumRating != nil && (*minimumRating < 0 || *minimumRating > MaxRestaurantRating) {
		ratingErr = errs.NewValueIsOutOfRangeError("minimumRating", *minimumRating, 0, MaxRestaurantRating)
	}

	var feeErr error
	if maxDeliveryFee != nil && maxDeliveryFee.IsNegative() {
		feeErr = errs.NewValueIsInvalidError("maxDeliveryFee")
	}

	if err := errors.Join(pointErr, radiusErr, ratingErr, feeErr); err != nil {
		return FindNearbyRestaurantsQuery{}, err
	}
	return FindNearbyRestaurantsQuery{
		point:    point,
		radiusKm: radiusKm,
		filter: ports.RestaurantFilter{
			CuisineTypes:   normalizeCuisines(cuisineTypes),
			IsOpen:         isOpen,
			MinimumRating:  minimumRating,
			MaxDeliveryFee: maxDeliveryFee,
		},
		guard: guard.NewConstructorGuard(),
	}, nil
}

// normalizeCuisines trims, lower-cases and de-duplicates cuisine names, dropping blanks.
func normalizeCuisines(raw []string) []string {
	var cuisines []string
	seen := make(map[string]struct{}, len(raw))
	for _, c := range raw {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		cuisines = append(cuisines, c)
	}
	return cuisines
}

func (q FindNearbyRestaurantsQuery) Validate() error {
	return q.guard.Validate(ErrFindNearbyRestaurantsQueryIsNotConstructed)
}

func (q FindNearbyRestaurantsQuery) Point() kernel.GeoPoint         { return q.point }
func (q FindNearbyRestaurantsQuery) RadiusKm() float64              { return q.radiusKm }
func (q FindNearbyRestaurantsQuery) Filter() ports.RestaurantFilter { return q.filter }

type NearbyRestaurant struct {
	RestaurantID          kernel.UUID
	Name                  string
	CuisineTypes          []string
	IsOpen                bool
	Rating                float64
	MinimumOrder          decimal.Decimal
	DeliveryFee           decimal.Decimal
	CalculatedDeliveryFee decimal.Decimal
	DistanceKm            float64
}
