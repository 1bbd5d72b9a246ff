package queries

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

const MaxNearbyLimit = 100

var ErrFindNearbyDriversQueryIsNotConstructed = errors.New(
	"FindNearbyDriversQuery must be created via NewFindNearbyDriversQuery constructor",
)

// FindNearbyDriversQuery asks for available drivers around a point. A zero radius or
// limit falls back to the assignment defaults.
type FindNearbyDriversQuery struct { //nolint:recvcheck //using for validation
	point    kernel.GeoPoint
	radiusKm float64
	limit    int
	guard    guard.ConstructorGuard
}

func NewFindNearbyDriversQuery(latitude, longitude, radiusKm float64, limit int) (FindNearbyDriversQuery, error) {
	point, pointErr := kernel.NewGeoPoint(latitude, longitude)

	if radiusKm == 0 {
		radiusKm = services.DefaultSearchRadiusKm
	}
	var radiusErr error
	if radiusKm < 0 || radiusKm > services.MaxSearchRadiusKm {
		radiusErr = errs.NewValueIsOutOfRangeError("radius", radiusKm, 0, services.MaxSearchRadiusKm)
	}

	if limit == 0 {
		limit = services.DefaultCandidateLimit
	}
	var limitErr error
	if limit < 0 || limit > MaxNearbyLimit {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxNearbyLimit)
	}

	if err := errors.Join(pointErr, radiusErr, limitErr); err != nil {
		return FindNearbyDriversQuery{}, err
	}
	return FindNearbyDriversQuery{
		point:    point,
		radiusKm: radiusKm,
		limit:    limit,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q FindNearbyDriversQuery) Validate() error {
	return q.guard.Validate(ErrFindNearbyDriversQueryIsNotConstructed)
}

func (q FindNearbyDriversQuery) Point() kernel.GeoPoint { return q.point }
func (q FindNearbyDriversQuery) RadiusKm() float64      { return q.radiusKm }
func (q FindNearbyDriversQuery) Limit() int             { return q.limit }

type NearbyDriver struct {
	DriverID   kernel.UUID
	DistanceKm float64
	Rating     float64
}
