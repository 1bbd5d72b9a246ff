package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
)

const (
	DefaultSearchRadiusKm = 5.0
	DefaultCandidateLimit = 20
	MaxSearchRadiusKm     = 50.0
)

var ErrClaimFuncIsRequired = errors.New("claim function is required")

// DriverCandidate is a ranked, not yet reserved, driver near a pickup point.
type DriverCandidate struct {
	DriverID   kernel.UUID
	DistanceKm float64
	Rating     float64
}

// ClaimFunc attempts to reserve one candidate. It returns false when another writer took
// the driver first; an error aborts the whole assignment.
type ClaimFunc func(ctx context.Context, candidate DriverCandidate) (bool, error)

// AssignmentOutcome is the result of a claim loop. Assigned=false means no candidate could
// be reserved; the order stays READY_FOR_PICKUP and the assignment is retried later.
type AssignmentOutcome struct {
	Assigned   bool
	DriverID   kernel.UUID
	DistanceKm float64
	Attempts   int
	Candidates int
}

// RankCandidates sorts by ascending distance, then descending rating.
func RankCandidates(candidates []DriverCandidate) []DriverCandidate {
	ranked := make([]DriverCandidate, len(candidates))
	copy(ranked, candidates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].DistanceKm != ranked[j].DistanceKm {
			return ranked[i].DistanceKm < ranked[j].DistanceKm
		}
		return ranked[i].Rating > ranked[j].Rating
	})
	return ranked
}

// ClaimFirst walks candidates in order and stops at the first successful claim. Each
// driver is attempted at most once. It holds no state of its own, so any number of
// concurrent callers may share candidates; the claim function decides the single winner.
func ClaimFirst(ctx context.Context, candidates []DriverCandidate, claim ClaimFunc) (AssignmentOutcome, error) {
	if claim == nil {
		return AssignmentOutcome{}, ErrClaimFuncIsRequired
	}

	outcome := AssignmentOutcome{Candidates: len(candidates)}
	tried := make(map[kernel.UUID]struct{}, len(candidates))

	for _, c := range candidates {
		if c.DriverID.Validate() != nil {
			continue
		}
		if _, seen := tried[c.DriverID]; seen {
			continue
		}
		tried[c.DriverID] = struct{}{}
		outcome.Attempts++

		won, err := claim(ctx, c)
		if err != nil {
			return AssignmentOutcome{}, fmt.Errorf("claim driver %s: %w", c.DriverID, err)
		}
		if won {
			outcome.Assigned = true
			outcome.DriverID = c.DriverID
			outcome.DistanceKm = c.DistanceKm
			return outcome, nil
		}
	}
	return outcome, nil
}

// CandidateFinder is the geospatial query the coordinator depends on.
type CandidateFinder interface {
	FindNearbyDrivers(ctx context.Context, point kernel.GeoPoint, radiusKm float64, limit int) ([]DriverCandidate, error)
}

// DriverClaimer performs the conditional claim-and-link write inside the caller's
// transaction. It returns false when the driver was no longer ONLINE and available.
type DriverClaimer interface {
	TryClaim(ctx context.Context, driverID, deliveryID kernel.UUID, at time.Time) (bool, error)
}

// DriverAssignmentCoordinator reserves exactly one nearby driver for a delivery.
type DriverAssignmentCoordinator struct {
	finder   CandidateFinder
	radiusKm float64
	limit    int
	now      func() time.Time
}

func NewDriverAssignmentCoordinator(finder CandidateFinder, radiusKm float64, limit int) (*DriverAssignmentCoordinator, error) {
	if finder == nil {
		return nil, errors.New("candidate finder is required")
	}
	if radiusKm <= 0 || radiusKm > MaxSearchRadiusKm {
		radiusKm = DefaultSearchRadiusKm
	}
	if limit <= 0 {
		limit = DefaultCandidateLimit
	}
	return &DriverAssignmentCoordinator{
		finder:   finder,
		radiusKm: radiusKm,
		limit:    limit,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

// Assign queries candidates around the pickup point and runs ClaimFirst with the
// transaction-bound claimer. On success the delivery is linked in memory as well.
func (c *DriverAssignmentCoordinator) Assign(
	ctx context.Context,
	d *delivery.Delivery,
	claimer DriverClaimer,
) (AssignmentOutcome, error) {
	if err := d.Validate(); err != nil {
		return AssignmentOutcome{}, err
	}
	if d.HasDriver() {
		return AssignmentOutcome{Assigned: true, DriverID: *d.DriverID()}, nil
	}

	candidates, err := c.finder.FindNearbyDrivers(ctx, d.Pickup(), c.radiusKm, c.limit)
	if err != nil {
		return AssignmentOutcome{}, fmt.Errorf("find nearby drivers: %w", err)
	}
	candidates = RankCandidates(candidates)
	if len(candidates) > c.limit {
		candidates = candidates[:c.limit]
	}

	at := c.now()
	outcome, err := ClaimFirst(ctx, candidates, func(ctx context.Context, cand DriverCandidate) (bool, error) {
		return claimer.TryClaim(ctx, cand.DriverID, d.ID(), at)
	})
	if err != nil {
		return AssignmentOutcome{}, err
	}
	if outcome.Assigned {
		if err = d.AssignDriver(outcome.DriverID, at); err != nil {
			return AssignmentOutcome{}, err
		}
	}
	return outcome, nil
}
