package driverrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormDriverRepository(db *gorm.DB, tracker aggregateTracker) *GormDriverRepository {
	return &GormDriverRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormDriverRepository) Add(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*driver.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("driver", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// UpdateStatus never overwrites a BUSY row: a claim may have landed between the read and
// this write.
func (r *GormDriverRepository) UpdateStatus(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ? AND status <> ?", aggregate.ID().Bytes(), driver.Busy.String()).
		Updates(map[string]any{
			"status":       aggregate.Status().String(),
			"is_available": aggregate.IsAvailable(),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.Get(ctx, aggregate.ID()); err != nil {
			return err
		}
		return driver.ErrDriverIsBusy
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormDriverRepository) UpdateLocation(ctx context.Context, aggregate *driver.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	loc := aggregate.Location()
	if loc == nil {
		return errs.NewValueIsRequiredError("driver location")
	}

	now := time.Now().UTC()
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"latitude":            loc.Latitude(),
			"longitude":           loc.Longitude(),
			"location_updated_at": now,
			"updated_at":          now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("driver", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Release is a no-op for a driver that is no longer BUSY.
func (r *GormDriverRepository) Release(ctx context.Context, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), driver.Busy.String()).
		Updates(map[string]any{
			"status":       driver.Online.String(),
			"is_available": true,
			"updated_at":   time.Now().UTC(),
		}).Error
}

// TryClaim runs the claim and the delivery link as a nested transaction, which gorm maps
// to a savepoint when the repository is bound to an open transaction. The claim only
// matches an (ONLINE, available) row, so of two concurrent callers exactly one sees a
// row affected. A delivery that is already linked rolls the claim back.
func (r *GormDriverRepository) TryClaim(ctx context.Context, driverID, deliveryID kernel.UUID, at time.Time) (bool, error) {
	if err := errors.Join(driverID.Validate(), deliveryID.Validate()); err != nil {
		return false, err
	}

	claimed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		claim := tx.Model(&DriverDTO{}).
			Where("id = ? AND status = ? AND is_available", driverID.Bytes(), driver.Online.String()).
			Updates(map[string]any{
				"status":       driver.Busy.String(),
				"is_available": false,
				"updated_at":   at,
			})
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			return nil
		}

		link := tx.Model(&deliveryrepo.DeliveryDTO{}).
			Where("id = ? AND driver_id IS NULL", deliveryID.Bytes()).
			Updates(map[string]any{
				"driver_id":   driverID.Bytes(),
				"assigned_at": at,
			})
		if link.Error != nil {
			return link.Error
		}
		if link.RowsAffected == 0 {
			return errs.NewBusinessRuleErrorWithCause(delivery.ErrDriverAlreadyAssigned.Rule,
				fmt.Errorf("delivery %s", deliveryID))
		}

		claimed = true
		return nil
	})
	if err != nil {
		return false, err
	}

	return claimed, nil
}
