package orderrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order and its items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
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

// UpdateStatus writes the transition only if the stored version still equals the
// version the aggregate was read at. A single UPDATE decides the winner.
func (r *GormOrderRepository) UpdateStatus(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	if aggregate.Version() != aggregate.ExpectedVersion()+1 {
		return fmt.Errorf("order %s: expected exactly one pending transition, have version %d over %d",
			aggregate.ID(), aggregate.Version(), aggregate.ExpectedVersion())
	}

	ts := aggregate.Timestamps()
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", aggregate.ID().Bytes(), aggregate.ExpectedVersion()).
		Updates(map[string]any{
			"status":              aggregate.Status().String(),
			"version":             aggregate.Version(),
			"accepted_at":         ts.AcceptedAt,
			"preparing_at":        ts.PreparingAt,
			"ready_at":            ts.ReadyAt,
			"picked_up_at":        ts.PickedUpAt,
			"delivered_at":        ts.DeliveredAt,
			"cancelled_at":        ts.CancelledAt,
			"cancellation_reason": aggregate.CancellationReason(),
			"updated_at":          time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missOrConflict(ctx, aggregate)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// UpdatePaymentStatus leaves the version untouched; it is only called by the writer
// that already won the status write in the same transaction.
func (r *GormOrderRepository) UpdatePaymentStatus(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Updates(map[string]any{
			"payment_status": string(aggregate.PaymentStatus()),
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return nil
}

// Get retrieves an order with its items in their original order.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

func (r *GormOrderRepository) missOrConflict(ctx context.Context, aggregate *order.Order) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&OrderDTO{}).Where("id = ?", aggregate.ID().Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	return errs.NewVersionConflictError("order", aggregate.ID().String(), aggregate.ExpectedVersion())
}

// GormStatusHistoryRepository implements ports.StatusHistoryRepository.
type GormStatusHistoryRepository struct {
	db *gorm.DB
}

func NewGormStatusHistoryRepository(db *gorm.DB) *GormStatusHistoryRepository {
	return &GormStatusHistoryRepository{db: db}
}

func (r *GormStatusHistoryRepository) Append(ctx context.Context, entry order.HistoryEntry) error {
	if err := errors.Join(entry.OrderID.Validate(), entry.Status.Validate()); err != nil {
		return err
	}
	dto := historyFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// ListByOrder returns the history oldest first.
func (r *GormStatusHistoryRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]order.HistoryEntry, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []HistoryDTO
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("seq").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]order.HistoryEntry, 0, len(dtos))
	for _, dto := range dtos {
		entry, err := historyToDomain(dto)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
