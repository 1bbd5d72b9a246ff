// Package backlogrepo is the queue of orders waiting for a driver.
package backlogrepo

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BacklogDTO struct {
	OrderID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	Attempts      int       `gorm:"not null;default:1"`
	NextAttemptAt time.Time `gorm:"not null;index"`
	LastError     string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"not null"`
	UpdatedAt     time.Time `gorm:"not null"`
}

func (BacklogDTO) TableName() string {
	return "driver_assignment_backlog"
}

// GormBacklogRepository implements ports.AssignmentBacklogRepository.
type GormBacklogRepository struct {
	db *gorm.DB
}

func NewGormBacklogRepository(db *gorm.DB) *GormBacklogRepository {
	return &GormBacklogRepository{db: db}
}

func (r *GormBacklogRepository) Enqueue(ctx context.Context, orderID kernel.UUID, nextAttemptAt time.Time, reason string) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	row := BacklogDTO{
		OrderID:       orderID.Bytes(),
		Attempts:      1,
		NextAttemptAt: nextAttemptAt.UTC(),
		LastError:     reason,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"attempts":        gorm.Expr("driver_assignment_backlog.attempts + 1"),
			"next_attempt_at": row.NextAttemptAt,
			"last_error":      reason,
			"updated_at":      now,
		}),
	}).Create(&row).Error
}

// Remove is idempotent.
func (r *GormBacklogRepository) Remove(ctx context.Context, orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&BacklogDTO{}, "order_id = ?", orderID.Bytes()).Error
}

func (r *GormBacklogRepository) Due(ctx context.Context, now time.Time, limit int) ([]ports.AssignmentBacklogEntry, error) {
	var dtos []BacklogDTO
	if err := r.db.WithContext(ctx).
		Where("next_attempt_at <= ?", now.UTC()).
		Order("next_attempt_at").
		Limit(limit).
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	entries := make([]ports.AssignmentBacklogEntry, 0, len(dtos))
	for _, dto := range dtos {
		orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
		if err != nil {
			return nil, err
		}
		entries = append(entries, ports.AssignmentBacklogEntry{
			OrderID:       orderID,
			Attempts:      dto.Attempts,
			NextAttemptAt: dto.NextAttemptAt,
			LastError:     dto.LastError,
		})
	}
	return entries, nil
}
