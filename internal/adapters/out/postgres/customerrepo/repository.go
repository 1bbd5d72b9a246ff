// Package customerrepo stores delivery addresses and the per-customer order counter.
package customerrepo

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/customer"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddressDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Label     string    `gorm:"type:varchar(64)"`
	Latitude  float64   `gorm:"not null"`
	Longitude float64   `gorm:"not null"`
}

func (AddressDTO) TableName() string {
	return "addresses"
}

type CustomerDTO struct {
	UserID      uuid.UUID `gorm:"type:uuid;primaryKey"`
	TotalOrders int64     `gorm:"not null;default:0"`
	UpdatedAt   time.Time `gorm:"not null"`
}

func (CustomerDTO) TableName() string {
	return "customers"
}

// GormCustomerRepository implements ports.CustomerRepository using GORM.
type GormCustomerRepository struct {
	db *gorm.DB
}

func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) GetAddress(ctx context.Context, id kernel.UUID) (*customer.Address, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto AddressDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("address", id.String())
		}
		return nil, err
	}

	addressID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}
	return customer.NewAddress(addressID, userID, dto.Label, location)
}

// IncrementTotalOrders is a single upsert, so the first delivered order creates the row.
func (r *GormCustomerRepository) IncrementTotalOrders(ctx context.Context, customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	row := CustomerDTO{UserID: customerID.Bytes(), TotalOrders: 1, UpdatedAt: now}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"total_orders": gorm.Expr("customers.total_orders + 1"),
			"updated_at":   now,
		}),
	}).Create(&row).Error
}

// TotalOrders returns zero for a customer without a delivered order.
func (r *GormCustomerRepository) TotalOrders(ctx context.Context, customerID kernel.UUID) (int64, error) {
	var dto CustomerDTO
	err := r.db.WithContext(ctx).First(&dto, "user_id = ?", customerID.Bytes()).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return dto.TotalOrders, nil
}

func (r *GormCustomerRepository) AddAddress(ctx context.Context, address *customer.Address) error {
	if err := address.Validate(); err != nil {
		return err
	}
	dto := AddressDTO{
		ID:        address.ID().Bytes(),
		UserID:    address.UserID().Bytes(),
		Label:     address.Label(),
		Latitude:  address.Location().Latitude(),
		Longitude: address.Location().Longitude(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}
