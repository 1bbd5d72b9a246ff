// Package deliveryrepo persists deliveries. The driver link is written only by the
// driver claim in driverrepo; this package never touches driver_id.
package deliveryrepo

import (
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DeliveryDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	DriverID    *uuid.UUID `gorm:"type:uuid;index"`
	PickupLat   float64    `gorm:"not null"`
	PickupLon   float64    `gorm:"not null"`
	DropoffLat  float64    `gorm:"not null"`
	DropoffLon  float64    `gorm:"not null"`
	DistanceKm  float64    `gorm:"type:numeric(8,2);not null"`
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CreatedAt   time.Time `gorm:"not null"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

func fromDomain(d *delivery.Delivery) DeliveryDTO {
	var driverID *uuid.UUID
	if id := d.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}
	return DeliveryDTO{
		ID:          d.ID().Bytes(),
		OrderID:     d.OrderID().Bytes(),
		DriverID:    driverID,
		PickupLat:   d.Pickup().Latitude(),
		PickupLon:   d.Pickup().Longitude(),
		DropoffLat:  d.Dropoff().Latitude(),
		DropoffLon:  d.Dropoff().Longitude(),
		DistanceKm:  d.DistanceKm(),
		AssignedAt:  d.AssignedAt(),
		PickedUpAt:  d.PickedUpAt(),
		DeliveredAt: d.DeliveredAt(),
		CreatedAt:   time.Now().UTC(),
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}
	pickup, err := kernel.NewGeoPoint(dto.PickupLat, dto.PickupLon)
	if err != nil {
		return nil, err
	}
	dropoff, err := kernel.NewGeoPoint(dto.DropoffLat, dto.DropoffLon)
	if err != nil {
		return nil, err
	}
	return delivery.RestoreDelivery(id, orderID, pickup, dropoff, dto.DistanceKm, driverID,
		dto.AssignedAt, dto.PickedUpAt, dto.DeliveredAt)
}
