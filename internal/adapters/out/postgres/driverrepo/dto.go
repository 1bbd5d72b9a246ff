package driverrepo

import (
	"time"

	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type DriverDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	Latitude          *float64
	Longitude         *float64
	Rating            float64 `gorm:"type:numeric(3,2);not null;default:0"`
	IsAvailable       bool    `gorm:"not null;default:false;index:idx_drivers_pool,priority:2"`
	Status            string  `gorm:"type:varchar(16);not null;index:idx_drivers_pool,priority:1"`
	LocationUpdatedAt *time.Time
	UpdatedAt         time.Time `gorm:"not null"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

func fromDomain(d *driver.Driver) DriverDTO {
	now := time.Now().UTC()
	dto := DriverDTO{
		ID:          d.ID().Bytes(),
		UserID:      d.UserID().Bytes(),
		Rating:      d.Rating(),
		IsAvailable: d.IsAvailable(),
		Status:      d.Status().String(),
		UpdatedAt:   now,
	}
	if loc := d.Location(); loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lon
		dto.LocationUpdatedAt = &now
	}
	return dto
}

func toDomain(dto DriverDTO) (*driver.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	var location *kernel.GeoPoint
	if dto.Latitude != nil && dto.Longitude != nil {
		point, pointErr := kernel.NewGeoPoint(*dto.Latitude, *dto.Longitude)
		if pointErr != nil {
			return nil, pointErr
		}
		location = &point
	}
	return driver.RestoreDriver(id, userID, location, dto.Rating, dto.IsAvailable, driver.Status(dto.Status))
}
