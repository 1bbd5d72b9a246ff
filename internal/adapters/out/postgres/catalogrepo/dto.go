// Package catalogrepo reads restaurants and menu items. The catalog is owned by another
// service; Add methods exist for seeding and tests.
package catalogrepo

import (
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type RestaurantDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name         string          `gorm:"type:varchar(255);not null"`
	Status       string          `gorm:"type:varchar(16);not null"`
	IsOpen       bool            `gorm:"not null;default:false"`
	Latitude     float64         `gorm:"not null"`
	Longitude    float64         `gorm:"not null"`
	MinimumOrder decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	DeliveryFee  decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	// Rating and CuisineTypes are maintained by the catalog service and only read here.
	Rating       float64        `gorm:"not null;default:0"`
	CuisineTypes pq.StringArray `gorm:"type:text[]"`
}

func (RestaurantDTO) TableName() string {
	return "restaurants"
}

type MenuItemDTO struct {
	ID            uuid.UUID        `gorm:"type:uuid;primaryKey"`
	RestaurantID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	Name          string           `gorm:"type:varchar(255);not null"`
	Price         decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	DiscountPrice *decimal.Decimal `gorm:"type:numeric(12,2)"`
	IsAvailable   bool             `gorm:"not null;default:true"`
	Addons        []AddonDTO       `gorm:"type:jsonb;serializer:json"`
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

type AddonDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

func restaurantFromDomain(r *catalog.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:           r.ID().Bytes(),
		Name:         r.Name(),
		Status:       string(r.Status()),
		IsOpen:       r.IsOpen(),
		Latitude:     r.Location().Latitude(),
		Longitude:    r.Location().Longitude(),
		MinimumOrder: r.MinimumOrder(),
		DeliveryFee:  r.DeliveryFee(),
	}
}

func restaurantToDomain(dto RestaurantDTO) (*catalog.Restaurant, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	location, err := kernel.NewGeoPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}
	return catalog.NewRestaurant(id, dto.Name, catalog.RestaurantStatus(dto.Status), dto.IsOpen, location,
		dto.MinimumOrder, dto.DeliveryFee)
}

func menuItemFromDomain(m *catalog.MenuItem) MenuItemDTO {
	options := m.Addons()
	addons := make([]AddonDTO, len(options))
	for i, option := range options {
		addons[i] = AddonDTO{ID: option.ID.Bytes(), Name: option.Name, Price: option.Price}
	}
	return MenuItemDTO{
		ID:            m.ID().Bytes(),
		RestaurantID:  m.RestaurantID().Bytes(),
		Name:          m.Name(),
		Price:         m.Price(),
		DiscountPrice: m.DiscountPrice(),
		IsAvailable:   m.IsAvailable(),
		Addons:        addons,
	}
}

func menuItemToDomain(dto MenuItemDTO) (*catalog.MenuItem, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	options := make([]catalog.AddonOption, 0, len(dto.Addons))
	for _, addon := range dto.Addons {
		addonID, addonErr := kernel.UUIDFromBytes(addon.ID[:])
		if addonErr != nil {
			return nil, addonErr
		}
		options = append(options, catalog.AddonOption{ID: addonID, Name: addon.Name, Price: addon.Price})
	}
	return catalog.NewMenuItem(id, restaurantID, dto.Name, dto.Price, dto.DiscountPrice, dto.IsAvailable, options)
}
