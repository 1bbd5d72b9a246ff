package catalogrepo

import (
	"context"
	"errors"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCatalogRepository implements ports.CatalogRepository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

func (r *GormCatalogRepository) GetRestaurant(ctx context.Context, id kernel.UUID) (*catalog.Restaurant, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RestaurantDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("restaurant", id.String())
		}
		return nil, err
	}

	return restaurantToDomain(dto)
}

// GetMenuItems loads the requested items in one query. Unknown ids are left out of the
// result so the caller can name the missing one.
func (r *GormCatalogRepository) GetMenuItems(ctx context.Context, ids []kernel.UUID) (map[string]*catalog.MenuItem, error) {
	if len(ids) == 0 {
		return map[string]*catalog.MenuItem{}, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []MenuItemDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	items := make(map[string]*catalog.MenuItem, len(dtos))
	for _, dto := range dtos {
		item, err := menuItemToDomain(dto)
		if err != nil {
			return nil, err
		}
		items[item.ID().String()] = item
	}
	return items, nil
}

func (r *GormCatalogRepository) AddRestaurant(ctx context.Context, restaurant *catalog.Restaurant) error {
	if err := restaurant.Validate(); err != nil {
		return err
	}
	dto := restaurantFromDomain(restaurant)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormCatalogRepository) AddMenuItem(ctx context.Context, item *catalog.MenuItem) error {
	if err := item.Validate(); err != nil {
		return err
	}
	dto := menuItemFromDomain(item)
	return r.db.WithContext(ctx).Create(&dto).Error
}
