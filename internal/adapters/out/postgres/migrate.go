package postgres

import (
	"marketplace/internal/adapters/out/postgres/backlogrepo"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/customerrepo"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/driverrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Models lists every table the service owns, parents before children.
func Models() []any {
	return []any{
		&catalogrepo.RestaurantDTO{},
		&catalogrepo.MenuItemDTO{},
		&customerrepo.AddressDTO{},
		&customerrepo.CustomerDTO{},
		&driverrepo.DriverDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&orderrepo.HistoryDTO{},
		&deliveryrepo.DeliveryDTO{},
		&backlogrepo.BacklogDTO{},
	}
}

// checks are constraints AutoMigrate cannot express from struct tags.
var checks = []string{
	`ALTER TABLE drivers DROP CONSTRAINT IF EXISTS chk_drivers_available_online`,
	`ALTER TABLE drivers ADD CONSTRAINT chk_drivers_available_online CHECK (NOT is_available OR status = 'ONLINE')`,
	`ALTER TABLE orders DROP CONSTRAINT IF EXISTS chk_orders_version`,
	`ALTER TABLE orders ADD CONSTRAINT chk_orders_version CHECK (version >= 0)`,
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Truncate empties every table. Tests call it between cases.
func Truncate(db *gorm.DB) error {
	return db.Exec(`TRUNCATE TABLE driver_assignment_backlog, deliveries, order_status_history, order_items,
		orders, drivers, customers, addresses, menu_items, restaurants`).Error
}
