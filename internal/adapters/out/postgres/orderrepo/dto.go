// Package orderrepo persists the order aggregate, its line items and the status history.
// Status transitions are written with a compare-and-swap on the version column.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders row. order_number is unique and version is the optimistic
// concurrency token.
type OrderDTO struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderNumber         string          `gorm:"type:varchar(32);not null;uniqueIndex"`
	CustomerID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	RestaurantID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Subtotal            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DeliveryFee         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Tax                 decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Total               decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status              string          `gorm:"type:varchar(32);not null;index"`
	PaymentMethod       string          `gorm:"type:varchar(16);not null"`
	PaymentStatus       string          `gorm:"type:varchar(16);not null"`
	Version             int64           `gorm:"not null;default:0"`
	AcceptedAt          *time.Time
	PreparingAt         *time.Time
	ReadyAt             *time.Time
	PickedUpAt          *time.Time
	DeliveredAt         *time.Time
	CancelledAt         *time.Time
	CancellationReason  string         `gorm:"type:text"`
	SpecialInstructions string         `gorm:"type:text"`
	CreatedAt           time.Time      `gorm:"not null"`
	UpdatedAt           time.Time      `gorm:"not null"`
	Items               []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO is a line item snapshot. Add-ons are stored inline as JSON.
type OrderItemDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Position   int             `gorm:"not null"`
	MenuItemID uuid.UUID       `gorm:"type:uuid;not null"`
	Name       string          `gorm:"type:varchar(255);not null"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Addons     []AddonDTO      `gorm:"type:jsonb;serializer:json"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

type AddonDTO struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// HistoryDTO is one append-only order_status_history row. Seq keeps insertion order
// stable when two rows share a timestamp.
type HistoryDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Seq       int64      `gorm:"autoIncrement;not null;index"`
	OrderID   uuid.UUID  `gorm:"type:uuid;not null;index"`
	Status    string     `gorm:"type:varchar(32);not null"`
	ActorID   *uuid.UUID `gorm:"type:uuid"`
	Notes     string     `gorm:"type:text"`
	CreatedAt time.Time  `gorm:"not null;index"`
}

func (HistoryDTO) TableName() string {
	return "order_status_history"
}

func fromDomain(o *order.Order) OrderDTO {
	totals := o.Totals()
	ts := o.Timestamps()
	orderID := o.ID().Bytes()

	items := make([]OrderItemDTO, 0, len(o.Items()))
	for i, item := range o.Items() {
		addons := make([]AddonDTO, 0, len(item.Addons()))
		for _, a := range item.Addons() {
			addons = append(addons, AddonDTO{ID: a.ID.Bytes(), Name: a.Name, Price: a.Price})
		}
		items = append(items, OrderItemDTO{
			ID:         uuid.New(),
			OrderID:    orderID,
			Position:   i,
			MenuItemID: item.MenuItemID().Bytes(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			UnitPrice:  item.UnitPrice(),
			Addons:     addons,
		})
	}

	return OrderDTO{
		ID:                  orderID,
		OrderNumber:         o.Number(),
		CustomerID:          o.CustomerID().Bytes(),
		RestaurantID:        o.RestaurantID().Bytes(),
		Subtotal:            totals.Subtotal,
		DeliveryFee:         totals.DeliveryFee,
		Tax:                 totals.Tax,
		Total:               totals.Total,
		Status:              o.Status().String(),
		PaymentMethod:       string(o.PaymentMethod()),
		PaymentStatus:       string(o.PaymentStatus()),
		Version:             o.Version(),
		AcceptedAt:          ts.AcceptedAt,
		PreparingAt:         ts.PreparingAt,
		ReadyAt:             ts.ReadyAt,
		PickedUpAt:          ts.PickedUpAt,
		DeliveredAt:         ts.DeliveredAt,
		CancelledAt:         ts.CancelledAt,
		CancellationReason:  o.CancellationReason(),
		SpecialInstructions: o.SpecialInstructions(),
		CreatedAt:           o.CreatedAt(),
		UpdatedAt:           o.CreatedAt(),
		Items:               items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}
	restaurantID, err := kernel.UUIDFromBytes(dto.RestaurantID[:])
	if err != nil {
		return nil, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:           id,
		Number:       dto.OrderNumber,
		CustomerID:   customerID,
		RestaurantID: restaurantID,
		Items:        items,
		Totals: order.Totals{
			Subtotal:    dto.Subtotal,
			DeliveryFee: dto.DeliveryFee,
			Tax:         dto.Tax,
			Total:       dto.Total,
		},
		Status:        status,
		PaymentMethod: order.PaymentMethod(dto.PaymentMethod),
		PaymentStatus: order.PaymentStatus(dto.PaymentStatus),
		Version:       dto.Version,
		Timestamps: order.Timestamps{
			AcceptedAt:  utc(dto.AcceptedAt),
			PreparingAt: utc(dto.PreparingAt),
			ReadyAt:     utc(dto.ReadyAt),
			PickedUpAt:  utc(dto.PickedUpAt),
			DeliveredAt: utc(dto.DeliveredAt),
			CancelledAt: utc(dto.CancelledAt),
		},
		CancellationReason:  dto.CancellationReason,
		SpecialInstructions: dto.SpecialInstructions,
		CreatedAt:           dto.CreatedAt.UTC(),
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	menuItemID, err := kernel.UUIDFromBytes(dto.MenuItemID[:])
	if err != nil {
		return order.Item{}, err
	}
	addons := make([]order.Addon, 0, len(dto.Addons))
	for _, a := range dto.Addons {
		addonID, addonErr := kernel.UUIDFromBytes(a.ID[:])
		if addonErr != nil {
			return order.Item{}, addonErr
		}
		addons = append(addons, order.Addon{ID: addonID, Name: a.Name, Price: a.Price})
	}
	return order.NewItem(menuItemID, dto.Name, dto.Quantity, dto.UnitPrice, addons)
}

func historyFromDomain(e order.HistoryEntry) HistoryDTO {
	var actorID *uuid.UUID
	if e.ActorID != nil {
		raw := e.ActorID.Bytes()
		actorID = &raw
	}
	return HistoryDTO{
		ID:        uuid.New(),
		OrderID:   e.OrderID.Bytes(),
		Status:    e.Status.String(),
		ActorID:   actorID,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

func historyToDomain(dto HistoryDTO) (order.HistoryEntry, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return order.HistoryEntry{}, err
	}
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return order.HistoryEntry{}, err
	}
	var actorID *kernel.UUID
	if dto.ActorID != nil {
		actor, actorErr := kernel.UUIDFromBytes((*dto.ActorID)[:])
		if actorErr != nil {
			return order.HistoryEntry{}, actorErr
		}
		actorID = &actor
	}
	return order.NewHistoryEntry(orderID, status, actorID, dto.Notes, dto.CreatedAt.UTC()), nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}
