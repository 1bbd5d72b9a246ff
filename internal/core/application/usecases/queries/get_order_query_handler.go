package queries

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads orders straight from the tables with raw SQL, bypassing the
// aggregate and its repository.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

type orderRow struct {
	ID                  uuid.UUID
	OrderNumber         string
	CustomerID          uuid.UUID
	RestaurantID        uuid.UUID
	Status              string
	PaymentMethod       string
	PaymentStatus       string
	Version             int64
	Subtotal            decimal.Decimal
	DeliveryFee         decimal.Decimal
	Tax                 decimal.Decimal
	Total               decimal.Decimal
	AcceptedAt          *time.Time
	PreparingAt         *time.Time
	ReadyAt             *time.Time
	PickedUpAt          *time.Time
	DeliveredAt         *time.Time
	CancelledAt         *time.Time
	CancellationReason  string
	SpecialInstructions string
	CreatedAt           time.Time
}

type itemRow struct {
	MenuItemID uuid.UUID
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	Addons     []byte
}

type addonRow struct {
	ID    uuid.UUID       `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type deliveryRow struct {
	ID          uuid.UUID
	DriverID    *uuid.UUID
	DistanceKm  float64
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
}

type historyRow struct {
	Status    string
	ActorID   *uuid.UUID
	Notes     string
	CreatedAt time.Time
}

func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	db := h.db.WithContext(ctx)
	id := query.OrderID().Bytes()

	var head orderRow
	result := db.Raw(`
		SELECT
			id, order_number, customer_id, restaurant_id, status, payment_method, payment_status,
			version, subtotal, delivery_fee, tax, total,
			accepted_at, preparing_at, ready_at, picked_up_at, delivered_at, cancelled_at,
			cancellation_reason, special_instructions, created_at
		FROM orders
		WHERE id = ?
	`, id).Scan(&head)
	if result.Error != nil {
		return GetOrderQueryResponse{}, result.Error
	}
	if result.RowsAffected == 0 {
		return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	response, err := head.toResponse()
	if err != nil {
		return GetOrderQueryResponse{}, err
	}

	var items []itemRow
	if err = db.Raw(`
		SELECT menu_item_id, name, quantity, unit_price, addons
		FROM order_items
		WHERE order_id = ?
		ORDER BY position
	`, id).Scan(&items).Error; err != nil {
		return GetOrderQueryResponse{}, err
	}
	for _, row := range items {
		item, itemErr := row.toView()
		if itemErr != nil {
			return GetOrderQueryResponse{}, itemErr
		}
		response.Items = append(response.Items, item)
	}

	var deliveries []deliveryRow
	if err = db.Raw(`
		SELECT id, driver_id, distance_km, assigned_at, picked_up_at, delivered_at
		FROM deliveries
		WHERE order_id = ?
	`, id).Scan(&deliveries).Error; err != nil {
		return GetOrderQueryResponse{}, err
	}
	if len(deliveries) > 0 {
		view, viewErr := deliveries[0].toView()
		if viewErr != nil {
			return GetOrderQueryResponse{}, viewErr
		}
		response.Delivery = &view
	}

	var history []historyRow
	if err = db.Raw(`
		SELECT status, actor_id, notes, created_at
		FROM order_status_history
		WHERE order_id = ?
		ORDER BY seq
	`, id).Scan(&history).Error; err != nil {
		return GetOrderQueryResponse{}, err
	}
	for _, row := range history {
		entry, entryErr := row.toView()
		if entryErr != nil {
			return GetOrderQueryResponse{}, entryErr
		}
		response.History = append(response.History, entry)
	}

	return response, nil
}

func (r orderRow) toResponse() (GetOrderQueryResponse, error) {
	ids, err := toUUIDs(r.ID, r.CustomerID, r.RestaurantID)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	return GetOrderQueryResponse{
		ID:            ids[0],
		Number:        r.OrderNumber,
		CustomerID:    ids[1],
		RestaurantID:  ids[2],
		Status:        status,
		PaymentMethod: order.PaymentMethod(r.PaymentMethod),
		PaymentStatus: order.PaymentStatus(r.PaymentStatus),
		Version:       r.Version,
		Subtotal:      r.Subtotal,
		DeliveryFee:   r.DeliveryFee,
		Tax:           r.Tax,
		Total:         r.Total,
		Timestamps: order.Timestamps{
			AcceptedAt:  r.AcceptedAt,
			PreparingAt: r.PreparingAt,
			ReadyAt:     r.ReadyAt,
			PickedUpAt:  r.PickedUpAt,
			DeliveredAt: r.DeliveredAt,
			CancelledAt: r.CancelledAt,
		},
		CancellationReason:  r.CancellationReason,
		SpecialInstructions: r.SpecialInstructions,
		CreatedAt:           r.CreatedAt,
		Items:               make([]OrderItemView, 0),
		History:             make([]HistoryView, 0),
	}, nil
}

func (r itemRow) toView() (OrderItemView, error) {
	menuItemID, err := kernel.UUIDFromBytes(r.MenuItemID[:])
	if err != nil {
		return OrderItemView{}, err
	}
	var rows []addonRow
	if len(r.Addons) > 0 {
		if err = json.Unmarshal(r.Addons, &rows); err != nil {
			return OrderItemView{}, err
		}
	}
	addons := make([]AddonView, 0, len(rows))
	for _, row := range rows {
		addonID, addonErr := kernel.UUIDFromBytes(row.ID[:])
		if addonErr != nil {
			return OrderItemView{}, addonErr
		}
		addons = append(addons, AddonView{ID: addonID, Name: row.Name, Price: row.Price})
	}
	return OrderItemView{
		MenuItemID: menuItemID,
		Name:       r.Name,
		Quantity:   r.Quantity,
		UnitPrice:  r.UnitPrice,
		Addons:     addons,
	}, nil
}

func (r deliveryRow) toView() (DeliveryView, error) {
	id, err := kernel.UUIDFromBytes(r.ID[:])
	if err != nil {
		return DeliveryView{}, err
	}
	driverID, err := optionalUUID(r.DriverID)
	if err != nil {
		return DeliveryView{}, err
	}
	return DeliveryView{
		ID:          id,
		DriverID:    driverID,
		DistanceKm:  r.DistanceKm,
		AssignedAt:  r.AssignedAt,
		PickedUpAt:  r.PickedUpAt,
		DeliveredAt: r.DeliveredAt,
	}, nil
}

func (r historyRow) toView() (HistoryView, error) {
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return HistoryView{}, err
	}
	actorID, err := optionalUUID(r.ActorID)
	if err != nil {
		return HistoryView{}, err
	}
	return HistoryView{Status: status, ActorID: actorID, Notes: r.Notes, CreatedAt: r.CreatedAt}, nil
}

func toUUIDs(raw ...uuid.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, len(raw))
	var errList []error
	for i, r := range raw {
		id, err := kernel.UUIDFromBytes(r[:])
		errList = append(errList, err)
		out[i] = id
	}
	if err := errors.Join(errList...); err != nil {
		return nil, err
	}
	return out, nil
}

func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil //nolint:nilnil // absent is not an error
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
