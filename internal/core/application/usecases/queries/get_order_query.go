package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads one order together with its delivery and status history.
type GetOrderQuery struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetOrderQuery(orderID kernel.UUID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}
	return GetOrderQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

// GetOrderQueryResponse is the read model of an order.
type GetOrderQueryResponse struct {
	ID                  kernel.UUID
	Number              string
	CustomerID          kernel.UUID
	RestaurantID        kernel.UUID
	Status              order.Status
	PaymentMethod       order.PaymentMethod
	PaymentStatus       order.PaymentStatus
	Version             int64
	Subtotal            decimal.Decimal
	DeliveryFee         decimal.Decimal
	Tax                 decimal.Decimal
	Total               decimal.Decimal
	Timestamps          order.Timestamps
	CancellationReason  string
	SpecialInstructions string
	CreatedAt           time.Time
	Items               []OrderItemView
	Delivery            *DeliveryView
	History             []HistoryView
}

type OrderItemView struct {
	MenuItemID kernel.UUID
	Name       string
	Quantity   int
	UnitPrice  decimal.Decimal
	Addons     []AddonView
}

type AddonView struct {
	ID    kernel.UUID
	Name  string
	Price decimal.Decimal
}

type DeliveryView struct {
	ID          kernel.UUID
	DriverID    *kernel.UUID
	DistanceKm  float64
	AssignedAt  *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
}

type HistoryView struct {
	Status    order.Status
	ActorID   *kernel.UUID
	Notes     string
	CreatedAt time.Time
}
