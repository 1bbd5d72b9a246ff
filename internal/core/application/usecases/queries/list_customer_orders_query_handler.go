package queries

import (
	"context"
	"time"

	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ListCustomerOrdersQueryHandler reads order summaries from the tables directly.
type ListCustomerOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListCustomerOrdersQueryHandler(db *gorm.DB) ListCustomerOrdersQueryHandler {
	return ListCustomerOrdersQueryHandler{db: db}
}

type orderSummaryRow struct {
	ID             uuid.UUID
	OrderNumber    string
	RestaurantID   uuid.UUID
	RestaurantName string
	Status         string
	PaymentStatus  string
	Total          decimal.Decimal
	ItemCount      int
	CreatedAt      time.Time
}

// Handle counts the matching orders and loads one page of them. A customer without
// orders gets an empty page, not an error.
func (h ListCustomerOrdersQueryHandler) Handle(
	ctx context.Context,
	query ListCustomerOrdersQuery,
) (ListCustomerOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListCustomerOrdersQueryResponse{}, err
	}

	matching := h.db.WithContext(ctx).Table("orders AS o").
		Where("o.customer_id = ?", query.CustomerID().Bytes())
	if status := query.Status(); status != nil {
		matching = matching.Where("o.status = ?", status.String())
	}
	matching = matching.Session(&gorm.Session{})

	var total int64
	if err := matching.Count(&total).Error; err != nil {
		return ListCustomerOrdersQueryResponse{}, err
	}

	response := ListCustomerOrdersQueryResponse{
		Orders:     make([]OrderSummaryView, 0, query.Limit()),
		Page:       query.Page(),
		Limit:      query.Limit(),
		Total:      total,
		TotalPages: int((total + int64(query.Limit()) - 1) / int64(query.Limit())),
	}
	if total == 0 {
		return response, nil
	}

	var rows []orderSummaryRow
	err := matching.
		Select(`o.id, o.order_number, o.restaurant_id, COALESCE(r.name, '') AS restaurant_name,
			o.status, o.payment_status, o.total, o.created_at,
			(SELECT COALESCE(SUM(i.quantity), 0) FROM order_items i WHERE i.order_id = o.id) AS item_count`).
		Joins("LEFT JOIN restaurants r ON r.id = o.restaurant_id").
		Order("o.created_at DESC, o.id DESC").
		Limit(query.Limit()).
		Offset((query.Page() - 1) * query.Limit()).
		Scan(&rows).Error
	if err != nil {
		return ListCustomerOrdersQueryResponse{}, err
	}

	for _, row := range rows {
		view, viewErr := row.toView()
		if viewErr != nil {
			return ListCustomerOrdersQueryResponse{}, viewErr
		}
		response.Orders = append(response.Orders, view)
	}
	return response, nil
}

func (r orderSummaryRow) toView() (OrderSummaryView, error) {
	ids, err := toUUIDs(r.ID, r.RestaurantID)
	if err != nil {
		return OrderSummaryView{}, err
	}
	status, err := order.ParseStatus(r.Status)
	if err != nil {
		return OrderSummaryView{}, err
	}
	return OrderSummaryView{
		ID:             ids[0],
		Number:         r.OrderNumber,
		RestaurantID:   ids[1],
		RestaurantName: r.RestaurantName,
		Status:         status,
		PaymentStatus:  order.PaymentStatus(r.PaymentStatus),
		Total:          r.Total,
		ItemCount:      r.ItemCount,
		CreatedAt:      r.CreatedAt,
	}, nil
}
