package queries

import (
	"errors"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const (
	DefaultOrdersPageSize = 20
	MaxOrdersPageSize     = 100
)

var ErrListCustomerOrdersQueryIsNotConstructed = errors.New(
	"ListCustomerOrdersQuery must be created via NewListCustomerOrdersQuery constructor",
)

// ListCustomerOrdersQuery pages through a customer's orders, newest first. Page is
// 1-based; zero page or limit take the defaults.
type ListCustomerOrdersQuery struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	status     *order.Status
	page       int
	limit      int
	guard      guard.ConstructorGuard
}

func NewListCustomerOrdersQuery(
	customerID kernel.UUID,
	status *order.Status,
	page, limit int,
) (ListCustomerOrdersQuery, error) {
	idErr := customerID.Validate()

	var statusErr error
	if status != nil {
		statusErr = status.Validate()
	}

	if page == 0 {
		page = 1
	}
	var pageErr error
	if page < 1 {
		pageErr = errs.NewValueIsInvalidError("page")
	}

	if limit == 0 {
		limit = DefaultOrdersPageSize
	}
	var limitErr error
	if limit < 1 || limit > MaxOrdersPageSize {
		limitErr = errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxOrdersPageSize)
	}

	if err := errors.Join(idErr, statusErr, pageErr, limitErr); err != nil {
		return ListCustomerOrdersQuery{}, err
	}
	return ListCustomerOrdersQuery{
		customerID: customerID,
		status:     status,
		page:       page,
		limit:      limit,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q ListCustomerOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListCustomerOrdersQueryIsNotConstructed)
}

func (q ListCustomerOrdersQuery) CustomerID() kernel.UUID { return q.customerID }
func (q ListCustomerOrdersQuery) Status() *order.Status   { return q.status }
func (q ListCustomerOrdersQuery) Page() int               { return q.page }
func (q ListCustomerOrdersQuery) Limit() int              { return q.limit }

type ListCustomerOrdersQueryResponse struct {
	Orders     []OrderSummaryView
	Page       int
	Limit      int
	Total      int64
	TotalPages int
}

type OrderSummaryView struct {
	ID             kernel.UUID
	Number         string
	RestaurantID   kernel.UUID
	RestaurantName string
	Status         order.Status
	PaymentStatus  order.PaymentStatus
	Total          decimal.Decimal
	ItemCount      int
	CreatedAt      time.Time
}
