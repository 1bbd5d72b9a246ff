package queries_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type ListCustomerOrdersQueryHandlerTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	handler   queries.ListCustomerOrdersQueryHandler
}

func (suite *ListCustomerOrdersQueryHandlerTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
	suite.handler = queries.NewListCustomerOrdersQueryHandler(db)
}

func (suite *ListCustomerOrdersQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(postgres.Truncate(suite.db))
}

func (suite *ListCustomerOrdersQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *ListCustomerOrdersQueryHandlerTestSuite) addRestaurant(name string) kernel.UUID {
	location, err := kernel.NewGeoPoint(52.52, 13.405)
	suite.Require().NoError(err)
	r, err := catalog.NewRestaurant(kernel.NewUUID(), name, catalog.RestaurantActive, true, location,
		decimal.Zero, decimal.RequireFromString("2.99"))
	suite.Require().NoError(err)
	suite.Require().NoError(catalogrepo.NewGormCatalogRepository(suite.db).AddRestaurant(suite.T().Context(), r))
	return r.ID()
}

func (suite *ListCustomerOrdersQueryHandlerTestSuite) addOrder(
	customerID, restaurantID kernel.UUID,
	quantity int,
	createdAt time.Time,
) *order.Order {
	ctx := suite.T().Context()
	tracker := postgres.NewGormUnitOfWorkFactory(suite.db, nil).CreateGorm()
	number, err := order.NewNumber(createdAt)
	suite.Require().NoError(err)
	item, err := order.NewItem(kernel.NewUUID(), "Pad Thai", quantity, decimal.RequireFromString("10.00"), nil)
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), number, customerID, restaurantID, []order.Item{item},
		order.Totals{
			Subtotal:    decimal.RequireFromString("10.00"),
			DeliveryFee: decimal.RequireFromString("2.99"),
			Tax:         decimal.RequireFromString("1.00"),
			Total:       decimal.RequireFromString("13.99"),
		}, order.PaymentCard, "", createdAt)
	suite.Require().NoError(err)
	suite.Require().NoError(orderrepo.NewGormOrderRepository(suite.db, tracker).Add(ctx, o))
	return o
}

func (suite *ListCustomerOrdersQueryHandlerTestSuite) TestHandle_PagesNewestFirst() {
	ctx := suite.T().Context()
	customerID := kernel.NewUUID()
	restaurantID := suite.addRestaurant("Thai Corner")
	base := time.Now().UTC().Add(-time.Hour).Truncate(time.Second)

	oldest := suite.addOrder(customerID, restaurantID, 1, base)
	middle := suite.addOrder(customerID, restaurantID, 2, base.Add(10*time.Minute))
	newest := suite.addOrder(customerID, restaurantID, 3, base.Add(20*time.Minute))
	suite.addOrder(kernel.NewUUID(), restaurantID, 1, base.Add(30*time.Minute))

	first, err := queries.NewListCustomerOrdersQuery(customerID, nil, 1, 2)
	suite.Require().NoError(err)
	page, err := suite.handler.Handle(ctx, first)
	suite.Require().NoError(err)

	suite.Equal(int64(3), page.Total)
	suite.Equal(2, page.TotalPages)
	suite.Equal(1, page.Page)
	suite.Equal(2, page.Limit)
	suite.Require().Len(page.Orders, 2)
	suite.Equal(newest.ID(), page.Orders[0].ID)
	suite.Equal(middle.ID(), page.Orders[1].ID)
	suite.Equal("Thai Corner", page.Orders[0].RestaurantName)
	suite.Equal(3, page.Orders[0].ItemCount)
	suite.Equal(order.Pending, page.Orders[0].Status)
	suite.True(decimal.RequireFromString("13.99").Equal(page.Orders[0].Total))

	second, err := queries.NewListCustomerOrdersQuery(customerID, nil, 2, 2)
	suite.Require().NoError(err)
	page, err = suite.handler.Handle(ctx, second)
	suite.Require().NoError(err)
	suite.Require().Len(page.Orders, 1)
	suite.Equal(oldest.ID(), page.Orders[0].ID)
}

func (suite *ListCustomerOrdersQueryHandlerTestSuite) TestHandle_FiltersByStatus() {
	ctx := suite.T().Context()
	customerID := kernel.NewUUID()
	restaurantID := suite.addRestaurant("Burger Hub")
	base := time.Now().UTC().Add(-time.Hour)

	suite.addOrder(customerID, restaurantID, 1, base)
	cancelled := suite.addOrder(customerID, restaurantID, 1, base.Add(time.Minute))
	suite.Require().NoError(suite.db.Exec("UPDATE orders SET status = ? WHERE id = ?",
		order.Cancelled.String(), cancelled.ID().Bytes()).Error)

	status := order.Cancelled
	query, err := queries.NewListCustomerOrdersQuery(customerID, &status, 0, 0)
	suite.Require().NoError(err)
	page, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(int64(1), page.Total)
	suite.Equal(1, page.TotalPages)
	suite.Equal(queries.DefaultOrdersPageSize, page.Limit)
	suite.Require().Len(page.Orders, 1)
	suite.Equal(cancelled.ID(), page.Orders[0].ID)
	suite.Equal(order.Cancelled, page.Orders[0].Status)
}

func (suite *ListCustomerOrdersQueryHandlerTestSuite) TestHandle_NoOrders_ReturnsEmptyPage() {
	query, err := queries.NewListCustomerOrdersQuery(kernel.NewUUID(), nil, 3, 10)
	suite.Require().NoError(err)

	page, err := suite.handler.Handle(suite.T().Context(), query)
	suite.Require().NoError(err)
	suite.Empty(page.Orders)
	suite.NotNil(page.Orders)
	suite.Equal(int64(0), page.Total)
	suite.Equal(0, page.TotalPages)
	suite.Equal(3, page.Page)
}

func TestListCustomerOrdersQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ListCustomerOrdersQueryHandlerTestSuite))
}

func TestNewListCustomerOrdersQuery_Defaults(t *testing.T) {
	query, err := queries.NewListCustomerOrdersQuery(kernel.NewUUID(), nil, 0, 0)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, 1, query.Page())
	assert.Equal(t, queries.DefaultOrdersPageSize, query.Limit())
	assert.Nil(t, query.Status())
}

func TestNewListCustomerOrdersQuery_RejectsBadInput(t *testing.T) {
	unknown := order.Unknown
	tests := []struct {
		name        string
		customerID  kernel.UUID
		status      *order.Status
		page, limit int
	}{
		{name: "missing customer", customerID: kernel.UUID{}, page: 1, limit: 10},
		{name: "unknown status", customerID: kernel.NewUUID(), status: &unknown, page: 1, limit: 10},
		{name: "negative page", customerID: kernel.NewUUID(), page: -1, limit: 10},
		{name: "limit too large", customerID: kernel.NewUUID(), page: 1, limit: queries.MaxOrdersPageSize + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := queries.NewListCustomerOrdersQuery(tt.customerID, tt.status, tt.page, tt.limit)
			require.Error(t, err)
			assert.Equal(t, errs.KindBadRequest, errs.Classify(err))
		})
	}
}

func TestListCustomerOrdersQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.ListCustomerOrdersQuery{}.Validate()
	require.ErrorIs(t, err, queries.ErrListCustomerOrdersQueryIsNotConstructed)
}
