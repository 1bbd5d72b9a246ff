package queries_test

import (
	"context"
	"testing"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/deliveryrepo"
	"marketplace/internal/adapters/out/postgres/orderrepo"
	"marketplace/internal/adapters/out/postgres/pgtest"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type GetOrderQueryHandlerTestSuite struct {
	suite.Suite
	container *tcpostgres.PostgresContainer
	db        *gorm.DB
	handler   queries.GetOrderQueryHandler
}

func (suite *GetOrderQueryHandlerTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
	suite.handler = queries.NewGetOrderQueryHandler(db)
}

func (suite *GetOrderQueryHandlerTestSuite) SetupTest() {
	suite.Require().NoError(postgres.Truncate(suite.db))
}

func (suite *GetOrderQueryHandlerTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_ReturnsOrderDeliveryAndHistory() {
	ctx := suite.T().Context()
	tracker := postgres.NewGormUnitOfWorkFactory(suite.db, nil).CreateGorm()

	number, err := order.NewNumber(time.Now().UTC())
	suite.Require().NoError(err)
	addonID := kernel.NewUUID()
	item, err := order.NewItem(kernel.NewUUID(), "Pad Thai", 2, decimal.RequireFromString("11.50"),
		[]order.Addon{{ID: addonID, Name: "Extra peanuts", Price: decimal.RequireFromString("1.00")}})
	suite.Require().NoError(err)
	o, err := order.NewOrder(kernel.NewUUID(), number, kernel.NewUUID(), kernel.NewUUID(), []order.Item{item},
		order.Totals{
			Subtotal:    decimal.RequireFromString("25.00"),
			DeliveryFee: decimal.RequireFromString("2.99"),
			Tax:         decimal.RequireFromString("2.50"),
			Total:       decimal.RequireFromString("30.49"),
		}, order.PaymentWallet, "Leave at the door", time.Now().UTC())
	suite.Require().NoError(err)
	suite.Require().NoError(orderrepo.NewGormOrderRepository(suite.db, tracker).Add(ctx, o))

	pickup, err := kernel.NewGeoPoint(52.5200, 13.4050)
	suite.Require().NoError(err)
	dropoff, err := kernel.NewGeoPoint(52.5300, 13.4200)
	suite.Require().NoError(err)
	d, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), pickup, dropoff)
	suite.Require().NoError(err)
	suite.Require().NoError(deliveryrepo.NewGormDeliveryRepository(suite.db, tracker).Add(ctx, d))

	history := orderrepo.NewGormStatusHistoryRepository(suite.db)
	actor := kernel.NewUUID()
	suite.Require().NoError(history.Append(ctx, order.NewHistoryEntry(o.ID(), order.Pending, nil, "Order created", o.CreatedAt())))
	suite.Require().NoError(history.Append(ctx, order.NewHistoryEntry(o.ID(), order.Accepted, &actor, "", o.CreatedAt())))

	query, err := queries.NewGetOrderQuery(o.ID())
	suite.Require().NoError(err)
	got, err := suite.handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(o.ID(), got.ID)
	suite.Equal(number, got.Number)
	suite.Equal(order.Pending, got.Status)
	suite.Equal(order.PaymentWallet, got.PaymentMethod)
	suite.True(decimal.RequireFromString("30.49").Equal(got.Total))
	suite.Equal("Leave at the door", got.SpecialInstructions)

	suite.Require().Len(got.Items, 1)
	suite.Equal("Pad Thai", got.Items[0].Name)
	suite.Require().Len(got.Items[0].Addons, 1)
	suite.Equal(addonID, got.Items[0].Addons[0].ID)

	suite.Require().NotNil(got.Delivery)
	suite.Equal(d.ID(), got.Delivery.ID)
	suite.Nil(got.Delivery.DriverID)
	suite.InDelta(d.DistanceKm(), got.Delivery.DistanceKm, 0.005)

	suite.Require().Len(got.History, 2)
	suite.Equal(order.Pending, got.History[0].Status)
	suite.Nil(got.History[0].ActorID)
	suite.Equal(order.Accepted, got.History[1].Status)
	suite.Require().NotNil(got.History[1].ActorID)
	suite.Equal(actor, *got.History[1].ActorID)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_UnknownOrder_ReturnsNotFound() {
	query, err := queries.NewGetOrderQuery(kernel.NewUUID())
	suite.Require().NoError(err)

	_, err = suite.handler.Handle(suite.T().Context(), query)

	var notFoundErr *errs.ObjectNotFoundError
	suite.Require().ErrorAs(err, &notFoundErr)
}

func (suite *GetOrderQueryHandlerTestSuite) TestHandle_NotConstructedQuery_Fails() {
	_, err := suite.handler.Handle(suite.T().Context(), queries.GetOrderQuery{})
	suite.Require().ErrorIs(err, queries.ErrGetOrderQueryIsNotConstructed)
}

func TestGetOrderQueryHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GetOrderQueryHandlerTestSuite))
}
