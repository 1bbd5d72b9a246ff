package http_test

import (
	"context"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/mock"
)

type MockCreateOrderHandler struct{ mock.Mock }

func (m *MockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.CreateOrderResult), args.Error(1)
}

type MockUpdateOrderStatusHandler struct{ mock.Mock }

func (m *MockUpdateOrderStatusHandler) Handle(
	ctx context.Context,
	cmd commands.UpdateOrderStatusCommand,
) (commands.TransitionResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.TransitionResult), args.Error(1)
}

type MockCancelOrderHandler struct{ mock.Mock }

func (m *MockCancelOrderHandler) Handle(ctx context.Context, cmd commands.CancelOrderCommand) (commands.TransitionResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.TransitionResult), args.Error(1)
}

type MockUpdateDriverLocationHandler struct{ mock.Mock }

func (m *MockUpdateDriverLocationHandler) Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type MockChangeDriverStatusHandler struct{ mock.Mock }

func (m *MockChangeDriverStatusHandler) Handle(ctx context.Context, cmd commands.ChangeDriverStatusCommand) error {
	args := m.Called(ctx, cmd)
	return args.Error(0)
}

type MockGetOrderHandler struct{ mock.Mock }

func (m *MockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type MockFindNearbyDriversHandler struct{ mock.Mock }

func (m *MockFindNearbyDriversHandler) Handle(ctx context.Context, query queries.FindNearbyDriversQuery) ([]queries.NearbyDriver, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.NearbyDriver), args.Error(1)
}

type MockFindNearbyRestaurantsHandler struct{ mock.Mock }

func (m *MockFindNearbyRestaurantsHandler) Handle(
	ctx context.Context,
	query queries.FindNearbyRestaurantsQuery,
) ([]queries.NearbyRestaurant, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.NearbyRestaurant), args.Error(1)
}

type MockListCustomerOrdersHandler struct{ mock.Mock }

func (m *MockListCustomerOrdersHandler) Handle(
	ctx context.Context,
	query queries.ListCustomerOrdersQuery,
) (queries.ListCustomerOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.ListCustomerOrdersQueryResponse), args.Error(1)
}
