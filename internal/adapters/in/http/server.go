package http

import (
	"context"
	"log/slog"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/generated/servers"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CreateOrderResult, error)
	}
	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (commands.TransitionResult, error)
	}
	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) (commands.TransitionResult, error)
	}
	UpdateDriverLocationHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateDriverLocationCommand) error
	}
	ChangeDriverStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeDriverStatusCommand) error
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	FindNearbyDriversHandler interface {
		Handle(ctx context.Context, query queries.FindNearbyDriversQuery) ([]queries.NearbyDriver, error)
	}
	FindNearbyRestaurantsHandler interface {
		Handle(ctx context.Context, query queries.FindNearbyRestaurantsQuery) ([]queries.NearbyRestaurant, error)
	}
	ListCustomerOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListCustomerOrdersQuery) (queries.ListCustomerOrdersQueryResponse, error)
	}
)

// Handlers groups the use cases the HTTP API exposes.
type Handlers struct {
	CreateOrder           CreateOrderHandler
	UpdateOrderStatus     UpdateOrderStatusHandler
	CancelOrder           CancelOrderHandler
	UpdateDriverLocation  UpdateDriverLocationHandler
	ChangeDriverStatus    ChangeDriverStatusHandler
	GetOrder              GetOrderHandler
	FindNearbyDrivers     FindNearbyDriversHandler
	FindNearbyRestaurants FindNearbyRestaurantsHandler
	ListCustomerOrders    ListCustomerOrdersHandler
}

// Server implements servers.ServerInterface on top of the command and query handlers.
type Server struct {
	handlers Handlers
	validate *validator.Validate
	logger   *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

func NewServer(handlers Handlers, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		handlers: handlers,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With("component", "http"),
	}
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body servers.CreateOrderJSONRequestBody
	if err := s.bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}

	items := make([]commands.OrderItemRequest, len(body.Items))
	for i, item := range body.Items {
		var addonIDs []kernel.UUID
		if item.AddonIds != nil {
			addonIDs = make([]kernel.UUID, len(*item.AddonIds))
			for j, id := range *item.AddonIds {
				addonIDs[j] = fromAPI(id)
			}
		}
		items[i] = commands.OrderItemRequest{
			MenuItemID: fromAPI(item.MenuItemId),
			Quantity:   item.Quantity,
			AddonIDs:   addonIDs,
		}
	}

	cmd, err := commands.NewCreateOrderCommand(
		fromAPI(body.CustomerId),
		fromAPI(body.RestaurantId),
		fromAPI(body.AddressId),
		items,
		order.PaymentMethod(body.PaymentMethod),
		deref(body.SpecialInstructions),
	)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, servers.OrderCreated{
		OrderId:     result.OrderID.Bytes(),
		OrderNumber: result.Number,
		DeliveryId:  result.DeliveryID.Bytes(),
		Subtotal:    result.Totals.Subtotal.StringFixed(2),
		DeliveryFee: result.Totals.DeliveryFee.StringFixed(2),
		Tax:         result.Totals.Tax.StringFixed(2),
		Total:       result.Totals.Total.StringFixed(2),
	})
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	query, err := queries.NewGetOrderQuery(fromAPI(orderId))
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderResponse(view))
}

// UpdateOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
func (s *Server) UpdateOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.UpdateOrderStatusJSONRequestBody
	if err := s.bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}

	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return s.fail(ctx, err)
	}

	var actorID *kernel.UUID
	if body.ActorId != nil {
		id := fromAPI(*body.ActorId)
		actorID = &id
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(fromAPI(orderId), status, actorID, deref(body.Notes))
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.UpdateOrderStatus.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toTransitionResponse(result))
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(ctx echo.Context, orderId openapi_types.UUID) error {
	var body servers.CancelOrderJSONRequestBody
	if err := s.bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewCancelOrderCommand(fromAPI(orderId), fromAPI(body.ActorId), body.Reason)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toTransitionResponse(result))
}

// GetNearbyDrivers handles GET /api/v1/drivers/nearby.
func (s *Server) GetNearbyDrivers(ctx echo.Context, params servers.GetNearbyDriversParams) error {
	var radiusKm float64
	if params.RadiusKm != nil {
		radiusKm = *params.RadiusKm
	}
	var limit int
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewFindNearbyDriversQuery(params.Lat, params.Lon, radiusKm, limit)
	if err != nil {
		return s.fail(ctx, err)
	}

	drivers, err := s.handlers.FindNearbyDrivers.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.NearbyDriver, len(drivers))
	for i, d := range drivers {
		response[i] = servers.NearbyDriver{
			DriverId:   d.DriverID.Bytes(),
			DistanceKm: d.DistanceKm,
			Rating:     d.Rating,
		}
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetNearbyRestaurants handles GET /api/v1/restaurants/nearby.
func (s *Server) GetNearbyRestaurants(ctx echo.Context, params servers.GetNearbyRestaurantsParams) error {
	var radiusKm float64
	if params.RadiusKm != nil {
		radiusKm = *params.RadiusKm
	}
	var cuisines []string
	if params.CuisineTypes != nil {
		cuisines = *params.CuisineTypes
	}
	var maxFee *decimal.Decimal
	if params.MaxDeliveryFee != nil {
		fee, err := decimal.NewFromString(*params.MaxDeliveryFee)
		if err != nil {
			return badRequest(ctx, "maxDeliveryFee must be a decimal amount")
		}
		maxFee = &fee
	}

	query, err := queries.NewFindNearbyRestaurantsQuery(params.Lat, params.Lon, radiusKm, cuisines,
		params.IsOpen, params.MinimumRating, maxFee)
	if err != nil {
		return s.fail(ctx, err)
	}

	restaurants, err := s.handlers.FindNearbyRestaurants.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := make([]servers.NearbyRestaurant, len(restaurants))
	for i, r := range restaurants {
		response[i] = toNearbyRestaurantResponse(r)
	}
	return ctx.JSON(http.StatusOK, response)
}

// ListCustomerOrders handles GET /api/v1/customers/{customerId}/orders.
func (s *Server) ListCustomerOrders(
	ctx echo.Context,
	customerId openapi_types.UUID,
	params servers.ListCustomerOrdersParams,
) error {
	var status *order.Status
	if params.Status != nil {
		parsed, err := order.ParseStatus(*params.Status)
		if err != nil {
			return s.fail(ctx, err)
		}
		status = &parsed
	}
	var page, limit int
	if params.Page != nil {
		page = *params.Page
	}
	if params.Limit != nil {
		limit = *params.Limit
	}

	query, err := queries.NewListCustomerOrdersQuery(fromAPI(customerId), status, page, limit)
	if err != nil {
		return s.fail(ctx, err)
	}

	result, err := s.handlers.ListCustomerOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toOrderPageResponse(result))
}

// UpdateDriverLocation handles PUT /api/v1/drivers/{driverId}/location.
func (s *Server) UpdateDriverLocation(ctx echo.Context, driverId openapi_types.UUID) error {
	var body servers.UpdateDriverLocationJSONRequestBody
	if err := s.bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}

	cmd, err := commands.NewUpdateDriverLocationCommand(fromAPI(driverId), body.Latitude, body.Longitude)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.UpdateDriverLocation.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// UpdateDriverStatus handles PUT /api/v1/drivers/{driverId}/status.
func (s *Server) UpdateDriverStatus(ctx echo.Context, driverId openapi_types.UUID) error {
	var body servers.UpdateDriverStatusJSONRequestBody
	if err := s.bindAndValidate(ctx, &body); err != nil {
		return badRequest(ctx, err.Error())
	}

	status, err := driver.ParseStatus(string(body.Status))
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewChangeDriverStatusCommand(fromAPI(driverId), status)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.handlers.ChangeDriverStatus.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}
	return ctx.NoContent(http.StatusNoContent)
}

// fromAPI converts a wire UUID. The nil UUID comes back as the zero kernel.UUID, which the
// command constructors reject.
func fromAPI(id openapi_types.UUID) kernel.UUID {
	converted, _ := kernel.UUIDFromBytes(id[:])
	return converted
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
