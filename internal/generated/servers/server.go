// Package servers holds the HTTP contract of the marketplace API: the OpenAPI document,
// its request and response models, and the echo routing glue that binds path and query
// parameters before calling a ServerInterface. It follows the layout oapi-codegen emits
// for the echo target.
package servers

import (
	_ "embed"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/swaggo/swag"
)

//go:embed openapi.yml
var rawSpec []byte

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Place an order
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// Read an order with its delivery and history
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// Move an order to its next status
	// (PATCH /api/v1/orders/{orderId}/status)
	UpdateOrderStatus(ctx echo.Context, orderId openapi_types.UUID) error
	// Cancel an order inside the cancellation window
	// (POST /api/v1/orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// Available drivers around a point, nearest first
	// (GET /api/v1/drivers/nearby)
	GetNearbyDrivers(ctx echo.Context, params GetNearbyDriversParams) error
	// Active restaurants around a point, nearest first, with a quoted delivery fee
	// (GET /api/v1/restaurants/nearby)
	GetNearbyRestaurants(ctx echo.Context, params GetNearbyRestaurantsParams) error
	// A customer's orders, newest first
	// (GET /api/v1/customers/{customerId}/orders)
	ListCustomerOrders(ctx echo.Context, customerId openapi_types.UUID, params ListCustomerOrdersParams) error
	// Report a driver position
	// (PUT /api/v1/drivers/{driverId}/location)
	UpdateDriverLocation(ctx echo.Context, driverId openapi_types.UUID) error
	// Change a driver's own status
	// (PUT /api/v1/drivers/{driverId}/status)
	UpdateDriverStatus(ctx echo.Context, driverId openapi_types.UUID) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	return w.Handler.CreateOrder(ctx)
}

func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.GetOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) UpdateOrderStatus(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.UpdateOrderStatus(ctx, orderId)
}

func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	orderId, err := bindUUIDPath(ctx, "orderId")
	if err != nil {
		return err
	}
	return w.Handler.CancelOrder(ctx, orderId)
}

func (w *ServerInterfaceWrapper) GetNearbyDrivers(ctx echo.Context) error {
	var params GetNearbyDriversParams

	err := runtime.BindQueryParameter("form", true, true, "lat", ctx.QueryParams(), &params.Lat)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lat: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, true, "lon", ctx.QueryParams(), &params.Lon)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lon: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "radiusKm", ctx.QueryParams(), &params.RadiusKm)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter radiusKm: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	return w.Handler.GetNearbyDrivers(ctx, params)
}

func (w *ServerInterfaceWrapper) GetNearbyRestaurants(ctx echo.Context) error {
	var params GetNearbyRestaurantsParams

	err := runtime.BindQueryParameter("form", true, true, "lat", ctx.QueryParams(), &params.Lat)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lat: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, true, "lon", ctx.QueryParams(), &params.Lon)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lon: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "radiusKm", ctx.QueryParams(), &params.RadiusKm)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter radiusKm: %s", err))
	}

	err = runtime.BindQueryParameter("form", false, false, "cuisineTypes", ctx.QueryParams(), &params.CuisineTypes)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter cuisineTypes: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "isOpen", ctx.QueryParams(), &params.IsOpen)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter isOpen: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "minimumRating", ctx.QueryParams(), &params.MinimumRating)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter minimumRating: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "maxDeliveryFee", ctx.QueryParams(), &params.MaxDeliveryFee)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter maxDeliveryFee: %s", err))
	}

	return w.Handler.GetNearbyRestaurants(ctx, params)
}

func (w *ServerInterfaceWrapper) ListCustomerOrders(ctx echo.Context) error {
	customerId, err := bindUUIDPath(ctx, "customerId")
	if err != nil {
		return err
	}

	var params ListCustomerOrdersParams

	err = runtime.BindQueryParameter("form", true, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "page", ctx.QueryParams(), &params.Page)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter page: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	return w.Handler.ListCustomerOrders(ctx, customerId, params)
}

func (w *ServerInterfaceWrapper) UpdateDriverLocation(ctx echo.Context) error {
	driverId, err := bindUUIDPath(ctx, "driverId")
	if err != nil {
		return err
	}
	return w.Handler.UpdateDriverLocation(ctx, driverId)
}

func (w *ServerInterfaceWrapper) UpdateDriverStatus(ctx echo.Context) error {
	driverId, err := bindUUIDPath(ctx, "driverId")
	if err != nil {
		return err
	}
	return w.Handler.UpdateDriverStatus(ctx, driverId)
}

func bindUUIDPath(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var value openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &value,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return value, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return value, nil
}

// EchoRouter is the subset of echo routing the handlers are registered on.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers, prefixing every path with baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.PATCH(baseURL+"/api/v1/orders/:orderId/status", wrapper.UpdateOrderStatus)
	router.POST(baseURL+"/api/v1/orders/:orderId/cancel", wrapper.CancelOrder)
	router.GET(baseURL+"/api/v1/drivers/nearby", wrapper.GetNearbyDrivers)
	router.GET(baseURL+"/api/v1/restaurants/nearby", wrapper.GetNearbyRestaurants)
	router.GET(baseURL+"/api/v1/customers/:customerId/orders", wrapper.ListCustomerOrders)
	router.PUT(baseURL+"/api/v1/drivers/:driverId/location", wrapper.UpdateDriverLocation)
	router.PUT(baseURL+"/api/v1/drivers/:driverId/status", wrapper.UpdateDriverStatus)
}

var (
	swaggerOnce sync.Once
	swaggerDoc  *openapi3.T
	swaggerErr  error
)

// GetSwagger returns the parsed OpenAPI document. Callers may mutate the result.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("error loading OpenAPI document: %w", err)
	}
	return doc, nil
}

type swaggerUIDoc struct{}

// ReadDoc serves the document as JSON to the swagger UI.
func (swaggerUIDoc) ReadDoc() string {
	swaggerOnce.Do(func() {
		swaggerDoc, swaggerErr = GetSwagger()
	})
	if swaggerErr != nil {
		return "{}"
	}
	data, err := swaggerDoc.MarshalJSON()
	if err != nil {
		return "{}"
	}
	return string(data)
}

func init() {
	swag.Register(swag.Name, swaggerUIDoc{})
}
