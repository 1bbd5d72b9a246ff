package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for PaymentMethod.
const (
	CARD   PaymentMethod = "CARD"
	CASH   PaymentMethod = "CASH"
	UPI    PaymentMethod = "UPI"
	WALLET PaymentMethod = "WALLET"
)

// Defines values for DriverStatusUpdateStatus.
const (
	OFFLINE DriverStatusUpdateStatus = "OFFLINE"
	ONBREAK DriverStatusUpdateStatus = "ON_BREAK"
	ONLINE  DriverStatusUpdateStatus = "ONLINE"
)

// Addon defines model for Addon.
type Addon struct {
	Id    openapi_types.UUID `json:"id"`
	Name  string             `json:"name"`
	Price string             `json:"price"`
}

// Cancellation defines model for Cancellation.
type Cancellation struct {
	ActorId openapi_types.UUID `json:"actorId"`
	Reason  string             `json:"reason" validate:"required,max=500"`
}

// Delivery defines model for Delivery.
type Delivery struct {
	AssignedAt  *time.Time          `json:"assignedAt,omitempty"`
	DeliveredAt *time.Time          `json:"deliveredAt,omitempty"`
	DistanceKm  float64             `json:"distanceKm"`
	DriverId    *openapi_types.UUID `json:"driverId,omitempty"`
	Id          openapi_types.UUID  `json:"id"`
	PickedUpAt  *time.Time          `json:"pickedUpAt,omitempty"`
}

// DriverLocation defines model for DriverLocation.
type DriverLocation struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// DriverStatusUpdate defines model for DriverStatusUpdate.
type DriverStatusUpdate struct {
	Status DriverStatusUpdateStatus `json:"status" validate:"required,oneof=ONLINE OFFLINE ON_BREAK"`
}

// DriverStatusUpdateStatus defines model for DriverStatusUpdate.Status.
type DriverStatusUpdateStatus string

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// HistoryEntry defines model for HistoryEntry.
type HistoryEntry struct {
	ActorId   *openapi_types.UUID `json:"actorId,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	Notes     *string             `json:"notes,omitempty"`
	Status    string              `json:"status"`
}

// NearbyDriver defines model for NearbyDriver.
type NearbyDriver struct {
	DistanceKm float64            `json:"distanceKm"`
	DriverId   openapi_types.UUID `json:"driverId"`
	Rating     float64            `json:"rating"`
}

// NearbyRestaurant defines model for NearbyRestaurant.
type NearbyRestaurant struct {
	CalculatedDeliveryFee string             `json:"calculatedDeliveryFee"`
	CuisineTypes          []string           `json:"cuisineTypes"`
	DeliveryFee           string             `json:"deliveryFee"`
	DistanceKm            float64            `json:"distanceKm"`
	IsOpen                bool               `json:"isOpen"`
	MinimumOrder          string             `json:"minimumOrder"`
	Name                  string             `json:"name"`
	Rating                float64            `json:"rating"`
	RestaurantId          openapi_types.UUID `json:"restaurantId"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	AddressId           openapi_types.UUID `json:"addressId"`
	CustomerId          openapi_types.UUID `json:"customerId"`
	Items               []NewOrderItem     `json:"items" validate:"required,min=1,dive"`
	PaymentMethod       PaymentMethod      `json:"paymentMethod"`
	RestaurantId        openapi_types.UUID `json:"restaurantId"`
	SpecialInstructions *string            `json:"specialInstructions,omitempty" validate:"omitempty,max=500"`
}

// NewOrderItem defines model for NewOrderItem.
type NewOrderItem struct {
	AddonIds   *[]openapi_types.UUID `json:"addonIds,omitempty"`
	MenuItemId openapi_types.UUID    `json:"menuItemId"`
	Quantity   int                   `json:"quantity" validate:"min=1,max=99"`
}

// Order defines model for Order.
type Order struct {
	AcceptedAt          *time.Time         `json:"acceptedAt,omitempty"`
	CancellationReason  *string            `json:"cancellationReason,omitempty"`
	CancelledAt         *time.Time         `json:"cancelledAt,omitempty"`
	CreatedAt           time.Time          `json:"createdAt"`
	CustomerId          openapi_types.UUID `json:"customerId"`
	Delivery            *Delivery          `json:"delivery,omitempty"`
	DeliveredAt         *time.Time         `json:"deliveredAt,omitempty"`
	DeliveryFee         string             `json:"deliveryFee"`
	History             []HistoryEntry     `json:"history"`
	Id                  openapi_types.UUID `json:"id"`
	Items               []OrderItem        `json:"items"`
	OrderNumber         string             `json:"orderNumber"`
	PaymentMethod       string             `json:"paymentMethod"`
	PaymentStatus       string             `json:"paymentStatus"`
	PickedUpAt          *time.Time         `json:"pickedUpAt,omitempty"`
	PreparingAt         *time.Time         `json:"preparingAt,omitempty"`
	ReadyAt             *time.Time         `json:"readyAt,omitempty"`
	RestaurantId        openapi_types.UUID `json:"restaurantId"`
	SpecialInstructions *string            `json:"specialInstructions,omitempty"`
	Status              string             `json:"status"`
	Subtotal            string             `json:"subtotal"`
	Tax                 string             `json:"tax"`
	Total               string             `json:"total"`
	Version             int64              `json:"version"`
}

// OrderCreated defines model for OrderCreated.
type OrderCreated struct {
	DeliveryFee string             `json:"deliveryFee"`
	DeliveryId  openapi_types.UUID `json:"deliveryId"`
	OrderId     openapi_types.UUID `json:"orderId"`
	OrderNumber string             `json:"orderNumber"`
	Subtotal    string             `json:"subtotal"`
	Tax         string             `json:"tax"`
	Total       string             `json:"total"`
}

// OrderItem defines model for OrderItem.
type OrderItem struct {
	Addons     []Addon            `json:"addons"`
	MenuItemId openapi_types.UUID `json:"menuItemId"`
	Name       string             `json:"name"`
	Quantity   int                `json:"quantity"`
	UnitPrice  string             `json:"unitPrice"`
}

// OrderPage defines model for OrderPage.
type OrderPage struct {
	Orders     []OrderSummary `json:"orders"`
	Pagination Pagination     `json:"pagination"`
}

// OrderSummary defines model for OrderSummary.
type OrderSummary struct {
	CreatedAt      time.Time          `json:"createdAt"`
	Id             openapi_types.UUID `json:"id"`
	ItemCount      int                `json:"itemCount"`
	OrderNumber    string             `json:"orderNumber"`
	PaymentStatus  string             `json:"paymentStatus"`
	RestaurantId   openapi_types.UUID `json:"restaurantId"`
	RestaurantName string             `json:"restaurantName"`
	Status         string             `json:"status"`
	Total          string             `json:"total"`
}

// Pagination defines model for Pagination.
type Pagination struct {
	Limit      int   `json:"limit"`
	Page       int   `json:"page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// PaymentMethod defines model for PaymentMethod.
type PaymentMethod string

// StatusUpdate defines model for StatusUpdate.
type StatusUpdate struct {
	ActorId *openapi_types.UUID `json:"actorId,omitempty"`
	Notes   *string             `json:"notes,omitempty" validate:"omitempty,max=500"`
	Status  string              `json:"status" validate:"required"`
}

// TransitionResult defines model for TransitionResult.
type TransitionResult struct {
	DriverAssigned *bool               `json:"driverAssigned,omitempty"`
	DriverId       *openapi_types.UUID `json:"driverId,omitempty"`
	OrderId        openapi_types.UUID  `json:"orderId"`
	PaymentStatus  string              `json:"paymentStatus"`
	Status         string              `json:"status"`
	Version        int64               `json:"version"`
}

// GetNearbyDriversParams defines parameters for GetNearbyDrivers.
type GetNearbyDriversParams struct {
	Lat      float64  `form:"lat" json:"lat"`
	Lon      float64  `form:"lon" json:"lon"`
	RadiusKm *float64 `form:"radiusKm,omitempty" json:"radiusKm,omitempty"`
	Limit    *int     `form:"limit,omitempty" json:"limit,omitempty"`
}

// GetNearbyRestaurantsParams defines parameters for GetNearbyRestaurants.
type GetNearbyRestaurantsParams struct {
	Lat            float64   `form:"lat" json:"lat"`
	Lon            float64   `form:"lon" json:"lon"`
	RadiusKm       *float64  `form:"radiusKm,omitempty" json:"radiusKm,omitempty"`
	CuisineTypes   *[]string `form:"cuisineTypes,omitempty" json:"cuisineTypes,omitempty"`
	IsOpen         *bool     `form:"isOpen,omitempty" json:"isOpen,omitempty"`
	MinimumRating  *float64  `form:"minimumRating,omitempty" json:"minimumRating,omitempty"`
	MaxDeliveryFee *string   `form:"maxDeliveryFee,omitempty" json:"maxDeliveryFee,omitempty"`
}

// ListCustomerOrdersParams defines parameters for ListCustomerOrders.
type ListCustomerOrdersParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Page   *int    `form:"page,omitempty" json:"page,omitempty"`
	Limit  *int    `form:"limit,omitempty" json:"limit,omitempty"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// UpdateOrderStatusJSONRequestBody defines body for UpdateOrderStatus for application/json ContentType.
type UpdateOrderStatusJSONRequestBody = StatusUpdate

// CancelOrderJSONRequestBody defines body for CancelOrder for application/json ContentType.
type CancelOrderJSONRequestBody = Cancellation

// UpdateDriverLocationJSONRequestBody defines body for UpdateDriverLocation for application/json ContentType.
type UpdateDriverLocationJSONRequestBody = DriverLocation

// UpdateDriverStatusJSONRequestBody defines body for UpdateDriverStatus for application/json ContentType.
type UpdateDriverStatusJSONRequestBody = DriverStatusUpdate
