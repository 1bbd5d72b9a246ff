package http

import (
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toTransitionResponse(result commands.TransitionResult) servers.TransitionResult {
	response := servers.TransitionResult{
		OrderId:       result.OrderID.Bytes(),
		Status:        result.Status.String(),
		Version:       result.Version,
		PaymentStatus: string(result.PaymentStatus),
	}
	if result.Assignment != nil {
		assigned := result.Assignment.Assigned
		response.DriverAssigned = &assigned
		if assigned {
			response.DriverId = toAPI(&result.Assignment.DriverID)
		}
	}
	return response
}

func toOrderResponse(view queries.GetOrderQueryResponse) servers.Order {
	response := servers.Order{
		Id:                  view.ID.Bytes(),
		OrderNumber:         view.Number,
		CustomerId:          view.CustomerID.Bytes(),
		RestaurantId:        view.RestaurantID.Bytes(),
		Status:              view.Status.String(),
		PaymentMethod:       string(view.PaymentMethod),
		PaymentStatus:       string(view.PaymentStatus),
		Version:             view.Version,
		Subtotal:            view.Subtotal.StringFixed(2),
		DeliveryFee:         view.DeliveryFee.StringFixed(2),
		Tax:                 view.Tax.StringFixed(2),
		Total:               view.Total.StringFixed(2),
		AcceptedAt:          view.Timestamps.AcceptedAt,
		PreparingAt:         view.Timestamps.PreparingAt,
		ReadyAt:             view.Timestamps.ReadyAt,
		PickedUpAt:          view.Timestamps.PickedUpAt,
		DeliveredAt:         view.Timestamps.DeliveredAt,
		CancelledAt:         view.Timestamps.CancelledAt,
		CancellationReason:  optional(view.CancellationReason),
		SpecialInstructions: optional(view.SpecialInstructions),
		CreatedAt:           view.CreatedAt,
		Items:               make([]servers.OrderItem, len(view.Items)),
		History:             make([]servers.HistoryEntry, len(view.History)),
	}

	for i, item := range view.Items {
		addons := make([]servers.Addon, len(item.Addons))
		for j, addon := range item.Addons {
			addons[j] = servers.Addon{Id: addon.ID.Bytes(), Name: addon.Name, Price: addon.Price.StringFixed(2)}
		}
		response.Items[i] = servers.OrderItem{
			MenuItemId: item.MenuItemID.Bytes(),
			Name:       item.Name,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice.StringFixed(2),
			Addons:     addons,
		}
	}

	if d := view.Delivery; d != nil {
		response.Delivery = &servers.Delivery{
			Id:          d.ID.Bytes(),
			DriverId:    toAPI(d.DriverID),
			DistanceKm:  d.DistanceKm,
			AssignedAt:  d.AssignedAt,
			PickedUpAt:  d.PickedUpAt,
			DeliveredAt: d.DeliveredAt,
		}
	}

	for i, entry := range view.History {
		response.History[i] = servers.HistoryEntry{
			Status:    entry.Status.String(),
			ActorId:   toAPI(entry.ActorID),
			Notes:     optional(entry.Notes),
			CreatedAt: entry.CreatedAt,
		}
	}
	return response
}

func toNearbyRestaurantResponse(r queries.NearbyRestaurant) servers.NearbyRestaurant {
	cuisines := r.CuisineTypes
	if cuisines == nil {
		cuisines = []string{}
	}
	return servers.NearbyRestaurant{
		RestaurantId:          r.RestaurantID.Bytes(),
		Name:                  r.Name,
		CuisineTypes:          cuisines,
		IsOpen:                r.IsOpen,
		Rating:                r.Rating,
		MinimumOrder:          r.MinimumOrder.StringFixed(2),
		DeliveryFee:           r.DeliveryFee.StringFixed(2),
		CalculatedDeliveryFee: r.CalculatedDeliveryFee.StringFixed(2),
		DistanceKm:            r.DistanceKm,
	}
}

func toOrderPageResponse(result queries.ListCustomerOrdersQueryResponse) servers.OrderPage {
	orders := make([]servers.OrderSummary, len(result.Orders))
	for i, o := range result.Orders {
		orders[i] = servers.OrderSummary{
			Id:             o.ID.Bytes(),
			OrderNumber:    o.Number,
			RestaurantId:   o.RestaurantID.Bytes(),
			RestaurantName: o.RestaurantName,
			Status:         o.Status.String(),
			PaymentStatus:  string(o.PaymentStatus),
			Total:          o.Total.StringFixed(2),
			ItemCount:      o.ItemCount,
			CreatedAt:      o.CreatedAt,
		}
	}
	return servers.OrderPage{
		Orders: orders,
		Pagination: servers.Pagination{
			Page:       result.Page,
			Limit:      result.Limit,
			Total:      result.Total,
			TotalPages: result.TotalPages,
		},
	}
}

func toAPI(id *kernel.UUID) *openapi_types.UUID {
	if id == nil {
		return nil
	}
	converted := id.Bytes()
	return &converted
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
