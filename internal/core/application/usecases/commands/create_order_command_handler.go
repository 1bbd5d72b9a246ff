package commands

import (
	"context"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/model/catalog"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// CreateOrderResult is what the caller learns about a placed order.
type CreateOrderResult struct {
	OrderID    kernel.UUID
	Number     string
	DeliveryID kernel.UUID
	Totals     order.Totals
}

// CreateOrderCommandHandler places an order. Prices, fee and tax are computed here from
// the catalog; nothing is persisted unless every check passes.
type CreateOrderCommandHandler struct {
	uowFactory CreateOrderUoWFactory
	pricing    services.PricingPolicy
	publisher  ports.EventPublisher
	metrics    LifecycleMetrics
	logger     *slog.Logger
}

func NewCreateOrderCommandHandler(
	uowFactory CreateOrderUoWFactory,
	pricing services.PricingPolicy,
	publisher ports.EventPublisher,
	metrics LifecycleMetrics,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		pricing:    pricing,
		publisher:  publisher,
		metrics:    metrics,
		logger:     logger,
	}
}

// Handle validates the restaurant, menu items and address, quotes the totals and writes
// the order, its delivery and the first history row in one transaction.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, d, err := h.build(ctx, uow, cmd)
	if err != nil {
		h.metrics.OrderRejected(rejectReason(err))
		return CreateOrderResult{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return CreateOrderResult{}, err
	}
	if err = uow.DeliveryRepository().Add(ctx, d); err != nil {
		return CreateOrderResult{}, err
	}
	entry := order.NewHistoryEntry(o.ID(), o.Status(), nil, "Order created", o.CreatedAt())
	if err = uow.StatusHistoryRepository().Append(ctx, entry); err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	h.metrics.OrderCreated()
	h.logger.InfoContext(ctx, "order created",
		slog.String("order_id", o.ID().String()),
		slog.String("order_number", o.Number()),
		slog.String("restaurant_id", o.RestaurantID().String()),
		slog.String("total", o.Totals().Total.StringFixed(2)))

	publishAll(ctx, h.publisher, h.logger, []pendingEvent{{
		userID:    o.CustomerID(),
		eventType: EventOrderCreated,
		payload:   newOrderEvent(o, "Order Placed", StatusMessage(order.Pending)),
	}})

	return CreateOrderResult{OrderID: o.ID(), Number: o.Number(), DeliveryID: d.ID(), Totals: o.Totals()}, nil
}

func (h *CreateOrderCommandHandler) build(
	ctx context.Context,
	uow CreateOrderUoW,
	cmd CreateOrderCommand,
) (*order.Order, *delivery.Delivery, error) {
	catalogRepo := uow.CatalogRepository()

	restaurant, err := catalogRepo.GetRestaurant(ctx, cmd.RestaurantID())
	if err != nil {
		return nil, nil, err
	}
	if err = restaurant.AcceptsOrders(); err != nil {
		return nil, nil, err
	}

	menu, err := catalogRepo.GetMenuItems(ctx, cmd.MenuItemIDs())
	if err != nil {
		return nil, nil, err
	}
	items, err := priceItems(cmd, restaurant, menu)
	if err != nil {
		return nil, nil, err
	}

	address, err := uow.CustomerRepository().GetAddress(ctx, cmd.AddressID())
	if err != nil {
		return nil, nil, err
	}
	if err = address.CheckOwner(cmd.CustomerID()); err != nil {
		return nil, nil, err
	}

	orderID := kernel.NewUUID()
	d, err := delivery.NewDelivery(kernel.NewUUID(), orderID, restaurant.Location(), address.Location())
	if err != nil {
		return nil, nil, err
	}

	totals := h.pricing.Quote(items, d.DistanceKm())
	if err = restaurant.CheckMinimumOrder(totals.Subtotal); err != nil {
		return nil, nil, err
	}

	now := time.Now().UTC()
	number, err := order.NewNumber(now)
	if err != nil {
		return nil, nil, err
	}

	o, err := order.NewOrder(orderID, number, cmd.CustomerID(), restaurant.ID(), items, totals,
		cmd.PaymentMethod(), cmd.SpecialInstructions(), now)
	if err != nil {
		return nil, nil, err
	}
	return o, d, nil
}

// priceItems snapshots names and prices from the menu. The discount price wins over the
// list price when present.
func priceItems(cmd CreateOrderCommand, restaurant *catalog.Restaurant, menu map[string]*catalog.MenuItem) ([]order.Item, error) {
	requested := cmd.Items()
	items := make([]order.Item, 0, len(requested))
	for _, line := range requested {
		menuItem, ok := menu[line.MenuItemID.String()]
		if !ok {
			return nil, errs.NewObjectNotFoundError("menu item", line.MenuItemID)
		}
		if err := menuItem.CheckOrderable(restaurant.ID()); err != nil {
			return nil, err
		}
		options, err := menuItem.ResolveAddons(line.AddonIDs)
		if err != nil {
			return nil, err
		}
		addons := make([]order.Addon, len(options))
		for i, option := range options {
			addons[i] = order.Addon{ID: option.ID, Name: option.Name, Price: option.Price}
		}
		item, err := order.NewItem(menuItem.ID(), menuItem.Name(), line.Quantity, menuItem.EffectivePrice(), addons)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func rejectReason(err error) string {
	switch errs.Classify(err) {
	case errs.KindNotFound:
		return "not_found"
	case errs.KindBadRequest:
		return "business_rule"
	case errs.KindConflict:
		return "conflict"
	default:
		return "internal"
	}
}
