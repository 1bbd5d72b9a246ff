package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

const testOrderNumber = "ORD-1741953600000-K3Z9Q1B7X"

var placedAt = time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func geoPoint(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

// orderAt restores an order that already reached status at version, with the given
// payment status.
func orderAt(t *testing.T, status order.Status, payment order.PaymentStatus, version int64) *order.Order {
	t.Helper()
	item, err := order.NewItem(kernel.NewUUID(), "Pad Thai", 2, decimal.RequireFromString("11.50"), nil)
	require.NoError(t, err)
	o, err := order.RestoreOrder(order.Snapshot{
		ID:           kernel.NewUUID(),
		Number:       testOrderNumber,
		CustomerID:   kernel.NewUUID(),
		RestaurantID: kernel.NewUUID(),
		Items:        []order.Item{item},
		Totals: order.Totals{
			Subtotal:    decimal.RequireFromString("23.00"),
			DeliveryFee: decimal.RequireFromString("2.99"),
			Tax:         decimal.RequireFromString("2.30"),
			Total:       decimal.RequireFromString("28.29"),
		},
		Status:        status,
		PaymentMethod: order.PaymentCard,
		PaymentStatus: payment,
		Version:       version,
		CreatedAt:     placedAt,
	})
	require.NoError(t, err)
	return o
}

func deliveryFor(t *testing.T, orderID kernel.UUID, driverID *kernel.UUID) *delivery.Delivery {
	t.Helper()
	var assignedAt *time.Time
	if driverID != nil {
		at := placedAt.Add(20 * time.Minute)
		assignedAt = &at
	}
	d, err := delivery.RestoreDelivery(kernel.NewUUID(), orderID,
		geoPoint(t, 52.5200, 13.4050), geoPoint(t, 52.5300, 13.4200), 1.46, driverID, assignedAt, nil, nil)
	require.NoError(t, err)
	return d
}

func driverWith(t *testing.T, status driver.Status, available bool) *driver.Driver {
	t.Helper()
	loc := geoPoint(t, 52.5210, 13.4060)
	d, err := driver.RestoreDriver(kernel.NewUUID(), kernel.NewUUID(), &loc, 4.7, available, status)
	require.NoError(t, err)
	return d
}
