package ports

import (
	"context"

	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
)

type DeliveryRepository interface {
	Add(ctx context.Context, aggregate *delivery.Delivery) error

	// UpdateProgress persists pickedUpAt and deliveredAt. The driver link is written only
	// by DriverRepository.TryClaim.
	UpdateProgress(ctx context.Context, aggregate *delivery.Delivery) error

	GetByOrderID(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)
}
