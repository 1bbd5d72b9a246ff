package services

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// PricingPolicy computes order totals server-side. Client-submitted amounts are never used.
type PricingPolicy struct {
	baseFee        decimal.Decimal
	costPerKm      decimal.Decimal
	freeDistanceKm decimal.Decimal
	taxRate        decimal.Decimal
}

// DefaultPricingPolicy charges 2.99 for the first 2 km, 0.50 per extra km and 10% tax.
func DefaultPricingPolicy() PricingPolicy {
	return PricingPolicy{
		baseFee:        decimal.RequireFromString("2.99"),
		costPerKm:      decimal.RequireFromString("0.50"),
		freeDistanceKm: decimal.NewFromInt(2),
		taxRate:        decimal.RequireFromString("0.10"),
	}
}

func NewPricingPolicy(baseFee, costPerKm, freeDistanceKm, taxRate float64) (PricingPolicy, error) {
	var rangeErr error
	if taxRate < 0 || taxRate > 1 {
		rangeErr = errs.NewValueIsOutOfRangeError("tax rate", taxRate, 0, 1)
	}
	var negErr error
	if baseFee < 0 || costPerKm < 0 || freeDistanceKm < 0 {
		negErr = errs.NewValueIsInvalidErrorWithCause("pricing",
			fmt.Errorf("base fee %.2f, cost per km %.2f and free distance %.2f must not be negative",
				baseFee, costPerKm, freeDistanceKm))
	}
	if err := errors.Join(rangeErr, negErr); err != nil {
		return PricingPolicy{}, err
	}
	return PricingPolicy{
		baseFee:        decimal.NewFromFloat(baseFee),
		costPerKm:      decimal.NewFromFloat(costPerKm),
		freeDistanceKm: decimal.NewFromFloat(freeDistanceKm),
		taxRate:        decimal.NewFromFloat(taxRate),
	}, nil
}

// DeliveryFee is the base fee up to the free distance plus costPerKm beyond it, rounded
// to cents.
func (p PricingPolicy) DeliveryFee(distanceKm float64) decimal.Decimal {
	distance := decimal.NewFromFloat(distanceKm)
	if distance.LessThanOrEqual(p.freeDistanceKm) {
		return kernel.RoundMoney(p.baseFee)
	}
	extra := distance.Sub(p.freeDistanceKm).Mul(p.costPerKm)
	return kernel.RoundMoney(p.baseFee.Add(extra))
}

// Subtotal sums the line totals.
func (p PricingPolicy) Subtotal(items []order.Item) decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return kernel.RoundMoney(subtotal)
}

// Quote builds the immutable totals of a new order.
func (p PricingPolicy) Quote(items []order.Item, distanceKm float64) order.Totals {
	subtotal := p.Subtotal(items)
	fee := p.DeliveryFee(distanceKm)
	tax := kernel.RoundMoney(subtotal.Mul(p.taxRate))
	return order.Totals{
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Tax:         tax,
		Total:       subtotal.Add(fee).Add(tax),
	}
}
