package catalog

import (
	"errors"
	"fmt"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrMenuItemIsNotConstructed = errors.New("MenuItem must be created via NewMenuItem constructor")

// AddonOption is an extra a menu item offers, with its own price.
type AddonOption struct {
	ID    kernel.UUID
	Name  string
	Price decimal.Decimal
}

type MenuItem struct {
	id            kernel.UUID
	restaurantID  kernel.UUID
	name          string
	price         decimal.Decimal
	discountPrice *decimal.Decimal
	isAvailable   bool
	addons        []AddonOption
	guard         guard.ConstructorGuard
}

func NewMenuItem(
	id, restaurantID kernel.UUID,
	name string,
	price decimal.Decimal,
	discountPrice *decimal.Decimal,
	isAvailable bool,
	addons []AddonOption,
) (*MenuItem, error) {
	var priceErr error
	if price.IsNegative() || (discountPrice != nil && discountPrice.IsNegative()) {
		priceErr = errs.NewValueIsInvalidErrorWithCause("menu item price", fmt.Errorf("%s has a negative price", name))
	}
	if err := errors.Join(id.Validate(), restaurantID.Validate(), priceErr); err != nil {
		return nil, err
	}
	item := &MenuItem{
		id:           id,
		restaurantID: restaurantID,
		name:         name,
		price:        price,
		isAvailable:  isAvailable,
		addons:       append([]AddonOption(nil), addons...),
		guard:        guard.NewConstructorGuard(),
	}
	if discountPrice != nil {
		dp := *discountPrice
		item.discountPrice = &dp
	}
	return item, nil
}

func (m *MenuItem) Validate() error {
	if m == nil {
		return ErrMenuItemIsNotConstructed
	}
	return m.guard.Validate(ErrMenuItemIsNotConstructed)
}

func (m *MenuItem) ID() kernel.UUID           { return m.id }
func (m *MenuItem) RestaurantID() kernel.UUID { return m.restaurantID }
func (m *MenuItem) Name() string              { return m.name }
func (m *MenuItem) Price() decimal.Decimal    { return m.price }
func (m *MenuItem) IsAvailable() bool         { return m.isAvailable }

func (m *MenuItem) DiscountPrice() *decimal.Decimal {
	if m.discountPrice == nil {
		return nil
	}
	dp := *m.discountPrice
	return &dp
}

func (m *MenuItem) Addons() []AddonOption {
	return append([]AddonOption(nil), m.addons...)
}

// EffectivePrice is the discount price when one is set, the list price otherwise.
func (m *MenuItem) EffectivePrice() decimal.Decimal {
	if m.discountPrice != nil && m.discountPrice.IsPositive() {
		return *m.discountPrice
	}
	return m.price
}

// CheckOrderable verifies the item belongs to restaurantID and can be ordered now.
func (m *MenuItem) CheckOrderable(restaurantID kernel.UUID) error {
	if !m.restaurantID.IsEqual(restaurantID) {
		return errs.NewBusinessRuleErrorWithCause("menu item does not belong to the restaurant",
			fmt.Errorf("%s belongs to restaurant %s", m.name, m.restaurantID))
	}
	if !m.isAvailable {
		return errs.NewBusinessRuleErrorWithCause("menu item is not available", fmt.Errorf("%s is not available", m.name))
	}
	return nil
}

// ResolveAddons maps selected add-on ids to the options this item offers.
func (m *MenuItem) ResolveAddons(ids []kernel.UUID) ([]AddonOption, error) {
	out := make([]AddonOption, 0, len(ids))
	for _, id := range ids {
		found := false
		for _, option := range m.addons {
			if option.ID.IsEqual(id) {
				out = append(out, option)
				found = true
				break
			}
		}
		if !found {
			return nil, errs.NewObjectNotFoundErrorWithCause("addon", id, fmt.Errorf("not offered by %s", m.name))
		}
	}
	return out, nil
}
