package order

import (
	"errors"
	"fmt"
	"strings"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const (
	MinItemQuantity = 1
	MaxItemQuantity = 100
)

// Addon is an extra selected for a line item, priced at order time.
type Addon struct {
	ID    kernel.UUID
	Name  string
	Price decimal.Decimal
}

// Item is a line item snapshot. Name and prices are copied from the menu when the order
// is created and never change afterwards, even if the menu does.
type Item struct {
	menuItemID kernel.UUID
	name       string
	quantity   int
	unitPrice  decimal.Decimal
	addons     []Addon
}

func NewItem(menuItemID kernel.UUID, name string, quantity int, unitPrice decimal.Decimal, addons []Addon) (Item, error) {
	item := Item{}
	if err := errors.Join(
		item.setMenuItemID(menuItemID),
		item.setName(name),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
		item.setAddons(addons),
	); err != nil {
		return Item{}, err
	}
	return item, nil
}

func (i Item) MenuItemID() kernel.UUID {
	return i.menuItemID
}

func (i Item) Name() string {
	return i.name
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() decimal.Decimal {
	return i.unitPrice
}

// Addons returns a copy so callers cannot mutate the snapshot.
func (i Item) Addons() []Addon {
	out := make([]Addon, len(i.addons))
	copy(out, i.addons)
	return out
}

// LineTotal is (unit price + add-ons) × quantity, rounded to cents.
func (i Item) LineTotal() decimal.Decimal {
	each := i.unitPrice
	for _, a := range i.addons {
		each = each.Add(a.Price)
	}
	return kernel.RoundMoney(each.Mul(decimal.NewFromInt(int64(i.quantity))))
}

func (i *Item) setMenuItemID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	i.menuItemID = id
	return nil
}

func (i *Item) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("item name")
	}
	i.name = name
	return nil
}

func (i *Item) setQuantity(q int) error {
	if q < MinItemQuantity || q > MaxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", q, MinItemQuantity, MaxItemQuantity)
	}
	i.quantity = q
	return nil
}

func (i *Item) setUnitPrice(p decimal.Decimal) error {
	if p.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%s is negative", p))
	}
	i.unitPrice = p
	return nil
}

func (i *Item) setAddons(addons []Addon) error {
	for _, a := range addons {
		if a.Price.IsNegative() {
			return errs.NewValueIsInvalidErrorWithCause("addon price", fmt.Errorf("%s costs %s", a.Name, a.Price))
		}
	}
	i.addons = make([]Addon, len(addons))
	copy(i.addons, addons)
	return nil
}
