package customer

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var (
	ErrAddressIsNotConstructed = errors.New("Address must be created via NewAddress constructor")
	ErrAddressOwnedByOther     = errs.NewBusinessRuleError("delivery address belongs to another customer")
)

// Address is a saved delivery address.
type Address struct {
	id       kernel.UUID
	userID   kernel.UUID
	label    string
	location kernel.GeoPoint
	guard    guard.ConstructorGuard
}

func NewAddress(id, userID kernel.UUID, label string, location kernel.GeoPoint) (*Address, error) {
	if err := errors.Join(id.Validate(), userID.Validate(), location.Validate()); err != nil {
		return nil, err
	}
	return &Address{id: id, userID: userID, label: label, location: location, guard: guard.NewConstructorGuard()}, nil
}

func (a *Address) Validate() error {
	if a == nil {
		return ErrAddressIsNotConstructed
	}
	return a.guard.Validate(ErrAddressIsNotConstructed)
}

func (a *Address) ID() kernel.UUID           { return a.id }
func (a *Address) UserID() kernel.UUID       { return a.userID }
func (a *Address) Label() string             { return a.label }
func (a *Address) Location() kernel.GeoPoint { return a.location }

// CheckOwner makes sure customers only ship to their own addresses.
func (a *Address) CheckOwner(customerID kernel.UUID) error {
	if !a.userID.IsEqual(customerID) {
		return ErrAddressOwnedByOther
	}
	return nil
}
