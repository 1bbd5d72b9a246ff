package order

import (
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through NewOrder
	// or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder constructor")

	// ErrUnsavedTransition guards the version invariant: one load, one status write.
	ErrUnsavedTransition = errors.New("order already carries an unsaved status transition")

	ErrItemsAreRequired = errs.NewValueIsRequiredError("items")
)

// Totals are the server-side computed amounts of an order. They are fixed at creation.
type Totals struct {
	Subtotal    decimal.Decimal
	DeliveryFee decimal.Decimal
	Tax         decimal.Decimal
	Total       decimal.Decimal
}

func (t Totals) Validate() error {
	if t.Subtotal.IsNegative() || t.DeliveryFee.IsNegative() || t.Tax.IsNegative() {
		return errs.NewValueIsInvalidErrorWithCause("totals", fmt.Errorf("amounts must not be negative"))
	}
	if !t.Subtotal.Add(t.DeliveryFee).Add(t.Tax).Equal(t.Total) {
		return errs.NewValueIsInvalidErrorWithCause("totals",
			fmt.Errorf("total %s is not subtotal %s + fee %s + tax %s", t.Total, t.Subtotal, t.DeliveryFee, t.Tax))
	}
	return nil
}

// Timestamps holds the per-transition stamps. Each is nil until its status is reached and
// is written at most once.
type Timestamps struct {
	AcceptedAt  *time.Time
	PreparingAt *time.Time
	ReadyAt     *time.Time
	PickedUpAt  *time.Time
	DeliveredAt *time.Time
	CancelledAt *time.Time
}

// Order is the aggregate root of the order lifecycle.
//
// Invariants:
//   - items, totals and the order number are immutable after creation
//   - status only moves along the transition table (see Status)
//   - version grows by exactly one per persisted status write
//   - cancellation reason is set only together with Cancelled
//
// Persistence uses ExpectedVersion as the compare-and-swap token and Version as the value
// written; a second transition before the first is persisted is refused.
type Order struct {
	id                  kernel.UUID
	number              string
	customerID          kernel.UUID
	restaurantID        kernel.UUID
	items               []Item
	totals              Totals
	status              Status
	paymentMethod       PaymentMethod
	paymentStatus       PaymentStatus
	version             int64
	expectedVersion     int64
	timestamps          Timestamps
	cancellationReason  string
	specialInstructions string
	createdAt           time.Time
	guard               guard.ConstructorGuard
}

// NewOrder creates a PENDING order at version 0 with payment PENDING.
func NewOrder(
	id kernel.UUID,
	number string,
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	items []Item,
	totals Totals,
	paymentMethod PaymentMethod,
	specialInstructions string,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		status:              Pending,
		paymentStatus:       PaymentPending,
		specialInstructions: specialInstructions,
		createdAt:           createdAt,
		guard:               guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		ValidateNumber(number),
		customerID.Validate(),
		restaurantID.Validate(),
		o.setItems(items),
		totals.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return nil, err
	}

	o.number = number
	o.customerID = customerID
	o.restaurantID = restaurantID
	o.totals = totals
	o.paymentMethod = paymentMethod
	return o, nil
}

// Snapshot is the full persisted state of an order, used by RestoreOrder.
type Snapshot struct {
	ID                  kernel.UUID
	Number              string
	CustomerID          kernel.UUID
	RestaurantID        kernel.UUID
	Items               []Item
	Totals              Totals
	Status              Status
	PaymentMethod       PaymentMethod
	PaymentStatus       PaymentStatus
	Version             int64
	Timestamps          Timestamps
	CancellationReason  string
	SpecialInstructions string
	CreatedAt           time.Time
}

// RestoreOrder rebuilds an order from storage. The restored version becomes the
// expected version of the next write.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		number:              s.Number,
		customerID:          s.CustomerID,
		restaurantID:        s.RestaurantID,
		totals:              s.Totals,
		status:              s.Status,
		paymentMethod:       s.PaymentMethod,
		paymentStatus:       s.PaymentStatus,
		version:             s.Version,
		expectedVersion:     s.Version,
		timestamps:          s.Timestamps,
		cancellationReason:  s.CancellationReason,
		specialInstructions: s.SpecialInstructions,
		createdAt:           s.CreatedAt,
		guard:               guard.NewConstructorGuard(),
	}

	var versionErr error
	if s.Version < 0 {
		versionErr = errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is negative", s.Version))
	}

	if err := errors.Join(
		o.setID(s.ID),
		ValidateNumber(s.Number),
		s.CustomerID.Validate(),
		s.RestaurantID.Validate(),
		o.setItems(s.Items),
		s.Status.Validate(),
		s.PaymentMethod.Validate(),
		s.PaymentStatus.Validate(),
		versionErr,
	); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) Number() string {
	return o.number
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) RestaurantID() kernel.UUID {
	return o.restaurantID
}

// Items returns a copy of the line items.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

func (o *Order) Totals() Totals {
	return o.totals
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) PaymentMethod() PaymentMethod {
	return o.paymentMethod
}

func (o *Order) PaymentStatus() PaymentStatus {
	return o.paymentStatus
}

// Version is the value the next write stores.
func (o *Order) Version() int64 {
	return o.version
}

// ExpectedVersion is the version read from storage; the write only succeeds while the
// stored row still carries it.
func (o *Order) ExpectedVersion() int64 {
	return o.expectedVersion
}

// HasUnsavedTransition reports whether a status change awaits persistence.
func (o *Order) HasUnsavedTransition() bool {
	return o.version != o.expectedVersion
}

func (o *Order) Timestamps() Timestamps {
	return o.timestamps
}

func (o *Order) CancellationReason() string {
	return o.cancellationReason
}

func (o *Order) SpecialInstructions() string {
	return o.specialInstructions
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// Transition moves the order to next and stamps the matching timestamp. Cancelled is
// routed through Cancel so the cancellation window applies to every caller.
func (o *Order) Transition(next Status, at time.Time) error {
	if next == Cancelled {
		return o.Cancel("", at)
	}
	if o.HasUnsavedTransition() {
		return ErrUnsavedTransition
	}
	if err := o.status.ValidateTransition(next); err != nil {
		return err
	}
	o.apply(next, at)
	return nil
}

// Cancel applies the cancellation window and then the transition table.
func (o *Order) Cancel(reason string, at time.Time) error {
	if o.HasUnsavedTransition() {
		return ErrUnsavedTransition
	}
	if err := o.status.ValidateCancel(); err != nil {
		return err
	}
	o.cancellationReason = reason
	o.apply(Cancelled, at)
	return nil
}

// MarkPersisted makes the written version the expected version of the next write.
func (o *Order) MarkPersisted() {
	o.expectedVersion = o.version
}

// SettlePayment records the gateway outcome for a delivered order.
func (o *Order) SettlePayment(succeeded bool) error {
	if o.status != Delivered {
		return errs.NewBusinessRuleErrorWithCause("payment can only be settled on delivery",
			fmt.Errorf("order is %s", o.status))
	}
	if o.paymentStatus == PaymentCompleted {
		return errs.NewBusinessRuleError("payment is already settled")
	}
	if succeeded {
		o.paymentStatus = PaymentCompleted
	} else {
		o.paymentStatus = PaymentFailed
	}
	return nil
}

// RequestRefund flags a refunded order's payment as awaiting the gateway.
func (o *Order) RequestRefund() error {
	if o.status != Refunded && o.status != Cancelled {
		return errs.NewBusinessRuleErrorWithCause("refund requires a refunded or cancelled order",
			fmt.Errorf("order is %s", o.status))
	}
	if o.paymentStatus != PaymentCompleted {
		return errs.NewBusinessRuleErrorWithCause("nothing to refund",
			fmt.Errorf("payment is %s", o.paymentStatus))
	}
	o.paymentStatus = PaymentRefundPending
	return nil
}

func (o *Order) apply(next Status, at time.Time) {
	o.status = next
	o.version++
	if slot := o.timestampSlot(next); slot != nil && *slot == nil {
		stamped := at
		*slot = &stamped
	}
}

func (o *Order) timestampSlot(s Status) **time.Time {
	//nolint:exhaustive // only these statuses carry a timestamp
	switch s {
	case Accepted:
		return &o.timestamps.AcceptedAt
	case Preparing:
		return &o.timestamps.PreparingAt
	case ReadyForPickup:
		return &o.timestamps.ReadyAt
	case OutForDelivery:
		return &o.timestamps.PickedUpAt
	case Delivered:
		return &o.timestamps.DeliveredAt
	case Cancelled:
		return &o.timestamps.CancelledAt
	default:
		return nil
	}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}
