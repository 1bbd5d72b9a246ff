package order

import (
	"fmt"

	"marketplace/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// Legal transitions:
//
//	Pending ──> Accepted ──> Preparing ──> ReadyForPickup ──> OutForDelivery ──> Delivered ──> Refunded
//	   │           │
//	   └───────────┴──> Cancelled
//
// Cancelled and Refunded are terminal. The table answers yes/no only; it holds no state
// and performs no I/O.
type Status int

const (
	// Unknown (0) catches uninitialised values.
	Unknown Status = iota
	Pending
	Accepted
	Preparing
	ReadyForPickup
	OutForDelivery
	Delivered
	Cancelled
	Refunded
)

// getStatusStrings returns the wire/persistence name of every status.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:        "UNKNOWN",
		Pending:        "PENDING",
		Accepted:       "ACCEPTED",
		Preparing:      "PREPARING",
		ReadyForPickup: "READY_FOR_PICKUP",
		OutForDelivery: "OUT_FOR_DELIVERY",
		Delivered:      "DELIVERED",
		Cancelled:      "CANCELLED",
		Refunded:       "REFUNDED",
	}
}

// getTransitions returns the directed edges of the state machine. Statuses missing from
// the map, or mapped to an empty slice, have no outgoing edge.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:        {Accepted, Cancelled},
		Accepted:       {Preparing, Cancelled},
		Preparing:      {ReadyForPickup},
		ReadyForPickup: {OutForDelivery},
		OutForDelivery: {Delivered},
		Delivered:      {Refunded},
	}
}

// AllStatuses lists every valid status in lifecycle order.
func AllStatuses() []Status {
	return []Status{Pending, Accepted, Preparing, ReadyForPickup, OutForDelivery, Delivered, Cancelled, Refunded}
}

// ParseStatus converts a persisted or client-supplied name back into a Status.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and out-of-range values.
func (s Status) Validate() error {
	if s <= Unknown || s > Refunded {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// MarshalText lets statuses travel as their names in JSON events and API payloads.
func (s Status) MarshalText() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// CanTransitionTo reports whether next is a legal successor of s. Self-loops and edges
// into Pending are never legal.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ValidateTransition is CanTransitionTo with a diagnostic error naming both ends.
func (s Status) ValidateTransition(next Status) error {
	if !s.CanTransitionTo(next) {
		return errs.NewInvalidTransitionError(s, next)
	}
	return nil
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s.Validate() == nil && len(getTransitions()[s]) == 0
}

// IsCancellable is the cancellation window: once the restaurant starts preparing,
// cancellation must go through the refund path instead.
func (s Status) IsCancellable() bool {
	return s == Pending || s == Accepted
}

// ValidateCancel applies the cancellation window on top of the transition table.
func (s Status) ValidateCancel() error {
	if !s.IsCancellable() {
		return errs.NewBusinessRuleErrorWithCause(
			"order can no longer be cancelled",
			fmt.Errorf("cancellation is only allowed while %s or %s, order is %s", Pending, Accepted, s),
		)
	}
	return s.ValidateTransition(Cancelled)
}
