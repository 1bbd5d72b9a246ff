package commands

import (
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
)

// LifecycleMetrics receives counters from the handlers.
type LifecycleMetrics interface {
	OrderCreated()
	OrderRejected(reason string)
	TransitionApplied(from, to order.Status)
	VersionConflict()
	AssignmentFinished(outcome services.AssignmentOutcome)
	PaymentSettled(succeeded bool)
}

// NopMetrics discards everything.
type NopMetrics struct{}

func (NopMetrics) OrderCreated()                                 {}
func (NopMetrics) OrderRejected(string)                          {}
func (NopMetrics) TransitionApplied(order.Status, order.Status)  {}
func (NopMetrics) VersionConflict()                              {}
func (NopMetrics) AssignmentFinished(services.AssignmentOutcome) {}
func (NopMetrics) PaymentSettled(bool)                           {}
