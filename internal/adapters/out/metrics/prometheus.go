package metrics

import (
	"net/http"
	"strconv"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "marketplace"

// Lifecycle records order lifecycle and driver assignment counters on its own registry.
type Lifecycle struct {
	registry *prometheus.Registry

	ordersCreated     prometheus.Counter
	ordersRejected    *prometheus.CounterVec
	transitions       *prometheus.CounterVec
	versionConflicts  prometheus.Counter
	assignments       *prometheus.CounterVec
	assignmentClaims  prometheus.Histogram
	paymentSettlement *prometheus.CounterVec
}

var _ commands.LifecycleMetrics = (*Lifecycle)(nil)

func NewLifecycle() *Lifecycle {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &Lifecycle{
		registry: registry,
		ordersCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_created_total",
			Help:      "The total number of placed orders",
		}),
		ordersRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_rejected_total",
			Help:      "Order placements refused, by reason",
		}, []string{"reason"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Committed order status transitions",
		}, []string{"from", "to"}),
		versionConflicts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_version_conflicts_total",
			Help:      "Status writes that lost the compare-and-swap",
		}),
		assignments: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "driver_assignments_total",
			Help:      "Driver assignment runs, by outcome",
		}, []string{"outcome"}),
		assignmentClaims: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "driver_assignment_claim_attempts",
			Help:      "Claims tried per assignment run",
			Buckets:   prometheus.LinearBuckets(1, 2, 10),
		}),
		paymentSettlement: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_settlements_total",
			Help:      "Settlement attempts on delivery, by result",
		}, []string{"succeeded"}),
	}
}

func (m *Lifecycle) OrderCreated() {
	m.ordersCreated.Inc()
}

func (m *Lifecycle) OrderRejected(reason string) {
	m.ordersRejected.WithLabelValues(reason).Inc()
}

func (m *Lifecycle) TransitionApplied(from, to order.Status) {
	m.transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (m *Lifecycle) VersionConflict() {
	m.versionConflicts.Inc()
}

func (m *Lifecycle) AssignmentFinished(outcome services.AssignmentOutcome) {
	label := "no_candidate"
	if outcome.Assigned {
		label = "assigned"
	}
	m.assignments.WithLabelValues(label).Inc()
	m.assignmentClaims.Observe(float64(outcome.Attempts))
}

func (m *Lifecycle) PaymentSettled(succeeded bool) {
	m.paymentSettlement.WithLabelValues(strconv.FormatBool(succeeded)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Lifecycle) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
