package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/order"

	"github.com/Shopify/sarama"
)

// AuditRecord is one committed aggregate state as written to the audit topic.
type AuditRecord struct {
	Aggregate   string         `json:"aggregate"`
	ID          string         `json:"id"`
	State       map[string]any `json:"state"`
	CommittedAt int64          `json:"committed_at"`
}

// AuditStream appends every committed aggregate to a Kafka topic, keyed by aggregate id
// so all states of one order land on the same partition in commit order.
type AuditStream struct {
	producer sarama.SyncProducer
	topic    string
	logger   *slog.Logger
	now      func() time.Time
}

var _ postgres.CommitObserver = (*AuditStream)(nil)

func NewAuditStream(producer sarama.SyncProducer, topic string, logger *slog.Logger) *AuditStream {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditStream{
		producer: producer,
		topic:    topic,
		logger:   logger.With("component", "kafka_audit"),
		now:      time.Now,
	}
}

// NewSyncProducer dials the brokers with acks from all in-sync replicas.
func NewSyncProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return producer, nil
}

// AggregatesCommitted sends one message per aggregate. The database commit already
// happened, so failures are logged and never surface to the caller.
func (s *AuditStream) AggregatesCommitted(ctx context.Context, aggregates []postgres.TrackedAggregate) {
	messages := make([]*sarama.ProducerMessage, 0, len(aggregates))
	for _, tracked := range aggregates {
		record, ok := s.record(tracked)
		if !ok {
			continue
		}
		data, err := json.Marshal(record)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to encode audit record", "aggregate", record.Aggregate, "error", err)
			continue
		}
		messages = append(messages, &sarama.ProducerMessage{
			Topic: s.topic,
			Key:   sarama.StringEncoder(record.ID),
			Value: sarama.ByteEncoder(data),
		})
	}
	if len(messages) == 0 {
		return
	}

	if err := s.producer.SendMessages(messages); err != nil {
		s.logger.ErrorContext(ctx, "failed to write audit records", "count", len(messages), "error", err)
	}
}

func (s *AuditStream) Close() error {
	return s.producer.Close()
}

func (s *AuditStream) record(tracked postgres.TrackedAggregate) (AuditRecord, bool) {
	record := AuditRecord{ID: tracked.ID.String(), CommittedAt: s.now().UTC().UnixMilli()}

	switch a := tracked.Aggregate.(type) {
	case *order.Order:
		record.Aggregate = "order"
		record.State = map[string]any{
			"order_number":   a.Number(),
			"customer_id":    a.CustomerID().String(),
			"status":         a.Status().String(),
			"payment_status": string(a.PaymentStatus()),
			"version":        a.Version(),
		}
	case *delivery.Delivery:
		record.Aggregate = "delivery"
		state := map[string]any{"order_id": a.OrderID().String()}
		if id := a.DriverID(); id != nil {
			state["driver_id"] = id.String()
		}
		if at := a.PickedUpAt(); at != nil {
			state["picked_up_at"] = at.UTC().Format(time.RFC3339)
		}
		if at := a.DeliveredAt(); at != nil {
			state["delivered_at"] = at.UTC().Format(time.RFC3339)
		}
		record.State = state
	case *driver.Driver:
		record.Aggregate = "driver"
		record.State = map[string]any{
			"status":       a.Status().String(),
			"is_available": a.IsAvailable(),
		}
	default:
		return AuditRecord{}, false
	}
	return record, true
}
