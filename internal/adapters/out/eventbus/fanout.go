package eventbus

import (
	"context"
	"errors"
	"log/slog"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// Fanout hands each event to every sink. All sinks are attempted; their errors are joined.
type Fanout struct {
	sinks []ports.EventPublisher
}

var _ ports.EventPublisher = (*Fanout)(nil)

func NewFanout(sinks ...ports.EventPublisher) *Fanout {
	return &Fanout{sinks: sinks}
}

func (f *Fanout) Publish(ctx context.Context, userID kernel.UUID, eventType string, payload any) error {
	var errs []error
	for _, sink := range f.sinks {
		if err := sink.Publish(ctx, userID, eventType, payload); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// LogPublisher writes events to the log. It stands in for the broker in local runs.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger.With("component", "event_log")}
}

func (p *LogPublisher) Publish(ctx context.Context, userID kernel.UUID, eventType string, payload any) error {
	p.logger.InfoContext(ctx, "event published",
		slog.String("event_type", eventType),
		slog.String("user_id", userID.String()),
		slog.Any("payload", payload))
	return nil
}
