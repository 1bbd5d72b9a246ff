package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/ports"
)

// UpdateDriverLocationCommandHandler stores a position report and mirrors it into the geo
// index after commit.
type UpdateDriverLocationCommandHandler struct {
	uowFactory DriverUoWFactory
	index      ports.DriverLocationIndex
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewUpdateDriverLocationCommandHandler(
	uowFactory DriverUoWFactory,
	index ports.DriverLocationIndex,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) UpdateDriverLocationCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return UpdateDriverLocationCommandHandler{
		uowFactory: uowFactory,
		index:      index,
		publisher:  publisher,
		logger:     logger,
	}
}

func (h *UpdateDriverLocationCommandHandler) Handle(ctx context.Context, cmd UpdateDriverLocationCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	driverRepo := uow.DriverRepository()
	d, err := driverRepo.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	if err = d.UpdateLocation(cmd.Location()); err != nil {
		return err
	}

	if err = driverRepo.UpdateLocation(ctx, d); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	syncLocationIndex(ctx, h.index, h.logger, d)
	publishAll(ctx, h.publisher, h.logger, []pendingEvent{{
		userID:    d.UserID(),
		eventType: EventDriverLocationUpdated,
		payload:   newDriverEvent(d),
	}})
	return nil
}
