package commands

import (
	"context"
	"log/slog"

	"marketplace/internal/core/ports"
)

// ChangeDriverStatusCommandHandler writes driver-initiated status changes. The repository
// refuses to overwrite BUSY, so a claim racing with this command always wins.
type ChangeDriverStatusCommandHandler struct {
	uowFactory DriverUoWFactory
	index      ports.DriverLocationIndex
	publisher  ports.EventPublisher
	logger     *slog.Logger
}

func NewChangeDriverStatusCommandHandler(
	uowFactory DriverUoWFactory,
	index ports.DriverLocationIndex,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) ChangeDriverStatusCommandHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return ChangeDriverStatusCommandHandler{
		uowFactory: uowFactory,
		index:      index,
		publisher:  publisher,
		logger:     logger,
	}
}

func (h *ChangeDriverStatusCommandHandler) Handle(ctx context.Context, cmd ChangeDriverStatusCommand) error {
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

	from := d.Status()
	if err = d.ChangeStatus(cmd.Status()); err != nil {
		return err
	}

	if err = driverRepo.UpdateStatus(ctx, d); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "driver status changed",
		slog.String("driver_id", d.ID().String()),
		slog.String("from", string(from)),
		slog.String("to", string(d.Status())))

	syncLocationIndex(ctx, h.index, h.logger, d)
	publishAll(ctx, h.publisher, h.logger, []pendingEvent{{
		userID:    d.UserID(),
		eventType: EventDriverAvailabilityChange,
		payload:   newDriverEvent(d),
	}})
	return nil
}
