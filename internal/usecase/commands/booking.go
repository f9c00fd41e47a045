package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/TimotejZavski/room-booking-system/internal/domain/booking"
	"github.com/TimotejZavski/room-booking-system/internal/infra"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/clock"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/errs"

	"github.com/google/uuid"
)

type CreateBookingParams struct {
	SubjectName string
	Reason      string
	StartTime   time.Time
	EndTime     time.Time
}

type BookingRepository interface {
	Insert(ctx context.Context, b *booking.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	Update(ctx context.Context, b *booking.Booking) error
	HasOverlap(ctx context.Context, start, end time.Time) (bool, error)
}

// StateNotifier pushes the fresh global snapshot to every connected client.
type StateNotifier interface {
	PublishRefresh(ctx context.Context)
}

type BookingCommands interface {
	Create(ctx context.Context, params CreateBookingParams) (uuid.UUID, error)
	CheckIn(ctx context.Context, id uuid.UUID) error
	CheckOut(ctx context.Context, id uuid.UUID) error
	Cancel(ctx context.Context, id uuid.UUID) error
}

type bookingCommandsImpl struct {
	repo     BookingRepository
	notifier StateNotifier
	clock    clock.Clock
	logger   *slog.Logger
}

func NewBookingCommands(
	repo BookingRepository,
	notifier StateNotifier,
	clock clock.Clock,
	logger *slog.Logger,
) BookingCommands {
	return &bookingCommandsImpl{
		repo:     repo,
		notifier: notifier,
		clock:    clock,
		logger:   logger,
	}
}

func (c *bookingCommandsImpl) Create(ctx context.Context, params CreateBookingParams) (uuid.UUID, error) {
	b, err := booking.NewBooking(
		params.SubjectName,
		params.Reason,
		params.StartTime,
		params.EndTime,
		c.clock.Now(),
	)
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrInvalidBooking)
	}

	// Pre-check for a readable conflict error; the schema's exclusion
	// constraint decides the winner when two creates race past this point.
	overlapping, err := c.repo.HasOverlap(ctx, b.StartTime(), b.EndTime())
	if err != nil {
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if overlapping {
		return uuid.Nil, errs.ErrBookingConflict
	}

	if err := c.repo.Insert(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return uuid.Nil, errs.Mark(err, errs.ErrBookingConflict)
		}
		return uuid.Nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.logger.Info("booking created",
		"booking_id", b.ID(),
		"start", b.StartTime(),
		"end", b.EndTime(),
	)

	c.notifier.PublishRefresh(ctx)
	return b.ID(), nil
}

func (c *bookingCommandsImpl) CheckIn(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, "check in", func(b *booking.Booking) error {
		return b.CheckIn(c.clock.Now())
	})
}

func (c *bookingCommandsImpl) CheckOut(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, "check out", func(b *booking.Booking) error {
		return b.CheckOut(c.clock.Now())
	})
}

func (c *bookingCommandsImpl) Cancel(ctx context.Context, id uuid.UUID) error {
	return c.transition(ctx, id, "cancel", func(b *booking.Booking) error {
		return b.Cancel()
	})
}

func (c *bookingCommandsImpl) transition(
	ctx context.Context,
	id uuid.UUID,
	name string,
	apply func(*booking.Booking) error,
) error {
	b, err := c.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrBookingNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if err := apply(b); err != nil {
		return errs.Mark(err, errs.ErrInvalidTransition)
	}

	if err := c.repo.Update(ctx, b); err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return errs.Mark(err, errs.ErrBookingNotFound)
		}
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	c.logger.Info("booking "+name, "booking_id", id, "status", b.Status().String())

	c.notifier.PublishRefresh(ctx)
	return nil
}
