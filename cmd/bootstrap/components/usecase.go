package components

import (
	"github.com/TimotejZavski/room-booking-system/internal/notify"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/clock"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/commands"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	fx.Provide(
		clock.NewRealClock,
		queries.NewBookingQueries,
		commands.NewBookingCommands,
		notify.NewHub,
		notify.NewNotifier,
		func(n *notify.Notifier) commands.StateNotifier { return n },
	),
)
