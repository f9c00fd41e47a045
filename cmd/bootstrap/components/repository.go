package components

import (
	"github.com/TimotejZavski/room-booking-system/internal/infra/repository"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/commands"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewBookingRepository,
			fx.As(new(commands.BookingRepository)),
			fx.As(new(queries.BookingReadStore)),
		),
	),
)
