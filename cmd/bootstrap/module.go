package bootstrap

import (
	"github.com/TimotejZavski/room-booking-system/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	components.RepositoryModule,
	components.UseCaseModule,
	components.PollerModule,
	components.HandlerModule,
)
