package components

import (
	"github.com/TimotejZavski/room-booking-system/internal/handler"
	"github.com/TimotejZavski/room-booking-system/internal/handler/api"
	"github.com/TimotejZavski/room-booking-system/internal/handler/middleware"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/config"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewBookingHandler,
		api.NewEventsHandler,
		func(cfg config.Config) *middleware.AuthMiddleware {
			return middleware.NewAuthMiddleware(cfg.JWT)
		},
	),
	fx.Invoke(handler.NewRouter),
)
