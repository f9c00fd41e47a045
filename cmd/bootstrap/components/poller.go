package components

import (
	"context"
	"log/slog"

	"github.com/TimotejZavski/room-booking-system/internal/notify"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/clock"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/config"
	"github.com/TimotejZavski/room-booking-system/internal/poller"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/queries"

	"go.uber.org/fx"
)

var PollerModule = fx.Module("poller",
	fx.Provide(
		func(
			q queries.BookingQueries,
			n *notify.Notifier,
			c clock.Clock,
			cfg config.Config,
			logger *slog.Logger,
		) *poller.Poller {
			return poller.New(q, n, c, cfg.Poller, logger)
		},
	),
	fx.Invoke(startPoller),
)

// startPoller ties the poll loop to the application lifecycle: one
// goroutine for the whole process, stopped by cancelling its context.
func startPoller(lc fx.Lifecycle, p *poller.Poller) {
	loopCtx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				p.Run(loopCtx)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
}
