// Package poller runs the background loop that watches the booking calendar
// and keeps connected clients notified. The loop adapts its interval: it
// polls lazily while nothing is near, and tightens to the critical interval
// as the next booking's start approaches.
package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/TimotejZavski/room-booking-system/internal/notify"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/clock"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/config"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/queries"
)

const (
	criticalWindow      = time.Minute
	nearWindow          = 2 * time.Minute
	interpolationWindow = 10 * time.Minute
	nearInterval        = 5 * time.Second
)

type Poller struct {
	queries  queries.BookingQueries
	notifier *notify.Notifier
	clock    clock.Clock
	cfg      config.PollerConfig
	logger   *slog.Logger

	// nextStart caches the next Reserved booking's start time between
	// cycles. Owned exclusively by the loop goroutine; request handlers
	// query the store directly instead of reading this.
	nextStart *time.Time
}

func New(
	queries queries.BookingQueries,
	notifier *notify.Notifier,
	clock clock.Clock,
	cfg config.PollerConfig,
	logger *slog.Logger,
) *Poller {
	return &Poller{
		queries:  queries,
		notifier: notifier,
		clock:    clock,
		cfg:      cfg,
		logger:   logger,
	}
}

// Run executes the poll loop until ctx is cancelled. Errors inside a cycle
// are logged and swallowed; only cancellation stops the loop.
func (p *Poller) Run(ctx context.Context) {
	p.logger.Info("booking poller starting")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("booking poller stopping")
			return
		case <-timer.C:
		}

		p.Tick(ctx)

		delay := p.NextDelay(p.clock.Now())
		p.logger.Debug("next booking check scheduled", "delay", delay)
		timer.Reset(delay)
	}
}

// Tick runs one poll cycle: refresh the cached next start, push the point
// events due right now, then push the full-state snapshot so every viewer
// stays consistent even without transitions.
func (p *Poller) Tick(ctx context.Context) {
	next, err := p.queries.NextUpcomingStart(ctx)
	if err != nil {
		p.logger.Error("failed to refresh next booking start", "error", err)
	} else {
		p.nextStart = next
	}

	p.notifier.PublishUpcoming(ctx)
	p.notifier.PublishRefresh(ctx)
}

// NextDelay computes the sleep before the next cycle from the cached next
// booking start. Far away (or no booking) polls at the base interval; the
// 2-10 minute window interpolates from five seconds up to the base interval
// so the curve stays monotonic for any configured base, and the final minute
// polls at the critical interval.
func (p *Poller) NextDelay(now time.Time) time.Duration {
	if p.nextStart == nil {
		return p.cfg.BaseInterval
	}

	delta := p.nextStart.Sub(now)
	switch {
	case delta <= criticalWindow:
		return p.cfg.CriticalInterval
	case delta <= nearWindow:
		return nearInterval
	case delta <= interpolationWindow:
		ceiling := p.cfg.BaseInterval
		if ceiling <= nearInterval {
			return ceiling
		}
		minutes := delta.Minutes()
		seconds := nearInterval.Seconds() +
			(minutes-nearWindow.Minutes())*
				(ceiling.Seconds()-nearInterval.Seconds())/
				(interpolationWindow.Minutes()-nearWindow.Minutes())
		return time.Duration(seconds * float64(time.Second))
	default:
		return p.cfg.BaseInterval
	}
}
