package notify

import (
	"context"
	"log/slog"

	"github.com/TimotejZavski/room-booking-system/internal/usecase/queries"

	"github.com/gin-contrib/sse"
)

// Notifier builds wire payloads from the read side and fans them out
// through the hub. Read failures are logged and the push is skipped; the
// next refresh or poll tick carries the state instead.
type Notifier struct {
	hub     *Hub
	queries queries.BookingQueries
	logger  *slog.Logger
}

func NewNotifier(hub *Hub, queries queries.BookingQueries, logger *slog.Logger) *Notifier {
	return &Notifier{
		hub:     hub,
		queries: queries,
		logger:  logger,
	}
}

// PublishRefresh pushes the full-state snapshot to all clients.
func (n *Notifier) PublishRefresh(ctx context.Context) {
	event, err := n.RefreshEvent(ctx)
	if err != nil {
		n.logger.Error("failed to build refresh snapshot", "error", err)
		return
	}
	n.hub.Publish(event)
}

// RefreshEvent builds the EventStateRefreshed event from current state.
// The SSE handler also uses it to seed a newly connected client.
func (n *Notifier) RefreshEvent(ctx context.Context) (sse.Event, error) {
	snapshot, err := n.queries.Refresh(ctx)
	if err != nil {
		return sse.Event{}, err
	}
	return sse.Event{
		Event: EventStateRefreshed,
		Data:  NewRefreshPayload(snapshot),
	}, nil
}

// PublishUpcoming runs one upcoming-booking evaluation and pushes the
// resulting point events. Equivalent to the evaluation step of a poll tick.
func (n *Notifier) PublishUpcoming(ctx context.Context) {
	check, err := n.queries.CheckUpcoming(ctx)
	if err != nil {
		n.logger.Error("failed to evaluate upcoming bookings", "error", err)
		return
	}

	for _, started := range check.Started {
		n.hub.Publish(sse.Event{Event: EventStarted, Data: *itemOf(started)})
	}

	if check.RequiresAction != nil {
		n.hub.Publish(sse.Event{Event: EventRequiresAction, Data: *itemOf(check.RequiresAction)})
	}

	if check.Alert != nil {
		n.hub.Publish(sse.Event{
			Event: EventUpcomingAlert,
			Data: AlertPayload{
				BookingItem:   *itemOf(check.Alert),
				TimeRemaining: check.AlertSecondsLeft,
			},
		})
	}
}
