package api

import (
	"io"

	"github.com/TimotejZavski/room-booking-system/internal/notify"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"
)

// EventsHandler serves the persistent push channel. Each connection gets
// its own hub subscription; events flow server-to-client only.
type EventsHandler struct {
	hub      *notify.Hub
	notifier *notify.Notifier
}

func NewEventsHandler(hub *notify.Hub, notifier *notify.Notifier) *EventsHandler {
	return &EventsHandler{
		hub:      hub,
		notifier: notifier,
	}
}

// @Summary Booking event stream
// @Description Server-sent events: bookingStateRefreshed, bookingStarted, bookingRequiresAction, upcomingBookingAlert
// @Tags events
// @Produce text/event-stream
// @Success 200
// @Router /events [get]
func (h *EventsHandler) Stream(c *gin.Context) {
	id, events := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	// Seed the new viewer so it does not wait a full poll cycle for state.
	if initial, err := h.notifier.RefreshEvent(c.Request.Context()); err == nil {
		if writeErr := sse.Encode(c.Writer, initial); writeErr != nil {
			return
		}
		c.Writer.Flush()
	}

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case event, ok := <-events:
			if !ok {
				return false
			}
			if err := sse.Encode(w, event); err != nil {
				return false
			}
			return true
		}
	})
}
