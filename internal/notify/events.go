package notify

import (
	"github.com/TimotejZavski/room-booking-system/internal/domain/booking"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/queries"

	"github.com/google/uuid"
)

// Event names pushed over the client channel. Clients key their handlers on
// these strings, so they are part of the wire contract.
const (
	EventStateRefreshed = "bookingStateRefreshed"
	EventStarted        = "bookingStarted"
	EventRequiresAction = "bookingRequiresAction"
	EventUpcomingAlert  = "upcomingBookingAlert"
)

const wireTimeLayout = "15:04"

// BookingItem is a single booking as clients see it: times trimmed to wall
// clock, status as its ordinal code.
type BookingItem struct {
	ID          uuid.UUID `json:"id"`
	SubjectName string    `json:"subjectName"`
	Reason      string    `json:"reason"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Status      int       `json:"status"`
}

// RefreshPayload carries the full board state for EventStateRefreshed.
type RefreshPayload struct {
	HasCurrentBooking    bool          `json:"hasCurrentBooking"`
	CurrentBookingStatus int           `json:"currentBookingStatus"`
	CurrentBooking       *BookingItem  `json:"currentBooking"`
	TodayBookings        []BookingItem `json:"todayBookings"`
	TomorrowBookings     []BookingItem `json:"tomorrowBookings"`
}

// AlertPayload carries EventUpcomingAlert: the booking plus whole seconds
// until it starts.
type AlertPayload struct {
	BookingItem
	TimeRemaining int `json:"timeRemaining"`
}

func itemOf(v *queries.BookingView) *BookingItem {
	if v == nil {
		return nil
	}
	return &BookingItem{
		ID:          v.ID,
		SubjectName: v.SubjectName,
		Reason:      v.Reason,
		StartTime:   v.StartTime.Format(wireTimeLayout),
		EndTime:     v.EndTime.Format(wireTimeLayout),
		Status:      int(v.Status),
	}
}

func itemsOf(views []*queries.BookingView) []BookingItem {
	items := make([]BookingItem, len(views))
	for i, v := range views {
		items[i] = *itemOf(v)
	}
	return items
}

// NewRefreshPayload flattens a snapshot into the wire shape. A missing
// current booking is encoded as status code -1 and a null booking.
func NewRefreshPayload(snapshot *queries.RefreshSnapshot) RefreshPayload {
	payload := RefreshPayload{
		HasCurrentBooking:    snapshot.Current != nil,
		CurrentBookingStatus: int(booking.StatusNone),
		CurrentBooking:       itemOf(snapshot.Current),
		TodayBookings:        itemsOf(snapshot.Today),
		TomorrowBookings:     itemsOf(snapshot.Tomorrow),
	}
	if snapshot.Current != nil {
		payload.CurrentBookingStatus = int(snapshot.Current.Status)
	}
	return payload
}
