package queries

import (
	"context"
	"time"

	"github.com/TimotejZavski/room-booking-system/internal/domain/booking"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/clock"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/errs"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/timeutil"

	"github.com/google/uuid"
)

const (
	// Window sizes for the upcoming-booking evaluation. A booking counts as
	// "just started" for one minute after its start; a start within
	// startedSlack of now is already announced as started.
	justStartedLookback = time.Minute
	startedSlack        = 10 * time.Second
	alertLookahead      = 5 * time.Minute

	suggestedSlotLead     = 5 * time.Minute
	suggestedSlotDuration = time.Hour
	suggestedSlotRounding = 15 * time.Minute
)

type BookingView struct {
	ID           uuid.UUID
	SubjectName  string
	Reason       string
	StartTime    time.Time
	EndTime      time.Time
	Status       booking.Status
	CreatedAt    time.Time
	CheckInTime  *time.Time
	CheckOutTime *time.Time
}

// RefreshSnapshot is the full-state view pushed to every connected client.
type RefreshSnapshot struct {
	Current  *BookingView
	Today    []*BookingView
	Tomorrow []*BookingView
}

// BoardSnapshot extends the refresh snapshot with the data the booking page
// needs: the remaining future schedule and suggested new-slot defaults.
type BoardSnapshot struct {
	Current        *BookingView
	Today          []*BookingView
	Tomorrow       []*BookingView
	Remaining      []*BookingView
	SuggestedStart time.Time
	SuggestedEnd   time.Time
}

// UpcomingCheck is the outcome of one poll-tick evaluation.
type UpcomingCheck struct {
	// Started lists bookings whose start has just arrived: a current
	// Reserved booking within the look-back window, or an upcoming one
	// within startedSlack of now.
	Started []*BookingView
	// RequiresAction is set on every evaluation while a current booking is
	// still Reserved, so clients keep prompting until someone checks in.
	RequiresAction *BookingView
	// Alert is a Reserved booking starting within the look-ahead window but
	// not yet close enough to count as started.
	Alert *BookingView
	// AlertSecondsLeft is whole seconds until Alert starts.
	AlertSecondsLeft int
}

type BookingReadStore interface {
	FindCurrent(ctx context.Context, now time.Time) (*booking.Booking, error)
	FindNextUpcoming(ctx context.Context, now time.Time) (*booking.Booking, error)
	FindFirstReservedBetween(ctx context.Context, from, to time.Time) (*booking.Booking, error)
	ListByDate(ctx context.Context, day time.Time) ([]*booking.Booking, error)
	ListReservedFrom(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error)
	ListHistory(ctx context.Context) ([]*booking.Booking, error)
}

type BookingQueries interface {
	Current(ctx context.Context) (*BookingView, error)
	Refresh(ctx context.Context) (*RefreshSnapshot, error)
	Board(ctx context.Context) (*BoardSnapshot, error)
	CheckUpcoming(ctx context.Context) (*UpcomingCheck, error)
	NextUpcomingStart(ctx context.Context) (*time.Time, error)
	History(ctx context.Context) ([]*BookingView, error)
}

type bookingQueriesImpl struct {
	store BookingReadStore
	clock clock.Clock
}

func NewBookingQueries(store BookingReadStore, clock clock.Clock) BookingQueries {
	return &bookingQueriesImpl{store: store, clock: clock}
}

func (q *bookingQueriesImpl) Current(ctx context.Context) (*BookingView, error) {
	current, err := q.store.FindCurrent(ctx, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return viewOf(current), nil
}

func (q *bookingQueriesImpl) Refresh(ctx context.Context) (*RefreshSnapshot, error) {
	now := q.clock.Now()

	current, err := q.store.FindCurrent(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	today, err := q.store.ListByDate(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	tomorrow, err := q.store.ListByDate(ctx, now.AddDate(0, 0, 1))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &RefreshSnapshot{
		Current:  viewOf(current),
		Today:    viewsOf(today),
		Tomorrow: viewsOf(tomorrow),
	}, nil
}

func (q *bookingQueriesImpl) Board(ctx context.Context) (*BoardSnapshot, error) {
	snapshot, err := q.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	now := q.clock.Now()
	dayAfterTomorrow := startOfDay(now).AddDate(0, 0, 2)
	remaining, err := q.store.ListReservedFrom(ctx, dayAfterTomorrow)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	return &BoardSnapshot{
		Current:        snapshot.Current,
		Today:          snapshot.Today,
		Tomorrow:       snapshot.Tomorrow,
		Remaining:      viewsOf(remaining),
		SuggestedStart: timeutil.RoundToNearest(now.Add(suggestedSlotLead), suggestedSlotRounding),
		SuggestedEnd:   timeutil.RoundToNearest(now.Add(suggestedSlotLead+suggestedSlotDuration), suggestedSlotRounding),
	}, nil
}

func (q *bookingQueriesImpl) CheckUpcoming(ctx context.Context) (*UpcomingCheck, error) {
	now := q.clock.Now()
	check := &UpcomingCheck{}

	current, err := q.store.FindCurrent(ctx, now)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if current != nil && current.Status() == booking.StatusReserved {
		if !current.StartTime().After(now) && !current.StartTime().Before(now.Add(-justStartedLookback)) {
			check.Started = append(check.Started, viewOf(current))
		}
		check.RequiresAction = viewOf(current)
	}

	soon, err := q.store.FindFirstReservedBetween(ctx, now, now.Add(alertLookahead))
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	if soon != nil {
		remaining := soon.StartTime().Sub(now)
		if remaining <= startedSlack {
			check.Started = append(check.Started, viewOf(soon))
		} else {
			check.Alert = viewOf(soon)
			check.AlertSecondsLeft = int(remaining.Seconds())
		}
	}

	return check, nil
}

func (q *bookingQueriesImpl) NextUpcomingStart(ctx context.Context) (*time.Time, error) {
	next, err := q.store.FindNextUpcoming(ctx, q.clock.Now())
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	if next == nil {
		return nil, nil
	}
	start := next.StartTime()
	return &start, nil
}

func (q *bookingQueriesImpl) History(ctx context.Context) ([]*BookingView, error) {
	all, err := q.store.ListHistory(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return viewsOf(all), nil
}

func viewOf(b *booking.Booking) *BookingView {
	if b == nil {
		return nil
	}
	return &BookingView{
		ID:           b.ID(),
		SubjectName:  b.SubjectName(),
		Reason:       b.Reason(),
		StartTime:    b.StartTime(),
		EndTime:      b.EndTime(),
		Status:       b.Status(),
		CreatedAt:    b.CreatedAt(),
		CheckInTime:  b.CheckInTime(),
		CheckOutTime: b.CheckOutTime(),
	}
}

func viewsOf(bs []*booking.Booking) []*BookingView {
	views := make([]*BookingView, len(bs))
	for i, b := range bs {
		views[i] = viewOf(b)
	}
	return views
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
