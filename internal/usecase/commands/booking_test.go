package commands_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/TimotejZavski/room-booking-system/internal/domain/booking"
	"github.com/TimotejZavski/room-booking-system/internal/infra"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/clock"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/errs"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBookingStore is an in-memory stand-in for the repository, enforcing
// the same not-found and overlap semantics.
type fakeBookingStore struct {
	mu       sync.Mutex
	bookings map[uuid.UUID]*booking.Booking
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{bookings: make(map[uuid.UUID]*booking.Booking)}
}

func (s *fakeBookingStore) Insert(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings[b.ID()] = b
	return nil
}

func (s *fakeBookingStore) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return b, nil
}

func (s *fakeBookingStore) Update(_ context.Context, b *booking.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bookings[b.ID()]; !ok {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	s.bookings[b.ID()] = b
	return nil
}

func (s *fakeBookingStore) HasOverlap(_ context.Context, start, end time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, err := booking.NewTimeSlot(start, end)
	if err != nil {
		return false, err
	}
	for _, b := range s.bookings {
		if b.Status().Blocks() && b.Slot().Overlaps(slot) {
			return true, nil
		}
	}
	return false, nil
}

// recorderNotifier counts refresh pushes instead of fanning out.
type recorderNotifier struct {
	mu        sync.Mutex
	refreshes int
}

func (r *recorderNotifier) PublishRefresh(_ context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refreshes++
}

func (r *recorderNotifier) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshes
}

func newCommandsUnderTest(t *testing.T, now time.Time) (commands.BookingCommands, *fakeBookingStore, *recorderNotifier, *clock.MockClock) {
	t.Helper()
	store := newFakeBookingStore()
	notifier := &recorderNotifier{}
	clk := clock.NewMockClock(now)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return commands.NewBookingCommands(store, notifier, clk, logger), store, notifier, clk
}

var testNow = time.Date(2025, 4, 1, 9, 0, 0, 0, time.Local)

func at(hour, minute int) time.Time {
	return time.Date(2025, 4, 1, hour, minute, 0, 0, time.Local)
}

func TestCreate(t *testing.T) {
	t.Run("success creates reserved booking and pushes refresh", func(t *testing.T) {
		cmds, store, notifier, _ := newCommandsUnderTest(t, testNow)

		id, err := cmds.Create(context.Background(), commands.CreateBookingParams{
			SubjectName: "Ana",
			Reason:      "dentist",
			StartTime:   at(10, 0),
			EndTime:     at(10, 30),
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, id)

		created, err := store.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, booking.StatusReserved, created.Status())
		assert.Equal(t, 1, notifier.count())
	})

	t.Run("validation failures", func(t *testing.T) {
		cmds, _, notifier, _ := newCommandsUnderTest(t, testNow)

		tests := []struct {
			name   string
			params commands.CreateBookingParams
		}{
			{
				name: "empty subject name",
				params: commands.CreateBookingParams{
					SubjectName: "", Reason: "dentist",
					StartTime: at(10, 0), EndTime: at(10, 30),
				},
			},
			{
				name: "empty reason",
				params: commands.CreateBookingParams{
					SubjectName: "Ana", Reason: "",
					StartTime: at(10, 0), EndTime: at(10, 30),
				},
			},
			{
				name: "start not before end",
				params: commands.CreateBookingParams{
					SubjectName: "Ana", Reason: "dentist",
					StartTime: at(10, 30), EndTime: at(10, 30),
				},
			},
			{
				name: "start in the past",
				params: commands.CreateBookingParams{
					SubjectName: "Ana", Reason: "dentist",
					StartTime: at(8, 0), EndTime: at(10, 30),
				},
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := cmds.Create(context.Background(), tt.params)
				assert.ErrorIs(t, err, errs.ErrInvalidBooking)
			})
		}

		assert.Equal(t, 0, notifier.count(), "failed creates must not push refreshes")
	})
}

func TestTransitionErrors(t *testing.T) {
	cmds, _, _, _ := newCommandsUnderTest(t, testNow)
	unknown := uuid.New()

	assert.ErrorIs(t, cmds.CheckIn(context.Background(), unknown), errs.ErrBookingNotFound)
	assert.ErrorIs(t, cmds.CheckOut(context.Background(), unknown), errs.ErrBookingNotFound)
	assert.ErrorIs(t, cmds.Cancel(context.Background(), unknown), errs.ErrBookingNotFound)
}

// The admission scenario: Reserved and CheckedIn bookings block the slot,
// cancelling frees it.
func TestBookingLifecycleScenario(t *testing.T) {
	ctx := context.Background()
	cmds, store, notifier, clk := newCommandsUnderTest(t, testNow)

	first, err := cmds.Create(ctx, commands.CreateBookingParams{
		SubjectName: "Ana",
		Reason:      "dentist",
		StartTime:   at(10, 0),
		EndTime:     at(10, 30),
	})
	require.NoError(t, err)

	overlapping := commands.CreateBookingParams{
		SubjectName: "Bor",
		Reason:      "doctor",
		StartTime:   at(10, 15),
		EndTime:     at(10, 45),
	}

	_, err = cmds.Create(ctx, overlapping)
	assert.ErrorIs(t, err, errs.ErrBookingConflict, "reserved booking blocks the slot")

	clk.Set(at(10, 1))
	require.NoError(t, cmds.CheckIn(ctx, first))

	checked, err := store.FindByID(ctx, first)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCheckedIn, checked.Status())
	require.NotNil(t, checked.CheckInTime())
	assert.Equal(t, at(10, 1), *checked.CheckInTime())

	_, err = cmds.Create(ctx, overlapping)
	assert.ErrorIs(t, err, errs.ErrBookingConflict, "checked-in booking still blocks the slot")

	require.NoError(t, cmds.Cancel(ctx, first))

	_, err = cmds.Create(ctx, overlapping)
	assert.NoError(t, err, "cancelled booking frees the slot")

	assert.Equal(t, 4, notifier.count(), "create, check-in, cancel and the second create each push a refresh")
}

func TestCancelTwiceStaysCancelled(t *testing.T) {
	ctx := context.Background()
	cmds, store, _, _ := newCommandsUnderTest(t, testNow)

	id, err := cmds.Create(ctx, commands.CreateBookingParams{
		SubjectName: "Ana",
		Reason:      "dentist",
		StartTime:   at(10, 0),
		EndTime:     at(10, 30),
	})
	require.NoError(t, err)

	require.NoError(t, cmds.Cancel(ctx, id))
	require.NoError(t, cmds.Cancel(ctx, id))

	b, err := store.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, b.Status())
}

func TestCheckOutRequiresCheckIn(t *testing.T) {
	ctx := context.Background()
	cmds, _, _, _ := newCommandsUnderTest(t, testNow)

	id, err := cmds.Create(ctx, commands.CreateBookingParams{
		SubjectName: "Ana",
		Reason:      "dentist",
		StartTime:   at(10, 0),
		EndTime:     at(10, 30),
	})
	require.NoError(t, err)

	assert.ErrorIs(t, cmds.CheckOut(ctx, id), errs.ErrInvalidTransition)
}
