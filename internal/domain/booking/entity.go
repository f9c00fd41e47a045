package booking

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEmptySubjectName = errors.New("subject name is required")
	ErrEmptyReason      = errors.New("reason is required")
	ErrInvalidTimeSlot  = errors.New("start time must be before end time")
	ErrStartInPast      = errors.New("start time cannot be in the past")
	ErrNotReserved      = errors.New("booking is not reserved")
	ErrNotCheckedIn     = errors.New("booking is not checked in")
	ErrAlreadyFinal     = errors.New("booking is already completed")
)

type Booking struct {
	id           uuid.UUID
	subjectName  string
	reason       string
	slot         TimeSlot
	status       Status
	createdAt    time.Time
	checkInTime  *time.Time
	checkOutTime *time.Time
}

// NewBooking admits a reservation: required fields present, slot ordered,
// start not behind now. Overlap against other bookings is the store's concern.
func NewBooking(subjectName, reason string, start, end, now time.Time) (*Booking, error) {
	subjectName = strings.TrimSpace(subjectName)
	if subjectName == "" {
		return nil, ErrEmptySubjectName
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrEmptyReason
	}

	slot, err := NewTimeSlot(start, end)
	if err != nil {
		return nil, err
	}

	if start.Before(now) {
		return nil, ErrStartInPast
	}

	return &Booking{
		id:          uuid.New(),
		subjectName: subjectName,
		reason:      reason,
		slot:        slot,
		status:      StatusReserved,
		createdAt:   now,
	}, nil
}

// Reconstruct rebuilds a persisted booking without re-running admission checks.
func Reconstruct(
	id uuid.UUID,
	subjectName, reason string,
	start, end time.Time,
	status Status,
	createdAt time.Time,
	checkInTime, checkOutTime *time.Time,
) *Booking {
	return &Booking{
		id:           id,
		subjectName:  subjectName,
		reason:       reason,
		slot:         TimeSlot{start: start, end: end},
		status:       status,
		createdAt:    createdAt,
		checkInTime:  checkInTime,
		checkOutTime: checkOutTime,
	}
}

// CheckIn moves Reserved -> CheckedIn and records the check-in time once.
func (b *Booking) CheckIn(now time.Time) error {
	if b.status != StatusReserved {
		return ErrNotReserved
	}
	b.status = StatusCheckedIn
	b.checkInTime = &now
	return nil
}

// CheckOut moves CheckedIn -> CheckedOut and records the check-out time once.
// Check-out from any other status is rejected.
func (b *Booking) CheckOut(now time.Time) error {
	if b.status != StatusCheckedIn {
		return ErrNotCheckedIn
	}
	b.status = StatusCheckedOut
	b.checkOutTime = &now
	return nil
}

// Cancel moves any non-terminal status to Cancelled. Cancelling an already
// cancelled booking is a no-op; a checked-out booking cannot be cancelled.
func (b *Booking) Cancel() error {
	if b.status == StatusCancelled {
		return nil
	}
	if b.status.IsTerminal() {
		return ErrAlreadyFinal
	}
	b.status = StatusCancelled
	return nil
}

// IsCurrent reports whether the booking occupies the room at instant now.
func (b *Booking) IsCurrent(now time.Time) bool {
	return b.status.Blocks() && b.slot.Contains(now)
}

func (b *Booking) ID() uuid.UUID            { return b.id }
func (b *Booking) SubjectName() string      { return b.subjectName }
func (b *Booking) Reason() string           { return b.reason }
func (b *Booking) Slot() TimeSlot           { return b.slot }
func (b *Booking) StartTime() time.Time     { return b.slot.start }
func (b *Booking) EndTime() time.Time       { return b.slot.end }
func (b *Booking) Status() Status           { return b.status }
func (b *Booking) CreatedAt() time.Time     { return b.createdAt }
func (b *Booking) CheckInTime() *time.Time  { return b.checkInTime }
func (b *Booking) CheckOutTime() *time.Time { return b.checkOutTime }
