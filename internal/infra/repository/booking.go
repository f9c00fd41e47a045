package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/TimotejZavski/room-booking-system/internal/domain/booking"
	"github.com/TimotejZavski/room-booking-system/internal/infra"
	"github.com/TimotejZavski/room-booking-system/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres error codes the repository turns into conflicts.
const (
	codeExclusionViolation = "23P01"
	codeUniqueViolation    = "23505"
)

const bookingColumns = `id, subject_name, reason, start_time, end_time, status, created_at, check_in_time, check_out_time`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

func (r *BookingRepository) Insert(ctx context.Context, b *booking.Booking) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO bookings (id, subject_name, reason, start_time, end_time, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		b.ID(), b.SubjectName(), b.Reason(), b.StartTime(), b.EndTime(), int16(b.Status()), b.CreatedAt(),
	)
	if err != nil {
		if isConflict(err) {
			return infra.WrapRepoErr("booking slot already taken", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to insert booking", err)
	}
	return nil
}

func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE id = $1`,
		id,
	)

	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by id", err)
	}
	return b, nil
}

// Update persists the mutable transition fields. All other columns are
// immutable after insert.
func (r *BookingRepository) Update(ctx context.Context, b *booking.Booking) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE bookings
		SET status = $2, check_in_time = $3, check_out_time = $4
		WHERE id = $1`,
		b.ID(), int16(b.Status()), b.CheckInTime(), b.CheckOutTime(),
	)
	if err != nil {
		if isConflict(err) {
			return infra.WrapRepoErr("booking slot already taken", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to update booking", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}
	return nil
}

// HasOverlap reports whether any blocking booking overlaps [start, end).
// The schema's exclusion constraint is the authoritative check; this one
// exists so a plain create gets a conflict error before touching the insert.
func (r *BookingRepository) HasOverlap(ctx context.Context, start, end time.Time) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE status IN ($1, $2)
			  AND start_time < $4
			  AND $3 < end_time
		)`,
		int16(booking.StatusReserved), int16(booking.StatusCheckedIn), start, end,
	).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check booking overlap", err)
	}
	return exists, nil
}

// FindCurrent returns the booking occupying the room at instant now, or nil.
// Earliest start wins if the overlap invariant is ever violated.
func (r *BookingRepository) FindCurrent(ctx context.Context, now time.Time) (*booking.Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE start_time <= $1
		  AND end_time > $1
		  AND status IN ($2, $3)
		ORDER BY start_time
		LIMIT 1`,
		now, int16(booking.StatusReserved), int16(booking.StatusCheckedIn),
	)
	return r.scanOptional(row, "failed to find current booking")
}

// FindNextUpcoming returns the earliest Reserved booking starting after now,
// or nil when the calendar ahead is empty.
func (r *BookingRepository) FindNextUpcoming(ctx context.Context, now time.Time) (*booking.Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE start_time > $1
		  AND status = $2
		ORDER BY start_time
		LIMIT 1`,
		now, int16(booking.StatusReserved),
	)
	return r.scanOptional(row, "failed to find next upcoming booking")
}

// FindFirstReservedBetween returns the earliest Reserved booking with
// from < start_time <= to, or nil.
func (r *BookingRepository) FindFirstReservedBetween(ctx context.Context, from, to time.Time) (*booking.Booking, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE start_time > $1
		  AND start_time <= $2
		  AND status = $3
		ORDER BY start_time
		LIMIT 1`,
		from, to, int16(booking.StatusReserved),
	)
	return r.scanOptional(row, "failed to find reserved booking in window")
}

// ListByDate returns all non-cancelled bookings starting on the calendar day
// of day, ordered by start time.
func (r *BookingRepository) ListByDate(ctx context.Context, day time.Time) ([]*booking.Booking, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE start_time >= $1
		  AND start_time < $2
		  AND status <> $3
		ORDER BY start_time`,
		dayStart, dayEnd, int16(booking.StatusCancelled),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by date", err)
	}
	return scanBookings(rows)
}

// ListReservedFrom returns Reserved bookings starting at or after cutoff,
// ordered by start time.
func (r *BookingRepository) ListReservedFrom(ctx context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		WHERE start_time >= $1
		  AND status = $2
		ORDER BY start_time`,
		cutoff, int16(booking.StatusReserved),
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list reserved bookings", err)
	}
	return scanBookings(rows)
}

// ListHistory returns every booking, newest created first. Admin dashboard only.
func (r *BookingRepository) ListHistory(ctx context.Context) ([]*booking.Booking, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+bookingColumns+`
		FROM bookings
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list booking history", err)
	}
	return scanBookings(rows)
}

func (r *BookingRepository) scanOptional(row pgx.Row, msg string) (*booking.Booking, error) {
	b, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr(msg, err)
	}
	return b, nil
}

func scanBooking(row pgx.Row) (*booking.Booking, error) {
	var (
		id                        uuid.UUID
		subjectName, reason       string
		startTime, endTime        time.Time
		status                    int16
		createdAt                 time.Time
		checkInTime, checkOutTime *time.Time
	)

	err := row.Scan(&id, &subjectName, &reason, &startTime, &endTime, &status, &createdAt, &checkInTime, &checkOutTime)
	if err != nil {
		return nil, err
	}

	if !booking.Status(status).IsValid() {
		return nil, errs.New(fmt.Sprintf("unknown booking status code %d", status))
	}

	return booking.Reconstruct(
		id, subjectName, reason,
		startTime, endTime,
		booking.Status(status),
		createdAt,
		checkInTime, checkOutTime,
	), nil
}

func scanBookings(rows pgx.Rows) ([]*booking.Booking, error) {
	defer rows.Close()

	var result []*booking.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan booking row", err)
		}
		result = append(result, b)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read booking rows", err)
	}
	return result, nil
}

func isConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeExclusionViolation || pgErr.Code == codeUniqueViolation
	}
	return false
}
