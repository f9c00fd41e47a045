package errs

import "errors"

// Domain-specific sentinel errors for the usecase layers
var (
	// Booking errors
	ErrBookingNotFound   = errors.New("booking not found")
	ErrBookingConflict   = errors.New("booking conflict")
	ErrInvalidBooking    = errors.New("invalid booking")
	ErrInvalidTransition = errors.New("invalid booking transition")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
