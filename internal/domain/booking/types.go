package booking

// Status is persisted and pushed to clients as its ordinal code, so the
// order of these constants is part of the wire contract.
type Status int16

const (
	StatusReserved Status = iota
	StatusCheckedIn
	StatusCheckedOut
	StatusCancelled
)

// StatusNone is the wire code clients receive when no booking is current.
const StatusNone Status = -1

func (s Status) String() string {
	switch s {
	case StatusReserved:
		return "reserved"
	case StatusCheckedIn:
		return "checked_in"
	case StatusCheckedOut:
		return "checked_out"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCheckedOut || s == StatusCancelled
}

// Blocks reports whether a booking in this status occupies its time slot
// and therefore rejects overlapping reservations.
func (s Status) Blocks() bool {
	return s == StatusReserved || s == StatusCheckedIn
}
