package response

import (
	"time"

	"github.com/TimotejZavski/room-booking-system/internal/domain/period"
	"github.com/TimotejZavski/room-booking-system/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingResponse struct {
	ID            uuid.UUID  `json:"id"`
	SubjectName   string     `json:"subjectName"`
	Reason        string     `json:"reason"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       time.Time  `json:"endTime"`
	Status        int        `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	CheckInTime   *time.Time `json:"checkInTime,omitempty"`
	CheckOutTime  *time.Time `json:"checkOutTime,omitempty"`
	MissedPeriods []int      `json:"missedPeriods,omitempty"`
}

type CreateBookingResponse struct {
	ID uuid.UUID `json:"id"`
}

type BoardResponse struct {
	CurrentBooking    *BookingResponse   `json:"currentBooking"`
	TodayBookings     []*BookingResponse `json:"todayBookings"`
	TomorrowBookings  []*BookingResponse `json:"tomorrowBookings"`
	RemainingBookings []*BookingResponse `json:"remainingBookings"`
	SuggestedStart    time.Time          `json:"suggestedStart"`
	SuggestedEnd      time.Time          `json:"suggestedEnd"`
}

func FromBookingView(v *queries.BookingView) *BookingResponse {
	if v == nil {
		return nil
	}
	return &BookingResponse{
		ID:            v.ID,
		SubjectName:   v.SubjectName,
		Reason:        v.Reason,
		StartTime:     v.StartTime,
		EndTime:       v.EndTime,
		Status:        int(v.Status),
		CreatedAt:     v.CreatedAt,
		CheckInTime:   v.CheckInTime,
		CheckOutTime:  v.CheckOutTime,
		MissedPeriods: period.MissedNumbers(v.StartTime, v.EndTime),
	}
}

func FromBookingViews(views []*queries.BookingView) []*BookingResponse {
	result := make([]*BookingResponse, len(views))
	for i, v := range views {
		result[i] = FromBookingView(v)
	}
	return result
}

func FromBoardSnapshot(snapshot *queries.BoardSnapshot) *BoardResponse {
	return &BoardResponse{
		CurrentBooking:    FromBookingView(snapshot.Current),
		TodayBookings:     FromBookingViews(snapshot.Today),
		TomorrowBookings:  FromBookingViews(snapshot.Tomorrow),
		RemainingBookings: FromBookingViews(snapshot.Remaining),
		SuggestedStart:    snapshot.SuggestedStart,
		SuggestedEnd:      snapshot.SuggestedEnd,
	}
}
