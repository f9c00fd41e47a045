package request

import "time"

type CreateBookingRequest struct {
	SubjectName string    `json:"subjectName" binding:"required"`
	Reason      string    `json:"reason" binding:"required"`
	StartTime   time.Time `json:"startTime" binding:"required"`
	EndTime     time.Time `json:"endTime" binding:"required"`
}
