// Package period holds the fixed school timetable used to report which
// lesson periods a booking overlaps.
package period

import "time"

type Period struct {
	Number int
	Start  time.Duration // offset from midnight
	End    time.Duration
}

var Periods = []Period{
	{Number: 1, Start: 7*time.Hour + 10*time.Minute, End: 7*time.Hour + 55*time.Minute},
	{Number: 2, Start: 8 * time.Hour, End: 8*time.Hour + 45*time.Minute},
	{Number: 3, Start: 8*time.Hour + 50*time.Minute, End: 9*time.Hour + 35*time.Minute},
	{Number: 4, Start: 9*time.Hour + 40*time.Minute, End: 10*time.Hour + 25*time.Minute},
	{Number: 5, Start: 10*time.Hour + 30*time.Minute, End: 11*time.Hour + 15*time.Minute},
	{Number: 6, Start: 11*time.Hour + 20*time.Minute, End: 12*time.Hour + 5*time.Minute},
	{Number: 7, Start: 12*time.Hour + 10*time.Minute, End: 12*time.Hour + 55*time.Minute},
	{Number: 8, Start: 13 * time.Hour, End: 13*time.Hour + 45*time.Minute},
	{Number: 9, Start: 13*time.Hour + 50*time.Minute, End: 14*time.Hour + 35*time.Minute},
}

// Missed returns the periods whose times overlap the wall-clock span of a
// booking. Only the time-of-day component is considered.
func Missed(start, end time.Time) []Period {
	startOfDay := timeOfDay(start)
	endOfDay := timeOfDay(end)

	var missed []Period
	for _, p := range Periods {
		if startOfDay < p.End && endOfDay > p.Start {
			missed = append(missed, p)
		}
	}
	return missed
}

// MissedNumbers is Missed reduced to period numbers for API payloads.
func MissedNumbers(start, end time.Time) []int {
	periods := Missed(start, end)
	numbers := make([]int, len(periods))
	for i, p := range periods {
		numbers[i] = p.Number
	}
	return numbers
}

func timeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second
}
