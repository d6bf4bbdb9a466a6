// Package projection derives read-only views over the appointment collection:
// past/upcoming partitions, per-day lookups, the month calendar grid and
// category statistics. Everything here is a pure function of its inputs.
package projection

import (
	"math"
	"time"

	"github.com/cekaratas/randevu/internal/appointment"
)

// PartitionByTime splits the collection into past and upcoming relative to
// now. An appointment dated exactly now counts as upcoming.
func PartitionByTime(appts []appointment.Appointment, now time.Time) (past, upcoming []appointment.Appointment) {
	for _, a := range appts {
		if a.Date.Before(now) {
			past = append(past, a)
		} else {
			upcoming = append(upcoming, a)
		}
	}
	return past, upcoming
}

// AppointmentsOnDay returns every appointment occurring on the calendar day
// containing the given instant, in the instant's location. Repeating
// appointments match when any expanded occurrence falls on that day.
func AppointmentsOnDay(appts []appointment.Appointment, day time.Time) []appointment.Appointment {
	var out []appointment.Appointment
	for _, a := range appts {
		if occursOn(a, day) {
			out = append(out, a)
		}
	}
	return out
}

func occursOn(a appointment.Appointment, day time.Time) bool {
	start := midnight(day)
	end := start.AddDate(0, 0, 1)

	if a.Repeat == appointment.RepeatNone || a.Repeat == "" {
		at := a.Date.In(day.Location())
		return !at.Before(start) && at.Before(end)
	}
	return len(appointment.OccurrencesBetween(a, start, end.Add(-time.Second))) > 0
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// DayCell is one cell of the month grid.
type DayCell struct {
	Date         time.Time
	InMonth      bool
	Appointments []appointment.Appointment
}

// MonthGrid builds the calendar grid for a month: full Monday-start weeks, so
// leading and trailing cells come from the adjacent months with InMonth false.
// The grid is always a multiple of seven cells.
func MonthGrid(appts []appointment.Appointment, year int, month time.Month, loc *time.Location) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	lead := (int(first.Weekday()) + 6) % 7
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()

	weeks := (lead + daysInMonth + 6) / 7
	cells := make([]DayCell, 0, weeks*7)

	day := first.AddDate(0, 0, -lead)
	for i := 0; i < weeks*7; i++ {
		cells = append(cells, DayCell{
			Date:         day,
			InMonth:      day.Month() == month,
			Appointments: AppointmentsOnDay(appts, day),
		})
		day = day.AddDate(0, 0, 1)
	}
	return cells
}

// Statistics summarizes the collection. Repeating appointments count once,
// by their base record.
type Statistics struct {
	Total         int                          `json:"total"`
	Completed     int                          `json:"completed"`
	Upcoming      int                          `json:"upcoming"`
	LastWeek      int                          `json:"lastWeek"`
	ThisMonth     int                          `json:"thisMonth"`
	ThisYear      int                          `json:"thisYear"`
	CompletionPct int                          `json:"completionPct"`
	ByCategory    map[appointment.Category]int `json:"byCategory"`
}

// CategoryStatistics computes counters relative to now. Completed means
// strictly before now; last week is the past seven days exclusive of now.
// Every category appears in ByCategory, zero or not.
func CategoryStatistics(appts []appointment.Appointment, now time.Time) Statistics {
	stats := Statistics{ByCategory: make(map[appointment.Category]int, len(appointment.Categories))}
	for _, c := range appointment.Categories {
		stats.ByCategory[c] = 0
	}

	weekAgo := now.AddDate(0, 0, -7)
	for _, a := range appts {
		stats.Total++
		stats.ByCategory[a.Category]++

		if a.Date.Before(now) {
			stats.Completed++
			if a.Date.After(weekAgo) {
				stats.LastWeek++
			}
		} else {
			stats.Upcoming++
		}
		if a.Date.Year() == now.Year() {
			stats.ThisYear++
			if a.Date.Month() == now.Month() {
				stats.ThisMonth++
			}
		}
	}

	if stats.Total > 0 {
		stats.CompletionPct = int(math.Round(float64(stats.Completed) / float64(stats.Total) * 100))
	}
	return stats
}
