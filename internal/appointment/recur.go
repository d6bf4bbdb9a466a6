package appointment

import (
	"time"

	"github.com/teambition/rrule-go"
)

// maxOccurrencesPerWindow caps range expansion so a daily rule over a wide
// window cannot produce an unbounded occurrence list.
const maxOccurrencesPerWindow = 500

func repeatFrequency(r Repeat) (rrule.Frequency, bool) {
	switch r {
	case RepeatDaily:
		return rrule.DAILY, true
	case RepeatWeekly:
		return rrule.WEEKLY, true
	case RepeatMonthly:
		return rrule.MONTHLY, true
	case RepeatYearly:
		return rrule.YEARLY, true
	default:
		return 0, false
	}
}

// NextOccurrence returns the first occurrence of the appointment strictly
// after the given instant. For non-repeating appointments that is the date
// itself or nothing.
func NextOccurrence(a Appointment, after time.Time) (time.Time, bool) {
	freq, repeats := repeatFrequency(a.Repeat)
	if !repeats {
		if a.Date.After(after) {
			return a.Date, true
		}
		return time.Time{}, false
	}

	r, err := rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: a.Date})
	if err != nil {
		return time.Time{}, false
	}

	next := r.After(after, false)
	if next.IsZero() {
		return time.Time{}, false
	}
	return next, true
}

// OccurrencesBetween expands the appointment into every occurrence within
// [start, end], inclusive. Non-repeating appointments contribute at most
// their own date.
func OccurrencesBetween(a Appointment, start, end time.Time) []time.Time {
	freq, repeats := repeatFrequency(a.Repeat)
	if !repeats {
		if !a.Date.Before(start) && !a.Date.After(end) {
			return []time.Time{a.Date}
		}
		return nil
	}

	r, err := rrule.NewRRule(rrule.ROption{Freq: freq, Dtstart: a.Date})
	if err != nil {
		return nil
	}

	occs := r.Between(start, end, true)
	if len(occs) > maxOccurrencesPerWindow {
		occs = occs[:maxOccurrencesPerWindow]
	}
	return occs
}
