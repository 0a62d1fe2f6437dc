package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used for meal dates.
const DateLayout = "2006-01-02"

const daysPerWeek = 7

// Mode selects how meals are placed into the slots of a week.
type Mode string

const (
	// ModeDate keys slots by ISO date; only meals dated inside the window match.
	ModeDate Mode = "date"
	// ModeWeekday keys slots by weekday name; weekday-labelled meals recur
	// every week.
	ModeWeekday Mode = "weekday"
)

// ParseMode returns ModeDate for an empty string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDate:
		return ModeDate, nil
	case ModeWeekday:
		return ModeWeekday, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Week is a window of seven consecutive calendar days. The zero value is not
// useful; construct with WeekOf.
type Week struct {
	start time.Time
}

// WeekOf returns the week containing t that begins on first. Only the
// calendar date of t in its own location is used.
func WeekOf(t time.Time, first time.Weekday) Week {
	d := civil(t)
	offset := (int(d.Weekday()) - int(first) + daysPerWeek) % daysPerWeek
	return Week{start: d.AddDate(0, 0, -offset)}
}

// civil drops the clock and location, keeping the calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Start is the first day of the window.
func (w Week) Start() time.Time { return w.start }

// End is the last day of the window.
func (w Week) End() time.Time { return w.start.AddDate(0, 0, daysPerWeek-1) }

// Next moves the window forward seven days.
func (w Week) Next() Week { return Week{start: w.start.AddDate(0, 0, daysPerWeek)} }

// Prev moves the window back seven days.
func (w Week) Prev() Week { return Week{start: w.start.AddDate(0, 0, -daysPerWeek)} }

// Equal reports whether both windows start on the same day.
func (w Week) Equal(o Week) bool { return w.start.Equal(o.start) }

// Dates returns the seven days of the window in order.
func (w Week) Dates() []time.Time {
	out := make([]time.Time, daysPerWeek)
	for i := range out {
		out[i] = w.start.AddDate(0, 0, i)
	}
	return out
}

// Keys returns the slot keys of the window for the given mode.
func (w Week) Keys(mode Mode) []string {
	out := make([]string, daysPerWeek)
	for i, d := range w.Dates() {
		if mode == ModeWeekday {
			out[i] = d.Weekday().String()
		} else {
			out[i] = d.Format(DateLayout)
		}
	}
	return out
}

// Contains reports whether the calendar date of t falls inside the window.
func (w Week) Contains(t time.Time) bool {
	_, ok := w.index(t)
	return ok
}

func (w Week) index(t time.Time) (int, bool) {
	days := int(civil(t).Sub(w.start).Hours() / 24)
	if days < 0 || days >= daysPerWeek {
		return 0, false
	}
	return days, true
}

// Slot resolves a meal date label to its position in the window.
func (w Week) Slot(label string, mode Mode) (int, bool) {
	if mode == ModeWeekday {
		if wd, ok := ParseWeekday(label); ok {
			return (int(wd) - int(w.start.Weekday()) + daysPerWeek) % daysPerWeek, true
		}
	}
	t, ok := ParseDate(label)
	if !ok {
		return 0, false
	}
	return w.index(t)
}

// String renders the window as "Monday, Oct 19 - Sunday, Oct 25".
func (w Week) String() string {
	return fmt.Sprintf("%s - %s", w.start.Format("Monday, Jan 2"), w.End().Format("Monday, Jan 2"))
}

// ParseDate accepts an ISO date or an RFC 3339 timestamp and returns its
// calendar date.
func ParseDate(label string) (time.Time, bool) {
	label = strings.TrimSpace(label)
	if t, err := time.Parse(DateLayout, label); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, label); err == nil {
		return civil(t), true
	}
	return time.Time{}, false
}

// ParseWeekday matches a full English weekday name, ignoring case.
func ParseWeekday(label string) (time.Weekday, bool) {
	label = strings.TrimSpace(label)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(label, d.String()) {
			return d, true
		}
	}
	return 0, false
}

// ValidDayLabel reports whether label is an ISO date or a weekday name.
func ValidDayLabel(label string) bool {
	if _, ok := ParseWeekday(label); ok {
		return true
	}
	_, ok := ParseDate(label)
	return ok
}
