package domain

import (
	"fmt"
	"strings"
	"time"
)

// DisplayDateLayout renders calendar dates as "Mon Jan 01 2024".
const DisplayDateLayout = "Mon Jan 02 2006"

const isoDateLayout = "2006-01-02"

var ErrInvalidDate = fmt.Errorf("%w: unrecognised date", ErrInvalidInput)

// CalendarDay truncates t to midnight UTC of its calendar day.
func CalendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts "2006-01-02", RFC 3339 timestamps and the display layout,
// and returns the calendar day at midnight UTC. In the display layout the
// weekday must agree with the date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{isoDateLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return CalendarDay(t), nil
		}
	}
	if t, err := time.Parse(DisplayDateLayout, s); err == nil {
		// time.Parse reads the weekday token but never checks it.
		if !strings.EqualFold(t.Format("Mon"), s[:3]) {
			return time.Time{}, fmt.Errorf("%w %q: %s is a %s", ErrInvalidDate, s, t.Format(isoDateLayout), t.Weekday())
		}
		return CalendarDay(t), nil
	}
	return time.Time{}, fmt.Errorf("%w %q", ErrInvalidDate, s)
}

// FormatDate renders t with DisplayDateLayout.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DisplayDateLayout)
}
