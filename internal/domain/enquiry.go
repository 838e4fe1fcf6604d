package domain

import (
	"strings"
	"time"
)

// Enquiry is a business record owned by the host application.
type Enquiry struct {
	ID           string `json:"id"`
	ClientName   string `json:"client_name"`
	Manager      string `json:"manager"`
	FollowupDate string `json:"followup_date"`
	WeddingDate  string `json:"wedding_date"`
	Venue        string `json:"venue"`
	Status       string `json:"status,omitempty"`
}

var dateLayouts = []string{"2006-01-02", time.RFC3339, time.RFC3339Nano, "2006-01-02T15:04:05"}

// ParseDay parses a record date and returns midnight of that calendar day in loc.
func ParseDay(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		var (
			t   time.Time
			err error
		)
		if layout == time.RFC3339 || layout == time.RFC3339Nano {
			t, err = time.Parse(layout, value)
			if err == nil {
				t = t.In(loc)
			}
		} else {
			t, err = time.ParseInLocation(layout, value, loc)
		}
		if err == nil {
			return StartOfDay(t, loc), true
		}
	}
	return time.Time{}, false
}

// StartOfDay truncates t to midnight in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// SameDay reports whether a and b fall on the same calendar day in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	return StartOfDay(a, loc).Equal(StartOfDay(b, loc))
}

// DaysBetween counts whole calendar days from a to b in loc.
func DaysBetween(a, b time.Time, loc *time.Location) int {
	from := StartOfDay(a, loc)
	to := StartOfDay(b, loc)
	// Date arithmetic in UTC avoids DST-shortened days.
	fu := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	tu := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(tu.Sub(fu).Hours() / 24)
}
