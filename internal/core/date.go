package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// dateLayout is the only accepted wire format for due dates. Keeping
// every date in ISO form makes lexicographic ordering equal to
// chronological ordering, which the bill sort relies on.
const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("date must be in YYYY-MM-DD form")

// Date is a calendar day with no time-of-day component, stored at UTC
// midnight.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Compare orders two dates chronologically. Because both render to ISO
// strings this matches lexicographic comparison of their String forms.
func (d Date) Compare(other Date) int {
	return d.Time.Compare(other.Time)
}

// DaysUntil returns the number of whole calendar days between now and
// the date. Now is truncated to its calendar day first, so a date equal
// to today's calendar date yields zero regardless of the clock.
func (d Date) DaysUntil(now time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(d.Time.Sub(today).Hours() / 24)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidDate
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Urgency classifies how soon a bill is due relative to now.
// Matches the display contract exactly, including the "1 days left"
// singular form.
func Urgency(due Date, now time.Time) string {
	days := due.DaysUntil(now)
	switch {
	case days < 0:
		return "Past due"
	case days == 0:
		return "Due today"
	default:
		return fmt.Sprintf("%d days left", days)
	}
}
