package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// IST is the Indian Standard Time location (UTC+5:30)
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback: create fixed zone if Asia/Kolkata not available
		IST = time.FixedZone("IST", 5*60*60+30*60) // UTC+5:30
	}
}

// Now returns the current time in IST
func Now() time.Time {
	return time.Now().In(IST)
}

// StartOfDay returns the start of day (00:00:00) in IST for the given time
func StartOfDay(t time.Time) time.Time {
	ist := t.In(IST)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IST)
}

// ParseDate accepts a calendar date (2006-01-02, read in IST) or an RFC 3339
// timestamp. A blank value parses to the zero time.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.ParseInLocation(DateLayout, value, IST); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC 3339", value)
	}
	return t.In(IST), nil
}

// ParseDateOr is ParseDate with a fallback for blank input.
func ParseDateOr(value string, fallback time.Time) (time.Time, error) {
	t, err := ParseDate(value)
	if err != nil || !t.IsZero() {
		return t, err
	}
	return fallback, nil
}

// FormatDate renders t as a calendar date in IST, or "" for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(IST).Format(DisplayDateLayout)
}

// Common layouts for IST formatting
const (
	DateLayout        = "2006-01-02"
	DateTimeLayout    = "2006-01-02 15:04:05"
	DisplayDateLayout = "02 Jan 2006"
	DisplayLayout     = "02 Jan 2006, 03:04 PM"
)
