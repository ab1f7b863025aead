package normalize

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// dobLayouts are the formats tried for generic date parsing, most common first.
var dobLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"02-01-2006",
}

// DOB normalizes a free-form date of birth to canonical YYYY-MM-DD. The
// second return value is false when nothing parses; callers must treat that
// as "omit the field", never as a sentinel date.
func DOB(raw string) (string, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", false
	}

	// Canonical input is validated and returned as-is.
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02"), true
	}

	for _, layout := range dobLayouts[1:] {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		if t.Year() >= 1900 && t.Year() <= 2100 {
			return t.Format("2006-01-02"), true
		}
	}

	// Slash-delimited: day-first, then month-first.
	if parts := strings.Split(s, "/"); len(parts) == 3 {
		a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
		b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
		y, errY := strconv.Atoi(strings.TrimSpace(parts[2]))
		if errA == nil && errB == nil && errY == nil && y >= 1900 && y <= 2100 {
			if d, ok := calendarDate(y, b, a); ok { // D/M/Y
				return d, true
			}
			if d, ok := calendarDate(y, a, b); ok { // M/D/Y
				return d, true
			}
		}
	}

	return "", false
}

// calendarDate validates a year/month/day triple against the real calendar
// and renders it as YYYY-MM-DD.
func calendarDate(year, month, day int) (string, bool) {
	if month < 1 || month > 12 || day < 1 {
		return "", false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return "", false
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), true
}
