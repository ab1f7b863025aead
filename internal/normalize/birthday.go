package normalize

import (
	"strconv"
	"strings"
	"time"
)

// daysPerMonth uses a fixed 29-day February. The approximation comes from the
// original campaign rules: a Feb 29 birthday is always accepted and rolls to
// Mar 1 in non-leap years. Tests pin this behavior.
var daysPerMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// BirthdayWithinDays reports whether the next occurrence of the birthday in
// dob falls within the given horizon from today. Horizons that straddle a
// year boundary are handled by testing next year's occurrence when this
// year's has already passed. Unparseable input returns false.
func BirthdayWithinDays(dob string, withinDays int, today time.Time) bool {
	month, day, ok := parseMonthDay(dob)
	if !ok {
		return false
	}

	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, today.Location())
	limit := today.AddDate(0, 0, withinDays)

	thisYear := time.Date(today.Year(), time.Month(month), day, 0, 0, 0, 0, today.Location())
	if thisYear.Before(today) {
		nextYear := time.Date(today.Year()+1, time.Month(month), day, 0, 0, 0, 0, today.Location())
		return !nextYear.After(limit)
	}
	return !thisYear.After(limit)
}

// parseMonthDay extracts the month/day pair from a birthday string. Accepted
// forms: YYYY-MM-DD, DD/MM/YYYY (tried first), MM/DD/YYYY, and bare MM/DD.
func parseMonthDay(dob string) (month, day int, ok bool) {
	s := strings.TrimSpace(dob)
	if s == "" {
		return 0, 0, false
	}

	if parts := strings.Split(s, "-"); len(parts) == 3 {
		m, errM := strconv.Atoi(parts[1])
		d, errD := strconv.Atoi(parts[2])
		if errM == nil && errD == nil && validMonthDay(m, d) {
			return m, d, true
		}
		return 0, 0, false
	}

	parts := strings.Split(s, "/")
	switch len(parts) {
	case 3:
		a, errA := strconv.Atoi(parts[0])
		b, errB := strconv.Atoi(parts[1])
		if errA != nil || errB != nil {
			return 0, 0, false
		}
		if validMonthDay(b, a) { // DD/MM/YYYY
			return b, a, true
		}
		if validMonthDay(a, b) { // MM/DD/YYYY
			return a, b, true
		}
	case 2:
		m, errM := strconv.Atoi(parts[0])
		d, errD := strconv.Atoi(parts[1])
		if errM == nil && errD == nil && validMonthDay(m, d) {
			return m, d, true
		}
	}
	return 0, 0, false
}

func validMonthDay(month, day int) bool {
	if month < 1 || month > 12 {
		return false
	}
	return day >= 1 && day <= daysPerMonth[month]
}
