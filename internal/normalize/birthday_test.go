package normalize

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBirthdayWithinDays(t *testing.T) {
	tests := []struct {
		name   string
		dob    string
		within int
		today  time.Time
		want   bool
	}{
		{"same-year window", "2000-12-30", 5, date(2024, time.December, 28), true},
		{"just missed", "2000-12-30", 5, date(2025, time.January, 2), false},
		{"year wrap from december", "1995-01-03", 10, date(2024, time.December, 28), true},
		{"year wrap outside horizon", "1995-01-20", 10, date(2024, time.December, 28), false},
		{"today counts", "1988-06-01", 0, date(2024, time.June, 1), true},
		{"yesterday rolls to next year", "1988-05-31", 30, date(2024, time.June, 1), false},
		{"slash day-first", "30/12/2000", 5, date(2024, time.December, 28), true},
		{"slash month-first fallback", "12/30/2000", 5, date(2024, time.December, 28), true},
		{"bare month-day", "12/30", 5, date(2024, time.December, 28), true},
		{"unparseable", "soon", 365, date(2024, time.June, 1), false},
		{"invalid day", "2000-04-31", 365, date(2024, time.June, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BirthdayWithinDays(tt.dob, tt.within, tt.today)
			if got != tt.want {
				t.Errorf("BirthdayWithinDays(%q, %d, %s) = %v, want %v",
					tt.dob, tt.within, tt.today.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

// Feb 29 is always a valid birthday under the fixed 29-day February rule; in
// non-leap years the constructed occurrence rolls over to Mar 1. Pin both.
func TestBirthdayLeapDayApproximation(t *testing.T) {
	if !BirthdayWithinDays("1992-02-29", 3, date(2024, time.February, 27)) {
		t.Error("leap-day birthday should be within 3 days of Feb 27 in a leap year")
	}
	// 2023 is not a leap year: Feb 29 rolls to Mar 1.
	if !BirthdayWithinDays("1992-02-29", 3, date(2023, time.February, 27)) {
		t.Error("leap-day birthday should roll to Mar 1 and stay within 3 days of Feb 27")
	}
	if BirthdayWithinDays("1992-02-29", 1, date(2023, time.February, 27)) {
		t.Error("rolled-over Mar 1 occurrence is 2 days out, not 1")
	}
}
