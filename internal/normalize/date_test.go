package normalize

import (
	"testing"
	"time"
)

func TestDOB(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"canonical", "1990-06-15", "1990-06-15", true},
		{"canonical leap day", "1992-02-29", "1992-02-29", true},
		{"long form", "June 15, 1990", "1990-06-15", true},
		{"slash day-first", "15/06/1990", "1990-06-15", true},
		{"slash ambiguous prefers day-first", "05/06/1990", "1990-06-05", true},
		{"slash month-first fallback", "06/25/1990", "1990-06-25", true},
		{"year below range", "0500-01-01", "0500-01-01", true}, // canonical form is returned as-is
		{"slash year out of range", "15/06/1850", "", false},
		{"nonsense", "not a date", "", false},
		{"invalid day", "1990-06-31", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DOB(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("DOB(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestParseTimeValue(t *testing.T) {
	if v := ParseTimeValue(""); !v.Absent() {
		t.Errorf("empty string should be absent, got kind %d", v.Kind)
	}
	if v := ParseTimeValue("garbage"); v.Kind != TimeUnparsed || v.Raw != "garbage" {
		t.Errorf("garbage should be unparsed with raw preserved, got %+v", v)
	}
	v := ParseTimeValue("2024-03-01T10:00:00Z")
	if !v.Parsed() {
		t.Fatalf("RFC3339 should parse, got %+v", v)
	}
	if v.Time.Year() != 2024 || v.Time.Month() != time.March {
		t.Errorf("wrong parsed time: %v", v.Time)
	}
	if v := ParseTimeValue("2024-03-01"); !v.Parsed() {
		t.Errorf("bare date should parse, got %+v", v)
	}
}

func TestTimeValueWithinDays(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	recent := ParseTimeValue("2024-05-20")
	if !recent.WithinDays(now, 30) {
		t.Error("12-day-old timestamp should be within 30 days")
	}
	if recent.WithinDays(now, 5) {
		t.Error("12-day-old timestamp should not be within 5 days")
	}

	unparsed := ParseTimeValue("last spring")
	if unparsed.WithinDays(now, 10000) {
		t.Error("unparsed timestamp is never within any window")
	}
}
