package normalize

import (
	"strings"
	"time"
)

// TimeKind tags the three states a string-typed timestamp can be in.
type TimeKind int

const (
	TimeAbsent TimeKind = iota
	TimeUnparsed
	TimeParsed
)

// TimeValue models timestamps that arrive as arbitrary strings, such as a
// contact's last purchase date. Filter rules decide per-rule whether an
// unparsed value counts as "infinitely old" or as "not recent"; keeping the
// raw string around makes that policy explicit instead of collapsing both
// cases into a zero time.
type TimeValue struct {
	Kind TimeKind
	Time time.Time
	Raw  string
}

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
}

// ParseTimeValue classifies a raw timestamp string.
func ParseTimeValue(raw string) TimeValue {
	s := strings.TrimSpace(raw)
	if s == "" {
		return TimeValue{Kind: TimeAbsent}
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeValue{Kind: TimeParsed, Time: t, Raw: s}
		}
	}
	return TimeValue{Kind: TimeUnparsed, Raw: s}
}

// Parsed reports whether the value carries a usable timestamp.
func (v TimeValue) Parsed() bool { return v.Kind == TimeParsed }

// Absent reports whether no value was provided at all.
func (v TimeValue) Absent() bool { return v.Kind == TimeAbsent }

// AgeDays returns how many (fractional) days before now the timestamp lies.
// The second return value is false unless the value parsed.
func (v TimeValue) AgeDays(now time.Time) (float64, bool) {
	if v.Kind != TimeParsed {
		return 0, false
	}
	return now.Sub(v.Time).Hours() / 24, true
}

// WithinDays reports whether the timestamp parsed and falls on or after
// now minus the given number of days.
func (v TimeValue) WithinDays(now time.Time, days int) bool {
	if v.Kind != TimeParsed {
		return false
	}
	return !v.Time.Before(now.AddDate(0, 0, -days))
}
