package logger

import "testing"

func TestRedactPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+85291234567", "+852******67"},
		{"+12125551234", "+121******34"},
		{"+1234567", "+123**67"},
		{"91234567", "***"},
		{"", "***"},
	}
	for _, tc := range cases {
		if got := RedactPhone(tc.in); got != tc.want {
			t.Errorf("RedactPhone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestRedactPIIValueEmbedded(t *testing.T) {
	got := redactPIIValue("msg", "sent to +85291234567 ok")
	if got != "sent to +852******67 ok" {
		t.Errorf("embedded redaction: %q", got)
	}

	// Phone-named fields are redacted even without a plus prefix match.
	got = redactPIIValue("phone", "91234567")
	if got != "***" {
		t.Errorf("field redaction: %q", got)
	}
}
