package normalize

import "testing"

func TestPhoneToE164(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		defaultCC string
		want      string
		ok        bool
	}{
		{"already E.164", "+85291234567", "", "+85291234567", true},
		{"already E.164 with noise", "+852 9123-4567", "", "+85291234567", true},
		{"00 international prefix", "0085291234567", "", "+85291234567", true},
		{"8-digit local with HK default", "91234567", "852", "+85291234567", true},
		{"9-digit local", "912345678", "852", "+852912345678", true},
		{"10-digit with US sentinel", "2125551234", "1", "+12125551234", true},
		{"10-digit with HK default", "6123456789", "852", "+8526123456789", true},
		{"11-digit US", "12125551234", "", "+12125551234", true},
		{"12-digit with default", "447911123456", "852", "+852447911123456", true},
		{"local digits no default", "91234567", "", "", false},
		{"too short", "12345", "852", "", false},
		{"plus but too short", "+1234", "", "", false},
		{"plus but too long", "+12345678901234567", "", "", false},
		{"empty", "", "852", "", false},
		{"letters only", "call me", "852", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PhoneToE164(tt.raw, tt.defaultCC)
			if ok != tt.ok || got != tt.want {
				t.Errorf("PhoneToE164(%q, %q) = (%q, %v), want (%q, %v)",
					tt.raw, tt.defaultCC, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestPhoneWithFallback(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"international passes through", "+85291234567", "+85291234567", true},
		{"10-digit assumes US", "2125551234", "+12125551234", true},
		{"11-digit US", "12125551234", "+12125551234", true},
		{"8-digit falls back to HK", "91234567", "+85291234567", true},
		{"unusable", "123", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := PhoneWithFallback(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("PhoneWithFallback(%q) = (%q, %v), want (%q, %v)",
					tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}
