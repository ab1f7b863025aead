// Package normalize converts free-form contact attributes (phone numbers,
// dates of birth, string-typed timestamps) into canonical forms. Everything
// here is best-effort: unusable input is reported as absent, never as an error.
package normalize

import "strings"

// USCountryCode is the reserved default-country sentinel. When a 10-digit
// number arrives with this default, the number is assumed to be US/NANP and
// prefixed with +1.
const USCountryCode = "1"

// PhoneToE164 converts a free-form phone number to E.164. defaultCC is the
// country code (without +) prepended to local-length numbers; pass "" to
// accept only numbers that already carry an international prefix. The second
// return value is false when the input cannot be normalized.
func PhoneToE164(raw, defaultCC string) (string, bool) {
	cleaned := stripPhone(raw)
	if cleaned == "" {
		return "", false
	}

	// Already-prefixed international number.
	if strings.HasPrefix(cleaned, "+") {
		if len(cleaned) >= 8 && len(cleaned) <= 16 {
			return cleaned, true
		}
		return "", false
	}

	// 00 international prefix, rewritten to +.
	if strings.HasPrefix(cleaned, "00") {
		candidate := "+" + cleaned[2:]
		if len(candidate) >= 8 && len(candidate) <= 16 {
			return candidate, true
		}
		return "", false
	}

	digits := cleaned
	switch {
	case len(digits) >= 7 && len(digits) <= 9:
		if defaultCC == "" {
			return "", false
		}
		return "+" + defaultCC + digits, true
	case len(digits) == 10:
		if defaultCC == "" {
			return "", false
		}
		if defaultCC == USCountryCode {
			return "+1" + digits, true
		}
		return "+" + defaultCC + digits, true
	case len(digits) == 11 && digits[0] == '1':
		return "+" + digits, true
	case len(digits) >= 10 && len(digits) <= 15:
		if defaultCC == "" {
			return "", false
		}
		return "+" + defaultCC + digits, true
	}
	return "", false
}

// PhoneWithFallback normalizes a phone number trying the documented chain of
// default country codes: no default first, then US for 10/11-digit numbers,
// then Hong Kong (+852) for everything else.
func PhoneWithFallback(raw string) (string, bool) {
	if e164, ok := PhoneToE164(raw, ""); ok {
		return e164, true
	}
	digits := strings.TrimPrefix(stripPhone(raw), "+")
	if len(digits) == 10 || len(digits) == 11 {
		if e164, ok := PhoneToE164(raw, USCountryCode); ok {
			return e164, true
		}
	}
	return PhoneToE164(raw, "852")
}

// stripPhone drops everything except digits and a leading plus.
func stripPhone(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		} else if r == '+' && b.Len() == 0 {
			b.WriteRune(r)
		}
	}
	return b.String()
}
