package logger

// RedactPhone masks a phone number for safe logging, keeping the country
// prefix and the last two digits.
// "+85291234567" → "+852*****67"
// Anything too short to mask meaningfully is fully masked.
func RedactPhone(phone string) string {
	if len(phone) < 8 || phone[0] != '+' {
		return "***"
	}
	prefix := phone[:4]
	suffix := phone[len(phone)-2:]
	masked := ""
	for range phone[4 : len(phone)-2] {
		masked += "*"
	}
	return prefix + masked + suffix
}
