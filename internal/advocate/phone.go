package advocate

import "strings"

// PhonePlaceholder is shown where a phone number cannot be formatted.
const PhonePlaceholder = "—"

// FormatPhone strips every non-digit from s and, when exactly ten digits
// remain, returns them as "(XXX) XXX-XXXX". Any other digit count yields
// ("", false).
func FormatPhone(s string) (string, bool) {
	digits := make([]byte, 0, 10)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			continue
		}
		if len(digits) == 10 {
			return "", false
		}
		digits = append(digits, c)
	}
	if len(digits) != 10 {
		return "", false
	}
	var b strings.Builder
	b.Grow(14)
	b.WriteByte('(')
	b.Write(digits[:3])
	b.WriteString(") ")
	b.Write(digits[3:6])
	b.WriteByte('-')
	b.Write(digits[6:])
	return b.String(), true
}
