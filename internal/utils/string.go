package utils

import "strconv"

// FormatWithCommas renders n with thousands separators for CLI output.
func FormatWithCommas(n int) string {
	s := strconv.Itoa(n)
	start := 0
	if s[0] == '-' {
		start = 1
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	out = append(out, s[:start]...)
	digits := s[start:]
	lead := len(digits) % 3
	if lead > 0 {
		out = append(out, digits[:lead]...)
		if len(digits) > lead {
			out = append(out, ',')
		}
	}
	for i := lead; i < len(digits); i += 3 {
		out = append(out, digits[i:i+3]...)
		if i+3 < len(digits) {
			out = append(out, ',')
		}
	}
	return string(out)
}

// ValidQuery reports whether a query length sits inside the configured
// bounds. Empty queries are always valid: they mean "show everything".
func ValidQuery(query string, minLen, maxLen int) bool {
	if query == "" {
		return true
	}
	if len(query) < minLen {
		return false
	}
	return maxLen <= 0 || len(query) <= maxLen
}
