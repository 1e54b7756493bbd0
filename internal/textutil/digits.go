package textutil

// LeadingDigits returns the run of ASCII digits at the start of s, keeping
// any zero padding.
func LeadingDigits(s string) (string, bool) {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return "", false
	}
	return s[:end], true
}
