package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

var secretKeyHints = []string{"key", "token", "password", "secret"}

// RedactMetadata returns a copy of m with the value masked for any key that
// looks like a credential, so request metadata can be logged safely.
func RedactMetadata(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
		lower := strings.ToLower(k)
		for _, hint := range secretKeyHints {
			if strings.Contains(lower, hint) {
				out[k] = "***redacted***"
				break
			}
		}
	}
	return out
}
