package llm

import "strings"

// IsQuotaError reports whether err looks like a provider-side quota or rate
// exhaustion. The provider surfaces these as human-readable messages
// ("insufficient_quota", "Quota exceeded", ...), so a case-insensitive
// substring match is the whole policy. Every fallback decision in the
// pipeline goes through this single check.
func IsQuotaError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "quota")
}
