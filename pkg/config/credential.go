package config

import "strings"

// placeholderValues are sample values shipped in example env files.
var placeholderValues = []string{
	"sua_chave_api_aqui",
	"your_api_key_here",
}

// placeholderMarkers flag a value copied verbatim from documentation.
var placeholderMarkers = []string{
	"SUA_API_KEY",
	"YOUR_API_KEY",
}

// IsCredentialConfigured reports whether key looks like a real credential.
// Empty, blank and well-known placeholder values count as not configured.
func IsCredentialConfigured(key string) bool {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return false
	}
	for _, p := range placeholderValues {
		if strings.EqualFold(trimmed, p) {
			return false
		}
	}
	for _, m := range placeholderMarkers {
		if strings.Contains(trimmed, m) {
			return false
		}
	}
	return true
}

// MaskCredential returns the first n characters of key followed by "...".
// Keys no longer than n are fully masked.
func MaskCredential(key string, n int) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return "(empty)"
	}
	if len(key) <= n {
		return strings.Repeat("*", len(key))
	}
	return key[:n] + "..."
}
