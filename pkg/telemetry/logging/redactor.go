package logging

import (
	"log/slog"
	"regexp"
	"strings"
)

// Redactor scrubs credentials from log messages and attribute values.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternQueryKey    = "query_key"
	PatternGoogleKey   = "google_api_key"
	PatternBearerToken = "bearer_token"
	PatternKeyField    = "key_field"
)

// Redacted replaces the value of a sensitive attribute.
const Redacted = "[REDACTED]"

// NewRedactor creates a Redactor with the built-in credential patterns.
func NewRedactor() *Redactor {
	r := &Redactor{}

	// Order matters: the query parameter rule keeps the parameter name and
	// must run before the bare key rule consumes the value.
	r.add(PatternQueryKey, `([?&]key=)[^&\s"':]+`, "${1}REDACTED")
	r.add(PatternGoogleKey, `AIza[0-9A-Za-z_\-]{20,}`, "AIza***REDACTED***")
	r.add(PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***")
	r.add(PatternKeyField, `(?i)(api[-_]?key["']?\s*[:=]\s*["']?)[^\s"',&]+`, "${1}***")

	return r
}

func (r *Redactor) add(name, expr, replacement string) {
	r.patterns = append(r.patterns, &redactPattern{
		name:        name,
		regex:       regexp.MustCompile(expr),
		replacement: replacement,
	})
}

// RedactString redacts credentials from a string value.
func (r *Redactor) RedactString(value string) string {
	if r == nil || value == "" {
		return value
	}

	redacted := value
	for _, p := range r.patterns {
		redacted = p.regex.ReplaceAllString(redacted, p.replacement)
	}
	return redacted
}

// RedactAttr returns a copy of attr with credentials removed. Attributes
// whose key names a secret are replaced wholesale; string values are
// scrubbed with the patterns; groups are walked recursively.
func (r *Redactor) RedactAttr(attr slog.Attr) slog.Attr {
	if r == nil {
		return attr
	}

	if isSensitiveKey(attr.Key) {
		return slog.String(attr.Key, Redacted)
	}

	v := attr.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, r.RedactString(v.String()))
	case slog.KindGroup:
		group := v.Group()
		out := make([]slog.Attr, len(group))
		for i, a := range group {
			out[i] = r.RedactAttr(a)
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(out...)}
	case slog.KindAny:
		if err, ok := v.Any().(error); ok {
			return slog.String(attr.Key, r.RedactString(err.Error()))
		}
	}
	return slog.Attr{Key: attr.Key, Value: v}
}

// isSensitiveKey checks if a key name indicates a credential.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"api_key", "apikey", "api-key",
		"secret", "token", "password",
		"authorization",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}
