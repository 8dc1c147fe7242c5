package providers

import (
	"context"
	"errors"
	"net/url"
	"regexp"
)

var (
	// keyParamPattern matches a key query parameter in URLs and error text.
	keyParamPattern = regexp.MustCompile(`([?&]key=)[^&\s"':]+`)

	// googleKeyPattern matches Google API keys.
	googleKeyPattern = regexp.MustCompile(`AIza[0-9A-Za-z_\-]{20,}`)
)

// RedactSecrets removes credentials from s: the value of any "key" query
// parameter and anything shaped like a Google API key.
func RedactSecrets(s string) string {
	s = keyParamPattern.ReplaceAllString(s, "${1}REDACTED")
	return googleKeyPattern.ReplaceAllString(s, "AIza***REDACTED***")
}

// TransportFailure converts an error raised before a response was read into
// a status-0 Failure. Deadline expiry and cancellation keep a stable message
// so callers can recognise them.
func TransportFailure(err error) *Failure {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Failure{Message: "request timed out: " + RedactSecrets(errText(err))}
	case errors.Is(err, context.Canceled):
		return &Failure{Message: "request cancelled: " + RedactSecrets(errText(err))}
	default:
		return &Failure{Message: RedactSecrets(errText(err))}
	}
}

// errText strips the *url.Error wrapper, whose message embeds the request
// URL, and returns the innermost useful text.
func errText(err error) string {
	var uerr *url.Error
	if errors.As(err, &uerr) && uerr.Err != nil {
		return uerr.Op + ": " + uerr.Err.Error()
	}
	return err.Error()
}
