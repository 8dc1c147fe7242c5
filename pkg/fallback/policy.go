package fallback

import (
	"net/http"

	"frontmentor/askgate/pkg/providers"
)

// ShouldContinue reports whether a failed attempt lets the run move on to
// the next candidate.
//
// Only 404 qualifies: it means this model is unknown to the API version,
// which another model can fix. Every other failure (400, 401/403, 429,
// 5xx, a malformed 2xx, transport errors) is about the request, the
// account or the provider as a whole and stops the run.
func ShouldContinue(f *providers.Failure) bool {
	return f != nil && f.StatusCode == http.StatusNotFound
}
