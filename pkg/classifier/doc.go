// Package classifier turns a provider Failure into a ClassifiedError: a
// stable category, the HTTP status to return and a human-readable message
// with remediation hints. The provider's own message is appended verbatim
// after "Details:".
//
//	status     category             returned
//	400        BadRequest           400
//	401, 403   AuthInvalid          same
//	404        NotFound             404
//	429        RateLimited          429
//	500, 503   UpstreamUnavailable  same
//	other, 0   Unknown              500
//
// InputInvalid, ConfigMissing and MethodNotAllowed are never produced by
// Classify. They are built by the ask handler and the orchestrator for
// conditions detected before any provider call.
package classifier
