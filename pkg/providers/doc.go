// Package providers contains the provider-neutral pieces of the upstream
// client: the Outcome and Failure types, the Completer contract used by the
// fallback orchestrator, and HTTPProvider, a pooled single-attempt HTTP
// base that concrete clients embed.
//
// # Outcomes
//
// A completion call never returns a bare error. It returns an Outcome that
// is either a success carrying text or a Failure carrying the provider
// status (0 when no response was obtained), a message and the raw decoded
// payload:
//
//	out := client.Complete(ctx, "gemini-2.5-flash", prompt)
//	if !out.OK() {
//	    log.Printf("status=%d: %s", out.Failure.StatusCode, out.Failure.Message)
//	}
//
// # Credentials
//
// Credentials travel as a query parameter, so every message that may reach
// a log or a response goes through RedactSecrets first.
package providers
