// Package fallback drives the upstream client over a prioritized list of
// model candidates.
//
// A run is a fold over the candidate list. Each step performs one attempt
// and appends it to the AttemptTrace; the fold stops on the first success,
// on the first failure for which ShouldContinue is false, or when the
// caller's context is cancelled before the next attempt. The last failure
// is then classified.
//
//	o := fallback.New(client, []string{"gemini-2.5-flash", "gemini-flash-latest"},
//	    fallback.WithAttemptTimeout(30*time.Second))
//	res := o.Run(ctx, prompt)
//	if !res.OK() {
//	    return res.Err
//	}
//
// Attempts are strictly sequential. The candidate list can be swapped with
// SetCandidates while requests are in flight.
package fallback
