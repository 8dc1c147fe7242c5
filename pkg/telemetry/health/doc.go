// Package health implements the readiness probe.
//
// Components register named checks; CheckReadiness runs them concurrently
// with a per-check timeout and reports "ready" only when all pass:
//
//	checker := health.New(2 * time.Second)
//	checker.RegisterCheck("credential", func(ctx context.Context) error {
//	    if !config.IsCredentialConfigured(key) {
//	        return errors.New("upstream API key is not configured")
//	    }
//	    return nil
//	})
//	mux.Handle("/ready", checker.ReadinessHandler())
//
// Liveness is not modelled here; /health answers unconditionally.
package health
