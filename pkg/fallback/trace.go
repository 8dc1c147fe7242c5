package fallback

import (
	"time"

	"frontmentor/askgate/pkg/providers"
)

// Attempt is one candidate tried during a run.
type Attempt struct {
	Model   string
	Outcome providers.Outcome
	Latency time.Duration
}

// Status returns the HTTP status of the attempt: 200 on success, the
// failure status otherwise (0 for transport failures).
func (a Attempt) Status() int {
	if a.Outcome.OK() {
		return 200
	}
	return a.Outcome.Failure.StatusCode
}

// AttemptTrace is the ordered record of attempts in one run. It belongs to
// that run and is never shared.
type AttemptTrace []Attempt

// Models returns the attempted model identifiers in order.
func (t AttemptTrace) Models() []string {
	out := make([]string, len(t))
	for i, a := range t {
		out[i] = a.Model
	}
	return out
}

// Last returns the most recent attempt and false when the trace is empty.
func (t AttemptTrace) Last() (Attempt, bool) {
	if len(t) == 0 {
		return Attempt{}, false
	}
	return t[len(t)-1], true
}

// LastFailure returns the failure of the most recent attempt, or nil.
func (t AttemptTrace) LastFailure() *providers.Failure {
	last, ok := t.Last()
	if !ok {
		return nil
	}
	return last.Outcome.Failure
}
