package model

import "time"

// RunResult aggregates the outcomes of a check run.
type RunResult struct {
	Started  time.Time
	Finished time.Time
	Outcomes []CheckOutcome
}

// Failed reports whether any file in the run failed.
func (r RunResult) Failed() bool {
	for _, outcome := range r.Outcomes {
		if outcome.Status.Failed() {
			return true
		}
	}

	return false
}

// Count returns how many outcomes carry the given status.
func (r RunResult) Count(status CheckStatus) int {
	n := 0

	for _, outcome := range r.Outcomes {
		if outcome.Status == status {
			n++
		}
	}

	return n
}

// Checked returns how many files were handed to the checker.
func (r RunResult) Checked() int {
	n := 0

	for _, outcome := range r.Outcomes {
		switch outcome.Status {
		case Clean, RuleViolation, InvocationError, Timeout:
			n++
		case Unchanged, AccessError:
		}
	}

	return n
}
