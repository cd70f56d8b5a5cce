package model

// CheckStatus tags the result of checking a single file.
type CheckStatus int

const (
	// Clean indicates the checker exited with status zero.
	Clean CheckStatus = iota
	// RuleViolation indicates the checker exited with a non-zero status.
	RuleViolation
	// InvocationError indicates the checker could not be launched.
	InvocationError
	// Timeout indicates the checker did not finish within the allotted time.
	Timeout
	// AccessError indicates the file could not be read for hashing.
	AccessError
	// Unchanged indicates the file matched its registry digest and was skipped.
	Unchanged
)

func (s CheckStatus) String() string {
	switch s {
	case Clean:
		return "clean"
	case RuleViolation:
		return "violation"
	case InvocationError:
		return "error"
	case Timeout:
		return "timeout"
	case AccessError:
		return "unreadable"
	case Unchanged:
		return "unchanged"
	default:
		return "unknown"
	}
}

// Failed reports whether the status fails the run.
func (s CheckStatus) Failed() bool {
	switch s {
	case Clean, Unchanged:
		return false
	default:
		return true
	}
}

// CheckOutcome is the result of checking (or skipping) one file.
type CheckOutcome struct {
	File   File
	Status CheckStatus
	Output string // combined checker stdout/stderr, informational only
	Err    error
}
