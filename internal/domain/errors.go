package domain

import "errors"

// ErrStyleViolations is returned by Check when at least one file failed.
var ErrStyleViolations = errors.New("style violations found")
