package adapter

import "fmt"

// FileAccessError reports that a source file could not be read for hashing.
type FileAccessError struct {
	Path string
	Err  error
}

func (e *FileAccessError) Error() string {
	return fmt.Sprintf("read %s: %v", e.Path, e.Err)
}

func (e *FileAccessError) Unwrap() error {
	return e.Err
}

// RegistryCorruptionError reports a registry line that does not have the
// <path>:<digest> shape.
type RegistryCorruptionError struct {
	Line   int
	Raw    string
	Reason string
}

func (e *RegistryCorruptionError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed registry line %d (%s): %q", e.Line, e.Reason, e.Raw)
	}

	return fmt.Sprintf("malformed registry line (%s): %q", e.Reason, e.Raw)
}
