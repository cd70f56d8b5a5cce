package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultCheckerCommand is the style checker invoked when none is configured.
var DefaultCheckerCommand = []string{"cpplint"}

// waitDelay bounds how long Run waits for output pipes after the checker is killed.
const waitDelay = 2 * time.Second

// ErrEmptyCommand is returned when no checker executable is configured.
var ErrEmptyCommand = errors.New("checker command is empty")

// CheckerAdapter abstracts running the external style checker.
type CheckerAdapter interface {
	// RunChecker runs command followed by args and returns the combined
	// stdout/stderr output. A non-zero exit is reported as an error for which
	// ExitCode returns true.
	RunChecker(ctx context.Context, command []string, args []string) (output string, err error)
}

// LocalCheckerAdapter runs the checker with os/exec.
type LocalCheckerAdapter struct{}

// NewLocalCheckerAdapter constructs a LocalCheckerAdapter.
func NewLocalCheckerAdapter() *LocalCheckerAdapter {
	return &LocalCheckerAdapter{}
}

// RunChecker runs the checker as a subprocess. Cancelling ctx kills it.
func (a *LocalCheckerAdapter) RunChecker(ctx context.Context, command []string, args []string) (string, error) {
	if len(command) == 0 || command[0] == "" {
		return "", ErrEmptyCommand
	}

	argv := make([]string, 0, len(command)-1+len(args))
	argv = append(argv, command[1:]...)
	argv = append(argv, args...)

	// #nosec G204 - the checker command is operator configuration
	cmd := exec.CommandContext(ctx, command[0], argv...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer

	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	output := stdout.String() + stderr.String()
	if err != nil {
		return output, fmt.Errorf("run %s: %w", command[0], err)
	}

	return output, nil
}

// ExitCode extracts the checker's exit status from an error returned by
// RunChecker. It returns false when the process never ran to completion.
func ExitCode(err error) (int, bool) {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		return exitErr.ExitCode(), true
	}

	return 0, false
}
