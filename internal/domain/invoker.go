package domain

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lintgate.dev/pkg/lintgate/internal/adapter"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// CheckInvoker runs the external style checker against a candidate file and
// classifies the result.
type CheckInvoker interface {
	Check(ctx context.Context, file m.File) m.CheckOutcome
}

type checkInvoker struct {
	checker adapter.CheckerAdapter
	command []string
	filter  FilterRuleSet
	timeout time.Duration
}

// NewCheckInvoker constructs a CheckInvoker. A zero timeout disables the
// per-invocation deadline.
func NewCheckInvoker(checker adapter.CheckerAdapter, command []string, filter FilterRuleSet, timeout time.Duration) CheckInvoker {
	return &checkInvoker{
		checker: checker,
		command: command,
		filter:  filter,
		timeout: timeout,
	}
}

func (ci *checkInvoker) Check(ctx context.Context, file m.File) m.CheckOutcome {
	outcome := m.CheckOutcome{File: file}

	if err := ctx.Err(); err != nil {
		outcome.Status = m.InvocationError
		outcome.Err = err

		return outcome
	}

	runCtx := ctx

	if ci.timeout > 0 {
		var cancel context.CancelFunc

		runCtx, cancel = context.WithTimeout(ctx, ci.timeout)
		defer cancel()
	}

	args := append(ci.filter.Args(), string(file.Path))

	output, err := ci.checker.RunChecker(runCtx, ci.command, args)
	outcome.Output = output
	outcome.Status = ci.classify(ctx, runCtx, err)
	outcome.Err = err

	switch outcome.Status {
	case m.Clean:
		slog.Debug("checker passed", "path", file.Path)
	case m.RuleViolation:
		code, _ := adapter.ExitCode(err)
		slog.Debug("checker reported violations", "path", file.Path, "exitCode", code, "output", output)
	default:
		slog.Error("checker invocation failed", "path", file.Path, "status", outcome.Status, "error", err)
	}

	return outcome
}

func (ci *checkInvoker) classify(parent, runCtx context.Context, err error) m.CheckStatus {
	if err == nil {
		return m.Clean
	}

	if _, ok := adapter.ExitCode(err); ok {
		return m.RuleViolation
	}

	if parent.Err() == nil && errors.Is(runCtx.Err(), context.DeadlineExceeded) {
		return m.Timeout
	}

	return m.InvocationError
}
