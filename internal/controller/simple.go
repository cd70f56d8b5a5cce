package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// SimpleUI implements UI using plain line output on the cobra command's
// stdout. It suits CI logs.
type SimpleUI struct {
	cmd     *cobra.Command
	mu      sync.Mutex
	verbose bool
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// SetVerbose makes the UI also print unchanged and clean files.
func (s *SimpleUI) SetVerbose(verbose bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.verbose = verbose
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	return ctx.Err()
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// DisplayRunInfo prints how many files are about to be examined.
func (s *SimpleUI) DisplayRunInfo(ctx context.Context, files int, threads int) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("Examining %d file(s) with %d worker(s)\n", files, threads)
}

// DisplayCompletedCheck prints the outcome for a single file. Checker output
// is shown for failed files.
func (s *SimpleUI) DisplayCompletedCheck(ctx context.Context, outcome m.CheckOutcome) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.mu.Lock()
	verbose := s.verbose
	s.mu.Unlock()

	if !verbose && !outcome.Status.Failed() {
		return
	}

	var b strings.Builder

	fmt.Fprintf(&b, "%-10s %s\n", outcome.Status, outcome.File.Path)

	if outcome.Err != nil && outcome.Status != m.RuleViolation {
		fmt.Fprintf(&b, "  %v\n", outcome.Err)
	}

	if outcome.Status.Failed() {
		for _, line := range strings.Split(strings.TrimRight(outcome.Output, "\n"), "\n") {
			if line != "" {
				fmt.Fprintf(&b, "  %s\n", line)
			}
		}
	}

	s.printf("%s", b.String())
}

// DisplaySummary prints the totals table and the verdict.
func (s *SimpleUI) DisplaySummary(_ context.Context, result m.RunResult) {
	s.printf("\n%s", renderSummaryTable(result))

	if result.Failed() {
		s.printf("FAILED: style violations found\n")
		return
	}

	s.printf("PASSED\n")
}

// DisplayCandidates prints every eligible file with its change state.
func (s *SimpleUI) DisplayCandidates(ctx context.Context, candidates []m.Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.printf("\n%s", renderCandidatesTable(candidates))

	return nil
}

// DisplayPruned prints the registry entries that were removed.
func (s *SimpleUI) DisplayPruned(ctx context.Context, removed []m.Path) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, path := range removed {
		s.printf("pruned %s\n", path)
	}

	s.printf("Pruned %d stale registry entr%s\n", len(removed), plural(len(removed), "y", "ies"))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}

func renderSummaryTable(result m.RunResult) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	for _, status := range []m.CheckStatus{
		m.Clean, m.Unchanged, m.RuleViolation, m.InvocationError, m.Timeout, m.AccessError,
	} {
		count := result.Count(status)
		if count == 0 && status.Failed() {
			continue
		}

		table.Append([]string{status.String(), fmt.Sprintf("%d", count)})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Checked %d", result.Checked()),
		fmt.Sprintf("%d", len(result.Outcomes)),
	})

	table.Render()

	return tableBuffer.String()
}

func renderCandidatesTable(candidates []m.Candidate) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Path", "State"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	changed := 0

	for _, candidate := range candidates {
		state := "unchanged"

		switch {
		case candidate.Changed && candidate.Previous == "":
			state = "new"
			changed++
		case candidate.Changed && candidate.File.Hash != candidate.Previous:
			state = "modified"
			changed++
		case candidate.Changed:
			state = "forced"
			changed++
		}

		table.Append([]string{string(candidate.File.Path), state})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(candidates)),
		fmt.Sprintf("%d to check", changed),
	})

	table.Render()

	return tableBuffer.String()
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
