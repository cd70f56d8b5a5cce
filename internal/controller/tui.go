package controller

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

var (
	cleanStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	headerStyle  = lipgloss.NewStyle().Bold(true)
	outputIndent = "    "
)

// TUI implements UI with a live Bubble Tea progress view for interactive
// terminals. Final summaries are printed once the program has exited.
type TUI struct {
	output  io.Writer
	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the progress program in check mode. List mode prints only.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options...)
	if cfg.mode != ModeCheck {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.program != nil {
		return fmt.Errorf("ui already started")
	}

	t.program = tea.NewProgram(
		newProgressModel(),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithoutSignalHandler(),
	)
	t.done = make(chan struct{})

	program, done := t.program, t.done

	go func() {
		defer close(done)

		_, _ = program.Run()
	}()

	return nil
}

// Close stops the progress program and waits for it to restore the terminal.
func (t *TUI) Close(_ context.Context) {
	t.mu.Lock()
	program, done := t.program, t.done
	t.program, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(progressDoneMsg{})
	<-done
}

func (t *TUI) send(msg tea.Msg) {
	t.mu.Lock()
	program := t.program
	t.mu.Unlock()

	if program != nil {
		program.Send(msg)
	}
}

// DisplayRunInfo sets the progress total.
func (t *TUI) DisplayRunInfo(ctx context.Context, files int, threads int) {
	if ctx.Err() != nil {
		return
	}

	t.send(runInfoMsg{files: files, threads: threads})
}

// DisplayCompletedCheck advances the progress view.
func (t *TUI) DisplayCompletedCheck(ctx context.Context, outcome m.CheckOutcome) {
	if ctx.Err() != nil {
		return
	}

	t.send(outcomeMsg{outcome: outcome})
}

// DisplaySummary stops the progress view and prints failures and totals.
func (t *TUI) DisplaySummary(ctx context.Context, result m.RunResult) {
	t.Close(ctx)

	_, _ = io.WriteString(t.output, renderSummary(result))
}

// DisplayCandidates prints the change state of every eligible file.
func (t *TUI) DisplayCandidates(ctx context.Context, candidates []m.Candidate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("lintgate - pending checks") + "\n\n")

	pending := 0

	for _, candidate := range candidates {
		if candidate.Changed {
			pending++

			fmt.Fprintf(&b, "  %s %s\n", failedStyle.Render("●"), candidate.File.Path)

			continue
		}

		fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("○"), mutedStyle.Render(string(candidate.File.Path)))
	}

	fmt.Fprintf(&b, "\n  %d of %d file(s) need checking\n", pending, len(candidates))

	_, err := io.WriteString(t.output, b.String())

	return err
}

// DisplayPruned prints the removed registry entries.
func (t *TUI) DisplayPruned(ctx context.Context, removed []m.Path) {
	if ctx.Err() != nil {
		return
	}

	var b strings.Builder

	for _, path := range removed {
		fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render("-"), path)
	}

	fmt.Fprintf(&b, "Pruned %d stale registry entr%s\n", len(removed), plural(len(removed), "y", "ies"))

	_, _ = io.WriteString(t.output, b.String())
}

func renderSummary(result m.RunResult) string {
	var b strings.Builder

	failures := 0

	for _, outcome := range result.Outcomes {
		if !outcome.Status.Failed() {
			continue
		}

		failures++

		fmt.Fprintf(&b, "%s %s\n", failedStyle.Render(outcome.Status.String()), outcome.File.Path)

		if outcome.Err != nil && outcome.Status != m.RuleViolation {
			fmt.Fprintf(&b, "%s%v\n", outputIndent, outcome.Err)
		}

		for _, line := range strings.Split(strings.TrimRight(outcome.Output, "\n"), "\n") {
			if line != "" {
				b.WriteString(outputIndent + line + "\n")
			}
		}
	}

	if failures > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Checked %d, unchanged %d, failed %d\n",
		result.Checked(), result.Count(m.Unchanged), failures)

	if result.Failed() {
		b.WriteString(failedStyle.Render("✗ style violations found") + "\n")
	} else {
		b.WriteString(cleanStyle.Render("✓ all files clean") + "\n")
	}

	return b.String()
}

type runInfoMsg struct {
	files   int
	threads int
}

type outcomeMsg struct {
	outcome m.CheckOutcome
}

type progressDoneMsg struct{}

// progressModel is the Bubble Tea model for the live check view.
type progressModel struct {
	spinner  spinner.Model
	total    int
	threads  int
	done     int
	checked  int
	failed   int
	last     string
	quitting bool
}

func newProgressModel() progressModel {
	return progressModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runInfoMsg:
		pm.total = msg.files
		pm.threads = msg.threads

		return pm, nil

	case outcomeMsg:
		pm.done++
		pm.last = string(msg.outcome.File.Path)

		if msg.outcome.Status != m.Unchanged && msg.outcome.Status != m.AccessError {
			pm.checked++
		}

		if msg.outcome.Status.Failed() {
			pm.failed++
		}

		return pm, nil

	case progressDoneMsg:
		pm.quitting = true
		return pm, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd

		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm progressModel) View() string {
	if pm.quitting {
		return ""
	}

	status := cleanStyle.Render(fmt.Sprintf("%d failed", pm.failed))
	if pm.failed > 0 {
		status = failedStyle.Render(fmt.Sprintf("%d failed", pm.failed))
	}

	return fmt.Sprintf("%s %d/%d files · %d checked · %s  %s\n",
		pm.spinner.View(), pm.done, pm.total, pm.checked, status, mutedStyle.Render(pm.last))
}
