package adapter

import (
	"context"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// ReportStore persists a human-readable summary of a check run.
type ReportStore interface {
	SaveReport(ctx context.Context, path m.Path, result m.RunResult) error
}

// RunReport is the YAML document written by YAMLReportStore.
type RunReport struct {
	Started  time.Time    `yaml:"started"`
	Duration string       `yaml:"duration"`
	Passed   bool         `yaml:"passed"`
	Totals   ReportTotals `yaml:"totals"`
	Files    []FileReport `yaml:"files"`
}

// ReportTotals counts outcomes per class.
type ReportTotals struct {
	Files     int `yaml:"files"`
	Checked   int `yaml:"checked"`
	Unchanged int `yaml:"unchanged"`
	Failed    int `yaml:"failed"`
}

// FileReport describes the outcome for one file.
type FileReport struct {
	Path   string `yaml:"path"`
	Digest string `yaml:"digest,omitempty"`
	Status string `yaml:"status"`
	Error  string `yaml:"error,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// YAMLReportStore writes run reports as YAML.
type YAMLReportStore struct{}

// NewReportStore constructs a YAMLReportStore.
func NewReportStore() *YAMLReportStore {
	return &YAMLReportStore{}
}

// NewRunReport converts a run result into its report form. Checker output is
// kept for failed files only.
func NewRunReport(result m.RunResult) RunReport {
	report := RunReport{
		Started:  result.Started,
		Duration: result.Finished.Sub(result.Started).Round(time.Millisecond).String(),
		Passed:   !result.Failed(),
		Files:    make([]FileReport, 0, len(result.Outcomes)),
	}

	for _, outcome := range result.Outcomes {
		file := FileReport{
			Path:   string(outcome.File.Path),
			Digest: string(outcome.File.Hash),
			Status: outcome.Status.String(),
		}

		if outcome.Err != nil {
			file.Error = outcome.Err.Error()
		}

		if outcome.Status.Failed() {
			file.Output = outcome.Output
			report.Totals.Failed++
		}

		report.Files = append(report.Files, file)
	}

	report.Totals.Files = len(result.Outcomes)
	report.Totals.Checked = result.Checked()
	report.Totals.Unchanged = result.Count(m.Unchanged)

	return report
}

// SaveReport writes the YAML report for result to path.
func (s *YAMLReportStore) SaveReport(ctx context.Context, path m.Path, result m.RunResult) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := yaml.Marshal(NewRunReport(result))
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if err := os.WriteFile(string(path), data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	return nil
}
