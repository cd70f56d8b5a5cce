package domain_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lintgate.dev/pkg/lintgate/internal/adapter"
	"lintgate.dev/pkg/lintgate/internal/controller"
	"lintgate.dev/pkg/lintgate/internal/domain"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// These tests drive the workflow end to end: real filesystem, real registry
// artifact and a shell script standing in for the style checker. The script
// fails any file containing the word BAD and appends every checked path to
// calls.log.

type fixture struct {
	t        *testing.T
	root     string
	src      string
	registry string
	calls    string
	checker  string
	out      *bytes.Buffer
	workflow domain.Workflow
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("shell-script checker requires a POSIX shell")
	}

	root := t.TempDir()
	fx := &fixture{
		t:        t,
		root:     root,
		src:      filepath.Join(root, "src"),
		registry: filepath.Join(root, "hashRegister.txt"),
		calls:    filepath.Join(root, "calls.log"),
		checker:  filepath.Join(root, "checker.sh"),
		out:      &bytes.Buffer{},
	}

	require.NoError(t, os.Mkdir(fx.src, 0o755))

	script := fmt.Sprintf(`#!/bin/sh
for last; do :; done
echo "$last" >> %q
if grep -q BAD "$last"; then
  echo "$last:1:  Found BAD  [readability/bad] [5]"
  exit 1
fi
exit 0
`, fx.calls)
	require.NoError(t, os.WriteFile(fx.checker, []byte(script), 0o755))

	cmd := &cobra.Command{}
	cmd.SetOut(fx.out)

	fx.workflow = domain.NewWorkflow(
		adapter.NewLocalSourceFSAdapter(),
		adapter.NewTextRegistryStore(false),
		adapter.NewLocalCheckerAdapter(),
		adapter.NewReportStore(),
		controller.NewSimpleUI(cmd),
	)

	return fx
}

func (fx *fixture) write(name, content string) string {
	fx.t.Helper()

	path := filepath.Join(fx.src, name)
	require.NoError(fx.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(fx.t, os.WriteFile(path, []byte(content), 0o644))

	return path
}

func (fx *fixture) args() domain.CheckArgs {
	return domain.CheckArgs{
		ScanArgs: domain.ScanArgs{
			Paths:     []m.Path{m.Path(fx.src)},
			Recursive: true,
			Registry:  m.Path(fx.registry),
			UseCache:  true,
		},
		Threads: 1,
		Checker: []string{fx.checker},
		Filter:  domain.FilterRuleSet{Excludes: domain.DefaultFilterExcludes},
	}
}

func (fx *fixture) run() (m.RunResult, error) {
	return fx.workflow.Check(context.Background(), fx.args())
}

// takeCalls returns and resets the paths the checker saw.
func (fx *fixture) takeCalls() []string {
	fx.t.Helper()

	data, err := os.ReadFile(fx.calls)
	if os.IsNotExist(err) {
		return nil
	}

	require.NoError(fx.t, err)
	require.NoError(fx.t, os.Remove(fx.calls))

	return strings.Fields(string(data))
}

func (fx *fixture) registryEntries() map[string]string {
	fx.t.Helper()

	registry, err := adapter.NewTextRegistryStore(true).Load(context.Background(), m.Path(fx.registry))
	require.NoError(fx.t, err)

	entries := map[string]string{}
	for _, entry := range registry.Entries() {
		entries[string(entry.Path)] = string(entry.Digest)
	}

	return entries
}

func TestWorkflow_Check_RetryUntilClean(t *testing.T) {
	fx := newFixture(t)
	header := fx.write("a.h", "#pragma once\n")

	_, err := fx.run()
	require.NoError(t, err)
	assert.Equal(t, []string{header}, fx.takeCalls())

	firstDigest := fx.registryEntries()[header]
	require.NotEmpty(t, firstDigest)

	fx.write("a.h", "#pragma once\nBAD\n")

	_, err = fx.run()
	require.ErrorIs(t, err, domain.ErrStyleViolations)
	assert.Equal(t, []string{header}, fx.takeCalls())
	assert.Equal(t, firstDigest, fx.registryEntries()[header], "failed files keep their previous digest")

	_, err = fx.run()
	require.ErrorIs(t, err, domain.ErrStyleViolations)
	assert.Equal(t, []string{header}, fx.takeCalls(), "failing file is re-examined")

	fx.write("a.h", "#pragma once\nGOOD\n")

	_, err = fx.run()
	require.NoError(t, err)
	assert.Equal(t, []string{header}, fx.takeCalls())
	assert.NotEqual(t, firstDigest, fx.registryEntries()[header])
}

func TestWorkflow_Check_AggregateFailure(t *testing.T) {
	fx := newFixture(t)
	f1 := fx.write("f1.cpp", "int one;\n")
	f2 := fx.write("f2.cpp", "BAD\n")
	f3 := fx.write("nested/f3.h", "int three;\n")

	result, err := fx.run()
	require.ErrorIs(t, err, domain.ErrStyleViolations)
	assert.Contains(t, err.Error(), "1 of 3")

	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, m.Clean, result.Outcomes[0].Status)
	assert.Equal(t, m.RuleViolation, result.Outcomes[1].Status)
	assert.Equal(t, m.Clean, result.Outcomes[2].Status)

	entries := fx.registryEntries()
	assert.Contains(t, entries, f1)
	assert.NotContains(t, entries, f2)
	assert.Contains(t, entries, f3)

	assert.Contains(t, fx.out.String(), "Found BAD")
}

func TestWorkflow_Check_IdempotentOnCleanTree(t *testing.T) {
	fx := newFixture(t)
	fx.write("a.cpp", "int a;\n")
	fx.write("b.h", "int b;\n")

	_, err := fx.run()
	require.NoError(t, err)
	assert.Len(t, fx.takeCalls(), 2)

	before, err := os.ReadFile(fx.registry)
	require.NoError(t, err)

	result, err := fx.run()
	require.NoError(t, err)
	assert.Empty(t, fx.takeCalls(), "unchanged files are never re-checked")
	assert.Equal(t, 2, result.Count(m.Unchanged))

	after, err := os.ReadFile(fx.registry)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestWorkflow_Check_IgnoresOtherExtensions(t *testing.T) {
	fx := newFixture(t)
	fx.write("README.md", "BAD\n")
	fx.write("build.py", "BAD\n")
	header := fx.write("ok.h", "int ok;\n")

	_, err := fx.run()
	require.NoError(t, err)
	assert.Equal(t, []string{header}, fx.takeCalls())
	assert.Equal(t, map[string]string{header: fx.registryEntries()[header]}, fx.registryEntries())
}

func TestWorkflow_Check_PreservesStaleEntries(t *testing.T) {
	fx := newFixture(t)
	fx.write("a.h", "int a;\n")
	require.NoError(t, os.WriteFile(fx.registry, []byte("../src/deleted.cpp:0123abcd\n"), 0o644))

	_, err := fx.run()
	require.NoError(t, err)

	assert.Equal(t, "0123abcd", fx.registryEntries()["../src/deleted.cpp"])
	assert.Len(t, fx.registryEntries(), 2)
}

func TestWorkflow_Check_NoCacheRechecksEverything(t *testing.T) {
	fx := newFixture(t)
	fx.write("a.h", "int a;\n")

	_, err := fx.run()
	require.NoError(t, err)
	fx.takeCalls()

	args := fx.args()
	args.UseCache = false

	_, err = fx.workflow.Check(context.Background(), args)
	require.NoError(t, err)
	assert.Len(t, fx.takeCalls(), 1)
}

func TestWorkflow_Check_Parallel(t *testing.T) {
	fx := newFixture(t)

	for i := 0; i < 24; i++ {
		content := fmt.Sprintf("int v%d;\n", i)
		if i%6 == 0 {
			content += "BAD\n"
		}

		fx.write(fmt.Sprintf("f%02d.cpp", i), content)
	}

	args := fx.args()
	args.Threads = 6

	result, err := fx.workflow.Check(context.Background(), args)
	require.ErrorIs(t, err, domain.ErrStyleViolations)
	require.Len(t, result.Outcomes, 24)

	for i, outcome := range result.Outcomes {
		assert.Equal(t, m.Path(filepath.Join(fx.src, fmt.Sprintf("f%02d.cpp", i))), outcome.File.Path, "outcomes keep discovery order")
	}

	assert.Equal(t, 4, result.Count(m.RuleViolation))
	assert.Len(t, fx.registryEntries(), 20, "every clean file is recorded exactly once")
	assert.Len(t, fx.takeCalls(), 24)
}

func TestWorkflow_Check_WritesReport(t *testing.T) {
	fx := newFixture(t)
	fx.write("a.h", "BAD\n")

	args := fx.args()
	args.Report = m.Path(filepath.Join(fx.root, "report.yaml"))

	_, err := fx.workflow.Check(context.Background(), args)
	require.ErrorIs(t, err, domain.ErrStyleViolations)

	data, err := os.ReadFile(string(args.Report))
	require.NoError(t, err)
	assert.Contains(t, string(data), "passed: false")
	assert.Contains(t, string(data), "status: violation")
}

func TestWorkflow_Check_MissingCheckerFailsRun(t *testing.T) {
	fx := newFixture(t)
	fx.write("a.h", "int a;\n")

	args := fx.args()
	args.Checker = []string{filepath.Join(fx.root, "no-such-checker")}

	result, err := fx.workflow.Check(context.Background(), args)
	require.ErrorIs(t, err, domain.ErrStyleViolations)
	require.Len(t, result.Outcomes, 1)
	assert.Equal(t, m.InvocationError, result.Outcomes[0].Status)
	assert.Empty(t, fx.registryEntries())
}

func TestWorkflow_Check_RegistrySaveError(t *testing.T) {
	fx := newFixture(t)
	fx.write("a.h", "int a;\n")

	args := fx.args()
	args.Registry = m.Path(filepath.Join(fx.root, "missing-dir", "hashRegister.txt"))

	_, err := fx.workflow.Check(context.Background(), args)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save registry")
}

func TestWorkflow_Check_UnknownHashAlgorithm(t *testing.T) {
	fx := newFixture(t)

	args := fx.args()
	args.HashAlgorithm = "crc32"

	_, err := fx.workflow.Check(context.Background(), args)
	require.ErrorIs(t, err, adapter.ErrUnknownHashAlgorithm)
}

func TestWorkflow_List_DoesNotCheckOrWrite(t *testing.T) {
	fx := newFixture(t)
	fx.write("a.h", "int a;\n")

	_, err := fx.run()
	require.NoError(t, err)
	fx.takeCalls()

	fx.write("b.cpp", "int b;\n")

	before, err := os.ReadFile(fx.registry)
	require.NoError(t, err)

	fx.out.Reset()
	require.NoError(t, fx.workflow.List(context.Background(), fx.args().ScanArgs))

	assert.Empty(t, fx.takeCalls())

	after, err := os.ReadFile(fx.registry)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	out := fx.out.String()
	assert.Contains(t, out, "b.cpp")
	assert.Contains(t, out, "new")
	assert.Contains(t, out, "unchanged")
}

func TestWorkflow_Prune(t *testing.T) {
	fx := newFixture(t)
	kept := fx.write("a.h", "int a;\n")
	require.NoError(t, os.WriteFile(fx.registry, []byte(kept+":aa\n"+filepath.Join(fx.src, "gone.h")+":bb\n"), 0o644))

	removed, err := fx.workflow.Prune(context.Background(), domain.PruneArgs{Registry: m.Path(fx.registry)})
	require.NoError(t, err)
	assert.Equal(t, []m.Path{m.Path(filepath.Join(fx.src, "gone.h"))}, removed)
	assert.Equal(t, map[string]string{kept: "aa"}, fx.registryEntries())
}
