// Package cmd provides the root command and CLI setup for lintgate.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"lintgate.dev/pkg/lintgate/internal/adapter"
	"lintgate.dev/pkg/lintgate/internal/controller"
	"lintgate.dev/pkg/lintgate/internal/domain"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

var fsAdapter adapter.SourceFSAdapter
var registryStore adapter.RegistryStore
var checkerAdapter adapter.CheckerAdapter
var reportStore adapter.ReportStore
var workflow domain.Workflow
var ui controller.UI

// registryFlag is the path of the hash registry artifact.
var registryFlag string

// reportFlag is the path of the optional YAML run report.
var reportFlag string

// noCacheFlag disables incremental caching when set.
var noCacheFlag bool

// verboseFlag enables debug logging and per-file output for clean files.
var verboseFlag bool

// excludePatterns is a root-level flag that filters files for applicable commands.
var excludePatterns []string

func init() {
	configureRootFlags(rootCmd)

	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	registryStore = adapter.NewTextRegistryStore(viper.GetBool(registryStrictKey))
	checkerAdapter = adapter.NewLocalCheckerAdapter()
	reportStore = adapter.NewReportStore()
	workflow = domain.NewWorkflow(
		fsAdapter,
		registryStore,
		checkerAdapter,
		reportStore,
		ui,
	)
}

const pathPatternsHelp = `Paths default to the configured source roots (paths.roots). Directories
are scanned recursively; Go-style patterns are accepted as well:
  - src/...        recursively scan src
  - src include    scan multiple directories
  - src/main.cpp   check a single file`

const rootLongDescription = `Lintgate runs a style checker (cpplint by default) only on the C++ sources
that changed since the last clean run. Content hashes of files that passed
are kept in a registry file; any failing file makes the command exit non-zero
so it can gate a build.

` + pathPatternsHelp

const checkLongDescription = `Check every new or modified source file and record the ones that pass.

` + pathPatternsHelp

const listLongDescription = `List eligible source files and whether they would be checked.

` + pathPatternsHelp

// rootCmd represents the base command when called without any subcommands.
var rootCmd = baseRootCmd()

func baseRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lintgate",
		Short: "Incremental style checks for C++ sources",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			verbose := viper.GetBool(logVerboseKey)
			configureLogger(viper.GetString(logFilenameKey), verbose)

			if v, ok := ui.(interface{ SetVerbose(bool) }); ok {
				v.SetVerbose(verbose)
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}
}

func newRootCmd() *cobra.Command {
	cmd := baseRootCmd()
	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&registryFlag, registryFlagName, "r",
			viper.GetString(registryFlagName),
			"path of the hash registry file",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(registryFlagName), registryFlagName)

	cmd.PersistentFlags().StringVar(&reportFlag, reportFlagName, viper.GetString(reportFlagName), "write a YAML run report to this path")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(reportFlagName), reportFlagName)

	cmd.PersistentFlags().BoolVar(&noCacheFlag, noCacheFlagName, viper.GetBool(noCacheFlagName), "ignore the registry and check every file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(noCacheFlagName), noCacheFlagName)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "verbose output and debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringArrayVarP(&excludePatterns, excludeFlagName, "x", viper.GetStringSlice(excludeConfigKey), "exclude files matching glob, e.g. '**/third_party/**' (can be repeated)")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(excludeFlagName), excludeConfigKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func parsePaths(args []string) []m.Path {
	paths := make([]m.Path, 0, len(args))
	for _, arg := range args {
		paths = append(paths, m.Path(arg))
	}

	return paths
}

// scanArgs collects the file selection shared by check and list.
func scanArgs(args []string) domain.ScanArgs {
	paths := parsePaths(args)
	if len(paths) == 0 {
		paths = parsePaths(viper.GetStringSlice(pathsRootsKey))
	}

	return domain.ScanArgs{
		Paths:         paths,
		Exclude:       viper.GetStringSlice(excludeConfigKey),
		Extensions:    viper.GetStringSlice(pathsExtensionsKey),
		Recursive:     viper.GetBool(pathsRecursiveKey),
		Registry:      m.Path(viper.GetString(registryFlagName)),
		HashAlgorithm: viper.GetString(hashAlgorithmKey),
		UseCache:      !viper.GetBool(noCacheFlagName),
	}
}
