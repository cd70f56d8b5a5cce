package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"lintgate.dev/pkg/lintgate/internal/adapter"
	"lintgate.dev/pkg/lintgate/internal/domain"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

var checkParallelFlag int
var checkTimeoutFlag int
var checkCheckerFlag string
var checkFilterIncludeFlag []string
var checkFilterExcludeFlag []string

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check [paths...]",
		Short:        "Check changed source files",
		Long:         checkLongDescription,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			_, err := workflow.Check(ctx, checkArgs(args))

			return err
		},
	}

	configureCheckFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func configureCheckFlags(cmd *cobra.Command) {
	cmd.Flags().IntVarP(&checkParallelFlag, runParallelFlagName, "p", defaultRunParallel, "number of files checked concurrently")
	bindFlagToConfig(cmd.Flags().Lookup(runParallelFlagName), runParallelConfigKey)

	cmd.Flags().IntVar(&checkTimeoutFlag, timeoutFlagName, int(defaultCheckerTimeout.Seconds()), "per-file checker timeout in seconds (0 disables)")
	bindFlagToConfig(cmd.Flags().Lookup(timeoutFlagName), checkerTimeoutKey)

	cmd.Flags().StringVar(&checkCheckerFlag, checkerFlagName, strings.Join(adapter.DefaultCheckerCommand, " "), "checker command line, the file path is appended")
	bindFlagToConfig(cmd.Flags().Lookup(checkerFlagName), checkerCommandKey)

	cmd.Flags().StringSliceVar(&checkFilterIncludeFlag, filterIncludeFlagName, nil, "checker categories to enable, e.g. build/include_what_you_use")
	bindFlagToConfig(cmd.Flags().Lookup(filterIncludeFlagName), filterIncludeKey)

	cmd.Flags().StringSliceVar(&checkFilterExcludeFlag, filterExcludeFlagName, domain.DefaultFilterExcludes, "checker categories to suppress")
	bindFlagToConfig(cmd.Flags().Lookup(filterExcludeFlagName), filterExcludeKey)
}

func checkArgs(args []string) domain.CheckArgs {
	return domain.CheckArgs{
		ScanArgs: scanArgs(args),
		Report:   m.Path(viper.GetString(reportFlagName)),
		Threads:  viper.GetInt(runParallelConfigKey),
		Checker:  viper.GetStringSlice(checkerCommandKey),
		Filter: domain.FilterRuleSet{
			Includes: viper.GetStringSlice(filterIncludeKey),
			Excludes: viper.GetStringSlice(filterExcludeKey),
		},
		Timeout: time.Duration(viper.GetInt64(checkerTimeoutKey)) * time.Second,
	}
}
