package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"lintgate.dev/pkg/lintgate/internal/domain"
	m "lintgate.dev/pkg/lintgate/internal/model"
)

// pruneCmd represents the prune command.
var pruneCmd = newPruneCmd()

func newPruneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove registry entries for deleted files",
		Long: `Drop every registry entry whose file no longer exists. The check command
never does this on its own.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := workflow.Prune(cmd.Context(), domain.PruneArgs{
				Registry: m.Path(viper.GetString(registryFlagName)),
			})

			return err
		},
	}
}

func init() {
	rootCmd.AddCommand(pruneCmd)
}
