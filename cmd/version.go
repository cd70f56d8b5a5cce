package cmd

import (
	"runtime/debug"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// registryFormat describes the on-disk registry line layout.
const registryFormat = "<path>:<digest>"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show lintgate version and registry format",
		Long: `Displays the lintgate build version, the Go toolchain it was built with and
the registry format and hash algorithm in effect.`,
		Run: func(cmd *cobra.Command, _ []string) {
			version := "unknown"

			info, ok := debug.ReadBuildInfo()
			if ok && info.Main.Version != "" {
				version = info.Main.Version
			}

			cmd.Println("lintgate version\t", version)

			if ok {
				cmd.Println("go version\t\t", info.GoVersion)
			}

			cmd.Println("registry format\t", registryFormat)
			cmd.Println("hash algorithm\t\t", viper.GetString(hashAlgorithmKey))
		},
	}
}

// versionCmd represents the version command.
var versionCmd = newVersionCmd()

func init() {
	rootCmd.AddCommand(versionCmd)
}
