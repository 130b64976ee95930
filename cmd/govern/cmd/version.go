package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"boscoin.io/govern/lib/version"
)

func init() {
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(output, "%s\n", version.ToDetailVersion())
	},
}
