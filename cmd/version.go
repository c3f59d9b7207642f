package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/morokoshi/quizlet/internal/bank"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), "quizlet", version)
		fmt.Fprintln(cmd.OutOrStdout(), "bank format", bank.SupportedMajor+".x")
	},
}
