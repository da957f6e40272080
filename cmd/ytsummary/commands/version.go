package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/localrivet/ytsummary"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	// The version needs no configuration.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ytsummary version %s go=%s\n", ytsummary.Version, runtime.Version())
	},
}
