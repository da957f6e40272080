package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/localrivet/ytsummary"
	"github.com/localrivet/ytsummary/internal/config"
)

var (
	configInitPath  string
	configInitForce bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	// An existing file may be invalid; that is what init replaces.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(configInitPath); err == nil && !configInitForce {
			return fmt.Errorf("%s already exists (use --force to overwrite)", configInitPath)
		}

		if err := config.NewConfig().SaveToFile(configInitPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", configInitPath)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := ytsummary.SaveConfig(cfg)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(content))
		return nil
	},
}

func init() {
	configInitCmd.Flags().StringVar(
		&configInitPath, "path", config.DefaultConfigFilename,
		"Where to write the configuration",
	)
	configInitCmd.Flags().BoolVar(
		&configInitForce, "force", false,
		"Overwrite an existing file",
	)

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
