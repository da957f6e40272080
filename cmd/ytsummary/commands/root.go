// Package commands implements the ytsummary command line.
package commands

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/localrivet/ytsummary/internal/config"
)

var (
	// configPath is the path of the JSON configuration file.
	configPath string

	// envFile is the dotenv file loaded before the configuration.
	envFile string

	// logLevel overrides logging.level when set.
	logLevel string

	// cfg and logger are loaded by the root pre-run hook.
	cfg    *config.Config
	logger *slog.Logger
)

// rootCmd is the base command for the CLI.
var rootCmd = &cobra.Command{
	Use:   "ytsummary",
	Short: "Summarize YouTube video transcripts",
	Long: `ytsummary fetches the transcript of a YouTube video, splits it into
chunks and summarizes each chunk with a pretrained model.

It runs as an HTTP service, as an MCP tool server on stdio, or one-shot
from the command line.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&configPath, "config", config.DefaultConfigFilename,
		"Path to the JSON configuration file",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", ".env",
		"Dotenv file with API keys and YTSUMMARY_* settings",
	)
	rootCmd.PersistentFlags().StringVar(
		&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (overrides the config)",
	)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads the dotenv file, the configuration and the logger. The
// logger writes to stderr so stdout stays free for summaries and MCP.
func loadConfig(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	loaded, err := config.LoadConfigWithPath(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.Logging.Level = logLevel
		if err := loaded.Validate(); err != nil {
			return err
		}
	}

	cfg = loaded
	logger = cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return nil
}
