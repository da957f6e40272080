package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/localrivet/ytsummary"
)

var (
	summarizeVideoID string
	summarizeFile    string
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize",
	Short: "Summarize one video or transcript and print the summary",
	Example: `  ytsummary summarize --video-id dQw4w9WgXcQ
  ytsummary summarize --video-id https://youtu.be/dQw4w9WgXcQ
  ytsummary summarize --file talk.txt
  cat talk.txt | ytsummary summarize --file -`,
	RunE: runSummarize,
}

func init() {
	summarizeCmd.Flags().StringVar(
		&summarizeVideoID, "video-id", "",
		"YouTube video ID or URL",
	)
	summarizeCmd.Flags().StringVar(
		&summarizeFile, "file", "",
		"Transcript file to summarize, - for stdin",
	)
	summarizeCmd.MarkFlagsMutuallyExclusive("video-id", "file")
	summarizeCmd.MarkFlagsOneRequired("video-id", "file")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	srv, err := ytsummary.NewServer(ytsummary.ServerOptions{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}

	var summary string
	if summarizeVideoID != "" {
		summary, err = srv.SummarizeVideo(cmd.Context(), summarizeVideoID)
	} else {
		var text string
		text, err = readTranscript(cmd.InOrStdin(), summarizeFile)
		if err != nil {
			return err
		}
		summary, err = srv.SummarizeTranscript(cmd.Context(), text)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), summary)
	return nil
}

// readTranscript reads path, or stdin when path is "-".
func readTranscript(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading transcript: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("transcript is empty")
	}
	return string(data), nil
}
