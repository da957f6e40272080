package commands

import (
	"github.com/spf13/cobra"

	"github.com/localrivet/ytsummary"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve summarize_youtube and summarize_transcript as MCP tools on stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		srv, err := ytsummary.NewServer(ytsummary.ServerOptions{Config: cfg, Logger: logger})
		if err != nil {
			return err
		}
		return srv.StartMCP()
	},
}
