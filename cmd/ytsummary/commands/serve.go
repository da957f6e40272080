package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/localrivet/ytsummary"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP service",
	Long: `Serve the web page and the JSON endpoints:

  GET  /                      landing page
  POST /summarize_youtube     {"video_id": "..."}
  POST /summarize_transcript  {"transcript": "..."}
  GET  /healthz               health report
  GET  /metrics               metrics report`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(
		&serveAddr, "addr", "",
		"Listen address (overrides server.addr)",
	)
}

// runServe serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	srv, err := ytsummary.NewServer(ytsummary.ServerOptions{Config: cfg, Logger: logger})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Received shutdown signal, terminating gracefully")
	}

	if err := srv.Stop(); err != nil {
		return err
	}
	return <-errCh
}
