// Package server exposes the summarization pipeline over HTTP and over MCP.
package server

// SummaryServer is a transport that serves the summarization operations.
type SummaryServer interface {
	// Initialize registers routes or tools. It must be called before Start.
	Initialize() error

	// Start serves requests until the server is stopped.
	Start() error

	// Stop gracefully shuts down the server.
	Stop() error
}
