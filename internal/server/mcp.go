package server

import (
	"context"
	"log/slog"
	"strings"

	"github.com/localrivet/gomcp/server"

	"github.com/localrivet/ytsummary/internal/errortypes"
	"github.com/localrivet/ytsummary/internal/pipeline"
	"github.com/localrivet/ytsummary/internal/tools"
)

// MCPServerName is the name the MCP server announces to clients.
const MCPServerName = "ytsummary"

// MCPToolServer exposes the summarization operations as MCP tools over
// stdio. Tool failures are reported in the response body, not as protocol
// errors.
type MCPToolServer struct {
	pipeline  *pipeline.Pipeline
	logger    *slog.Logger
	mcpServer server.Server
}

// NewMCPToolServer creates a new MCPToolServer instance.
func NewMCPToolServer(p *pipeline.Pipeline, logger *slog.Logger) *MCPToolServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &MCPToolServer{
		pipeline: p,
		logger:   logger,
	}
}

// Initialize registers the summarization tools.
func (s *MCPToolServer) Initialize() error {
	s.logger.Info("Initializing MCP tool server")

	if s.pipeline == nil {
		return errortypes.ConfigError(ErrMissingDependencies, "server initialization failed")
	}

	srv := server.NewServer(MCPServerName)

	srv = srv.Tool(tools.ToolSummarizeYouTube, "Summarize the transcript of a YouTube video given its ID or URL",
		s.handleSummarizeYouTube)

	srv = srv.Tool(tools.ToolSummarizeTranscript, "Summarize a transcript given as plain text",
		s.handleSummarizeTranscript)

	s.mcpServer = srv
	s.logger.Info("MCP tool server initialized", "tool_count", 2)
	return nil
}

// Start serves tool calls on stdio until stdin is closed.
func (s *MCPToolServer) Start() error {
	if s.mcpServer == nil {
		return errortypes.ConfigError(ErrServerNotInitialized, "cannot start server")
	}

	s.logger.Info("Starting MCP tool server")
	return s.mcpServer.AsStdio().Run()
}

// Stop is a no-op; the stdio transport exits when stdin is closed.
func (s *MCPToolServer) Stop() error {
	s.logger.Info("Stopping MCP tool server")
	return nil
}

func (s *MCPToolServer) handleSummarizeYouTube(_ *server.Context, req tools.SummarizeYouTubeRequest) (tools.ToolResponse, error) {
	s.logger.Info("Processing summarize_youtube request", "video_id", req.VideoID)

	videoID := strings.TrimSpace(req.VideoID)
	if videoID == "" {
		return toolError(tools.MsgNoVideoID), nil
	}

	summary, err := s.pipeline.SummarizeVideo(context.Background(), videoID)
	if err != nil {
		errortypes.LogError(s.logger, err)
		_, message := errorToResponse(err)
		return toolError(message), nil
	}

	return tools.ToolResponse{Status: tools.StatusSuccess, Summary: summary}, nil
}

func (s *MCPToolServer) handleSummarizeTranscript(_ *server.Context, req tools.SummarizeTranscriptRequest) (tools.ToolResponse, error) {
	s.logger.Info("Processing summarize_transcript request", "text_length", len(req.Transcript))

	if strings.TrimSpace(req.Transcript) == "" {
		return toolError(tools.MsgNoTranscript), nil
	}

	summary, err := s.pipeline.SummarizeText(context.Background(), req.Transcript)
	if err != nil {
		errortypes.LogError(s.logger, err)
		_, message := errorToResponse(err)
		return toolError(message), nil
	}

	return tools.ToolResponse{Status: tools.StatusSuccess, Summary: summary}, nil
}

func toolError(message string) tools.ToolResponse {
	return tools.ToolResponse{Status: tools.StatusError, Error: message}
}
