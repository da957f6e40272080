package config

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/localrivet/configurator"

	"github.com/localrivet/ytsummary/internal/errortypes"
	"github.com/localrivet/ytsummary/internal/summarizer"
	"github.com/localrivet/ytsummary/internal/summarizer/providers"
)

// Config represents the ytsummary configuration
type Config struct {
	// Server contains HTTP listener configuration.
	Server struct {
		// Addr is the address the HTTP server listens on.
		Addr string `json:"addr" env:"SERVER_ADDR" validate:"required"`

		ReadTimeoutSeconds     int `json:"read_timeout_seconds" env:"SERVER_READ_TIMEOUT_SECONDS" validate:"min:1"`
		WriteTimeoutSeconds    int `json:"write_timeout_seconds" env:"SERVER_WRITE_TIMEOUT_SECONDS" validate:"min:1"`
		ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" env:"SERVER_SHUTDOWN_TIMEOUT_SECONDS" validate:"min:1"`

		// MaxBodyBytes limits the size of JSON request bodies.
		MaxBodyBytes int64 `json:"max_body_bytes" env:"SERVER_MAX_BODY_BYTES"`
	} `json:"server"`

	// Chunker contains transcript chunking configuration.
	Chunker struct {
		// MaxWords is the word budget of one chunk.
		MaxWords int `json:"max_words" env:"CHUNKER_MAX_WORDS" validate:"min:1"`
	} `json:"chunker"`

	// Summarizer contains summarization-related configuration.
	Summarizer struct {
		// Provider is the name of the summarization provider to use.
		Provider string `json:"provider" env:"SUMMARIZER_PROVIDER" validate:"required"`

		// ModelID selects the model; empty means the provider default.
		ModelID string `json:"model_id" env:"SUMMARIZER_MODEL_ID"`

		// APIKey is the API key for the summarization provider.
		APIKey string `json:"api_key" env:"SUMMARIZER_API_KEY"`

		// BaseURL overrides the provider endpoint.
		BaseURL string `json:"base_url" env:"SUMMARIZER_BASE_URL"`

		// FallbackProviders is a comma separated list of providers tried in
		// order when the primary one fails.
		FallbackProviders string `json:"fallback_providers" env:"SUMMARIZER_FALLBACK_PROVIDERS"`

		MaxLength      int `json:"max_length" env:"SUMMARIZER_MAX_LENGTH" validate:"min:1"`
		MinLength      int `json:"min_length" env:"SUMMARIZER_MIN_LENGTH" validate:"min:1"`
		TimeoutSeconds int `json:"timeout_seconds" env:"SUMMARIZER_TIMEOUT_SECONDS" validate:"min:1"`
	} `json:"summarizer"`

	// Transcript contains YouTube transcript fetching configuration.
	Transcript struct {
		// Languages is a comma separated list of preferred caption languages.
		Languages      string `json:"languages" env:"TRANSCRIPT_LANGUAGES"`
		TimeoutSeconds int    `json:"timeout_seconds" env:"TRANSCRIPT_TIMEOUT_SECONDS" validate:"min:1"`
		BaseURL        string `json:"base_url" env:"TRANSCRIPT_BASE_URL" validate:"required"`
	} `json:"transcript"`

	// Logging contains logging-related configuration.
	Logging struct {
		// Level is the minimum log level to display ("debug", "info", "warn", "error").
		Level string `json:"level" env:"LOG_LEVEL" validate:"required"`

		// Format is the log format to use ("text", "json").
		Format string `json:"format" env:"LOG_FORMAT"`
	} `json:"logging"`

	// Internal state (not saved to config file)
	configPath     string       `json:"-"`
	mutex          sync.RWMutex `json:"-"`
	lastModifiedAt time.Time    `json:"-"`
}

// Default configuration values
const (
	DefaultConfigFilename = ".ytsummaryconfig"
	EnvPrefix             = "YTSUMMARY"

	DefaultAddr              = ":5000"
	DefaultReadTimeout       = 30
	DefaultWriteTimeout      = 300
	DefaultShutdownTimeout   = 10
	DefaultMaxBodyBytes      = 1 << 20
	DefaultMaxChunkWords     = 1024
	DefaultProvider          = providers.ProviderHuggingFace
	DefaultModelID           = "facebook/bart-large-cnn"
	DefaultSummarizerTimeout = 120
	DefaultLanguages         = "en"
	DefaultTranscriptTimeout = 15
	DefaultTranscriptBaseURL = "https://www.youtube.com"
	DefaultLogLevel          = "info"
	DefaultLogFormat         = "text"
)

// providerKeyEnv lists the conventional environment variables holding each
// provider's API key, in lookup order.
var providerKeyEnv = map[string][]string{
	providers.ProviderHuggingFace: {"HF_API_TOKEN", "HUGGINGFACEHUB_API_TOKEN"},
	providers.ProviderOpenAI:      {"OPENAI_API_KEY"},
	providers.ProviderAnthropic:   {"ANTHROPIC_API_KEY"},
	providers.ProviderGoogle:      {"GOOGLE_API_KEY", "GEMINI_API_KEY"},
	providers.ProviderXAI:         {"XAI_API_KEY"},
}

// NewConfig creates a new Config instance with default values
func NewConfig() *Config {
	config := &Config{}
	config.Server.Addr = DefaultAddr
	config.Server.ReadTimeoutSeconds = DefaultReadTimeout
	config.Server.WriteTimeoutSeconds = DefaultWriteTimeout
	config.Server.ShutdownTimeoutSeconds = DefaultShutdownTimeout
	config.Server.MaxBodyBytes = DefaultMaxBodyBytes
	config.Chunker.MaxWords = DefaultMaxChunkWords
	config.Summarizer.Provider = DefaultProvider
	config.Summarizer.ModelID = DefaultModelID
	config.Summarizer.MaxLength = summarizer.DefaultMaxSummaryLength
	config.Summarizer.MinLength = summarizer.DefaultMinSummaryLength
	config.Summarizer.TimeoutSeconds = DefaultSummarizerTimeout
	config.Transcript.Languages = DefaultLanguages
	config.Transcript.TimeoutSeconds = DefaultTranscriptTimeout
	config.Transcript.BaseURL = DefaultTranscriptBaseURL
	config.Logging.Level = DefaultLogLevel
	config.Logging.Format = DefaultLogFormat
	return config
}

// LoadConfig loads the configuration from the default path
func LoadConfig() (*Config, error) {
	return LoadConfigWithPath(DefaultConfigFilename)
}

// LoadConfigWithPath loads the configuration from defaults, the JSON file at
// configPath when it exists, and YTSUMMARY_* environment variables, in that
// order of precedence. Provider API keys missing from all three are taken
// from the provider's conventional environment variable.
func LoadConfigWithPath(configPath string) (*Config, error) {
	// Stdout belongs to the MCP stdio transport.
	stdLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg := NewConfig()

	if configPath == "" {
		configPath = DefaultConfigFilename
	}
	if configPath == DefaultConfigFilename {
		foundPath, err := configurator.FindConfigFile(configPath)
		if err == nil {
			configPath = foundPath
			stdLogger.Debug("Found config file at " + foundPath)
		}
	}

	loader := configurator.New(stdLogger).
		WithProvider(configurator.NewDefaultProvider())

	if _, err := os.Stat(configPath); err == nil {
		stdLogger.Info("Loading configuration", "path", configPath)
		loader = loader.WithProvider(configurator.NewFileProvider(configPath))
	} else {
		stdLogger.Debug("Config file not found, using defaults and environment", "path", configPath)
	}

	loader = loader.
		WithProvider(configurator.NewEnvProvider(EnvPrefix)).
		WithValidator(configurator.NewDefaultValidator())

	if err := loader.Load(context.Background(), cfg); err != nil {
		return nil, errortypes.ConfigError(err, "failed to load configuration").
			WithField("path", configPath)
	}

	if cfg.Summarizer.APIKey == "" {
		cfg.Summarizer.APIKey = APIKeyFromEnv(cfg.Summarizer.Provider)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cfg.configPath = configPath
	cfg.lastModifiedAt = time.Now()

	return cfg, nil
}

// APIKeyFromEnv returns the first non-empty conventional API key variable of
// provider, or "".
func APIKeyFromEnv(provider string) string {
	for _, name := range providerKeyEnv[provider] {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			return v
		}
	}
	return ""
}

// Validate checks the value ranges the validate tags cannot express.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.MaxBodyBytes < 1 {
		problems = append(problems, "server.max_body_bytes must be at least 1")
	}
	if c.Chunker.MaxWords < 1 {
		problems = append(problems, "chunker.max_words must be at least 1")
	}
	if c.Summarizer.MinLength < 1 {
		problems = append(problems, "summarizer.min_length must be at least 1")
	}
	if c.Summarizer.MaxLength < c.Summarizer.MinLength {
		problems = append(problems, fmt.Sprintf("summarizer.max_length (%d) is below summarizer.min_length (%d)",
			c.Summarizer.MaxLength, c.Summarizer.MinLength))
	}
	if p := c.Summarizer.Provider; p != summarizer.BasicName && !providers.IsKnown(p) {
		problems = append(problems, fmt.Sprintf("unknown summarizer.provider %q", p))
	}
	for _, fb := range c.FallbackProviders() {
		if !providers.IsKnown(fb) {
			problems = append(problems, fmt.Sprintf("unknown fallback provider %q", fb))
		}
	}
	if _, err := parseLevel(c.Logging.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(c.Logging.Format) {
	case "", "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("unknown logging.format %q", c.Logging.Format))
	}

	if len(problems) > 0 {
		return errortypes.ConfigError(nil, "invalid configuration: "+strings.Join(problems, "; "))
	}
	return nil
}

// FallbackProviders returns the configured fallback provider names.
func (c *Config) FallbackProviders() []string {
	return splitList(c.Summarizer.FallbackProviders)
}

// TranscriptLanguages returns the preferred caption languages.
func (c *Config) TranscriptLanguages() []string {
	return splitList(c.Transcript.Languages)
}

// SummarizerConfig converts the summarizer section into the settings of a
// summarizer.ModelSummarizer. Fallback providers read their keys from the
// conventional environment variables.
func (c *Config) SummarizerConfig() *summarizer.ModelSummarizerConfig {
	mc := &summarizer.ModelSummarizerConfig{
		Primary: summarizer.ProviderSettings{
			Name:    c.Summarizer.Provider,
			ModelID: c.Summarizer.ModelID,
			APIKey:  c.Summarizer.APIKey,
			BaseURL: c.Summarizer.BaseURL,
		},
		Timeout: seconds(c.Summarizer.TimeoutSeconds),
	}
	for _, name := range c.FallbackProviders() {
		mc.Fallbacks = append(mc.Fallbacks, summarizer.ProviderSettings{
			Name:   name,
			APIKey: APIKeyFromEnv(name),
		})
	}
	return mc
}

// NewLogger builds a slog logger at the configured level and format. A nil
// w writes to stderr.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}

	level, err := parseLevel(c.Logging.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Logging.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SaveToFile saves the configuration to the specified file
func (c *Config) SaveToFile(path string) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	// Create directory if needed
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := configurator.SaveToFile(c, path, configurator.FormatJSON); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	c.configPath = path
	c.lastModifiedAt = time.Now()

	return nil
}

// Save saves the configuration to the last used file path
func (c *Config) Save() error {
	if c.configPath == "" {
		c.configPath = DefaultConfigFilename
	}
	return c.SaveToFile(c.configPath)
}

// GetConfigPath returns the path of the currently loaded configuration file
func (c *Config) GetConfigPath() string {
	return c.configPath
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}

// Duration helpers for the integer settings.
func (c *Config) ReadTimeout() time.Duration { return seconds(c.Server.ReadTimeoutSeconds) }
func (c *Config) WriteTimeout() time.Duration { return seconds(c.Server.WriteTimeoutSeconds) }
func (c *Config) ShutdownTimeout() time.Duration { return seconds(c.Server.ShutdownTimeoutSeconds) }
func (c *Config) TranscriptTimeout() time.Duration { return seconds(c.Transcript.TimeoutSeconds) }

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown logging.level %q", s)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
