package transcript

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// DefaultBaseURL is the YouTube origin.
	DefaultBaseURL = "https://www.youtube.com"

	// DefaultTimeout bounds each HTTP request made by the fetcher.
	DefaultTimeout = 15 * time.Second
)

var errPoTokenRequired = errors.New("every caption track requires a proof-of-origin token")

// YouTubeFetcherConfig configures a YouTubeFetcher.
type YouTubeFetcherConfig struct {
	// BaseURL is the YouTube origin. Defaults to DefaultBaseURL.
	BaseURL string
	// Languages lists preferred caption language codes, most preferred
	// first. Defaults to English.
	Languages []string
	// Timeout bounds each HTTP request. Defaults to DefaultTimeout.
	Timeout time.Duration
	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client
}

// YouTubeFetcher fetches caption transcripts from YouTube.
//
// The watch page is scraped for the embedded player response first. When
// the page cannot be fetched or parsed, or every track on it needs a
// browser token, the Android player API is asked instead. Each source is
// tried once.
type YouTubeFetcher struct {
	baseURL    string
	languages  []string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewYouTubeFetcher creates a YouTubeFetcher. A nil logger uses
// slog.Default.
func NewYouTubeFetcher(cfg YouTubeFetcherConfig, logger *slog.Logger) *YouTubeFetcher {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = []string{"en"}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &YouTubeFetcher{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		languages:  cfg.Languages,
		httpClient: cfg.HTTPClient,
		logger:     logger,
	}
}

type playerSource struct {
	name  string
	fetch func(ctx context.Context, videoID string) (*playerResponse, error)
}

// Fetch implements Fetcher. videoID may also be a video URL.
func (f *YouTubeFetcher) Fetch(ctx context.Context, videoID string) (*Transcript, error) {
	id, err := ParseVideoID(videoID)
	if err != nil {
		return nil, err
	}

	sources := []playerSource{
		{name: "watch page", fetch: f.watchPagePlayer},
		{name: "android player", fetch: f.androidPlayer},
	}

	var lastErr error
	for _, src := range sources {
		t, err := f.fetchFrom(ctx, id, src)
		if err == nil {
			return t, nil
		}
		lastErr = err

		if ctx.Err() != nil || !tryNextSource(err) {
			break
		}
		f.logger.Warn("transcript source failed, trying next",
			"video_id", id, "source", src.name, "error", err)
	}

	return nil, lastErr
}

func (f *YouTubeFetcher) fetchFrom(ctx context.Context, id string, src playerSource) (*Transcript, error) {
	player, err := src.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	track, err := selectTrack(id, player, f.languages)
	if err != nil {
		return nil, err
	}

	segments, err := f.timedText(ctx, id, track.BaseURL)
	if err != nil {
		return nil, err
	}

	f.logger.Debug("transcript fetched",
		"video_id", id, "source", src.name, "language", track.LanguageCode, "segments", len(segments))

	return &Transcript{
		VideoID:   id,
		Language:  track.LanguageCode,
		Generated: track.Kind == kindASR,
		Segments:  segments,
	}, nil
}

// tryNextSource reports whether another source may succeed where this
// error's source failed. Facts about the video itself are final.
func tryNextSource(err error) bool {
	if errors.Is(err, errPoTokenRequired) {
		return true
	}
	kind, ok := KindOf(err)
	return ok && (kind == KindRequestFailed || kind == KindMalformedResponse)
}

func (f *YouTubeFetcher) watchPagePlayer(ctx context.Context, id string) (*playerResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/watch?v="+url.QueryEscape(id), nil)
	if err != nil {
		return nil, newFetchError(KindRequestFailed, id, err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	// Skips the EU consent interstitial.
	req.AddCookie(&http.Cookie{Name: "CONSENT", Value: "YES+cb"})

	body, err := f.do(id, req, watchPageLimit)
	if err != nil {
		return nil, err
	}

	if bytes.Contains(body, []byte(`class="g-recaptcha"`)) {
		return nil, &FetchError{
			Kind:    KindRequestFailed,
			VideoID: id,
			Detail:  "YouTube is asking for a captcha; too many requests were made from this IP.",
		}
	}

	idx := bytes.Index(body, []byte(playerResponseMarker))
	if idx < 0 {
		return nil, newFetchError(KindMalformedResponse, id, errors.New("ytInitialPlayerResponse not found in watch page"))
	}
	raw := extractJSON(body[idx+len(playerResponseMarker):])
	if raw == nil {
		return nil, newFetchError(KindMalformedResponse, id, errors.New("unterminated ytInitialPlayerResponse"))
	}

	var player playerResponse
	if err := json.Unmarshal(raw, &player); err != nil {
		return nil, newFetchError(KindMalformedResponse, id, fmt.Errorf("decode ytInitialPlayerResponse: %w", err))
	}
	return &player, nil
}

func (f *YouTubeFetcher) androidPlayer(ctx context.Context, id string) (*playerResponse, error) {
	payload, err := json.Marshal(innertubeRequest{
		VideoID: id,
		Context: innertubeContext{
			Client: innertubeClient{
				ClientName:        "ANDROID",
				ClientVersion:     innertubeAndroidVer,
				AndroidSdkVersion: 30,
				Hl:                "en",
				Gl:                "US",
			},
		},
		RacyCheckOk:    true,
		ContentCheckOk: true,
	})
	if err != nil {
		return nil, newFetchError(KindRequestFailed, id, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		f.baseURL+innertubePlayerPath+"?prettyPrint=false", bytes.NewReader(payload))
	if err != nil {
		return nil, newFetchError(KindRequestFailed, id, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", innertubeAndroidUA)
	req.Header.Set("X-Youtube-Client-Name", "3")
	req.Header.Set("X-Youtube-Client-Version", innertubeAndroidVer)

	body, err := f.do(id, req, playerResponseLimit)
	if err != nil {
		return nil, err
	}

	var player playerResponse
	if err := json.Unmarshal(body, &player); err != nil {
		return nil, newFetchError(KindMalformedResponse, id, fmt.Errorf("decode player response: %w", err))
	}
	return &player, nil
}

// selectTrack classifies the player response and picks the caption track
// to download.
func selectTrack(id string, player *playerResponse, langs []string) (captionTrack, error) {
	if ps := player.PlayabilityStatus; ps != nil && ps.Status != "" && ps.Status != playabilityOK {
		kind := KindVideoUnavailable
		if ps.Status == playabilityLoginNeeds {
			kind = KindRequestFailed
		}
		return captionTrack{}, &FetchError{
			Kind:    kind,
			VideoID: id,
			Detail:  ps.Reason,
			Err:     fmt.Errorf("playability status %s", ps.Status),
		}
	}

	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return captionTrack{}, newFetchError(KindTranscriptsDisabled, id, nil)
	}

	track, ok := pickBestTrack(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks, langs)
	if !ok {
		return captionTrack{}, newFetchError(KindNoTranscriptFound, id, errPoTokenRequired)
	}
	return track, nil
}

// needsPoToken reports whether a caption track URL only works in a browser.
func needsPoToken(baseURL string) bool {
	return strings.Contains(baseURL, "&exp=xpe")
}

// pickBestTrack prefers, in order: a manual track in a preferred language,
// a generated track in a preferred language, any English track, then the
// first usable track. It reports false when no track is usable.
func pickBestTrack(tracks []captionTrack, langs []string) (captionTrack, bool) {
	usable := make([]captionTrack, 0, len(tracks))
	for _, t := range tracks {
		if t.BaseURL != "" && !needsPoToken(t.BaseURL) {
			usable = append(usable, t)
		}
	}
	if len(usable) == 0 {
		return captionTrack{}, false
	}

	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang && t.Kind != kindASR {
				return t, true
			}
		}
	}
	for _, lang := range langs {
		for _, t := range usable {
			if t.LanguageCode == lang {
				return t, true
			}
		}
	}
	for _, t := range usable {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t, true
		}
	}
	return usable[0], true
}

func (f *YouTubeFetcher) timedText(ctx context.Context, id, trackURL string) ([]Segment, error) {
	target, err := f.resolve(trackURL)
	if err != nil {
		return nil, newFetchError(KindMalformedResponse, id, fmt.Errorf("caption track URL: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, newFetchError(KindRequestFailed, id, err)
	}
	req.Header.Set("User-Agent", desktopUserAgent)

	body, err := f.do(id, req, timedTextLimit)
	if err != nil {
		return nil, err
	}

	segments, err := parseTimedText(body)
	if err != nil {
		return nil, newFetchError(KindMalformedResponse, id, err)
	}
	if len(segments) == 0 {
		return nil, &FetchError{Kind: KindNoTranscriptFound, VideoID: id, Detail: "The caption track is empty."}
	}
	return segments, nil
}

// resolve makes a possibly relative caption URL absolute against baseURL.
func (f *YouTubeFetcher) resolve(ref string) (string, error) {
	base, err := url.Parse(f.baseURL + "/")
	if err != nil {
		return "", err
	}
	u, err := base.Parse(ref)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// do sends req and returns at most limit bytes of a 200 response body.
func (f *YouTubeFetcher) do(id string, req *http.Request, limit int64) ([]byte, error) {
	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, newFetchError(KindRequestFailed, id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &FetchError{
			Kind:    KindRequestFailed,
			VideoID: id,
			Detail:  "YouTube is rate limiting requests (HTTP 429).",
		}
	case resp.StatusCode != http.StatusOK:
		return nil, newFetchError(KindRequestFailed, id, fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Path))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, newFetchError(KindRequestFailed, id, err)
	}
	return body, nil
}

var markupTags = regexp.MustCompile(`<[^>]*>`)

// parseTimedText decodes a timedtext XML document into segments.
func parseTimedText(body []byte) ([]Segment, error) {
	var doc timedTextDocument
	if err := xml.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("parse timedtext XML: %w", err)
	}

	var segments []Segment
	for _, line := range doc.Texts {
		start, err := parseSeconds(line.Start)
		if err != nil {
			return nil, fmt.Errorf("segment start %q: %w", line.Start, err)
		}
		dur, err := parseSeconds(line.Dur)
		if err != nil {
			return nil, fmt.Errorf("segment duration %q: %w", line.Dur, err)
		}
		if text := cleanCaption(line.Text); text != "" {
			segments = append(segments, Segment{Text: text, Start: start, Duration: dur})
		}
	}

	for _, p := range doc.Body.Paragraphs {
		text := cleanCaption(markupTags.ReplaceAllString(p.Inner, ""))
		if text == "" {
			continue
		}
		segments = append(segments, Segment{
			Text:     text,
			Start:    decimal.New(p.T, -3),
			Duration: decimal.New(p.D, -3),
		})
	}

	return segments, nil
}

func parseSeconds(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(s)
}

// cleanCaption unescapes HTML entities, which YouTube double-encodes, and
// collapses whitespace.
func cleanCaption(s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(html.UnescapeString(s))), " ")
}

// extractJSON returns the JSON object at the start of data, or nil when
// the object is not terminated. Braces inside strings are ignored.
func extractJSON(data []byte) []byte {
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	depth := 0
	inString := false
	escaped := false
	for i, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return data[:i+1]
			}
		}
	}
	return nil
}
