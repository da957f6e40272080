package transcript

// YouTube player API constants and wire types.

const (
	innertubePlayerPath   = "/youtubei/v1/player"
	innertubeAndroidVer   = "20.10.38"
	innertubeAndroidUA    = "com.google.android.youtube/" + innertubeAndroidVer + " (Linux; U; Android 11) gzip"
	desktopUserAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	playerResponseMarker  = "ytInitialPlayerResponse = "
	watchPageLimit        = 6 << 20
	playerResponseLimit   = 3 << 20
	timedTextLimit        = 4 << 20
	playabilityOK         = "OK"
	playabilityError      = "ERROR"
	playabilityLoginNeeds = "LOGIN_REQUIRED"
	kindASR               = "asr"
)

type innertubeRequest struct {
	VideoID        string           `json:"videoId"`
	Context        innertubeContext `json:"context"`
	RacyCheckOk    bool             `json:"racyCheckOk"`
	ContentCheckOk bool             `json:"contentCheckOk"`
}

type innertubeContext struct {
	Client innertubeClient `json:"client"`
}

type innertubeClient struct {
	ClientName        string `json:"clientName"`
	ClientVersion     string `json:"clientVersion"`
	AndroidSdkVersion int    `json:"androidSdkVersion,omitempty"`
	Hl                string `json:"hl,omitempty"`
	Gl                string `json:"gl,omitempty"`
}

// playerResponse is the subset of the player response used here. The watch
// page embeds the same document as ytInitialPlayerResponse.
type playerResponse struct {
	Captions *struct {
		PlayerCaptionsTracklistRenderer struct {
			CaptionTracks []captionTrack `json:"captionTracks"`
		} `json:"playerCaptionsTracklistRenderer"`
	} `json:"captions"`
	PlayabilityStatus *struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	} `json:"playabilityStatus"`
}

type captionTrack struct {
	BaseURL      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
	Kind         string `json:"kind"`
}

// timedTextDocument accepts both the legacy format
// (<transcript><text start dur>) and format 3 (<timedtext><body><p t d>).
type timedTextDocument struct {
	Texts []struct {
		Start string `xml:"start,attr"`
		Dur   string `xml:"dur,attr"`
		Text  string `xml:",chardata"`
	} `xml:"text"`
	Body struct {
		Paragraphs []struct {
			T     int64  `xml:"t,attr"`
			D     int64  `xml:"d,attr"`
			Inner string `xml:",innerxml"`
		} `xml:"p"`
	} `xml:"body"`
}
