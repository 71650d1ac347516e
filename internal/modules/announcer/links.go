package announcer

import (
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/idna"
)

// Platform is a content site whose links get announced.
type Platform string

const (
	YouTube Platform = "youtube"
	Twitch  Platform = "twitch"
	TikTok  Platform = "tiktok"
)

var platformHosts = map[string]Platform{
	"youtube.com":   YouTube,
	"m.youtube.com": YouTube,
	"youtu.be":      YouTube,
	"twitch.tv":     Twitch,
	"m.twitch.tv":   Twitch,
	"tiktok.com":    TikTok,
	"vm.tiktok.com": TikTok,
	"m.tiktok.com":  TikTok,
}

// Name is the display name of the platform.
func (p Platform) Name() string {
	switch p {
	case YouTube:
		return "YouTube"
	case Twitch:
		return "Twitch"
	case TikTok:
		return "TikTok"
	}
	return string(p)
}

// Color is the embed colour of the platform.
func (p Platform) Color() int {
	switch p {
	case YouTube:
		return 0xE74C3C
	case Twitch:
		return 0x9B59B6
	case TikTok:
		return 0x000000
	}
	return 0x3498DB
}

// Logo is the thumbnail shown on announcements.
func (p Platform) Logo() string {
	switch p {
	case YouTube:
		return "https://www.youtube.com/s/desktop/favicon_144x144.png"
	case Twitch:
		return "https://static.twitchcdn.net/assets/favicon-32-e29e246c157142c94346.png"
	case TikTok:
		return "https://www.tiktok.com/favicon.ico"
	}
	return ""
}

// Link is a recognised content link inside a message.
type Link struct {
	Platform Platform
	URL      string
	Kind     string
}

var urlPattern = regexp.MustCompile(`https?://[^\s<>]+`)

// NormalizeHost lower-cases a host, converts it to its ASCII form and drops
// a leading "www.".
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}
	return strings.TrimPrefix(host, "www.")
}

// Detect returns the first supported content link in a message.
func Detect(content string) (Link, bool) {
	for _, raw := range urlPattern.FindAllString(content, -1) {
		raw = strings.TrimRight(raw, ".,;:!?)>")
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			continue
		}
		platform, ok := platformHosts[NormalizeHost(u.Hostname())]
		if !ok {
			continue
		}
		if platform == YouTube && !isYouTubeContent(u) {
			continue
		}
		if strings.Trim(u.Path, "/") == "" && platform != YouTube {
			continue
		}
		return Link{Platform: platform, URL: raw, Kind: contentKind(platform, u)}, true
	}
	return Link{}, false
}

func isYouTubeContent(u *url.URL) bool {
	if NormalizeHost(u.Hostname()) == "youtu.be" {
		return strings.Trim(u.Path, "/") != ""
	}
	switch {
	case u.Path == "/watch":
		return u.Query().Get("v") != ""
	case strings.HasPrefix(u.Path, "/shorts/"), strings.HasPrefix(u.Path, "/live/"):
		return true
	}
	return false
}

func contentKind(p Platform, u *url.URL) string {
	switch p {
	case YouTube:
		lower := strings.ToLower(u.String())
		if strings.Contains(lower, "live") {
			return "Directo"
		}
		if strings.Contains(lower, "shorts") {
			return "Short"
		}
		return "Vídeo"
	case Twitch:
		return "Stream"
	case TikTok:
		return "Vídeo"
	}
	return "Contenido"
}
