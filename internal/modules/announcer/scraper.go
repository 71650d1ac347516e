package announcer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"emperror.dev/errors"
	"github.com/hashicorp/go-cleanhttp"
	"golang.org/x/net/html"
)

const (
	tiktokBase = "https://www.tiktok.com"
	userAgent  = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

var ErrProfileNotFound = errors.Sentinel("no se encontró el perfil de TikTok")

// Scraper reads public TikTok profile pages.
type Scraper struct {
	Client  *http.Client
	BaseURL string
}

func NewScraper() *Scraper {
	return &Scraper{Client: cleanhttp.DefaultPooledClient(), BaseURL: tiktokBase}
}

// ProfileURL is the public page of a creator.
func (s *Scraper) ProfileURL(username string) string {
	return s.BaseURL + "/@" + url.PathEscape(username)
}

// VideoURL links a single video.
func VideoURL(username, videoID string) string {
	return fmt.Sprintf("%s/@%s/video/%s", tiktokBase, username, videoID)
}

// Videos returns the video ids linked from a profile page, newest first.
func (s *Scraper) Videos(ctx context.Context, username string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ProfileURL(username), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "es-ES,es;q=0.9")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, errors.WrapIf(err, "tiktok request")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProfileNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("tiktok devolvió %d para @%s", resp.StatusCode, username)
	}
	return ExtractVideoIDs(resp.Body)
}

// ExtractVideoIDs walks the anchors of a page and collects the ids of
// "/video/<id>" links in page order without duplicates.
func ExtractVideoIDs(r io.Reader) ([]string, error) {
	z := html.NewTokenizer(r)
	seen := make(map[string]bool)
	var ids []string
	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return ids, nil
			}
			return ids, z.Err()
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "a" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key != "href" {
					continue
				}
				if id := videoID(attr.Val); id != "" && !seen[id] {
					seen[id] = true
					ids = append(ids, id)
				}
			}
		}
	}
}

func videoID(href string) string {
	idx := strings.Index(href, "/video/")
	if idx < 0 {
		return ""
	}
	id := href[idx+len("/video/"):]
	if cut := strings.IndexAny(id, "?/#"); cut >= 0 {
		id = id[:cut]
	}
	return id
}

// NewVideos returns the ids listed before last. With no known last id
// nothing is new; the caller stores ids[0] as the starting point.
func NewVideos(ids []string, last string) []string {
	if last == "" {
		return nil
	}
	var out []string
	for _, id := range ids {
		if id == last {
			break
		}
		out = append(out, id)
	}
	return out
}
