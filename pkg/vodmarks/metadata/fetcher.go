// Package metadata fetches video metadata for linked-media bookmarks.
package metadata

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"
)

// VideoMeta is the metadata recorded on a linked-media bookmark.
type VideoMeta struct {
	Title           string
	Uploader        string
	ThumbnailURL    string
	DurationSeconds *int
	// UploadDate is YYYY-MM-DD, nil if the platform did not expose one.
	UploadDate *string
}

// Fetcher resolves a video URL to its metadata.
// Handlers depend on this interface so tests can stub the platform.
type Fetcher interface {
	Fetch(rawURL string) (*VideoMeta, error)
}

// OEmbedFetcher fetches metadata through a platform's oEmbed endpoint,
// then scrapes the watch page's meta tags for the fields oEmbed omits
// (duration and publish date).
type OEmbedFetcher struct {
	// OEmbedURL is the oEmbed endpoint, e.g. "https://www.youtube.com/oembed".
	OEmbedURL string
	Client    *http.Client
}

// NewOEmbedFetcher returns a fetcher against the given oEmbed endpoint.
func NewOEmbedFetcher(oembedURL string) *OEmbedFetcher {
	return &OEmbedFetcher{
		OEmbedURL: oembedURL,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

type oembedResponse struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Fetch resolves rawURL via oEmbed and the watch page.
// Fails if the oEmbed lookup fails; the page scrape is best effort.
func (f *OEmbedFetcher) Fetch(rawURL string) (*VideoMeta, error) {
	endpoint := f.OEmbedURL + "?format=json&url=" + url.QueryEscape(rawURL)
	resp, err := f.Client.Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("oembed request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oembed lookup failed: status %d", resp.StatusCode)
	}

	var oe oembedResponse
	if err := json.NewDecoder(resp.Body).Decode(&oe); err != nil {
		return nil, fmt.Errorf("oembed decode: %w", err)
	}

	meta := &VideoMeta{
		Title:        oe.Title,
		Uploader:     oe.AuthorName,
		ThumbnailURL: oe.ThumbnailURL,
	}
	f.scrapePage(rawURL, meta)
	return meta, nil
}

// scrapePage fills DurationSeconds and UploadDate from the watch page's
// itemprop meta tags. Any failure leaves the fields nil.
func (f *OEmbedFetcher) scrapePage(rawURL string, meta *VideoMeta) {
	resp, err := f.Client.Get(rawURL)
	if err != nil {
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return
	}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "meta" {
			var itemprop, content string
			for _, a := range n.Attr {
				switch a.Key {
				case "itemprop":
					itemprop = a.Val
				case "content":
					content = a.Val
				}
			}
			switch itemprop {
			case "duration":
				if secs, ok := parseISO8601Duration(content); ok {
					meta.DurationSeconds = &secs
				}
			case "datePublished", "uploadDate":
				if d, ok := parseDate(content); ok && meta.UploadDate == nil {
					meta.UploadDate = &d
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
}

// parseISO8601Duration converts durations like "PT1H2M30S" to seconds.
func parseISO8601Duration(s string) (int, bool) {
	s = strings.TrimPrefix(s, "PT")
	if s == "" {
		return 0, false
	}
	total := 0
	num := ""
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			num += string(r)
		case r == 'H' || r == 'M' || r == 'S':
			n, err := strconv.Atoi(num)
			if err != nil {
				return 0, false
			}
			switch r {
			case 'H':
				total += n * 3600
			case 'M':
				total += n * 60
			case 'S':
				total += n
			}
			num = ""
		default:
			return 0, false
		}
	}
	return total, true
}

// parseDate normalizes a date or timestamp to YYYY-MM-DD.
func parseDate(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if len(s) >= 10 {
		if _, err := time.Parse("2006-01-02", s[:10]); err == nil {
			return s[:10], true
		}
	}
	// Compact form some platforms use: 20240131
	if len(s) == 8 {
		if t, err := time.Parse("20060102", s); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return "", false
}
