package motd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	feedItemURL   = "https://commons.wikimedia.org/wiki/Special:FeedItem/motd/%s000000/en"
	commonsAPIURL = "https://commons.wikimedia.org/w/api.php"
	earliestYear  = 2015
	userAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64)"
)

var allowedLicenses = map[string]bool{
	"Public domain": true,
	"CC-BY":         true,
	"CC0":           true,
	"CC BY 3.0":     true,
}

// Media describes one Wikimedia Commons media-of-the-day entry cleared for reuse
type Media struct {
	Title       string
	VideoURL    string
	Author      string
	License     string
	LicenseURL  string
	Description string
	Filename    string
	Date        string
}

// Fetcher resolves the media of the day from Wikimedia Commons
type Fetcher struct {
	httpClient *http.Client
	now        func() time.Time
}

// NewFetcher creates a new Fetcher
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// GetMedia finds a media-of-the-day video for today's month and day,
// walking back year by year until one with an acceptable license turns up.
// manualDate ("YYYYMMDD") pins the month/day for testing.
func (f *Fetcher) GetMedia(ctx context.Context, manualDate string) (*Media, error) {
	var mmdd string
	if manualDate != "" {
		if len(manualDate) != 8 {
			return nil, fmt.Errorf("manual date must be YYYYMMDD, got %q", manualDate)
		}
		mmdd = manualDate[4:]
	} else {
		mmdd = f.now().UTC().Format("0102")
	}

	for year := f.now().Year(); year >= earliestYear; year-- {
		rawDate := fmt.Sprintf("%d%s", year, mmdd)
		media, err := f.videoOfTheDay(ctx, rawDate)
		if err != nil {
			log.Printf("[motd] ⚠️ %s: %v", rawDate, err)
			continue
		}
		if media == nil {
			continue
		}
		dt, err := time.Parse("20060102", rawDate)
		if err != nil {
			return nil, err
		}
		media.Date = strings.ToUpper(dt.Format("02 Jan 2006"))
		log.Printf("[motd] ✅ Found media of the day for %s", rawDate)
		return media, nil
	}
	return nil, fmt.Errorf("no video found for MMDD=%s since %d", mmdd, earliestYear)
}

// videoOfTheDay fetches the feed page for one date and, when it carries a
// video, resolves its file metadata through the Commons API. Returns
// (nil, nil) when the day has no video or its license is not allow-listed.
func (f *Fetcher) videoOfTheDay(ctx context.Context, dateStr string) (*Media, error) {
	doc, err := f.fetchDoc(ctx, fmt.Sprintf(feedItemURL, dateStr))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, nil
	}

	filename, ok := doc.Find("video").First().Attr("data-mwtitle")
	if !ok || filename == "" {
		return nil, nil
	}
	description := strings.TrimSpace(doc.Find("div.description").First().Text())

	info, err := f.imageInfo(ctx, filename)
	if err != nil {
		return nil, err
	}
	if !allowedLicenses[info.license] {
		return nil, nil
	}

	title := info.objectName
	if title == "" {
		title = filename
	}

	return &Media{
		Title:       title,
		VideoURL:    info.url,
		Author:      info.author,
		License:     info.license,
		LicenseURL:  info.licenseURL,
		Description: buildDescription(title, info, filename, description),
		Filename:    filename,
	}, nil
}

type fileInfo struct {
	url        string
	license    string
	licenseURL string
	objectName string
	author     string
}

type imageInfoResponse struct {
	Query struct {
		Pages map[string]struct {
			ImageInfo []struct {
				URL         string `json:"url"`
				ExtMetadata map[string]struct {
					Value string `json:"value"`
				} `json:"extmetadata"`
			} `json:"imageinfo"`
		} `json:"pages"`
	} `json:"query"`
}

// imageInfo queries the Commons API, the source of truth for URL and license
func (f *Fetcher) imageInfo(ctx context.Context, filename string) (*fileInfo, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("titles", "File:"+filename)
	params.Set("prop", "imageinfo")
	params.Set("iiprop", "url|extmetadata")
	params.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, commonsAPIURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("commons API HTTP %d", resp.StatusCode)
	}

	var data imageInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode commons response: %w", err)
	}

	for _, page := range data.Query.Pages {
		if len(page.ImageInfo) == 0 {
			continue
		}
		ii := page.ImageInfo[0]
		meta := func(key string) string { return ii.ExtMetadata[key].Value }
		return &fileInfo{
			url:        ii.URL,
			license:    meta("LicenseShortName"),
			licenseURL: meta("LicenseUrl"),
			objectName: firstNonEmpty(meta("ObjectName"), meta("Title")),
			author:     cleanAuthor(meta("Artist")),
		}, nil
	}
	return nil, fmt.Errorf("no imageinfo for %q", filename)
}

func (f *Fetcher) fetchDoc(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// cleanAuthor flattens the Commons author HTML fragment to "Name (link)"
func cleanAuthor(authorHTML string) string {
	if authorHTML == "" {
		return "Unknown"
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(authorHTML))
	if err != nil {
		return authorHTML
	}
	a := doc.Find("a").First()
	if a.Length() > 0 {
		href, _ := a.Attr("href")
		return fmt.Sprintf("%s (%s)", strings.TrimSpace(a.Text()), href)
	}
	return strings.TrimSpace(doc.Text())
}

func buildDescription(title string, info *fileInfo, filename, description string) string {
	return fmt.Sprintf(`📽 Video Title: %s
🖋 Author / Creator: %s
📄 License: %s
🔗 License Details: %s
🌐 Source / Original File: https://commons.wikimedia.org/wiki/File:%s
🎥 Source / Original Video: %s

📝 Description:
%s

⚠️ This media is sourced from Wikimedia Commons Media of the Day. It is free to use commercially under the above license. Please attribute the creator as specified.`,
		title, info.author, info.license, info.licenseURL, filename, info.url, description)
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
