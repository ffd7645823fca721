package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"daily-shorts-pipeline/config"
)

const pixabayVideoAPI = "https://pixabay.com/api/videos/"

// Pixabay queries the Pixabay video API
type Pixabay struct {
	apiKey     string
	cfg        config.StockConfig
	httpClient *http.Client
}

// NewPixabay creates a Pixabay provider
func NewPixabay(apiKey string, cfg config.StockConfig) *Pixabay {
	return &Pixabay{
		apiKey:     apiKey,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
	}
}

func (p *Pixabay) Name() string { return "Pixabay" }

type pixabayRendition struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	URL    string `json:"url"`
}

type pixabayResponse struct {
	Hits []struct {
		Duration float64                     `json:"duration"`
		Videos   map[string]pixabayRendition `json:"videos"`
	} `json:"hits"`
}

// Search returns candidate clips for a keyword
func (p *Pixabay) Search(ctx context.Context, keyword string) ([]Candidate, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("PIXABAY_API_KEY not set")
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("q", keyword)
	params.Set("video_type", "film")
	params.Set("per_page", strconv.Itoa(p.cfg.PerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pixabayVideoAPI+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pixabay HTTP %d: %s", resp.StatusCode, body)
	}

	var data pixabayResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode pixabay response: %w", err)
	}

	candidates := make([]Candidate, 0, len(data.Hits))
	for _, h := range data.Hits {
		c := Candidate{Duration: h.Duration}
		for _, r := range h.Videos {
			c.Renditions = append(c.Renditions, Rendition{Width: r.Width, Height: r.Height, URL: r.URL})
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

var _ Provider = (*Pixabay)(nil)
