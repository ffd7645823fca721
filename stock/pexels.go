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

const pexelsVideoAPI = "https://api.pexels.com/videos/search"

// Pexels queries the Pexels video search API
type Pexels struct {
	apiKey     string
	cfg        config.StockConfig
	httpClient *http.Client
}

// NewPexels creates a Pexels provider. The API key may be empty; Search
// then fails with a descriptive error instead of an anonymous HTTP 401.
func NewPexels(apiKey string, cfg config.StockConfig) *Pexels {
	return &Pexels{
		apiKey:     apiKey,
		cfg:        cfg,
		httpClient: &http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second},
	}
}

func (p *Pexels) Name() string { return "Pexels" }

type pexelsResponse struct {
	Videos []struct {
		Duration   float64 `json:"duration"`
		VideoFiles []struct {
			Width  int    `json:"width"`
			Height int    `json:"height"`
			Link   string `json:"link"`
		} `json:"video_files"`
	} `json:"videos"`
}

// Search returns candidate clips for a keyword
func (p *Pexels) Search(ctx context.Context, keyword string) ([]Candidate, error) {
	if p.apiKey == "" {
		return nil, fmt.Errorf("PEXELS_API_KEY not set")
	}

	params := url.Values{}
	params.Set("query", keyword)
	params.Set("orientation", "portrait")
	params.Set("per_page", strconv.Itoa(p.cfg.PerPage))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pexelsVideoAPI+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pexels HTTP %d: %s", resp.StatusCode, body)
	}

	var data pexelsResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decode pexels response: %w", err)
	}

	candidates := make([]Candidate, 0, len(data.Videos))
	for _, v := range data.Videos {
		c := Candidate{Duration: v.Duration}
		for _, f := range v.VideoFiles {
			c.Renditions = append(c.Renditions, Rendition{Width: f.Width, Height: f.Height, URL: f.Link})
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

var _ Provider = (*Pexels)(nil)
