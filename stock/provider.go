package stock

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"daily-shorts-pipeline/config"
)

// Rendition is one downloadable encoding of a stock clip
type Rendition struct {
	Width  int
	Height int
	URL    string
}

// Candidate is one stock search result with its available renditions
type Candidate struct {
	Duration   float64
	Renditions []Rendition
}

// Provider is an interchangeable stock-footage source
type Provider interface {
	Name() string
	// Search returns candidate clips for a keyword
	Search(ctx context.Context, keyword string) ([]Candidate, error)
}

// Acquirer downloads one background clip per keyword, trying providers in a
// randomized order and falling back to the next on failure
type Acquirer struct {
	cfg       config.StockConfig
	providers []Provider
	rng       *rand.Rand
	download  func(ctx context.Context, url, dest string) error
}

// NewAcquirer creates an Acquirer over the given providers
func NewAcquirer(cfg config.StockConfig, rng *rand.Rand, providers ...Provider) *Acquirer {
	a := &Acquirer{cfg: cfg, providers: providers, rng: rng}
	a.download = func(ctx context.Context, url, dest string) error {
		return downloadFile(ctx, url, dest, cfg.RequestTimeoutSec)
	}
	return a
}

// Acquire downloads a qualifying background clip for the keyword to destPath.
// Provider try-order is shuffled per call; the first success wins. If every
// provider fails the error is returned for the caller to log — a missing
// clip is never fatal to the batch.
func (a *Acquirer) Acquire(ctx context.Context, keyword, destPath string) (string, error) {
	order := make([]Provider, len(a.providers))
	copy(order, a.providers)
	a.rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	var lastErr error
	for _, p := range order {
		if err := a.acquireFrom(ctx, p, keyword, destPath); err != nil {
			log.Printf("[stock] ⚠️ %s failed for %q: %v", p.Name(), keyword, err)
			lastErr = err
			continue
		}
		log.Printf("[stock] ✅ %s success → %s", p.Name(), destPath)
		return destPath, nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no providers configured")
	}
	return "", fmt.Errorf("all providers failed for %q: %w", keyword, lastErr)
}

func (a *Acquirer) acquireFrom(ctx context.Context, p Provider, keyword, destPath string) error {
	candidates, err := p.Search(ctx, keyword)
	if err != nil {
		return err
	}
	url, err := a.Select(candidates)
	if err != nil {
		return err
	}
	return a.download(ctx, url, destPath)
}

// Select applies the filtering policy to a provider's results and returns
// the download URL of the chosen rendition:
//   - keep candidates whose duration is within the acceptable range
//   - pick one of those uniformly at random
//   - keep its portrait renditions no wider than the cap
//   - take the widest survivor
func (a *Acquirer) Select(candidates []Candidate) (string, error) {
	var inRange []Candidate
	for _, c := range candidates {
		if c.Duration >= a.cfg.MinDurationSec && c.Duration <= a.cfg.MaxDurationSec {
			inRange = append(inRange, c)
		}
	}
	if len(inRange) == 0 {
		return "", fmt.Errorf("no videos in %.0f–%.0fs range", a.cfg.MinDurationSec, a.cfg.MaxDurationSec)
	}

	chosen := inRange[a.rng.Intn(len(inRange))]

	var best *Rendition
	for i, r := range chosen.Renditions {
		if r.Height <= r.Width || r.Width > a.cfg.MaxWidth {
			continue
		}
		if best == nil || r.Width > best.Width {
			best = &chosen.Renditions[i]
		}
	}
	if best == nil {
		return "", fmt.Errorf("no suitable vertical ≤%dp rendition", a.cfg.MaxWidth)
	}
	return best.URL, nil
}
