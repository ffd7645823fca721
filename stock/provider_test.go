package stock

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"daily-shorts-pipeline/config"
)

func testCfg() config.StockConfig {
	return config.StockConfig{
		PerPage:           20,
		MinDurationSec:    10,
		MaxDurationSec:    15,
		MaxWidth:          1080,
		RequestTimeoutSec: 30,
	}
}

func newTestAcquirer(providers ...Provider) *Acquirer {
	a := NewAcquirer(testCfg(), rand.New(rand.NewSource(1)), providers...)
	a.download = func(ctx context.Context, url, dest string) error { return nil }
	return a
}

type fakeProvider struct {
	name       string
	candidates []Candidate
	err        error
	calls      int
}

func (f *fakeProvider) Name() string { return f.name }
func (f *fakeProvider) Search(ctx context.Context, keyword string) ([]Candidate, error) {
	f.calls++
	return f.candidates, f.err
}

func portraitClip(duration float64, widths ...int) Candidate {
	c := Candidate{Duration: duration}
	for _, w := range widths {
		c.Renditions = append(c.Renditions, Rendition{Width: w, Height: w * 2, URL: fmt.Sprintf("http://clip/%d", w)})
	}
	return c
}

func TestSelect_DurationFilter(t *testing.T) {
	a := newTestAcquirer()
	tests := []struct {
		duration float64
		ok       bool
	}{
		{9.9, false},
		{10, true},
		{12.5, true},
		{15, true},
		{15.1, false},
	}
	for _, tt := range tests {
		_, err := a.Select([]Candidate{portraitClip(tt.duration, 720)})
		if tt.ok && err != nil {
			t.Errorf("duration %.1f: unexpected error %v", tt.duration, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("duration %.1f: expected rejection", tt.duration)
		}
	}
}

func TestSelect_RenditionPolicy(t *testing.T) {
	a := newTestAcquirer()

	// widest qualifying rendition wins
	url, err := a.Select([]Candidate{portraitClip(12, 540, 1080, 720)})
	if err != nil {
		t.Fatal(err)
	}
	if url != "http://clip/1080" {
		t.Fatalf("expected widest qualifying rendition, got %s", url)
	}

	// over-wide renditions are excluded
	url, err = a.Select([]Candidate{portraitClip(12, 720, 2160)})
	if err != nil {
		t.Fatal(err)
	}
	if url != "http://clip/720" {
		t.Fatalf("width cap ignored, got %s", url)
	}

	// landscape-only candidates fail
	landscape := Candidate{Duration: 12, Renditions: []Rendition{{Width: 1920, Height: 1080, URL: "x"}}}
	if _, err := a.Select([]Candidate{landscape}); err == nil {
		t.Fatal("expected rejection of landscape-only candidate")
	}

	// square is not portrait
	square := Candidate{Duration: 12, Renditions: []Rendition{{Width: 1080, Height: 1080, URL: "x"}}}
	if _, err := a.Select([]Candidate{square}); err == nil {
		t.Fatal("expected rejection of square rendition")
	}
}

func TestAcquire_FallsBackToNextProvider(t *testing.T) {
	failing := &fakeProvider{name: "A", err: fmt.Errorf("quota exceeded")}
	working := &fakeProvider{name: "B", candidates: []Candidate{portraitClip(12, 1080)}}
	a := newTestAcquirer(failing, working)

	dest, err := a.Acquire(context.Background(), "ocean waves", "clips/1/video_1.mp4")
	if err != nil {
		t.Fatal(err)
	}
	if dest != "clips/1/video_1.mp4" {
		t.Fatalf("unexpected dest: %s", dest)
	}
	if failing.calls+working.calls < 1 || working.calls != 1 {
		t.Fatalf("expected the working provider to be used exactly once (A=%d B=%d)", failing.calls, working.calls)
	}
}

func TestAcquire_AllProvidersFail(t *testing.T) {
	a := newTestAcquirer(
		&fakeProvider{name: "A", err: fmt.Errorf("down")},
		&fakeProvider{name: "B", err: fmt.Errorf("down too")},
	)
	if _, err := a.Acquire(context.Background(), "clouds", "clips/x.mp4"); err == nil {
		t.Fatal("expected overall failure when every provider fails")
	}
}

func TestAcquire_TriesEveryProviderBeforeFailing(t *testing.T) {
	pa := &fakeProvider{name: "A", err: fmt.Errorf("down")}
	pb := &fakeProvider{name: "B", err: fmt.Errorf("down")}
	a := newTestAcquirer(pa, pb)
	_, _ = a.Acquire(context.Background(), "clouds", "clips/x.mp4")
	if pa.calls != 1 || pb.calls != 1 {
		t.Fatalf("expected both providers attempted, got A=%d B=%d", pa.calls, pb.calls)
	}
}

func TestSearch_MissingCredentials(t *testing.T) {
	cfg := testCfg()
	if _, err := NewPexels("", cfg).Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error without Pexels key")
	}
	if _, err := NewPixabay("", cfg).Search(context.Background(), "x"); err == nil {
		t.Fatal("expected error without Pixabay key")
	}
}
