package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"daily-shorts-pipeline/types"
)

func itemsN(n int) []types.ContentItem {
	items := make([]types.ContentItem, n)
	for i := range items {
		items[i] = types.ContentItem{ID: i + 1, Title: fmt.Sprintf("item %d", i+1)}
	}
	return items
}

func TestSlots_EvenSpread(t *testing.T) {
	slots, err := Slots("2026-09-01", itemsN(3))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		"2026-09-01T00:00:00Z",
		"2026-09-01T08:00:00Z",
		"2026-09-01T16:00:00Z",
	}
	for i, w := range want {
		if got := slots[i].ScheduledUTC.Format(time.RFC3339); got != w {
			t.Errorf("slot %d = %s, want %s", i, got, w)
		}
	}
}

func TestSlots_FloorGapAndMonotonic(t *testing.T) {
	slots, err := Slots("2026-09-01", itemsN(7))
	if err != nil {
		t.Fatal(err)
	}
	// floor(1440/7) = 205 minutes
	var prev time.Time
	for i, s := range slots {
		ts := s.ScheduledUTC
		if i > 0 {
			if gap := ts.Sub(prev); gap != 205*time.Minute {
				t.Fatalf("slot %d gap = %v, want 205m", i, gap)
			}
			if !ts.After(prev) {
				t.Fatalf("slots not strictly increasing at %d", i)
			}
		}
		prev = ts
	}
}

func TestSlots_EmptyBatchIsFatal(t *testing.T) {
	if _, err := Slots("2026-09-01", nil); err == nil {
		t.Fatal("expected error for empty batch")
	}
}

func TestBuildDescription(t *testing.T) {
	got := BuildDescription("Did you know?", []string{"funfact", "history"})
	if got != "Did you know?\n\n#funfact #history" {
		t.Fatalf("unexpected description: %q", got)
	}

	got = BuildDescription("desc", []string{"#already", "new"})
	if got != "desc\n\n#already #new" {
		t.Fatalf("double-prefixed hashtag: %q", got)
	}

	if got := BuildDescription("plain", nil); got != "plain" {
		t.Fatalf("no-tag description changed: %q", got)
	}
}

type fakePublisher struct {
	failFor map[int]bool
	calls   []PublishRequest
}

func (f *fakePublisher) Publish(ctx context.Context, req PublishRequest) (string, error) {
	f.calls = append(f.calls, req)
	for id := range f.failFor {
		if fmt.Sprintf("video_%d.mp4", id) == req.VideoFile {
			return "", fmt.Errorf("upload quota exceeded")
		}
	}
	return "yt-" + req.Title, nil
}

func TestPublishAll_ContinuesPastFailure(t *testing.T) {
	items := itemsN(3)
	videos := map[int]string{}
	for _, it := range items {
		videos[it.ID] = fmt.Sprintf("video_%d.mp4", it.ID)
	}
	pub := &fakePublisher{failFor: map[int]bool{2: true}}

	results, err := New(pub).PublishAll(context.Background(), "2026-09-01", items, videos)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[1].Err == nil {
		t.Fatal("expected item 2 to fail")
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Fatalf("items 1 and 3 should succeed: %+v", results)
	}
	if len(pub.calls) != 3 {
		t.Fatalf("publish loop aborted early: %d calls", len(pub.calls))
	}
}

func TestPublishAll_SkipsItemsWithoutVideo(t *testing.T) {
	items := itemsN(2)
	videos := map[int]string{1: "video_1.mp4"} // item 2 never rendered
	pub := &fakePublisher{}

	results, err := New(pub).PublishAll(context.Background(), "2026-09-01", items, videos)
	if err != nil {
		t.Fatal(err)
	}
	if len(pub.calls) != 1 {
		t.Fatalf("expected 1 publish call, got %d", len(pub.calls))
	}
	if results[1].Err == nil {
		t.Fatal("missing video should be reported as an error")
	}
}
