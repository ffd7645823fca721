package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"daily-shorts-pipeline/config"
	"daily-shorts-pipeline/types"
)

func testRunContext(t *testing.T) *runContext {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Paths.Workdir = filepath.Join(dir, "work")
	cfg.Paths.Output = filepath.Join(dir, "output")
	for _, d := range []string{cfg.Paths.Workdir, cfg.Paths.Output} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatal(err)
		}
	}
	return &runContext{cfg: cfg, date: "2026-09-01"}
}

type fakeNarrator struct {
	calls int
	err   error
}

func (f *fakeNarrator) Run(ctx context.Context, text, outputFile string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputFile, []byte("mp3"), 0644); err != nil {
		return "", err
	}
	return outputFile, nil
}

type fakeClipSource struct {
	calls int
	err   error
}

func (f *fakeClipSource) Acquire(ctx context.Context, keyword, destPath string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return destPath, nil
}

type fakeAssembler struct {
	calls int
	err   error
}

func (f *fakeAssembler) Run(ctx context.Context, clipDir, audioFile, mergedFile, assFile, outputFile string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(outputFile, []byte("mp4"), 0644)
}

func TestProcessItem_Success(t *testing.T) {
	rc := testRunContext(t)
	item := types.ContentItem{ID: 1, Content: "hello world", BgQueries: []string{"ocean waves", "city lights"}}
	clips := &fakeClipSource{}

	outcome := processItem(context.Background(), rc, item, &fakeNarrator{}, clips, &fakeAssembler{})
	if outcome.Error != "" {
		t.Fatalf("unexpected failure: %s", outcome.Error)
	}
	if outcome.AudioFile != rc.audioFile(1) || outcome.VideoFile != rc.finalFile(1) {
		t.Fatalf("unexpected artifact paths: %+v", outcome)
	}
	if clips.calls != 2 {
		t.Fatalf("expected one acquisition per background query, got %d", clips.calls)
	}
}

func TestProcessItem_FailureIsIsolated(t *testing.T) {
	rc := testRunContext(t)
	broken := processItem(context.Background(), rc,
		types.ContentItem{ID: 1, Content: "first"},
		&fakeNarrator{}, &fakeClipSource{}, &fakeAssembler{err: fmt.Errorf("render failed")})
	if broken.Error == "" {
		t.Fatal("expected the failure recorded in the outcome")
	}
	if broken.VideoFile != "" {
		t.Fatalf("failed item must not report a video: %+v", broken)
	}

	// The next item is untouched by the previous one's failure.
	next := processItem(context.Background(), rc,
		types.ContentItem{ID: 2, Content: "second"},
		&fakeNarrator{}, &fakeClipSource{}, &fakeAssembler{})
	if next.Error != "" {
		t.Fatalf("healthy item failed after a broken one: %s", next.Error)
	}
}

func TestProcessItem_SkipsExistingAudio(t *testing.T) {
	rc := testRunContext(t)
	audioFile := rc.audioFile(1)
	if err := os.MkdirAll(filepath.Dir(audioFile), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(audioFile, []byte("mp3"), 0644); err != nil {
		t.Fatal(err)
	}

	gen := &fakeNarrator{}
	outcome := processItem(context.Background(), rc,
		types.ContentItem{ID: 1, Content: "hello"}, gen, &fakeClipSource{}, &fakeAssembler{})
	if gen.calls != 0 {
		t.Fatalf("existing audio re-synthesized: %d call(s)", gen.calls)
	}
	if outcome.AudioFile != audioFile {
		t.Fatalf("skipped audio not recorded: %+v", outcome)
	}
}

func TestProcessItem_ClipFailureIsBestEffort(t *testing.T) {
	rc := testRunContext(t)
	item := types.ContentItem{ID: 1, Content: "hello", BgQueries: []string{"clouds"}}
	asm := &fakeAssembler{}

	outcome := processItem(context.Background(), rc, item,
		&fakeNarrator{}, &fakeClipSource{err: fmt.Errorf("all providers failed")}, asm)
	if outcome.Error != "" {
		t.Fatalf("clip failure must not fail the item: %s", outcome.Error)
	}
	if asm.calls != 1 {
		t.Fatalf("assembly skipped after clip failure: %d call(s)", asm.calls)
	}
}

func TestCleanup_RemovesWorkDirsKeepsFinals(t *testing.T) {
	rc := testRunContext(t)
	for _, sub := range []string{"audio", "clips", "merged", "subs"} {
		dir := filepath.Join(rc.cfg.Paths.Workdir, sub)
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(filepath.Join(dir, "leftover"), []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	final := rc.finalFile(1)
	if err := os.WriteFile(final, []byte("mp4"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(rc.batchFile(), []byte("[]"), 0644); err != nil {
		t.Fatal(err)
	}

	cleanup(rc)

	for _, sub := range []string{"audio", "clips", "merged", "subs"} {
		if _, err := os.Stat(filepath.Join(rc.cfg.Paths.Workdir, sub)); !os.IsNotExist(err) {
			t.Fatalf("work dir %s not removed", sub)
		}
	}
	if _, err := os.Stat(final); err != nil {
		t.Fatalf("final video removed by cleanup: %v", err)
	}
	if _, err := os.Stat(rc.batchFile()); err != nil {
		t.Fatalf("persisted batch removed by cleanup: %v", err)
	}
}
