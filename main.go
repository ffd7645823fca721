package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"daily-shorts-pipeline/assemble"
	"daily-shorts-pipeline/audio"
	"daily-shorts-pipeline/config"
	"daily-shorts-pipeline/input"
	"daily-shorts-pipeline/motd"
	"daily-shorts-pipeline/schedule"
	"daily-shorts-pipeline/stock"
	"daily-shorts-pipeline/thumbnail"
	"daily-shorts-pipeline/types"
	"daily-shorts-pipeline/upload"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	// Load .env (local dev only — CI uses secrets)
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:           "daily-shorts-pipeline",
		Short:         "Batch-produce and schedule daily short videos",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBatch(cmd.Context())
		},
	}
	root.AddCommand(&cobra.Command{
		Use:           "motd",
		Short:         "Upload the Wikimedia Commons media of the day",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMOTD(cmd.Context())
		},
	})

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.Printf("❌ %v", err)
		os.Exit(1)
	}
}

// runContext holds everything one batch run needs: configuration, the
// snapshot of credentials, and the workspace layout. It is passed
// explicitly — nothing reads ambient process state mid-run.
type runContext struct {
	cfg  *config.Config
	env  config.Env
	date string
}

func (rc *runContext) batchFile() string        { return filepath.Join(rc.cfg.Paths.Workdir, "batch.json") }
func (rc *runContext) audioFile(id int) string  { return filepath.Join(rc.cfg.Paths.Workdir, "audio", fmt.Sprintf("%d.mp3", id)) }
func (rc *runContext) clipDir(id int) string    { return filepath.Join(rc.cfg.Paths.Workdir, "clips", fmt.Sprintf("%d", id)) }
func (rc *runContext) clipFile(id, n int) string {
	return filepath.Join(rc.clipDir(id), fmt.Sprintf("video_%d.mp4", n))
}
func (rc *runContext) mergedFile(id int) string { return filepath.Join(rc.cfg.Paths.Workdir, "merged", fmt.Sprintf("%d.mp4", id)) }
func (rc *runContext) assFile(id int) string    { return filepath.Join(rc.cfg.Paths.Workdir, "subs", fmt.Sprintf("%d.ass", id)) }
func (rc *runContext) finalFile(id int) string  { return filepath.Join(rc.cfg.Paths.Output, fmt.Sprintf("%d.mp4", id)) }

func newRunContext() (*runContext, error) {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	env := config.LoadEnv()

	date := env.TargetDate
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}

	for _, dir := range []string{cfg.Paths.Workdir, cfg.Paths.Output} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return &runContext{cfg: cfg, env: env, date: date}, nil
}

func runBatch(ctx context.Context) error {
	rc, err := newRunContext()
	if err != nil {
		return err
	}

	runID := uuid.NewString()[:8]
	log.Printf("🎬 Daily shorts pipeline starting — Run ID: %s, date: %s", runID, rc.date)

	batch, err := input.New(rc.cfg.Paths.InputCSV).Load(rc.date, rc.batchFile())
	if err != nil {
		return err
	}
	if len(batch) == 0 {
		// Resume path: a previous run may have persisted the batch before
		// failing partway through.
		if resumed, rerr := input.LoadBatch(rc.batchFile()); rerr == nil && len(resumed) > 0 {
			log.Printf("[driver] Resuming %d item(s) from %s", len(resumed), rc.batchFile())
			batch = resumed
		}
	}
	if len(batch) == 0 {
		return fmt.Errorf("no items scheduled for %s", rc.date)
	}

	state := &types.RunState{
		RunID:     runID,
		Date:      rc.date,
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
	defer func() {
		state.CompletedAt = time.Now().UTC().Format(time.RFC3339)
		saveJSON(filepath.Join(rc.cfg.Paths.Output, "run_state.json"), state)
	}()

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	audioGen := audio.New(rc.cfg.Audio, audio.NewEdgeTTS(""))
	acquirer := stock.NewAcquirer(rc.cfg.Stock, rng,
		stock.NewPexels(rc.env.PexelsKey, rc.cfg.Stock),
		stock.NewPixabay(rc.env.PixabayKey, rc.cfg.Stock),
	)
	assembler := assemble.New(rc.cfg, assemble.NewWhisper("", rc.cfg.Subtitles))

	videos := make(map[int]string, len(batch))
	for _, item := range batch {
		log.Printf("\n━━━ Item %d: %q ━━━", item.ID, item.Title)
		outcome := processItem(ctx, rc, item, audioGen, acquirer, assembler)
		if outcome.Error != "" {
			log.Printf("[driver] ⚠️ item %d failed: %s — continuing with the rest of the batch", item.ID, outcome.Error)
		} else {
			videos[item.ID] = outcome.VideoFile
		}
		state.Items = append(state.Items, outcome)
	}

	orchestrator := schedule.New(upload.New(rc.cfg.Upload, rc.env))
	results, err := orchestrator.PublishAll(ctx, rc.date, batch, videos)
	if err != nil {
		return err
	}
	for _, res := range results {
		for i := range state.Items {
			if state.Items[i].ContentID != res.ContentID {
				continue
			}
			if res.Err != nil && state.Items[i].Error == "" {
				state.Items[i].Error = res.Err.Error()
			}
			if res.VideoID != "" {
				state.Items[i].YouTubeID = res.VideoID
				state.Items[i].YouTubeURL = "https://www.youtube.com/watch?v=" + res.VideoID
			}
			break
		}
	}

	cleanup(rc)
	log.Printf("✅ Batch complete: %d/%d item(s) published", countPublished(state), len(batch))
	return nil
}

// The per-item stages, narrowed to what the driver calls so it can run
// against fakes.
type narrator interface {
	Run(ctx context.Context, text, outputFile string) (string, error)
}

type clipSource interface {
	Acquire(ctx context.Context, keyword, destPath string) (string, error)
}

type videoAssembler interface {
	Run(ctx context.Context, clipDir, audioFile, mergedFile, assFile, outputFile string) error
}

// processItem runs the per-item stages: narration audio, background clips,
// assembly. A stage failure marks the item failed; the batch goes on.
func processItem(ctx context.Context, rc *runContext, item types.ContentItem, audioGen narrator, acquirer clipSource, assembler videoAssembler) types.ItemOutcome {
	outcome := types.ItemOutcome{ContentID: item.ID}

	// Audio is idempotent: skip when an earlier run already produced it.
	audioFile := rc.audioFile(item.ID)
	if _, err := os.Stat(audioFile); err == nil {
		log.Printf("[driver] Audio exists, skipping synthesis: %s", audioFile)
	} else {
		if _, err := audioGen.Run(ctx, item.Content, audioFile); err != nil {
			outcome.Error = fmt.Sprintf("audio: %v", err)
			return outcome
		}
	}
	outcome.AudioFile = audioFile

	for i, keyword := range item.BgQueries {
		dest := rc.clipFile(item.ID, i+1)
		if _, err := acquirer.Acquire(ctx, keyword, dest); err != nil {
			// A missing clip is not fatal: the merge works with whatever
			// keywords succeeded.
			log.Printf("[driver] ⚠️ no clip for %q: %v", keyword, err)
		}
	}

	finalFile := rc.finalFile(item.ID)
	err := assembler.Run(ctx, rc.clipDir(item.ID), audioFile, rc.mergedFile(item.ID), rc.assFile(item.ID), finalFile)
	if err != nil {
		outcome.Error = fmt.Sprintf("assemble: %v", err)
		return outcome
	}
	outcome.VideoFile = finalFile
	return outcome
}

// cleanup removes the intermediate working directories. Final videos, the
// persisted batch and the run state survive.
func cleanup(rc *runContext) {
	log.Println("[driver] Cleaning up working files...")
	for _, sub := range []string{"audio", "clips", "merged", "subs"} {
		dir := filepath.Join(rc.cfg.Paths.Workdir, sub)
		if err := os.RemoveAll(dir); err != nil {
			log.Printf("[driver] ⚠️ could not remove %s: %v", dir, err)
		}
	}
}

// runMOTD runs the media-of-the-day flow: fetch, convert, thumbnail, upload.
func runMOTD(ctx context.Context) error {
	rc, err := newRunContext()
	if err != nil {
		return err
	}

	media, err := motd.NewFetcher().GetMedia(ctx, "")
	if err != nil {
		return fmt.Errorf("get media of the day: %w", err)
	}
	log.Printf("[motd] %q by %s (%s)", media.Title, media.Author, media.License)

	videoFile, err := motd.DownloadAndConvert(ctx, media.VideoURL, filepath.Join(rc.cfg.Paths.Output, "motd.mp4"))
	if err != nil {
		return err
	}
	defer os.Remove(videoFile)

	frame, err := motd.GrabFrame(videoFile, filepath.Join(rc.cfg.Paths.Workdir, "background.png"), "00:00:05")
	if err != nil {
		return err
	}
	defer os.Remove(frame)

	thumb, err := thumbnail.Create(rc.cfg.Thumbnail, frame, media.Date, filepath.Join(rc.cfg.Paths.Workdir, "thumbnail_output.png"))
	if err != nil {
		return err
	}
	defer os.Remove(thumb)

	uploader := upload.New(rc.cfg.Upload, rc.env)
	videoID, err := uploader.Publish(ctx, schedule.PublishRequest{
		VideoFile:   videoFile,
		Title:       media.Title,
		Description: media.Description,
	})
	if err != nil {
		return err
	}
	if err := uploader.SetThumbnail(ctx, videoID, thumb); err != nil {
		return err
	}

	log.Printf("✅ Media of the day published: https://www.youtube.com/watch?v=%s", videoID)
	return nil
}

func countPublished(state *types.RunState) int {
	n := 0
	for _, item := range state.Items {
		if item.YouTubeID != "" {
			n++
		}
	}
	return n
}

func saveJSON(path string, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Warning: could not marshal JSON for %s: %v", path, err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("Warning: could not save %s: %v", path, err)
	}
}
