package assemble

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"daily-shorts-pipeline/config"
)

// Assembler builds the final composited video for one content item
type Assembler struct {
	cfg         *config.Config
	transcriber Transcriber
}

// New creates a new Assembler
func New(cfg *config.Config, transcriber Transcriber) *Assembler {
	return &Assembler{cfg: cfg, transcriber: transcriber}
}

// Run performs both passes for one item: merge the background clips, derive
// word-level subtitles from the narration, and render the final output.
// Any tool failure is fatal for the item.
func (a *Assembler) Run(ctx context.Context, clipDir, audioFile, mergedFile, assFile, outputFile string) error {
	if _, err := os.Stat(audioFile); err != nil {
		return fmt.Errorf("narration audio missing: %w", err)
	}
	// whisper writes its JSON next to the subtitle file; the directory must
	// exist before transcription runs.
	if err := os.MkdirAll(filepath.Dir(assFile), 0755); err != nil {
		return err
	}

	if err := a.MergeBackgrounds(clipDir, mergedFile); err != nil {
		return err
	}

	log.Println("[assemble] Transcribing narration...")
	tr, err := a.transcriber.Transcribe(ctx, audioFile, filepath.Dir(assFile))
	if err != nil {
		return err
	}

	doc := BuildASS(tr, a.cfg.Subtitles, a.cfg.Video.Width, a.cfg.Video.Height)
	if err := os.WriteFile(assFile, []byte(doc), 0644); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}
	log.Printf("[assemble] ✅ Subtitles written: %s", assFile)

	return a.FinalRender(mergedFile, audioFile, assFile, outputFile)
}
