package assemble

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// clipTransform normalizes one background clip before concatenation:
// scale to fit, pad centered to the exact target frame, constant frame
// rate, square pixels, single pixel format.
type clipTransform struct {
	Width  int
	Height int
	FPS    int
}

func (t clipTransform) apply(s *ffmpeg.Stream) *ffmpeg.Stream {
	return s.
		Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d:force_original_aspect_ratio=decrease", t.Width, t.Height)}).
		Filter("pad", ffmpeg.Args{fmt.Sprintf("%d:%d:(ow-iw)/2:(oh-ih)/2", t.Width, t.Height)}).
		Filter("fps", ffmpeg.Args{strconv.Itoa(t.FPS)}).
		Filter("setsar", ffmpeg.Args{"1"}).
		Filter("format", ffmpeg.Args{"yuv420p"})
}

// listClips returns the item's background clips in sorted filename order,
// which fixes the concatenation order across runs
func listClips(clipDir string) ([]string, error) {
	entries, err := os.ReadDir(clipDir)
	if err != nil {
		return nil, fmt.Errorf("read clip dir: %w", err)
	}
	var clips []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(e.Name()), ".mp4") {
			clips = append(clips, filepath.Join(clipDir, e.Name()))
		}
	}
	sort.Strings(clips)
	return clips, nil
}

// MergeBackgrounds concatenates every background clip for an item into one
// normalized video-only stream (pass 1). The output is reusable: it does
// not depend on narration timing, so retries of the final render can skip
// this step.
func (a *Assembler) MergeBackgrounds(clipDir, outputFile string) error {
	clips, err := listClips(clipDir)
	if err != nil {
		return err
	}
	if len(clips) == 0 {
		return fmt.Errorf("no background clips in %s", clipDir)
	}
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return err
	}

	log.Printf("[assemble] Merging %d background clip(s)...", len(clips))

	tr := clipTransform{Width: a.cfg.Video.Width, Height: a.cfg.Video.Height, FPS: a.cfg.Video.FPS}
	streams := make([]*ffmpeg.Stream, 0, len(clips))
	for _, clip := range clips {
		streams = append(streams, tr.apply(ffmpeg.Input(clip)))
	}

	err = ffmpeg.Concat(streams, ffmpeg.KwArgs{"v": 1, "a": 0}).
		Output(outputFile, ffmpeg.KwArgs{
			"c:v":     "libx264",
			"preset":  "ultrafast",
			"crf":     18,
			"pix_fmt": "yuv420p",
		}).
		OverWriteOutput().
		Run()
	if err != nil {
		return fmt.Errorf("merge background clips: %w", err)
	}

	log.Printf("[assemble] ✅ Merged video created: %s", outputFile)
	return nil
}
