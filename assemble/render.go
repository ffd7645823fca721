package assemble

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// speedLadder holds the candidate playback speed-up factors, tried in order.
// Video is only ever sped up, never slowed down.
var speedLadder = []float64{1.0, 1.2, 1.25}

// speedFactor picks the smallest ladder step that stretches videoDur to
// cover audioDur, or the ladder cap when none suffices
func speedFactor(videoDur, audioDur float64) float64 {
	for _, f := range speedLadder {
		if videoDur*f >= audioDur {
			return f
		}
	}
	return speedLadder[len(speedLadder)-1]
}

// FinalRender produces the composited output (pass 2): apply the playback
// speed factor to the merged video, trim to exactly the narration's length,
// burn in the subtitle document and mux the narration track.
func (a *Assembler) FinalRender(mergedVideo, audioPath, assFile, outputPath string) error {
	videoDur, err := Duration(mergedVideo)
	if err != nil {
		return err
	}
	audioDur, err := Duration(audioPath)
	if err != nil {
		return err
	}

	speed := speedFactor(videoDur, audioDur)
	if videoDur*speed < audioDur {
		// The ladder caps at 1.25x: the trimmed output will come up shorter
		// than the narration.
		log.Printf("[assemble] ⚠️ merged video too short: %.1fs × %.2f < %.1fs narration", videoDur, speed, audioDur)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return err
	}

	log.Printf("[assemble] Final render (speed %.2fx, trim to %.1fs)...", speed, audioDur)

	video := ffmpeg.Input(mergedVideo).
		Filter("setpts", ffmpeg.Args{fmt.Sprintf("PTS/%g", speed)}).
		Filter("trim", ffmpeg.Args{fmt.Sprintf("0:%.3f", audioDur)}).
		Filter("ass", ffmpeg.Args{escapeFilterPath(assFile)})
	audio := ffmpeg.Input(audioPath)

	err = ffmpeg.Output([]*ffmpeg.Stream{video, audio}, outputPath, ffmpeg.KwArgs{
		"c:v":      "libx264",
		"preset":   "medium",
		"crf":      23,
		"c:a":      "aac",
		"shortest": "",
	}).OverWriteOutput().Run()
	if err != nil {
		return fmt.Errorf("final render: %w", err)
	}

	log.Printf("[assemble] 🎉 Final video created: %s", outputPath)
	return nil
}

// escapeFilterPath escapes a path for use inside an FFmpeg filter argument
func escapeFilterPath(p string) string {
	p = filepath.ToSlash(p)
	p = strings.ReplaceAll(p, "\\", "\\\\")
	p = strings.ReplaceAll(p, ":", "\\:")
	return p
}
