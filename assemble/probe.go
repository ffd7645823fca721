package assemble

import (
	"encoding/json"
	"fmt"
	"strconv"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type probeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

// Duration returns a media file's duration in seconds via ffprobe
func Duration(path string) (float64, error) {
	out, err := ffmpeg.Probe(path)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w", path, err)
	}
	var pf probeFormat
	if err := json.Unmarshal([]byte(out), &pf); err != nil {
		return 0, fmt.Errorf("parse ffprobe output: %w", err)
	}
	dur, err := strconv.ParseFloat(pf.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", pf.Format.Duration, err)
	}
	return dur, nil
}
