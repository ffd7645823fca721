package audio

import (
	"context"
	"fmt"
	"os/exec"
)

// EdgeTTS drives the edge-tts CLI (free Microsoft TTS)
type EdgeTTS struct {
	bin string
}

// NewEdgeTTS creates the default TTS engine. bin may be empty to use the
// edge-tts found on PATH.
func NewEdgeTTS(bin string) *EdgeTTS {
	if bin == "" {
		bin = "edge-tts"
	}
	return &EdgeTTS{bin: bin}
}

// Synthesize renders one text chunk to outFile.
// edge-tts --voice V --text "..." --write-media out.mp3
func (e *EdgeTTS) Synthesize(ctx context.Context, text, voice, outFile string) error {
	cmd := exec.CommandContext(ctx, e.bin,
		"--voice", voice,
		"--text", text,
		"--write-media", outFile,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("edge-tts: %w\n%s", err, string(b))
	}
	return nil
}

var _ Engine = (*EdgeTTS)(nil)
