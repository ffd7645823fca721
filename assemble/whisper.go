package assemble

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"daily-shorts-pipeline/config"
	"daily-shorts-pipeline/types"
)

// Transcriber produces a word-level transcript of a narration track
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, workDir string) (types.Transcript, error)
}

// Whisper runs the whisper CLI with word timestamps enabled
type Whisper struct {
	bin string
	cfg config.SubtitlesConfig
}

// NewWhisper creates the default transcriber. bin may be empty to use the
// whisper found on PATH.
func NewWhisper(bin string, cfg config.SubtitlesConfig) *Whisper {
	if bin == "" {
		bin = "whisper"
	}
	return &Whisper{bin: bin, cfg: cfg}
}

// Transcribe runs whisper on the audio file and parses its JSON output.
// whisper writes <audio base>.json into the output dir.
func (w *Whisper) Transcribe(ctx context.Context, audioPath, workDir string) (types.Transcript, error) {
	cmd := exec.CommandContext(ctx, w.bin,
		audioPath,
		"--model", w.cfg.WhisperModel,
		"--output_format", "json",
		"--output_dir", workDir,
		"--language", w.cfg.Language,
		"--word_timestamps", "True",
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper failed: %w\n%s", err, string(b))
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(workDir, base+".json")
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return types.Transcript{}, fmt.Errorf("read whisper output: %w", err)
	}

	var tr types.Transcript
	if err := json.Unmarshal(data, &tr); err != nil {
		return types.Transcript{}, fmt.Errorf("parse whisper output: %w", err)
	}
	for i := range tr.Segments {
		tr.Segments[i].Text = strings.TrimSpace(tr.Segments[i].Text)
		for j := range tr.Segments[i].Words {
			tr.Segments[i].Words[j].Word = strings.TrimSpace(tr.Segments[i].Words[j].Word)
		}
	}
	return tr, nil
}

var _ Transcriber = (*Whisper)(nil)
