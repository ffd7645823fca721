package audio

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"daily-shorts-pipeline/config"

	"github.com/google/uuid"
)

// Engine is a TTS backend that renders one text chunk to an audio file
type Engine interface {
	Synthesize(ctx context.Context, text, voice, outFile string) error
}

// Generator turns long text into a single narration MP3
type Generator struct {
	cfg    config.AudioConfig
	engine Engine
	// sleep is the inter-chunk pause, swappable in tests
	sleep func(time.Duration)
}

// New creates a new Generator
func New(cfg config.AudioConfig, engine Engine) *Generator {
	return &Generator{cfg: cfg, engine: engine, sleep: time.Sleep}
}

// Run synthesizes the given text into outputFile. Long text is split into
// word-bounded chunks, each chunk is rendered independently with a pause in
// between to stay under provider rate limits, and the chunk files are merged
// by byte append — valid for MP3, which tolerates frame concatenation.
// Per-chunk temp files are always removed, on failure too.
func (g *Generator) Run(ctx context.Context, text, outputFile string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return "", fmt.Errorf("create audio dir: %w", err)
	}

	chunks := Chunk(Normalize(text), g.cfg.ChunkSize)
	if len(chunks) == 0 {
		return "", fmt.Errorf("no text to synthesize")
	}

	prefix := uuid.NewString()[:8]
	tmpDir := filepath.Dir(outputFile)
	var tempFiles []string
	defer func() {
		for _, f := range tempFiles {
			_ = os.Remove(f)
		}
	}()

	log.Printf("[audio] Synthesizing %d chunk(s) with voice %s...", len(chunks), g.cfg.Voice)

	for i, chunk := range chunks {
		tempFile := filepath.Join(tmpDir, fmt.Sprintf("temp_%s_%d.mp3", prefix, i))
		if err := g.engine.Synthesize(ctx, chunk, g.cfg.Voice, tempFile); err != nil {
			return "", fmt.Errorf("chunk %d synthesis failed: %w", i, err)
		}
		tempFiles = append(tempFiles, tempFile)

		// Prevent rate-limiting
		g.sleep(time.Duration(g.cfg.RateLimitMS) * time.Millisecond)
	}

	if err := concatFiles(tempFiles, outputFile); err != nil {
		return "", fmt.Errorf("merge audio chunks: %w", err)
	}

	log.Printf("[audio] ✅ Audio created: %s", outputFile)
	return outputFile, nil
}

// Normalize collapses alternate quote styles to a plain double quote
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "``", `"`)
	text = strings.ReplaceAll(text, "''", `"`)
	return text
}

// Chunk splits text into pieces of at most chunkSize words, preserving word
// order and joining with single spaces
func Chunk(text string, chunkSize int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var chunks []string
	for i := 0; i < len(words); i += chunkSize {
		end := i + chunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[i:end], " "))
	}
	return chunks
}

func concatFiles(parts []string, outputFile string) error {
	out, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	for _, part := range parts {
		in, err := os.Open(part)
		if err != nil {
			return err
		}
		_, err = io.Copy(out, in)
		in.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
