package assemble

import (
	"fmt"
	"strings"

	"daily-shorts-pipeline/config"
	"daily-shorts-pipeline/types"
)

// BuildASS renders a word-by-word ASS subtitle document from a transcript.
// Every recognized word becomes one Dialogue line spanning that word's
// timestamps, under a fixed style header.
func BuildASS(tr types.Transcript, cfg config.SubtitlesConfig, width, height int) string {
	var b strings.Builder
	b.WriteString(assHeader(cfg, width, height))

	for _, seg := range tr.Segments {
		for _, w := range seg.Words {
			word := strings.TrimSpace(w.Word)
			if word == "" {
				continue
			}
			fmt.Fprintf(&b, "Dialogue: 0,%s,%s,Default,%s\n",
				assTime(w.Start), assTime(w.End), sanitizeASS(word))
		}
	}
	return b.String()
}

func assHeader(cfg config.SubtitlesConfig, width, height int) string {
	return fmt.Sprintf(`[Script Info]
Title: Shorts Style
ScriptType: v4.00+
PlayResX: %d
PlayResY: %d

[V4+ Styles]
Format: Name, Fontname, Fontsize, PrimaryColour, OutlineColour, BackColour, Bold, Italic, BorderStyle, Outline, Shadow, Alignment, MarginL, MarginR, MarginV
Style: Default,%s,%d,&H0000FFFF,&H00000000,&H80000000,-1,0,1,4,0,5,10,10,80

[Events]
Format: Layer, Start, End, Style, Text
`, width, height, cfg.Font, cfg.FontSize)
}

// assTime formats seconds as h:mm:ss.cs, the ASS timestamp format
func assTime(t float64) string {
	if t < 0 {
		t = 0
	}
	total := int(t)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	cs := int((t - float64(total)) * 100)
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

func sanitizeASS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return s
}
