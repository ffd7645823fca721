package thumbnail

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"daily-shorts-pipeline/config"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
)

// keyColor marks the template region to be replaced with the blurred
// background frame
var keyColor = color.NRGBA{R: 12, G: 192, B: 223, A: 255}

const textBottomOffset = 150

// Create composites the thumbnail: the template's key-colored region is
// replaced with a blurred background frame and the date text is drawn with
// per-glyph letter spacing near the bottom.
func Create(cfg config.ThumbnailConfig, backgroundPath, dateText, outputPath string) (string, error) {
	template, err := imaging.Open(cfg.Template)
	if err != nil {
		return "", fmt.Errorf("open template: %w", err)
	}
	background, err := imaging.Open(backgroundPath)
	if err != nil {
		return "", fmt.Errorf("open background: %w", err)
	}

	bounds := template.Bounds()
	background = imaging.Resize(background, bounds.Dx(), bounds.Dy(), imaging.Lanczos)
	background = imaging.Blur(background, float64(cfg.BlurRadius))

	composite := keyReplace(imaging.Clone(template), background)

	dc := gg.NewContextForImage(composite)
	if err := dc.LoadFontFace(cfg.Font, float64(cfg.FontSize)); err != nil {
		return "", fmt.Errorf("load thumbnail font: %w", err)
	}
	dc.SetRGB(0, 0, 0)
	drawSpacedText(dc, dateText, bounds.Dx(), bounds.Dy(), float64(cfg.LetterSpacing))

	if err := imaging.Save(dc.Image(), outputPath); err != nil {
		return "", fmt.Errorf("save thumbnail: %w", err)
	}
	log.Printf("[thumbnail] ✅ Thumbnail saved: %s", outputPath)
	return outputPath, nil
}

// keyReplace swaps every key-colored template pixel for the background
// pixel at the same position
func keyReplace(template *image.NRGBA, background image.Image) *image.NRGBA {
	bounds := template.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			px := template.NRGBAAt(x, y)
			if px.R == keyColor.R && px.G == keyColor.G && px.B == keyColor.B {
				r, g, b, a := background.At(x, y).RGBA()
				template.SetNRGBA(x, y, color.NRGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: uint8(a >> 8)})
			}
		}
	}
	return template
}

// drawSpacedText centers the text horizontally with a fixed pixel gap
// between glyphs, anchored near the bottom edge
func drawSpacedText(dc *gg.Context, text string, width, height int, spacing float64) {
	total := 0.0
	for _, r := range text {
		w, _ := dc.MeasureString(string(r))
		total += w + spacing
	}
	total -= spacing

	x := (float64(width)-total)/2 - 35
	y := float64(height) - textBottomOffset

	for _, r := range text {
		s := string(r)
		dc.DrawString(s, x, y)
		w, _ := dc.MeasureString(s)
		x += w + spacing
	}
}
