// Package render rasterizes turbidity fields into labeled PNG previews.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidelens/seascan/internal/raster"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// ErrWriteFailed tags preview persistence failures.
var ErrWriteFailed = errors.New("failed to write preview image")

// labelMargin is the white band above the field reserved for the title.
const labelMargin = 24

// ylGnBu is a fixed yellow-green-blue ramp, low turbidity to high.
var ylGnBu = []color.NRGBA{
	{R: 255, G: 255, B: 217, A: 255},
	{R: 199, G: 233, B: 180, A: 255},
	{R: 65, G: 182, B: 196, A: 255},
	{R: 34, G: 94, B: 168, A: 255},
	{R: 8, G: 29, B: 88, A: 255},
}

// Renderer persists turbidity previews under a fixed output directory.
type Renderer struct {
	outputDir string
	log       *slog.Logger
}

// NewRenderer creates a renderer writing previews into outputDir. The
// directory is created on first use.
func NewRenderer(outputDir string, log *slog.Logger) *Renderer {
	return &Renderer{outputDir: outputDir, log: log}
}

// RenderPreview rasterizes the turbidity field with the fixed color scale,
// labels it with the site name, and writes it as PNG to a path derived from
// the site name. Invalid pixels render fully transparent. The written path is
// returned for the presentation layer to link.
func (r *Renderer) RenderPreview(field *raster.Raster, siteName string) (string, error) {
	img := image.NewNRGBA(image.Rect(0, 0, field.Width, field.Height+labelMargin))

	// Title band.
	for y := 0; y < labelMargin; y++ {
		for x := 0; x < field.Width; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 255, G: 255, B: 255, A: 255})
		}
	}

	for row := 0; row < field.Height; row++ {
		for col := 0; col < field.Width; col++ {
			if !field.IsValid(col, row) {
				continue // transparent
			}
			img.SetNRGBA(col, row+labelMargin, rampColor(field.At(col, row)))
		}
	}

	drawLabel(img, fmt.Sprintf("NDTI Analysis: %s", siteName))

	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	path := filepath.Join(r.outputDir, previewFilename(siteName))
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}
	defer file.Close()

	if err = png.Encode(file, img); err != nil {
		return "", fmt.Errorf("%w: %w", ErrWriteFailed, err)
	}

	r.log.Debug("Preview written", "path", path, "site", siteName)

	return path, nil
}

// rampColor maps a turbidity index value in [-1, 1] onto the fixed ramp with
// linear interpolation between stops.
func rampColor(value float64) color.NRGBA {
	t := (value + 1) / 2
	t = math.Max(0, math.Min(1, t))

	scaled := t * float64(len(ylGnBu)-1)
	low := int(math.Floor(scaled))
	if low >= len(ylGnBu)-1 {
		return ylGnBu[len(ylGnBu)-1]
	}
	frac := scaled - float64(low)

	a, b := ylGnBu[low], ylGnBu[low+1]
	lerp := func(x, y uint8) uint8 {
		return uint8(math.Round(float64(x) + frac*(float64(y)-float64(x))))
	}
	return color.NRGBA{R: lerp(a.R, b.R), G: lerp(a.G, b.G), B: lerp(a.B, b.B), A: 255}
}

func drawLabel(img *image.NRGBA, text string) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(color.NRGBA{R: 49, G: 51, B: 63, A: 255}),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(6, 16),
	}
	drawer.DrawString(text)
}

// previewFilename derives the report filename from the site name, replacing
// spaces so the path stays shell-friendly.
func previewFilename(siteName string) string {
	return strings.ReplaceAll(siteName, " ", "_") + "_report.png"
}
