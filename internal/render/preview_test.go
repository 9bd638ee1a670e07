package render_test

import (
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Flaque/filet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidelens/seascan/internal/raster"
	"github.com/tidelens/seascan/internal/render"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testField(t *testing.T) *raster.Raster {
	t.Helper()
	ref := raster.GridRef{EPSG: 4326, Transform: [6]float64{1, 0, 0, 0, -1, 8}}
	field := raster.New(48, 8, ref)
	for row := 0; row < field.Height; row++ {
		for col := 0; col < field.Width; col++ {
			field.Set(col, row, float64(col)/float64(field.Width-1)*2-1)
		}
	}
	return field
}

func TestRenderPreview(t *testing.T) {
	defer filet.CleanUp(t)

	t.Run("writes decodable png with title band", func(t *testing.T) {
		dir := filet.TmpDir(t, "")
		renderer := render.NewRenderer(dir, testLogger())
		field := testField(t)

		path, err := renderer.RenderPreview(field, "Kish Bank")

		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "Kish_Bank_report.png"), path)

		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()

		img, format, err := image.Decode(file)
		require.NoError(t, err)
		assert.Equal(t, "png", format)
		assert.Equal(t, field.Width, img.Bounds().Dx())
		assert.Equal(t, field.Height+24, img.Bounds().Dy())
	})

	t.Run("invalid pixels render transparent", func(t *testing.T) {
		dir := filet.TmpDir(t, "")
		renderer := render.NewRenderer(dir, testLogger())
		field := testField(t)
		field.Invalidate(0, 0)

		path, err := renderer.RenderPreview(field, "Arklow Bank")
		require.NoError(t, err)

		file, err := os.Open(path)
		require.NoError(t, err)
		defer file.Close()

		img, err := png.Decode(file)
		require.NoError(t, err)

		_, _, _, alpha := img.At(0, 24).RGBA()
		assert.Zero(t, alpha)
		_, _, _, alpha = img.At(1, 24).RGBA()
		assert.NotZero(t, alpha)
	})

	t.Run("creates missing output directory", func(t *testing.T) {
		dir := filepath.Join(filet.TmpDir(t, ""), "nested", "previews")
		renderer := render.NewRenderer(dir, testLogger())

		path, err := renderer.RenderPreview(testField(t), "Kish Bank")

		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("unwritable directory fails loudly", func(t *testing.T) {
		dir := filet.TmpDir(t, "")
		blocked := filepath.Join(dir, "blocked")
		require.NoError(t, os.WriteFile(blocked, []byte("not a directory"), 0o644))
		renderer := render.NewRenderer(blocked, testLogger())

		path, err := renderer.RenderPreview(testField(t), "Kish Bank")

		require.Error(t, err)
		assert.Empty(t, path)
		require.ErrorIs(t, err, render.ErrWriteFailed)
	})
}
