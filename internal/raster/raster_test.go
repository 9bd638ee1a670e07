package raster_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidelens/seascan/internal/models"
	"github.com/tidelens/seascan/internal/raster"
)

// geographicRef is a 1-degree-per-pixel WGS84 grid anchored at (0, 4) so test
// pixel centers land on half-degree coordinates.
var geographicRef = raster.GridRef{
	EPSG:      4326,
	Transform: [6]float64{1, 0, 0, 0, -1, 4},
}

func filled(width, height int, value float64) *raster.Raster {
	grid := raster.New(width, height, geographicRef)
	for row := 0; row < height; row++ {
		for col := 0; col < width; col++ {
			grid.Set(col, row, value)
		}
	}
	return grid
}

func TestMean(t *testing.T) {
	t.Parallel()

	t.Run("uniform grid", func(t *testing.T) {
		t.Parallel()
		grid := filled(2, 2, 3000)

		mean, err := grid.Mean()

		require.NoError(t, err)
		assert.InEpsilon(t, 3000.0, mean, 1e-9)
	})

	t.Run("invalid pixels excluded", func(t *testing.T) {
		t.Parallel()
		grid := filled(2, 2, 10)
		grid.Set(0, 0, 100)
		grid.Invalidate(1, 1)

		mean, err := grid.Mean()

		require.NoError(t, err)
		assert.InEpsilon(t, 40.0, mean, 1e-9) // (100+10+10)/3
	})

	t.Run("all pixels masked fails loudly", func(t *testing.T) {
		t.Parallel()
		grid := raster.New(3, 3, geographicRef)

		_, err := grid.Mean()

		require.Error(t, err)
		require.ErrorIs(t, err, raster.ErrNoValidPixels)
	})
}

func TestClone(t *testing.T) {
	t.Parallel()
	grid := filled(2, 2, 7)

	clone := grid.Clone()
	clone.Invalidate(0, 0)
	clone.Set(1, 1, 99)

	assert.True(t, grid.IsValid(0, 0))
	assert.InEpsilon(t, 7.0, grid.At(1, 1), 1e-9)
	assert.Equal(t, 4, grid.ValidCount())
	assert.Equal(t, 3, clone.ValidCount())
}

func TestSameShape(t *testing.T) {
	t.Parallel()

	require.NoError(t, raster.SameShape(filled(2, 2, 1), filled(2, 2, 2)))
	require.ErrorIs(t, raster.SameShape(filled(2, 2, 1), filled(3, 2, 1)), raster.ErrSizeMismatch)
}

func TestClip(t *testing.T) {
	t.Parallel()

	t.Run("degenerate box rejected", func(t *testing.T) {
		t.Parallel()
		grid := filled(4, 4, 1)

		err := grid.Clip(models.BoundingBox{West: 2, South: 0, East: 1, North: 4})

		require.Error(t, err)
		require.ErrorIs(t, err, models.ErrInvalidBoundingBox)
		assert.Equal(t, 16, grid.ValidCount(), "a rejected clip must not touch the mask")
	})

	t.Run("pixels outside the box masked", func(t *testing.T) {
		t.Parallel()
		// 4x4 grid covering lon [0,4], lat [0,4]; clip to the lower-left
		// 2x2 degree quarter.
		grid := filled(4, 4, 1)

		err := grid.Clip(models.BoundingBox{West: 0, South: 0, East: 2, North: 2})

		require.NoError(t, err)
		assert.Equal(t, 4, grid.ValidCount())
		assert.True(t, grid.IsValid(0, 3))
		assert.True(t, grid.IsValid(1, 2))
		assert.False(t, grid.IsValid(2, 2))
		assert.False(t, grid.IsValid(0, 0))
	})

	t.Run("box covering whole grid keeps everything", func(t *testing.T) {
		t.Parallel()
		grid := filled(3, 3, 5)

		err := grid.Clip(models.BoundingBox{West: -1, South: -1, East: 5, North: 5})

		require.NoError(t, err)
		assert.Equal(t, 9, grid.ValidCount())
	})

	t.Run("already invalid pixels stay invalid", func(t *testing.T) {
		t.Parallel()
		grid := filled(2, 2, 1)
		grid.Invalidate(0, 1)

		err := grid.Clip(models.BoundingBox{West: -1, South: -1, East: 5, North: 5})

		require.NoError(t, err)
		assert.False(t, grid.IsValid(0, 1))
	})

	t.Run("unsupported CRS surfaces an error", func(t *testing.T) {
		t.Parallel()
		grid := raster.New(2, 2, raster.GridRef{EPSG: 3857, Transform: [6]float64{1, 0, 0, 0, -1, 2}})

		err := grid.Clip(models.BoundingBox{West: 0, South: 0, East: 1, North: 1})

		require.Error(t, err)
		require.ErrorIs(t, err, raster.ErrUnsupportedCRS)
	})
}

func TestPixelCenter(t *testing.T) {
	t.Parallel()
	// UTM-style 10 m grid anchored at (600000, 5900040).
	ref := raster.GridRef{EPSG: 32629, Transform: [6]float64{10, 0, 600000, 0, -10, 5900040}}

	x, y := ref.PixelCenter(0, 0)
	assert.InEpsilon(t, 600005.0, x, 1e-9)
	assert.InEpsilon(t, 5900035.0, y, 1e-9)

	x, y = ref.PixelCenter(2, 1)
	assert.InEpsilon(t, 600025.0, x, 1e-9)
	assert.InEpsilon(t, 5900025.0, y, 1e-9)
}
