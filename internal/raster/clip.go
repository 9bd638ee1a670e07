package raster

import (
	"fmt"
	"math"

	"github.com/tidelens/seascan/internal/models"
)

// Clip masks every pixel whose center falls outside the bounding box. The box
// is given in WGS84 degrees; its four corners are projected into the raster's
// CRS and the footprint is the envelope of the projected corners. Degenerate
// boxes are rejected before any pixel is touched.
func (r *Raster) Clip(bbox models.BoundingBox) error {
	if err := bbox.Validate(); err != nil {
		return err
	}

	corners := [4][2]float64{
		{bbox.West, bbox.South},
		{bbox.West, bbox.North},
		{bbox.East, bbox.South},
		{bbox.East, bbox.North},
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, corner := range corners {
		x, y, err := projectToCRS(corner[0], corner[1], r.Ref.EPSG)
		if err != nil {
			return fmt.Errorf("failed to project clip geometry: %w", err)
		}
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}

	for row := 0; row < r.Height; row++ {
		for col := 0; col < r.Width; col++ {
			x, y := r.Ref.PixelCenter(col, row)
			if x < minX || x > maxX || y < minY || y > maxY {
				r.Invalidate(col, row)
			}
		}
	}

	return nil
}
