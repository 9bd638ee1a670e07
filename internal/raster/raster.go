// Package raster models single-band reflectance grids and their georeference.
// A raster is created from one scene asset, clipped to the requesting bounding
// box, consumed by the analyzer, then discarded.
package raster

import (
	"errors"
	"fmt"
)

// Common errors for raster reductions.
var (
	ErrNoValidPixels = errors.New("raster has no valid pixels")
	ErrSizeMismatch  = errors.New("raster dimensions do not match")
)

// GridRef ties a pixel grid to a projected coordinate reference system.
// Transform is the affine grid-to-CRS transform in row-major 2x3 order
// [xres, xskew, xmin, yskew, yres, ymax], the order the STAC projection
// extension publishes it in.
type GridRef struct {
	EPSG      int
	Transform [6]float64
}

// PixelCenter returns the CRS coordinates of the center of pixel (col, row).
func (g GridRef) PixelCenter(col, row int) (x, y float64) {
	fc, fr := float64(col)+0.5, float64(row)+0.5
	x = g.Transform[0]*fc + g.Transform[1]*fr + g.Transform[2]
	y = g.Transform[3]*fc + g.Transform[4]*fr + g.Transform[5]
	return x, y
}

// Raster is a 2-D grid of reflectance samples for one spectral band with a
// validity mask for no-data pixels.
type Raster struct {
	Width  int
	Height int
	Ref    GridRef

	samples []float64
	valid   []bool
}

// New creates a raster of the given size with every pixel marked invalid.
func New(width, height int, ref GridRef) *Raster {
	return &Raster{
		Width:   width,
		Height:  height,
		Ref:     ref,
		samples: make([]float64, width*height),
		valid:   make([]bool, width*height),
	}
}

// At returns the sample at (col, row). The value is meaningless when the
// pixel is invalid.
func (r *Raster) At(col, row int) float64 {
	return r.samples[row*r.Width+col]
}

// IsValid reports whether the pixel at (col, row) carries data.
func (r *Raster) IsValid(col, row int) bool {
	return r.valid[row*r.Width+col]
}

// Set stores a sample at (col, row) and marks the pixel valid.
func (r *Raster) Set(col, row int, value float64) {
	idx := row*r.Width + col
	r.samples[idx] = value
	r.valid[idx] = true
}

// Invalidate marks the pixel at (col, row) as no-data.
func (r *Raster) Invalidate(col, row int) {
	r.valid[row*r.Width+col] = false
}

// ValidCount returns the number of pixels carrying data.
func (r *Raster) ValidCount() int {
	count := 0
	for _, ok := range r.valid {
		if ok {
			count++
		}
	}
	return count
}

// Mean returns the arithmetic mean over all valid pixels. A mean over an
// empty valid set is numerically undefined, so it fails loudly with
// ErrNoValidPixels instead of returning NaN.
func (r *Raster) Mean() (float64, error) {
	sum, count := 0.0, 0
	for idx, ok := range r.valid {
		if ok {
			sum += r.samples[idx]
			count++
		}
	}
	if count == 0 {
		return 0, ErrNoValidPixels
	}
	return sum / float64(count), nil
}

// Clone returns a deep copy of the raster. Fetch caches hand out clones so
// clipping one analysis run never mutates a cached grid.
func (r *Raster) Clone() *Raster {
	out := New(r.Width, r.Height, r.Ref)
	copy(out.samples, r.samples)
	copy(out.valid, r.valid)
	return out
}

// SameShape verifies that two rasters cover identical grids.
func SameShape(a, b *Raster) error {
	if a.Width != b.Width || a.Height != b.Height {
		return fmt.Errorf("%w: %dx%d vs %dx%d", ErrSizeMismatch, a.Width, a.Height, b.Width, b.Height)
	}
	return nil
}
