package models

import (
	"errors"
	"fmt"
)

// ErrInvalidBoundingBox is returned when a bounding box has a degenerate extent.
var ErrInvalidBoundingBox = errors.New("invalid bounding box")

// BoundingBox represents a geographic rectangle in WGS84 degrees.
// It is used both to query the imagery catalog and to clip band rasters.
type BoundingBox struct {
	West  float64 `json:"west"  yaml:"west"`
	South float64 `json:"south" yaml:"south"`
	East  float64 `json:"east"  yaml:"east"`
	North float64 `json:"north" yaml:"north"`
}

// Validate checks that the box spans a non-degenerate area (west < east,
// south < north). Degenerate geometry must be rejected before clipping,
// never silently produce an empty footprint.
func (b BoundingBox) Validate() error {
	if b.West >= b.East {
		return fmt.Errorf("%w: west (%v) must be less than east (%v)", ErrInvalidBoundingBox, b.West, b.East)
	}
	if b.South >= b.North {
		return fmt.Errorf("%w: south (%v) must be less than north (%v)", ErrInvalidBoundingBox, b.South, b.North)
	}
	return nil
}

// Slice returns the box in the [west, south, east, north] order expected
// by STAC search requests.
func (b BoundingBox) Slice() []float64 {
	return []float64{b.West, b.South, b.East, b.North}
}
