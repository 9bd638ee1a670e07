package models

import "time"

// Asset is one addressable band raster belonging to a scene. The projection
// metadata is carried on the asset by the catalog (STAC proj extension) and is
// what allows clipping without reading geo tags out of the file itself.
type Asset struct {
	Href      string     // Location of the raster, usually a COG on object storage.
	EPSG      int        // Projected coordinate reference system of the grid.
	Transform [6]float64 // Affine grid-to-CRS transform, row-major 2x3.
}

// Scene identifies exactly one satellite capture selected from the catalog.
// It is resolved once per analysis call and never reused by the core.
type Scene struct {
	ID         string           // Catalog identifier of the capture.
	Collection string           // Product collection, e.g. "sentinel-2-l2a".
	CloudCover float64          // Scene-wide cloud cover percentage.
	Datetime   time.Time        // Acquisition timestamp.
	Assets     map[string]Asset // Band assets addressable by name ("red", "green").
}
