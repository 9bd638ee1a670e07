package catalog

import (
	"context"
	"errors"
	"net/http"

	"github.com/tidelens/seascan/internal/models"
)

// Provider is an interface that defines scene resolution against an imagery
// catalog. Search takes a bounding box and returns the single best-matching
// low-cloud scene intersecting it, or ErrNoScenes when the catalog has none.
type Provider interface {
	Search(ctx context.Context, bbox models.BoundingBox) (*models.Scene, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ErrNoScenes is returned when the catalog search matches zero scenes. The
// caller must surface it as a reported failure, never as an empty default
// result.
var ErrNoScenes = errors.New("catalog returned no matching scenes")
