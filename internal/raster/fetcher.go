package raster

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/tidelens/seascan/internal/models"

	// Register the TIFF decoder so image.Decode understands band COGs.
	_ "golang.org/x/image/tiff"
)

// Common errors for band fetching.
var (
	ErrMissingBand = errors.New("scene exposes no asset for band")
	ErrFetchFailed = errors.New("failed to fetch band asset")
)

// HTTPClient defines the interface for making HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Fetcher loads band rasters from scene asset locations over HTTP. Decoded
// grids are cached by href with a TTL so repeated runs against the same scene
// skip the download; callers always receive a clone because clipping mutates
// the validity mask.
type Fetcher struct {
	client HTTPClient
	cache  *cache.Cache
	log    *slog.Logger
}

// NewFetcher creates a band fetcher with the given cache TTL. A zero TTL
// disables caching.
func NewFetcher(cacheTTL time.Duration, log *slog.Logger) *Fetcher {
	const timeoutSeconds = 120

	var assetCache *cache.Cache
	if cacheTTL > 0 {
		assetCache = cache.New(cacheTTL, 2*cacheTTL)
	}

	return &Fetcher{
		client: &http.Client{Timeout: timeoutSeconds * time.Second},
		cache:  assetCache,
		log:    log,
	}
}

// NewFetcherWithClient creates a fetcher with a custom HTTP client.
// Useful for testing with mocked transports.
func NewFetcherWithClient(client HTTPClient, cacheTTL time.Duration, log *slog.Logger) *Fetcher {
	fetcher := NewFetcher(cacheTTL, log)
	fetcher.client = client
	return fetcher
}

// FetchBand downloads and decodes one named band asset of a scene into a
// masked raster. Zero-valued samples are the product's no-data marker and are
// masked out.
func (f *Fetcher) FetchBand(ctx context.Context, scene *models.Scene, band string) (*Raster, error) {
	asset, ok := scene.Assets[band]
	if !ok {
		return nil, fmt.Errorf("%w: %q in scene %s", ErrMissingBand, band, scene.ID)
	}

	if f.cache != nil {
		if cached, found := f.cache.Get(asset.Href); found {
			if grid, isRaster := cached.(*Raster); isRaster {
				f.log.DebugContext(ctx, "Band asset cache hit", "band", band, "href", asset.Href)
				return grid.Clone(), nil
			}
		}
	}

	grid, err := f.download(ctx, asset)
	if err != nil {
		return nil, err
	}

	if f.cache != nil {
		f.cache.Set(asset.Href, grid, cache.DefaultExpiration)
	}

	f.log.DebugContext(ctx, "Fetched band asset",
		"band", band, "scene", scene.ID, "width", grid.Width, "height", grid.Height,
		"valid_pixels", grid.ValidCount())

	return grid.Clone(), nil
}

func (f *Fetcher) download(ctx context.Context, asset models.Asset) (*Raster, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, asset.Href, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse
		return nil, fmt.Errorf("%w: status %d for %s", ErrFetchFailed, resp.StatusCode, asset.Href)
	}

	img, format, err := image.Decode(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrFetchFailed, asset.Href, err)
	}

	f.log.DebugContext(ctx, "Decoded band image", "format", format, "href", asset.Href)

	return fromImage(img, GridRef{EPSG: asset.EPSG, Transform: asset.Transform}), nil
}

// fromImage converts a decoded grayscale image into a raster. Sample values
// are the 16-bit channel intensities, which for Sentinel-2 surface
// reflectance COGs are the raw digital numbers.
func fromImage(img image.Image, ref GridRef) *Raster {
	bounds := img.Bounds()
	grid := New(bounds.Dx(), bounds.Dy(), ref)

	for row := 0; row < grid.Height; row++ {
		for col := 0; col < grid.Width; col++ {
			v, _, _, _ := img.At(bounds.Min.X+col, bounds.Min.Y+row).RGBA()
			if v == 0 {
				continue // no-data
			}
			grid.Set(col, row, float64(v))
		}
	}

	return grid
}
