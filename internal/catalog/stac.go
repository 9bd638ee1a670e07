package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/tidelens/seascan/internal/models"
	"golang.org/x/time/rate"
)

// Base URLs for the supported STAC endpoints.
const (
	EarthSearchBaseURL = "https://earth-search.aws.element84.com/v1"
	PlanetaryBaseURL   = "https://planetarycomputer.microsoft.com/api/stac/v1"
)

// DefaultCollection is the Sentinel-2 surface reflectance product both
// endpoints publish under the same collection ID.
const DefaultCollection = "sentinel-2-l2a"

// Common errors for STAC providers.
var (
	ErrInvalidStatus = errors.New("STAC API returned unexpected status")
	ErrNoBandAssets  = errors.New("STAC item exposes no band assets")
)

// STACProvider resolves scenes through a STAC item search endpoint. One
// search request asks for at most one feature filtered by cloud cover, so
// there is no pagination and no retry logic here.
type STACProvider struct {
	client        HTTPClient
	baseURL       string
	collection    string
	cloudCoverMax float64
	apiKey        string
	userAgent     string
	limiter       *rate.Limiter
	log           *slog.Logger
}

// STACOption customizes a provider beyond the endpoint defaults.
type STACOption func(*STACProvider)

// WithHTTPClient injects a custom HTTP client, useful for tests.
func WithHTTPClient(client HTTPClient) STACOption {
	return func(p *STACProvider) { p.client = client }
}

// WithCollection overrides the searched collection.
func WithCollection(collection string) STACOption {
	return func(p *STACProvider) { p.collection = collection }
}

// WithCloudCoverMax overrides the cloud cover ceiling (exclusive, percent).
func WithCloudCoverMax(pct float64) STACOption {
	return func(p *STACProvider) { p.cloudCoverMax = pct }
}

// WithRateLimiter replaces the request limiter.
func WithRateLimiter(limiter *rate.Limiter) STACOption {
	return func(p *STACProvider) { p.limiter = limiter }
}

// NewEarthSearchProvider creates a provider backed by the Element 84
// earth-search endpoint. No API key is required.
func NewEarthSearchProvider(log *slog.Logger, opts ...STACOption) *STACProvider {
	return newSTACProvider(EarthSearchBaseURL, "", log, opts...)
}

// NewPlanetaryProvider creates a provider backed by the Microsoft Planetary
// Computer STAC endpoint. The subscription key is optional for search but
// raises the rate limits when present.
func NewPlanetaryProvider(apiKey string, log *slog.Logger, opts ...STACOption) *STACProvider {
	return newSTACProvider(PlanetaryBaseURL, apiKey, log, opts...)
}

func newSTACProvider(baseURL, apiKey string, log *slog.Logger, opts ...STACOption) *STACProvider {
	const (
		timeoutSeconds  = 30
		defaultRPS      = 5
		defaultCloudMax = 10
	)

	provider := &STACProvider{
		client:        &http.Client{Timeout: timeoutSeconds * time.Second},
		baseURL:       baseURL,
		collection:    DefaultCollection,
		cloudCoverMax: defaultCloudMax,
		apiKey:        apiKey,
		userAgent:     "Seascan/1.0 (https://github.com/tidelens/seascan)",
		limiter:       rate.NewLimiter(rate.Limit(defaultRPS), defaultRPS),
		log:           log,
	}
	for _, opt := range opts {
		opt(provider)
	}
	return provider
}

// stacSearchRequest is the POST /search body. Only the fields this service
// uses are modeled; the endpoints ignore absent extensions.
type stacSearchRequest struct {
	Collections []string                  `json:"collections"`
	BBox        []float64                 `json:"bbox"`
	Limit       int                       `json:"limit"`
	Query       map[string]map[string]any `json:"query"`
}

type stacAsset struct {
	Href      string    `json:"href"`
	EPSG      int       `json:"proj:epsg"`
	Transform []float64 `json:"proj:transform"`
}

type stacFeature struct {
	ID         string `json:"id"`
	Collection string `json:"collection"`
	Properties struct {
		Datetime   time.Time `json:"datetime"`
		CloudCover float64   `json:"eo:cloud_cover"`
		EPSG       int       `json:"proj:epsg"`
	} `json:"properties"`
	Assets map[string]stacAsset `json:"assets"`
}

type stacSearchResponse struct {
	Features []stacFeature `json:"features"`
}

// Search queries the catalog for scenes of the configured collection
// intersecting the bounding box, filtered to cloud cover strictly below the
// configured threshold and limited to a single result.
func (sp *STACProvider) Search(ctx context.Context, bbox models.BoundingBox) (*models.Scene, error) {
	if err := sp.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	if err := bbox.Validate(); err != nil {
		return nil, err
	}

	sp.log.DebugContext(ctx, "Searching STAC catalog",
		"endpoint", sp.baseURL, "collection", sp.collection, "bbox", bbox.Slice())

	searchReq := stacSearchRequest{
		Collections: []string{sp.collection},
		BBox:        bbox.Slice(),
		Limit:       1,
		Query: map[string]map[string]any{
			"eo:cloud_cover": {"lt": sp.cloudCoverMax},
		},
	}

	body, err := json.Marshal(searchReq)
	if err != nil {
		return nil, fmt.Errorf("failed to encode search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sp.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/geo+json")
	req.Header.Set("User-Agent", sp.userAgent)
	if sp.apiKey != "" {
		req.Header.Set("Ocp-Apim-Subscription-Key", sp.apiKey)
	}

	resp, err := sp.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		sp.log.ErrorContext(ctx, "STAC API error", "status", resp.StatusCode, "body", string(respBody))
		return nil, fmt.Errorf("%w: %d: %s", ErrInvalidStatus, resp.StatusCode, string(respBody))
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var result stacSearchResponse
	if err = json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}

	if len(result.Features) == 0 {
		return nil, ErrNoScenes
	}

	scene, err := sp.toScene(result.Features[0])
	if err != nil {
		return nil, err
	}

	sp.log.InfoContext(ctx, "Resolved scene",
		"scene", scene.ID, "cloud_cover", scene.CloudCover, "datetime", scene.Datetime)

	return scene, nil
}

// toScene converts a STAC feature into the internal scene model. Projection
// metadata is taken from the asset when present and falls back to the
// item-level value, matching how both endpoints publish Sentinel-2 items.
func (sp *STACProvider) toScene(feature stacFeature) (*models.Scene, error) {
	if len(feature.Assets) == 0 {
		return nil, fmt.Errorf("%w: item %s", ErrNoBandAssets, feature.ID)
	}

	scene := &models.Scene{
		ID:         feature.ID,
		Collection: feature.Collection,
		CloudCover: feature.Properties.CloudCover,
		Datetime:   feature.Properties.Datetime,
		Assets:     make(map[string]models.Asset, len(feature.Assets)),
	}

	for name, asset := range feature.Assets {
		epsg := asset.EPSG
		if epsg == 0 {
			epsg = feature.Properties.EPSG
		}
		modelAsset := models.Asset{Href: asset.Href, EPSG: epsg}
		if len(asset.Transform) >= 6 {
			copy(modelAsset.Transform[:], asset.Transform[:6])
		}
		scene.Assets[name] = modelAsset
	}

	return scene, nil
}
