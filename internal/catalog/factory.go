package catalog

import (
	"fmt"
	"log/slog"

	"golang.org/x/time/rate"
)

// ProviderType represents the type of imagery catalog provider.
type ProviderType string

const (
	// ProviderTypeEarthSearch represents the Element 84 earth-search STAC API.
	ProviderTypeEarthSearch ProviderType = "earthsearch"
	// ProviderTypePlanetary represents the Microsoft Planetary Computer STAC API.
	ProviderTypePlanetary ProviderType = "planetary"
)

// ProviderConfig holds configuration for creating a catalog provider.
type ProviderConfig struct {
	Type          ProviderType // Type of provider to create
	APIKey        string       // API key (used by the Planetary Computer provider)
	BaseURL       string       // Optional endpoint override, mainly for tests and mirrors
	Collection    string       // Product collection searched; defaults to sentinel-2-l2a
	CloudCoverMax float64      // Exclusive cloud cover ceiling in percent
	RateLimit     int          // Requests per second against the catalog
	Logger        *slog.Logger // Logger for the provider
}

// NewProvider creates a catalog provider based on the provided configuration.
// It applies the Factory pattern to decouple provider instantiation from the
// analysis logic.
//
// Supported provider types:
// - "earthsearch": Element 84 earth-search (free, no API key required)
// - "planetary": Microsoft Planetary Computer (key optional, raises limits)
//
// Returns an error if the provider type is unsupported.
func NewProvider(config ProviderConfig) (Provider, error) {
	opts := providerOptions(config)

	switch config.Type {
	case ProviderTypeEarthSearch:
		return NewEarthSearchProvider(config.Logger, opts...), nil
	case ProviderTypePlanetary:
		return NewPlanetaryProvider(config.APIKey, config.Logger, opts...), nil
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", config.Type)
	}
}

func providerOptions(config ProviderConfig) []STACOption {
	var opts []STACOption
	if config.Collection != "" {
		opts = append(opts, WithCollection(config.Collection))
	}
	if config.CloudCoverMax > 0 {
		opts = append(opts, WithCloudCoverMax(config.CloudCoverMax))
	}
	if config.RateLimit > 0 {
		opts = append(opts, WithRateLimiter(rate.NewLimiter(rate.Limit(config.RateLimit), config.RateLimit)))
	}
	if config.BaseURL != "" {
		opts = append(opts, withBaseURL(config.BaseURL))
	}
	return opts
}

// withBaseURL is internal: endpoint overrides come only through ProviderConfig.
func withBaseURL(baseURL string) STACOption {
	return func(p *STACProvider) { p.baseURL = baseURL }
}
