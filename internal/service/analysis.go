package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/tidelens/seascan/internal/analysis"
	"github.com/tidelens/seascan/internal/catalog"
	"github.com/tidelens/seascan/internal/metrics"
	"github.com/tidelens/seascan/internal/models"
	"github.com/tidelens/seascan/internal/raster"
	"github.com/tidelens/seascan/internal/repository"
	"github.com/tidelens/seascan/internal/sites"
)

// ErrAnalysisFailed is the single flat failure surfaced to callers. The
// wrapped cause keeps the internal variant (catalog empty, fetch failure,
// numeric undefined, write failure) reachable through errors.Is for tests and
// logs, but the external contract stays one generic failure.
var ErrAnalysisFailed = errors.New("analysis failed")

// BandFetcher loads one named band raster of a resolved scene.
type BandFetcher interface {
	FetchBand(ctx context.Context, scene *models.Scene, band string) (*raster.Raster, error)
}

// PreviewRenderer persists a turbidity field visualization and returns its path.
type PreviewRenderer interface {
	RenderPreview(field *raster.Raster, siteName string) (string, error)
}

// Band asset names used by the analysis. Both supported catalogs expose
// Sentinel-2 bands under these names.
const (
	bandRed   = "red"
	bandGreen = "green"
)

// AnalysisService runs the resolve-fetch-clip-analyze-render pipeline for one
// site per call. The pipeline is strictly sequential; the caller-supplied
// context carries the only deadline.
type AnalysisService struct {
	log          *slog.Logger
	catalog      catalog.Provider
	providerName string
	fetcher      BandFetcher
	renderer     PreviewRenderer
	history      repository.Interface
	metrics      *metrics.Metrics
	results      *cache.Cache
}

// NewAnalysisService creates a new instance of AnalysisService. A zero
// resultTTL disables the per-site result cache.
func NewAnalysisService(
	log *slog.Logger,
	provider catalog.Provider,
	providerName string,
	fetcher BandFetcher,
	renderer PreviewRenderer,
	history repository.Interface,
	appMetrics *metrics.Metrics,
	resultTTL time.Duration,
) *AnalysisService {
	var results *cache.Cache
	if resultTTL > 0 {
		results = cache.New(resultTTL, 2*resultTTL)
	}

	return &AnalysisService{
		log:          log,
		catalog:      provider,
		providerName: providerName,
		fetcher:      fetcher,
		renderer:     renderer,
		history:      history,
		metrics:      appMetrics,
		results:      results,
	}
}

// Analyze produces the scorecard for one site: it resolves the best matching
// low-cloud scene, fetches and clips the red and green bands, computes the
// marine status and feasibility metrics, and writes the turbidity preview.
// Either the whole pipeline succeeds or it fails as one unit.
func (s *AnalysisService) Analyze(ctx context.Context, site sites.Site) (*models.AnalysisResult, error) {
	if s.results != nil {
		if cached, found := s.results.Get(site.Key); found {
			if result, ok := cached.(*models.AnalysisResult); ok {
				s.log.DebugContext(ctx, "Serving cached analysis", "site", site.Key)
				return result, nil
			}
		}
	}

	s.metrics.AnalysesInFlight.Inc()
	defer s.metrics.AnalysesInFlight.Dec()

	result, err := s.run(ctx, site)
	if err != nil {
		s.metrics.AnalysesProcessed.WithLabelValues("failure").Inc()
		s.log.ErrorContext(ctx, "Analysis failed", "site", site.Key, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	s.metrics.AnalysesProcessed.WithLabelValues("success").Inc()

	if s.results != nil {
		s.results.Set(site.Key, result, cache.DefaultExpiration)
	}

	s.recordRun(ctx, result)

	return result, nil
}

func (s *AnalysisService) run(ctx context.Context, site sites.Site) (*models.AnalysisResult, error) {
	startTime := time.Now()
	scene, err := s.catalog.Search(ctx, site.BBox)
	s.metrics.CatalogSeconds.WithLabelValues(s.providerName).Observe(time.Since(startTime).Seconds())
	if err != nil {
		s.metrics.CatalogErrors.Inc()
		return nil, err
	}

	s.log.InfoContext(ctx, "Scene resolved",
		"site", site.Key, "scene", scene.ID, "cloud_cover", scene.CloudCover)

	red, err := s.fetchClipped(ctx, scene, bandRed, site)
	if err != nil {
		return nil, err
	}
	green, err := s.fetchClipped(ctx, scene, bandGreen, site)
	if err != nil {
		return nil, err
	}

	marine, err := analysis.ComputeMarineStatus(red, green)
	if err != nil {
		return nil, err
	}

	feasibility, err := analysis.ComputeFeasibility(green, site.WindSpeed, site.DistanceToShore)
	if err != nil {
		return nil, err
	}

	previewPath, err := s.renderer.RenderPreview(marine.Turbidity, site.Name)
	if err != nil {
		return nil, err
	}

	return &models.AnalysisResult{
		RunID:            uuid.NewString(),
		Site:             site.Name,
		SiteKey:          site.Key,
		SceneID:          scene.ID,
		PreviewPath:      previewPath,
		FeasibilityScore: feasibility.Score,
		TurbidityMean:    marine.TurbidityMean,
		VegetationProxy:  marine.VegetationProxy,
		DepthEstimate:    feasibility.DepthEstimate,
		WindSpeed:        feasibility.WindSpeed,
		DistanceToShore:  feasibility.DistanceToShore,
		CreatedAt:        time.Now().UTC(),
	}, nil
}

func (s *AnalysisService) fetchClipped(
	ctx context.Context,
	scene *models.Scene,
	band string,
	site sites.Site,
) (*raster.Raster, error) {
	grid, err := s.fetcher.FetchBand(ctx, scene, band)
	if err != nil {
		return nil, err
	}
	if err = grid.Clip(site.BBox); err != nil {
		return nil, err
	}
	return grid, nil
}

// recordRun appends the result to the comparison history. History is a
// presentation concern, so a storage error is logged and does not fail the
// already completed analysis.
func (s *AnalysisService) recordRun(ctx context.Context, result *models.AnalysisResult) {
	record := models.RunRecord{
		ID:               result.RunID,
		Site:             result.Site,
		SiteKey:          result.SiteKey,
		SceneID:          result.SceneID,
		FeasibilityScore: result.FeasibilityScore,
		TurbidityMean:    result.TurbidityMean,
		VegetationProxy:  result.VegetationProxy,
		CreatedAt:        result.CreatedAt,
	}

	if err := s.history.InsertRun(ctx, record); err != nil {
		s.log.ErrorContext(ctx, "Could not record analysis run", "run", record.ID, "error", err)
	}
}
