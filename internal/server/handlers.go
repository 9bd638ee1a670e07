package server

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tidelens/seascan/internal/models"
)

// Presentation constants from the sustainable finance panel: credits per
// biodiversity gain unit and tonnes of carbon per credit.
const (
	creditsPerGainUnit = 50.0
	tonnesPerCredit    = 2.5
)

const defaultHistoryLimit = 50

type errorResponse struct {
	Error string `json:"error"`
}

type siteResponse struct {
	Name            string             `json:"name"`
	Key             string             `json:"key"`
	Lat             float64            `json:"lat"`
	Lon             float64            `json:"lon"`
	BBox            models.BoundingBox `json:"bbox"`
	WindSpeed       float64            `json:"wind_speed"`
	DistanceToShore float64            `json:"distance_to_shore"`
}

// scorecardResponse is the full dashboard payload: the analysis result plus
// the derived compliance/finance values and share links the UI renders.
type scorecardResponse struct {
	models.AnalysisResult

	PreviewURL          string     `json:"preview_url"`
	BiodiversityGainPct int        `json:"biodiversity_gain_pct"`
	CarbonCredits       float64    `json:"carbon_credits_t_per_yr"`
	WaterNotPolluted    bool       `json:"water_not_polluted"`
	ShareLinks          shareLinks `json:"share_links"`
}

type shareLinks struct {
	WhatsApp string `json:"whatsapp"`
	LinkedIn string `json:"linkedin"`
	Email    string `json:"email"`
}

func (s *Server) handleListSites(c echo.Context) error {
	registered := s.registry.List()
	out := make([]siteResponse, 0, len(registered))
	for _, site := range registered {
		out = append(out, siteResponse{
			Name:            site.Name,
			Key:             site.Key,
			Lat:             site.Lat,
			Lon:             site.Lon,
			BBox:            site.BBox,
			WindSpeed:       site.WindSpeed,
			DistanceToShore: site.DistanceToShore,
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleAnalyze(c echo.Context) error {
	site, err := s.registry.Get(c.Param("key"))
	if err != nil {
		return c.JSON(http.StatusNotFound, errorResponse{Error: err.Error()})
	}

	ctx := c.Request().Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	result, err := s.analyzer.Analyze(ctx, site)
	if err != nil {
		// One flat message regardless of the failure mode.
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, s.scorecard(result))
}

func (s *Server) scorecard(result *models.AnalysisResult) scorecardResponse {
	gainPct := int(result.VegetationProxy * 100)

	shareText := fmt.Sprintf("EO for marine & renewable energy %s: %s", result.Site, s.publicURL)

	return scorecardResponse{
		AnalysisResult:      *result,
		PreviewURL:          "/previews/" + filepath.Base(result.PreviewPath),
		BiodiversityGainPct: gainPct,
		CarbonCredits:       result.VegetationProxy * creditsPerGainUnit * tonnesPerCredit,
		WaterNotPolluted:    result.TurbidityMean < 0,
		ShareLinks: shareLinks{
			WhatsApp: "https://api.whatsapp.com/send?text=" + url.QueryEscape(shareText),
			LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + url.QueryEscape(s.publicURL),
			Email:    "mailto:?subject=" + url.QueryEscape("EO for Marine and Renewable Energy") + "&body=" + url.QueryEscape(shareText),
		},
	}
}

func (s *Server) handleHistory(c echo.Context) error {
	limit := defaultHistoryLimit
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
		}
		limit = parsed
	}

	runs, err := s.history.ListRuns(c.Request().Context(), limit)
	if err != nil {
		s.log.ErrorContext(c.Request().Context(), "Failed to list history", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to list history"})
	}
	if runs == nil {
		runs = []models.RunRecord{}
	}

	return c.JSON(http.StatusOK, runs)
}

func (s *Server) handleClearHistory(c echo.Context) error {
	if err := s.history.ClearRuns(c.Request().Context()); err != nil {
		s.log.ErrorContext(c.Request().Context(), "Failed to clear history", "error", err)
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "failed to clear history"})
	}
	return c.NoContent(http.StatusNoContent)
}
