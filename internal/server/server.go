// Package server exposes the dashboard API: a site registry listing, the
// analysis scorecard, the run comparison history and the preview images.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/tidelens/seascan/internal/models"
	"github.com/tidelens/seascan/internal/repository"
	"github.com/tidelens/seascan/internal/sites"
)

// Analyzer runs one site analysis. Implemented by service.AnalysisService.
type Analyzer interface {
	Analyze(ctx context.Context, site sites.Site) (*models.AnalysisResult, error)
}

// Server wraps the echo instance and its collaborators.
type Server struct {
	echo           *echo.Echo
	log            *slog.Logger
	registry       *sites.Registry
	analyzer       Analyzer
	history        repository.Interface
	publicURL      string
	requestTimeout time.Duration
}

// New assembles the dashboard API server. previewDir is served under
// /previews so scorecard clients can link the rendered turbidity images.
func New(
	log *slog.Logger,
	registry *sites.Registry,
	analyzer Analyzer,
	history repository.Interface,
	previewDir string,
	publicURL string,
	requestTimeout time.Duration,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	srv := &Server{
		echo:           e,
		log:            log,
		registry:       registry,
		analyzer:       analyzer,
		history:        history,
		publicURL:      publicURL,
		requestTimeout: requestTimeout,
	}

	api := e.Group("/api/v1")
	api.GET("/sites", srv.handleListSites)
	api.POST("/sites/:key/analysis", srv.handleAnalyze)
	api.GET("/history", srv.handleHistory)
	api.DELETE("/history", srv.handleClearHistory)
	e.Static("/previews", previewDir)

	return srv
}

// Start blocks serving on the given port until Shutdown or a listener error.
func (s *Server) Start(port int) error {
	if err := s.echo.Start(fmt.Sprintf(":%d", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("dashboard server failed: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("dashboard server shutdown: %w", err)
	}
	return nil
}

// Echo exposes the router for handler tests.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}
