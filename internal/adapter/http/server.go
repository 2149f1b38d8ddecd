package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/climate-dashboard/internal/dashboard"
	"github.com/couchcryptid/climate-dashboard/internal/domain"
	"github.com/couchcryptid/climate-dashboard/internal/observability"
	"github.com/couchcryptid/climate-dashboard/internal/render"
)

var errBadYear = errors.New("year must be an integer")

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Dashboard is the application context the handlers read from.
type Dashboard interface {
	ReadinessChecker
	Bounds() (domain.YearRange, error)
	SelectYear(year int) (domain.MonthlyView, error)
	YearlyTemperatures() ([]domain.YearlyTemperature, error)
	WarmYear() (domain.WarmYear, error)
	Comparison() (domain.ComparisonView, error)
	Snapshot(year int) (domain.Snapshot, error)
}

// Server exposes the dashboard page, chart images, JSON views, and the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	chartOpts  render.Options
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the dashboard and operational routes.
func NewServer(addr string, dash Dashboard, chartOpts render.Options, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:      dash,
		chartOpts: chartOpts,
		metrics:   metrics,
		logger:    logger,
	}

	mux.HandleFunc("GET /{$}", s.handlePage)
	mux.HandleFunc("GET /charts/monthly.png", s.handleMonthlyChart)
	mux.HandleFunc("GET /charts/comparison.png", s.handleComparisonChart)
	mux.HandleFunc("GET /dashboard.png", s.handleSnapshot)

	mux.HandleFunc("GET /api/years", s.handleYears)
	mux.HandleFunc("GET /api/monthly", s.handleMonthly)
	mux.HandleFunc("GET /api/warm-year", s.handleWarmYear)
	mux.HandleFunc("GET /api/comparison", s.handleComparison)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(dash))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// handlePage always answers with HTML. A year outside the dataset is moved to
// the nearest bound and a non-integer year falls back to the first year.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	bounds, err := s.dash.Bounds()
	if err != nil {
		s.writePageError(w, r, err)
		return
	}
	year, err := s.selectedYear(r)
	if err != nil {
		year = bounds.Min
	}
	year = max(bounds.Min, min(year, bounds.Max))

	snap, err := s.dash.Snapshot(year)
	if err != nil {
		s.writePageError(w, r, err)
		return
	}

	start := time.Now()
	templ.Handler(render.Page(snap)).ServeHTTP(w, r)
	s.metrics.RenderDuration.WithLabelValues("page").Observe(time.Since(start).Seconds())
}

func (s *Server) handleMonthlyChart(w http.ResponseWriter, r *http.Request) {
	year, err := s.selectedYear(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.dash.SelectYear(year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, r, "monthly_chart", func(buf io.Writer) error {
		return render.MonthlyChart(buf, view, s.chartOpts)
	})
}

func (s *Server) handleComparisonChart(w http.ResponseWriter, r *http.Request) {
	view, err := s.dash.Comparison()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, r, "comparison_chart", func(buf io.Writer) error {
		return render.ComparisonChart(buf, view, s.chartOpts)
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	year, err := s.selectedYear(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	snap, err := s.dash.Snapshot(year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writePNG(w, r, "snapshot", func(buf io.Writer) error {
		return render.Snapshot(buf, snap, s.chartOpts)
	})
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	bounds, err := s.dash.Bounds()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	yearly, err := s.dash.YearlyTemperatures()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"min":    bounds.Min,
		"max":    bounds.Max,
		"yearly": yearly,
	})
}

func (s *Server) handleMonthly(w http.ResponseWriter, r *http.Request) {
	year, err := s.selectedYear(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	view, err := s.dash.SelectYear(year)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleWarmYear(w http.ResponseWriter, r *http.Request) {
	warm, err := s.dash.WarmYear()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"threshold_fahrenheit": warm.Threshold,
		"found":                warm.Found,
		"year":                 yearOrNil(warm),
		"sentence":             render.WarmYearSentence(warm),
	})
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	view, err := s.dash.Comparison()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"from_year": view.FromYear,
		"to_year":   view.ToYear,
		"rows":      view.Rows,
		"caption":   render.ComparisonCaption(view),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// selectedYear reads ?year=, defaulting to the first year of the dataset.
func (s *Server) selectedYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		bounds, err := s.dash.Bounds()
		if err != nil {
			return 0, err
		}
		return bounds.Min, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errBadYear, raw)
	}
	return year, nil
}

// writePNG renders into a buffer first so a render failure can still become a
// proper error response.
func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, artifact string, draw func(io.Writer) error) {
	start := time.Now()
	var buf bytes.Buffer
	err := draw(&buf)
	s.metrics.RenderDuration.WithLabelValues(artifact).Observe(time.Since(start).Seconds())
	if err != nil {
		if !errors.Is(err, render.ErrNoData) {
			s.metrics.RenderErrors.WithLabelValues(artifact).Inc()
		}
		s.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("write png response", "artifact", artifact, "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := s.errorStatus(r, err)
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writePageError answers a page request with an HTML error carrying the same
// status the JSON routes would use.
func (s *Server) writePageError(w http.ResponseWriter, r *http.Request, err error) {
	status := s.errorStatus(r, err)
	var buf bytes.Buffer
	if renderErr := render.ErrorPage(err.Error()).Render(r.Context(), &buf); renderErr != nil {
		http.Error(w, err.Error(), status)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, werr := buf.WriteTo(w); werr != nil {
		s.logger.Warn("write page response", "error", werr)
	}
}

func (s *Server) errorStatus(r *http.Request, err error) int {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, dashboard.ErrNotLoaded):
		status = http.StatusServiceUnavailable
	case errors.Is(err, errBadYear), errors.Is(err, dashboard.ErrYearOutOfRange):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNoMonthlyData), errors.Is(err, render.ErrNoData):
		status = http.StatusNotFound
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
	}
	return status
}

func yearOrNil(w domain.WarmYear) any {
	if !w.Found {
		return nil
	}
	return w.Year
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
