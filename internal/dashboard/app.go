package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
	"github.com/couchcryptid/climate-dashboard/internal/observability"
)

var (
	// ErrNotLoaded is returned by views requested before a successful Load.
	ErrNotLoaded = errors.New("datasets have not been loaded yet")

	// ErrYearOutOfRange is returned when a selected year lies outside the data's bounds.
	ErrYearOutOfRange = errors.New("selected year is outside the available range")
)

// DatasetLoader reads the two source datasets. Implementations are expected to
// memoize per path.
type DatasetLoader interface {
	LoadTemperature(ctx context.Context, path string) ([]domain.TemperatureReading, error)
	LoadSeaLevel(ctx context.Context, path string) ([]domain.SeaLevelYear, error)
}

// Exporter publishes the comparison view to an external sink.
type Exporter interface {
	ExportComparison(ctx context.Context, view domain.ComparisonView) error
}

// Settings are the analysis inputs of the dashboard.
type Settings struct {
	TemperaturePath string
	SeaLevelPath    string
	WarmThresholdF  float64
	CompareFromYear int
	CompareToYear   int
}

// state is everything derived from one successful load. It is immutable once built.
type state struct {
	readings   []domain.TemperatureReading
	bounds     domain.YearRange
	yearly     []domain.YearlyTemperature
	warm       domain.WarmYear
	comparison domain.ComparisonView
}

// App is the application context shared by the HTTP handlers and CLIs. It owns
// the loaded datasets and the views derived from them.
type App struct {
	loader   DatasetLoader
	settings Settings
	logger   *slog.Logger
	metrics  *observability.Metrics

	state atomic.Pointer[state]
}

// New creates an App. Call Load before requesting any view.
func New(loader DatasetLoader, settings Settings, logger *slog.Logger, metrics *observability.Metrics) *App {
	return &App{
		loader:   loader,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
}

// Load reads both datasets through the loader and precomputes every view that
// does not depend on the year selection.
func (a *App) Load(ctx context.Context) error {
	readings, err := a.loader.LoadTemperature(ctx, a.settings.TemperaturePath)
	if err != nil {
		return fmt.Errorf("load temperature dataset: %w", err)
	}
	seaLevels, err := a.loader.LoadSeaLevel(ctx, a.settings.SeaLevelPath)
	if err != nil {
		return fmt.Errorf("load sea level dataset: %w", err)
	}

	bounds, err := domain.YearRangeOf(readings)
	if err != nil {
		return fmt.Errorf("temperature dataset %s: %w", a.settings.TemperaturePath, err)
	}

	yearly := domain.YearlyMeans(readings)
	warmYear, found := domain.FirstYearAbove(yearly, a.settings.WarmThresholdF)

	s := &state{
		readings: readings,
		bounds:   bounds,
		yearly:   yearly,
		warm: domain.WarmYear{
			Threshold: a.settings.WarmThresholdF,
			Year:      warmYear,
			Found:     found,
		},
		comparison: domain.JoinYearly(yearly, seaLevels, a.settings.CompareFromYear, a.settings.CompareToYear),
	}
	a.state.Store(s)
	a.metrics.DashboardReady.Set(1)

	a.logger.Info("datasets loaded",
		"temperature_rows", len(readings),
		"sea_level_years", len(seaLevels),
		"min_year", bounds.Min,
		"max_year", bounds.Max,
		"comparison_rows", len(s.comparison.Rows),
	)
	if !found {
		a.logger.Warn("no year exceeded the warm threshold", "threshold_f", a.settings.WarmThresholdF)
	}
	return nil
}

// CheckReadiness returns nil once both datasets are loaded.
func (a *App) CheckReadiness(_ context.Context) error {
	if a.state.Load() == nil {
		return ErrNotLoaded
	}
	return nil
}

// Bounds returns the inclusive range of years present in the temperature dataset.
// This is the only range a year selector may offer.
func (a *App) Bounds() (domain.YearRange, error) {
	s := a.state.Load()
	if s == nil {
		return domain.YearRange{}, ErrNotLoaded
	}
	return s.bounds, nil
}

// SelectYear handles a change of the year selector. Only the monthly view
// depends on the selection, so it is the only thing recomputed.
func (a *App) SelectYear(year int) (domain.MonthlyView, error) {
	s := a.state.Load()
	if s == nil {
		return domain.MonthlyView{}, ErrNotLoaded
	}
	if !s.bounds.Contains(year) {
		return domain.MonthlyView{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrYearOutOfRange, year, s.bounds.Min, s.bounds.Max)
	}

	a.metrics.YearSelections.Inc()
	view, err := domain.MonthlyMeans(s.readings, year)
	if err != nil {
		return view, err
	}
	a.logger.Debug("year selected", "year", year, "months", len(view.Months))
	return view, nil
}

// YearlyTemperatures returns the mean temperature of every year, ascending.
func (a *App) YearlyTemperatures() ([]domain.YearlyTemperature, error) {
	s := a.state.Load()
	if s == nil {
		return nil, ErrNotLoaded
	}
	return s.yearly, nil
}

// WarmYear returns the first year whose mean exceeded the configured threshold.
func (a *App) WarmYear() (domain.WarmYear, error) {
	s := a.state.Load()
	if s == nil {
		return domain.WarmYear{}, ErrNotLoaded
	}
	return s.warm, nil
}

// Comparison returns the joined yearly temperature and sea-level view.
func (a *App) Comparison() (domain.ComparisonView, error) {
	s := a.state.Load()
	if s == nil {
		return domain.ComparisonView{}, ErrNotLoaded
	}
	return s.comparison, nil
}

// Snapshot assembles every presented view for one year selection.
func (a *App) Snapshot(year int) (domain.Snapshot, error) {
	monthly, err := a.SelectYear(year)
	if err != nil && !errors.Is(err, domain.ErrNoMonthlyData) {
		return domain.Snapshot{}, err
	}
	s := a.state.Load()
	return domain.Snapshot{
		Bounds:      s.bounds,
		Monthly:     monthly,
		Warm:        s.warm,
		Comparison:  s.comparison,
		GeneratedAt: domain.Now(),
	}, nil
}

// Export publishes the comparison view through the exporter.
func (a *App) Export(ctx context.Context, exporter Exporter) error {
	view, err := a.Comparison()
	if err != nil {
		return err
	}
	if err := exporter.ExportComparison(ctx, view); err != nil {
		return fmt.Errorf("export comparison: %w", err)
	}
	a.metrics.ExportedRows.Add(float64(len(view.Rows)))
	a.logger.Info("comparison exported", "rows", len(view.Rows))
	return nil
}
