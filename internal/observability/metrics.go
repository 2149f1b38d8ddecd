package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the dashboard.
type Metrics struct {
	// Dataset loading.
	DatasetLoads        *prometheus.CounterVec   // labels: dataset={temperature,sea_level}, outcome={success,error}
	DatasetRows         *prometheus.GaugeVec     // labels: dataset
	DatasetLoadDuration *prometheus.HistogramVec // labels: dataset
	LoadCache           *prometheus.CounterVec   // labels: dataset, result={hit,miss}

	// Interaction and presentation.
	YearSelections prometheus.Counter
	RenderDuration *prometheus.HistogramVec // labels: artifact={monthly_chart,comparison_chart,snapshot,page}
	RenderErrors   *prometheus.CounterVec   // labels: artifact

	ExportedRows   prometheus.Counter
	DashboardReady prometheus.Gauge
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		DatasetLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "dataset_loads_total",
			Help:      "Dataset file reads by dataset and outcome.",
		}, []string{"dataset", "outcome"}),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "climate_dashboard",
			Name:      "dataset_rows",
			Help:      "Rows held for each dataset after the last successful load.",
		}, []string{"dataset"}),
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "climate_dashboard",
			Name:      "dataset_load_duration_seconds",
			Help:      "Time spent reading and parsing a dataset file.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"dataset"}),
		LoadCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "load_cache_total",
			Help:      "Dataset cache lookups by dataset and result.",
		}, []string{"dataset", "result"}),
		YearSelections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "year_selections_total",
			Help:      "Total year selections handled.",
		}),
		RenderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "climate_dashboard",
			Name:      "render_duration_seconds",
			Help:      "Duration of rendering a chart, snapshot, or page.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"artifact"}),
		RenderErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "render_errors_total",
			Help:      "Rendering failures by artifact.",
		}, []string{"artifact"}),
		ExportedRows: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "climate_dashboard",
			Name:      "exported_rows_total",
			Help:      "Comparison rows published to the export topic.",
		}),
		DashboardReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "climate_dashboard",
			Name:      "ready",
			Help:      "1 when both datasets are loaded, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.DatasetLoads,
		m.DatasetRows,
		m.DatasetLoadDuration,
		m.LoadCache,
		m.YearSelections,
		m.RenderDuration,
		m.RenderErrors,
		m.ExportedRows,
		m.DashboardReady,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		DatasetLoads:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_dashboard", Name: "dataset_loads_total"}, []string{"dataset", "outcome"}),
		DatasetRows:         prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "climate_dashboard", Name: "dataset_rows"}, []string{"dataset"}),
		DatasetLoadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "climate_dashboard", Name: "dataset_load_duration_seconds"}, []string{"dataset"}),
		LoadCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_dashboard", Name: "load_cache_total"}, []string{"dataset", "result"}),
		YearSelections:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_dashboard", Name: "year_selections_total"}),
		RenderDuration:      prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "climate_dashboard", Name: "render_duration_seconds"}, []string{"artifact"}),
		RenderErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_dashboard", Name: "render_errors_total"}, []string{"artifact"}),
		ExportedRows:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "climate_dashboard", Name: "exported_rows_total"}),
		DashboardReady:      prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "climate_dashboard", Name: "ready"}),
	}
}
