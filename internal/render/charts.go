package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

// ErrNoData is returned when a chart has no points to draw.
var ErrNoData = errors.New("no data to chart")

// Matplotlib's tab:red and tab:blue, kept so the charts read like the notebook originals.
var (
	temperatureColor = drawing.ColorFromHex("d62728")
	seaLevelColor    = drawing.ColorFromHex("1f77b4")
)

// Options controls chart dimensions in pixels.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions is used when a caller passes zero dimensions.
var DefaultOptions = Options{Width: 1024, Height: 480}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultOptions.Width
	}
	if o.Height <= 0 {
		o.Height = DefaultOptions.Height
	}
	return o
}

// MonthlyChart renders the monthly averages of one year as a PNG line chart.
func MonthlyChart(w io.Writer, view domain.MonthlyView, opts Options) error {
	if len(view.Months) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	xs := make([]float64, len(view.Months))
	ys := make([]float64, len(view.Months))
	for i, m := range view.Months {
		xs[i] = float64(m.Month)
		ys[i] = m.MeanFahrenheit
	}

	ticks := make([]chart.Tick, 0, 12)
	for m := time.January; m <= time.December; m++ {
		ticks = append(ticks, chart.Tick{Value: float64(m), Label: m.String()[:3]})
	}

	graph := chart.Chart{
		Title:      MonthlyTitle(view.Year),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Month",
			Range: &chart.ContinuousRange{Min: 0.5, Max: 12.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           "Average Temperature (°F)",
			Range:          paddedRange(ys),
			ValueFormatter: oneDecimal,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Average Temperature (°F)",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: temperatureColor,
					StrokeWidth: 2,
					DotColor:    temperatureColor,
					DotWidth:    4,
				},
			},
		},
	}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render monthly chart: %w", err)
	}
	return nil
}

// ComparisonChart renders yearly temperature (left axis) against yearly sea
// level (right axis) as a PNG line chart.
func ComparisonChart(w io.Writer, view domain.ComparisonView, opts Options) error {
	if len(view.Rows) == 0 {
		return ErrNoData
	}
	opts = opts.withDefaults()

	years := make([]float64, len(view.Rows))
	temps := make([]float64, len(view.Rows))
	levels := make([]float64, len(view.Rows))
	for i, r := range view.Rows {
		years[i] = float64(r.Year)
		temps[i] = r.MeanFahrenheit
		levels[i] = r.MeanSeaLevelMM
	}

	ticks := make([]chart.Tick, 0, len(years))
	for _, y := range years {
		ticks = append(ticks, chart.Tick{Value: y, Label: strconv.Itoa(int(y))})
	}

	graph := chart.Chart{
		Title:      ComparisonTitle(view),
		Width:      opts.Width,
		Height:     opts.Height,
		Background: chart.Style{Padding: chart.Box{Top: 50, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Year",
			Range: &chart.ContinuousRange{Min: years[0] - 0.5, Max: years[len(years)-1] + 0.5},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name:           "Avg Temperature (°F)",
			NameStyle:      chart.Style{FontColor: temperatureColor},
			Style:          chart.Style{FontColor: temperatureColor},
			Range:          paddedRange(temps),
			ValueFormatter: oneDecimal,
		},
		YAxisSecondary: chart.YAxis{
			Name:           "Average Sea Level Change (mm)",
			NameStyle:      chart.Style{FontColor: seaLevelColor},
			Style:          chart.Style{FontColor: seaLevelColor},
			Range:          paddedRange(levels),
			ValueFormatter: oneDecimal,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Avg Temperature (°F)",
				XValues: years,
				YValues: temps,
				Style:   chart.Style{StrokeColor: temperatureColor, StrokeWidth: 2},
			},
			chart.ContinuousSeries{
				Name:    "Average Sea Level Change (mm)",
				YAxis:   chart.YAxisSecondary,
				XValues: years,
				YValues: levels,
				Style:   chart.Style{StrokeColor: seaLevelColor, StrokeWidth: 2},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render comparison chart: %w", err)
	}
	return nil
}

// paddedRange returns an axis range around values with 5% headroom. A flat
// series gets one unit either side so the range never collapses to zero.
func paddedRange(values []float64) *chart.ContinuousRange {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if math.IsInf(lo, 1) {
		return &chart.ContinuousRange{Min: -1, Max: 1}
	}
	pad := (hi - lo) * 0.05
	if pad == 0 {
		pad = 1
	}
	return &chart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}

func oneDecimal(v any) string {
	if f, ok := v.(float64); ok {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return ""
}
