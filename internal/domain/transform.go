package domain

import (
	"errors"
	"math"
	"slices"
	"time"
)

var (
	// ErrNoReadings is returned when a temperature dataset contains no rows.
	ErrNoReadings = errors.New("no temperature readings")

	// ErrNoMonthlyData is returned when a selected year has no readings at all.
	ErrNoMonthlyData = errors.New("no readings for selected year")
)

// KelvinToFahrenheit converts a Kelvin temperature to degrees Fahrenheit.
func KelvinToFahrenheit(k float64) float64 {
	return (k-273.15)*9/5 + 32
}

// NewTemperatureReading builds a reading with its Fahrenheit value computed eagerly.
func NewTemperatureReading(t time.Time, kelvin float64) TemperatureReading {
	return TemperatureReading{
		Time:       t.UTC(),
		Kelvin:     kelvin,
		Fahrenheit: KelvinToFahrenheit(kelvin),
	}
}

// YearRangeOf returns the smallest and largest calendar year present in readings.
func YearRangeOf(readings []TemperatureReading) (YearRange, error) {
	if len(readings) == 0 {
		return YearRange{}, ErrNoReadings
	}
	r := YearRange{Min: readings[0].Year(), Max: readings[0].Year()}
	for _, rd := range readings[1:] {
		y := rd.Year()
		if y < r.Min {
			r.Min = y
		}
		if y > r.Max {
			r.Max = y
		}
	}
	return r, nil
}

// MonthlyMeans averages the Fahrenheit readings of one calendar year by month.
// Only months present in the data are returned, ordered January to December.
func MonthlyMeans(readings []TemperatureReading, year int) (MonthlyView, error) {
	var acc [13]mean
	seen := false
	for _, rd := range readings {
		if rd.Year() != year {
			continue
		}
		seen = true
		acc[rd.Month()].add(rd.Fahrenheit)
	}
	if !seen {
		return MonthlyView{Year: year}, ErrNoMonthlyData
	}

	view := MonthlyView{Year: year, Months: make([]MonthlyTemperature, 0, 12)}
	for m := time.January; m <= time.December; m++ {
		v, ok := acc[m].value()
		if !ok {
			continue
		}
		view.Months = append(view.Months, MonthlyTemperature{Month: m, MeanFahrenheit: v})
	}
	return view, nil
}

// YearlyMeans averages all Fahrenheit readings per calendar year, ascending by year.
func YearlyMeans(readings []TemperatureReading) []YearlyTemperature {
	groups := make(map[int]*mean)
	for _, rd := range readings {
		y := rd.Year()
		g, ok := groups[y]
		if !ok {
			g = &mean{}
			groups[y] = g
		}
		g.add(rd.Fahrenheit)
	}

	out := make([]YearlyTemperature, 0, len(groups))
	for y, g := range groups {
		v, ok := g.value()
		if !ok {
			continue
		}
		out = append(out, YearlyTemperature{Year: y, MeanFahrenheit: v})
	}
	slices.SortFunc(out, func(a, b YearlyTemperature) int { return a.Year - b.Year })
	return out
}

// FirstYearAbove returns the smallest year whose mean is strictly greater than
// threshold. The boolean is false when no year qualifies.
func FirstYearAbove(yearly []YearlyTemperature, threshold float64) (int, bool) {
	found := false
	first := 0
	for _, y := range yearly {
		if y.MeanFahrenheit <= threshold || math.IsNaN(y.MeanFahrenheit) {
			continue
		}
		if !found || y.Year < first {
			first = y.Year
			found = true
		}
	}
	return first, found
}

// MeanSeaLevelByYear collapses samples sharing the same numeric year into one
// mean, ascending by year. Samples with a missing year are dropped.
func MeanSeaLevelByYear(samples []SeaLevelSample) []SeaLevelYear {
	groups := make(map[float64]*mean)
	for _, s := range samples {
		if s.Missing() {
			continue
		}
		g, ok := groups[s.Year]
		if !ok {
			g = &mean{}
			groups[s.Year] = g
		}
		g.add(s.GMSLGIA)
	}

	out := make([]SeaLevelYear, 0, len(groups))
	for y, g := range groups {
		v, ok := g.value()
		if !ok {
			continue
		}
		out = append(out, SeaLevelYear{Year: y, MeanMM: v})
	}
	slices.SortFunc(out, func(a, b SeaLevelYear) int {
		switch {
		case a.Year < b.Year:
			return -1
		case a.Year > b.Year:
			return 1
		}
		return 0
	})
	return out
}

// JoinYearly inner-joins the yearly temperature and sea-level series on year and
// keeps only years in [from, to]. Years missing on either side are skipped.
func JoinYearly(temps []YearlyTemperature, seas []SeaLevelYear, from, to int) ComparisonView {
	byYear := make(map[float64]float64, len(seas))
	for _, s := range seas {
		byYear[s.Year] = s.MeanMM
	}

	view := ComparisonView{FromYear: from, ToYear: to, Rows: []ComparisonRow{}}
	for _, t := range temps {
		if t.Year < from || t.Year > to {
			continue
		}
		level, ok := byYear[float64(t.Year)]
		if !ok {
			continue
		}
		view.Rows = append(view.Rows, ComparisonRow{
			Year:           t.Year,
			MeanFahrenheit: t.MeanFahrenheit,
			MeanSeaLevelMM: level,
		})
	}
	slices.SortFunc(view.Rows, func(a, b ComparisonRow) int { return a.Year - b.Year })
	return view
}

// mean is a running arithmetic mean that ignores NaN inputs.
type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	if math.IsNaN(v) {
		return
	}
	m.sum += v
	m.count++
}

func (m *mean) value() (float64, bool) {
	if m.count == 0 {
		return 0, false
	}
	return m.sum / float64(m.count), true
}
