package domain

import (
	"math"
	"time"
)

// TemperatureReading is one sampled day from the temperature dataset.
type TemperatureReading struct {
	Time       time.Time `json:"time"`
	Kelvin     float64   `json:"kelvin"`
	Fahrenheit float64   `json:"fahrenheit"`
}

// Year returns the calendar year of the reading.
func (r TemperatureReading) Year() int { return r.Time.Year() }

// Month returns the calendar month of the reading.
func (r TemperatureReading) Month() time.Month { return r.Time.Month() }

// SeaLevelSample is one row of the sea-level dataset after numeric coercion.
// Year is NaN when the source value was not numeric.
type SeaLevelSample struct {
	Year    float64
	GMSLGIA float64
}

// Missing reports whether the sample's year failed coercion.
func (s SeaLevelSample) Missing() bool {
	return math.IsNaN(s.Year)
}

// SeaLevelYear is the mean GIA-corrected sea level for one (possibly fractional) year.
type SeaLevelYear struct {
	Year   float64 `json:"year"`
	MeanMM float64 `json:"mean_sea_level_mm"`
}

// YearlyTemperature is the mean Fahrenheit temperature for one calendar year.
type YearlyTemperature struct {
	Year           int     `json:"year"`
	MeanFahrenheit float64 `json:"mean_fahrenheit"`
}

// MonthlyTemperature is the mean Fahrenheit temperature for one month.
type MonthlyTemperature struct {
	Month          time.Month `json:"month"`
	MeanFahrenheit float64    `json:"mean_fahrenheit"`
}

// MonthlyView is the per-month breakdown of a single selected year.
type MonthlyView struct {
	Year   int                  `json:"year"`
	Months []MonthlyTemperature `json:"months"`
}

// WarmYear is the result of the threshold finder. Year is meaningful only when Found is true.
type WarmYear struct {
	Threshold float64 `json:"threshold_fahrenheit"`
	Year      int     `json:"year,omitempty"`
	Found     bool    `json:"found"`
}

// ComparisonRow is one joined year of temperature and sea level.
type ComparisonRow struct {
	Year           int     `json:"year"`
	MeanFahrenheit float64 `json:"mean_fahrenheit"`
	MeanSeaLevelMM float64 `json:"mean_sea_level_mm"`
}

// ComparisonView is the joined yearly series restricted to an inclusive window.
type ComparisonView struct {
	FromYear int             `json:"from_year"`
	ToYear   int             `json:"to_year"`
	Rows     []ComparisonRow `json:"rows"`
}

// YearRange is an inclusive range of calendar years.
type YearRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether year lies within the range.
func (r YearRange) Contains(year int) bool {
	return year >= r.Min && year <= r.Max
}

// Snapshot bundles every presented view for one year selection.
type Snapshot struct {
	Bounds      YearRange      `json:"bounds"`
	Monthly     MonthlyView    `json:"monthly"`
	Warm        WarmYear       `json:"warm_year"`
	Comparison  ComparisonView `json:"comparison"`
	GeneratedAt time.Time      `json:"generated_at"`
}
