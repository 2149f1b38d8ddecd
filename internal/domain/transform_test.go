package domain

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// reading builds a reading with a fixed Fahrenheit value, bypassing conversion.
func reading(year int, month time.Month, day int, f float64) TemperatureReading {
	return TemperatureReading{
		Time:       time.Date(year, month, day, 0, 0, 0, 0, time.UTC),
		Fahrenheit: f,
	}
}

// yearOfMonthlyMeans produces two readings per month whose mean is the given value.
func yearOfMonthlyMeans(year int, means [12]float64) []TemperatureReading {
	out := make([]TemperatureReading, 0, 24)
	for i, m := range means {
		month := time.Month(i + 1)
		out = append(out,
			reading(year, month, 1, m-1),
			reading(year, month, 15, m+1),
		)
	}
	return out
}

func TestKelvinToFahrenheit(t *testing.T) {
	for _, k := range []float64{0, 233.15, 255.372, 273.15, 288.7, 300, 310.15} {
		want := (k-273.15)*9/5 + 32
		assert.Equal(t, want, KelvinToFahrenheit(k), "kelvin %v", k)
	}

	assert.InDelta(t, 32.0, KelvinToFahrenheit(273.15), 1e-9)
	assert.InDelta(t, 212.0, KelvinToFahrenheit(373.15), 1e-9)
	assert.InDelta(t, -459.67, KelvinToFahrenheit(0), 1e-9)
}

func TestNewTemperatureReading(t *testing.T) {
	ts := time.Date(2015, time.July, 4, 12, 0, 0, 0, time.FixedZone("EDT", -4*3600))
	r := NewTemperatureReading(ts, 300)

	assert.Equal(t, time.UTC, r.Time.Location())
	assert.Equal(t, 2015, r.Year())
	assert.Equal(t, time.July, r.Month())
	assert.Equal(t, KelvinToFahrenheit(300), r.Fahrenheit)
	assert.Equal(t, 300.0, r.Kelvin)
}

func TestYearRangeOf(t *testing.T) {
	t.Run("unordered readings", func(t *testing.T) {
		r, err := YearRangeOf([]TemperatureReading{
			reading(2001, time.March, 1, 40),
			reading(1999, time.June, 1, 70),
			reading(2004, time.January, 1, 30),
		})
		require.NoError(t, err)
		assert.Equal(t, YearRange{Min: 1999, Max: 2004}, r)
		assert.True(t, r.Contains(1999))
		assert.True(t, r.Contains(2004))
		assert.False(t, r.Contains(1998))
		assert.False(t, r.Contains(2005))
	})

	t.Run("empty", func(t *testing.T) {
		_, err := YearRangeOf(nil)
		assert.ErrorIs(t, err, ErrNoReadings)
	})
}

func TestMonthlyMeans(t *testing.T) {
	t.Run("full year", func(t *testing.T) {
		means := [12]float64{30, 32, 40, 50, 60, 70, 75, 74, 65, 50, 40, 32}
		view, err := MonthlyMeans(yearOfMonthlyMeans(2000, means), 2000)
		require.NoError(t, err)

		require.Len(t, view.Months, 12)
		assert.Equal(t, 2000, view.Year)
		for i, m := range view.Months {
			assert.Equal(t, time.Month(i+1), m.Month)
			assert.InDelta(t, means[i], m.MeanFahrenheit, 1e-9)
		}
	})

	t.Run("only months present, ascending", func(t *testing.T) {
		readings := []TemperatureReading{
			reading(2010, time.November, 3, 44),
			reading(2010, time.February, 3, 20),
			reading(2010, time.February, 4, 30),
			reading(2011, time.March, 1, 99),
			reading(2010, time.July, 9, 80),
		}
		view, err := MonthlyMeans(readings, 2010)
		require.NoError(t, err)

		want := MonthlyView{Year: 2010, Months: []MonthlyTemperature{
			{Month: time.February, MeanFahrenheit: 25},
			{Month: time.July, MeanFahrenheit: 80},
			{Month: time.November, MeanFahrenheit: 44},
		}}
		if diff := cmp.Diff(want, view); diff != "" {
			t.Fatalf("monthly view mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("NaN readings skipped", func(t *testing.T) {
		readings := []TemperatureReading{
			reading(2010, time.May, 1, math.NaN()),
			reading(2010, time.May, 2, 60),
			reading(2010, time.June, 1, math.NaN()),
		}
		view, err := MonthlyMeans(readings, 2010)
		require.NoError(t, err)
		require.Len(t, view.Months, 1)
		assert.Equal(t, time.May, view.Months[0].Month)
		assert.InDelta(t, 60.0, view.Months[0].MeanFahrenheit, 1e-9)
	})

	t.Run("gap year", func(t *testing.T) {
		_, err := MonthlyMeans([]TemperatureReading{reading(2010, time.May, 1, 60)}, 2011)
		assert.ErrorIs(t, err, ErrNoMonthlyData)
	})
}

func TestYearlyMeans(t *testing.T) {
	readings := append(
		yearOfMonthlyMeans(2000, [12]float64{30, 32, 40, 50, 60, 70, 75, 74, 65, 50, 40, 32}),
		reading(1999, time.January, 1, 10),
		reading(1999, time.August, 1, 20),
	)

	yearly := YearlyMeans(readings)
	require.Len(t, yearly, 2)
	assert.Equal(t, 1999, yearly[0].Year)
	assert.InDelta(t, 15.0, yearly[0].MeanFahrenheit, 1e-9)
	assert.Equal(t, 2000, yearly[1].Year)
	assert.InDelta(t, 51.5, yearly[1].MeanFahrenheit, 1e-9)
}

func TestFirstYearAbove(t *testing.T) {
	t.Run("example year below threshold", func(t *testing.T) {
		yearly := YearlyMeans(yearOfMonthlyMeans(2000, [12]float64{30, 32, 40, 50, 60, 70, 75, 74, 65, 50, 40, 32}))
		_, found := FirstYearAbove(yearly, 55)
		assert.False(t, found)
	})

	t.Run("first qualifying year", func(t *testing.T) {
		yearly := []YearlyTemperature{
			{Year: 2012, MeanFahrenheit: 54.9},
			{Year: 2013, MeanFahrenheit: 55.0},
			{Year: 2014, MeanFahrenheit: 53.1},
			{Year: 2015, MeanFahrenheit: 55.2},
			{Year: 2016, MeanFahrenheit: 56.8},
			{Year: 2017, MeanFahrenheit: 54.0},
		}
		year, found := FirstYearAbove(yearly, 55)
		require.True(t, found)
		assert.Equal(t, 2015, year)
	})

	t.Run("input order does not matter", func(t *testing.T) {
		yearly := []YearlyTemperature{
			{Year: 2019, MeanFahrenheit: 58},
			{Year: 2016, MeanFahrenheit: 57},
			{Year: 2018, MeanFahrenheit: 59},
		}
		year, found := FirstYearAbove(yearly, 55)
		require.True(t, found)
		assert.Equal(t, 2016, year)
	})

	t.Run("none qualify", func(t *testing.T) {
		_, found := FirstYearAbove([]YearlyTemperature{{Year: 1990, MeanFahrenheit: 50}}, 55)
		assert.False(t, found)

		_, found = FirstYearAbove(nil, 55)
		assert.False(t, found)
	})
}

func TestMeanSeaLevelByYear(t *testing.T) {
	samples := []SeaLevelSample{
		{Year: 1994, GMSLGIA: -30},
		{Year: 1993, GMSLGIA: -40},
		{Year: 1993, GMSLGIA: -36},
		{Year: math.NaN(), GMSLGIA: 999},
		{Year: 1993.5, GMSLGIA: -35},
		{Year: 1995, GMSLGIA: math.NaN()},
	}

	got := MeanSeaLevelByYear(samples)
	want := []SeaLevelYear{
		{Year: 1993, MeanMM: -38},
		{Year: 1993.5, MeanMM: -35},
		{Year: 1994, MeanMM: -30},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("sea level means mismatch (-want +got):\n%s", diff)
	}
}

func TestJoinYearly(t *testing.T) {
	temps := []YearlyTemperature{
		{Year: 1993, MeanFahrenheit: 53},
		{Year: 1995, MeanFahrenheit: 54},
		{Year: 1996, MeanFahrenheit: 55},
		{Year: 1997, MeanFahrenheit: 56},
		{Year: 2020, MeanFahrenheit: 57},
		{Year: 2021, MeanFahrenheit: 58},
	}
	seas := []SeaLevelYear{
		{Year: 1993, MeanMM: -38},
		{Year: 1995, MeanMM: -30},
		{Year: 1996.5, MeanMM: -29},
		{Year: 1997, MeanMM: -25},
		{Year: 2020, MeanMM: 60},
		{Year: 2021, MeanMM: 65},
	}

	got := JoinYearly(temps, seas, 1995, 2020)
	want := ComparisonView{FromYear: 1995, ToYear: 2020, Rows: []ComparisonRow{
		{Year: 1995, MeanFahrenheit: 54, MeanSeaLevelMM: -30},
		{Year: 1997, MeanFahrenheit: 56, MeanSeaLevelMM: -25},
		{Year: 2020, MeanFahrenheit: 57, MeanSeaLevelMM: 60},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("join mismatch (-want +got):\n%s", diff)
	}

	empty := JoinYearly(temps, nil, 1995, 2020)
	assert.NotNil(t, empty.Rows)
	assert.Empty(t, empty.Rows)
}
