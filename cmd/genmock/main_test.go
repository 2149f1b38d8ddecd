package main

import (
	"bytes"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

func TestTemperatureFrame_ReadableByDashboard(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	df := temperatureFrame(rng, 2000, 2001)
	assert.Equal(t, 366+365, df.Nrow())

	var buf bytes.Buffer
	require.NoError(t, df.WriteCSV(&buf))

	readings, err := csvfile.ParseTemperature(&buf)
	require.NoError(t, err)
	require.Len(t, readings, 366+365)

	bounds, err := domain.YearRangeOf(readings)
	require.NoError(t, err)
	assert.Equal(t, domain.YearRange{Min: 2000, Max: 2001}, bounds)

	view, err := domain.MonthlyMeans(readings, 2000)
	require.NoError(t, err)
	require.Len(t, view.Months, 12)
	assert.Less(t, view.Months[0].MeanFahrenheit, view.Months[6].MeanFahrenheit, "July warmer than January")
}

func TestSeaLevelFrame_IncludesNonNumericYear(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 7))
	df := seaLevelFrame(rng, 1995, 1997)
	assert.Equal(t, 3*samplesPerYear+1, df.Nrow())

	var buf bytes.Buffer
	require.NoError(t, df.WriteCSV(&buf))

	samples, err := csvfile.ParseSeaLevel(&buf)
	require.NoError(t, err)
	assert.True(t, samples[len(samples)-1].Missing())

	yearly := domain.MeanSeaLevelByYear(samples)
	require.Len(t, yearly, 3)
	assert.InDelta(t, 1995.0, yearly[0].Year, 0)
}

func TestTemperatureFrame_Deterministic(t *testing.T) {
	a := temperatureFrame(rand.New(rand.NewPCG(1, 1)), 2000, 2000)
	b := temperatureFrame(rand.New(rand.NewPCG(1, 1)), 2000, 2000)
	assert.Equal(t, a.Col("Ktemp").Float(), b.Col("Ktemp").Float())
}
