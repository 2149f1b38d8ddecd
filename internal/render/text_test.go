package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

func TestWarmYearSentence(t *testing.T) {
	tests := []struct {
		name string
		warm domain.WarmYear
		want string
	}{
		{
			name: "found",
			warm: domain.WarmYear{Threshold: 55, Year: 2015, Found: true},
			want: "The first year when the average temperature exceeded 55°F at Cornell Tech was 2015.",
		},
		{
			name: "not found",
			warm: domain.WarmYear{Threshold: 55},
			want: "No year in the dataset had an average temperature above 55°F.",
		},
		{
			name: "fractional threshold",
			warm: domain.WarmYear{Threshold: 55.5, Year: 2016, Found: true},
			want: "The first year when the average temperature exceeded 55.5°F at Cornell Tech was 2016.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WarmYearSentence(tt.warm))
		})
	}
}

func TestTitles(t *testing.T) {
	view := domain.ComparisonView{FromYear: 1995, ToYear: 2020}

	assert.Equal(t, "Average Monthly Temperature for 2015", MonthlyTitle(2015))
	assert.Equal(t, "First Year with Average Temperature Above 55°F", WarmYearHeading(55))
	assert.Equal(t,
		"Yearly Average Temperature vs. Average Sea Level Change (GIA applied) from 1995 to 2020",
		ComparisonTitle(view))
	assert.Equal(t,
		"This visualization shows the yearly average temperature in comparison to the average sea level change from 1995 to 2020, providing insights into potential correlations between global warming and sea level rise.",
		ComparisonCaption(view))
}

func TestComparisonSummary(t *testing.T) {
	assert.Equal(t,
		"Across 3 joined years the yearly mean ranged from 51.5°F (1996) to 56.2°F (2015), while sea level moved +62.0 mm between 1996 and 2015.",
		ComparisonSummary(comparisonFixture()))

	assert.Equal(t,
		"No year between 1995 and 2020 is present in both datasets.",
		ComparisonSummary(domain.ComparisonView{FromYear: 1995, ToYear: 2020}))
}

func TestNumbersUseEnglishFormatting(t *testing.T) {
	view := domain.ComparisonView{
		FromYear: 1900,
		ToYear:   2020,
		Rows: []domain.ComparisonRow{
			{Year: 1900, MeanFahrenheit: 50, MeanSeaLevelMM: -200},
			{Year: 2020, MeanFahrenheit: 57.3, MeanSeaLevelMM: 1034.5},
		},
	}

	assert.Equal(t, "First Year with Average Temperature Above 55.5°F", WarmYearHeading(55.5))
	assert.Equal(t,
		"Across 2 joined years the yearly mean ranged from 50.0°F (1900) to 57.3°F (2020), while sea level moved +1,234.5 mm between 1900 and 2020.",
		ComparisonSummary(view))
}
