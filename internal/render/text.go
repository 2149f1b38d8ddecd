package render

import (
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

// Page headings.
const (
	MonthlyHeading = "Monthly Average Temperature Visualization"
	SelectorLabel  = "Select a year"
)

// printer formats every number in generated text. Years are passed as strings
// so they are never digit-grouped.
var printer = message.NewPrinter(language.English)

// MonthlyTitle is the title of the monthly chart.
func MonthlyTitle(year int) string {
	return "Average Monthly Temperature for " + strconv.Itoa(year)
}

// WarmYearHeading is the heading above the threshold finding.
func WarmYearHeading(threshold float64) string {
	return printer.Sprintf("First Year with Average Temperature Above %v°F", threshold)
}

// WarmYearSentence is the one-line finding for the threshold search. When no
// year qualifies it says so instead of naming a year.
func WarmYearSentence(w domain.WarmYear) string {
	if !w.Found {
		return printer.Sprintf("No year in the dataset had an average temperature above %v°F.", w.Threshold)
	}
	return printer.Sprintf("The first year when the average temperature exceeded %v°F at Cornell Tech was %s.",
		w.Threshold, strconv.Itoa(w.Year))
}

// ComparisonTitle is the title of the dual-axis chart.
func ComparisonTitle(view domain.ComparisonView) string {
	return printer.Sprintf("Yearly Average Temperature vs. Average Sea Level Change (GIA applied) from %s to %s",
		strconv.Itoa(view.FromYear), strconv.Itoa(view.ToYear))
}

// ComparisonCaption is the static explanation printed under the dual-axis chart.
func ComparisonCaption(view domain.ComparisonView) string {
	return printer.Sprintf("This visualization shows the yearly average temperature in comparison to the average sea level change from %s to %s, providing insights into potential correlations between global warming and sea level rise.",
		strconv.Itoa(view.FromYear), strconv.Itoa(view.ToYear))
}

// ComparisonSummary describes the spread of the joined series in one sentence.
func ComparisonSummary(view domain.ComparisonView) string {
	if len(view.Rows) == 0 {
		return printer.Sprintf("No year between %s and %s is present in both datasets.",
			strconv.Itoa(view.FromYear), strconv.Itoa(view.ToYear))
	}

	first, last := view.Rows[0], view.Rows[len(view.Rows)-1]
	coolest, warmest := first, first
	for _, r := range view.Rows[1:] {
		if r.MeanFahrenheit < coolest.MeanFahrenheit {
			coolest = r
		}
		if r.MeanFahrenheit > warmest.MeanFahrenheit {
			warmest = r
		}
	}
	return printer.Sprintf("Across %d joined years the yearly mean ranged from %.1f°F (%s) to %.1f°F (%s), while sea level moved %+.1f mm between %s and %s.",
		len(view.Rows),
		coolest.MeanFahrenheit, strconv.Itoa(coolest.Year),
		warmest.MeanFahrenheit, strconv.Itoa(warmest.Year),
		last.MeanSeaLevelMM-first.MeanSeaLevelMM,
		strconv.Itoa(first.Year), strconv.Itoa(last.Year),
	)
}

// NoMonthlyDataMessage replaces the monthly chart for a year without readings.
func NoMonthlyDataMessage(year int) string {
	return "No readings were recorded in " + strconv.Itoa(year) + "."
}
