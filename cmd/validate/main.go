// Command validate loads a temperature and a sea-level CSV through the same
// readers the dashboard uses and checks every derived view: year bounds,
// monthly coverage, the warm-year search, and the yearly join. It prints a
// phase-by-phase report and exits non-zero when any phase fails.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -temperature "weather - 286_40.75_t2m_1d.csv" \
//	  -sea-level sealevel.csv \
//	  -threshold 55 -from 1995 -to 2020
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"time"

	"github.com/couchcryptid/climate-dashboard/internal/adapter/csvfile"
	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

// Readings outside this band almost certainly mean a unit mix-up in the source.
const (
	minPlausibleF = -80.0
	maxPlausibleF = 140.0
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
	notes  []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) notef(format string, args ...any) {
	p.notes = append(p.notes, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	temperaturePath string
	seaLevelPath    string
	threshold       float64
	from, to        int
}

func main() {
	var opts options
	flag.StringVar(&opts.temperaturePath, "temperature", "", "path to the temperature CSV (time, Ktemp)")
	flag.StringVar(&opts.seaLevelPath, "sea-level", "", "path to the sea level CSV (Year, GMSL_GIA)")
	flag.Float64Var(&opts.threshold, "threshold", 55, "warm-year threshold in °F")
	flag.IntVar(&opts.from, "from", 1995, "first year of the comparison window")
	flag.IntVar(&opts.to, "to", 2020, "last year of the comparison window")
	flag.Parse()

	if opts.temperaturePath == "" || opts.seaLevelPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(context.Background(), os.Stdout, opts); code != 0 {
		os.Exit(code)
	}
}

func run(ctx context.Context, out io.Writer, opts options) int {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	reader := csvfile.NewReader(logger)

	fmt.Fprintln(out, "=== Climate Dataset Validation ===")
	fmt.Fprintln(out)

	start := time.Now()
	readings, err := reader.LoadTemperature(ctx, opts.temperaturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load temperature CSV: %v\n", err)
		return 1
	}
	seaLevels, err := reader.LoadSeaLevel(ctx, opts.seaLevelPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load sea level CSV: %v\n", err)
		return 1
	}
	loadTime := time.Since(start)

	yearly := domain.YearlyMeans(readings)

	phases := []*phase{
		validateReadings(readings),
		validateMonthlyCoverage(readings),
		validateWarmYear(yearly, opts.threshold),
		validateComparison(yearly, seaLevels, opts.from, opts.to),
	}

	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Records: %d temperature readings, %d yearly means, %d sea level years (loaded in %s)\n",
		len(readings), len(yearly), len(seaLevels), loadTime.Round(time.Millisecond))

	for _, p := range phases {
		if len(p.notes) == 0 && p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for _, n := range p.notes {
			fmt.Fprintf(out, "  note: %s\n", n)
		}
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phases ──

func validateReadings(readings []domain.TemperatureReading) *phase {
	p := &phase{name: "Phase 1: Temperature readings"}

	bounds, err := domain.YearRangeOf(readings)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	p.notef("years %d to %d", bounds.Min, bounds.Max)

	missing := 0
	for i, r := range readings {
		if math.IsNaN(r.Kelvin) {
			missing++
			continue
		}
		if math.IsInf(r.Kelvin, 0) {
			p.errorf("reading %d (%s): Ktemp is not finite", i, r.Time.Format(time.DateOnly))
			continue
		}
		if want := domain.KelvinToFahrenheit(r.Kelvin); math.Abs(want-r.Fahrenheit) > 1e-9 {
			p.errorf("reading %d: %.4f K converted to %.4f°F, want %.4f°F", i, r.Kelvin, r.Fahrenheit, want)
		}
		if r.Fahrenheit < minPlausibleF || r.Fahrenheit > maxPlausibleF {
			p.errorf("reading %d (%s): %.1f°F is outside [%.0f, %.0f]",
				i, r.Time.Format(time.DateOnly), r.Fahrenheit, minPlausibleF, maxPlausibleF)
		}
	}
	if missing > 0 {
		p.notef("%d readings have no Ktemp value and are skipped by the means", missing)
	}
	return p
}

func validateMonthlyCoverage(readings []domain.TemperatureReading) *phase {
	p := &phase{name: "Phase 2: Monthly coverage per year"}

	bounds, err := domain.YearRangeOf(readings)
	if err != nil {
		p.errorf("%v", err)
		return p
	}

	for year := bounds.Min; year <= bounds.Max; year++ {
		view, err := domain.MonthlyMeans(readings, year)
		if err != nil {
			p.errorf("year %d: %v", year, err)
			continue
		}
		for i := 1; i < len(view.Months); i++ {
			if view.Months[i].Month <= view.Months[i-1].Month {
				p.errorf("year %d: months out of order at %s", year, view.Months[i].Month)
			}
		}
		if len(view.Months) < 12 {
			p.notef("year %d has %d of 12 months", year, len(view.Months))
		}
	}
	return p
}

func validateWarmYear(yearly []domain.YearlyTemperature, threshold float64) *phase {
	p := &phase{name: "Phase 3: Warm-year search"}

	year, found := domain.FirstYearAbove(yearly, threshold)
	if !found {
		p.notef("no year has a mean above %g°F", threshold)
	} else {
		p.notef("first year above %g°F: %d", threshold, year)
	}

	for _, y := range yearly {
		if found && y.Year == year {
			if y.MeanFahrenheit <= threshold {
				p.errorf("year %d reported warm but mean is %.2f°F", y.Year, y.MeanFahrenheit)
			}
			break
		}
		if y.MeanFahrenheit > threshold {
			p.errorf("year %d (%.2f°F) exceeds the threshold before the reported year", y.Year, y.MeanFahrenheit)
		}
	}
	return p
}

func validateComparison(yearly []domain.YearlyTemperature, seaLevels []domain.SeaLevelYear, from, to int) *phase {
	p := &phase{name: "Phase 4: Yearly temperature and sea level join"}

	view := domain.JoinYearly(yearly, seaLevels, from, to)
	if len(view.Rows) == 0 {
		p.errorf("no year between %d and %d is present in both datasets", from, to)
		return p
	}
	p.notef("%d joined years between %d and %d", len(view.Rows), view.Rows[0].Year, view.Rows[len(view.Rows)-1].Year)

	temps := make(map[int]float64, len(yearly))
	for _, y := range yearly {
		temps[y.Year] = y.MeanFahrenheit
	}
	for i, r := range view.Rows {
		if r.Year < from || r.Year > to {
			p.errorf("row %d: year %d outside [%d, %d]", i, r.Year, from, to)
		}
		if i > 0 && r.Year <= view.Rows[i-1].Year {
			p.errorf("row %d: year %d not ascending", i, r.Year)
		}
		if t, ok := temps[r.Year]; !ok || t != r.MeanFahrenheit {
			p.errorf("row %d: temperature for %d does not match the yearly mean", i, r.Year)
		}
	}
	for y := from; y <= to; y++ {
		if _, ok := temps[y]; !ok {
			p.notef("year %d has no temperature readings", y)
		}
	}
	return p
}
