// Command genmock writes synthetic temperature and sea-level CSV fixtures in
// the same shape as the real datasets. The temperature series carries a
// seasonal cycle and a warming trend so the warm-year search has something to
// find near the end of the range.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock -start 1980 -end 2022 -seed 7
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

const (
	baseKelvin      = 284.0 // about 51.5°F
	seasonalKelvin  = 12.0
	trendKelvinYear = 0.06
	noiseKelvin     = 2.0

	seaLevelOriginYear = 1993
	seaLevelMMPerYear  = 3.2
	samplesPerYear     = 12
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", ".", "directory for temperature.csv and sealevel.csv")
	start := flag.Int("start", 1980, "first year to generate")
	end := flag.Int("end", 2022, "last year to generate")
	seed := flag.Uint64("seed", 1, "random seed")
	flag.Parse()

	if *start > *end {
		flag.Usage()
		return fmt.Errorf("-start %d must not exceed -end %d", *start, *end)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	rng := rand.New(rand.NewPCG(*seed, *seed))

	temps := temperatureFrame(rng, *start, *end)
	tempPath := filepath.Join(*outDir, "temperature.csv")
	if err := writeFrame(tempPath, temps); err != nil {
		return fmt.Errorf("writing temperature fixture: %w", err)
	}
	log.Printf("wrote %s: %d rows", tempPath, temps.Nrow())

	seas := seaLevelFrame(rng, *start, *end)
	seaPath := filepath.Join(*outDir, "sealevel.csv")
	if err := writeFrame(seaPath, seas); err != nil {
		return fmt.Errorf("writing sea level fixture: %w", err)
	}
	log.Printf("wrote %s: %d rows", seaPath, seas.Nrow())

	printStats(temps)
	return nil
}

// temperatureFrame builds one row per day with columns time and Ktemp.
func temperatureFrame(rng *rand.Rand, start, end int) dataframe.DataFrame {
	var times []string
	var kelvins []float64
	first := time.Date(start, time.January, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end, time.December, 31, 0, 0, 0, 0, time.UTC)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		season := -math.Cos(2 * math.Pi * float64(d.YearDay()-15) / 365.25)
		k := baseKelvin +
			seasonalKelvin*season +
			trendKelvinYear*float64(d.Year()-start) +
			rng.NormFloat64()*noiseKelvin
		times = append(times, d.Format("2006-01-02"))
		kelvins = append(kelvins, math.Round(k*100)/100)
	}
	return dataframe.New(
		series.New(times, series.String, "time"),
		series.New(kelvins, series.Float, "Ktemp"),
	)
}

// seaLevelFrame builds several samples per year with columns Year and
// GMSL_GIA. One extra row has a non-numeric year, as the real file does.
func seaLevelFrame(rng *rand.Rand, start, end int) dataframe.DataFrame {
	var years, levels []string
	for y := start; y <= end; y++ {
		for range samplesPerYear {
			mm := seaLevelMMPerYear*float64(y-seaLevelOriginYear) + rng.NormFloat64()*4
			years = append(years, strconv.Itoa(y))
			levels = append(levels, strconv.FormatFloat(math.Round(mm*100)/100, 'f', 2, 64))
		}
	}
	years = append(years, "unknown")
	levels = append(levels, "0")
	return dataframe.New(
		series.New(years, series.String, "Year"),
		series.New(levels, series.String, "GMSL_GIA"),
	)
}

func writeFrame(path string, df dataframe.DataFrame) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return df.WriteCSV(f)
}

// printStats runs the generated temperatures through the domain package so the
// expected fixture assertions can be read off directly.
func printStats(temps dataframe.DataFrame) {
	readings, err := readingsFromFrame(temps)
	if err != nil {
		log.Printf("stats skipped: %v", err)
		return
	}
	yearly := domain.YearlyMeans(readings)
	printYearly(os.Stdout, yearly)
}

func readingsFromFrame(df dataframe.DataFrame) ([]domain.TemperatureReading, error) {
	times := df.Col("time").Records()
	kelvins := df.Col("Ktemp").Float()
	out := make([]domain.TemperatureReading, len(times))
	for i, s := range times {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, err
		}
		out[i] = domain.NewTemperatureReading(t, kelvins[i])
	}
	return out, nil
}

func printYearly(w io.Writer, yearly []domain.YearlyTemperature) {
	fmt.Fprintln(w, "\n=== Yearly means for updating test assertions ===")
	for _, y := range yearly {
		fmt.Fprintf(w, "%d: %.2f°F\n", y.Year, y.MeanFahrenheit)
	}
	if year, ok := domain.FirstYearAbove(yearly, 55); ok {
		fmt.Fprintf(w, "First year above 55°F: %d\n", year)
	} else {
		fmt.Fprintln(w, "No year above 55°F")
	}
}
