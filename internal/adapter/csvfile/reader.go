package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

// Required column names.
const (
	ColumnTime    = "time"
	ColumnKelvin  = "Ktemp"
	ColumnYear    = "Year"
	ColumnGMSLGIA = "GMSL_GIA"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")

	// ErrInvalidTimestamp is returned when a time value matches none of the accepted layouts.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// timestampLayouts are tried in order; the first match wins.
var timestampLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04Z07:00",
	"2006/01/02",
	"01/02/2006",
}

// Reader loads the temperature and sea-level datasets from CSV files on disk.
// It implements dashboard.DatasetLoader.
type Reader struct {
	logger *slog.Logger
}

// NewReader creates a file-backed dataset reader.
func NewReader(logger *slog.Logger) *Reader {
	return &Reader{logger: logger}
}

// LoadTemperature reads a daily temperature CSV with `time` and `Ktemp` columns.
func (r *Reader) LoadTemperature(ctx context.Context, path string) ([]domain.TemperatureReading, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open temperature file: %w", err)
	}
	defer f.Close()

	readings, err := ParseTemperature(f)
	if err != nil {
		return nil, fmt.Errorf("load temperature file %s: %w", path, err)
	}
	r.logger.Debug("temperature file parsed", "path", path, "rows", len(readings))
	return readings, nil
}

// LoadSeaLevel reads a sea-level CSV with `Year` and `GMSL_GIA` columns and
// returns one mean per distinct numeric year.
func (r *Reader) LoadSeaLevel(ctx context.Context, path string) ([]domain.SeaLevelYear, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sea level file: %w", err)
	}
	defer f.Close()

	samples, err := ParseSeaLevel(f)
	if err != nil {
		return nil, fmt.Errorf("load sea level file %s: %w", path, err)
	}

	dropped := 0
	for _, s := range samples {
		if s.Missing() {
			dropped++
		}
	}
	yearly := domain.MeanSeaLevelByYear(samples)
	r.logger.Debug("sea level file parsed",
		"path", path,
		"rows", len(samples),
		"dropped_years", dropped,
		"years", len(yearly),
	)
	return yearly, nil
}

// ParseTemperature parses temperature CSV content. A blank or NA Ktemp cell
// becomes NaN and is skipped by every mean. A malformed timestamp, or Ktemp
// text that is neither a number nor a missing marker, fails the whole parse.
func ParseTemperature(rd io.Reader) ([]domain.TemperatureReading, error) {
	df, err := readFrame(rd)
	if err != nil {
		return nil, err
	}
	times, err := column(df, ColumnTime)
	if err != nil {
		return nil, err
	}
	kelvins, err := column(df, ColumnKelvin)
	if err != nil {
		return nil, err
	}

	readings := make([]domain.TemperatureReading, len(times))
	for i := range times {
		ts, err := parseTimestamp(times[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		k, err := parseKelvin(kelvins[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse %s %q: %w", i+2, ColumnKelvin, kelvins[i], err)
		}
		readings[i] = domain.NewTemperatureReading(ts, k)
	}
	return readings, nil
}

// ParseSeaLevel parses sea-level CSV content. Year values that are not numeric
// become NaN (missing) instead of failing the parse; so do GMSL_GIA values.
func ParseSeaLevel(rd io.Reader) ([]domain.SeaLevelSample, error) {
	df, err := readFrame(rd)
	if err != nil {
		return nil, err
	}
	years, err := column(df, ColumnYear)
	if err != nil {
		return nil, err
	}
	levels, err := column(df, ColumnGMSLGIA)
	if err != nil {
		return nil, err
	}

	samples := make([]domain.SeaLevelSample, len(years))
	for i := range years {
		samples[i] = domain.SeaLevelSample{
			Year:    coerceFloat(years[i]),
			GMSLGIA: coerceFloat(levels[i]),
		}
	}
	return samples, nil
}

// readFrame loads CSV content with every column kept as strings so that
// numeric coercion stays under our control. A file holding only a header is a
// frame with zero rows, not an error.
func readFrame(rd io.Reader) (dataframe.DataFrame, error) {
	records, err := csv.NewReader(rd).ReadAll()
	if err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read csv: %w", err)
	}
	switch len(records) {
	case 0:
		return dataframe.DataFrame{}, errors.New("read csv: no header row")
	case 1:
		return emptyFrame(records[0]), nil
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return df, fmt.Errorf("read csv: %w", df.Err)
	}
	return df, nil
}

func emptyFrame(header []string) dataframe.DataFrame {
	cols := make([]series.Series, len(header))
	for i, name := range header {
		cols[i] = series.New([]string{}, series.String, name)
	}
	return dataframe.New(cols...)
}

func column(df dataframe.DataFrame, name string) ([]string, error) {
	if !slices.Contains(df.Names(), name) {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return df.Col(name).Records(), nil
}

func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %s %q", ErrInvalidTimestamp, ColumnTime, s)
}

// missingMarkers are the cell values read as NaN, following pandas' defaults.
var missingMarkers = map[string]bool{
	"": true, "NA": true, "N/A": true, "n/a": true, "#N/A": true,
	"NaN": true, "nan": true, "-NaN": true, "-nan": true,
	"null": true, "NULL": true, "None": true, "<NA>": true,
}

func parseKelvin(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if missingMarkers[s] {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(s, 64)
}

// coerceFloat parses s as a number, returning NaN when it is not one.
func coerceFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
