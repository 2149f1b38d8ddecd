package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// monthlyCSV writes one reading per month for each year at the given Kelvin.
func monthlyCSV(years map[int]float64) string {
	var b strings.Builder
	b.WriteString("time,Ktemp\n")
	for year := 1990; year <= 2030; year++ {
		k, ok := years[year]
		if !ok {
			continue
		}
		for m := 1; m <= 12; m++ {
			fmt.Fprintf(&b, "%d-%02d-15,%.2f\n", year, m, k)
		}
	}
	return b.String()
}

const seaLevelFixture = `Year,GMSL_GIA
1996,-20
1996,-22
2015,40
unknown,0
`

func TestRun_Passes(t *testing.T) {
	temps := writeFixture(t, "t.csv", monthlyCSV(map[int]float64{1996: 283.15, 2015: 287.15}))
	seas := writeFixture(t, "s.csv", seaLevelFixture)

	var out bytes.Buffer
	code := run(context.Background(), &out, options{
		temperaturePath: temps, seaLevelPath: seas, threshold: 55, from: 1995, to: 2020,
	})

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "first year above 55°F: 2015")
	assert.Contains(t, out.String(), "2 joined years")
	assert.Contains(t, out.String(), "All validations passed.")
}

func TestRun_FailsOnGapYearAndEmptyJoin(t *testing.T) {
	temps := writeFixture(t, "t.csv", monthlyCSV(map[int]float64{1990: 283.15, 1992: 283.15}))
	seas := writeFixture(t, "s.csv", seaLevelFixture)

	var out bytes.Buffer
	code := run(context.Background(), &out, options{
		temperaturePath: temps, seaLevelPath: seas, threshold: 55, from: 1995, to: 2020,
	})

	assert.Equal(t, 1, code)
	assert.Contains(t, out.String(), "year 1991")
	assert.Contains(t, out.String(), "no year between 1995 and 2020")
	assert.Contains(t, out.String(), "no year has a mean above 55°F")
	assert.Contains(t, out.String(), "Validation FAILED.")
}

func TestRun_MissingFile(t *testing.T) {
	var out bytes.Buffer
	code := run(context.Background(), &out, options{
		temperaturePath: filepath.Join(t.TempDir(), "missing.csv"), seaLevelPath: "also-missing.csv",
	})
	assert.Equal(t, 1, code)
}

func TestRun_BlankKelvinIsNoted(t *testing.T) {
	temps := writeFixture(t, "t.csv", monthlyCSV(map[int]float64{1996: 283.15})+"1996-12-20,\n")
	seas := writeFixture(t, "s.csv", seaLevelFixture)

	var out bytes.Buffer
	code := run(context.Background(), &out, options{
		temperaturePath: temps, seaLevelPath: seas, threshold: 55, from: 1995, to: 2020,
	})

	assert.Equal(t, 0, code, out.String())
	assert.Contains(t, out.String(), "1 readings have no Ktemp value")
}
