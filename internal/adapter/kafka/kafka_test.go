package kafka

import (
	"context"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-dashboard/internal/config"
	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

func TestSerializeRow(t *testing.T) {
	now := time.Date(2026, 10, 18, 15, 10, 0, 0, time.UTC)
	row := domain.ComparisonRow{Year: 2015, MeanFahrenheit: 56.25, MeanSeaLevelMM: 71.5}

	msg, err := serializeRow(row, now)
	require.NoError(t, err)

	assert.Equal(t, []byte("2015"), msg.Key)
	assert.JSONEq(t, `{"year":2015,"mean_fahrenheit":56.25,"mean_sea_level_mm":71.5}`, string(msg.Value))
	require.Len(t, msg.Headers, 2)
	assert.Equal(t, "dataset", msg.Headers[0].Key)
	assert.Equal(t, []byte(Dataset), msg.Headers[0].Value)
	assert.Equal(t, "exported_at", msg.Headers[1].Key)
	assert.Equal(t, []byte(now.Format(time.RFC3339)), msg.Headers[1].Value)
}

func TestSerializeRow_RejectsNaN(t *testing.T) {
	_, err := serializeRow(domain.ComparisonRow{Year: 2000, MeanFahrenheit: math.NaN()}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "comparison row 2000")
}

func TestExportComparison_EmptyViewIsNoop(t *testing.T) {
	cfg := &config.Config{KafkaBrokers: []string{"127.0.0.1:1"}, KafkaExportTopic: "climate-comparison"}
	exp := NewExporter(cfg, slog.Default())
	t.Cleanup(func() { _ = exp.Close() })

	err := exp.ExportComparison(context.Background(), domain.ComparisonView{FromYear: 1995, ToYear: 2020})
	assert.NoError(t, err)
}
