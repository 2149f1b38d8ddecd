package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/climate-dashboard/internal/config"
	"github.com/couchcryptid/climate-dashboard/internal/domain"
)

// Dataset is the value of the "dataset" header on every exported message.
const Dataset = "temperature_sea_level"

// Exporter publishes comparison rows to a Kafka topic.
// It implements dashboard.Exporter.
type Exporter struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewExporter creates a Kafka producer for the configured export topic.
func NewExporter(cfg *config.Config, logger *slog.Logger) *Exporter {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaExportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Exporter{writer: w, logger: logger}
}

// ExportComparison publishes one message per joined year in a single
// WriteMessages call. Rows are keyed by year so re-exports of a year land on
// the same partition.
func (e *Exporter) ExportComparison(ctx context.Context, view domain.ComparisonView) error {
	if len(view.Rows) == 0 {
		e.logger.Info("comparison view is empty, nothing to export", "topic", e.writer.Topic)
		return nil
	}
	exportedAt := domain.Now()
	msgs := make([]kafkago.Message, len(view.Rows))
	for i := range view.Rows {
		msg, err := serializeRow(view.Rows[i], exportedAt)
		if err != nil {
			return err
		}
		msgs[i] = msg
	}
	if err := e.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d messages to %s: %w", len(msgs), e.writer.Topic, err)
	}
	e.logger.Debug("comparison rows written", "topic", e.writer.Topic, "rows", len(msgs))
	return nil
}

func (e *Exporter) Close() error {
	return e.writer.Close()
}

// serializeRow marshals a ComparisonRow into a Kafka message.
func serializeRow(row domain.ComparisonRow, exportedAt time.Time) (kafkago.Message, error) {
	data, err := json.Marshal(row)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize comparison row %d: %w", row.Year, err)
	}
	return kafkago.Message{
		Key:   []byte(strconv.Itoa(row.Year)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "dataset", Value: []byte(Dataset)},
			{Key: "exported_at", Value: []byte(exportedAt.Format(time.RFC3339))},
		},
	}, nil
}
