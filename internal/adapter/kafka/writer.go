package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/minzi-dev/floodwatch/internal/config"
	"github.com/minzi-dev/floodwatch/internal/snapshot"
)

// Writer publishes station snapshots to a Kafka topic.
// It implements snapshot.Exporter.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured snapshot topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Export publishes one message per snapshot, keyed by generation time so
// compacted topics keep only the latest view.
func (w *Writer) Export(ctx context.Context, snap *snapshot.Snapshot) error {
	msg, err := serializeToMessage(snap)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals a snapshot into a Kafka message.
func serializeToMessage(snap *snapshot.Snapshot) (kafkago.Message, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize snapshot: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(snap.GeneratedAt.Format(time.RFC3339)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "station_count", Value: []byte(strconv.Itoa(len(snap.Stations)))},
		},
	}, nil
}
