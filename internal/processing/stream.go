package processing

import (
	"context"
	"log/slog"

	"github.com/peh-research/civicsift/internal/clients/kafka_client"
	"github.com/peh-research/civicsift/internal/dedupe"
	"github.com/peh-research/civicsift/internal/models"
)

// publishRecord sends one kept row to the raw-records topic unless the
// cross-run seen set already holds its ID. The record is marked seen
// only after a successful publish so failures are retried next run.
func publishRecord(ctx context.Context, seen dedupe.SeenSet, record models.RawRecord) {
	if seen.Seen(ctx, record.RecordID) {
		slog.Debug("[Stream] Skipping duplicate record",
			slog.String("record_id", record.RecordID))
		return
	}

	if err := kafka_client.PublishToKafka(kafka_client.KAFKA_TOPIC_RAW_RECORDS, record); err != nil {
		slog.Warn("[Stream] Failed to publish record",
			slog.String("record_id", record.RecordID),
			slog.String("source", record.Source),
			slog.String("error", err.Error()))
		return
	}

	if err := seen.Mark(ctx, record.RecordID); err != nil {
		slog.Warn("[Stream] Failed to mark record as seen",
			slog.String("record_id", record.RecordID),
			slog.String("error", err.Error()))
	}
}
