package consumers

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/peh-research/civicsift/internal/clients/kafka_client"
	"github.com/peh-research/civicsift/internal/clients/kafka_client/utils"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/db"
	"github.com/peh-research/civicsift/internal/deidentify"
	"github.com/peh-research/civicsift/internal/models"
)

// ScrubWorker consumes raw records from the raw-records topic,
// deidentifies them in batches and appends the scrubbed rows to the
// per-city stream CSVs. Offsets are committed only after a batch has
// been written, so a crash replays the uncommitted tail.
type ScrubWorker struct {
	scrubber  *deidentify.Scrubber
	dataRoot  string
	archive   bool
	retention time.Duration

	buffer *utils.BatchBuffer[kafka_client.Pending]
}

func NewScrubWorker(scrubber *deidentify.Scrubber, dataRoot string, archive bool, retention time.Duration) *ScrubWorker {
	return &ScrubWorker{
		scrubber:  scrubber,
		dataRoot:  dataRoot,
		archive:   archive,
		retention: retention,
		buffer:    utils.NewBatchBuffer[kafka_client.Pending](utils.BATCH_SIZE),
	}
}

func (w *ScrubWorker) Start(ctx context.Context, consumer *kafka.Consumer) {
	stream := kafka_client.NewRecordStream(consumer)
	committer := kafka_client.NewOffsetCommitter(consumer)

	slog.Info("[ScrubWorker] Listening for records...")

	ticker := time.NewTicker(utils.BATCH_TIMEOUT)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Warn("[ScrubWorker] Stopping consumer...")
			// The final flush runs on a fresh context so rows that
			// land still get their offsets committed.
			w.flush(context.Background(), committer)
			return
		case <-ticker.C:
			w.flush(ctx, committer)
		default:
			pending, err := stream.Poll(ctx)
			if err != nil {
				if ctx.Err() == nil {
					slog.Error("[ScrubWorker] Record stream failed",
						slog.String("error", err.Error()))
				}
				w.flush(context.Background(), committer)
				return
			}
			if pending == nil {
				continue
			}
			if w.buffer.Add(*pending) {
				w.flush(ctx, committer)
			}
		}
	}
}

func (w *ScrubWorker) flush(ctx context.Context, committer *kafka_client.OffsetCommitter) {
	batch := w.buffer.Drain()
	if len(batch) == 0 {
		return
	}

	slog.Info("[ScrubWorker] Scrubbing batch", slog.Int("batch_size", len(batch)))

	texts := make([]string, len(batch))
	for i, pending := range batch {
		texts[i] = pending.Record.Text
	}
	scrubbed := w.scrubber.ScrubTexts(texts)

	rowsByFile := make(map[string][]models.ScrubbedRecordRow)
	for i, pending := range batch {
		record := pending.Record
		row := models.ScrubbedRecordRow{
			RecordID:         record.RecordID,
			Source:           record.Source,
			City:             record.City,
			CollectedAt:      dataset.FormatTimestamp(record.CollectedAt),
			Text:             record.Text,
			DeidentifiedText: scrubbed[i],
			KeywordsMatched:  strings.Join(record.KeywordsMatched, ", "),
		}
		path := w.streamPath(record)
		rowsByFile[path] = append(rowsByFile[path], row)
	}

	failed := make(map[string]bool)
	for path, rows := range rowsByFile {
		if err := dataset.EnsureDir(filepath.Dir(path)); err != nil {
			slog.Error("[ScrubWorker] Failed to create city folder",
				slog.String("path", path),
				slog.String("error", err.Error()))
			failed[path] = true
			continue
		}
		if err := dataset.AppendCSV(path, rows); err != nil {
			slog.Error("[ScrubWorker] Failed to append scrubbed rows",
				slog.String("path", path),
				slog.String("error", err.Error()))
			failed[path] = true
			continue
		}
		slog.Info("[ScrubWorker] Appended scrubbed rows",
			slog.String("path", path),
			slog.Int("rows", len(rows)))
	}

	if w.archive {
		w.archiveBatch(ctx, batch, scrubbed)
	}

	w.commitBatch(ctx, committer, batch, failed)
}

// commitBatch commits the highest offset per partition. A failed file
// leaves its whole partition uncommitted so the batch replays there;
// duplicate stream rows are cheaper than dropped ones.
func (w *ScrubWorker) commitBatch(ctx context.Context, committer *kafka_client.OffsetCommitter, batch []kafka_client.Pending, failed map[string]bool) {
	tainted := make(map[int32]bool)
	highest := make(map[int32]*kafka.Message)
	for _, pending := range batch {
		partition := pending.Message.TopicPartition.Partition
		if failed[w.streamPath(pending.Record)] {
			tainted[partition] = true
			continue
		}
		current, ok := highest[partition]
		if !ok || pending.Message.TopicPartition.Offset > current.TopicPartition.Offset {
			highest[partition] = pending.Message
		}
	}

	for partition, msg := range highest {
		if tainted[partition] {
			continue
		}
		if err := committer.Commit(ctx, msg); err != nil {
			slog.Warn("[ScrubWorker] Commit failed, partition will replay",
				slog.Int("partition", int(partition)),
				slog.String("error", err.Error()))
		}
	}
}

func (w *ScrubWorker) streamPath(record models.RawRecord) string {
	return filepath.Join(dataset.CityDir(w.dataRoot, record.City, record.Source), dataset.StreamScrubbedFile)
}

func (w *ScrubWorker) archiveBatch(ctx context.Context, batch []kafka_client.Pending, scrubbed []string) {
	archived := make([]models.ArchiveRecord, len(batch))
	now := dataset.FormatTimestamp(time.Now().UTC())
	for i, pending := range batch {
		record := pending.Record
		archived[i] = models.ArchiveRecord{
			RecordID:        record.RecordID,
			Source:          record.Source,
			City:            record.City,
			Text:            scrubbed[i],
			KeywordsMatched: strings.Join(record.KeywordsMatched, ", "),
			ArchivedAt:      now,
		}
	}
	if err := db.BatchArchiveRecords(ctx, archived, w.retention); err != nil {
		slog.Error("[ScrubWorker] Failed to archive scrubbed batch",
			slog.String("error", err.Error()))
	}
}
