package processing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/db"
	"github.com/peh-research/civicsift/internal/deidentify"
	"github.com/peh-research/civicsift/internal/models"
)

type ArchiveOptions struct {
	DataRoot  string
	Retention time.Duration
	DryRun    bool
}

// ArchiveCity walks the city's deidentified CSVs and batch-writes their
// rows to the research table. Record IDs hash the content, so reruns
// overwrite instead of duplicating.
func ArchiveCity(ctx context.Context, city cities.City, opts ArchiveOptions) error {
	records, err := collectArchiveRecords(opts.DataRoot, city)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		slog.Warn("[Archive] No deidentified rows found, skipping",
			slog.String("city", city.Name))
		return nil
	}

	if opts.DryRun {
		slog.Info("[Archive] Dry run, nothing written",
			slog.String("city", city.Name),
			slog.Int("records", len(records)))
		return nil
	}

	if err := db.BatchArchiveRecords(ctx, records, opts.Retention); err != nil {
		return err
	}
	slog.Info("[Archive] City archived",
		slog.String("city", city.Name),
		slog.Int("records", len(records)))
	return nil
}

func collectArchiveRecords(root string, city cities.City) ([]models.ArchiveRecord, error) {
	var records []models.ArchiveRecord
	now := dataset.FormatTimestamp(time.Now().UTC())

	for _, source := range deidentifySources {
		columns := deidentify.ColumnsForSource[source]
		if len(columns) == 0 {
			continue
		}
		textCol := deidentify.DeidentifiedPrefix + columns[len(columns)-1]

		targets, err := deidentifyTargets(root, city, source)
		if err != nil {
			return nil, err
		}
		for _, path := range targets {
			twin := dataset.DeidentifiedName(path)
			if !dataset.FileExists(twin) {
				continue
			}
			sheet, err := dataset.ReadSheet(twin)
			if err != nil {
				return nil, err
			}
			if sheet.Column(textCol) < 0 {
				slog.Warn("[Archive] No deidentified column, skipping file",
					slog.String("file", twin),
					slog.String("column", textCol))
				continue
			}
			for i := range sheet.Rows {
				text := sheet.Cell(i, textCol)
				if strings.TrimSpace(text) == "" {
					continue
				}
				matched := sheet.Cell(i, KEYWORDS_MATCHED_COLUMN)
				if matched == "" {
					matched = sheet.Cell(i, "matched_words")
				}
				records = append(records, models.ArchiveRecord{
					RecordID:        archiveRecordID(source, city.Slug, text),
					Source:          source,
					City:            city.Slug,
					Text:            text,
					KeywordsMatched: matched,
					ArchivedAt:      now,
				})
			}
		}
	}
	return records, nil
}

// archiveRecordID derives a stable ID from source, city and text.
func archiveRecordID(source, city, text string) string {
	sum := sha256.Sum256([]byte(source + "|" + city + "|" + text))
	return hex.EncodeToString(sum[:])
}
