package deidentify

import (
	"fmt"
	"log/slog"

	"github.com/peh-research/civicsift/internal/dataset"
)

// NER_BATCH_SIZE caps how many rows go through the pipeline per call.
const NER_BATCH_SIZE = 32

// DeidentifiedPrefix names the scrubbed twin of a text column.
const DeidentifiedPrefix = "Deidentified_"

// ColumnsForSource lists the text columns scrubbed per source folder.
var ColumnsForSource = map[string][]string{
	dataset.SourceReddit:  {"Submission Title", "Comment"},
	dataset.SourceX:       {"text"},
	dataset.SourceNews:    {"article_title", "paragraph_text"},
	dataset.SourceMinutes: {"paragraph"},
}

// Scrubber runs the two-pass scrub. A nil NER scrubber degrades to the
// regex pass only; collection still works on hosts without the ONNX
// runtime.
type Scrubber struct {
	ner *NERScrubber
}

func NewScrubber(ner *NERScrubber) *Scrubber {
	return &Scrubber{ner: ner}
}

// HasNER reports whether the entity pass is active.
func (s *Scrubber) HasNER() bool {
	return s.ner != nil
}

// ScrubText scrubs a single text.
func (s *Scrubber) ScrubText(text string) string {
	return s.ScrubTexts([]string{text})[0]
}

// ScrubTexts runs the NER pass (when available) then the pattern pass
// over every text, preserving order.
func (s *Scrubber) ScrubTexts(texts []string) []string {
	out := make([]string, len(texts))
	copy(out, texts)

	if s.ner != nil {
		for lo := 0; lo < len(out); lo += NER_BATCH_SIZE {
			hi := lo + NER_BATCH_SIZE
			if hi > len(out) {
				hi = len(out)
			}
			redacted, err := s.ner.Redact(out[lo:hi])
			if err != nil {
				slog.Warn("[Deidentify] NER pass failed, keeping regex pass only",
					slog.Int("batch_start", lo),
					slog.String("error", err.Error()))
				continue
			}
			copy(out[lo:hi], redacted)
		}
	}

	for i, t := range out {
		out[i] = CleanupPlaceholders(ScrubPatterns(t))
	}
	return out
}

// ScrubSheet appends a Deidentified_<col> column for every configured
// column present in the sheet. Missing columns are skipped with a
// warning so one schema drift does not sink the whole folder.
func (s *Scrubber) ScrubSheet(sheet *dataset.Sheet, columns []string) {
	for _, col := range columns {
		idx := sheet.Column(col)
		if idx < 0 {
			slog.Warn("[Deidentify] Column not found, skipping",
				slog.String("column", col))
			continue
		}
		texts := make([]string, len(sheet.Rows))
		for i, row := range sheet.Rows {
			if idx < len(row) {
				texts[i] = row[idx]
			}
		}
		sheet.AddColumn(DeidentifiedPrefix+col, s.ScrubTexts(texts))
	}
}

// ScrubFile writes the _deidentified twin of path, scrubbing the given
// columns. Existing twins are left alone so reruns resume cheaply.
func (s *Scrubber) ScrubFile(path string, columns []string) (string, error) {
	twin := dataset.DeidentifiedName(path)
	if dataset.FileExists(twin) {
		slog.Info("[Deidentify] Output already exists, skipping",
			slog.String("file", twin))
		return twin, nil
	}

	sheet, err := dataset.ReadSheet(path)
	if err != nil {
		return "", err
	}
	if len(sheet.Rows) == 0 {
		return "", fmt.Errorf("[Deidentify] no rows in %s", path)
	}

	s.ScrubSheet(sheet, columns)
	if err := dataset.WriteSheet(twin, sheet); err != nil {
		return "", err
	}
	slog.Info("[Deidentify] Wrote deidentified file",
		slog.String("file", twin),
		slog.Int("rows", len(sheet.Rows)))
	return twin, nil
}
