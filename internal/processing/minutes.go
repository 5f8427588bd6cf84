package processing

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/clients"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/lexicon"
	"github.com/peh-research/civicsift/internal/models"
	"github.com/peh-research/civicsift/internal/textproc"
)

// Transcript file names carry the meeting date in this form.
const MINUTES_DATE_LAYOUT = "01_02_2006"

// Paragraphs are rebuilt from transcripts as fixed sentence groups.
const MINUTES_SENTENCES_PER_PARAGRAPH = 3

var filenameDatePattern = regexp.MustCompile(`(\d{2}_\d{2}_\d{4})`)

var granicusListingLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"01/02/2006",
	"1/2/2006",
	"1/2/06",
}

type MinutesOptions struct {
	DataRoot string
}

// CollectMinutes scrapes the city's Granicus archive: one transcript
// .txt per meeting under transcripts/, plus the meeting_minutes.csv
// index. Cities without a Granicus host are skipped.
func CollectMinutes(ctx context.Context, city cities.City, opts MinutesOptions) error {
	if city.GranicusHost == "" {
		slog.Warn("[CollectMinutes] City has no Granicus archive, skipping",
			slog.String("city", city.Name))
		return nil
	}

	gc := clients.GetGranicusClient()
	dir := dataset.CityDir(opts.DataRoot, city.Slug, dataset.SourceMinutes)
	transcriptsDir := filepath.Join(dir, dataset.TranscriptsDir)
	if err := dataset.EnsureDir(transcriptsDir); err != nil {
		return err
	}

	meetings, err := gc.ListMeetings(ctx, city.GranicusHost, clients.GRANICUS_VIEW_ID)
	if err != nil {
		return fmt.Errorf("[CollectMinutes] listing for %s failed: %w", city.GranicusHost, err)
	}
	slog.Info("[CollectMinutes] Found archive meetings",
		slog.String("city", city.Name),
		slog.Int("meetings", len(meetings)))

	var rows []models.MeetingRow
	for _, m := range meetings {
		name := transcriptName(m)
		path := filepath.Join(transcriptsDir, name)

		if !dataset.FileExists(path) {
			notes, err := gc.FetchNotes(ctx, m.URL)
			if err != nil {
				slog.Warn("[CollectMinutes] Failed to fetch caption notes",
					slog.String("url", m.URL),
					slog.String("error", err.Error()))
				continue
			}
			if strings.TrimSpace(notes) == "" {
				slog.Warn("[CollectMinutes] Empty caption notes, skipping",
					slog.String("url", m.URL))
				continue
			}
			if err := os.WriteFile(path, []byte(notes), 0o644); err != nil {
				return fmt.Errorf("[CollectMinutes] failed to write %s: %w", path, err)
			}
		}

		rows = append(rows, models.MeetingRow{
			Filename:    name,
			MeetingDate: m.Date,
			Board:       m.Board,
			URL:         m.URL,
			FetchedAt:   dataset.FormatTimestamp(time.Now().UTC()),
		})
	}

	path := filepath.Join(dir, dataset.MinutesFile)
	if err := dataset.WriteCSV(path, rows); err != nil {
		return err
	}
	slog.Info("[CollectMinutes] Collection complete",
		slog.String("city", city.Name),
		slog.Int("transcripts", len(rows)),
		slog.String("path", path))
	return nil
}

// transcriptName renders <board>_<MM_DD_YYYY>.txt; listing dates that
// resist parsing are sanitized into the name as-is.
func transcriptName(m clients.GranicusMeeting) string {
	datePart := sanitizeToken(m.Date)
	for _, layout := range granicusListingLayouts {
		if parsed, err := time.Parse(layout, strings.TrimSpace(m.Date)); err == nil {
			datePart = parsed.Format(MINUTES_DATE_LAYOUT)
			break
		}
	}
	return sanitizeToken(m.Board) + "_" + datePart + ".txt"
}

func sanitizeToken(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range strings.TrimSpace(s) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteRune('_')
				lastUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}

// MinutesParagraphs walks every meeting_minutes directory under root,
// splits each transcript into 3-sentence paragraphs and writes the
// lexicon matches sheet. Directories whose matches CSV already exists
// are skipped.
func MinutesParagraphs(root string, cityList []cities.City) error {
	for _, city := range cityList {
		dir := dataset.CityDir(root, city.Slug, dataset.SourceMinutes)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}

		outPath := filepath.Join(dir, dataset.MinutesMatchesFile)
		if dataset.FileExists(outPath) {
			slog.Info("[MinutesParagraphs] Matches file already exists, skipping",
				slog.String("city", city.Name),
				slog.String("path", outPath))
			continue
		}

		transcripts := listTranscripts(dir)
		if len(transcripts) == 0 {
			slog.Warn("[MinutesParagraphs] No transcripts found",
				slog.String("city", city.Name))
			continue
		}

		var rows []models.MinutesMatchRow
		for _, path := range transcripts {
			fileRows, err := matchTranscript(path)
			if err != nil {
				slog.Warn("[MinutesParagraphs] Failed to process transcript",
					slog.String("path", path),
					slog.String("error", err.Error()))
				continue
			}
			rows = append(rows, fileRows...)
		}

		if err := dataset.WriteCSV(outPath, rows); err != nil {
			return err
		}
		slog.Info("[MinutesParagraphs] Wrote lexicon matches",
			slog.String("city", city.Name),
			slog.Int("transcripts", len(transcripts)),
			slog.Int("matches", len(rows)))
	}
	return nil
}

// listTranscripts accepts both the scraped transcripts/ layout and
// hand-populated directories with .txt files at the top level.
func listTranscripts(dir string) []string {
	var out []string
	for _, pattern := range []string{
		filepath.Join(dir, "*.txt"),
		filepath.Join(dir, dataset.TranscriptsDir, "*.txt"),
	} {
		files, _ := filepath.Glob(pattern)
		out = append(out, files...)
	}
	return out
}

func matchTranscript(path string) ([]models.MinutesMatchRow, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	sentences, err := textproc.Sentences(string(raw))
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	date := filenameDatePattern.FindString(name)

	var rows []models.MinutesMatchRow
	for _, paragraph := range textproc.GroupSentences(sentences, MINUTES_SENTENCES_PER_PARAGRAPH) {
		matched := lexicon.MatchedKeywords(paragraph)
		if len(matched) == 0 {
			continue
		}
		flat := strings.Join(strings.Fields(paragraph), " ")
		rows = append(rows, models.MinutesMatchRow{
			Filename:     name,
			Date:         date,
			Paragraph:    flat,
			MatchedWords: strings.Join(matched, "; "),
		})
	}
	return rows, nil
}
