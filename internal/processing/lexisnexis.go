package processing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/clients"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/dedupe"
	"github.com/peh-research/civicsift/internal/lexicon"
	"github.com/peh-research/civicsift/internal/models"
)

type LexisOptions struct {
	DataRoot string
	Start    time.Time
	End      time.Time
	Stream   bool
}

// CollectLexisNexis pages the News API for the city's configured
// outlets, dedupes by ResultId, keeps articles inside the window and
// writes lexisnexis.csv. Full Text carries the document XML verbatim.
func CollectLexisNexis(ctx context.Context, city cities.City, opts LexisOptions) error {
	if len(city.LexisSources) == 0 {
		slog.Warn("[CollectLexisNexis] City has no configured sources, skipping",
			slog.String("city", city.Name))
		return nil
	}

	lc := clients.GetLexisNexisClient()
	dir := dataset.CityDir(opts.DataRoot, city.Slug, dataset.SourceNews)
	query := lexisQuery(city)

	slog.Info("[CollectLexisNexis] Collecting articles...",
		slog.String("city", city.Name),
		slog.String("query", query))

	var seen dedupe.SeenSet
	if opts.Stream {
		seen = dedupe.ForSource(dataset.SourceNews)
	}

	seenResults := make(map[string]bool)
	var rows []models.LexisArticleRow
	skip := 0
	for {
		resp, err := lc.Search(ctx, query, skip)
		if err != nil {
			return fmt.Errorf("[CollectLexisNexis] page at skip %d for %s failed: %w", skip, city.Name, err)
		}
		if len(resp.Value) == 0 {
			break
		}

		for _, result := range resp.Value {
			if result.ResultID == "" || seenResults[result.ResultID] {
				continue
			}
			seenResults[result.ResultID] = true

			if !lexisDateInWindow(result.Date, opts.Start, opts.End) {
				continue
			}

			row := models.LexisArticleRow{
				Title:      result.Title,
				Date:       result.Date,
				Source:     result.Source.Name,
				CitySource: matchCitySource(city, result.Source.Name),
			}
			if result.Document != nil {
				row.FullText = result.Document.Content
			}
			rows = append(rows, row)

			if opts.Stream {
				publishRecord(ctx, seen, models.RawRecord{
					RecordID: "lexis_" + result.ResultID,
					Source:   dataset.SourceNews,
					City:     city.Slug,
					Text:     row.FullText,
					Columns: map[string]string{
						"Title":       row.Title,
						"Date":        row.Date,
						"Source":      row.Source,
						"City Source": row.CitySource,
						"Full Text":   row.FullText,
					},
					CollectedAt: time.Now().UTC(),
				})
			}
		}

		if resp.ODataNext == "" {
			break
		}
		skip += clients.LEXISNEXIS_PAGE_SIZE
	}

	if opts.Stream {
		slog.Info("[CollectLexisNexis] Streamed articles",
			slog.String("city", city.Name),
			slog.Int("articles", len(rows)))
		return nil
	}

	path := filepath.Join(dir, dataset.LexisNexisFile)
	if err := dataset.WriteCSV(path, rows); err != nil {
		return err
	}
	slog.Info("[CollectLexisNexis] Collection complete",
		slog.String("city", city.Name),
		slog.Int("articles", len(rows)),
		slog.String("path", path))
	return nil
}

// lexisQuery renders the search expression, e.g.
// (("homeless") OR ("unhoused")) AND source("The Oregonian").
func lexisQuery(city cities.City) string {
	kwParts := make([]string, len(lexicon.Keywords))
	for i, kw := range lexicon.Keywords {
		kwParts[i] = `("` + kw + `")`
	}
	srcParts := make([]string, len(city.LexisSources))
	for i, s := range city.LexisSources {
		srcParts[i] = `"` + s + `"`
	}
	return "(" + strings.Join(kwParts, " OR ") + ") AND source(" + strings.Join(srcParts, " OR ") + ")"
}

// lexisDateInWindow keeps unparseable dates; the window filter only
// drops articles it can positively place outside [start,end).
func lexisDateInWindow(date string, start, end time.Time) bool {
	parsed, err := time.Parse(time.RFC3339, date)
	if err != nil {
		parsed, err = time.Parse(dataset.DateLayout, date)
	}
	if err != nil {
		slog.Debug("[CollectLexisNexis] Unparseable article date",
			slog.String("date", date))
		return true
	}
	return !parsed.Before(start) && parsed.Before(end)
}

func matchCitySource(city cities.City, outlet string) string {
	for _, title := range city.LexisSources {
		if strings.EqualFold(title, outlet) ||
			strings.Contains(strings.ToLower(outlet), strings.ToLower(title)) {
			return title
		}
	}
	return outlet
}
