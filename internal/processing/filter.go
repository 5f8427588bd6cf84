package processing

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/lexicon"
	"github.com/peh-research/civicsift/internal/models"
	"github.com/peh-research/civicsift/internal/stats"
	"github.com/peh-research/civicsift/internal/textproc"
)

// LONG_ARTICLE_SENTENCE_BUDGET is the sentence count above which a
// filtered paragraph row gets split before annotation.
const LONG_ARTICLE_SENTENCE_BUDGET = 10

// LONG_ARTICLE_FOCUS_WINDOW is how many sentences to keep on each side
// of a lexicon hit when a long row has no paragraph breaks.
const LONG_ARTICLE_FOCUS_WINDOW = 2

// RefilterReddit rebuilds filtered_comments.csv from an existing
// all_comments.csv and refreshes the filter counters on statistics.csv.
// Collection-time keys on the sheet are left untouched, so the lexicon
// can evolve without re-fetching.
func RefilterReddit(root string, city cities.City) error {
	dir := dataset.CityDir(root, city.Slug, dataset.SourceReddit)
	allPath := filepath.Join(dir, dataset.RedditAllComments)
	if !dataset.FileExists(allPath) {
		slog.Warn("[RefilterReddit] No all_comments.csv, skipping",
			slog.String("city", city.Name))
		return nil
	}

	all, err := dataset.ReadCSV[models.RedditCommentRow](allPath)
	if err != nil {
		return err
	}

	var filtered []models.RedditCommentRow
	for _, row := range all {
		if lexicon.Matches(row.Comment) {
			filtered = append(filtered, row)
		}
	}

	if err := dataset.WriteCSV(filepath.Join(dir, dataset.RedditFilteredComments), filtered); err != nil {
		return err
	}

	pct := 0.0
	if len(all) > 0 {
		pct = float64(len(filtered)) / float64(len(all)) * 100
	}
	updates := map[string]string{
		stats.StatTotalComments:         strconv.Itoa(len(all)),
		stats.StatTotalFilteredComments: strconv.Itoa(len(filtered)),
		stats.StatPctCommentsFiltered:   fmt.Sprintf("%.2f%%", pct),
	}
	order := []string{
		stats.StatTotalComments,
		stats.StatTotalFilteredComments,
		stats.StatPctCommentsFiltered,
	}
	if err := stats.MergeStatistics(filepath.Join(dir, dataset.StatisticsFile), updates, order); err != nil {
		return err
	}

	slog.Info("[RefilterReddit] Rebuilt filtered comments",
		slog.String("city", city.Name),
		slog.Int("comments", len(all)),
		slog.Int("filtered", len(filtered)))
	return nil
}

// FilterLexisParagraphs extracts body paragraphs from every city's
// lexisnexis.csv, keeps those matching the lexicon and writes them to
// <slug>_filtered.csv, one row per paragraph. Per-city counters go to
// the shared summary sheet under data_summary/.
func FilterLexisParagraphs(root string, cityList []cities.City) error {
	var summaries []models.ParagraphFilterStats

	for _, city := range cityList {
		dir := dataset.CityDir(root, city.Slug, dataset.SourceNews)
		srcPath := filepath.Join(dir, dataset.LexisNexisFile)
		if !dataset.FileExists(srcPath) {
			slog.Warn("[FilterLexis] No lexisnexis.csv, skipping",
				slog.String("city", city.Name))
			continue
		}

		articles, err := dataset.ReadCSV[models.LexisArticleRow](srcPath)
		if err != nil {
			return err
		}

		st := models.ParagraphFilterStats{City: city.Slug, KeywordCounts: make(map[string]int)}
		var rows []models.ParagraphRow

		for _, art := range articles {
			st.ArticlesProcessed++
			if strings.TrimSpace(art.FullText) == "" {
				st.EmptyTextCount++
				continue
			}
			paragraphs := textproc.ExtractBodyParagraphs(art.FullText)
			if len(paragraphs) == 0 {
				st.ErrorCount++
				continue
			}

			matchedAny := false
			for _, p := range paragraphs {
				matched := lexicon.MatchedKeywords(p)
				if len(matched) == 0 {
					continue
				}
				matchedAny = true
				st.MatchingParagraphs++
				for _, kw := range matched {
					st.KeywordCounts[kw]++
				}
				rows = append(rows, models.ParagraphRow{
					City:            city.Slug,
					ArticleTitle:    art.Title,
					ArticleDate:     art.Date,
					ArticleSource:   art.Source,
					CitySource:      art.CitySource,
					ParagraphText:   p,
					KeywordsMatched: strings.Join(matched, ", "),
				})
			}
			if matchedAny {
				st.ArticlesWithMatch++
			}
		}

		outPath := filepath.Join(dir, dataset.FilteredArticlesName(city.Slug))
		if err := dataset.WriteCSV(outPath, rows); err != nil {
			return err
		}
		summaries = append(summaries, st)

		slog.Info("[FilterLexis] Filtered article paragraphs",
			slog.String("city", city.Name),
			slog.Int("articles", st.ArticlesProcessed),
			slog.Int("matching_paragraphs", st.MatchingParagraphs))
	}

	if len(summaries) == 0 {
		slog.Warn("[FilterLexis] No city had a lexisnexis.csv, skipping summary")
		return nil
	}
	return writeParagraphFilterSummary(root, summaries)
}

func writeParagraphFilterSummary(root string, summaries []models.ParagraphFilterStats) error {
	header := []string{
		"city",
		"articles_processed",
		"articles_with_match",
		"matching_paragraphs",
		"empty_text_count",
		"error_count",
	}
	for _, kw := range lexicon.Keywords {
		header = append(header, strings.ReplaceAll(kw, " ", "_"))
	}

	sheet := &dataset.Sheet{Header: header}
	for _, st := range summaries {
		row := []string{
			st.City,
			strconv.Itoa(st.ArticlesProcessed),
			strconv.Itoa(st.ArticlesWithMatch),
			strconv.Itoa(st.MatchingParagraphs),
			strconv.Itoa(st.EmptyTextCount),
			strconv.Itoa(st.ErrorCount),
		}
		for _, kw := range lexicon.Keywords {
			row = append(row, strconv.Itoa(st.KeywordCounts[kw]))
		}
		sheet.Rows = append(sheet.Rows, row)
	}
	return dataset.WriteSheet(dataset.SummaryPath(root, dataset.ParagraphStatsFile), sheet)
}

// ProcessLongArticles rewrites a city's filtered article rows so no row
// runs past the sentence budget: long rows split on paragraph breaks,
// and rows without break structure collapse to sentence windows around
// each lexicon hit. maxParagraphs caps the chunks kept per source row;
// zero means no cap.
func ProcessLongArticles(root string, city cities.City, maxParagraphs int) error {
	dir := dataset.CityDir(root, city.Slug, dataset.SourceNews)
	srcPath := filepath.Join(dir, dataset.FilteredArticlesName(city.Slug))
	if !dataset.FileExists(srcPath) {
		slog.Warn("[ProcessArticles] No filtered articles, skipping",
			slog.String("city", city.Name))
		return nil
	}

	rows, err := dataset.ReadCSV[models.ParagraphRow](srcPath)
	if err != nil {
		return err
	}

	var out []models.ParagraphRow
	longRows := 0
	for _, row := range rows {
		sentences, err := textproc.Sentences(row.ParagraphText)
		if err != nil {
			slog.Warn("[ProcessArticles] Sentence segmentation failed, keeping row as is",
				slog.String("article", row.ArticleTitle),
				slog.String("error", err.Error()))
			out = append(out, row)
			continue
		}
		if len(sentences) <= LONG_ARTICLE_SENTENCE_BUDGET {
			out = append(out, row)
			continue
		}
		longRows++

		chunks := textproc.SplitParagraphBreaks(row.ParagraphText)
		if len(chunks) <= 1 {
			chunks = textproc.FocusWindows(sentences, lexicon.Matches, LONG_ARTICLE_FOCUS_WINDOW)
		}

		kept := 0
		for _, chunk := range chunks {
			matched := lexicon.MatchedKeywords(chunk)
			if len(matched) == 0 {
				continue
			}
			if maxParagraphs > 0 && kept >= maxParagraphs {
				break
			}
			kept++
			chunkRow := row
			chunkRow.ParagraphText = chunk
			chunkRow.KeywordsMatched = strings.Join(matched, ", ")
			out = append(out, chunkRow)
		}
	}

	outPath := filepath.Join(dir, dataset.ProcessedArticlesName(city.Slug))
	if err := dataset.WriteCSV(outPath, out); err != nil {
		return err
	}

	slog.Info("[ProcessArticles] Wrote processed articles",
		slog.String("city", city.Name),
		slog.Int("rows_in", len(rows)),
		slog.Int("rows_out", len(out)),
		slog.Int("long_rows_split", longRows))
	return nil
}
