package stats

import (
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/models"
)

// GrandTotalCity labels the sum row of the cross-city sheet.
const GrandTotalCity = "Grand Total"

// BuildCitySummary assembles the cross-city totals from whatever files
// exist under root. Missing files count zero so the sweep works on
// partially collected trees. The final row sums every column.
func BuildCitySummary(root string, cityList []cities.City) []models.CitySummaryRow {
	rows := make([]models.CitySummaryRow, 0, len(cityList)+1)
	total := models.CitySummaryRow{City: GrandTotalCity}

	for _, city := range cityList {
		row := summarizeCity(root, city)
		total.TotalFilteredRedditPosts += row.TotalFilteredRedditPosts
		total.TotalFilteredRedditComment += row.TotalFilteredRedditComment
		total.TotalNewsArticles += row.TotalNewsArticles
		total.TotalNewsParagraphs += row.TotalNewsParagraphs
		total.TotalXTweets += row.TotalXTweets
		total.TotalXGeolocatedTweets += row.TotalXGeolocatedTweets
		total.TotalXNonRetweets += row.TotalXNonRetweets
		total.TotalMeetingMinutesResults += row.TotalMeetingMinutesResults
		total.TotalMeetings += row.TotalMeetings
		rows = append(rows, row)
	}

	return append(rows, total)
}

// WriteCitySummary writes the sheet to data_summary/data_summary_by_city.csv.
func WriteCitySummary(root string, rows []models.CitySummaryRow) (string, error) {
	path := dataset.SummaryPath(root, dataset.CitySummaryFile)
	if err := dataset.WriteCSV(path, rows); err != nil {
		return "", err
	}
	slog.Info("[Stats] Wrote cross-city summary",
		slog.String("path", path),
		slog.Int("cities", len(rows)-1))
	return path, nil
}

func summarizeCity(root string, city cities.City) models.CitySummaryRow {
	row := models.CitySummaryRow{City: city.Name}

	redditDir := dataset.CityDir(root, city.Slug, dataset.SourceReddit)
	values, _, err := ReadStatistics(filepath.Join(redditDir, dataset.StatisticsFile))
	if err != nil {
		slog.Warn("[Stats] Unreadable Reddit statistics sheet",
			slog.String("city", city.Name),
			slog.String("error", err.Error()))
	} else {
		row.TotalFilteredRedditPosts = atoiLoose(values[StatTotalKeywordPosts])
	}
	row.TotalFilteredRedditComment = countRowsQuiet(filepath.Join(redditDir, dataset.RedditFilteredComments))

	newsDir := dataset.CityDir(root, city.Slug, dataset.SourceNews)
	row.TotalNewsArticles = countRowsQuiet(filepath.Join(newsDir, dataset.LexisNexisFile))
	row.TotalNewsParagraphs = countRowsQuiet(filepath.Join(newsDir, dataset.ProcessedArticlesName(city.Slug)))

	summarizeTweets(dataset.CityDir(root, city.Slug, dataset.SourceX), &row)

	minutesDir := dataset.CityDir(root, city.Slug, dataset.SourceMinutes)
	matchesPath := dataset.DeidentifiedName(filepath.Join(minutesDir, dataset.MinutesMatchesFile))
	if !dataset.FileExists(matchesPath) {
		matchesPath = filepath.Join(minutesDir, dataset.MinutesMatchesFile)
	}
	row.TotalMeetingMinutesResults = countRowsQuiet(matchesPath)
	row.TotalMeetings = countMeetings(minutesDir)

	return row
}

func summarizeTweets(dir string, row *models.CitySummaryRow) {
	postsPath := findPostsFile(dir)
	if postsPath == "" {
		return
	}
	sheet, err := dataset.ReadSheet(postsPath)
	if err != nil {
		slog.Warn("[Stats] Unreadable posts sheet",
			slog.String("path", postsPath),
			slog.String("error", err.Error()))
		return
	}

	row.TotalXTweets = len(sheet.Rows)
	for i := range sheet.Rows {
		if sheet.Cell(i, "tweet_geo") != "" ||
			sheet.Cell(i, "tweet_country") != "" ||
			sheet.Cell(i, "place_type") != "" {
			row.TotalXGeolocatedTweets++
		}
	}

	annotated := dataset.AnnotatedName(postsPath)
	if dataset.FileExists(annotated) {
		if asheet, err := dataset.ReadSheet(annotated); err == nil && asheet.Column("is_retweet") >= 0 {
			for i := range asheet.Rows {
				if asheet.Cell(i, "is_retweet") != "true" {
					row.TotalXNonRetweets++
				}
			}
			return
		}
	}
	for i := range sheet.Rows {
		if !strings.HasPrefix(sheet.Cell(i, "text"), "RT @") {
			row.TotalXNonRetweets++
		}
	}
}

// findPostsFile locates the per-window posts CSV, skipping the
// annotated and deidentified twins.
func findPostsFile(dir string) string {
	matches, _ := filepath.Glob(filepath.Join(dir, "posts_english_*.csv"))
	for _, m := range matches {
		base := filepath.Base(m)
		if strings.Contains(base, "_rt") || strings.Contains(base, "_deidentified") {
			continue
		}
		return m
	}
	return ""
}

// countMeetings prefers the Granicus index sheet; directories populated
// by hand count transcript files instead.
func countMeetings(dir string) int {
	indexPath := filepath.Join(dir, dataset.MinutesFile)
	if dataset.FileExists(indexPath) {
		return countRowsQuiet(indexPath)
	}
	count := 0
	for _, pattern := range []string{
		filepath.Join(dir, "*.txt"),
		filepath.Join(dir, dataset.TranscriptsDir, "*.txt"),
	} {
		files, _ := filepath.Glob(pattern)
		count += len(files)
	}
	return count
}

func countRowsQuiet(path string) int {
	n, err := dataset.CountRows(path)
	if err != nil {
		slog.Warn("[Stats] Failed to count rows",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return 0
	}
	return n
}

func atoiLoose(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
