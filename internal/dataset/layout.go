package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Source subdirectory names under each city folder.
const (
	SourceReddit  = "reddit"
	SourceX       = "x"
	SourceNews    = "newspaper"
	SourceMinutes = "meeting_minutes"
)

// Fixed file names inside source folders.
const (
	RedditAllComments      = "all_comments.csv"
	RedditFilteredComments = "filtered_comments.csv"
	StatisticsFile         = "statistics.csv"
	LexisNexisFile         = "lexisnexis.csv"
	NewsAPIFile            = "newsapi_articles.csv"
	MinutesFile            = "meeting_minutes.csv"
	MinutesMatchesFile     = "meeting_minutes_lexicon_matches.csv"
	TranscriptsDir         = "transcripts"
	SummaryDir             = "data_summary"
	CitySummaryFile        = "data_summary_by_city.csv"
	ParagraphStatsFile     = "lexisnexis_paragraph_filter_summary_stats.csv"
	GoldStandardDir        = "gold_standard"
	CombinedSampleFile     = "combined_sample.csv"
	StreamScrubbedFile     = "stream_scrubbed.csv"
)

// CityDir returns data/<slug>/<source>.
func CityDir(root, slug, source string) string {
	return filepath.Join(root, slug, source)
}

// SummaryPath returns data/data_summary/<name>.
func SummaryPath(root, name string) string {
	return filepath.Join(root, SummaryDir, name)
}

// DeidentifiedName maps a CSV path to its _deidentified twin.
func DeidentifiedName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_deidentified" + ext
}

// TweetPostsName returns the per-window posts file name, e.g.
// posts_english_2015-2025.csv.
func TweetPostsName(start, end time.Time) string {
	return fmt.Sprintf("posts_english_%d-%d.csv", start.Year(), end.Year())
}

// TweetStatsName returns the one-row collection stats file name.
func TweetStatsName(start, end time.Time) string {
	return fmt.Sprintf("statistics_twitter_english_%d-%d.csv", start.Year(), end.Year())
}

// TweetByDayName returns the daily counts file name.
func TweetByDayName(start, end time.Time) string {
	return fmt.Sprintf("statistics_twitter_by_day_english_%d-%d.csv", start.Year(), end.Year())
}

// AnnotatedName maps a posts CSV to its retweet-annotated twin.
func AnnotatedName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_rt" + ext
}

// FilteredArticlesName returns <slug>_filtered.csv.
func FilteredArticlesName(slug string) string {
	return slug + "_filtered.csv"
}

// ProcessedArticlesName returns <slug>_processed_articles.csv.
func ProcessedArticlesName(slug string) string {
	return slug + "_processed_articles.csv"
}

// FileExists reports whether path exists and is a regular file.
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// EnsureDir creates dir (and parents) when missing.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("[Dataset] failed to create %s: %w", dir, err)
	}
	return nil
}
