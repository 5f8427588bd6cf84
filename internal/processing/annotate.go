package processing

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/lexicon"
	"github.com/peh-research/civicsift/internal/models"
)

// KEYWORDS_MATCHED_COLUMN is the annotation column the backfill writes.
const KEYWORDS_MATCHED_COLUMN = "keywords_matched"

// RETWEET_PREFIX marks classic retweets in the post text.
const RETWEET_PREFIX = "RT @"

// AnnotateTweets writes the _rt twin of every posts CSV in the city's
// folder, adding is_retweet and keywords_matched columns.
func AnnotateTweets(root string, city cities.City) error {
	dir := dataset.CityDir(root, city.Slug, dataset.SourceX)
	paths, err := postsFiles(dir)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		slog.Warn("[AnnotateTweets] No posts CSV found, skipping",
			slog.String("city", city.Name))
		return nil
	}

	for _, path := range paths {
		tweets, err := dataset.ReadCSV[models.TweetRow](path)
		if err != nil {
			return err
		}
		annotated := make([]models.AnnotatedTweetRow, len(tweets))
		retweets := 0
		for i, tw := range tweets {
			isRT := strings.HasPrefix(tw.Text, RETWEET_PREFIX)
			if isRT {
				retweets++
			}
			annotated[i] = models.AnnotatedTweetRow{
				TweetRow:        tw,
				IsRetweet:       isRT,
				KeywordsMatched: lexicon.Annotate(tw.Text),
			}
		}
		if err := dataset.WriteCSV(dataset.AnnotatedName(path), annotated); err != nil {
			return err
		}
		slog.Info("[AnnotateTweets] Wrote annotated posts",
			slog.String("file", filepath.Base(dataset.AnnotatedName(path))),
			slog.Int("tweets", len(tweets)),
			slog.Int("retweets", retweets))
	}
	return nil
}

// BackfillKeywords refreshes keywords_matched on the city's filtered
// Reddit comments and deidentified posts CSVs. The deidentified Reddit
// twin copies the column from the original rather than recomputing, and
// only when the row counts line up.
func BackfillKeywords(root string, city cities.City) error {
	if err := backfillReddit(root, city); err != nil {
		return err
	}
	return backfillDeidentifiedTweets(root, city)
}

func backfillReddit(root string, city cities.City) error {
	dir := dataset.CityDir(root, city.Slug, dataset.SourceReddit)
	path := filepath.Join(dir, dataset.RedditFilteredComments)
	if !dataset.FileExists(path) {
		slog.Warn("[Backfill] No filtered_comments.csv, skipping",
			slog.String("city", city.Name))
		return nil
	}

	sheet, err := dataset.ReadSheet(path)
	if err != nil {
		return err
	}
	commentCol := sheet.Column("Comment")
	if commentCol < 0 {
		slog.Warn("[Backfill] No Comment column, skipping",
			slog.String("file", path))
		return nil
	}

	values := make([]string, len(sheet.Rows))
	for i, row := range sheet.Rows {
		if commentCol < len(row) {
			values[i] = lexicon.Annotate(row[commentCol])
		}
	}
	setOrAddColumn(sheet, KEYWORDS_MATCHED_COLUMN, values)
	if err := dataset.WriteSheet(path, sheet); err != nil {
		return err
	}
	slog.Info("[Backfill] Annotated filtered comments",
		slog.String("city", city.Name),
		slog.Int("rows", len(sheet.Rows)))

	twinPath := dataset.DeidentifiedName(path)
	if !dataset.FileExists(twinPath) {
		return nil
	}
	twin, err := dataset.ReadSheet(twinPath)
	if err != nil {
		return err
	}
	if len(twin.Rows) != len(sheet.Rows) {
		slog.Warn("[Backfill] Row count mismatch with deidentified twin, skipping",
			slog.String("file", twinPath),
			slog.Int("rows", len(sheet.Rows)),
			slog.Int("twin_rows", len(twin.Rows)))
		return nil
	}
	setOrAddColumn(twin, KEYWORDS_MATCHED_COLUMN, values)
	return dataset.WriteSheet(twinPath, twin)
}

func backfillDeidentifiedTweets(root string, city cities.City) error {
	dir := dataset.CityDir(root, city.Slug, dataset.SourceX)
	paths, err := postsFiles(dir)
	if err != nil {
		return err
	}

	for _, path := range paths {
		twinPath := dataset.DeidentifiedName(xScrubTarget(path))
		if !dataset.FileExists(twinPath) {
			continue
		}
		twin, err := dataset.ReadSheet(twinPath)
		if err != nil {
			return err
		}
		textCol := twin.Column("text")
		if textCol < 0 {
			slog.Warn("[Backfill] No text column, skipping",
				slog.String("file", twinPath))
			continue
		}
		values := make([]string, len(twin.Rows))
		for i, row := range twin.Rows {
			if textCol < len(row) {
				values[i] = lexicon.Annotate(row[textCol])
			}
		}
		setOrAddColumn(twin, KEYWORDS_MATCHED_COLUMN, values)
		if err := dataset.WriteSheet(twinPath, twin); err != nil {
			return err
		}
		slog.Info("[Backfill] Annotated deidentified posts",
			slog.String("file", filepath.Base(twinPath)),
			slog.Int("rows", len(twin.Rows)))
	}
	return nil
}

// xScrubTarget picks the file the scrub and sample jobs should read for
// a raw posts CSV: the _rt twin once annotation has run, the raw file
// before.
func xScrubTarget(postsPath string) string {
	if annotated := dataset.AnnotatedName(postsPath); dataset.FileExists(annotated) {
		return annotated
	}
	return postsPath
}

// postsFiles lists the raw per-window posts CSVs in an x folder,
// excluding the annotated and deidentified twins.
func postsFiles(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "posts_english_*.csv"))
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range matches {
		base := filepath.Base(m)
		if strings.Contains(base, "_rt") || strings.Contains(base, "_deidentified") {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// setOrAddColumn overwrites an existing column or appends a new one.
func setOrAddColumn(sheet *dataset.Sheet, name string, values []string) {
	idx := sheet.Column(name)
	if idx < 0 {
		sheet.AddColumn(name, values)
		return
	}
	for i := range sheet.Rows {
		for len(sheet.Rows[i]) <= idx {
			sheet.Rows[i] = append(sheet.Rows[i], "")
		}
		v := ""
		if i < len(values) {
			v = values[i]
		}
		sheet.Rows[i][idx] = v
	}
}
