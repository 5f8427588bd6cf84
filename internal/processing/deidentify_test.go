package processing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/deidentify"
	"github.com/peh-research/civicsift/internal/models"
)

func TestDeidentifyCity(t *testing.T) {
	root := t.TempDir()
	scrubber := deidentify.NewScrubber(nil)

	redditDir := dataset.CityDir(root, testCity.Slug, dataset.SourceReddit)
	redditPath := filepath.Join(redditDir, dataset.RedditFilteredComments)
	require.NoError(t, dataset.WriteCSV(redditPath, []models.RedditCommentRow{
		{SubmissionTitle: "Shelter hotline", Comment: "Call 415-555-0199 or mail help@example.org"},
	}))

	xDir := dataset.CityDir(root, testCity.Slug, dataset.SourceX)
	xPath := filepath.Join(xDir, "posts_english_2015-2025.csv")
	require.NoError(t, dataset.WriteCSV(xPath, []models.TweetRow{
		{ID: "1", Text: "Donations at https://example.org/give today"},
	}))

	newsDir := dataset.CityDir(root, testCity.Slug, dataset.SourceNews)
	newsPath := filepath.Join(newsDir, dataset.FilteredArticlesName(testCity.Slug))
	require.NoError(t, dataset.WriteCSV(newsPath, []models.ParagraphRow{
		{City: "testville", ArticleTitle: "Count", ParagraphText: "Residents of 94103 lined up early.", KeywordsMatched: "homeless"},
	}))

	minutesDir := dataset.CityDir(root, testCity.Slug, dataset.SourceMinutes)
	minutesPath := filepath.Join(minutesDir, dataset.MinutesMatchesFile)
	require.NoError(t, dataset.WriteCSV(minutesPath, []models.MinutesMatchRow{
		{Filename: "council_01_02_2021.txt", Paragraph: "The shelter at 1234 Market Street is full.", MatchedWords: "shelter"},
	}))

	require.NoError(t, DeidentifyCity(root, testCity, scrubber))

	sheet, err := dataset.ReadSheet(dataset.DeidentifiedName(redditPath))
	require.NoError(t, err)
	got := sheet.Cell(0, "Deidentified_Comment")
	assert.Contains(t, got, "[PHONE]")
	assert.Contains(t, got, "[EMAIL]")

	sheet, err = dataset.ReadSheet(dataset.DeidentifiedName(xPath))
	require.NoError(t, err)
	assert.Contains(t, sheet.Cell(0, "Deidentified_text"), "[URL]")

	sheet, err = dataset.ReadSheet(dataset.DeidentifiedName(newsPath))
	require.NoError(t, err)
	assert.Contains(t, sheet.Cell(0, "Deidentified_paragraph_text"), "[ZIP]")

	sheet, err = dataset.ReadSheet(dataset.DeidentifiedName(minutesPath))
	require.NoError(t, err)
	assert.Contains(t, sheet.Cell(0, "Deidentified_paragraph"), "[STREET]")
}

func TestDeidentifyCityPrefersAnnotatedPosts(t *testing.T) {
	root := t.TempDir()
	scrubber := deidentify.NewScrubber(nil)
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceX)

	raw := filepath.Join(dir, "posts_english_2015-2025.csv")
	require.NoError(t, dataset.WriteCSV(raw, []models.TweetRow{
		{ID: "1", Text: "mail help@example.org"},
	}))
	require.NoError(t, AnnotateTweets(root, testCity))

	require.NoError(t, DeidentifyCity(root, testCity, scrubber))

	annotated := dataset.AnnotatedName(raw)
	assert.True(t, dataset.FileExists(dataset.DeidentifiedName(annotated)))
	assert.False(t, dataset.FileExists(dataset.DeidentifiedName(raw)))

	sheet, err := dataset.ReadSheet(dataset.DeidentifiedName(annotated))
	require.NoError(t, err)
	assert.Contains(t, sheet.Cell(0, "Deidentified_text"), "[EMAIL]")
	assert.Equal(t, "false", sheet.Cell(0, "is_retweet"))
}

func TestDeidentifyCitySkipsExistingTwin(t *testing.T) {
	root := t.TempDir()
	scrubber := deidentify.NewScrubber(nil)

	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceReddit)
	path := filepath.Join(dir, dataset.RedditFilteredComments)
	require.NoError(t, dataset.WriteCSV(path, []models.RedditCommentRow{
		{Comment: "mail help@example.org"},
	}))

	twin := dataset.DeidentifiedName(path)
	marker := &dataset.Sheet{Header: []string{"Comment"}, Rows: [][]string{{"untouched"}}}
	require.NoError(t, dataset.WriteSheet(twin, marker))

	require.NoError(t, DeidentifyCity(root, testCity, scrubber))

	sheet, err := dataset.ReadSheet(twin)
	require.NoError(t, err)
	assert.Equal(t, "untouched", sheet.Cell(0, "Comment"))
	assert.Equal(t, -1, sheet.Column("Deidentified_Comment"))
}
