package processing

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/models"
)

func TestBuildGoldStandardCombines(t *testing.T) {
	root := t.TempDir()

	redditDir := dataset.CityDir(root, testCity.Slug, dataset.SourceReddit)
	require.NoError(t, dataset.WriteCSV(filepath.Join(redditDir, dataset.RedditFilteredComments),
		[]models.RedditCommentRow{{SubmissionTitle: "a", Comment: "The unhoused need support"}}))

	minutesDir := dataset.CityDir(root, testCity.Slug, dataset.SourceMinutes)
	require.NoError(t, dataset.WriteCSV(filepath.Join(minutesDir, dataset.MinutesMatchesFile),
		[]models.MinutesMatchRow{{Filename: "c_01_02_2021.txt", Paragraph: "Shelter beds ran out.", MatchedWords: "shelter"}}))

	opts := SampleOptions{DataRoot: root, Size: 10, Seed: DEFAULT_SAMPLE_SEED}
	require.NoError(t, BuildGoldStandard(testCities(), opts))

	outDir := filepath.Join(root, dataset.GoldStandardDir)
	combined, err := dataset.ReadSheet(filepath.Join(outDir, dataset.CombinedSampleFile))
	require.NoError(t, err)
	require.Len(t, combined.Rows, 2)
	assert.Equal(t, "city", combined.Header[0])
	assert.Equal(t, "data_type", combined.Header[1])

	// Minutes rows come before Reddit rows in the walk order.
	assert.Equal(t, dataset.SourceMinutes, combined.Cell(0, "data_type"))
	assert.Equal(t, "Shelter beds ran out.", combined.Cell(0, "paragraph"))
	assert.Empty(t, combined.Cell(0, "Comment"))
	assert.Equal(t, dataset.SourceReddit, combined.Cell(1, "data_type"))
	assert.Equal(t, "The unhoused need support", combined.Cell(1, "Comment"))
	assert.Equal(t, "testville", combined.Cell(1, "city"))

	assert.True(t, dataset.FileExists(filepath.Join(outDir, sampleFileName(dataset.SourceReddit))))
	assert.True(t, dataset.FileExists(filepath.Join(outDir, sampleFileName(dataset.SourceMinutes))))
	assert.False(t, dataset.FileExists(filepath.Join(outDir, sampleFileName(dataset.SourceX))))
}

func TestBuildGoldStandardSampleSize(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceReddit)

	rows := make([]models.RedditCommentRow, 5)
	for i := range rows {
		rows[i] = models.RedditCommentRow{Comment: "homeless services row", CommentScore: i}
	}
	require.NoError(t, dataset.WriteCSV(filepath.Join(dir, dataset.RedditFilteredComments), rows))

	opts := SampleOptions{DataRoot: root, Size: 2, Seed: DEFAULT_SAMPLE_SEED}
	require.NoError(t, BuildGoldStandard(testCities(), opts))

	outDir := filepath.Join(root, dataset.GoldStandardDir)
	path := filepath.Join(outDir, sampleFileName(dataset.SourceReddit))
	first, err := dataset.ReadSheet(path)
	require.NoError(t, err)
	assert.Len(t, first.Rows, 2)

	// Size/4 rounds to zero, so no combined file this small.
	assert.False(t, dataset.FileExists(filepath.Join(outDir, dataset.CombinedSampleFile)))

	// Same seed, same draw.
	require.NoError(t, BuildGoldStandard(testCities(), opts))
	second, err := dataset.ReadSheet(path)
	require.NoError(t, err)
	assert.Equal(t, first.Rows, second.Rows)
}

func TestBuildGoldStandardSkipsRetweets(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceX)

	path := filepath.Join(dir, "posts_english_2015-2025.csv")
	require.NoError(t, dataset.WriteCSV(path, []models.TweetRow{{ID: "raw", Text: "placeholder"}}))

	twin := &dataset.Sheet{
		Header: []string{"id", "text", "Deidentified_text"},
		Rows: [][]string{
			{"1", "RT @org: shelter news", "RT @org: shelter news"},
			{"2", "Soup kitchen opens early", "Soup kitchen opens early"},
		},
	}
	require.NoError(t, dataset.WriteSheet(dataset.DeidentifiedName(path), twin))

	opts := SampleOptions{DataRoot: root, Size: 10, Seed: DEFAULT_SAMPLE_SEED}
	require.NoError(t, BuildGoldStandard(testCities(), opts))

	outDir := filepath.Join(root, dataset.GoldStandardDir)
	sheet, err := dataset.ReadSheet(filepath.Join(outDir, sampleFileName(dataset.SourceX)))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "Soup kitchen opens early", sheet.Cell(0, "text"))
}

func TestBuildGoldStandardPrefersDeidentified(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceReddit)

	path := filepath.Join(dir, dataset.RedditFilteredComments)
	require.NoError(t, dataset.WriteCSV(path, []models.RedditCommentRow{
		{Comment: "plain one"}, {Comment: "plain two"},
	}))
	twin := &dataset.Sheet{
		Header: []string{"Comment", "Deidentified_Comment"},
		Rows:   [][]string{{"from twin", "from twin"}},
	}
	require.NoError(t, dataset.WriteSheet(dataset.DeidentifiedName(path), twin))

	opts := SampleOptions{DataRoot: root, Size: 10, Seed: DEFAULT_SAMPLE_SEED}
	require.NoError(t, BuildGoldStandard(testCities(), opts))

	outDir := filepath.Join(root, dataset.GoldStandardDir)
	sheet, err := dataset.ReadSheet(filepath.Join(outDir, sampleFileName(dataset.SourceReddit)))
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "from twin", sheet.Cell(0, "Comment"))
}

func TestBuildGoldStandardAllMode(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, testCity.Slug, dataset.SourceReddit)

	rows := make([]models.RedditCommentRow, 3)
	for i := range rows {
		rows[i] = models.RedditCommentRow{Comment: "homeless services row", CommentScore: i}
	}
	require.NoError(t, dataset.WriteCSV(filepath.Join(dir, dataset.RedditFilteredComments), rows))

	opts := SampleOptions{DataRoot: root, Size: 1, Seed: DEFAULT_SAMPLE_SEED, All: true}
	require.NoError(t, BuildGoldStandard(testCities(), opts))

	outDir := filepath.Join(root, dataset.GoldStandardDir)
	sheet, err := dataset.ReadSheet(filepath.Join(outDir, dataset.CombinedSampleFile))
	require.NoError(t, err)
	assert.Len(t, sheet.Rows, 3)
}

func testCities() []cities.City {
	return []cities.City{testCity}
}
