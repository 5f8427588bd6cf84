package stats

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/dataset"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func sheetLookup(t *testing.T, sheet *dataset.Sheet, file string) map[string]string {
	t.Helper()
	for i := range sheet.Rows {
		if sheet.Cell(i, "file") == file {
			row := make(map[string]string)
			for _, h := range sheet.Header {
				row[h] = sheet.Cell(i, h)
			}
			return row
		}
	}
	t.Fatalf("no statistics row for %s", file)
	return nil
}

func TestFolderStatisticsKeywordCounts(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "filtered_comments.csv",
		"Submission Title,Comment\n"+
			"Homeless camp cleared,The homeless shelter is full again\n"+
			"Budget vote,Nothing relevant here\n")

	sheet, err := FolderStatistics(dir, []string{"Submission Title", "Comment"})
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)

	row := sheetLookup(t, sheet, "filtered_comments.csv")
	assert.Equal(t, "2", row["rows"])
	assert.Equal(t, "1", row["submission_title_homeless_count"])
	assert.Equal(t, "1", row["comment_homeless_count"])
	assert.Equal(t, "0", row["comment_beggar_count"])

	// Filtered files carry sentiment aggregates over the content column.
	assert.Contains(t, sheet.Header, "vader_mean_compound")
	assert.Contains(t, sheet.Header, "vader_neutral_count")
}

func TestFolderStatisticsMatchTallies(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "meeting_minutes_lexicon_matches.csv",
		"filename,date,paragraph,matched_words\n"+
			"a.txt,2021-01-01,p1,homeless; shelter\n"+
			"a.txt,2021-01-01,p2,homeless\n"+
			"b.txt,2021-02-01,p3,soup kitchen\n")

	sheet, err := FolderStatistics(dir, nil)
	require.NoError(t, err)

	row := sheetLookup(t, sheet, "meeting_minutes_lexicon_matches.csv")
	assert.Equal(t, "3", row["total_matches"])
	assert.Equal(t, "2", row["unique_files"])
	assert.Equal(t, "3", row["unique_matched_words"])
	assert.Equal(t, "homeless (2); shelter (1); soup kitchen (1)", row["top_matched_words"])
}

func TestFolderStatisticsSkipsOwnOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "statistics.csv", "Statistic,Value\nTotal Posts,5\n")
	writeFile(t, dir, "notes.txt", "not a csv")
	writeFile(t, dir, "all_comments.csv", "Submission Title,Comment\na,b\n")

	sheet, err := FolderStatistics(dir, nil)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "all_comments.csv", sheet.Cell(0, "file"))
}

func TestWriteFolderStatisticsRedditName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "all_comments.csv", "Submission Title,Comment\na,b\n")

	path, err := WriteFolderStatistics(dir, dataset.SourceReddit, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FolderStatsReddit), path)
	assert.True(t, dataset.FileExists(path))

	path, err = WriteFolderStatistics(dir, dataset.SourceMinutes, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, dataset.StatisticsFile), path)
}
