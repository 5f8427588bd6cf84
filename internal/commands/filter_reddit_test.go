package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/models"
	"github.com/peh-research/civicsift/internal/stats"
)

func TestFilterRedditRebuildsFilteredComments(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, "kzoo", dataset.SourceReddit)
	require.NoError(t, dataset.WriteCSV(filepath.Join(dir, dataset.RedditAllComments), []models.RedditCommentRow{
		{SubmissionTitle: "City council", Comment: "The homeless shelter is at capacity"},
		{SubmissionTitle: "Weather", Comment: "Snow again this weekend"},
	}))

	require.NoError(t, runCLI(t, "filter", "reddit", "--cities", "kalamazoo", "--data-dir", root))

	filtered, err := dataset.ReadCSV[models.RedditCommentRow](filepath.Join(dir, dataset.RedditFilteredComments))
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Contains(t, filtered[0].Comment, "homeless")

	values, _, err := stats.ReadStatistics(filepath.Join(dir, dataset.StatisticsFile))
	require.NoError(t, err)
	assert.Equal(t, "2", values["Total Comments"])
	assert.Equal(t, "1", values["Total Filtered Comments"])
}
