package commands

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/dataset"
)

// Dry run never touches DynamoDB, so the walk itself is exercisable.
func TestArchiveDryRun(t *testing.T) {
	root := t.TempDir()
	dir := dataset.CityDir(root, "kzoo", dataset.SourceReddit)
	twin := dataset.DeidentifiedName(filepath.Join(dir, dataset.RedditFilteredComments))
	require.NoError(t, dataset.WriteSheet(twin, &dataset.Sheet{
		Header: []string{"Deidentified_Comment", "keywords_matched"},
		Rows: [][]string{
			{"[PERSON] sleeps outside the shelter", "homeless"},
		},
	}))

	require.NoError(t, runCLI(t, "archive", "--dry-run", "--cities", "kalamazoo", "--data-dir", root))
}
