package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/models"
)

func TestStatsSummaryWritesCityRows(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, runCLI(t, "stats", "summary", "--cities", "kalamazoo,buffalo", "--data-dir", root))

	rows, err := dataset.ReadCSV[models.CitySummaryRow](dataset.SummaryPath(root, dataset.CitySummaryFile))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "kalamazoo", rows[0].City)
	assert.Equal(t, "buffalo", rows[1].City)
	assert.Equal(t, "Grand Total", rows[2].City)
}
