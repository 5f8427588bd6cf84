package stats

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/dataset"
)

func TestAnalyzeLengths(t *testing.T) {
	texts := []string{
		strings.Repeat("a", 10),
		strings.Repeat("b", 20),
		strings.Repeat("c", 30),
		strings.Repeat("d", 40),
		strings.Repeat("e", 50),
		"   ", // blank, skipped
	}

	r := AnalyzeLengths(texts)
	require.NotNil(t, r)

	assert.Equal(t, 5, r.Count)
	assert.Equal(t, 1, r.Skipped)
	assert.InDelta(t, 30.0, r.CharMean, 1e-9)
	assert.InDelta(t, 30.0, r.CharMedian, 1e-9)
	assert.InDelta(t, 15.8114, r.CharStdDev, 1e-3)
	assert.Equal(t, 10, r.CharMin)
	assert.Equal(t, 50, r.CharMax)

	// Empirical quantiles over [10 20 30 40 50].
	require.Len(t, r.Percentiles, len(LengthPercentiles))
	assert.InDelta(t, 10.0, r.Percentiles[0], 1e-9) // p10
	assert.InDelta(t, 20.0, r.Percentiles[1], 1e-9) // p25
	assert.InDelta(t, 30.0, r.Percentiles[2], 1e-9) // p50
	assert.InDelta(t, 40.0, r.Percentiles[3], 1e-9) // p75
	assert.InDelta(t, 50.0, r.Percentiles[4], 1e-9) // p90
	assert.InDelta(t, 50.0, r.Percentiles[6], 1e-9) // p99

	assert.InDelta(t, 1.0, r.WordMean, 1e-9)
	assert.Equal(t, 1, r.WordMin)
	assert.Equal(t, 1, r.WordMax)

	require.Len(t, r.Shortest, 3)
	assert.Equal(t, 10, r.Shortest[0].Length)
	assert.Equal(t, 20, r.Shortest[1].Length)
	require.Len(t, r.Longest, 3)
	assert.Equal(t, 50, r.Longest[0].Length)
	assert.Equal(t, 40, r.Longest[1].Length)
}

func TestAnalyzeLengthsPreviewTruncation(t *testing.T) {
	r := AnalyzeLengths([]string{strings.Repeat("x", 150)})
	require.NotNil(t, r)
	assert.Equal(t, 150, r.Longest[0].Length)
	assert.Len(t, r.Longest[0].Preview, 100)
	assert.Zero(t, r.CharStdDev)
}

func TestAnalyzeLengthsAllBlank(t *testing.T) {
	assert.Nil(t, AnalyzeLengths([]string{"", "  "}))
	assert.Nil(t, AnalyzeLengths(nil))
}

func TestWriteLengthReport(t *testing.T) {
	r := AnalyzeLengths([]string{"one two three", "four five"})
	require.NotNil(t, r)

	path := filepath.Join(t.TempDir(), "paragraphs_length_report.csv")
	require.NoError(t, WriteLengthReport(path, r))

	sheet, err := dataset.ReadSheet(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"metric", "value"}, sheet.Header)
	assert.Greater(t, len(sheet.Rows), 10)
}

func TestLengthReportName(t *testing.T) {
	assert.Equal(t, "a/b_filtered_length_report.csv", LengthReportName("a/b_filtered.csv"))
}
