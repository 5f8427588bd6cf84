package deidentify

import (
	"path/filepath"
	"testing"

	"github.com/knights-analytics/hugot/pipelines"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peh-research/civicsift/internal/dataset"
)

type testEntity struct {
	label string
	start uint
	end   uint
	score float32
}

func toPipelineEntities(in []testEntity) []pipelines.Entity {
	out := make([]pipelines.Entity, len(in))
	for i, e := range in {
		out[i] = pipelines.Entity{Entity: e.label, Score: e.score, Start: e.start, End: e.end}
	}
	return out
}

func TestScrubTextsRegexOnly(t *testing.T) {
	s := NewScrubber(nil)
	assert.False(t, s.HasNER())

	got := s.ScrubTexts([]string{
		"email me at who@example.com",
		"nothing sensitive here",
	})
	assert.Equal(t, []string{
		"email me at [EMAIL]",
		"nothing sensitive here",
	}, got)
}

func TestScrubTextCombinesCleanup(t *testing.T) {
	s := NewScrubber(nil)
	got := s.ScrubText("thread [here](https://example.com/post/1) has photos")
	assert.Equal(t, "thread here has photos", got)
}

func TestScrubSheet(t *testing.T) {
	sheet := &dataset.Sheet{
		Header: []string{"text", "score"},
		Rows: [][]string{
			{"call 415-555-0134 now", "3"},
			{"clean row", "1"},
		},
	}
	s := NewScrubber(nil)
	s.ScrubSheet(sheet, []string{"text", "absent_column"})

	assert.Equal(t, []string{"text", "score", "Deidentified_text"}, sheet.Header)
	assert.Equal(t, "call [PHONE] now", sheet.Cell(0, "Deidentified_text"))
	assert.Equal(t, "clean row", sheet.Cell(1, "Deidentified_text"))
}

func TestScrubFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "filtered_comments.csv")
	require.NoError(t, dataset.WriteSheet(path, &dataset.Sheet{
		Header: []string{"Comment"},
		Rows:   [][]string{{"I live at 1234 Market Street"}},
	}))

	s := NewScrubber(nil)
	twin, err := s.ScrubFile(path, []string{"Comment"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "filtered_comments_deidentified.csv"), twin)

	sheet, err := dataset.ReadSheet(twin)
	require.NoError(t, err)
	assert.Equal(t, "I live at [STREET]", sheet.Cell(0, "Deidentified_Comment"))

	// Second run leaves the twin untouched.
	_, err = s.ScrubFile(path, []string{"Comment"})
	require.NoError(t, err)
}

func TestRedactEntities(t *testing.T) {
	text := "Alice Johnson slept outside City Hall in Portland"
	entities := []testEntity{
		{label: "B-PER", start: 0, end: 13, score: 0.99},
		{label: "B-ORG", start: 28, end: 37, score: 0.95},
		{label: "B-LOC", start: 41, end: 49, score: 0.97},
	}
	got := redactEntities(text, toPipelineEntities(entities))
	assert.Equal(t, "[PERSON] slept outside [ORGANIZATION] in [LOCATION]", got)
}

func TestRedactEntitiesSkipsLowScoreAndMisc(t *testing.T) {
	text := "Alice went to Mardi Gras"
	entities := []testEntity{
		{label: "B-PER", start: 0, end: 5, score: 0.30},
		{label: "B-MISC", start: 14, end: 24, score: 0.99},
	}
	got := redactEntities(text, toPipelineEntities(entities))
	assert.Equal(t, text, got)
}
