package lexicon

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchedKeywords(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "single word on boundary",
			text: "The homeless shelter on 5th is full.",
			want: []string{"homeless"},
		},
		{
			name: "homelessness matches itself not homeless",
			text: "Homelessness rose sharply last year.",
			want: []string{"homelessness"},
		},
		{
			name: "phrase matches substring",
			text: "the affordablehousing crisis",
			want: []string{"housing crisis"},
		},
		{
			name: "multiple hits in lexicon order",
			text: "A panhandler near the soup kitchen said the housing crisis is worse.",
			want: []string{"housing crisis", "panhandler", "soup kitchen"},
		},
		{
			name: "case insensitive",
			text: "UNHOUSED residents organized downtown",
			want: []string{"unhoused"},
		},
		{
			name: "no match",
			text: "City council approved the new bike lane.",
			want: nil,
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchedKeywords(tt.text))
		})
	}
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("a squatter occupied the lot"))
	assert.False(t, Matches("nothing relevant here"))
}

func TestAnnotate(t *testing.T) {
	assert.Equal(t, "housing crisis, panhandler",
		Annotate("A panhandler spoke about the housing crisis."))
	assert.Equal(t, "", Annotate("nothing relevant here"))
}

func TestCountOccurrences(t *testing.T) {
	counts := CountOccurrences("Homeless veterans and homeless youth; homelessness overall.")
	assert.Equal(t, 2, counts["homeless"])
	assert.Equal(t, 1, counts["homelessness"])
	assert.Equal(t, 0, counts["beggar"])
}

func TestCountOccurrencesWordBoundary(t *testing.T) {
	// "squatters" contains "squatter" on a word boundary at the prefix.
	counts := CountOccurrences("squatters")
	assert.Equal(t, 0, counts["squatter"])

	counts = CountOccurrences("a squatter, two squatter camps")
	assert.Equal(t, 2, counts["squatter"])
}
