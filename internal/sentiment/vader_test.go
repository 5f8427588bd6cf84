package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeWithVADER(t *testing.T) {
	score, label := AnalyzeWithVADER("The new shelter program is wonderful, a great success for the city!")
	assert.Greater(t, score, 0.20)
	assert.Equal(t, "positive", label)

	score, label = AnalyzeWithVADER("This policy is a horrible, cruel failure.")
	assert.Less(t, score, -0.20)
	assert.Equal(t, "negative", label)

	_, label = AnalyzeWithVADER("The council meets on Tuesday.")
	assert.Equal(t, "neutral", label)
}

func TestAnalyzeWithVADERStripsMarkdown(t *testing.T) {
	// The link target must not leak into scoring input.
	score, _ := AnalyzeWithVADER("[terrible news](https://example.com/awful-horrible) about the shelter")
	neat, _ := AnalyzeWithVADER("terrible news about the shelter")
	assert.InDelta(t, neat, score, 0.001)
}
