package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/peh-research/civicsift/internal/textproc"
)

const (
	LabelPositive = "positive"
	LabelNegative = "negative"
	LabelNeutral  = "neutral"
)

var analyzer = govader.NewSentimentIntensityAnalyzer()

// AnalyzeWithVADER scores text after markdown cleanup and maps the
// compound score to a positive/negative/neutral label at +-0.20.
func AnalyzeWithVADER(text string) (float64, string) {
	plainText := textproc.MarkdownToText(text)

	sentiment := analyzer.PolarityScores(plainText)
	score := sentiment.Compound

	var label string
	if score >= 0.20 {
		label = LabelPositive
	} else if score <= -0.20 {
		label = LabelNegative
	} else {
		label = LabelNeutral
	}

	return score, label
}
