package textproc

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// Sentences segments text into sentences. Tokenization, tagging and
// entity extraction are disabled; only the segmenter runs.
func Sentences(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTokenization(false),
		prose.WithTagging(false),
		prose.WithExtraction(false))
	if err != nil {
		return nil, err
	}
	sents := doc.Sentences()
	out := make([]string, 0, len(sents))
	for _, s := range sents {
		if t := strings.TrimSpace(s.Text); t != "" {
			out = append(out, t)
		}
	}
	return out, nil
}

// GroupSentences joins consecutive sentences into paragraphs of size n.
// The trailing group keeps whatever remains.
func GroupSentences(sentences []string, n int) []string {
	if n <= 0 {
		n = 1
	}
	var out []string
	for i := 0; i < len(sentences); i += n {
		end := i + n
		if end > len(sentences) {
			end = len(sentences)
		}
		out = append(out, strings.Join(sentences[i:end], " "))
	}
	return out
}
