package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdownToText(t *testing.T) {
	in := "Some **bold** take on [the shelter](https://example.com/a) downtown.\n\n> quoted reply"
	got := MarkdownToText(in)
	assert.Equal(t, "Some bold take on the shelter downtown. quoted reply", got)
}

func TestMarkdownToTextDropsBareURLs(t *testing.T) {
	got := MarkdownToText("see https://example.com/thread and www.example.org for context")
	assert.Equal(t, "see and for context", got)
}

func TestRemoveLinks(t *testing.T) {
	got := RemoveLinks("[story](https://news.example.com/x) plus https://t.co/abc tail")
	assert.Equal(t, "story plus  tail", got)
}

func TestStripTags(t *testing.T) {
	got := StripTags("<p>fifth &amp; main</p>")
	assert.Equal(t, " fifth & main ", got)
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", NormalizeWhitespace("  a\n\tb   c "))
}
