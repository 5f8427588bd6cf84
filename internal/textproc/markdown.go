package textproc

import (
	"html"
	"regexp"
	"strings"

	"github.com/russross/blackfriday/v2"
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

// RemoveLinks unwraps markdown links to their text and drops bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	input = urlPattern.ReplaceAllString(input, "")
	return input
}

// StripTags removes markup tags and unescapes HTML entities.
func StripTags(input string) string {
	return html.UnescapeString(tagPattern.ReplaceAllString(input, " "))
}

// NormalizeWhitespace collapses all whitespace runs to single spaces.
func NormalizeWhitespace(input string) string {
	return strings.Join(strings.Fields(input), " ")
}

// MarkdownToText renders Reddit-style markdown and flattens the result
// to plain text on a single line.
func MarkdownToText(input string) string {
	output := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	plain := StripTags(string(output))
	return NormalizeWhitespace(RemoveLinks(plain))
}
