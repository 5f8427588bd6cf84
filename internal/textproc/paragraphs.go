package textproc

import (
	"regexp"
	"strings"
)

// MIN_PARAGRAPH_CHARS drops tag-stripping residue; fragments at or
// below this length are discarded.
const MIN_PARAGRAPH_CHARS = 10

var (
	bodyTextPattern  = regexp.MustCompile(`(?is)<bodyText>(.*?)</bodyText>`)
	pBlockPattern    = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
	blankLinePattern = regexp.MustCompile(`\n\s*\n`)
)

// ExtractBodyParagraphs pulls cleaned paragraphs out of a LexisNexis
// Document content XML blob. It scopes to the <bodyText> element when
// present, takes each <p> block (the whole body when there are none),
// strips tags and URLs, normalizes whitespace and drops short fragments.
func ExtractBodyParagraphs(content string) []string {
	body := content
	if m := bodyTextPattern.FindStringSubmatch(content); m != nil {
		body = m[1]
	}

	var raw []string
	blocks := pBlockPattern.FindAllStringSubmatch(body, -1)
	if len(blocks) > 0 {
		for _, b := range blocks {
			raw = append(raw, b[1])
		}
	} else {
		raw = []string{body}
	}

	var out []string
	for _, r := range raw {
		p := NormalizeWhitespace(urlPattern.ReplaceAllString(StripTags(r), ""))
		if len(p) > MIN_PARAGRAPH_CHARS {
			out = append(out, p)
		}
	}
	return out
}

// SplitParagraphBreaks splits on blank lines, falling back to single
// newlines when the text has no blank-line structure.
func SplitParagraphBreaks(text string) []string {
	parts := blankLinePattern.Split(text, -1)
	if len(parts) <= 1 {
		parts = strings.Split(text, "\n")
	}
	var out []string
	for _, p := range parts {
		if t := NormalizeWhitespace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// FocusWindows emits one chunk per run of interesting sentences: each
// index where match fires expands to [i-window, i+window], overlapping
// ranges merge, and each merged range joins back into a single chunk.
func FocusWindows(sentences []string, match func(string) bool, window int) []string {
	if window < 0 {
		window = 0
	}
	type span struct{ lo, hi int }
	var spans []span
	for i, s := range sentences {
		if !match(s) {
			continue
		}
		lo, hi := i-window, i+window
		if lo < 0 {
			lo = 0
		}
		if hi > len(sentences)-1 {
			hi = len(sentences) - 1
		}
		if n := len(spans); n > 0 && lo <= spans[n-1].hi+1 {
			if hi > spans[n-1].hi {
				spans[n-1].hi = hi
			}
			continue
		}
		spans = append(spans, span{lo, hi})
	}

	out := make([]string, 0, len(spans))
	for _, sp := range spans {
		out = append(out, strings.Join(sentences[sp.lo:sp.hi+1], " "))
	}
	return out
}
