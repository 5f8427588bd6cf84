package lexicon

import (
	"regexp"
	"strings"
)

// Keywords is the homelessness lexicon applied across every source.
// Single words match on word boundaries; multi-word phrases match as
// case-insensitive substrings.
var Keywords = []string{
	"homeless",
	"homelessness",
	"housing crisis",
	"affordable housing",
	"unhoused",
	"houseless",
	"housing insecurity",
	"beggar",
	"squatter",
	"panhandler",
	"soup kitchen",
}

var wordPatterns = func() map[string]*regexp.Regexp {
	out := make(map[string]*regexp.Regexp)
	for _, kw := range Keywords {
		if !strings.Contains(kw, " ") {
			out[kw] = regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return out
}()

// Matches reports whether text contains any lexicon keyword.
func Matches(text string) bool {
	return len(MatchedKeywords(text)) > 0
}

// MatchedKeywords returns the lexicon keywords present in text, in
// lexicon order. Single words require word boundaries so "homeless"
// does not fire on "homelessness" alone; phrases match anywhere.
func MatchedKeywords(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	var hits []string
	for _, kw := range Keywords {
		if pat, ok := wordPatterns[kw]; ok {
			if pat.MatchString(text) {
				hits = append(hits, kw)
			}
			continue
		}
		if strings.Contains(lower, kw) {
			hits = append(hits, kw)
		}
	}
	return hits
}

// Annotate renders the matched keywords as the ", "-joined form used
// in keywords_matched columns. Empty when nothing matches.
func Annotate(text string) string {
	return strings.Join(MatchedKeywords(text), ", ")
}

// SearchQuery renders the lexicon as an OR-joined query fragment with
// phrases quoted, as the search APIs expect.
func SearchQuery() string {
	parts := make([]string, len(Keywords))
	for i, kw := range Keywords {
		if strings.Contains(kw, " ") {
			parts[i] = `"` + kw + `"`
		} else {
			parts[i] = kw
		}
	}
	return strings.Join(parts, " OR ")
}

// CountOccurrences tallies every occurrence of each keyword in text,
// keyed by keyword. Used by the per-folder statistics sheets.
func CountOccurrences(text string) map[string]int {
	counts := make(map[string]int, len(Keywords))
	if text == "" {
		return counts
	}
	lower := strings.ToLower(text)
	for _, kw := range Keywords {
		if pat, ok := wordPatterns[kw]; ok {
			counts[kw] = len(pat.FindAllStringIndex(text, -1))
			continue
		}
		counts[kw] = strings.Count(lower, kw)
	}
	return counts
}
