package deidentify

import "regexp"

// Placeholder tokens written in place of scrubbed spans.
const (
	PlaceholderPerson       = "[PERSON]"
	PlaceholderLocation     = "[LOCATION]"
	PlaceholderOrganization = "[ORGANIZATION]"
	PlaceholderInstitution  = "[INSTITUTION]"
	PlaceholderStreet       = "[STREET]"
	PlaceholderPhone        = "[PHONE]"
	PlaceholderURL          = "[URL]"
	PlaceholderEmail        = "[EMAIL]"
	PlaceholderIP           = "[IP]"
	PlaceholderZip          = "[ZIP]"
	PlaceholderDate         = "[DATE]"
	PlaceholderTime         = "[TIME]"
)

type patternRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// patternRules run in order; institutions and streets go first so their
// inner words are still intact when the generic passes run.
var patternRules = []patternRule{
	{
		// "Saint Margaret Hospital", "Union Gospel Mission Shelter"
		pattern: regexp.MustCompile(`\b(?:[A-Z][A-Za-z'&.-]*\s+)+` +
			`(?:Hospital|Clinic|Shelter|Center|Centre|Mission|Church|School|University|College|Library|Pantry)\b`),
		replacement: PlaceholderInstitution,
	},
	{
		// "1234 Market Street", "55 N 5th Ave."
		pattern: regexp.MustCompile(`\b\d{1,5}\s+(?:[NSEW]\.?\s+)?(?:[A-Z0-9][A-Za-z0-9'.-]*\s+)+` +
			`(?:Street|St|Avenue|Ave|Boulevard|Blvd|Road|Rd|Drive|Dr|Lane|Ln|Court|Ct|Place|Pl|Way)\.?\b`),
		replacement: PlaceholderStreet,
	},
	{
		pattern:     regexp.MustCompile(`(?:\+?1[\s.-]?)?\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}\b`),
		replacement: PlaceholderPhone,
	},
	{
		pattern:     regexp.MustCompile(`https?://\S+|www\.\S+`),
		replacement: PlaceholderURL,
	},
	{
		pattern:     regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`),
		replacement: PlaceholderEmail,
	},
	{
		pattern:     regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`),
		replacement: PlaceholderIP,
	},
	{
		pattern:     regexp.MustCompile(`\b\d{5}(?:-\d{4})?\b`),
		replacement: PlaceholderZip,
	},
	{
		pattern:     regexp.MustCompile(`\b\d{1,2}[/-]\d{1,2}[/-]\d{2,4}\b`),
		replacement: PlaceholderDate,
	},
	{
		pattern: regexp.MustCompile(`(?i)\b(?:January|February|March|April|May|June|July|August|` +
			`September|October|November|December|Jan|Feb|Mar|Apr|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+` +
			`\d{1,2}(?:st|nd|rd|th)?(?:,?\s+\d{4})?\b`),
		replacement: PlaceholderDate,
	},
	{
		pattern:     regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?::\d{2})?\s*(?:a\.?m\.?|p\.?m\.?)?|\b\d{1,2}\s*(?:a\.?m\.?|p\.?m\.?)\b`),
		replacement: PlaceholderTime,
	},
}

var (
	// The URL pass is greedy, so a markdown close paren may already be
	// part of the [URL] token by the time cleanup runs.
	mdScrubbedLink = regexp.MustCompile(`\[([^\[\]]*)\]\(\s*\[URL\][^\s)]*\)?`)
	urlTailPattern = regexp.MustCompile(`\[URL\][^\s\])]*`)
	emptyMdLink    = regexp.MustCompile(`\[([^\[\]]*)\]\(\s*\)`)

	dupePatterns = func() []patternRule {
		tokens := []string{PlaceholderURL, PlaceholderLocation, PlaceholderPerson, PlaceholderOrganization}
		out := make([]patternRule, 0, len(tokens))
		for _, tok := range tokens {
			q := regexp.QuoteMeta(tok)
			out = append(out, patternRule{regexp.MustCompile(q + `(?:[,\s]*` + q + `)+`), tok})
		}
		return out
	}()
)

// ScrubPatterns applies every pattern rule in order.
func ScrubPatterns(text string) string {
	for _, r := range patternRules {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	return text
}

// CleanupPlaceholders collapses placeholder runs the passes leave
// behind: markdown links whose target was scrubbed, path fragments
// glued to [URL] and repeated adjacent tokens.
func CleanupPlaceholders(text string) string {
	text = mdScrubbedLink.ReplaceAllString(text, "$1")
	text = urlTailPattern.ReplaceAllString(text, PlaceholderURL)
	for _, r := range dupePatterns {
		text = r.pattern.ReplaceAllString(text, r.replacement)
	}
	text = emptyMdLink.ReplaceAllString(text, "$1")
	return text
}
