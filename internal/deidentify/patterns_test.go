package deidentify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScrubPatterns(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "phone",
			in:   "call me at (415) 555-0134 tonight",
			want: "call me at [PHONE] tonight",
		},
		{
			name: "phone with country code",
			in:   "+1 415-555-0134",
			want: "[PHONE]",
		},
		{
			name: "url",
			in:   "report at https://example.com/a/b and www.example.org",
			want: "report at [URL] and [URL]",
		},
		{
			name: "email",
			in:   "mail jane.doe@example.org please",
			want: "mail [EMAIL] please",
		},
		{
			name: "ip",
			in:   "logged from 192.168.10.4 twice",
			want: "logged from [IP] twice",
		},
		{
			name: "zip",
			in:   "moved to 94110 last fall",
			want: "moved to [ZIP] last fall",
		},
		{
			name: "zip plus four",
			in:   "94110-1234 is the mailing code",
			want: "[ZIP] is the mailing code",
		},
		{
			name: "slash date",
			in:   "seen on 12/25/2023 downtown",
			want: "seen on [DATE] downtown",
		},
		{
			name: "month name date",
			in:   "evicted on March 3rd, 2021 reportedly",
			want: "evicted on [DATE] reportedly",
		},
		{
			name: "clock time",
			in:   "lines form at 6:30 am daily",
			want: "lines form at [TIME] daily",
		},
		{
			name: "street address",
			in:   "sleeping near 1234 Market Street most nights",
			want: "sleeping near [STREET] most nights",
		},
		{
			name: "institution",
			in:   "volunteers from Saint Margaret Hospital arrived",
			want: "volunteers from [INSTITUTION] arrived",
		},
		{
			name: "four digit year untouched",
			in:   "the 2023 count rose",
			want: "the 2023 count rose",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ScrubPatterns(tt.in))
		})
	}
}

func TestScrubPatternsLeavesNoMatches(t *testing.T) {
	in := "Jane (jane@x.org, 415-555-0134) posted https://a.io/b from 10.0.0.1 at 94110 on 1/2/23 at 4:15 pm"
	out := ScrubPatterns(in)
	for _, r := range patternRules {
		assert.False(t, r.pattern.MatchString(out), "pattern %s still matches %q", r.pattern.String(), out)
	}
}

func TestCleanupPlaceholders(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "url tail",
			in:   "see [URL]/deep/path for more",
			want: "see [URL] for more",
		},
		{
			name: "doubled url",
			in:   "links [URL] [URL], [URL] here",
			want: "links [URL] here",
		},
		{
			name: "doubled location",
			in:   "near [LOCATION], [LOCATION] tonight",
			want: "near [LOCATION] tonight",
		},
		{
			name: "markdown link with scrubbed target",
			in:   "read [the story]([URL]) today",
			want: "read the story today",
		},
		{
			name: "markdown link with eaten paren",
			in:   "read [the story]([URL] today",
			want: "read the story today",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanupPlaceholders(tt.in))
		})
	}
}
