package stats

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"gonum.org/v1/gonum/stat"

	"github.com/peh-research/civicsift/internal/dataset"
)

// LengthPercentiles are the percentile points of the length report.
var LengthPercentiles = []float64{10, 25, 50, 75, 90, 95, 99}

const previewChars = 100
const previewCount = 3

// SamplePreview is a truncated extreme sample from the length report.
type SamplePreview struct {
	Length  int
	Preview string
}

// LengthReport describes the character and word length distribution of
// a text column.
type LengthReport struct {
	Count       int
	Skipped     int
	CharMean    float64
	CharMedian  float64
	CharStdDev  float64
	CharMin     int
	CharMax     int
	Percentiles []float64
	WordMean    float64
	WordMedian  float64
	WordMin     int
	WordMax     int
	Shortest    []SamplePreview
	Longest     []SamplePreview
}

// AnalyzeLengths profiles the nonblank texts. Lengths count runes, and
// the percentiles are gonum empirical quantiles. Nil when no text
// survives the blank filter.
func AnalyzeLengths(texts []string) *LengthReport {
	kept := make([]string, 0, len(texts))
	skipped := 0
	for _, t := range texts {
		if strings.TrimSpace(t) == "" {
			skipped++
			continue
		}
		kept = append(kept, t)
	}
	if len(kept) == 0 {
		return nil
	}

	chars := make([]float64, len(kept))
	words := make([]float64, len(kept))
	for i, t := range kept {
		chars[i] = float64(utf8.RuneCountInString(t))
		words[i] = float64(len(strings.Fields(t)))
	}

	sortedChars := append([]float64(nil), chars...)
	sort.Float64s(sortedChars)
	sortedWords := append([]float64(nil), words...)
	sort.Float64s(sortedWords)

	report := &LengthReport{
		Count:      len(kept),
		Skipped:    skipped,
		CharMean:   stat.Mean(chars, nil),
		CharMedian: stat.Quantile(0.5, stat.Empirical, sortedChars, nil),
		CharMin:    int(sortedChars[0]),
		CharMax:    int(sortedChars[len(sortedChars)-1]),
		WordMean:   stat.Mean(words, nil),
		WordMedian: stat.Quantile(0.5, stat.Empirical, sortedWords, nil),
		WordMin:    int(sortedWords[0]),
		WordMax:    int(sortedWords[len(sortedWords)-1]),
	}
	if len(kept) > 1 {
		report.CharStdDev = stat.StdDev(chars, nil)
	}
	for _, p := range LengthPercentiles {
		report.Percentiles = append(report.Percentiles,
			stat.Quantile(p/100, stat.Empirical, sortedChars, nil))
	}

	order := make([]int, len(kept))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return chars[order[a]] < chars[order[b]]
	})
	for i := 0; i < previewCount && i < len(order); i++ {
		report.Shortest = append(report.Shortest, preview(kept[order[i]]))
	}
	for i := 0; i < previewCount && i < len(order); i++ {
		report.Longest = append(report.Longest, preview(kept[order[len(order)-1-i]]))
	}

	return report
}

func preview(text string) SamplePreview {
	p := SamplePreview{Length: utf8.RuneCountInString(text)}
	runes := []rune(text)
	if len(runes) > previewChars {
		runes = runes[:previewChars]
	}
	p.Preview = string(runes)
	return p
}

// Rows renders the report as metric/value pairs for table display and
// the CSV twin.
func (r *LengthReport) Rows() [][]string {
	rows := [][]string{
		{"texts", strconv.Itoa(r.Count)},
		{"blank_skipped", strconv.Itoa(r.Skipped)},
		{"char_mean", fmt.Sprintf("%.2f", r.CharMean)},
		{"char_median", fmt.Sprintf("%.1f", r.CharMedian)},
		{"char_std_dev", fmt.Sprintf("%.2f", r.CharStdDev)},
		{"char_min", strconv.Itoa(r.CharMin)},
		{"char_max", strconv.Itoa(r.CharMax)},
	}
	for i, p := range LengthPercentiles {
		rows = append(rows, []string{
			fmt.Sprintf("char_p%g", p),
			fmt.Sprintf("%.1f", r.Percentiles[i]),
		})
	}
	rows = append(rows,
		[]string{"word_mean", fmt.Sprintf("%.2f", r.WordMean)},
		[]string{"word_median", fmt.Sprintf("%.1f", r.WordMedian)},
		[]string{"word_min", strconv.Itoa(r.WordMin)},
		[]string{"word_max", strconv.Itoa(r.WordMax)},
	)
	for i, s := range r.Shortest {
		rows = append(rows, []string{
			fmt.Sprintf("shortest_%d (%d chars)", i+1, s.Length), s.Preview,
		})
	}
	for i, s := range r.Longest {
		rows = append(rows, []string{
			fmt.Sprintf("longest_%d (%d chars)", i+1, s.Length), s.Preview,
		})
	}
	return rows
}

// LengthReportName maps an input CSV to its report twin.
func LengthReportName(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "_length_report" + ext
}

// WriteLengthReport writes the metric/value sheet next to the input.
func WriteLengthReport(path string, r *LengthReport) error {
	sheet := &dataset.Sheet{Header: []string{"metric", "value"}, Rows: r.Rows()}
	return dataset.WriteSheet(path, sheet)
}
