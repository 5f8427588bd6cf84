package stats

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/lexicon"
	"github.com/peh-research/civicsift/internal/sentiment"
)

// FolderStatsReddit is used in Reddit folders, where statistics.csv
// belongs to the collection run.
const FolderStatsReddit = "folder_statistics.csv"

const topMatchedWords = 10

// FolderStatsFileName returns the output name for a source folder.
func FolderStatsFileName(source string) string {
	if source == dataset.SourceReddit {
		return FolderStatsReddit
	}
	return dataset.StatisticsFile
}

type statPair struct {
	key   string
	value string
}

// FolderStatistics profiles every CSV in dir: size, row count, keyword
// occurrence counts over the source's text columns, match-sheet tallies
// and VADER aggregates for filtered files. Columns appear in the order
// they are first produced; files missing a column leave it blank.
func FolderStatistics(dir string, textColumns []string) (*dataset.Sheet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("[Stats] failed to read folder %s: %w", dir, err)
	}

	header := []string{"file", "size_mb", "rows"}
	known := map[string]bool{"file": true, "size_mb": true, "rows": true}
	var rows []map[string]string

	addPairs := func(row map[string]string, pairs []statPair) {
		for _, p := range pairs {
			if !known[p.key] {
				known[p.key] = true
				header = append(header, p.key)
			}
			row[p.key] = p.value
		}
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".csv") {
			continue
		}
		if name == dataset.StatisticsFile || name == FolderStatsReddit {
			continue
		}
		path := filepath.Join(dir, name)

		sheet, err := dataset.ReadSheet(path)
		if err != nil {
			slog.Warn("[Stats] Skipping unreadable CSV",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}
		sizeMB, err := dataset.FileSizeMB(path)
		if err != nil {
			sizeMB = 0
		}

		row := map[string]string{
			"file":    name,
			"size_mb": fmt.Sprintf("%.2f", sizeMB),
			"rows":    strconv.Itoa(len(sheet.Rows)),
		}

		for _, col := range textColumns {
			if sheet.Column(col) < 0 {
				continue
			}
			addPairs(row, keywordCountPairs(sheet, col))
		}

		if sheet.Column("matched_words") >= 0 {
			addPairs(row, matchSheetTallies(sheet))
		}

		if vaderEligible(name) {
			if col := primaryTextColumn(sheet, textColumns); col != "" {
				addPairs(row, vaderAggregates(sheet, col))
			}
		}

		rows = append(rows, row)
	}

	out := &dataset.Sheet{Header: header}
	for _, row := range rows {
		record := make([]string, len(header))
		for i, key := range header {
			record[i] = row[key]
		}
		out.Rows = append(out.Rows, record)
	}
	return out, nil
}

// WriteFolderStatistics writes the folder profile next to the data.
func WriteFolderStatistics(dir, source string, textColumns []string) (string, error) {
	sheet, err := FolderStatistics(dir, textColumns)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, FolderStatsFileName(source))
	if err := dataset.WriteSheet(path, sheet); err != nil {
		return "", err
	}
	slog.Info("[Stats] Wrote folder statistics",
		slog.String("path", path),
		slog.Int("files", len(sheet.Rows)))
	return path, nil
}

func countColumnKey(col, keyword string) string {
	key := col + " " + keyword + " count"
	return strings.ReplaceAll(strings.ToLower(key), " ", "_")
}

func keywordCountPairs(sheet *dataset.Sheet, col string) []statPair {
	totals := make(map[string]int, len(lexicon.Keywords))
	for i := range sheet.Rows {
		for kw, n := range lexicon.CountOccurrences(sheet.Cell(i, col)) {
			totals[kw] += n
		}
	}
	pairs := make([]statPair, 0, len(lexicon.Keywords))
	for _, kw := range lexicon.Keywords {
		pairs = append(pairs, statPair{countColumnKey(col, kw), strconv.Itoa(totals[kw])})
	}
	return pairs
}

func matchSheetTallies(sheet *dataset.Sheet) []statPair {
	files := make(map[string]bool)
	wordCounts := make(map[string]int)
	for i := range sheet.Rows {
		if f := sheet.Cell(i, "filename"); f != "" {
			files[f] = true
		}
		for _, w := range strings.Split(sheet.Cell(i, "matched_words"), ";") {
			w = strings.TrimSpace(w)
			if w != "" {
				wordCounts[w]++
			}
		}
	}

	type wc struct {
		word  string
		count int
	}
	ranked := make([]wc, 0, len(wordCounts))
	for w, n := range wordCounts {
		ranked = append(ranked, wc{w, n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].word < ranked[j].word
	})
	if len(ranked) > topMatchedWords {
		ranked = ranked[:topMatchedWords]
	}
	top := make([]string, len(ranked))
	for i, r := range ranked {
		top[i] = fmt.Sprintf("%s (%d)", r.word, r.count)
	}

	return []statPair{
		{"total_matches", strconv.Itoa(len(sheet.Rows))},
		{"unique_files", strconv.Itoa(len(files))},
		{"unique_matched_words", strconv.Itoa(len(wordCounts))},
		{"top_matched_words", strings.Join(top, "; ")},
	}
}

func vaderEligible(name string) bool {
	return strings.Contains(name, "filtered") ||
		strings.Contains(name, "processed_articles") ||
		strings.Contains(name, "lexicon_matches")
}

// primaryTextColumn picks the content column: the last configured
// column present, since title columns precede body columns.
func primaryTextColumn(sheet *dataset.Sheet, textColumns []string) string {
	for i := len(textColumns) - 1; i >= 0; i-- {
		if sheet.Column(textColumns[i]) >= 0 {
			return textColumns[i]
		}
	}
	return ""
}

func vaderAggregates(sheet *dataset.Sheet, col string) []statPair {
	var sum float64
	var scored, positive, negative, neutral int
	for i := range sheet.Rows {
		text := sheet.Cell(i, col)
		if strings.TrimSpace(text) == "" {
			continue
		}
		score, label := sentiment.AnalyzeWithVADER(text)
		sum += score
		scored++
		switch label {
		case sentiment.LabelPositive:
			positive++
		case sentiment.LabelNegative:
			negative++
		default:
			neutral++
		}
	}

	mean := 0.0
	if scored > 0 {
		mean = sum / float64(scored)
	}
	return []statPair{
		{"vader_mean_compound", fmt.Sprintf("%.4f", mean)},
		{"vader_positive_count", strconv.Itoa(positive)},
		{"vader_negative_count", strconv.Itoa(negative)},
		{"vader_neutral_count", strconv.Itoa(neutral)},
	}
}
