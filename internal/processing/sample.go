package processing

import (
	"log/slog"
	"math/rand"
	"path/filepath"
	"sort"
	"strings"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/dataset"
)

// DEFAULT_SAMPLE_SIZE is the per-city, per-type gold standard draw.
const DEFAULT_SAMPLE_SIZE = 50

// DEFAULT_SAMPLE_SEED keeps the draw reproducible across runs.
const DEFAULT_SAMPLE_SEED = 42

type SampleOptions struct {
	DataRoot string
	Size     int
	Seed     int64
	All      bool
}

// sampleRows accumulates rows whose schemas may drift between cities.
// Unseen columns extend the header and earlier rows pad with blanks.
type sampleRows struct {
	header []string
	rows   [][]string
}

func (s *sampleRows) add(header, row []string) {
	idx := make(map[string]int, len(s.header))
	for i, h := range s.header {
		idx[h] = i
	}
	for _, h := range header {
		if _, ok := idx[h]; ok {
			continue
		}
		idx[h] = len(s.header)
		s.header = append(s.header, h)
		for i := range s.rows {
			s.rows[i] = append(s.rows[i], "")
		}
	}

	out := make([]string, len(s.header))
	for i, h := range header {
		if i < len(row) {
			out[idx[h]] = row[i]
		}
	}
	s.rows = append(s.rows, out)
}

func (s *sampleRows) sheet() *dataset.Sheet {
	return &dataset.Sheet{Header: s.header, Rows: s.rows}
}

// BuildGoldStandard draws a seeded per-city sample from each annotation
// source and writes per-type CSVs plus combined_sample.csv under
// gold_standard/. The combined file takes its own Size/4 draw per type
// so every type is equally represented. With All set every candidate
// row is copied instead.
func BuildGoldStandard(cityList []cities.City, opts SampleOptions) error {
	typeOrder := []string{
		dataset.SourceX,
		dataset.SourceMinutes,
		dataset.SourceReddit,
		dataset.SourceNews,
	}
	combinedSize := opts.Size / 4

	perType := make(map[string]*sampleRows)
	combined := &sampleRows{header: []string{"city", "data_type"}}
	total := 0

	for _, dt := range typeOrder {
		acc := &sampleRows{}
		perType[dt] = acc
		for _, city := range cityList {
			header, rows := sampleCandidates(opts.DataRoot, city, dt)
			if len(rows) == 0 {
				continue
			}
			total += len(rows)
			fullHeader := append([]string{"city", "data_type"}, header...)

			picked := samplePick(len(rows), opts.Size, opts.All, opts.Seed)
			for _, i := range picked {
				acc.add(fullHeader, append([]string{city.Slug, dt}, rows[i]...))
			}
			if opts.All || combinedSize > 0 {
				for _, i := range samplePick(len(rows), combinedSize, opts.All, opts.Seed) {
					combined.add(fullHeader, append([]string{city.Slug, dt}, rows[i]...))
				}
			}

			slog.Info("[Sample] Sampled rows",
				slog.String("city", city.Name),
				slog.String("data_type", dt),
				slog.Int("candidates", len(rows)),
				slog.Int("sampled", len(picked)))
		}
	}

	if total == 0 {
		slog.Warn("[Sample] No candidate rows found, nothing written")
		return nil
	}

	outDir := filepath.Join(opts.DataRoot, dataset.GoldStandardDir)
	for _, dt := range typeOrder {
		acc := perType[dt]
		if len(acc.rows) == 0 {
			continue
		}
		path := filepath.Join(outDir, sampleFileName(dt))
		if err := dataset.WriteSheet(path, acc.sheet()); err != nil {
			return err
		}
	}
	if len(combined.rows) > 0 {
		if err := dataset.WriteSheet(filepath.Join(outDir, dataset.CombinedSampleFile), combined.sheet()); err != nil {
			return err
		}
	}

	slog.Info("[Sample] Gold standard written",
		slog.String("dir", outDir),
		slog.Int("combined_rows", len(combined.rows)))
	return nil
}

var sampleFileNames = map[string]string{
	dataset.SourceX:       "sampled_x_posts.csv",
	dataset.SourceMinutes: "sampled_meeting_minutes.csv",
	dataset.SourceReddit:  "sampled_reddit_comments.csv",
	dataset.SourceNews:    "sampled_newspaper_articles.csv",
}

func sampleFileName(dataType string) string {
	return sampleFileNames[dataType]
}

// samplePick returns the kept row indices in original order. A fresh
// seeded source per draw keeps every city/type pair reproducible on its
// own, matching how annotators re-pull a single city.
func samplePick(n, size int, all bool, seed int64) []int {
	if all || size <= 0 || n <= size {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	r := rand.New(rand.NewSource(seed))
	out := append([]int(nil), r.Perm(n)[:size]...)
	sort.Ints(out)
	return out
}

// sampleCandidates loads the candidate rows for one city and type,
// preferring the deidentified twin of each file. X posts drop retweets.
func sampleCandidates(root string, city cities.City, dataType string) ([]string, [][]string) {
	acc := &sampleRows{}
	switch dataType {
	case dataset.SourceX:
		dir := dataset.CityDir(root, city.Slug, dataset.SourceX)
		paths, err := postsFiles(dir)
		if err != nil {
			slog.Warn("[Sample] Failed to list posts files",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
			return nil, nil
		}
		for _, p := range paths {
			sheet := readPreferDeidentified(xScrubTarget(p))
			if sheet == nil {
				continue
			}
			textCol := sheet.Column("text")
			rtCol := sheet.Column("is_retweet")
			for i, row := range sheet.Rows {
				if rtCol >= 0 && sheet.Cell(i, "is_retweet") == "true" {
					continue
				}
				if textCol >= 0 && strings.HasPrefix(sheet.Cell(i, "text"), RETWEET_PREFIX) {
					continue
				}
				acc.add(sheet.Header, row)
			}
		}
	case dataset.SourceMinutes:
		dir := dataset.CityDir(root, city.Slug, dataset.SourceMinutes)
		addSheetRows(acc, readPreferDeidentified(filepath.Join(dir, dataset.MinutesMatchesFile)))
	case dataset.SourceReddit:
		dir := dataset.CityDir(root, city.Slug, dataset.SourceReddit)
		addSheetRows(acc, readPreferDeidentified(filepath.Join(dir, dataset.RedditFilteredComments)))
	case dataset.SourceNews:
		dir := dataset.CityDir(root, city.Slug, dataset.SourceNews)
		addSheetRows(acc, readPreferDeidentified(filepath.Join(dir, dataset.ProcessedArticlesName(city.Slug))))
	}
	return acc.header, acc.rows
}

func addSheetRows(acc *sampleRows, sheet *dataset.Sheet) {
	if sheet == nil {
		return
	}
	for _, row := range sheet.Rows {
		acc.add(sheet.Header, row)
	}
}

// readPreferDeidentified loads the _deidentified twin when present,
// falling back to the plain file. Nil when neither exists or reading
// fails.
func readPreferDeidentified(path string) *dataset.Sheet {
	candidate := dataset.DeidentifiedName(path)
	if !dataset.FileExists(candidate) {
		candidate = path
		if !dataset.FileExists(candidate) {
			return nil
		}
	}
	sheet, err := dataset.ReadSheet(candidate)
	if err != nil {
		slog.Warn("[Sample] Failed to read candidate file",
			slog.String("file", candidate),
			slog.String("error", err.Error()))
		return nil
	}
	return sheet
}
