package processing

import (
	"log/slog"
	"path/filepath"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/deidentify"
)

// deidentifySources orders the per-city walk.
var deidentifySources = []string{
	dataset.SourceReddit,
	dataset.SourceX,
	dataset.SourceNews,
	dataset.SourceMinutes,
}

// DeidentifyCity scrubs every filtered output in the city's folders,
// writing the _deidentified twin of each. Files already scrubbed are
// skipped inside ScrubFile, so reruns only touch new data.
func DeidentifyCity(root string, city cities.City, scrubber *deidentify.Scrubber) error {
	scrubbed := 0
	for _, source := range deidentifySources {
		columns := deidentify.ColumnsForSource[source]
		targets, err := deidentifyTargets(root, city, source)
		if err != nil {
			return err
		}
		for _, path := range targets {
			if !dataset.FileExists(path) {
				continue
			}
			if _, err := scrubber.ScrubFile(path, columns); err != nil {
				slog.Warn("[Deidentify] Failed to scrub file",
					slog.String("file", path),
					slog.String("error", err.Error()))
				continue
			}
			scrubbed++
		}
	}

	slog.Info("[Deidentify] City complete",
		slog.String("city", city.Name),
		slog.Int("files", scrubbed),
		slog.Bool("ner", scrubber.HasNER()))
	return nil
}

// deidentifyTargets lists the files carrying free text per source. Raw
// dumps like all_comments.csv stay local and unscrubbed; only the
// filtered outputs move downstream.
func deidentifyTargets(root string, city cities.City, source string) ([]string, error) {
	dir := dataset.CityDir(root, city.Slug, source)
	switch source {
	case dataset.SourceReddit:
		return []string{filepath.Join(dir, dataset.RedditFilteredComments)}, nil
	case dataset.SourceX:
		paths, err := postsFiles(dir)
		if err != nil {
			return nil, err
		}
		for i, p := range paths {
			paths[i] = xScrubTarget(p)
		}
		return paths, nil
	case dataset.SourceNews:
		return []string{
			filepath.Join(dir, dataset.FilteredArticlesName(city.Slug)),
			filepath.Join(dir, dataset.ProcessedArticlesName(city.Slug)),
		}, nil
	case dataset.SourceMinutes:
		return []string{filepath.Join(dir, dataset.MinutesMatchesFile)}, nil
	}
	return nil, nil
}
