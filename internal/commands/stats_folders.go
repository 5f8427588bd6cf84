package commands

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/deidentify"
	"github.com/peh-research/civicsift/internal/stats"
)

var statsFoldersCmd = &cobra.Command{
	Use:   "folders",
	Short: "Write per-folder file statistics",
	Long: `Write a statistics CSV into each city/source folder: per file the
size, row count, keyword match counts for the source's text columns,
lexicon-match tallies and VADER sentiment aggregates.

Examples:
  civicsift stats folders
  civicsift stats folders --cities scranton`,
	RunE: runStatsFolders,
}

func init() {
	statsCmd.AddCommand(statsFoldersCmd)
}

func runStatsFolders(cmd *cobra.Command, args []string) error {
	sources := []string{dataset.SourceReddit, dataset.SourceX, dataset.SourceNews, dataset.SourceMinutes}

	for _, city := range selectedCities() {
		for _, source := range sources {
			dir := dataset.CityDir(dataRoot(), city.Slug, source)
			if _, err := os.Stat(dir); err != nil {
				continue
			}
			path, err := stats.WriteFolderStatistics(dir, source, deidentify.ColumnsForSource[source])
			if err != nil {
				slog.Error("[StatsFolders] Folder statistics failed, moving on",
					slog.String("city", city.Name),
					slog.String("source", source),
					slog.String("error", err.Error()))
				continue
			}
			slog.Info("[StatsFolders] Wrote folder statistics",
				slog.String("city", city.Name),
				slog.String("path", path))
		}
	}
	return nil
}
