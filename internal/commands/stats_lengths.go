package commands

import (
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/deidentify"
	"github.com/peh-research/civicsift/internal/output"
	"github.com/peh-research/civicsift/internal/stats"
)

var statsLengthsCmd = &cobra.Command{
	Use:   "lengths",
	Short: "Profile text lengths in a deidentified column",
	Long: `Profile character and word lengths of a deidentified text column:
mean, median, spread, percentiles and the shortest/longest samples.
Defaults to each city's processed news paragraphs; --file targets one
CSV instead.

Examples:
  civicsift stats lengths
  civicsift stats lengths --file data/kzoo/reddit/filtered_comments_deidentified.csv --column Deidentified_Comment`,
	RunE: runStatsLengths,
}

func init() {
	statsCmd.AddCommand(statsLengthsCmd)

	statsLengthsCmd.Flags().String("file", "", "analyze a single CSV instead of the per-city default")
	statsLengthsCmd.Flags().String("column", deidentify.DeidentifiedPrefix+"paragraph_text", "text column to profile")
}

func runStatsLengths(cmd *cobra.Command, args []string) error {
	file, _ := cmd.Flags().GetString("file")
	column, _ := cmd.Flags().GetString("column")

	if file != "" {
		return profileLengths(cmd, file, column)
	}

	for _, city := range selectedCities() {
		dir := dataset.CityDir(dataRoot(), city.Slug, dataset.SourceNews)
		path := dataset.DeidentifiedName(filepath.Join(dir, dataset.ProcessedArticlesName(city.Slug)))
		if !dataset.FileExists(path) {
			slog.Warn("[StatsLengths] No deidentified processed articles, skipping",
				slog.String("city", city.Name),
				slog.String("path", path))
			continue
		}
		if err := profileLengths(cmd, path, column); err != nil {
			slog.Error("[StatsLengths] Profiling failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func profileLengths(cmd *cobra.Command, path, column string) error {
	sheet, err := dataset.ReadSheet(path)
	if err != nil {
		return err
	}

	col := sheet.Column(column)
	if col < 0 {
		slog.Warn("[StatsLengths] Column not found, skipping file",
			slog.String("path", path),
			slog.String("column", column))
		return nil
	}

	texts := make([]string, 0, len(sheet.Rows))
	for i := range sheet.Rows {
		texts = append(texts, sheet.Cell(i, column))
	}

	report := stats.AnalyzeLengths(texts)
	if report == nil {
		slog.Warn("[StatsLengths] No nonblank text in column",
			slog.String("path", path),
			slog.String("column", column))
		return nil
	}

	slog.Info("[StatsLengths] Length profile",
		slog.String("path", path),
		slog.Int("texts", report.Count))
	table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{"Metric", "Value"})
	table.AddRows(report.Rows())
	table.Render()

	reportPath := stats.LengthReportName(path)
	if err := stats.WriteLengthReport(reportPath, report); err != nil {
		return err
	}
	slog.Info("[StatsLengths] Wrote length report", slog.String("path", reportPath))
	return nil
}
