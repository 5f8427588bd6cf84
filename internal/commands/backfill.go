package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/processing"
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Add keywords_matched columns to files collected before annotation",
	Long: `Backfill the keywords_matched column onto Reddit filtered comments and
deidentified tweet files written before the column existed. Reddit
deidentified twins copy the column from their source file; tweet twins
recompute it from their own text column.

Examples:
  civicsift backfill
  civicsift backfill --cities rockford`,
	RunE: runBackfill,
}

func init() {
	rootCmd.AddCommand(backfillCmd)
}

func runBackfill(cmd *cobra.Command, args []string) error {
	for _, city := range selectedCities() {
		if err := processing.BackfillKeywords(dataRoot(), city); err != nil {
			slog.Error("[Backfill] Backfill failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
