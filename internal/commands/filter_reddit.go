package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/processing"
)

var filterRedditCmd = &cobra.Command{
	Use:   "reddit",
	Short: "Rebuild filtered_comments.csv from all_comments.csv",
	Long: `Rebuild each city's filtered_comments.csv by re-running the lexicon
over all_comments.csv, and refresh the filter statistics.

Examples:
  civicsift filter reddit
  civicsift filter reddit --cities kzoo`,
	RunE: runFilterReddit,
}

func init() {
	filterCmd.AddCommand(filterRedditCmd)
}

func runFilterReddit(cmd *cobra.Command, args []string) error {
	for _, city := range selectedCities() {
		if err := processing.RefilterReddit(dataRoot(), city); err != nil {
			slog.Error("[FilterReddit] Refilter failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
