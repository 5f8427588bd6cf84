package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/processing"
)

var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Mark retweets and matched keywords on collected tweets",
	Long: `Annotate each city's X posts with an is_retweet flag and the lexicon
terms the text matches, writing the _rt.csv twin that the deidentify
and sample stages read.

Examples:
  civicsift annotate
  civicsift annotate --cities elpaso`,
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	for _, city := range selectedCities() {
		if err := processing.AnnotateTweets(dataRoot(), city); err != nil {
			slog.Error("[Annotate] Annotation failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
