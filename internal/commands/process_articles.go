package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/processing"
)

var processArticlesCmd = &cobra.Command{
	Use:   "process-articles",
	Short: "Chunk long filtered articles down to their matching paragraphs",
	Long: `Split long filtered news articles into paragraph chunks and keep only
the chunks that still match the lexicon, writing
<slug>_processed_articles.csv. Short articles pass through unchanged.

Examples:
  civicsift process-articles
  civicsift process-articles --max-paragraphs 3`,
	RunE: runProcessArticles,
}

func init() {
	rootCmd.AddCommand(processArticlesCmd)

	processArticlesCmd.Flags().Int("max-paragraphs", 1, "matching chunks kept per long article (0 = all)")
}

func runProcessArticles(cmd *cobra.Command, args []string) error {
	maxParagraphs, _ := cmd.Flags().GetInt("max-paragraphs")

	for _, city := range selectedCities() {
		if err := processing.ProcessLongArticles(dataRoot(), city, maxParagraphs); err != nil {
			slog.Error("[ProcessArticles] Processing failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
	return nil
}
