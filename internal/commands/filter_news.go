package commands

import (
	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/processing"
)

var filterNewsCmd = &cobra.Command{
	Use:   "news",
	Short: "Extract lexicon-matching paragraphs from LexisNexis articles",
	Long: `Extract the paragraphs of each LexisNexis article that match the
lexicon into <slug>_filtered.csv, and write the cross-city paragraph
filter summary.

Examples:
  civicsift filter news
  civicsift filter news --cities "san francisco,portland"`,
	RunE: runFilterNews,
}

func init() {
	filterCmd.AddCommand(filterNewsCmd)
}

func runFilterNews(cmd *cobra.Command, args []string) error {
	return processing.FilterLexisParagraphs(dataRoot(), selectedCities())
}
