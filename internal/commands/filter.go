package commands

import (
	"github.com/spf13/cobra"
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Re-run the lexicon filter over collected text",
	Long: `Re-run the keyword lexicon over already-collected text.

Collection filters as it goes; these commands rebuild the filtered
outputs from the raw CSVs, for lexicon changes or partial runs.

Example usage:
  civicsift filter reddit            # Rebuild filtered_comments.csv per city
  civicsift filter news              # Extract matching LexisNexis paragraphs`,
}

func init() {
	rootCmd.AddCommand(filterCmd)
}
