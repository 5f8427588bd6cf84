package commands

import (
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the collected per-city CSV folders",
	Long: `Summarize the collected data: per-folder file statistics, the
cross-city record count summary, and paragraph length profiles.

Example usage:
  civicsift stats folders            # statistics.csv per city/source folder
  civicsift stats summary            # data_summary_by_city.csv plus a table
  civicsift stats lengths            # Length profile of processed paragraphs`,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
