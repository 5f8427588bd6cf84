package commands

import (
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/output"
	"github.com/peh-research/civicsift/internal/stats"
)

var statsSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Write the cross-city record count summary",
	Long: `Count filtered records per city and source, print the table and write
data_summary/data_summary_by_city.csv with a Grand Total row.

Examples:
  civicsift stats summary
  civicsift stats summary --cities "portland,buffalo"`,
	RunE: runStatsSummary,
}

func init() {
	statsCmd.AddCommand(statsSummaryCmd)
}

func runStatsSummary(cmd *cobra.Command, args []string) error {
	rows := stats.BuildCitySummary(dataRoot(), selectedCities())

	table := output.NewTableWithWriter(cmd.OutOrStdout(), []string{
		"City", "Reddit Posts", "Reddit Comments", "News Articles", "News Paragraphs",
		"Tweets", "Geolocated", "Non-Retweets", "Minutes Results", "Meetings",
	})
	for _, r := range rows {
		table.AddRow([]string{
			r.City,
			strconv.Itoa(r.TotalFilteredRedditPosts),
			strconv.Itoa(r.TotalFilteredRedditComment),
			strconv.Itoa(r.TotalNewsArticles),
			strconv.Itoa(r.TotalNewsParagraphs),
			strconv.Itoa(r.TotalXTweets),
			strconv.Itoa(r.TotalXGeolocatedTweets),
			strconv.Itoa(r.TotalXNonRetweets),
			strconv.Itoa(r.TotalMeetingMinutesResults),
			strconv.Itoa(r.TotalMeetings),
		})
	}
	table.Render()

	path, err := stats.WriteCitySummary(dataRoot(), rows)
	if err != nil {
		return err
	}
	slog.Info("[StatsSummary] Wrote city summary", slog.String("path", path))
	return nil
}
