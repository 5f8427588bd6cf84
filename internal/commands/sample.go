package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/processing"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Draw the gold-standard sample from deidentified records",
	Long: `Draw seeded per-city random samples of deidentified non-retweet
tweets, meeting-minute matches, Reddit comments and processed news
paragraphs into gold_standard/: one CSV per type plus
combined_sample.csv. --mode all copies everything instead of sampling.

Examples:
  civicsift sample
  civicsift sample --sample-size 100 --seed 7
  civicsift sample --mode all`,
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().Int("sample-size", processing.DEFAULT_SAMPLE_SIZE, "rows drawn per city and type")
	sampleCmd.Flags().Int64("seed", processing.DEFAULT_SAMPLE_SEED, "random seed for reproducible draws")
	sampleCmd.Flags().String("mode", "sample", "sample or all")
}

func runSample(cmd *cobra.Command, args []string) error {
	size, _ := cmd.Flags().GetInt("sample-size")
	seed, _ := cmd.Flags().GetInt64("seed")
	mode, _ := cmd.Flags().GetString("mode")

	switch mode {
	case "sample", "all":
	default:
		return fmt.Errorf("[Sample] unknown mode: %s", mode)
	}

	return processing.BuildGoldStandard(selectedCities(), processing.SampleOptions{
		DataRoot: dataRoot(),
		Size:     size,
		Seed:     seed,
		All:      mode == "all",
	})
}
