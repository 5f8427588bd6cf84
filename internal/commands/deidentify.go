package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/deidentify"
	"github.com/peh-research/civicsift/internal/processing"
)

var deidentifyCmd = &cobra.Command{
	Use:   "deidentify",
	Short: "Scrub PII from the filtered text files",
	Long: `Scrub personally identifiable information from each city's filtered
CSVs, writing _deidentified.csv twins. Entities found by the NER model
become [PERSON]/[LOCATION]/[ORGANIZATION]; a regex pass then replaces
phones, URLs, emails, IPs, ZIPs, dates, times, streets and
institutions. Files whose twin already exists are skipped.

The NER model is downloaded on first use into $CIVICSIFT_MODEL_DIR
(default models/). Without --require-ner a missing ONNX runtime
degrades to the regex pass with a warning.

Examples:
  civicsift deidentify
  civicsift deidentify --cities baltimore --require-ner`,
	RunE: runDeidentify,
}

func init() {
	rootCmd.AddCommand(deidentifyCmd)

	deidentifyCmd.Flags().Bool("require-ner", false, "fail instead of degrading when the NER model cannot load")
}

func runDeidentify(cmd *cobra.Command, args []string) error {
	requireNER, _ := cmd.Flags().GetBool("require-ner")

	ner, err := deidentify.NewNERScrubber(modelDir())
	if err != nil {
		if requireNER {
			return fmt.Errorf("[Deidentify] NER model unavailable: %w", err)
		}
		slog.Warn("[Deidentify] NER model unavailable, using regex passes only",
			slog.String("error", err.Error()))
		ner = nil
	}
	defer ner.Close()

	scrubber := deidentify.NewScrubber(ner)
	for _, city := range selectedCities() {
		if err := processing.DeidentifyCity(dataRoot(), city, scrubber); err != nil {
			slog.Error("[Deidentify] Scrub failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
	return nil
}

func modelDir() string {
	if dir := os.Getenv("CIVICSIFT_MODEL_DIR"); dir != "" {
		return dir
	}
	return "models"
}
