package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/db"
	"github.com/peh-research/civicsift/internal/processing"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Batch-write deidentified records to the research table",
	Long: `Walk each city's deidentified CSVs and batch-write the rows to the
DynamoDB research table. Record IDs hash source, city and text, so
reruns overwrite instead of duplicating. Records expire after
--retention via the table's TTL attribute.

Examples:
  civicsift archive --dry-run
  civicsift archive --retention 2160h --cities sanfrancisco`,
	RunE: runArchive,
}

func init() {
	rootCmd.AddCommand(archiveCmd)

	archiveCmd.Flags().Duration("retention", 365*24*time.Hour, "TTL applied to archived records")
	archiveCmd.Flags().Bool("dry-run", false, "count records without writing")
}

func runArchive(cmd *cobra.Command, args []string) error {
	retention, _ := cmd.Flags().GetDuration("retention")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	if !dryRun {
		db.InitDynamoDB()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	for _, city := range selectedCities() {
		if ctx.Err() != nil {
			break
		}
		err := processing.ArchiveCity(ctx, city, processing.ArchiveOptions{
			DataRoot:  dataRoot(),
			Retention: retention,
			DryRun:    dryRun,
		})
		if err != nil {
			slog.Error("[Archive] Archiving failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
	return ctx.Err()
}
