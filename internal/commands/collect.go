package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/clients"
	"github.com/peh-research/civicsift/internal/clients/kafka_client"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/processing"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect raw text for the selected cities",
	Long: `Collect raw text for the selected cities from one source or all of them.

Sources:
  reddit      subreddit comment trees, one search per lexicon term
  x           full-archive tweet search plus day-granularity counts
  news        NewsAPI articles from the city's local outlets
  lexisnexis  LexisNexis articles from the city's configured titles
  minutes     Granicus meeting-minute transcripts (San Francisco)

Examples:
  civicsift collect                            # Everything, all cities
  civicsift collect --type reddit --cities "el paso,buffalo"
  civicsift collect --type x --count-only      # Day counts without the archive search
  civicsift collect --type news --start 2020-01-01 --end 2021-01-01
  civicsift collect --stream                   # Publish records to Kafka instead of CSV`,
	RunE: runCollect,
}

func init() {
	rootCmd.AddCommand(collectCmd)

	collectCmd.Flags().String("type", "all", "source to collect (reddit, x, news, lexisnexis, minutes, all)")
	collectCmd.Flags().String("start", "2015-01-01", "window start date (YYYY-MM-DD)")
	collectCmd.Flags().String("end", "2025-01-01", "window end date (YYYY-MM-DD)")
	collectCmd.Flags().Bool("count-only", false, "X only: fetch tweet counts without the archive search")
	collectCmd.Flags().Int("max-tweets", 0, "X only: stop paging after this many tweets (0 = no cap)")
	collectCmd.Flags().Bool("stream", false, "publish records to the Kafka raw-records topic instead of CSVs")
}

func runCollect(cmd *cobra.Command, args []string) error {
	source, _ := cmd.Flags().GetString("type")
	countOnly, _ := cmd.Flags().GetBool("count-only")
	maxTweets, _ := cmd.Flags().GetInt("max-tweets")
	stream, _ := cmd.Flags().GetBool("stream")

	start, end, err := parseWindow(cmd)
	if err != nil {
		return err
	}

	cityList := selectedCities()
	if len(cityList) == 0 {
		return fmt.Errorf("[Collect] no known cities selected")
	}

	if stream {
		if err := kafka_client.InitKafkaProducer(kafka_client.GetKafkaConfig()); err != nil {
			return fmt.Errorf("[Collect] failed to initialize Kafka producer: %w", err)
		}
		defer kafka_client.CloseKafkaProducer()
	}
	defer clients.CloseValkey()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	types := []string{source}
	if source == "all" {
		types = []string{dataset.SourceReddit, dataset.SourceX, "news", "lexisnexis", dataset.SourceMinutes}
	}

	for _, t := range types {
		if ctx.Err() != nil {
			break
		}
		switch t {
		case dataset.SourceReddit:
			collectReddit(ctx, cityList, start, end, stream)
		case dataset.SourceX, "twitter":
			collectX(ctx, cityList, start, end, maxTweets, countOnly, stream)
		case "news", "newsapi":
			collectNews(ctx, cityList, start, end, stream)
		case "lexisnexis", "lexis":
			collectLexisNexis(ctx, cityList, start, end, stream)
		case dataset.SourceMinutes, "minutes":
			collectMinutes(ctx, cityList)
		default:
			return fmt.Errorf("[Collect] unknown source type: %s", t)
		}
	}
	return ctx.Err()
}

func parseWindow(cmd *cobra.Command) (time.Time, time.Time, error) {
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")

	start, err := time.Parse(dataset.DateLayout, startStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("[Collect] invalid --start date: %w", err)
	}
	end, err := time.Parse(dataset.DateLayout, endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("[Collect] invalid --end date: %w", err)
	}
	if !end.After(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("[Collect] --end must be after --start")
	}
	return start, end, nil
}

func collectReddit(ctx context.Context, cityList []cities.City, start, end time.Time, stream bool) {
	for _, city := range cityList {
		if ctx.Err() != nil {
			return
		}
		err := processing.CollectReddit(ctx, city, processing.RedditOptions{
			DataRoot: dataRoot(),
			Start:    start,
			End:      end,
			Stream:   stream,
		})
		if err != nil {
			slog.Error("[Collect] Reddit collection failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
}

func collectX(ctx context.Context, cityList []cities.City, start, end time.Time, maxTweets int, countOnly, stream bool) {
	// A bad bearer token fails every city the same way; stop before the loop.
	if err := clients.GetXClient().ValidateBearer(ctx); err != nil {
		slog.Error("[Collect] X bearer token rejected, skipping source",
			slog.String("error", err.Error()))
		return
	}

	for _, city := range cityList {
		if ctx.Err() != nil {
			return
		}
		err := processing.CollectX(ctx, city, processing.XOptions{
			DataRoot:  dataRoot(),
			Start:     start,
			End:       end,
			MaxTweets: maxTweets,
			CountOnly: countOnly,
			Stream:    stream,
		})
		if err != nil {
			slog.Error("[Collect] X collection failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
}

func collectNews(ctx context.Context, cityList []cities.City, start, end time.Time, stream bool) {
	for _, city := range cityList {
		if ctx.Err() != nil {
			return
		}
		err := processing.CollectNews(ctx, city, processing.NewsOptions{
			DataRoot: dataRoot(),
			Start:    start,
			End:      end,
			Stream:   stream,
		})
		if err != nil {
			slog.Error("[Collect] NewsAPI collection failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
}

func collectLexisNexis(ctx context.Context, cityList []cities.City, start, end time.Time, stream bool) {
	for _, city := range cityList {
		if ctx.Err() != nil {
			return
		}
		err := processing.CollectLexisNexis(ctx, city, processing.LexisOptions{
			DataRoot: dataRoot(),
			Start:    start,
			End:      end,
			Stream:   stream,
		})
		if err != nil {
			slog.Error("[Collect] LexisNexis collection failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
}

func collectMinutes(ctx context.Context, cityList []cities.City) {
	for _, city := range cityList {
		if ctx.Err() != nil {
			return
		}
		err := processing.CollectMinutes(ctx, city, processing.MinutesOptions{
			DataRoot: dataRoot(),
		})
		if err != nil {
			slog.Error("[Collect] Minutes collection failed, moving on",
				slog.String("city", city.Name),
				slog.String("error", err.Error()))
		}
	}
	if err := processing.MinutesParagraphs(dataRoot(), cityList); err != nil {
		slog.Error("[Collect] Minutes paragraph matching failed",
			slog.String("error", err.Error()))
	}
}
