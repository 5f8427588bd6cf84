package processing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/clients"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/dedupe"
	"github.com/peh-research/civicsift/internal/lexicon"
	"github.com/peh-research/civicsift/internal/models"
)

type XOptions struct {
	DataRoot  string
	Start     time.Time
	End       time.Time
	MaxTweets int
	CountOnly bool
	Stream    bool
}

// CollectX fetches day-granularity tweet counts for the city query and,
// unless count-only, pages the full-archive search into the posts CSV.
// A city whose posts CSV already exists is skipped.
func CollectX(ctx context.Context, city cities.City, opts XOptions) error {
	xc := clients.GetXClient()
	dir := dataset.CityDir(opts.DataRoot, city.Slug, dataset.SourceX)
	query := xQuery(city)

	postsPath := filepath.Join(dir, dataset.TweetPostsName(opts.Start, opts.End))
	if !opts.CountOnly && dataset.FileExists(postsPath) {
		slog.Info("[CollectX] Posts file already exists, skipping city",
			slog.String("city", city.Name),
			slog.String("path", postsPath))
		return nil
	}

	slog.Info("[CollectX] Fetching tweet counts...",
		slog.String("city", city.Name),
		slog.String("query", query))

	buckets, total, err := xc.CountAll(ctx, query, opts.Start, opts.End)
	if err != nil {
		return fmt.Errorf("[CollectX] counts for %s failed: %w", city.Name, err)
	}

	byDay := make([]models.TweetCountRow, len(buckets))
	for i, b := range buckets {
		byDay[i] = models.TweetCountRow{Start: b.Start, End: b.End, TweetCount: b.TweetCount}
	}
	if err := dataset.WriteCSV(filepath.Join(dir, dataset.TweetByDayName(opts.Start, opts.End)), byDay); err != nil {
		return err
	}

	statsRow := []models.TweetStatsRow{{
		City:        city.Name,
		Query:       query,
		Start:       opts.Start.Format(dataset.DateLayout),
		End:         opts.End.Format(dataset.DateLayout),
		TotalTweets: total,
	}}
	if err := dataset.WriteCSV(filepath.Join(dir, dataset.TweetStatsName(opts.Start, opts.End)), statsRow); err != nil {
		return err
	}

	slog.Info("[CollectX] Counts complete",
		slog.String("city", city.Name),
		slog.Int("total_tweets", total))
	if opts.CountOnly {
		return nil
	}

	var seen dedupe.SeenSet
	if opts.Stream {
		seen = dedupe.ForSource(dataset.SourceX)
	}

	var rows []models.TweetRow
	nextToken := ""
	for {
		resp, err := xc.SearchAll(ctx, query, opts.Start, opts.End, nextToken)
		if err != nil {
			return fmt.Errorf("[CollectX] search for %s failed: %w", city.Name, err)
		}

		locations := make(map[string]string, len(resp.Includes.Users))
		for _, u := range resp.Includes.Users {
			locations[u.ID] = u.Location
		}
		places := make(map[string]models.XPlace, len(resp.Includes.Places))
		for _, p := range resp.Includes.Places {
			places[p.ID] = p
		}

		for _, t := range resp.Data {
			row := buildTweetRow(t, locations, places)
			rows = append(rows, row)

			if opts.Stream {
				publishRecord(ctx, seen, models.RawRecord{
					RecordID: "x_" + row.ID,
					Source:   dataset.SourceX,
					City:     city.Slug,
					Text:     row.Text,
					Columns: map[string]string{
						"id":            row.ID,
						"text":          row.Text,
						"created_at":    row.CreatedAt,
						"author_id":     row.AuthorID,
						"user_location": row.UserLocation,
						"tweet_geo":     row.TweetGeo,
						"tweet_country": row.TweetCountry,
						"place_type":    row.PlaceType,
					},
					KeywordsMatched: lexicon.MatchedKeywords(row.Text),
					CollectedAt:     time.Now().UTC(),
				})
			}

			if opts.MaxTweets > 0 && len(rows) >= opts.MaxTweets {
				slog.Info("[CollectX] Reached tweet cap",
					slog.String("city", city.Name),
					slog.Int("max_tweets", opts.MaxTweets))
				return finishTweets(postsPath, city, rows, opts.Stream)
			}
		}

		if resp.Meta.NextToken == "" {
			break
		}
		nextToken = resp.Meta.NextToken
	}

	return finishTweets(postsPath, city, rows, opts.Stream)
}

func finishTweets(postsPath string, city cities.City, rows []models.TweetRow, streamed bool) error {
	if streamed {
		slog.Info("[CollectX] Streamed tweets",
			slog.String("city", city.Name),
			slog.Int("tweets", len(rows)))
		return nil
	}
	if err := dataset.WriteCSV(postsPath, rows); err != nil {
		return err
	}
	slog.Info("[CollectX] Search complete",
		slog.String("city", city.Name),
		slog.Int("tweets", len(rows)),
		slog.String("path", postsPath))
	return nil
}

// xQuery builds the full-archive query: OR-joined lexicon (phrases
// quoted), English only, constrained to the city's point radius when
// coordinates are known.
func xQuery(city cities.City) string {
	query := "(" + lexicon.SearchQuery() + ") lang:en"
	if radius := city.PointRadius(); radius != "" {
		query += " " + radius
	}
	return query
}

func buildTweetRow(t models.XTweet, locations map[string]string, places map[string]models.XPlace) models.TweetRow {
	row := models.TweetRow{
		ID:           t.ID,
		Text:         t.Text,
		CreatedAt:    t.CreatedAt,
		AuthorID:     t.AuthorID,
		UserLocation: locations[t.AuthorID],
	}
	if parsed, err := time.Parse(clients.X_TIME_LAYOUT, t.CreatedAt); err == nil {
		row.CreatedAt = dataset.FormatTimestamp(parsed)
	}
	if place, ok := places[t.Geo.PlaceID]; ok {
		row.TweetGeo = place.FullName
		row.TweetCountry = place.CountryCode
		row.PlaceType = place.PlaceType
	} else if t.Geo.Coordinates != nil && len(t.Geo.Coordinates.Coordinates) == 2 {
		row.TweetGeo = fmt.Sprintf("%g,%g",
			t.Geo.Coordinates.Coordinates[0], t.Geo.Coordinates.Coordinates[1])
	}
	return row
}
