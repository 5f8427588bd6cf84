package processing

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/peh-research/civicsift/internal/cities"
	"github.com/peh-research/civicsift/internal/clients"
	"github.com/peh-research/civicsift/internal/dataset"
	"github.com/peh-research/civicsift/internal/dedupe"
	"github.com/peh-research/civicsift/internal/lexicon"
	"github.com/peh-research/civicsift/internal/models"
	"github.com/peh-research/civicsift/internal/stats"
)

type RedditOptions struct {
	DataRoot string
	Start    time.Time
	End      time.Time
	Stream   bool
}

// CollectReddit searches the city subreddit once per lexicon term,
// fetches the comment tree of every submission inside the window and
// writes all_comments.csv, filtered_comments.csv and statistics.csv.
// In stream mode filtered comments are published instead of buffered.
func CollectReddit(ctx context.Context, city cities.City, opts RedditOptions) error {
	rc := clients.GetRedditClient()
	dir := dataset.CityDir(opts.DataRoot, city.Slug, dataset.SourceReddit)

	slog.Info("[CollectReddit] Collecting subreddit comments...",
		slog.String("city", city.Name),
		slog.String("subreddit", city.Subreddit),
		slog.String("start", opts.Start.Format(dataset.DateLayout)),
		slog.String("end", opts.End.Format(dataset.DateLayout)))

	seenSubmissions := make(map[string]bool)
	var submissions []models.RedditAPIChildData
	keywordPosts := 0

	for _, kw := range lexicon.Keywords {
		after := ""
		for {
			resp, err := rc.SearchSubreddit(ctx, city.Subreddit, kw, after)
			if err != nil {
				return fmt.Errorf("[CollectReddit] search %q on r/%s failed: %w", kw, city.Subreddit, err)
			}
			for _, child := range resp.Data.Children {
				if child.Kind != "t3" {
					continue
				}
				sub := child.Data
				if seenSubmissions[sub.ID] {
					continue
				}
				seenSubmissions[sub.ID] = true

				created := time.Unix(int64(sub.CreatedUTC), 0).UTC()
				if created.Before(opts.Start) || !created.Before(opts.End) {
					continue
				}
				if lexicon.Matches(sub.Title) {
					keywordPosts++
				}
				submissions = append(submissions, sub)
			}
			if resp.Data.After == "" {
				break
			}
			after = resp.Data.After
		}
		slog.Info("[CollectReddit] Finished keyword",
			slog.String("keyword", kw),
			slog.Int("submissions_so_far", len(submissions)))
	}

	var seen dedupe.SeenSet
	if opts.Stream {
		seen = dedupe.ForSource(dataset.SourceReddit)
	}

	var allRows, filteredRows []models.RedditCommentRow
	seenComments := make(map[string]bool)

	for _, sub := range submissions {
		comments, err := rc.FetchComments(ctx, city.Subreddit, sub.ID)
		if err != nil {
			slog.Warn("[CollectReddit] Failed to fetch comment tree",
				slog.String("submission_id", sub.ID),
				slog.String("error", err.Error()))
			continue
		}

		for _, c := range comments {
			if c.ID == "" || seenComments[c.ID] {
				continue
			}
			seenComments[c.ID] = true

			row := models.RedditCommentRow{
				SubmissionTitle:     sub.Title,
				SubmissionScore:     sub.Score,
				SubmissionURL:       "https://www.reddit.com" + sub.Permalink,
				SubmissionTimestamp: dataset.FormatUnix(sub.CreatedUTC),
				Comment:             c.Body,
				CommentScore:        c.Score,
				CommentTimestamp:    dataset.FormatUnix(c.CreatedUTC),
			}
			allRows = append(allRows, row)

			matched := lexicon.MatchedKeywords(c.Body)
			if len(matched) == 0 {
				continue
			}
			filteredRows = append(filteredRows, row)

			if opts.Stream {
				publishRecord(ctx, seen, models.RawRecord{
					RecordID: "t1_" + c.ID,
					Source:   dataset.SourceReddit,
					City:     city.Slug,
					Text:     c.Body,
					Columns: map[string]string{
						"Submission Title":     row.SubmissionTitle,
						"Submission Score":     strconv.Itoa(row.SubmissionScore),
						"Submission URL":       row.SubmissionURL,
						"Submission Timestamp": row.SubmissionTimestamp,
						"Comment":              row.Comment,
						"Comment Score":        strconv.Itoa(row.CommentScore),
						"Comment Timestamp":    row.CommentTimestamp,
					},
					KeywordsMatched: matched,
					CollectedAt:     time.Now().UTC(),
				})
			}
		}
	}

	if opts.Stream {
		slog.Info("[CollectReddit] Streamed filtered comments",
			slog.String("city", city.Name),
			slog.Int("submissions", len(submissions)),
			slog.Int("comments", len(allRows)),
			slog.Int("filtered", len(filteredRows)))
		return nil
	}

	if err := dataset.WriteCSV(filepath.Join(dir, dataset.RedditAllComments), allRows); err != nil {
		return err
	}
	if err := dataset.WriteCSV(filepath.Join(dir, dataset.RedditFilteredComments), filteredRows); err != nil {
		return err
	}

	values, order := redditStatisticsSheet(opts.Start, opts.End,
		len(submissions), keywordPosts, allRows, filteredRows)
	if err := stats.WriteStatistics(filepath.Join(dir, dataset.StatisticsFile), values, order); err != nil {
		return err
	}

	slog.Info("[CollectReddit] Collection complete",
		slog.String("city", city.Name),
		slog.Int("submissions", len(submissions)),
		slog.Int("comments", len(allRows)),
		slog.Int("filtered", len(filteredRows)))
	return nil
}

func redditStatisticsSheet(start, end time.Time, totalPosts, keywordPosts int,
	all, filtered []models.RedditCommentRow,
) (map[string]string, []string) {
	var commentScoreSum, filteredScoreSum float64
	for _, r := range all {
		commentScoreSum += float64(r.CommentScore)
	}
	for _, r := range filtered {
		filteredScoreSum += float64(r.CommentScore)
	}

	ratio := func(num, den float64) float64 {
		if den == 0 {
			return 0
		}
		return num / den
	}

	order := []string{
		stats.StatStartDate,
		stats.StatEndDate,
		stats.StatTotalPosts,
		stats.StatTotalKeywordPosts,
		stats.StatTotalComments,
		stats.StatTotalFilteredComments,
		stats.StatAvgCommentsPerPost,
		stats.StatAvgCommentScore,
		stats.StatAvgFilteredCommentScore,
		stats.StatAvgFilteredPerPost,
		stats.StatPctCommentsFiltered,
		stats.StatPctPostsWithKeywords,
	}
	values := map[string]string{
		stats.StatStartDate:               start.Format(dataset.DateLayout),
		stats.StatEndDate:                 end.Format(dataset.DateLayout),
		stats.StatTotalPosts:              strconv.Itoa(totalPosts),
		stats.StatTotalKeywordPosts:       strconv.Itoa(keywordPosts),
		stats.StatTotalComments:           strconv.Itoa(len(all)),
		stats.StatTotalFilteredComments:   strconv.Itoa(len(filtered)),
		stats.StatAvgCommentsPerPost:      fmt.Sprintf("%.2f", ratio(float64(len(all)), float64(totalPosts))),
		stats.StatAvgCommentScore:         fmt.Sprintf("%.2f", ratio(commentScoreSum, float64(len(all)))),
		stats.StatAvgFilteredCommentScore: fmt.Sprintf("%.2f", ratio(filteredScoreSum, float64(len(filtered)))),
		stats.StatAvgFilteredPerPost:      fmt.Sprintf("%.2f", ratio(float64(len(filtered)), float64(totalPosts))),
		stats.StatPctCommentsFiltered:     fmt.Sprintf("%.2f%%", ratio(float64(len(filtered)), float64(len(all)))*100),
		stats.StatPctPostsWithKeywords:    fmt.Sprintf("%.2f%%", ratio(float64(keywordPosts), float64(totalPosts))*100),
	}
	return values, order
}
