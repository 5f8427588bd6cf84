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

// NewsAPI caps the everything endpoint at 100 results per page and
// refuses to page past this many results.
const NEWSAPI_RESULT_CAP = 10000

type NewsOptions struct {
	DataRoot string
	Start    time.Time
	End      time.Time
	Stream   bool
}

// CollectNews pages /v2/everything for the city's outlets and writes
// newsapi_articles.csv. Absent author/description/content become "N/A".
func CollectNews(ctx context.Context, city cities.City, opts NewsOptions) error {
	nc := clients.GetNewsAPIClient()
	dir := dataset.CityDir(opts.DataRoot, city.Slug, dataset.SourceNews)
	query := "(" + lexicon.SearchQuery() + ")"

	slog.Info("[CollectNews] Collecting articles...",
		slog.String("city", city.Name),
		slog.Int("domains", len(city.NewsDomains)))

	var seen dedupe.SeenSet
	if opts.Stream {
		seen = dedupe.ForSource(dataset.SourceNews)
	}

	var rows []models.ArticleRow
	page := 1
	for {
		resp, err := nc.SearchEverything(ctx, clients.EverythingQuery{
			Query:   query,
			Domains: city.NewsDomains,
			From:    opts.Start,
			To:      opts.End,
			Page:    page,
		})
		if err != nil {
			return fmt.Errorf("[CollectNews] page %d for %s failed: %w", page, city.Name, err)
		}
		if len(resp.Articles) == 0 {
			break
		}

		for _, a := range resp.Articles {
			row := articleRow(a)
			rows = append(rows, row)

			if opts.Stream {
				publishRecord(ctx, seen, models.RawRecord{
					RecordID: "news_" + row.URL,
					Source:   dataset.SourceNews,
					City:     city.Slug,
					Text:     articleText(row),
					Columns: map[string]string{
						"source":      row.Source,
						"author":      row.Author,
						"title":       row.Title,
						"description": row.Description,
						"url":         row.URL,
						"publishedAt": row.PublishedAt,
						"content":     row.Content,
					},
					KeywordsMatched: lexicon.MatchedKeywords(articleText(row)),
					CollectedAt:     time.Now().UTC(),
				})
			}
		}

		fetched := page * 100
		if fetched >= resp.TotalResults || fetched >= NEWSAPI_RESULT_CAP {
			break
		}
		page++
	}

	if opts.Stream {
		slog.Info("[CollectNews] Streamed articles",
			slog.String("city", city.Name),
			slog.Int("articles", len(rows)))
		return nil
	}

	path := filepath.Join(dir, dataset.NewsAPIFile)
	if err := dataset.WriteCSV(path, rows); err != nil {
		return err
	}
	slog.Info("[CollectNews] Collection complete",
		slog.String("city", city.Name),
		slog.Int("articles", len(rows)),
		slog.String("path", path))
	return nil
}

func articleRow(a models.NewsAPIArticle) models.ArticleRow {
	orNA := func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	}
	return models.ArticleRow{
		Source:      orNA(a.Source.Name),
		Author:      orNA(a.Author),
		Title:       a.Title,
		Description: orNA(a.Description),
		URL:         a.URL,
		PublishedAt: a.PublishedAt,
		Content:     orNA(a.Content),
	}
}

// articleText picks the richest text available for filtering and
// streaming; the everything endpoint truncates content at 200 chars.
func articleText(row models.ArticleRow) string {
	if row.Content != "" && row.Content != "N/A" {
		return row.Content
	}
	if row.Description != "" && row.Description != "N/A" {
		return row.Description
	}
	return row.Title
}
