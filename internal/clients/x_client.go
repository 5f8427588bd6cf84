package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/peh-research/civicsift/internal/models"
)

const (
	X_API_URL        = "https://api.twitter.com"
	X_COUNTS_ALL     = X_API_URL + "/2/tweets/counts/all"
	X_COUNTS_RECENT  = X_API_URL + "/2/tweets/counts/recent"
	X_SEARCH_ALL     = X_API_URL + "/2/tweets/search/all"
	X_TIME_LAYOUT    = "2006-01-02T15:04:05Z"
	X_MAX_PAGE_SIZE  = 100
	X_SEARCH_COOLOFF = 1 * time.Second
)

var (
	xClientInstance *XClient
	xClientOnce     sync.Once
)

type XClient struct {
	Client      *http.Client
	BearerToken string
}

func GetXClient() *XClient {
	xClientOnce.Do(func() {
		xClientInstance = &XClient{
			Client:      &http.Client{},
			BearerToken: os.Getenv("X_BEARER_TOKEN"),
		}
	})
	return xClientInstance
}

// ValidateBearer probes the recent counts endpoint so a bad token stops
// a run before any per-city work starts.
func (xc *XClient) ValidateBearer(ctx context.Context) error {
	if xc.BearerToken == "" {
		return errors.New("[XClient] X_BEARER_TOKEN is not set")
	}

	parsedUrl, _ := url.Parse(X_COUNTS_RECENT)
	queryParams := parsedUrl.Query()
	queryParams.Add("query", "homeless")
	parsedUrl.RawQuery = queryParams.Encode()

	resp, err := xc.do(ctx, parsedUrl.String())
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		slog.Info("[XClient] Bearer token validated")
		return nil
	case http.StatusUnauthorized:
		return errors.New("[XClient] Bearer token rejected (401): check X_BEARER_TOKEN")
	case http.StatusForbidden:
		return errors.New("[XClient] Bearer token lacks access (403): full-archive search needs academic access")
	default:
		return fmt.Errorf("[XClient] Unexpected status %d validating token", resp.StatusCode)
	}
}

// CountAll pages through day-granularity counts for the window and
// returns every bucket plus the total.
func (xc *XClient) CountAll(ctx context.Context, query string, start, end time.Time) ([]models.XCountBucket, int, error) {
	var buckets []models.XCountBucket
	total := 0
	nextToken := ""

	for {
		parsedUrl, err := url.Parse(X_COUNTS_ALL)
		if err != nil {
			return nil, 0, fmt.Errorf("[XClient] Failed to parse URL: %w", err)
		}
		queryParams := parsedUrl.Query()
		queryParams.Add("query", query)
		queryParams.Add("granularity", "day")
		queryParams.Add("start_time", start.UTC().Format(X_TIME_LAYOUT))
		queryParams.Add("end_time", end.UTC().Format(X_TIME_LAYOUT))
		if nextToken != "" {
			queryParams.Add("next_token", nextToken)
		}
		parsedUrl.RawQuery = queryParams.Encode()

		body, err := xc.getWithRetry(ctx, parsedUrl.String())
		if err != nil {
			return nil, 0, err
		}

		var response models.XCountsResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return nil, 0, fmt.Errorf("[XClient] Failed to parse counts response: %w", err)
		}

		buckets = append(buckets, response.Data...)
		total += response.Meta.TotalTweetCount

		if response.Meta.NextToken == "" {
			return buckets, total, nil
		}
		nextToken = response.Meta.NextToken
	}
}

// SearchAll fetches one page of the full-archive search with author and
// place expansions. Pass the previous page's next_token to continue.
func (xc *XClient) SearchAll(ctx context.Context, query string, start, end time.Time, nextToken string) (*models.XSearchResponse, error) {
	parsedUrl, err := url.Parse(X_SEARCH_ALL)
	if err != nil {
		return nil, fmt.Errorf("[XClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Add("query", query)
	queryParams.Add("start_time", start.UTC().Format(X_TIME_LAYOUT))
	queryParams.Add("end_time", end.UTC().Format(X_TIME_LAYOUT))
	queryParams.Add("max_results", strconv.Itoa(X_MAX_PAGE_SIZE))
	queryParams.Add("tweet.fields", "created_at,author_id,geo,text")
	queryParams.Add("expansions", "author_id,geo.place_id")
	queryParams.Add("user.fields", "location")
	queryParams.Add("place.fields", "full_name,country_code,place_type")
	if nextToken != "" {
		queryParams.Add("next_token", nextToken)
	}
	parsedUrl.RawQuery = queryParams.Encode()

	// Full-archive search allows one request per second.
	time.Sleep(X_SEARCH_COOLOFF)

	body, err := xc.getWithRetry(ctx, parsedUrl.String())
	if err != nil {
		return nil, err
	}

	var response models.XSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("[XClient] Failed to parse search response: %w", err)
	}
	return &response, nil
}

func (xc *XClient) do(ctx context.Context, requestUrl string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+xc.BearerToken)
	req.Header.Set("User-Agent", USER_AGENT)
	return xc.Client.Do(req)
}

func (xc *XClient) getWithRetry(ctx context.Context, requestUrl string) ([]byte, error) {
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		resp, err := xc.do(ctx, requestUrl)
		if err != nil {
			return nil, err
		}

		switch resp.StatusCode {
		case http.StatusOK:
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, err
			}
			xc.waitIfExhausted(resp)
			return body, nil
		case http.StatusUnauthorized:
			resp.Body.Close()
			return nil, errors.New("[XClient] Unauthorized (401): check X_BEARER_TOKEN")
		case http.StatusForbidden:
			resp.Body.Close()
			return nil, errors.New("[XClient] Forbidden (403): token lacks full-archive access")
		case http.StatusTooManyRequests:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			xc.sleepUntilReset(resp, backoff)
			backoff *= 2
			if backoff > MAX_BACKOFF {
				backoff = MAX_BACKOFF
			}
		default:
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			slog.Warn("[XClient] Unexpected status, retrying",
				slog.Int("statusCode", resp.StatusCode),
				slog.Int("attempt", attempt),
				slog.Duration("backoff", backoff))
			time.Sleep(backoff)
			backoff *= 2
			if backoff > MAX_BACKOFF {
				backoff = MAX_BACKOFF
			}
		}
	}
	return nil, errors.New("[XClient] Max retries reached request failed")
}

// waitIfExhausted blocks until the window resets once the remaining
// budget hits zero, so the next request does not draw a 429.
func (xc *XClient) waitIfExhausted(resp *http.Response) {
	remaining := resp.Header.Get("x-rate-limit-remaining")
	if remaining != "0" {
		return
	}
	xc.sleepUntilReset(resp, INITIAL_BACKOFF)
}

func (xc *XClient) sleepUntilReset(resp *http.Response, fallback time.Duration) {
	wait := fallback
	if reset := resp.Header.Get("x-rate-limit-reset"); reset != "" {
		if epoch, err := strconv.ParseInt(reset, 10, 64); err == nil {
			until := time.Until(time.Unix(epoch, 0))
			if until > 0 {
				wait = until
			}
		}
	}
	slog.Warn("[XClient] Rate limit window exhausted, waiting",
		slog.Duration("wait", wait))
	time.Sleep(wait)
}
