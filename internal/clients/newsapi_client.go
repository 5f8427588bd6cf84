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
	"strings"
	"sync"
	"time"

	"github.com/peh-research/civicsift/internal/models"
)

const NEWS_API_ENDPOINT = "https://newsapi.org/v2/everything"

var (
	newsAPIInstance *NewsAPIClient
	newsAPIOnce     sync.Once
)

type NewsAPIClient struct {
	Client *http.Client
	APIKey string
}

func GetNewsAPIClient() *NewsAPIClient {
	newsAPIOnce.Do(func() {
		newsAPIInstance = &NewsAPIClient{
			Client: &http.Client{},
			APIKey: os.Getenv("NEWS_API_KEY"),
		}
	})
	return newsAPIInstance
}

// EverythingQuery is one page request against /v2/everything.
type EverythingQuery struct {
	Query   string
	Domains []string
	From    time.Time
	To      time.Time
	Page    int
}

// SearchEverything fetches one page of article results.
func (n *NewsAPIClient) SearchEverything(ctx context.Context, q EverythingQuery) (*models.NewsAPIEverythingResponse, error) {
	if n.APIKey == "" {
		slog.Error("[NewsAPIClient] API key is missing")
		return nil, errors.New("[NewsAPIClient] API key is missing")
	}

	parsedUrl, err := url.Parse(NEWS_API_ENDPOINT)
	if err != nil {
		return nil, fmt.Errorf("[NewsAPIClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Add("q", q.Query)
	queryParams.Add("language", "en")
	queryParams.Add("sortBy", "relevancy")
	queryParams.Add("pageSize", "100")
	if len(q.Domains) > 0 {
		queryParams.Add("domains", strings.Join(q.Domains, ","))
	}
	if !q.From.IsZero() {
		queryParams.Add("from", q.From.UTC().Format("2006-01-02"))
	}
	if !q.To.IsZero() {
		queryParams.Add("to", q.To.UTC().Format("2006-01-02"))
	}
	if q.Page > 1 {
		queryParams.Add("page", strconv.Itoa(q.Page))
	}
	parsedUrl.RawQuery = queryParams.Encode()

	var response *models.NewsAPIEverythingResponse
	var lastErr error
	backoff := INITIAL_BACKOFF

	for attempt := 1; attempt <= MAX_RETRIES; attempt++ {
		slog.Info("[NewsAPIClient] Fetching articles",
			slog.Int("attempt", attempt), slog.Int("page", max(q.Page, 1)))
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedUrl.String(), nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("X-Api-Key", n.APIKey)
		req.Header.Set("User-Agent", USER_AGENT)

		res, err := n.Client.Do(req)
		if err != nil {
			slog.Error("[NewsAPIClient] Request failed", slog.String("error", err.Error()))
			lastErr = err
		} else {
			switch res.StatusCode {
			case http.StatusOK:
				body, err := io.ReadAll(res.Body)
				res.Body.Close()
				if err != nil {
					slog.Error("[NewsAPIClient] Failed to read response body", slog.String("error", err.Error()))
					return nil, err
				}
				err = json.Unmarshal(body, &response)
				if err != nil {
					slog.Error("[NewsAPIClient] Failed to parse JSON response", slog.String("error", err.Error()))
					return nil, err
				}

				slog.Info("[NewsAPIClient] Successfully fetched articles",
					slog.Int("totalResults", response.TotalResults))
				return response, nil
			case http.StatusBadRequest:
				res.Body.Close()
				slog.Warn("[NewsAPIClient] Bad request: check query parameters")
				return nil, errors.New("[NewsAPIClient] Bad request: check query parameters")
			case http.StatusUnauthorized:
				res.Body.Close()
				slog.Error("[NewsAPIClient] Invalid API Key, check credentials")
				return nil, errors.New("[NewsAPIClient] Invalid API Key, check credentials")
			case http.StatusForbidden:
				res.Body.Close()
				slog.Error("[NewsAPIClient] Access forbidden, check API key permissions")
				return nil, errors.New("[NewsAPIClient] API key lacks required permissions")
			case http.StatusTooManyRequests:
				_, copyErr := io.Copy(io.Discard, res.Body)
				res.Body.Close()
				if copyErr != nil {
					slog.Error("[NewsAPIClient] Failed to read response body", slog.String("error", copyErr.Error()))
					return nil, copyErr
				}
				slog.Warn("[NewsAPIClient] Rate limit exceeded, retrying...",
					slog.Duration("backoff", backoff), slog.Int("attempt", attempt))
				time.Sleep(backoff)
				backoff *= 2
				if backoff > MAX_BACKOFF {
					backoff = MAX_BACKOFF
				}
			case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
				res.Body.Close()
				slog.Warn("[NewsAPIClient] Server Error", slog.Int("statusCode", res.StatusCode),
					slog.Duration("backoff", backoff), slog.Int("attempt", attempt))
				time.Sleep(backoff)
				backoff *= 2
				if backoff > MAX_BACKOFF {
					backoff = MAX_BACKOFF
				}
			default:
				res.Body.Close()
				slog.Warn("[NewsAPIClient] Unexpected Response", slog.Int("statusCode", res.StatusCode))
				return nil, errors.New("[NewsAPIClient] Unexpected status code")
			}
		}
		if attempt == MAX_RETRIES {
			slog.Error("[NewsAPIClient] Failed after max retries")
			lastErr = errors.New("[NewsAPIClient] failed after max retries")
			break
		}
	}
	return nil, lastErr
}
