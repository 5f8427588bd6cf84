package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/peh-research/civicsift/internal/models"
)

const (
	REDDIT_AUTH_URL = "https://www.reddit.com/api/v1/access_token"
	REDDIT_API_URL  = "https://oauth.reddit.com"

	// Comment trees are cut off past this depth; Reddit returns "more"
	// stubs there anyway.
	REDDIT_COMMENT_DEPTH = 10
)

var (
	redditClientInstance *RedditClient
	redditClientOnce     sync.Once
	redditRateLimitMutex sync.Mutex
)

type RedditClient struct {
	Config *clientcredentials.Config
	Client *http.Client
	mu     *sync.Mutex
}

func GetRedditClient() *RedditClient {
	redditClientOnce.Do(func() {
		oauthConf := &clientcredentials.Config{
			ClientID:     os.Getenv("REDDIT_CLIENT_ID"),
			ClientSecret: os.Getenv("REDDIT_CLIENT_SECRET"),
			TokenURL:     REDDIT_AUTH_URL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		}

		redditClientInstance = &RedditClient{
			Config: oauthConf,
			Client: oauthConf.Client(context.Background()),
			mu:     &sync.Mutex{},
		}
	})

	return redditClientInstance
}

func (rc *RedditClient) RefreshClient() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	rc.Client = rc.Config.Client(context.Background())
}

// SearchSubreddit runs one page of a subreddit keyword search. Pass the
// previous page's After fullname to continue; "" starts from the top.
func (rc *RedditClient) SearchSubreddit(ctx context.Context, subreddit, query, after string) (*models.RedditAPIResponse, error) {
	parsedUrl, err := url.Parse(fmt.Sprintf("%s/r/%s/search", REDDIT_API_URL, subreddit))
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Add("q", query)
	queryParams.Add("sort", "top")
	queryParams.Add("limit", "100")
	queryParams.Add("restrict_sr", "1")
	if after != "" {
		queryParams.Add("after", after)
	}
	parsedUrl.RawQuery = queryParams.Encode()

	body, err := rc.get(ctx, parsedUrl.String(), false)
	if err != nil {
		return nil, err
	}

	var response models.RedditAPIResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse search response: %w", err)
	}
	return &response, nil
}

// FetchComments loads the comment tree of one submission and flattens
// it depth-first. "more" stubs are ignored.
func (rc *RedditClient) FetchComments(ctx context.Context, subreddit, submissionID string) ([]models.RedditAPIChildData, error) {
	parsedUrl, err := url.Parse(fmt.Sprintf("%s/r/%s/comments/%s", REDDIT_API_URL, subreddit, submissionID))
	if err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Add("limit", "500")
	queryParams.Add("depth", fmt.Sprintf("%d", REDDIT_COMMENT_DEPTH))
	parsedUrl.RawQuery = queryParams.Encode()

	body, err := rc.get(ctx, parsedUrl.String(), false)
	if err != nil {
		return nil, err
	}

	// The comments endpoint returns a two-element array: the submission
	// listing, then the comment listing.
	var listings []models.RedditAPIResponse
	if err := json.Unmarshal(body, &listings); err != nil {
		return nil, fmt.Errorf("[RedditClient] Failed to parse comments response: %w", err)
	}
	if len(listings) < 2 {
		return nil, nil
	}

	var comments []models.RedditAPIChildData
	flattenComments(listings[1].Data.Children, &comments)
	return comments, nil
}

func flattenComments(children []models.RedditAPIChild, out *[]models.RedditAPIChildData) {
	for _, child := range children {
		if child.Kind != "t1" {
			continue
		}
		*out = append(*out, child.Data)
		if child.Data.Replies.Listing != nil {
			flattenComments(child.Data.Replies.Listing.Data.Children, out)
		}
	}
}

func (rc *RedditClient) get(ctx context.Context, requestUrl string, refreshed bool) ([]byte, error) {
	redditRateLimitMutex.Lock()
	time.Sleep(INITIAL_BACKOFF)
	redditRateLimitMutex.Unlock()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := rc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if refreshed {
			return nil, fmt.Errorf("[RedditClient] Still unauthorized after token refresh")
		}
		slog.Warn("[RedditClient] Token expired - Refreshing and Retrying...")
		rc.RefreshClient()
		return rc.get(ctx, requestUrl, true)
	case http.StatusTooManyRequests:
		slog.Warn("[RedditClient] 429 Too Many Requests - Retrying with backoff")
		return rc.retryWithBackoff(ctx, requestUrl)
	case http.StatusOK:
		bytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return bytes, nil
	}
	return nil, fmt.Errorf("[RedditClient] Unexpected status %d for %s", resp.StatusCode, requestUrl)
}

func (rc *RedditClient) retryWithBackoff(ctx context.Context, requestUrl string) ([]byte, error) {
	backoff := INITIAL_BACKOFF
	for i := 1; i < MAX_RETRIES; i++ {
		slog.Warn("[RedditClient] Retrying request",
			slog.Int("attempt", i), slog.Duration("backoff", backoff))

		time.Sleep(backoff)

		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}

		data, err := rc.get(ctx, requestUrl, true)
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("[RedditClient] Max retries reached request failed")
}
