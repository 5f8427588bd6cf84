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
	"strconv"
	"sync"
	"time"

	"golang.org/x/oauth2/clientcredentials"

	"github.com/peh-research/civicsift/internal/models"
)

const (
	LEXISNEXIS_AUTH_URL = "https://auth-api.lexisnexis.com/oauth/v2/token"
	LEXISNEXIS_NEWS_URL = "https://services-api.lexisnexis.com/v1/News"
	LEXISNEXIS_SCOPE    = "http://oauth.lexisnexis.com/all"

	// LEXISNEXIS_PAGE_SIZE is the $top value; the service caps at 50.
	LEXISNEXIS_PAGE_SIZE = 50
)

var (
	lexisClientInstance *LexisNexisClient
	lexisClientOnce     sync.Once
)

type LexisNexisClient struct {
	Config *clientcredentials.Config
	Client *http.Client
	mu     *sync.Mutex
}

func GetLexisNexisClient() *LexisNexisClient {
	lexisClientOnce.Do(func() {
		oauthConf := &clientcredentials.Config{
			ClientID:     os.Getenv("LEXISNEXIS_CLIENT_ID"),
			ClientSecret: os.Getenv("LEXISNEXIS_CLIENT_SECRET"),
			TokenURL:     LEXISNEXIS_AUTH_URL,
			Scopes:       []string{LEXISNEXIS_SCOPE},
		}

		lexisClientInstance = &LexisNexisClient{
			Config: oauthConf,
			Client: oauthConf.Client(context.Background()),
			mu:     &sync.Mutex{},
		}
	})
	return lexisClientInstance
}

func (lc *LexisNexisClient) RefreshClient() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.Client = lc.Config.Client(context.Background())
}

// Search runs one $skip page of an OData full-text query with the
// Document bodies expanded inline.
func (lc *LexisNexisClient) Search(ctx context.Context, query string, skip int) (*models.LexisSearchResponse, error) {
	parsedUrl, err := url.Parse(LEXISNEXIS_NEWS_URL)
	if err != nil {
		return nil, fmt.Errorf("[LexisNexisClient] Failed to parse URL: %w", err)
	}
	queryParams := parsedUrl.Query()
	queryParams.Add("$search", query)
	queryParams.Add("$expand", "Document")
	queryParams.Add("$top", strconv.Itoa(LEXISNEXIS_PAGE_SIZE))
	if skip > 0 {
		queryParams.Add("$skip", strconv.Itoa(skip))
	}
	parsedUrl.RawQuery = queryParams.Encode()

	body, err := lc.get(ctx, parsedUrl.String(), false)
	if err != nil {
		return nil, err
	}

	var response models.LexisSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("[LexisNexisClient] Failed to parse search response: %w", err)
	}
	return &response, nil
}

func (lc *LexisNexisClient) get(ctx context.Context, requestUrl string, refreshed bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestUrl, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", USER_AGENT)
	req.Header.Set("Accept", "application/json")

	resp, err := lc.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if refreshed {
			return nil, fmt.Errorf("[LexisNexisClient] Still unauthorized after token refresh")
		}
		slog.Warn("[LexisNexisClient] Token expired - Refreshing and Retrying...")
		lc.RefreshClient()
		return lc.get(ctx, requestUrl, true)
	case http.StatusTooManyRequests:
		slog.Warn("[LexisNexisClient] 429 Too Many Requests - Retrying with backoff")
		return lc.retryWithBackoff(ctx, requestUrl)
	case http.StatusOK:
		bytes, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		return bytes, nil
	}
	return nil, fmt.Errorf("[LexisNexisClient] Unexpected status %d for %s", resp.StatusCode, requestUrl)
}

func (lc *LexisNexisClient) retryWithBackoff(ctx context.Context, requestUrl string) ([]byte, error) {
	backoff := INITIAL_BACKOFF
	for i := 1; i < MAX_RETRIES; i++ {
		slog.Warn("[LexisNexisClient] Retrying request",
			slog.Int("attempt", i), slog.Duration("backoff", backoff))

		time.Sleep(backoff)

		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}

		data, err := lc.get(ctx, requestUrl, true)
		if err == nil {
			return data, nil
		}
	}
	return nil, fmt.Errorf("[LexisNexisClient] Max retries reached request failed")
}
