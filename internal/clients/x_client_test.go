package clients

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateBearerRejected(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	xc := &XClient{Client: client, BearerToken: "bad-token"}
	err := xc.ValidateBearer(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestValidateBearerMissingToken(t *testing.T) {
	xc := &XClient{Client: &http.Client{}}
	require.Error(t, xc.ValidateBearer(context.Background()))
}

func TestCountAllPagination(t *testing.T) {
	calls := 0
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("next_token") == "" {
			w.Write([]byte(`{
				"data": [{"start": "2020-01-01T00:00:00Z", "end": "2020-01-02T00:00:00Z", "tweet_count": 4}],
				"meta": {"total_tweet_count": 4, "next_token": "page2"}
			}`))
			return
		}
		w.Write([]byte(`{
			"data": [{"start": "2020-01-02T00:00:00Z", "end": "2020-01-03T00:00:00Z", "tweet_count": 6}],
			"meta": {"total_tweet_count": 6}
		}`))
	})

	xc := &XClient{Client: client, BearerToken: "token"}
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC)

	buckets, total, err := xc.CountAll(context.Background(), "homeless", start, end)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, 10, total)
	require.Len(t, buckets, 2)
	assert.Equal(t, 4, buckets[0].TweetCount)
	assert.Equal(t, 6, buckets[1].TweetCount)
}

func TestSearchAllParsesExpansions(t *testing.T) {
	var gotQuery map[string][]string
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"data": [{"id": "1", "text": "RT @x: shelter beds", "author_id": "u1", "geo": {"place_id": "p1"}}],
			"includes": {
				"users": [{"id": "u1", "location": "Kalamazoo, MI"}],
				"places": [{"id": "p1", "full_name": "Kalamazoo", "country_code": "US", "place_type": "city"}]
			},
			"meta": {"result_count": 1}
		}`))
	})

	xc := &XClient{Client: client, BearerToken: "token"}
	start := time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	resp, err := xc.SearchAll(context.Background(), "homeless lang:en", start, end, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"homeless lang:en"}, gotQuery["query"])
	assert.Equal(t, []string{"author_id,geo.place_id"}, gotQuery["expansions"])
	assert.Equal(t, []string{"2015-01-01T00:00:00Z"}, gotQuery["start_time"])

	require.Len(t, resp.Data, 1)
	assert.Equal(t, "p1", resp.Data[0].Geo.PlaceID)
	require.Len(t, resp.Includes.Users, 1)
	assert.Equal(t, "Kalamazoo, MI", resp.Includes.Users[0].Location)
	require.Len(t, resp.Includes.Places, 1)
	assert.Equal(t, "city", resp.Includes.Places[0].PlaceType)
}
