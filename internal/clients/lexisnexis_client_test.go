package clients

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexisSearch(t *testing.T) {
	var gotQuery map[string][]string
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{
			"@odata.count": 1,
			"value": [{
				"ResultId": "res-1",
				"Title": "Council weighs shelter funding",
				"Date": "2021-03-02T00:00:00Z",
				"Source": {"Name": "Kalamazoo Gazette"},
				"Document": {"DocumentId": "doc-1", "Content": "<bodytext><p>Shelter beds doubled.</p></bodytext>"}
			}]
		}`))
	})

	lc := &LexisNexisClient{Client: client, mu: &sync.Mutex{}}
	resp, err := lc.Search(context.Background(), `homeless AND "Kalamazoo"`, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{`homeless AND "Kalamazoo"`}, gotQuery["$search"])
	assert.Equal(t, []string{"Document"}, gotQuery["$expand"])
	assert.Equal(t, []string{"50"}, gotQuery["$top"])
	assert.NotContains(t, gotQuery, "$skip")

	assert.Equal(t, 1, resp.ODataCount)
	require.Len(t, resp.Value, 1)
	assert.Equal(t, "Council weighs shelter funding", resp.Value[0].Title)
	assert.Equal(t, "Kalamazoo Gazette", resp.Value[0].Source.Name)
	require.NotNil(t, resp.Value[0].Document)
	assert.Contains(t, resp.Value[0].Document.Content, "Shelter beds doubled.")
}

func TestLexisSearchSkipPage(t *testing.T) {
	var gotQuery map[string][]string
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"@odata.count": 0, "value": []}`))
	})

	lc := &LexisNexisClient{Client: client, mu: &sync.Mutex{}}
	_, err := lc.Search(context.Background(), "homeless", 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"50"}, gotQuery["$skip"])
}

func TestLexisSearchUnexpectedStatus(t *testing.T) {
	_, client := testServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})

	lc := &LexisNexisClient{Client: client, mu: &sync.Mutex{}}
	_, err := lc.Search(context.Background(), "homeless", 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Unexpected status 400")
}
