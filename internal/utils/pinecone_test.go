package utils

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPineconeClient_Query(t *testing.T) {
	var gotKey string
	var gotBody pineconeQuery
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("Api-Key")
		require.Equal(t, "/query", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []map[string]interface{}{
				{"metadata": map[string]string{"text": "Verse one"}},
				{"metadata": map[string]string{"other": "no text key"}},
				{"metadata": map[string]string{"text": "Verse two"}},
			},
		})
	}))
	defer srv.Close()

	c := NewPineconeClient("pk-1", srv.URL)
	passages, err := c.Query(context.Background(), []float64{0.1}, 3, "gita")
	require.NoError(t, err)

	assert.Equal(t, []string{"Verse one", "Verse two"}, passages, "matches without text metadata are skipped")
	assert.Equal(t, "pk-1", gotKey)
	assert.Equal(t, 3, gotBody.TopK)
	assert.Equal(t, "gita", gotBody.Namespace)
	assert.True(t, gotBody.IncludeMetadata)
}

func TestVectorSearcher_EmbedsThenQueries(t *testing.T) {
	embedSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": []map[string]interface{}{{"embedding": []float64{0.5, 0.6}}},
		})
	}))
	defer embedSrv.Close()

	var gotVector []float64
	indexSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var q pineconeQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&q))
		gotVector = q.Vector
		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []map[string]interface{}{{"metadata": map[string]string{"text": "Passage"}}},
		})
	}))
	defer indexSrv.Close()

	embedder := NewMistralClient("k", "m", "e")
	embedder.BaseURL = embedSrv.URL
	searcher := NewVectorSearcher(embedder, NewPineconeClient("pk", indexSrv.URL))

	passages, err := searcher.Search(context.Background(), "anger", 3, "gita")
	require.NoError(t, err)
	assert.Equal(t, []string{"Passage"}, passages)
	assert.Equal(t, []float64{0.5, 0.6}, gotVector, "query vector is the embedding of the utterance")
}
