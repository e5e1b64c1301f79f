package vectorstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/ternarybob/respondo/internal/interfaces"
)

func TestUpsert(t *testing.T) {
	var gotPath, gotKey string
	var gotBody upsertRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]int{"upsertedCount": 2})
	}))
	defer server.Close()

	client := New(Config{IndexHost: server.URL, APIKey: "pk-test"}, arbor.NewLogger())

	vectors := []interfaces.Vector{
		{ID: "a", Values: []float32{0.1, 0.2}, Metadata: map[string]interface{}{"text": "first"}},
		{ID: "b", Values: []float32{0.3, 0.4}},
	}
	require.NoError(t, client.Upsert(context.Background(), vectors, "support-kb"))

	assert.Equal(t, "/vectors/upsert", gotPath)
	assert.Equal(t, "pk-test", gotKey)
	assert.Equal(t, "support-kb", gotBody.Namespace)
	require.Len(t, gotBody.Vectors, 2)
	assert.Equal(t, "a", gotBody.Vectors[0].ID)
	assert.Equal(t, "first", gotBody.Vectors[0].Metadata["text"])
}

func TestQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/query", r.URL.Path)

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.TopK)
		assert.True(t, req.IncludeMetadata)

		json.NewEncoder(w).Encode(map[string]interface{}{
			"matches": []map[string]interface{}{
				{"id": "a", "score": 0.9, "metadata": map[string]interface{}{"text": "top hit"}},
				{"id": "b", "score": 0.5},
			},
		})
	}))
	defer server.Close()

	client := New(Config{IndexHost: server.URL, APIKey: "pk-test"}, arbor.NewLogger())

	matches, err := client.Query(context.Background(), []float32{0.1, 0.2}, "default", 3)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].ID)
	assert.Equal(t, 0.9, matches[0].Score)
	assert.Equal(t, "top hit", matches[0].Metadata["text"])
	assert.Equal(t, 0.5, matches[1].Score)
}

func TestQuery_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "index not found", http.StatusNotFound)
	}))
	defer server.Close()

	client := New(Config{IndexHost: server.URL, APIKey: "pk-test"}, arbor.NewLogger())

	_, err := client.Query(context.Background(), []float32{0.1}, "default", 3)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index not found")
}
