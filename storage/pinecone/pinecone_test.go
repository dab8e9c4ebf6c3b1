package pinecone

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/core"
)

func TestNewVectorRepository_Validation(t *testing.T) {
	_, err := NewVectorRepository("", "key")
	assert.ErrorIs(t, err, ErrHostRequired)

	_, err = NewVectorRepository("https://host", "")
	assert.ErrorIs(t, err, ErrAPIKeyRequired)
}

func TestVectorRepository_UpsertEntries(t *testing.T) {
	var got upsertRequest
	var gotAPIKey string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/vectors/upsert", r.URL.Path)
		gotAPIKey = r.Header.Get("Api-Key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		json.NewEncoder(w).Encode(map[string]int{"upsertedCount": len(got.Vectors)})
	}))
	defer srv.Close()

	repo, err := NewVectorRepository(srv.URL, "secret", WithNamespace("docs"))
	require.NoError(t, err)

	entries := []core.IndexEntry{
		{ID: "a", Vector: []float32{1, 2}, Text: "chunk a"},
		{ID: "b", Vector: []float32{3, 4}, Text: "chunk b"},
	}
	require.NoError(t, repo.UpsertEntries(context.Background(), entries))

	assert.Equal(t, "secret", gotAPIKey)
	assert.Equal(t, "docs", got.Namespace)
	require.Len(t, got.Vectors, 2)
	assert.Equal(t, "a", got.Vectors[0].ID)
	assert.Equal(t, "chunk a", got.Vectors[0].Metadata["text"])
}

func TestVectorRepository_UpsertEmptyIsNoop(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected for empty upsert")
	}))
	defer srv.Close()

	repo, err := NewVectorRepository(srv.URL, "secret")
	require.NoError(t, err)
	require.NoError(t, repo.UpsertEntries(context.Background(), nil))
}

func TestVectorRepository_QuerySimilar(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 2, req.TopK)
		assert.True(t, req.IncludeMetadata)

		json.NewEncoder(w).Encode(queryResponse{
			Matches: []struct {
				ID       string            `json:"id"`
				Score    float32           `json:"score"`
				Metadata map[string]string `json:"metadata"`
			}{
				{ID: "a", Score: 0.9, Metadata: map[string]string{"text": "first"}},
				{ID: "b", Score: 0.5, Metadata: map[string]string{"text": "second"}},
			},
		})
	}))
	defer srv.Close()

	repo, err := NewVectorRepository(srv.URL, "secret")
	require.NoError(t, err)

	texts, err := repo.QuerySimilar(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, texts)
}

func TestVectorRepository_BadStatusIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	repo, err := NewVectorRepository(srv.URL, "secret")
	require.NoError(t, err)

	err = repo.UpsertEntries(context.Background(), []core.IndexEntry{{ID: "a", Vector: []float32{1}}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
