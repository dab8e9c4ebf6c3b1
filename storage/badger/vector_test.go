package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

func setupVectorRepository(t *testing.T) storage.VectorRepository {
	t.Helper()

	backend, err := OpenBackend(t.TempDir(), false)
	require.NoError(t, err)

	repo, err := NewVectorRepository(backend)
	require.NoError(t, err)

	t.Cleanup(func() {
		repo.Close()
		backend.Close()
	})
	return repo
}

func TestNewVectorRepository_RequiresBackend(t *testing.T) {
	_, err := NewVectorRepository(nil)
	assert.ErrorIs(t, err, ErrBackendRequired)
}

func TestVectorRepository_UpsertAndQuery(t *testing.T) {
	repo := setupVectorRepository(t)
	ctx := context.Background()

	entries := []core.IndexEntry{
		{ID: "a", Vector: []float32{1, 0, 0}, Text: "points along x"},
		{ID: "b", Vector: []float32{0, 1, 0}, Text: "points along y"},
		{ID: "c", Vector: []float32{0.9, 0.1, 0}, Text: "mostly x"},
	}
	require.NoError(t, repo.UpsertEntries(ctx, entries))

	texts, err := repo.QuerySimilar(ctx, []float32{1, 0, 0}, 2)
	require.NoError(t, err)
	require.Len(t, texts, 2)
	assert.Equal(t, "points along x", texts[0])
	assert.Equal(t, "mostly x", texts[1])
}

func TestVectorRepository_QueryRanksByDescendingSimilarity(t *testing.T) {
	repo := setupVectorRepository(t)
	ctx := context.Background()

	entries := []core.IndexEntry{
		{ID: "far", Vector: []float32{-1, 0}, Text: "opposite"},
		{ID: "near", Vector: []float32{1, 0.05}, Text: "close"},
		{ID: "mid", Vector: []float32{0.5, 0.5}, Text: "diagonal"},
	}
	require.NoError(t, repo.UpsertEntries(ctx, entries))

	texts, err := repo.QuerySimilar(ctx, []float32{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"close", "diagonal", "opposite"}, texts)
}

func TestVectorRepository_UpsertIsIdempotent(t *testing.T) {
	repo := setupVectorRepository(t)
	ctx := context.Background()

	entry := core.IndexEntry{ID: "a", Vector: []float32{1, 0}, Text: "v1"}
	require.NoError(t, repo.UpsertEntries(ctx, []core.IndexEntry{entry}))

	entry.Text = "v2"
	require.NoError(t, repo.UpsertEntries(ctx, []core.IndexEntry{entry}))

	texts, err := repo.QuerySimilar(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	require.Len(t, texts, 1, "same ID must overwrite, not duplicate")
	assert.Equal(t, "v2", texts[0])
}

func TestVectorRepository_EmptyUpsert(t *testing.T) {
	repo := setupVectorRepository(t)
	require.NoError(t, repo.UpsertEntries(context.Background(), nil))
}

func TestVectorRepository_QueryEmptyIndex(t *testing.T) {
	repo := setupVectorRepository(t)

	texts, err := repo.QuerySimilar(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, texts)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, cosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
	assert.Equal(t, float32(0), cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
