package ingestion

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/ai/mock"
	"github.com/poiesic/answerit/cache"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/document"
)

type stubFetcher struct {
	data []byte
	err  error
}

func (s *stubFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.data, nil
}

type stubVectorRepo struct {
	mu      sync.Mutex
	entries []core.IndexEntry
	batches int
	err     error
}

func (s *stubVectorRepo) UpsertEntries(ctx context.Context, entries []core.IndexEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entries...)
	s.batches++
	return nil
}

func (s *stubVectorRepo) QuerySimilar(ctx context.Context, vector []float32, topK int) ([]string, error) {
	return nil, nil
}

func (s *stubVectorRepo) Close() error { return nil }

func newTestPipeline(t *testing.T, fetcher Fetcher, embedder *mock.MockEmbedder, repo *stubVectorRepo, store *cache.Store, opts ...Option) *Pipeline {
	t.Helper()

	chunker, err := document.NewChunker(5, 1)
	require.NoError(t, err)

	batchEmbedder := newTestBatchEmbedder(t, embedder, store)

	// Bypass PDF parsing; page extraction is covered in the document package
	opts = append(opts, WithExtractor(func(raw []byte) ([]string, error) {
		return []string{string(raw)}, nil
	}))

	p, err := NewPipeline(fetcher, chunker, batchEmbedder, repo, store, opts...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w"
	}
	return strings.Join(parts, " ")
}

func TestNewPipeline_Validation(t *testing.T) {
	store := cache.NewStore()
	chunker, err := document.NewChunker(5, 1)
	require.NoError(t, err)
	embedder := newTestBatchEmbedder(t, mock.NewMockEmbedder(), store)
	repo := &stubVectorRepo{}
	fetcher := &stubFetcher{}

	_, err = NewPipeline(nil, chunker, embedder, repo, store)
	assert.ErrorIs(t, err, ErrFetcherRequired)

	_, err = NewPipeline(fetcher, nil, embedder, repo, store)
	assert.ErrorIs(t, err, ErrChunkerRequired)

	_, err = NewPipeline(fetcher, chunker, nil, repo, store)
	assert.ErrorIs(t, err, ErrEmbedderRequired)

	_, err = NewPipeline(fetcher, chunker, embedder, nil, store)
	assert.ErrorIs(t, err, ErrVectorRepositoryRequired)

	_, err = NewPipeline(fetcher, chunker, embedder, repo, nil)
	assert.ErrorIs(t, err, ErrCacheRequired)
}

func TestPipeline_Ingest(t *testing.T) {
	store := cache.NewStore()
	repo := &stubVectorRepo{}
	// 13 words, size 5, overlap 1 begets chunks at 0, 4, 8, 12
	fetcher := &stubFetcher{data: []byte(words(13))}
	p := newTestPipeline(t, fetcher, mock.NewMockEmbedder(), repo, store)

	result, err := p.Ingest(context.Background(), "https://example.com/doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, 4, result.Chunks)
	assert.Equal(t, 4, result.Stats.Succeeded)
	assert.Equal(t, 0, result.Stats.Failed)
	assert.Len(t, repo.entries, 4)

	for _, entry := range repo.entries {
		assert.NotEmpty(t, entry.ID)
		assert.NotEmpty(t, entry.Vector)
		assert.NotEmpty(t, entry.Text)
	}

	assert.True(t, store.IsDocumentProcessed("https://example.com/doc.pdf"))
	info, ok := store.DocumentInfo("https://example.com/doc.pdf")
	require.True(t, ok)
	assert.Equal(t, 4, info.ChunkCount)
}

func TestPipeline_Ingest_FetchFailure(t *testing.T) {
	store := cache.NewStore()
	fetchErr := core.ErrFetch
	p := newTestPipeline(t, &stubFetcher{err: fetchErr}, mock.NewMockEmbedder(), &stubVectorRepo{}, store)

	_, err := p.Ingest(context.Background(), "https://example.com/doc.pdf")
	require.ErrorIs(t, err, core.ErrFetch)
	assert.False(t, store.IsDocumentProcessed("https://example.com/doc.pdf"))
}

func TestPipeline_Ingest_EmptyDocument(t *testing.T) {
	store := cache.NewStore()
	p := newTestPipeline(t, &stubFetcher{data: []byte("   ")}, mock.NewMockEmbedder(), &stubVectorRepo{}, store)

	// Whitespace-only pages chunk to nothing
	_, err := p.Ingest(context.Background(), "https://example.com/blank.pdf")
	require.ErrorIs(t, err, core.ErrEmptyDocument)
	assert.False(t, store.IsDocumentProcessed("https://example.com/blank.pdf"))
}

func TestPipeline_Ingest_SkipsFailedEmbeddings(t *testing.T) {
	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if strings.Contains(text, "poison") {
			return nil, errors.New("permanent failure")
		}
		return mock.DeterministicVector(text, 8), nil
	}

	store := cache.NewStore()
	repo := &stubVectorRepo{}
	// 9 tokens, size 5, overlap 1: the final chunk is the lone "poison" token
	data := []byte(words(8) + " poison")
	p := newTestPipeline(t, &stubFetcher{data: data}, embedder, repo, store)

	result, err := p.Ingest(context.Background(), "https://example.com/doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Failed)
	assert.Len(t, repo.entries, result.Chunks-1, "failed chunk is skipped, not uploaded")
	assert.True(t, store.IsDocumentProcessed("https://example.com/doc.pdf"),
		"soft embedding failures do not block completion")
}

func TestPipeline_Ingest_UpsertFailure(t *testing.T) {
	store := cache.NewStore()
	repo := &stubVectorRepo{err: errors.New("index unavailable")}
	p := newTestPipeline(t, &stubFetcher{data: []byte(words(13))}, mock.NewMockEmbedder(), repo, store)

	_, err := p.Ingest(context.Background(), "https://example.com/doc.pdf")
	require.ErrorIs(t, err, core.ErrIndexWrite)
	assert.False(t, store.IsDocumentProcessed("https://example.com/doc.pdf"),
		"failed ingestion must stay retryable")
}

func TestPipeline_Ingest_BatchesUploads(t *testing.T) {
	store := cache.NewStore()
	repo := &stubVectorRepo{}
	// 21 words, size 5, overlap 1 begets chunks at 0, 4, 8, 12, 16, 20
	fetcher := &stubFetcher{data: []byte(words(21))}
	p := newTestPipeline(t, fetcher, mock.NewMockEmbedder(), repo, store,
		WithUpsertBatchSize(2), WithConcurrentUploads(2))

	result, err := p.Ingest(context.Background(), "https://example.com/doc.pdf")
	require.NoError(t, err)

	assert.Equal(t, 6, result.Chunks)
	assert.Len(t, repo.entries, 6)
	assert.Equal(t, 3, repo.batches, "6 entries in batches of 2")
	assert.Greater(t, result.StoreSeconds, float64(0))
}
