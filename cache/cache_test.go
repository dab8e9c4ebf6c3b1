package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Embeddings(t *testing.T) {
	s := NewStore()

	_, ok := s.Embedding("hello")
	assert.False(t, ok, "empty store should miss")

	s.PutEmbedding("hello", []float32{0.1, 0.2})

	vector, ok := s.Embedding("hello")
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, vector)

	_, ok = s.Embedding("other text")
	assert.False(t, ok, "different text should miss")
}

func TestStore_Documents(t *testing.T) {
	s := NewStore()
	url := "https://example.com/doc.pdf"

	assert.False(t, s.IsDocumentProcessed(url))

	s.MarkDocumentProcessed(url, 42)
	require.True(t, s.IsDocumentProcessed(url))

	info, ok := s.DocumentInfo(url)
	require.True(t, ok)
	assert.Equal(t, url, info.URL)
	assert.Equal(t, 42, info.ChunkCount)
	assert.False(t, info.ProcessedAt.IsZero())

	// Marking again is idempotent, last write wins.
	s.MarkDocumentProcessed(url, 50)
	info, _ = s.DocumentInfo(url)
	assert.Equal(t, 50, info.ChunkCount)

	assert.False(t, s.IsDocumentProcessed(url+"?other"))
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup

	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			text := fmt.Sprintf("text-%d", n%10)
			s.PutEmbedding(text, []float32{float32(n)})
			s.Embedding(text)
		}(i)
		go func(n int) {
			defer wg.Done()
			url := fmt.Sprintf("https://example.com/%d", n%10)
			s.MarkDocumentProcessed(url, n)
			s.IsDocumentProcessed(url)
		}(i)
	}
	wg.Wait()

	embeddings, documents := s.Len()
	assert.Equal(t, 10, embeddings)
	assert.Equal(t, 10, documents)
}
