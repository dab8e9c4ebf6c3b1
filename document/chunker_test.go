package document

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeTokens(n int) []string {
	tokens := make([]string, n)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("tok%d", i)
	}
	return tokens
}

func TestNewChunker(t *testing.T) {
	t.Run("valid configuration", func(t *testing.T) {
		c, err := NewChunker(300, 50)
		require.NoError(t, err)
		require.NotNil(t, c)
	})

	t.Run("overlap equal to size rejected", func(t *testing.T) {
		_, err := NewChunker(50, 50)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidChunking))
	})

	t.Run("overlap larger than size rejected", func(t *testing.T) {
		_, err := NewChunker(50, 100)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidChunking))
	})

	t.Run("negative overlap rejected", func(t *testing.T) {
		_, err := NewChunker(50, -1)
		require.Error(t, err)
	})

	t.Run("zero size rejected", func(t *testing.T) {
		_, err := NewChunker(0, 0)
		require.Error(t, err)
	})
}

func TestChunker_Chunk(t *testing.T) {
	t.Run("single page document with overlap", func(t *testing.T) {
		// 620 tokens, window 300, overlap 50: windows start every 250 tokens.
		c, err := NewChunker(300, 50)
		require.NoError(t, err)

		tokens := makeTokens(620)
		chunks := c.Chunk([]string{strings.Join(tokens, " ")})

		require.Len(t, chunks, 3)
		assert.Len(t, strings.Fields(chunks[0]), 300)
		assert.Len(t, strings.Fields(chunks[1]), 300)
		assert.Len(t, strings.Fields(chunks[2]), 120)

		// Token 250 of chunk 1 is token 0 of chunk 2.
		assert.Equal(t, strings.Fields(chunks[0])[250], strings.Fields(chunks[1])[0])

		// Consecutive chunks share exactly 50 tokens.
		tail := strings.Fields(chunks[0])[250:]
		head := strings.Fields(chunks[1])[:50]
		assert.Equal(t, tail, head)
	})

	t.Run("pages are concatenated in order", func(t *testing.T) {
		c, err := NewChunker(4, 1)
		require.NoError(t, err)

		chunks := c.Chunk([]string{"a b", "c d", "e"})
		require.NotEmpty(t, chunks)
		assert.Equal(t, "a b c d", chunks[0])
	})

	t.Run("short document yields single chunk", func(t *testing.T) {
		c, err := NewChunker(300, 50)
		require.NoError(t, err)

		chunks := c.Chunk([]string{"only a few tokens here"})
		require.Len(t, chunks, 1)
		assert.Equal(t, "only a few tokens here", chunks[0])
	})

	t.Run("empty pages yield no chunks", func(t *testing.T) {
		c, err := NewChunker(300, 50)
		require.NoError(t, err)

		assert.Empty(t, c.Chunk(nil))
		assert.Empty(t, c.Chunk([]string{"", "   ", "\n"}))
	})

	t.Run("chunk count follows ceil arithmetic", func(t *testing.T) {
		// N tokens, step = size-overlap: ceil(N/step) windows while the
		// start index stays below N.
		c, err := NewChunker(10, 3)
		require.NoError(t, err)

		tokens := makeTokens(25)
		chunks := c.Chunk([]string{strings.Join(tokens, " ")})
		// Starts at 0, 7, 14, 21.
		require.Len(t, chunks, 4)
		assert.Len(t, strings.Fields(chunks[3]), 4)
	})

	t.Run("zero overlap produces disjoint chunks", func(t *testing.T) {
		c, err := NewChunker(5, 0)
		require.NoError(t, err)

		tokens := makeTokens(12)
		chunks := c.Chunk([]string{strings.Join(tokens, " ")})
		require.Len(t, chunks, 3)
		assert.Equal(t, "tok5", strings.Fields(chunks[1])[0])
	})
}
