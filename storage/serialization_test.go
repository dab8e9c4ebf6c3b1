package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/answerit/core"
)

func TestIndexEntrySerialization(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		entry := &core.IndexEntry{
			ID:     "entry-1",
			Vector: []float32{0.25, -1.5, 3.75},
			Text:   "some chunk text with spaces and\nnewlines",
		}

		decoded, err := UnmarshalIndexEntry(MarshalIndexEntry(entry))
		require.NoError(t, err)
		assert.Equal(t, entry, decoded)
	})

	t.Run("empty text", func(t *testing.T) {
		entry := &core.IndexEntry{ID: "x", Vector: []float32{1}}

		decoded, err := UnmarshalIndexEntry(MarshalIndexEntry(entry))
		require.NoError(t, err)
		assert.Equal(t, "x", decoded.ID)
		assert.Equal(t, "", decoded.Text)
	})

	t.Run("truncated data", func(t *testing.T) {
		entry := &core.IndexEntry{ID: "entry-1", Vector: []float32{0.5}, Text: "text"}
		data := MarshalIndexEntry(entry)

		for _, n := range []int{0, 2, 6, len(data) - len(entry.Text) - 3} {
			_, err := UnmarshalIndexEntry(data[:n])
			assert.ErrorIs(t, err, ErrTruncatedData, "prefix of %d bytes", n)
		}
	})
}

func TestRunLogSerialization(t *testing.T) {
	log := &core.RunLog{
		RequestID:   "abc12345",
		Timestamp:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		DocumentURL: "https://example.com/doc.pdf",
		Questions:   []string{"q1", "q2"},
		NumChunks:   3,
		EmbeddingStats: core.EmbeddingStats{
			Total:     3,
			Succeeded: 2,
			Failed:    1,
		},
		RetrievalSeconds: []float64{0.1, 0.2},
		AnswerSeconds:    []float64{1.0, 1.1},
		Answers:          []string{"a1", "a2"},
	}

	data, err := MarshalRunLog(log)
	require.NoError(t, err)

	decoded, err := UnmarshalRunLog(data)
	require.NoError(t, err)
	assert.Equal(t, log, decoded)
}

func TestUnmarshalRunLog_Invalid(t *testing.T) {
	_, err := UnmarshalRunLog([]byte("{not json"))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
