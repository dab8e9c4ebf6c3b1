package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/storage"
)

// Searcher retrieves the chunk texts most relevant to a question.
// Questions are embedded through the same cache-aware embedder used for
// ingestion, so a repeated question costs no additional API call.
type Searcher struct {
	embedder *ingestion.BatchEmbedder
	vectors  storage.VectorRepository
	topK     int
	logger   *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithTopK sets the number of chunks retrieved per question.
// Default is 10. Values below 1 are raised to 1.
func WithTopK(k int) Option {
	return func(s *Searcher) error {
		if k < 1 {
			k = 1
		}
		s.topK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(embedder *ingestion.BatchEmbedder, vectors storage.VectorRepository, opts ...Option) (*Searcher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}

	s := &Searcher{
		embedder: embedder,
		vectors:  vectors,
		topK:     10,
		logger:   slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// FindRelevant embeds the question and returns the payload texts of the
// most similar index entries, best match first. Fewer than topK texts are
// returned when the index holds fewer entries.
func (s *Searcher) FindRelevant(ctx context.Context, question string) ([]string, error) {
	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}

	start := time.Now()
	embeddings, _ := s.embedder.EmbedAll(ctx, []string{question})
	if !embeddings[0].Valid {
		return nil, ErrQuestionEmbedding
	}

	texts, err := s.vectors.QuerySimilar(ctx, embeddings[0].Vector, s.topK)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("retrieval complete",
		"results", len(texts), "topK", s.topK, "duration", time.Since(start))

	return texts, nil
}
