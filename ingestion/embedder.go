package ingestion

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/cache"
	"github.com/poiesic/answerit/core"
)

// BatchEmbedder embeds chunk texts with caching and per-text retry.
// Texts already present in the cache are not re-embedded. Each remaining
// text is embedded in its own request; requests run concurrently, capped
// at the batch size. A text whose embedding fails after all retry attempts
// yields an invalid entry in the result rather than failing the whole batch.
type BatchEmbedder struct {
	embedder       ai.Embedder
	cache          *cache.Store
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
	pool           *ants.Pool
	logger         *slog.Logger
}

// BatchEmbedderOption configures a BatchEmbedder.
type BatchEmbedderOption func(*BatchEmbedder) error

// WithBatchSize sets the number of concurrent embedding requests.
// Default is 20. Values below 1 are raised to 1.
func WithBatchSize(size int) BatchEmbedderOption {
	return func(b *BatchEmbedder) error {
		if size < 1 {
			size = 1
		}
		b.batchSize = size
		return nil
	}
}

// WithRetryPolicy sets the retry attempts and base backoff delay applied to
// each individual embedding request. Default is 3 attempts with a 2s base.
func WithRetryPolicy(maxAttempts int, baseDelay time.Duration) BatchEmbedderOption {
	return func(b *BatchEmbedder) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		b.maxAttempts = maxAttempts
		b.retryBaseDelay = baseDelay
		return nil
	}
}

// WithEmbedderLogger sets a custom logger.
// Default is slog.Default().
func WithEmbedderLogger(logger *slog.Logger) BatchEmbedderOption {
	return func(b *BatchEmbedder) error {
		if logger == nil {
			logger = slog.Default()
		}
		b.logger = logger
		return nil
	}
}

// NewBatchEmbedder creates a cache-aware batch embedder.
func NewBatchEmbedder(embedder ai.Embedder, cacheStore *cache.Store, opts ...BatchEmbedderOption) (*BatchEmbedder, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if cacheStore == nil {
		return nil, ErrCacheRequired
	}

	b := &BatchEmbedder{
		embedder:       embedder,
		cache:          cacheStore,
		batchSize:      20,
		maxAttempts:    3,
		retryBaseDelay: 2 * time.Second,
		logger:         slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(b); err != nil {
			return nil, err
		}
	}

	// Pool is sized after options so WithBatchSize takes effect
	pool, err := ants.NewPool(b.batchSize)
	if err != nil {
		return nil, err
	}
	b.pool = pool

	return b, nil
}

// EmbedAll embeds every text, returning one entry per input in input order.
// Cached texts are served without an API call; newly embedded texts are
// added to the cache. Entries for texts that fail after all retries have
// Valid set to false.
func (b *BatchEmbedder) EmbedAll(ctx context.Context, texts []string) ([]core.Embedding, core.EmbeddingStats) {
	results := make([]core.Embedding, len(texts))
	stats := core.EmbeddingStats{Total: len(texts)}

	var pending []int
	for i, text := range texts {
		if vector, ok := b.cache.Embedding(text); ok {
			results[i] = core.Embedding{Vector: vector, Valid: true}
			continue
		}
		pending = append(pending, i)
	}

	if cached := len(texts) - len(pending); cached > 0 {
		b.logger.Debug("embedding cache hits", "cached", cached, "pending", len(pending))
	}

	var wg sync.WaitGroup
	for _, idx := range pending {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			text := texts[idx]

			var vector []float32
			err := RetryWithBackoff(ctx, func() error {
				var embedErr error
				vector, embedErr = b.embedder.EmbedText(ctx, text)
				return embedErr
			}, b.maxAttempts, b.retryBaseDelay)
			if err != nil {
				b.logger.Warn("embedding failed after retries",
					"index", idx, "attempts", b.maxAttempts, "err", err)
				return
			}

			b.cache.PutEmbedding(text, vector)
			results[idx] = core.Embedding{Vector: vector, Valid: true}
		}
		// Run inline if the pool rejects the task (e.g. after Release)
		if err := b.pool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	for _, embedding := range results {
		if embedding.Valid {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
	}

	return results, stats
}

// Release releases the worker pool.
// The embedder should not be used after calling Release.
func (b *BatchEmbedder) Release() {
	if b.pool != nil {
		b.pool.Release()
	}
}
