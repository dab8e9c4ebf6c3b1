package ingestion

import "errors"

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is not positive.
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrEmbedderRequired is returned when no embedder is provided.
	ErrEmbedderRequired = errors.New("embedder is required")

	// ErrCacheRequired is returned when no cache store is provided.
	ErrCacheRequired = errors.New("cache store is required")

	// ErrFetcherRequired is returned when no fetcher is provided.
	ErrFetcherRequired = errors.New("fetcher is required")

	// ErrChunkerRequired is returned when no chunker is provided.
	ErrChunkerRequired = errors.New("chunker is required")

	// ErrVectorRepositoryRequired is returned when no vector repository is provided.
	ErrVectorRepositoryRequired = errors.New("vector repository is required")
)
