package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/cache"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/document"
	"github.com/poiesic/answerit/storage"
)

// Fetcher retrieves a document's raw bytes from its source URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Pipeline runs a document through fetch, extraction, chunking, embedding,
// and vector upload, then marks the document processed in the cache.
type Pipeline struct {
	fetcher         Fetcher
	chunker         *document.Chunker
	embedder        *BatchEmbedder
	vectors         storage.VectorRepository
	cache           *cache.Store
	uploadPool      *ants.Pool
	upsertBatchSize int
	extract         func(raw []byte) ([]string, error)
	logger          *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithUpsertBatchSize sets the number of entries per upload batch.
// Default is 50. Values below 1 are raised to 1.
func WithUpsertBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		p.upsertBatchSize = size
		return nil
	}
}

// WithConcurrentUploads sets the maximum number of upload batches in flight.
// Default is 3.
func WithConcurrentUploads(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}

		if p.uploadPool != nil {
			p.uploadPool.Release()
		}

		pool, err := ants.NewPool(n)
		if err != nil {
			return err
		}
		p.uploadPool = pool
		return nil
	}
}

// WithExtractor overrides the page extractor. The default parses the
// fetched bytes as a PDF; an override allows ingesting other formats.
func WithExtractor(extract func(raw []byte) ([]string, error)) Option {
	return func(p *Pipeline) error {
		if extract != nil {
			p.extract = extract
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	fetcher Fetcher,
	chunker *document.Chunker,
	embedder *BatchEmbedder,
	vectors storage.VectorRepository,
	cacheStore *cache.Store,
	opts ...Option,
) (*Pipeline, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if cacheStore == nil {
		return nil, ErrCacheRequired
	}

	uploadPool, err := ants.NewPool(3)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		fetcher:         fetcher,
		chunker:         chunker,
		embedder:        embedder,
		vectors:         vectors,
		cache:           cacheStore,
		uploadPool:      uploadPool,
		upsertBatchSize: 50,
		extract:         document.ExtractPages,
		logger:          slog.Default(),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Result summarizes a completed ingestion run.
type Result struct {
	Chunks int
	Stats  core.EmbeddingStats

	// Stage durations in seconds.
	FetchSeconds float64
	ChunkSeconds float64
	EmbedSeconds float64
	StoreSeconds float64
}

// Ingest processes the document at the given URL end to end. The document
// is marked processed only after every upload batch has succeeded; any hard
// failure leaves the cache untouched so a later request retries from scratch.
// Chunks whose embedding failed are skipped at upload, not treated as errors.
func (p *Pipeline) Ingest(ctx context.Context, documentURL string) (*Result, error) {
	result := &Result{}

	fetchStart := time.Now()
	raw, err := p.fetcher.Fetch(ctx, documentURL)
	if err != nil {
		return nil, err
	}
	result.FetchSeconds = time.Since(fetchStart).Seconds()

	chunkStart := time.Now()
	pages, err := p.extract(raw)
	if err != nil {
		return nil, err
	}

	chunks := p.chunker.Chunk(pages)
	if len(chunks) == 0 {
		return nil, fmt.Errorf("document at %s produced no chunks: %w", documentURL, core.ErrEmptyDocument)
	}
	result.Chunks = len(chunks)
	result.ChunkSeconds = time.Since(chunkStart).Seconds()

	p.logger.Info("document chunked", "url", documentURL, "pages", len(pages), "chunks", len(chunks))

	embedStart := time.Now()
	embeddings, stats := p.embedder.EmbedAll(ctx, chunks)
	result.Stats = stats
	result.EmbedSeconds = time.Since(embedStart).Seconds()

	if stats.Failed > 0 {
		p.logger.Warn("some chunks failed to embed", "failed", stats.Failed, "total", stats.Total)
	}

	storeStart := time.Now()
	entries := make([]core.IndexEntry, 0, stats.Succeeded)
	for i, embedding := range embeddings {
		if !embedding.Valid {
			continue
		}
		entries = append(entries, core.IndexEntry{
			ID:     uuid.NewString(),
			Vector: embedding.Vector,
			Text:   chunks[i],
		})
	}

	if err := p.upload(ctx, entries); err != nil {
		return nil, err
	}
	result.StoreSeconds = time.Since(storeStart).Seconds()

	p.cache.MarkDocumentProcessed(documentURL, len(chunks))
	p.logger.Info("document ingested",
		"url", documentURL, "chunks", len(chunks), "indexed", len(entries))

	return result, nil
}

// upload writes entries in batches with bounded concurrency. Any batch
// failure fails the whole upload.
func (p *Pipeline) upload(ctx context.Context, entries []core.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		batchErrs []error
		batches   int
	)

	for start := 0; start < len(entries); start += p.upsertBatchSize {
		end := min(start+p.upsertBatchSize, len(entries))
		batch := entries[start:end]
		batches++

		wg.Add(1)
		task := func() {
			defer wg.Done()
			if err := p.vectors.UpsertEntries(ctx, batch); err != nil {
				mu.Lock()
				batchErrs = append(batchErrs, err)
				mu.Unlock()
			}
		}
		if err := p.uploadPool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	if len(batchErrs) > 0 {
		return fmt.Errorf("%w: %d of %d upload batches failed: %v",
			core.ErrIndexWrite, len(batchErrs), batches, batchErrs[0])
	}

	return nil
}

// Release releases the upload worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.uploadPool != nil {
		p.uploadPool.Release()
	}
}
