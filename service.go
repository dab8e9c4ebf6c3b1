// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package answerit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/cache"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/document"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/search"
	"github.com/poiesic/answerit/storage"
)

// answerUnavailable is returned in place of an answer when a question's
// retrieval or generation fails after all retries. Other questions in the
// request are unaffected.
const answerUnavailable = "No answer could be generated for this question."

// Service runs the full document question answering flow: ingest the
// document once, then answer every question against the resulting index.
// A Service is safe for concurrent use across requests.
type Service struct {
	config       *Config
	cache        *cache.Store
	embedder     *ingestion.BatchEmbedder
	pipeline     *ingestion.Pipeline
	searcher     *search.Searcher
	answerer     ai.Answerer
	runLogs      storage.RunLogRepository
	questionPool *ants.Pool
	logger       *slog.Logger
}

// ServiceOption configures a Service.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	config  *Config
	fetcher ingestion.Fetcher
	extract func(raw []byte) ([]string, error)
	logger  *slog.Logger
}

// WithConfig overrides the default pipeline configuration.
func WithConfig(config *Config) ServiceOption {
	return func(o *serviceOptions) {
		if config != nil {
			o.config = config
		}
	}
}

// WithFetcher overrides the document fetcher.
func WithFetcher(fetcher ingestion.Fetcher) ServiceOption {
	return func(o *serviceOptions) {
		if fetcher != nil {
			o.fetcher = fetcher
		}
	}
}

// WithExtractor overrides the PDF page extractor used during ingestion.
func WithExtractor(extract func(raw []byte) ([]string, error)) ServiceOption {
	return func(o *serviceOptions) {
		if extract != nil {
			o.extract = extract
		}
	}
}

// WithServiceLogger sets a custom logger.
// Default is slog.Default().
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(o *serviceOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewService wires the ingestion pipeline, searcher, and answerer onto the
// given provider and repositories. The caller retains ownership of the
// provider and repositories and closes them after the service is released.
func NewService(
	provider ai.AIProvider,
	vectors storage.VectorRepository,
	runLogs storage.RunLogRepository,
	opts ...ServiceOption,
) (*Service, error) {
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if vectors == nil {
		return nil, ErrVectorRepositoryRequired
	}
	if runLogs == nil {
		return nil, ErrRunLogRepositoryRequired
	}

	options := &serviceOptions{
		config:  DefaultConfig(),
		fetcher: document.NewFetcher(),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	config := options.config
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store := cache.NewStore()

	chunker, err := document.NewChunker(config.ChunkSize, config.ChunkOverlap)
	if err != nil {
		return nil, err
	}

	embedder, err := ingestion.NewBatchEmbedder(provider.Embedder(), store,
		ingestion.WithBatchSize(config.BatchSize),
		ingestion.WithRetryPolicy(config.EmbedMaxAttempts, config.EmbedRetryBase),
		ingestion.WithEmbedderLogger(options.logger))
	if err != nil {
		return nil, err
	}

	pipelineOpts := []ingestion.Option{
		ingestion.WithUpsertBatchSize(config.UpsertBatchSize),
		ingestion.WithConcurrentUploads(config.ConcurrentUploads),
		ingestion.WithLogger(options.logger),
	}
	if options.extract != nil {
		pipelineOpts = append(pipelineOpts, ingestion.WithExtractor(options.extract))
	}

	pipeline, err := ingestion.NewPipeline(options.fetcher, chunker, embedder, vectors, store, pipelineOpts...)
	if err != nil {
		embedder.Release()
		return nil, err
	}

	searcher, err := search.NewSearcher(embedder, vectors,
		search.WithTopK(config.TopK),
		search.WithLogger(options.logger))
	if err != nil {
		pipeline.Release()
		embedder.Release()
		return nil, err
	}

	questionPool, err := ants.NewPool(config.QuestionWorkers)
	if err != nil {
		pipeline.Release()
		embedder.Release()
		return nil, err
	}

	return &Service{
		config:       config,
		cache:        store,
		embedder:     embedder,
		pipeline:     pipeline,
		searcher:     searcher,
		answerer:     provider.Answerer(),
		runLogs:      runLogs,
		questionPool: questionPool,
		logger:       options.logger,
	}, nil
}

// Process answers every question against the document at documentURL.
// The document is ingested on first sight and served from the cache on
// repeat requests. Answers are returned in question order. The returned
// location is the storage key of the request's diagnostic record, or empty
// if persisting it failed.
func (s *Service) Process(ctx context.Context, documentURL string, questions []string) ([]string, string, error) {
	if err := core.ValidateRequest(documentURL, questions); err != nil {
		return nil, "", err
	}

	requestID := uuid.NewString()[:8]
	logger := s.logger.With("requestID", requestID)
	totalStart := time.Now()

	runLog := &core.RunLog{
		RequestID:   requestID,
		Timestamp:   time.Now().UTC(),
		DocumentURL: documentURL,
		Questions:   questions,
	}

	if s.cache.IsDocumentProcessed(documentURL) {
		runLog.DocumentCached = true
		if info, ok := s.cache.DocumentInfo(documentURL); ok {
			runLog.NumChunks = info.ChunkCount
		}
		logger.Info("document served from cache", "url", documentURL)
	} else {
		result, err := s.pipeline.Ingest(ctx, documentURL)
		if err != nil {
			return nil, "", err
		}
		runLog.NumChunks = result.Chunks
		runLog.EmbeddingStats = result.Stats
		runLog.Timings.Fetch = result.FetchSeconds
		runLog.Timings.Chunking = result.ChunkSeconds
		runLog.Timings.Embedding = result.EmbedSeconds
		runLog.Timings.VectorStorage = result.StoreSeconds
	}

	answers, retrievalSecs, answerSecs, wall := s.answerAll(ctx, logger, questions)

	runLog.Answers = answers
	runLog.RetrievalSeconds = retrievalSecs
	runLog.AnswerSeconds = answerSecs
	runLog.Timings.QuestionWall = wall
	for i := range questions {
		runLog.Timings.RetrievalSum += retrievalSecs[i]
		runLog.Timings.AnswerSum += answerSecs[i]
	}
	runLog.Timings.Total = time.Since(totalStart).Seconds()

	location, err := s.runLogs.SaveRunLog(ctx, runLog)
	if err != nil {
		// Diagnostics must never fail a request that produced answers
		logger.Error("error persisting run log", "err", err)
		location = ""
	}

	logger.Info("request complete",
		"questions", len(questions),
		"cached", runLog.DocumentCached,
		"total", runLog.Timings.Total,
		"logLocation", location)

	return answers, location, nil
}

// answerAll runs retrieval and generation for every question in parallel,
// bounded by the question worker pool, and joins results in input order.
func (s *Service) answerAll(ctx context.Context, logger *slog.Logger, questions []string) (answers []string, retrievalSecs, answerSecs []float64, wall float64) {
	answers = make([]string, len(questions))
	retrievalSecs = make([]float64, len(questions))
	answerSecs = make([]float64, len(questions))

	start := time.Now()
	var wg sync.WaitGroup
	for i, question := range questions {
		wg.Add(1)
		task := func() {
			defer wg.Done()
			answers[i] = s.answerOne(ctx, logger, question, i, retrievalSecs, answerSecs)
		}
		if err := s.questionPool.Submit(task); err != nil {
			task()
		}
	}
	wg.Wait()

	return answers, retrievalSecs, answerSecs, time.Since(start).Seconds()
}

func (s *Service) answerOne(ctx context.Context, logger *slog.Logger, question string, idx int, retrievalSecs, answerSecs []float64) string {
	retrievalStart := time.Now()
	contexts, err := s.searcher.FindRelevant(ctx, question)
	retrievalSecs[idx] = time.Since(retrievalStart).Seconds()
	if err != nil {
		logger.Warn("retrieval failed", "question", idx, "err", err)
		return answerUnavailable
	}

	prompt := buildPrompt(contexts, question)

	answerStart := time.Now()
	var answer string
	err = ingestion.RetryWithBackoff(ctx, func() error {
		var answerErr error
		answer, answerErr = s.answerer.Answer(ctx, prompt)
		return answerErr
	}, s.config.AnswerMaxAttempts, s.config.AnswerRetryBase)
	answerSecs[idx] = time.Since(answerStart).Seconds()
	if err != nil {
		logger.Warn("answer generation failed", "question", idx, "err", err)
		return answerUnavailable
	}

	return answer
}

// Release releases the worker pools held by the service.
// The service should not be used after calling Release.
func (s *Service) Release() {
	if s.questionPool != nil {
		s.questionPool.Release()
	}
	if s.pipeline != nil {
		s.pipeline.Release()
	}
	if s.embedder != nil {
		s.embedder.Release()
	}
}
