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
	"fmt"
	"time"
)

// Config holds the pipeline tuning knobs for a Service.
type Config struct {
	// ChunkSize is the token window size for document chunking.
	ChunkSize int

	// ChunkOverlap is the number of tokens shared by consecutive chunks.
	ChunkOverlap int

	// BatchSize caps the number of concurrent embedding requests.
	BatchSize int

	// EmbedMaxAttempts and EmbedRetryBase control per-text embedding retry.
	EmbedMaxAttempts int
	EmbedRetryBase   time.Duration

	// UpsertBatchSize is the number of entries per vector upload batch.
	UpsertBatchSize int

	// ConcurrentUploads caps the number of upload batches in flight.
	ConcurrentUploads int

	// TopK is the number of chunks retrieved per question.
	TopK int

	// QuestionWorkers caps the number of questions processed in parallel.
	QuestionWorkers int

	// AnswerMaxAttempts and AnswerRetryBase control answer generation retry.
	AnswerMaxAttempts int
	AnswerRetryBase   time.Duration
}

// DefaultConfig returns the default pipeline configuration.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:         300,
		ChunkOverlap:      50,
		BatchSize:         20,
		EmbedMaxAttempts:  3,
		EmbedRetryBase:    2 * time.Second,
		UpsertBatchSize:   50,
		ConcurrentUploads: 3,
		TopK:              10,
		QuestionWorkers:   8,
		AnswerMaxAttempts: 3,
		AnswerRetryBase:   2 * time.Second,
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.ChunkSize < 1 {
		return fmt.Errorf("chunk size must be at least 1, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", c.BatchSize)
	}
	if c.UpsertBatchSize < 1 {
		return fmt.Errorf("upsert batch size must be at least 1, got %d", c.UpsertBatchSize)
	}
	if c.ConcurrentUploads < 1 {
		return fmt.Errorf("concurrent uploads must be at least 1, got %d", c.ConcurrentUploads)
	}
	if c.TopK < 1 {
		return fmt.Errorf("topK must be at least 1, got %d", c.TopK)
	}
	if c.QuestionWorkers < 1 {
		return fmt.Errorf("question workers must be at least 1, got %d", c.QuestionWorkers)
	}
	if c.EmbedMaxAttempts < 1 || c.AnswerMaxAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	return nil
}
