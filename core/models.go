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


package core

import (
	"encoding/hex"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a deterministic content-derived cache key.
// Identical input always produces an identical fingerprint.
type Fingerprint string

// FingerprintOf computes the fingerprint of arbitrary text using BLAKE2b.
// It keys both the embedding cache and the processed-document cache.
func FingerprintOf(text string) Fingerprint {
	h, _ := blake2b.New(16, nil) // 16 bytes = 128 bits
	h.Write([]byte(text))
	return Fingerprint(hex.EncodeToString(h.Sum(nil)))
}

// Embedding is the result of embedding a single text.
// Valid is false when the text could not be embedded after all retry
// attempts. Invalid embeddings are carried through the pipeline, never
// dropped, so downstream consumers must filter explicitly.
type Embedding struct {
	Vector []float32
	Valid  bool
}

// IndexEntry is a (unique id, vector, payload text) triple persisted in the
// vector index. Entries are only created for chunks with a valid embedding.
type IndexEntry struct {
	ID     string
	Vector []float32
	Text   string
}

// EmbeddingStats summarizes the outcome of a batch embedding run.
type EmbeddingStats struct {
	Total     int `json:"total"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// StageTimings holds per-stage durations, in seconds, for a single request.
// Ingestion stages are zero for requests served from the document cache.
type StageTimings struct {
	Fetch         float64 `json:"fetch"`
	Chunking      float64 `json:"chunking"`
	Embedding     float64 `json:"embedding"`
	VectorStorage float64 `json:"vector_storage"`
	// QuestionWall is the wall-clock time of the parallel question phase.
	QuestionWall float64 `json:"question_wall"`
	// RetrievalSum and AnswerSum are the sums of the per-question durations,
	// i.e. the hypothetical sequential cost.
	RetrievalSum float64 `json:"retrieval_sum"`
	AnswerSum    float64 `json:"answer_sum"`
	Total        float64 `json:"total"`
}

// RunLog is the structured diagnostic record persisted once per request.
type RunLog struct {
	RequestID      string         `json:"request_id"`
	Timestamp      time.Time      `json:"timestamp"`
	DocumentURL    string         `json:"document_url"`
	Questions      []string       `json:"questions"`
	DocumentCached bool           `json:"document_cached"`
	NumChunks      int            `json:"num_chunks"`
	EmbeddingStats EmbeddingStats `json:"embedding_stats"`
	Timings        StageTimings   `json:"timings"`
	// Per-question durations, index-aligned with Questions.
	RetrievalSeconds []float64 `json:"retrieval_seconds"`
	AnswerSeconds    []float64 `json:"answer_seconds"`
	Answers          []string  `json:"answers"`
}
