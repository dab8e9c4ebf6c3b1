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


package cache

import (
	"sync"
	"time"

	"github.com/poiesic/answerit/core"
)

// DocumentInfo records the completion of a document's ingestion.
type DocumentInfo struct {
	URL         string
	ProcessedAt time.Time
	ChunkCount  int
}

// Store is a process-lifetime memoization store for embeddings and
// processed-document status. It is safe for concurrent use. Entries are
// never evicted; persistence across restarts is out of scope.
type Store struct {
	mu         sync.RWMutex
	embeddings map[core.Fingerprint][]float32
	documents  map[core.Fingerprint]DocumentInfo
}

// NewStore creates an empty cache store.
func NewStore() *Store {
	return &Store{
		embeddings: make(map[core.Fingerprint][]float32),
		documents:  make(map[core.Fingerprint]DocumentInfo),
	}
}

// Embedding returns the cached vector for the given text, if present.
func (s *Store) Embedding(text string) ([]float32, bool) {
	key := core.FingerprintOf(text)
	s.mu.RLock()
	defer s.mu.RUnlock()
	vector, ok := s.embeddings[key]
	return vector, ok
}

// PutEmbedding caches the vector for the given text.
func (s *Store) PutEmbedding(text string, vector []float32) {
	key := core.FingerprintOf(text)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.embeddings[key] = vector
}

// IsDocumentProcessed reports whether the document at the given URL has
// completed ingestion. Presence of the key is the sole ingestion gate.
func (s *Store) IsDocumentProcessed(url string) bool {
	key := core.FingerprintOf(url)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.documents[key]
	return ok
}

// MarkDocumentProcessed records completion of a document's ingestion.
// Idempotent; calling twice overwrites with the latest values.
func (s *Store) MarkDocumentProcessed(url string, chunkCount int) {
	key := core.FingerprintOf(url)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[key] = DocumentInfo{
		URL:         url,
		ProcessedAt: time.Now().UTC(),
		ChunkCount:  chunkCount,
	}
}

// DocumentInfo returns the ingestion record for a URL, if present.
func (s *Store) DocumentInfo(url string) (DocumentInfo, bool) {
	key := core.FingerprintOf(url)
	s.mu.RLock()
	defer s.mu.RUnlock()
	info, ok := s.documents[key]
	return info, ok
}

// Len returns the number of cached embeddings and documents.
func (s *Store) Len() (embeddings, documents int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.embeddings), len(s.documents)
}
