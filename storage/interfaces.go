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


package storage

import (
	"context"

	"github.com/poiesic/answerit/core"
)

// VectorRepository stores (id, vector, text) entries and answers
// nearest-neighbor queries. Implementations must be thread-safe and support
// concurrent access; upserts are idempotent per entry ID.
type VectorRepository interface {
	// UpsertEntries writes a batch of index entries.
	// Every entry is expected to carry a valid vector; filtering of failed
	// embeddings is the caller's responsibility. A failed write is a hard
	// error for the calling request.
	UpsertEntries(ctx context.Context, entries []core.IndexEntry) error

	// QuerySimilar returns the payload texts of the topK entries most
	// similar to the given vector, ordered by descending similarity.
	QuerySimilar(ctx context.Context, vector []float32, topK int) ([]string, error)

	// Close closes the repository and releases resources.
	Close() error
}

// RunLogRepository persists one structured diagnostic record per request.
type RunLogRepository interface {
	// SaveRunLog persists the record and returns its storage location key.
	// Called exactly once per request, at request end.
	SaveRunLog(ctx context.Context, log *core.RunLog) (string, error)

	// GetRunLog retrieves a record by the key SaveRunLog returned.
	// Returns ErrNotFound if no record exists under the key.
	GetRunLog(ctx context.Context, key string) (*core.RunLog, error)

	// Close closes the repository and releases resources.
	Close() error
}
