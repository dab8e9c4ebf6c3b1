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


package badger

import (
	"context"
	"log/slog"
	"math"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// VectorRepository implements storage.VectorRepository on BadgerDB.
// Queries are a full cosine-similarity scan over stored entries, which is
// adequate for single-document corpora and test deployments.
type VectorRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// NewVectorRepository creates a vector repository on the given backend.
//
// Returns storage.VectorRepository interface to enforce abstraction.
func NewVectorRepository(backend *Backend) (storage.VectorRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &VectorRepository{
		backend: backend,
		logger:  slog.Default().With("component", "badger-vectors"),
	}, nil
}

// UpsertEntries writes a batch of index entries in one transaction.
func (r *VectorRepository) UpsertEntries(ctx context.Context, entries []core.IndexEntry) error {
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	if len(entries) == 0 {
		return nil
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		for i := range entries {
			key := makeVectorEntryKey(entries[i].ID)
			value := storage.MarshalIndexEntry(&entries[i])
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// QuerySimilar scans all entries and returns the payload texts of the topK
// most similar entries, ordered by descending cosine similarity.
func (r *VectorRepository) QuerySimilar(ctx context.Context, vector []float32, topK int) ([]string, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	type scored struct {
		text  string
		score float32
	}
	var results []scored

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(vectorEntryPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var entry *core.IndexEntry
			err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalIndexEntry(val)
				return err
			})
			if err != nil {
				return err
			}
			if entry == nil || len(entry.Vector) == 0 {
				continue
			}

			results = append(results, scored{
				text:  entry.Text,
				score: cosineSimilarity(vector, entry.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(results, func(a, b scored) int {
		if a.score > b.score {
			return -1
		}
		if a.score < b.score {
			return 1
		}
		return 0
	})
	if topK >= 0 && len(results) > topK {
		results = results[:topK]
	}

	texts := make([]string, len(results))
	for i, res := range results {
		texts[i] = res.text
	}
	return texts, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *VectorRepository) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Returns 0 when either vector has zero magnitude.
func cosineSimilarity(a, b []float32) float32 {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}

	var dot, normA, normB float32
	for i := 0; i < minLen; i++ {
		dot += a[i] * b[i]
	}
	for _, v := range a {
		normA += v * v
	}
	for _, v := range b {
		normB += v * v
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (float32(math.Sqrt(float64(normA))) * float32(math.Sqrt(float64(normB))))
}
