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
	"errors"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

// RunLogRepository implements storage.RunLogRepository on BadgerDB.
// Records are stored as JSON under chronologically sortable keys.
type RunLogRepository struct {
	backend *Backend
	logger  *slog.Logger
}

var _ storage.RunLogRepository = (*RunLogRepository)(nil)

// NewRunLogRepository creates a run-log repository on the given backend.
//
// Returns storage.RunLogRepository interface to enforce abstraction.
func NewRunLogRepository(backend *Backend) (storage.RunLogRepository, error) {
	if backend == nil {
		return nil, ErrBackendRequired
	}
	return &RunLogRepository{
		backend: backend,
		logger:  slog.Default().With("component", "badger-runlogs"),
	}, nil
}

// SaveRunLog persists the record and returns its key.
func (r *RunLogRepository) SaveRunLog(ctx context.Context, log *core.RunLog) (string, error) {
	if r.backend.IsClosed() {
		return "", storage.ErrStorageClosed
	}

	key := makeRunLogKey(log.Timestamp, log.RequestID)
	value, err := storage.MarshalRunLog(log)
	if err != nil {
		return "", err
	}

	err = r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set([]byte(key), value); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return "", err
	}

	r.logger.Debug("run log saved", "key", key)
	return key, nil
}

// GetRunLog retrieves a record by key.
func (r *RunLogRepository) GetRunLog(ctx context.Context, key string) (*core.RunLog, error) {
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var result *core.RunLog
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalRunLog(val)
			return err
		})
	}, false)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Close is a no-op; the shared backend owns the database handle.
func (r *RunLogRepository) Close() error {
	return nil
}
