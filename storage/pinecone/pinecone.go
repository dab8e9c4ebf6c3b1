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


package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/storage"
)

const defaultRequestTimeout = 30 * time.Second

// VectorRepository implements storage.VectorRepository against the Pinecone
// data-plane REST API.
type VectorRepository struct {
	host      string
	apiKey    string
	namespace string
	client    *http.Client
	logger    *slog.Logger
}

var _ storage.VectorRepository = (*VectorRepository)(nil)

// Option configures a VectorRepository.
type Option func(*VectorRepository)

// WithNamespace sets the Pinecone namespace for all operations.
func WithNamespace(namespace string) Option {
	return func(r *VectorRepository) {
		r.namespace = namespace
	}
}

// WithHTTPClient sets the HTTP client used for API calls.
// Default is a client with a 30s timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(r *VectorRepository) {
		if client != nil {
			r.client = client
		}
	}
}

// NewVectorRepository creates a repository for the Pinecone index served at
// host (e.g. "https://myindex-abc123.svc.us-east-1.pinecone.io").
//
// Returns storage.VectorRepository interface to enforce abstraction.
func NewVectorRepository(host, apiKey string, opts ...Option) (storage.VectorRepository, error) {
	if host == "" {
		return nil, ErrHostRequired
	}
	if apiKey == "" {
		return nil, ErrAPIKeyRequired
	}

	r := &VectorRepository{
		host:   strings.TrimSuffix(host, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: defaultRequestTimeout},
		logger: slog.Default().With("component", "pinecone"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type upsertVector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata"`
}

type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace,omitempty"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type queryResponse struct {
	Matches []struct {
		ID       string            `json:"id"`
		Score    float32           `json:"score"`
		Metadata map[string]string `json:"metadata"`
	} `json:"matches"`
}

// UpsertEntries writes a batch of index entries in one API call.
func (r *VectorRepository) UpsertEntries(ctx context.Context, entries []core.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}

	vectors := make([]upsertVector, len(entries))
	for i, entry := range entries {
		vectors[i] = upsertVector{
			ID:       entry.ID,
			Values:   entry.Vector,
			Metadata: map[string]string{"text": entry.Text},
		}
	}

	var resp struct {
		UpsertedCount int `json:"upsertedCount"`
	}
	if err := r.post(ctx, "/vectors/upsert", upsertRequest{Vectors: vectors, Namespace: r.namespace}, &resp); err != nil {
		return err
	}

	r.logger.Debug("upserted vectors", "count", resp.UpsertedCount)
	return nil
}

// QuerySimilar returns the payload texts of the topK nearest entries,
// ordered by descending similarity as ranked by the index.
func (r *VectorRepository) QuerySimilar(ctx context.Context, vector []float32, topK int) ([]string, error) {
	req := queryRequest{
		Vector:          vector,
		TopK:            topK,
		IncludeMetadata: true,
		Namespace:       r.namespace,
	}

	var resp queryResponse
	if err := r.post(ctx, "/query", req, &resp); err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		texts = append(texts, match.Metadata["text"])
	}
	return texts, nil
}

// Close is a no-op; the repository holds no persistent connections.
func (r *VectorRepository) Close() error {
	return nil
}

func (r *VectorRepository) post(ctx context.Context, path string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.host+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Api-Key", r.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Error("pinecone request failed", "path", path, "err", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		r.logger.Error("pinecone request returned bad status", "path", path, "status", resp.StatusCode)
		return fmt.Errorf("pinecone %s: status %d: %s", path, resp.StatusCode, string(detail))
	}

	if result == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(result)
}
