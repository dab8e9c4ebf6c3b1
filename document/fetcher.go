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


package document

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/poiesic/answerit/core"
)

const defaultFetchTimeout = 30 * time.Second

// Fetcher downloads remote documents over HTTP.
type Fetcher struct {
	client *http.Client
	logger *slog.Logger
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithHTTPClient sets the HTTP client used for downloads.
// Default is a client with a 30s timeout.
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithFetcherLogger sets a custom logger.
// Default is slog.Default().
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFetcher creates a document fetcher.
func NewFetcher(opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client: &http.Client{Timeout: defaultFetchTimeout},
		logger: slog.Default().With("component", "fetcher"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch downloads the document at the given URL and returns its raw bytes.
// Google Docs URLs are rewritten to their PDF export form first.
// Non-2xx responses and transport failures wrap core.ErrFetch.
func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	fetchURL := ConvertGoogleDocsURL(url)
	if fetchURL != url {
		f.logger.Debug("rewrote Google Docs URL", "url", fetchURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fetchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrFetch, err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Error("document download failed", "url", fetchURL, "err", err)
		return nil, fmt.Errorf("%w: %v", core.ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		f.logger.Error("document download returned bad status", "url", fetchURL, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: unexpected status %d", core.ErrFetch, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", core.ErrFetch, err)
	}

	f.logger.Debug("document downloaded", "url", fetchURL, "bytes", len(body))
	return body, nil
}

// ConvertGoogleDocsURL converts a Google Docs URL to its PDF export URL.
// Non-Google-Docs URLs are returned unchanged.
func ConvertGoogleDocsURL(url string) string {
	if !strings.Contains(url, "docs.google.com") {
		return url
	}

	if strings.Contains(url, "/document/d/") {
		docID := strings.SplitN(strings.SplitN(url, "/document/d/", 2)[1], "/", 2)[0]
		return "https://docs.google.com/document/d/" + docID + "/export?format=pdf"
	}
	if strings.Contains(url, "id=") {
		docID := strings.SplitN(strings.SplitN(url, "id=", 2)[1], "&", 2)[0]
		return "https://docs.google.com/document/d/" + docID + "/export?format=pdf"
	}
	// Shared-drive style links carry the ID after /d/
	if strings.Contains(url, "?usp=drive_link") || strings.Contains(url, "rtpof=true") {
		if strings.Contains(url, "/d/") {
			docID := strings.SplitN(strings.SplitN(url, "/d/", 2)[1], "/", 2)[0]
			return "https://docs.google.com/document/d/" + docID + "/export?format=pdf"
		}
	}
	return url
}
